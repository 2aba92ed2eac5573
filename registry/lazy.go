package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/pkg/logger"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet"
)

// ErrChainNotConfigured is returned when wallets are requested for a chain the LazyBuilder was
// not configured with, or whose family has no Loader.
var ErrChainNotConfigured = errors.New("chain not configured")

// Loader constructs the wallets of one chain family for a given chain.
type Loader interface {
	Load(ctx context.Context, id chain.ID) ([]wallet.Wallet, error)
}

// LoaderFunc adapts a function to a Loader.
type LoaderFunc func(ctx context.Context, id chain.ID) ([]wallet.Wallet, error)

func (f LoaderFunc) Load(ctx context.Context, id chain.ID) ([]wallet.Wallet, error) {
	return f(ctx, id)
}

// LazyBuilder loads wallets on demand, one chain at a time, through the Loader registered for the
// chain's family. Loaded wallets are cached, so a chain is loaded at most once.
type LazyBuilder struct {
	mu      sync.RWMutex
	loaded  map[chain.ID][]wallet.Wallet
	loading singleflight.Group

	loaders map[chain.Family]Loader
	chains  map[chain.ID]chain.Family
	lggr    logger.Logger
}

var _ Builder = (*LazyBuilder)(nil)

// NewLazyBuilder creates a LazyBuilder offering wallets for chains. loaders provides the Loader
// for each chain family. Every chain must be registered.
//
// Build loads every chain in parallel. A chain that fails to load is logged using lggr and
// skipped; the wallets of the other chains remain available.
func NewLazyBuilder(chains []chain.ID, loaders map[chain.Family]Loader, lggr logger.Logger) (*LazyBuilder, error) {
	families := make(map[chain.ID]chain.Family, len(chains))
	for _, id := range chains {
		f, err := chain.FamilyOf(id)
		if err != nil {
			return nil, err
		}
		families[id] = f
	}

	if lggr == nil {
		lggr = logger.Nop()
	}

	return &LazyBuilder{
		loaded:  make(map[chain.ID][]wallet.Wallet),
		loaders: loaders,
		chains:  families,
		lggr:    lggr.Named("registry"),
	}, nil
}

// Get returns the wallets of chain id, loading them if not already loaded. Concurrent calls for
// the same chain share one load.
func (l *LazyBuilder) Get(ctx context.Context, id chain.ID) ([]wallet.Wallet, error) {
	// Fast path: already loaded
	l.mu.RLock()
	ws, ok := l.loaded[id]
	l.mu.RUnlock()
	if ok {
		return slices.Clone(ws), nil
	}

	family, ok := l.chains[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChainNotConfigured, id)
	}
	loader, ok := l.loaders[family]
	if !ok {
		return nil, fmt.Errorf("%w: no loader for family %s", ErrChainNotConfigured, family)
	}

	v, err, _ := l.loading.Do(strconv.Itoa(int(id)), func() (any, error) {
		// Double-check, a previous flight may have finished
		l.mu.RLock()
		cached, ok := l.loaded[id]
		l.mu.RUnlock()
		if ok {
			return cached, nil
		}

		loadedWallets, err := loader.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, w := range loadedWallets {
			if w == nil {
				return nil, fmt.Errorf("%w: loader returned a nil wallet", wallet.ErrInvalidWallet)
			}
			if w.ChainID() != id {
				return nil, fmt.Errorf("%w: loader returned a %s wallet", wallet.ErrInvalidWallet, w.ChainID())
			}
		}

		l.mu.Lock()
		l.loaded[id] = loadedWallets
		l.mu.Unlock()

		return loadedWallets, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load wallets for chain %s: %w", id, err)
	}

	return slices.Clone(v.([]wallet.Wallet)), nil
}

// Exists reports whether chain id is configured (not necessarily loaded).
func (l *LazyBuilder) Exists(id chain.ID) bool {
	_, ok := l.chains[id]
	return ok
}

// ChainOption filters the chains a LazyBuilder lists or loads.
type ChainOption func(*chainOptions)

type chainOptions struct {
	includedFamilies map[chain.Family]struct{}
	excludedChains   map[chain.ID]struct{}
}

// WithFamily restricts to chains of family. It can be used more than once to include multiple
// families.
func WithFamily(family chain.Family) ChainOption {
	return func(o *chainOptions) {
		if o.includedFamilies == nil {
			o.includedFamilies = make(map[chain.Family]struct{})
		}
		o.includedFamilies[family] = struct{}{}
	}
}

// WithChainExclusion excludes specific chains.
func WithChainExclusion(ids ...chain.ID) ChainOption {
	return func(o *chainOptions) {
		if o.excludedChains == nil {
			o.excludedChains = make(map[chain.ID]struct{})
		}
		for _, id := range ids {
			o.excludedChains[id] = struct{}{}
		}
	}
}

// ListChains returns the configured chains in ascending order, with optional filtering.
func (l *LazyBuilder) ListChains(options ...ChainOption) []chain.ID {
	opts := chainOptions{}
	for _, option := range options {
		option(&opts)
	}

	ids := make([]chain.ID, 0, len(l.chains))
	for id, family := range l.chains {
		if opts.excludedChains != nil {
			if _, excluded := opts.excludedChains[id]; excluded {
				continue
			}
		}
		if opts.includedFamilies != nil {
			if _, ok := opts.includedFamilies[family]; !ok {
				continue
			}
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}

// TryBuild loads the selected chains in parallel. Successfully loaded chains are returned even
// when others fail; the error joins every failure.
func (l *LazyBuilder) TryBuild(ctx context.Context, options ...ChainOption) (AvailableWallets, error) {
	ids := l.ListChains(options...)
	out := make(AvailableWallets, len(ids))

	var errs []error
	for res := range l.loadParallel(ctx, ids) {
		if res.err != nil {
			errs = append(errs, res.err)
			continue
		}
		if len(res.wallets) > 0 {
			out[res.id] = res.wallets
		}
	}

	return out, errors.Join(errs...)
}

// Build loads every configured chain. Chains that fail to load are logged and skipped. Build
// only fails when ctx is done.
func (l *LazyBuilder) Build(ctx context.Context) (AvailableWallets, error) {
	return l.build(ctx)
}

// Only returns a Builder over the chains selected by options.
func (l *LazyBuilder) Only(options ...ChainOption) Builder {
	return BuilderFunc(func(ctx context.Context) (AvailableWallets, error) {
		return l.build(ctx, options...)
	})
}

func (l *LazyBuilder) build(ctx context.Context, options ...ChainOption) (AvailableWallets, error) {
	out, err := l.TryBuild(ctx, options...)
	if err != nil {
		l.lggr.Errorw("Failed to load wallets for one or more chains", "error", err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	l.lggr.Debugw("Loaded available wallets", "chains", len(out), "wallets", out.Len())

	return out, nil
}

type loadResult struct {
	id      chain.ID
	wallets []wallet.Wallet
	err     error
}

// loadParallel loads the chains in parallel and returns a channel of results. The channel is
// closed when all chains have been loaded.
func (l *LazyBuilder) loadParallel(ctx context.Context, ids []chain.ID) <-chan loadResult {
	results := make(chan loadResult, len(ids))
	var wg sync.WaitGroup

	for _, id := range ids {
		wg.Add(1)
		go func(id chain.ID) {
			defer wg.Done()
			ws, err := l.Get(ctx, id)
			results <- loadResult{id: id, wallets: ws, err: err}
		}(id)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}
