package registry

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/errgroup"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/pkg/logger"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet"
)

const (
	DefaultDetectAttempts uint = 10
	DefaultDetectDelay         = 100 * time.Millisecond
)

var errNotDetected = errors.New("wallet not detected")

// DetectOption configures Detect.
type DetectOption func(*detectOptions)

type detectOptions struct {
	attempts uint
	delay    time.Duration
	lggr     logger.Logger
}

// WithAttempts sets how many times each wallet's state is probed. Values below one are raised to
// one.
func WithAttempts(n uint) DetectOption {
	return func(o *detectOptions) {
		o.attempts = max(n, 1)
	}
}

// WithDelay sets the pause between two probes of the same wallet.
func WithDelay(d time.Duration) DetectOption {
	return func(o *detectOptions) {
		o.delay = d
	}
}

// WithDetectLogger logs the outcome of every probe.
func WithDetectLogger(lggr logger.Logger) DetectOption {
	return func(o *detectOptions) {
		if lggr != nil {
			o.lggr = lggr
		}
	}
}

// Detect probes every candidate's State until it leaves wallet.NotDetected or the attempts run
// out, and returns the wallets that ended Installed or Loadable. Wallets are probed concurrently,
// so Detect returns within roughly (attempts-1) x delay, or as soon as ctx is done. The order of
// wallets within a chain is preserved.
func Detect(ctx context.Context, candidates AvailableWallets, opts ...DetectOption) AvailableWallets {
	o := detectOptions{
		attempts: DefaultDetectAttempts,
		delay:    DefaultDetectDelay,
		lggr:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	type candidate struct {
		id   chain.ID
		w    wallet.Wallet
		keep bool
	}
	var flat []*candidate
	for _, id := range candidates.Chains() {
		for _, w := range candidates[id] {
			if w != nil {
				flat = append(flat, &candidate{id: id, w: w})
			}
		}
	}

	var g errgroup.Group
	for _, c := range flat {
		g.Go(func() error {
			c.keep = usable(ctx, c.w, o)
			return nil
		})
	}
	_ = g.Wait()

	out := make(AvailableWallets)
	for _, c := range flat {
		if c.keep {
			out[c.id] = append(out[c.id], c.w)
		}
	}

	return out
}

func usable(ctx context.Context, w wallet.Wallet, o detectOptions) bool {
	state, err := retry.DoWithData(func() (wallet.State, error) {
		s := w.State()
		if s == wallet.NotDetected {
			return s, errNotDetected
		}

		return s, nil
	},
		retry.Context(ctx),
		retry.Attempts(o.attempts),
		retry.Delay(o.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		o.lggr.Debugw("Wallet not detected", "wallet", w.Name(), "chain", w.ChainID(), "error", err)
		return false
	}

	o.lggr.Debugw("Wallet detected", "wallet", w.Name(), "chain", w.ChainID(), "state", state)

	return state == wallet.Installed || state == wallet.Loadable
}

// Detecting wraps b so that the wallets it builds are filtered through Detect.
func Detecting(b Builder, opts ...DetectOption) Builder {
	return BuilderFunc(func(ctx context.Context) (AvailableWallets, error) {
		candidates, err := b.Build(ctx)
		if err != nil {
			return nil, err
		}

		return Detect(ctx, candidates, opts...), nil
	})
}
