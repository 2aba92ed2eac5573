// Package walletctx tracks which wallet the user selected for each chain.
//
// A Context holds one selection slot per coalesced chain and a default wallet that always aliases
// the most recently selected one. By default every EVM chain shares the Ethereum slot and both
// Terra chains share the Terra2 slot, so selecting a BSC wallet replaces the user's Ethereum
// selection.
//
// State is copy-on-write: every transition publishes a new immutable state value, so readers never
// block and a Snapshot is never mutated after it is handed out.
package walletctx

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/pkg/logger"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/registry"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet"
)

// state is published whole and never modified afterwards.
type state struct {
	revision  uint64
	wallets   map[chain.ID]wallet.Wallet
	def       wallet.Wallet
	available registry.AvailableWallets
}

// Context is the wallet selection state machine. It is safe for concurrent use.
type Context struct {
	coalesceEVM   bool
	coalesceTerra bool
	lggr          logger.Logger

	// mu serialises transitions. Readers load cur without it.
	mu  sync.Mutex
	cur atomic.Pointer[state]

	ready    chan struct{}
	availErr atomic.Pointer[error]

	subs subscribers
}

// New returns a Context with no selection. With WithBuilder the available wallets are resolved in
// the background using ctx; Ready is closed once that finishes.
func New(ctx context.Context, opts ...Option) *Context {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Context{
		coalesceEVM:   o.coalesceEVM,
		coalesceTerra: o.coalesceTerra,
		lggr:          o.lggr.Named("walletctx"),
		ready:         make(chan struct{}),
	}
	c.subs.lggr = c.lggr

	available := o.static
	if available == nil {
		available = make(registry.AvailableWallets)
	}
	c.cur.Store(&state{
		wallets:   make(map[chain.ID]wallet.Wallet),
		available: available,
	})

	if o.builder == nil {
		close(c.ready)
		return c
	}

	go c.resolve(ctx, o.builder)

	return c
}

// CoalesceChainID returns the selection slot of id: Ethereum for EVM chains and Terra2 for Terra
// chains when the corresponding coalescing is enabled, id itself otherwise.
func (c *Context) CoalesceChainID(id chain.ID) chain.ID {
	switch {
	case c.coalesceEVM && chain.IsEVMChain(id):
		return chain.Ethereum
	case c.coalesceTerra && chain.IsTerraChain(id):
		return chain.Terra2
	default:
		return id
	}
}

// ChangeWallet selects w for the slot of its chain and makes it the default wallet. A previous
// selection in the same slot is replaced.
func (c *Context) ChangeWallet(w wallet.Wallet) error {
	if isNil(w) {
		return fmt.Errorf("%w: wallet is nil", wallet.ErrInvalidWallet)
	}

	slot := c.CoalesceChainID(w.ChainID())

	c.mu.Lock()
	prev := c.cur.Load()
	wallets := maps.Clone(prev.wallets)
	wallets[slot] = w
	next := c.publishLocked(prev, wallets, w, prev.available)
	c.mu.Unlock()

	c.lggr.Infow("Wallet selected", "wallet", w.Name(), "walletID", w.ID(), "chain", w.ChainID(), "slot", slot)
	c.subs.notify(next)

	return nil
}

// UnsetWalletFromChain clears the slot id coalesces to. When the cleared wallet was the default,
// the selected wallet with the lowest slot becomes the default, or there is none left. Clearing
// an empty slot does nothing.
func (c *Context) UnsetWalletFromChain(id chain.ID) {
	slot := c.CoalesceChainID(id)

	c.mu.Lock()
	prev := c.cur.Load()
	removed, ok := prev.wallets[slot]
	if !ok {
		c.mu.Unlock()
		return
	}

	wallets := maps.Clone(prev.wallets)
	delete(wallets, slot)

	def := prev.def
	if def != nil && def.ID() == removed.ID() {
		def = nil
		if len(wallets) > 0 {
			def = wallets[slices.Min(slices.Collect(maps.Keys(wallets)))]
		}
	}
	next := c.publishLocked(prev, wallets, def, prev.available)
	c.mu.Unlock()

	c.lggr.Infow("Wallet unset", "wallet", removed.Name(), "walletID", removed.ID(), "slot", slot)
	c.subs.notify(next)
}

// publishLocked stores the successor of prev. c.mu must be held.
func (c *Context) publishLocked(
	prev *state,
	wallets map[chain.ID]wallet.Wallet,
	def wallet.Wallet,
	available registry.AvailableWallets,
) *state {
	next := &state{
		revision:  prev.revision + 1,
		wallets:   wallets,
		def:       def,
		available: available,
	}
	c.cur.Store(next)

	return next
}

func (c *Context) resolve(ctx context.Context, b registry.Builder) {
	defer close(c.ready)

	available, err := build(ctx, b)
	if err != nil {
		c.lggr.Errorw("Failed to build available wallets", "error", err)
		c.availErr.Store(&err)

		return
	}

	c.mu.Lock()
	prev := c.cur.Load()
	next := c.publishLocked(prev, prev.wallets, prev.def, available.Clone())
	c.mu.Unlock()

	c.lggr.Infow("Available wallets resolved", "chains", len(available.Chains()), "wallets", available.Len())
	c.subs.notify(next)
}

func build(ctx context.Context, b registry.Builder) (available registry.AvailableWallets, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("wallet builder panicked: %v", r)
		}
	}()

	return b.Build(ctx)
}

// Ready is closed once the available wallets are final: immediately for a static map, when the
// builder returns otherwise.
func (c *Context) Ready() <-chan struct{} {
	return c.ready
}

// AvailabilityErr returns the builder's error, if it failed. The available wallets then stay
// empty.
func (c *Context) AvailabilityErr() error {
	if p := c.availErr.Load(); p != nil {
		return *p
	}

	return nil
}

// WaitReady blocks until Ready is closed or ctx is done, and returns the builder's error if any.
func (c *Context) WaitReady(ctx context.Context) error {
	select {
	case <-c.ready:
		return c.AvailabilityErr()
	case <-ctx.Done():
		return errors.Join(ctx.Err(), c.AvailabilityErr())
	}
}

// Wallet returns the wallet selected for the slot id coalesces to.
func (c *Context) Wallet(id chain.ID) (wallet.Wallet, bool) {
	w, ok := c.cur.Load().wallets[c.CoalesceChainID(id)]
	return w, ok
}

// DefaultWallet returns the most recently selected wallet that is still selected.
func (c *Context) DefaultWallet() (wallet.Wallet, bool) {
	w := c.cur.Load().def
	return w, w != nil
}

// Wallets returns the selected wallets keyed by slot.
func (c *Context) Wallets() map[chain.ID]wallet.Wallet {
	return maps.Clone(c.cur.Load().wallets)
}

// AvailableWallets returns the wallets a user can choose from.
func (c *Context) AvailableWallets() registry.AvailableWallets {
	return c.cur.Load().available.Clone()
}

// AvailableWalletsFor returns the wallets a user can choose from for chain id.
func (c *Context) AvailableWalletsFor(id chain.ID) []wallet.Wallet {
	return c.cur.Load().available.For(id)
}

// ChainsWithWallets returns the chains with at least one available wallet, in ascending order.
func (c *Context) ChainsWithWallets() []chain.ID {
	return c.cur.Load().available.Chains()
}

// Revision increases by one on every transition, including availability resolution.
func (c *Context) Revision() uint64 {
	return c.cur.Load().revision
}

// Snapshot returns the current state.
func (c *Context) Snapshot() Snapshot {
	return newSnapshot(c.cur.Load())
}

// Subscribe registers fn to receive a Snapshot after every transition. Snapshots are delivered one
// at a time in increasing revision order; when transitions race, a revision already superseded by
// a delivered one is skipped. fn may call back into the Context. The returned function unregisters
// fn.
func (c *Context) Subscribe(fn func(Snapshot)) func() {
	return c.subs.subscribe(fn)
}

func isNil(w wallet.Wallet) bool {
	if w == nil {
		return true
	}
	v := reflect.ValueOf(w)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
