// Package registry builds the set of wallets a user can choose from, keyed by chain.
//
// A [Builder] produces an [AvailableWallets] map once. The map can be static, computed by an
// arbitrary function, loaded per chain family through a [LazyBuilder], or filtered by [Detect]
// down to the wallets whose provider is usable right now.
package registry

import (
	"context"
	"slices"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet"
)

// AvailableWallets maps a chain to the wallets offered for it. The map is not safe for
// concurrent mutation; builders hand out a fresh value and consumers treat it as read-only.
type AvailableWallets map[chain.ID][]wallet.Wallet

// NewAvailableWallets groups ws by the chain each wallet is bound to. Nil wallets are dropped.
func NewAvailableWallets(ws ...wallet.Wallet) AvailableWallets {
	m := make(AvailableWallets)
	for _, w := range ws {
		if w == nil {
			continue
		}
		id := w.ChainID()
		m[id] = append(m[id], w)
	}

	return m
}

// Chains returns, in ascending order, the chains with at least one wallet.
func (a AvailableWallets) Chains() []chain.ID {
	ids := make([]chain.ID, 0, len(a))
	for id, ws := range a {
		if len(ws) > 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	return ids
}

// For returns a copy of the wallets offered for id.
func (a AvailableWallets) For(id chain.ID) []wallet.Wallet {
	return slices.Clone(a[id])
}

// Clone returns a copy of the map whose slices can be modified independently.
func (a AvailableWallets) Clone() AvailableWallets {
	if a == nil {
		return make(AvailableWallets)
	}

	out := make(AvailableWallets, len(a))
	for id, ws := range a {
		out[id] = slices.Clone(ws)
	}

	return out
}

// Len returns the number of wallets across all chains.
func (a AvailableWallets) Len() int {
	n := 0
	for _, ws := range a {
		n += len(ws)
	}

	return n
}

// Builder produces the available wallets.
type Builder interface {
	Build(ctx context.Context) (AvailableWallets, error)
}

// BuilderFunc adapts a function to a Builder.
type BuilderFunc func(ctx context.Context) (AvailableWallets, error)

func (f BuilderFunc) Build(ctx context.Context) (AvailableWallets, error) {
	return f(ctx)
}

// Static returns a Builder that always yields a copy of m.
func Static(m AvailableWallets) Builder {
	snapshot := m.Clone()

	return BuilderFunc(func(context.Context) (AvailableWallets, error) {
		return snapshot.Clone(), nil
	})
}
