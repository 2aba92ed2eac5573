package walletctx

import (
	"maps"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/registry"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet"
)

// Snapshot is a copy of the Context state at one revision. Two snapshots with the same Revision
// describe the same state.
type Snapshot struct {
	Revision uint64
	// Wallets is keyed by selection slot.
	Wallets map[chain.ID]wallet.Wallet
	// Default is nil when nothing is selected.
	Default   wallet.Wallet
	Available registry.AvailableWallets
}

func newSnapshot(s *state) Snapshot {
	return Snapshot{
		Revision:  s.revision,
		Wallets:   maps.Clone(s.wallets),
		Default:   s.def,
		Available: s.available.Clone(),
	}
}

// Wallet returns the wallet selected for slot. The slot is not coalesced.
func (s Snapshot) Wallet(slot chain.ID) (wallet.Wallet, bool) {
	w, ok := s.Wallets[slot]
	return w, ok
}
