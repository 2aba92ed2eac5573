// Package wallettest provides an in-memory wallet for tests of code built on the wallet contract.
package wallettest

import (
	"context"
	"sync/atomic"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet"
)

var _ wallet.Wallet = (*Fake)(nil)

// Fake is a wallet whose handshake returns a fixed address list. Configure the exported fields
// before the wallet is shared between goroutines.
type Fake struct {
	*wallet.Base

	Addrs []wallet.Address
	// ConnectErr, when set, is returned by every handshake.
	ConnectErr error
	// Gate, when set, blocks the handshake until it is closed or the context is done.
	Gate chan struct{}
	// Started, when set, receives once per handshake before the handshake blocks on Gate.
	Started chan struct{}

	handshakes atomic.Int32
}

// New returns a disconnected fake named name on chainID.
func New(chainID chain.ID, name string, addrs ...wallet.Address) *Fake {
	return &Fake{
		Base:  wallet.NewBase(chainID, wallet.Metadata{Name: name, URL: "https://" + name + ".example"}),
		Addrs: addrs,
	}
}

// Handshakes returns the number of handshakes run so far.
func (f *Fake) Handshakes() int {
	return int(f.handshakes.Load())
}

func (f *Fake) Connect(ctx context.Context) ([]wallet.Address, error) {
	return f.Base.Connect(ctx, f.handshake)
}

func (f *Fake) handshake(ctx context.Context) ([]wallet.Address, error) {
	f.handshakes.Add(1)

	if f.Started != nil {
		f.Started <- struct{}{}
	}
	if f.Gate != nil {
		select {
		case <-f.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.ConnectErr != nil {
		return nil, f.ConnectErr
	}

	return f.Addrs, nil
}

// ChangeAccounts simulates the provider reporting a new account list.
func (f *Fake) ChangeAccounts(addrs ...wallet.Address) error {
	return f.SetAddresses(addrs)
}

func (f *Fake) Disconnect(ctx context.Context) error {
	return f.Base.Disconnect(ctx, nil)
}

func (f *Fake) Balance(context.Context) (string, error) {
	if _, err := f.ConnectedAddress(); err != nil {
		return "", err
	}

	return "0", nil
}

// SignMessage is not supported by the fake.
func (f *Fake) SignMessage(context.Context, []byte) ([]byte, error) {
	return nil, wallet.ErrNotSupported
}
