package wallet

import (
	"context"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
)

// Address is an account address in the textual form native to the wallet's chain family.
type Address string

func (a Address) String() string { return string(a) }

// State describes whether the provider behind a wallet can be used right now.
type State int

const (
	// Installed is the default: the provider is assumed usable.
	Installed State = iota
	NotDetected
	Loadable
	Unsupported
)

func (s State) String() string {
	switch s {
	case Installed:
		return "installed"
	case NotDetected:
		return "not_detected"
	case Loadable:
		return "loadable"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Wallet is one connectable, account-holding session with a single provider on a single chain,
// or on a chain family for multi-network providers.
//
// Wallets are constructed inert; no I/O happens before Connect. All methods are safe for
// concurrent use, but overlapping Connect and Disconnect calls on the same instance are the
// caller's to order.
type Wallet interface {
	// ID is unique per instance and stable for its lifetime. Two instances of the same provider
	// share a Name but never an ID.
	ID() string
	Name() string
	URL() string
	Icon() string

	// ChainID returns the chain the wallet is bound to. For multi-network providers this is the
	// currently selected network and may change, in which case an EventChanged with ChangeChain
	// is emitted.
	ChainID() chain.ID

	// Connect establishes a provider session and returns the known addresses. On success at
	// least one address is returned and EventConnect is emitted. Failures are of kind
	// ConnectionFailed or UserRejected.
	Connect(ctx context.Context) ([]Address, error)
	// Disconnect releases provider resources and clears account data. It is a no-op when not
	// connected, and emits EventDisconnect otherwise.
	Disconnect(ctx context.Context) error
	IsConnected() bool

	// Address returns the main address, if any.
	Address() (Address, bool)
	Addresses() []Address
	// SetMainAddress switches the main address without I/O. It fails with ErrUnknownAddress
	// if addr is not among Addresses.
	SetMainAddress(addr Address) error

	// Balance returns the chain-native balance of the main address in the chain's smallest
	// unit, as a decimal string.
	Balance(ctx context.Context) (string, error)
	SignMessage(ctx context.Context, msg []byte) ([]byte, error)

	State() State
	Subscribe(l Listener) (unsubscribe func())
}

// SendTransactionResult is the outcome of submitting a transaction.
type SendTransactionResult struct {
	// ID is the chain-native transaction identifier (hash or digest). Always set.
	ID string
	// Data is optional provider-specific receipt detail.
	Data any
}

// Signer is the three-stage transaction pipeline. Tx and SignedTx are the chain SDK's own types.
type Signer[Tx, SignedTx any] interface {
	SignTransaction(ctx context.Context, tx Tx) (SignedTx, error)
	SendTransaction(ctx context.Context, signed SignedTx) (SendTransactionResult, error)
	SignAndSendTransaction(ctx context.Context, tx Tx) (SendTransactionResult, error)
}

// TxWallet is a Wallet that can also sign and submit transactions.
type TxWallet[Tx, SignedTx any] interface {
	Wallet
	Signer[Tx, SignedTx]
}

// ChainSwitcher is implemented by wallets whose provider spans several networks of one family.
type ChainSwitcher interface {
	SupportsChain(id chain.ID) bool
	SwitchChain(ctx context.Context, id chain.ID) error
}
