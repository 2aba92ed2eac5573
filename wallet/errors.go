package wallet

import (
	"errors"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
)

var (
	// ErrNotConnected is returned by operations that require a prior successful Connect.
	ErrNotConnected = errors.New("wallet not connected")
	// ErrNotSupported is returned by operations that have no meaning for the wallet's provider
	// or chain. It is permanent for that combination and should not be retried.
	ErrNotSupported = errors.New("operation not supported by wallet")
	// ErrUnknownAddress is returned when an address is not among the wallet's known addresses.
	ErrUnknownAddress = errors.New("unknown address")
	// ErrConnectionFailed is returned when a provider handshake fails.
	ErrConnectionFailed = errors.New("wallet connection failed")
	// ErrUserRejected is returned when the user declines a connect or signing request.
	ErrUserRejected = errors.New("user rejected request")
	// ErrInvalidWallet is returned when an absent wallet is passed where one is required.
	ErrInvalidWallet = errors.New("invalid wallet")
)

// Kind classifies an error returned by a wallet or by the selection context.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnknownChain
	KindUnknownAddress
	KindNotConnected
	KindNotSupported
	KindConnectionFailed
	KindUserRejected
	KindInvalidWallet
)

var kindNames = map[Kind]string{
	KindUnknown:          "unknown",
	KindUnknownChain:     "unknown_chain",
	KindUnknownAddress:   "unknown_address",
	KindNotConnected:     "not_connected",
	KindNotSupported:     "not_supported",
	KindConnectionFailed: "connection_failed",
	KindUserRejected:     "user_rejected",
	KindInvalidWallet:    "invalid_wallet",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}

	return kindNames[KindUnknown]
}

// kindOrder is checked first to last. UserRejected precedes ConnectionFailed so that a
// rejection reported during a handshake keeps its more specific kind.
var kindOrder = []struct {
	err  error
	kind Kind
}{
	{chain.ErrUnknownChain, KindUnknownChain},
	{ErrUnknownAddress, KindUnknownAddress},
	{ErrInvalidWallet, KindInvalidWallet},
	{ErrNotSupported, KindNotSupported},
	{ErrNotConnected, KindNotConnected},
	{ErrUserRejected, KindUserRejected},
	{ErrConnectionFailed, KindConnectionFailed},
}

// KindOf returns the kind of err, or KindUnknown if err matches none of the sentinels.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, k := range kindOrder {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}

	return KindUnknown
}

// IsRetryable reports whether the caller may retry by connecting again.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindConnectionFailed, KindUserRejected:
		return true
	default:
		return false
	}
}
