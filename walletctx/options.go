package walletctx

import (
	"github.com/smartcontractkit/chainlink-wallet-aggregator/pkg/logger"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/registry"
)

// Option configures a Context at construction.
type Option func(*options)

type options struct {
	static        registry.AvailableWallets
	builder       registry.Builder
	coalesceEVM   bool
	coalesceTerra bool
	lggr          logger.Logger
}

func defaultOptions() options {
	return options{
		coalesceEVM:   true,
		coalesceTerra: true,
		lggr:          logger.Nop(),
	}
}

// WithWallets makes m the available wallets from the start. It replaces any WithBuilder.
func WithWallets(m registry.AvailableWallets) Option {
	return func(o *options) {
		o.static = m.Clone()
		o.builder = nil
	}
}

// WithBuilder resolves the available wallets asynchronously through b. Until b returns the
// available wallets are empty. It replaces any WithWallets.
func WithBuilder(b registry.Builder) Option {
	return func(o *options) {
		o.builder = b
		o.static = nil
	}
}

// WithCoalesceEVMChains sets whether all EVM chains share the Ethereum selection slot. Defaults to
// true.
func WithCoalesceEVMChains(enabled bool) Option {
	return func(o *options) {
		o.coalesceEVM = enabled
	}
}

// WithCoalesceTerraChains sets whether Terra and Terra2 share the Terra2 selection slot. Defaults
// to true.
func WithCoalesceTerraChains(enabled bool) Option {
	return func(o *options) {
		o.coalesceTerra = enabled
	}
}

func WithLogger(lggr logger.Logger) Option {
	return func(o *options) {
		if lggr != nil {
			o.lggr = lggr
		}
	}
}
