// Package wallets provides CLI commands for inspecting the chains and wallets an application
// is configured with.
package wallets

import (
	"github.com/smartcontractkit/chainlink-wallet-aggregator/config"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/loader"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/pkg/logger"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/registry"
)

// ConfigLoaderFunc loads the wallet config. An empty path means the environment only.
type ConfigLoaderFunc func(path string) (*config.Config, error)

// BuilderFactoryFunc creates the wallet builder for a config.
type BuilderFactoryFunc func(cfg *config.Config, lggr logger.Logger) (registry.Builder, error)

func defaultConfigLoader(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadEnv()
	}

	return config.Load(path)
}

// Deps holds the injectable dependencies for wallet commands.
// All fields are optional; nil values will use production defaults.
type Deps struct {
	// ConfigLoader loads the config.
	// Default: config.Load, or config.LoadEnv without a path
	ConfigLoader ConfigLoaderFunc

	// BuilderFactory creates the wallet builder.
	// Default: loader.NewBuilder
	BuilderFactory BuilderFactoryFunc
}

// applyDefaults fills in nil dependencies with production defaults.
func (d *Deps) applyDefaults() {
	if d.ConfigLoader == nil {
		d.ConfigLoader = defaultConfigLoader
	}
	if d.BuilderFactory == nil {
		d.BuilderFactory = loader.NewBuilder
	}
}
