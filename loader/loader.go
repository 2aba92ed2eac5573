// Package loader turns a config.Config into the wallet builder and wallet context of an
// application.
package loader

import (
	"context"
	"fmt"
	"slices"

	solrpc "github.com/gagliardetto/solana-go/rpc"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/config"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/pkg/logger"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/registry"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet/aptos"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet/cosmos"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet/evm"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet/solana"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet/sui"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/walletctx"
)

// NewBuilder returns a builder offering a key wallet on every chain cfg has a key for. Wallets
// are constructed lazily, one chain family at a time; when detection is enabled the result is
// filtered through registry.Detect.
func NewBuilder(cfg *config.Config, lggr logger.Logger) (registry.Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if lggr == nil {
		lggr = logger.Nop()
	}

	loaders, chains := newWalletLoaders(lggr, cfg)

	lazy, err := registry.NewLazyBuilder(chains, loaders, lggr)
	if err != nil {
		return nil, err
	}

	var b registry.Builder = lazy
	if cfg.Detection.Enabled {
		b = registry.Detecting(lazy, append(cfg.DetectOptions(), registry.WithDetectLogger(lggr))...)
	}

	lggr.Infow("Configured wallet builder", "chains", chains, "config", cfg.Redacted())

	return b, nil
}

// NewContext builds the wallet context described by cfg. The available wallets resolve in the
// background; see walletctx.Context.Ready.
func NewContext(ctx context.Context, cfg *config.Config, lggr logger.Logger) (*walletctx.Context, error) {
	b, err := NewBuilder(cfg, lggr)
	if err != nil {
		return nil, err
	}

	opts := append(cfg.ContextOptions(), walletctx.WithBuilder(b))
	if lggr != nil {
		opts = append(opts, walletctx.WithLogger(lggr))
	}

	return walletctx.New(ctx, opts...), nil
}

// newWalletLoaders returns a loader for each chain family whose secrets are present, and the
// chains to offer wallets on. A family without its secret is skipped and logged.
func newWalletLoaders(lggr logger.Logger, cfg *config.Config) (map[chain.Family]registry.Loader, []chain.ID) {
	loaders := map[chain.Family]registry.Loader{}
	var chains []chain.ID

	if cfg.EVM.PrivateKey != "" {
		// validated by cfg.Validate
		ids, _ := config.ChainIDs("evm.rpc_urls", cfg.EVM.RPCURLs, chain.IsEVMChain)
		if len(ids) == 0 {
			ids = []chain.ID{chain.Ethereum}
		}
		loaders[chain.FamilyEVM] = newWalletLoaderEVM(cfg.EVM)
		chains = append(chains, ids...)
	} else {
		lggr.Info("Skipping EVM wallets, no private key found in config")
	}

	if cfg.Solana.PrivateKey != "" {
		loaders[chain.FamilySolana] = &walletLoaderSolana{cfg: cfg.Solana}
		chains = append(chains, chain.Solana)
	} else {
		lggr.Info("Skipping Solana wallets, no private key found in config")
	}

	if cfg.Aptos.PrivateKey != "" {
		loaders[chain.FamilyAptos] = &walletLoaderAptos{cfg: cfg.Aptos}
		chains = append(chains, chain.Aptos)
	} else {
		lggr.Info("Skipping Aptos wallets, no private key found in config")
	}

	if cfg.Sui.PrivateKey != "" || cfg.Sui.Mnemonic != "" {
		loaders[chain.FamilySui] = &walletLoaderSui{cfg: cfg.Sui}
		chains = append(chains, chain.Sui)
	} else {
		lggr.Info("Skipping Sui wallets, no private key or mnemonic found in config")
	}

	if cfg.Cosmos.PrivateKey != "" {
		ids, _ := config.ChainIDs("cosmos.lcd_urls", cfg.Cosmos.LCDURLs, chain.IsCosmWasmChain)
		if len(ids) == 0 {
			ids = []chain.ID{chain.Terra2}
		}
		loaders[chain.FamilyCosmos] = &walletLoaderCosmos{cfg: cfg.Cosmos}
		chains = append(chains, ids...)
	} else {
		lggr.Info("Skipping Cosmos wallets, no private key found in config")
	}

	slices.Sort(chains)

	return loaders, chains
}

var (
	_ registry.Loader = &walletLoaderEVM{}
	_ registry.Loader = &walletLoaderSolana{}
	_ registry.Loader = &walletLoaderAptos{}
	_ registry.Loader = &walletLoaderSui{}
	_ registry.Loader = &walletLoaderCosmos{}
)

// walletLoaderEVM implements registry.Loader for EVM chains. All chains share one dialer.
type walletLoaderEVM struct {
	cfg    config.EVMConfig
	dialer evm.Dialer
}

func newWalletLoaderEVM(cfg config.EVMConfig) *walletLoaderEVM {
	l := &walletLoaderEVM{cfg: cfg}

	urls := make(map[chain.ID]string, len(cfg.RPCURLs))
	for name, url := range cfg.RPCURLs {
		if id, err := chain.ToChainID(chain.Name(name)); err == nil {
			urls[id] = url
		}
	}
	if len(urls) > 0 {
		l.dialer = evm.RPCDialer(urls, cfg.DialAttempts, cfg.DialDelay)
	}

	return l
}

// Load loads the EVM key wallet for a chain.
func (l *walletLoaderEVM) Load(_ context.Context, id chain.ID) ([]wallet.Wallet, error) {
	w, err := evm.New(id, evm.Config{PrivateKey: l.cfg.PrivateKey, Dialer: l.dialer})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize EVM wallet for %s: %w", id, err)
	}

	return []wallet.Wallet{w}, nil
}

// walletLoaderSolana implements registry.Loader for Solana.
type walletLoaderSolana struct {
	cfg config.SolanaConfig
}

// Load loads the Solana key wallet.
func (l *walletLoaderSolana) Load(_ context.Context, id chain.ID) ([]wallet.Wallet, error) {
	scfg := solana.Config{PrivateKey: l.cfg.PrivateKey}
	if l.cfg.RPCURL != "" {
		scfg.Client = solrpc.New(l.cfg.RPCURL)
	}

	w, err := solana.New(id, scfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Solana wallet for %s: %w", id, err)
	}

	return []wallet.Wallet{w}, nil
}

// walletLoaderAptos implements registry.Loader for Aptos.
type walletLoaderAptos struct {
	cfg config.AptosConfig
}

// Load loads the Aptos key wallet.
func (l *walletLoaderAptos) Load(_ context.Context, id chain.ID) ([]wallet.Wallet, error) {
	acfg := aptos.Config{PrivateKey: l.cfg.PrivateKey}
	if l.cfg.RPCURL != "" {
		client, err := aptos.NewRPCClient(l.cfg.RPCURL, l.cfg.NetworkChainID)
		if err != nil {
			return nil, err
		}
		acfg.Client = client
	}

	w, err := aptos.New(acfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Aptos wallet for %s: %w", id, err)
	}

	return []wallet.Wallet{w}, nil
}

// walletLoaderSui implements registry.Loader for Sui.
type walletLoaderSui struct {
	cfg config.SuiConfig
}

// Load loads the Sui key wallet.
func (l *walletLoaderSui) Load(_ context.Context, id chain.ID) ([]wallet.Wallet, error) {
	scfg := sui.Config{PrivateKey: l.cfg.PrivateKey, Mnemonic: l.cfg.Mnemonic}
	if l.cfg.RPCURL != "" {
		scfg.Client = sui.NewRPCClient(l.cfg.RPCURL)
	}

	w, err := sui.New(scfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Sui wallet for %s: %w", id, err)
	}

	return []wallet.Wallet{w}, nil
}

// walletLoaderCosmos implements registry.Loader for Cosmos-SDK chains. Each chain gets its own
// LCD client.
type walletLoaderCosmos struct {
	cfg config.CosmosConfig
}

// Load loads the Cosmos key wallet for a chain.
func (l *walletLoaderCosmos) Load(_ context.Context, id chain.ID) ([]wallet.Wallet, error) {
	ccfg := cosmos.Config{PrivateKey: l.cfg.PrivateKey}

	name, err := chain.ToChainName(id)
	if err != nil {
		return nil, err
	}
	if url, ok := l.cfg.LCDURLs[string(name)]; ok {
		ccfg.Client = cosmos.NewLCDClient(url, l.cfg.Retries, l.cfg.Timeout)
	}

	w, err := cosmos.New(id, ccfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cosmos wallet for %s: %w", id, err)
	}

	return []wallet.Wallet{w}, nil
}
