package loader_test

import (
	"strings"
	"testing"

	sollib "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/config"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/loader"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/pkg/logger"
)

const testEVMKey = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func fullConfig(t *testing.T) *config.Config {
	t.Helper()

	solKey, err := sollib.NewRandomPrivateKey()
	require.NoError(t, err)

	cfg := config.Default()
	cfg.EVM.PrivateKey = testEVMKey
	cfg.Solana.PrivateKey = solKey.String()
	cfg.Aptos.PrivateKey = "0x" + strings.Repeat("11", 32)
	cfg.Sui.PrivateKey = "0x" + strings.Repeat("22", 32)
	cfg.Cosmos.PrivateKey = strings.TrimPrefix(testEVMKey, "0x")

	return cfg
}

func TestNewBuilder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		giveConfig func(t *testing.T) *config.Config
		wantChains []chain.ID
		wantNames  map[chain.ID]string
	}{
		{
			name:       "no secrets",
			giveConfig: func(*testing.T) *config.Config { return config.Default() },
			wantChains: []chain.ID{},
		},
		{
			name:       "default chains per family",
			giveConfig: fullConfig,
			wantChains: []chain.ID{chain.Solana, chain.Ethereum, chain.Terra2, chain.Sui, chain.Aptos},
			wantNames: map[chain.ID]string{
				chain.Solana:   "Solana Key Wallet",
				chain.Ethereum: "EVM Key Wallet",
				chain.Terra2:   "Cosmos Key Wallet (terra2)",
				chain.Sui:      "Sui Key Wallet",
				chain.Aptos:    "Aptos Key Wallet",
			},
		},
		{
			name: "chains from rpc urls",
			giveConfig: func(t *testing.T) *config.Config {
				t.Helper()

				cfg := fullConfig(t)
				cfg.Solana.PrivateKey = ""
				cfg.Aptos.PrivateKey = ""
				cfg.Sui.PrivateKey = ""
				cfg.EVM.RPCURLs = map[string]string{
					"bsc":     "http://127.0.0.1:1",
					"polygon": "http://127.0.0.1:2",
				}
				cfg.Cosmos.LCDURLs = map[string]string{"injective": "http://127.0.0.1:3"}

				return cfg
			},
			wantChains: []chain.ID{chain.BSC, chain.Polygon, chain.Injective},
		},
		{
			name: "without detection",
			giveConfig: func(*testing.T) *config.Config {
				cfg := config.Default()
				cfg.Detection.Enabled = false
				cfg.Sui.Mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

				return cfg
			},
			wantChains: []chain.ID{chain.Sui},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := loader.NewBuilder(tt.giveConfig(t), logger.Test(t))
			require.NoError(t, err)

			got, err := b.Build(t.Context())
			require.NoError(t, err)

			assert.Equal(t, tt.wantChains, got.Chains())
			for id, name := range tt.wantNames {
				ws := got.For(id)
				require.Len(t, ws, 1)
				assert.Equal(t, name, ws[0].Name())
				assert.Equal(t, id, ws[0].ChainID())
			}
		})
	}
}

func TestNewBuilder_SkipsFamiliesWithoutSecrets(t *testing.T) {
	t.Parallel()

	lggr, logs := logger.TestObserved(t, zapcore.InfoLevel)

	cfg := config.Default()
	cfg.EVM.PrivateKey = testEVMKey
	cfg.EVM.RPCURLs = map[string]string{"bsc": "https://bsc.example/v1/secret-api-key"}

	_, err := loader.NewBuilder(cfg, lggr)
	require.NoError(t, err)

	assert.Equal(t, 0, logs.FilterMessage("Skipping EVM wallets, no private key found in config").Len())
	assert.Equal(t, 1, logs.FilterMessage("Skipping Solana wallets, no private key found in config").Len())
	assert.Equal(t, 1, logs.FilterMessage("Skipping Aptos wallets, no private key found in config").Len())
	assert.Equal(t, 1, logs.FilterMessage("Skipping Sui wallets, no private key or mnemonic found in config").Len())
	assert.Equal(t, 1, logs.FilterMessage("Skipping Cosmos wallets, no private key found in config").Len())

	configured := logs.FilterMessage("Configured wallet builder").All()
	require.Len(t, configured, 1)
	logged, ok := configured[0].ContextMap()["config"].(config.Config)
	require.True(t, ok)
	assert.Equal(t, "xxxxx", logged.EVM.PrivateKey)
	assert.Equal(t, map[string]string{"bsc": "xxxxx"}, logged.EVM.RPCURLs)
	assert.Equal(t, "https://bsc.example/v1/secret-api-key", cfg.EVM.RPCURLs["bsc"])
}

func TestNewBuilder_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.EVM.RPCURLs = map[string]string{"solana": "http://127.0.0.1:1"}

	_, err := loader.NewBuilder(cfg, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid config")
	assert.ErrorContains(t, err, "evm.rpc_urls")
}

func TestNewBuilder_BadKey(t *testing.T) {
	t.Parallel()

	lggr, logs := logger.TestObserved(t, zapcore.ErrorLevel)

	cfg := config.Default()
	cfg.Detection.Enabled = false
	cfg.EVM.PrivateKey = "0xnothex"
	cfg.Aptos.PrivateKey = "0x" + strings.Repeat("11", 32)

	b, err := loader.NewBuilder(cfg, lggr)
	require.NoError(t, err, "keys are parsed when the wallets load")

	got, err := b.Build(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []chain.ID{chain.Aptos}, got.Chains(), "the failing family is skipped")

	failed := logs.FilterMessage("Failed to load wallets for one or more chains").All()
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0].ContextMap()["error"], "failed to initialize EVM wallet for ethereum (2)")
}

func TestNewContext(t *testing.T) {
	t.Parallel()

	cfg := fullConfig(t)
	cfg.Context.CoalesceEVMChains = false

	c, err := loader.NewContext(t.Context(), cfg, logger.Test(t))
	require.NoError(t, err)

	require.NoError(t, c.WaitReady(t.Context()))
	require.NoError(t, c.AvailabilityErr())

	assert.Equal(t, chain.BSC, c.CoalesceChainID(chain.BSC), "evm coalescing is off")
	assert.Equal(t, chain.Terra2, c.CoalesceChainID(chain.Terra))

	avail := c.AvailableWallets()
	require.Len(t, avail[chain.Ethereum], 1)

	require.NoError(t, c.ChangeWallet(avail[chain.Ethereum][0]))
	w, ok := c.Wallet(chain.Ethereum)
	require.True(t, ok)
	assert.Same(t, avail[chain.Ethereum][0], w)
}

func TestNewContext_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Log.Level = "loud"

	_, err := loader.NewContext(t.Context(), cfg, nil)
	require.Error(t, err)
}
