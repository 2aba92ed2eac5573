// Package config loads the settings of the wallet context, wallet detection and the key-backed
// wallet adapters from a YAML file and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/registry"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/walletctx"
)

// ContextConfig is the configuration of the wallet selection context.
type ContextConfig struct {
	CoalesceEVMChains   bool `mapstructure:"coalesce_evm_chains" yaml:"coalesce_evm_chains"`     // All EVM chains share one selection slot
	CoalesceTerraChains bool `mapstructure:"coalesce_terra_chains" yaml:"coalesce_terra_chains"` // Terra and Terra2 share one selection slot
}

// DetectionConfig bounds how long wallet providers are polled for before being dropped from the
// available wallets.
type DetectionConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Attempts uint          `mapstructure:"attempts" yaml:"attempts"`
	Delay    time.Duration `mapstructure:"delay" yaml:"delay"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn or error
}

// EVMConfig is the configuration for the EVM key wallet.
//
// WARNING: This data type contains sensitive fields and should not be logged or set in file
// configuration.
type EVMConfig struct {
	PrivateKey   string            `mapstructure:"private_key" yaml:"private_key"`     // Secret: hex encoded secp256k1 key
	RPCURLs      map[string]string `mapstructure:"rpc_urls" yaml:"rpc_urls,omitempty"` // RPC url per chain name. The wallet is offered on every listed chain.
	DialAttempts uint              `mapstructure:"dial_attempts" yaml:"dial_attempts"`
	DialDelay    time.Duration     `mapstructure:"dial_delay" yaml:"dial_delay"`
}

// SolanaConfig is the configuration for the Solana key wallet.
//
// WARNING: This data type contains sensitive fields and should not be logged or set in file
// configuration.
type SolanaConfig struct {
	PrivateKey string `mapstructure:"private_key" yaml:"private_key"` // Secret: base58 encoded keypair
	RPCURL     string `mapstructure:"rpc_url" yaml:"rpc_url"`
}

// AptosConfig is the configuration for the Aptos key wallet.
//
// WARNING: This data type contains sensitive fields and should not be logged or set in file
// configuration.
type AptosConfig struct {
	PrivateKey     string `mapstructure:"private_key" yaml:"private_key"` // Secret: hex encoded ed25519 key
	RPCURL         string `mapstructure:"rpc_url" yaml:"rpc_url"`
	NetworkChainID uint8  `mapstructure:"network_chain_id" yaml:"network_chain_id"` // 1 for mainnet
}

// SuiConfig is the configuration for the Sui key wallet. Set one of PrivateKey and Mnemonic.
//
// WARNING: This data type contains sensitive fields and should not be logged or set in file
// configuration.
type SuiConfig struct {
	PrivateKey string `mapstructure:"private_key" yaml:"private_key"` // Secret: hex encoded ed25519 seed
	Mnemonic   string `mapstructure:"mnemonic" yaml:"mnemonic"`       // Secret: BIP39 phrase
	RPCURL     string `mapstructure:"rpc_url" yaml:"rpc_url"`
}

// CosmosConfig is the configuration for the Cosmos-SDK key wallet.
//
// WARNING: This data type contains sensitive fields and should not be logged or set in file
// configuration.
type CosmosConfig struct {
	PrivateKey string            `mapstructure:"private_key" yaml:"private_key"`     // Secret: hex encoded secp256k1 key
	LCDURLs    map[string]string `mapstructure:"lcd_urls" yaml:"lcd_urls,omitempty"` // LCD url per chain name. The wallet is offered on every listed chain.
	Retries    int               `mapstructure:"retries" yaml:"retries"`
	Timeout    time.Duration     `mapstructure:"timeout" yaml:"timeout"`
}

// Config wraps the entire configuration.
type Config struct {
	Context   ContextConfig   `mapstructure:"context" yaml:"context"`
	Detection DetectionConfig `mapstructure:"detection" yaml:"detection"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	EVM       EVMConfig       `mapstructure:"evm" yaml:"evm"`
	Solana    SolanaConfig    `mapstructure:"solana" yaml:"solana"`
	Aptos     AptosConfig     `mapstructure:"aptos" yaml:"aptos"`
	Sui       SuiConfig       `mapstructure:"sui" yaml:"sui"`
	Cosmos    CosmosConfig    `mapstructure:"cosmos" yaml:"cosmos"`
}

// Default returns the configuration used for every key that is not set.
func Default() *Config {
	return &Config{
		Context: ContextConfig{
			CoalesceEVMChains:   true,
			CoalesceTerraChains: true,
		},
		Detection: DetectionConfig{
			Enabled:  true,
			Attempts: registry.DefaultDetectAttempts,
			Delay:    registry.DefaultDetectDelay,
		},
		Log:    LogConfig{Level: "info"},
		EVM:    EVMConfig{DialAttempts: 3, DialDelay: time.Second},
		Aptos:  AptosConfig{NetworkChainID: 1},
		Cosmos: CosmosConfig{Retries: 2, Timeout: 10 * time.Second},
	}
}

// Load loads the config from the file path, falling back to env vars if the file does not exist.
// If the file exists, any env vars that are set will override the values loaded from the file.
func Load(filePath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(filePath)

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	// If the config file exists, we continue to read it, otherwise we fallback to using
	// environment variables
	if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadEnv loads the config from the environment variables.
func LoadEnv() (*Config, error) {
	v := newViper()

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	return unmarshal(v)
}

// LoadFile loads the config from a file.
func LoadFile(filePath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(filePath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	def := Default()
	v.SetDefault("context.coalesce_evm_chains", def.Context.CoalesceEVMChains)
	v.SetDefault("context.coalesce_terra_chains", def.Context.CoalesceTerraChains)
	v.SetDefault("detection.enabled", def.Detection.Enabled)
	v.SetDefault("detection.attempts", def.Detection.Attempts)
	v.SetDefault("detection.delay", def.Detection.Delay)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("evm.dial_attempts", def.EVM.DialAttempts)
	v.SetDefault("evm.dial_delay", def.EVM.DialDelay)
	v.SetDefault("aptos.network_chain_id", def.Aptos.NetworkChainID)
	v.SetDefault("cosmos.retries", def.Cosmos.Retries)
	v.SetDefault("cosmos.timeout", def.Cosmos.Timeout)

	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

var (
	// envBindings defines how environment variables map to configuration keys used by Viper.
	// Each entry maps a config key (as used in the struct, e.g. "evm.private_key") to a list of
	// environment variable names that can provide its value. The first name is preferred; the
	// others are shorter aliases commonly found in existing deployments.
	//
	// When loading, Viper will check each listed environment variable in order and use the first one
	// that is set. Maps (evm.rpc_urls, cosmos.lcd_urls) can only be set from the file.
	envBindings = map[string][]string{
		"context.coalesce_evm_chains":   {"WALLET_CONTEXT_COALESCE_EVM_CHAINS"},
		"context.coalesce_terra_chains": {"WALLET_CONTEXT_COALESCE_TERRA_CHAINS"},
		"detection.enabled":             {"WALLET_DETECTION_ENABLED"},
		"detection.attempts":            {"WALLET_DETECTION_ATTEMPTS"},
		"detection.delay":               {"WALLET_DETECTION_DELAY"},
		"log.level":                     {"WALLET_LOG_LEVEL", "LOG_LEVEL"},
		"evm.private_key":               {"WALLET_EVM_PRIVATE_KEY", "EVM_PRIVATE_KEY"},
		"evm.dial_attempts":             {"WALLET_EVM_DIAL_ATTEMPTS"},
		"evm.dial_delay":                {"WALLET_EVM_DIAL_DELAY"},
		"solana.private_key":            {"WALLET_SOLANA_PRIVATE_KEY", "SOLANA_WALLET_KEY"},
		"solana.rpc_url":                {"WALLET_SOLANA_RPC_URL", "SOLANA_RPC_URL"},
		"aptos.private_key":             {"WALLET_APTOS_PRIVATE_KEY", "APTOS_PRIVATE_KEY"},
		"aptos.rpc_url":                 {"WALLET_APTOS_RPC_URL", "APTOS_RPC_URL"},
		"aptos.network_chain_id":        {"WALLET_APTOS_NETWORK_CHAIN_ID"},
		"sui.private_key":               {"WALLET_SUI_PRIVATE_KEY", "SUI_PRIVATE_KEY"},
		"sui.mnemonic":                  {"WALLET_SUI_MNEMONIC", "SUI_MNEMONIC"},
		"sui.rpc_url":                   {"WALLET_SUI_RPC_URL", "SUI_RPC_URL"},
		"cosmos.private_key":            {"WALLET_COSMOS_PRIVATE_KEY", "COSMOS_PRIVATE_KEY"},
		"cosmos.retries":                {"WALLET_COSMOS_RETRIES"},
		"cosmos.timeout":                {"WALLET_COSMOS_TIMEOUT"},
	}
)

// bindEnvs binds the environment variables to the viper instance.
func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		// Prepend the env key to the start of the arguments
		inputs := slices.Insert(slices.Clone(envs), 0, key)

		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}

	return nil
}

// Validate reports every chain name that is not registered or belongs to the wrong family, and
// an unknown log level.
func (c *Config) Validate() error {
	var errs []error

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := ChainIDs("evm.rpc_urls", c.EVM.RPCURLs, chain.IsEVMChain); err != nil {
		errs = append(errs, err)
	}
	if _, err := ChainIDs("cosmos.lcd_urls", c.Cosmos.LCDURLs, chain.IsCosmWasmChain); err != nil {
		errs = append(errs, err)
	}
	if c.Sui.PrivateKey != "" && c.Sui.Mnemonic != "" {
		errs = append(errs, errors.New("sui: set one of private_key and mnemonic"))
	}

	return errors.Join(errs...)
}

// ChainIDs resolves the chain names keying urls, in ascending id order. Every chain must satisfy
// inFamily. Each error is prefixed with field and errors are reported in name order.
func ChainIDs(field string, urls map[string]string, inFamily func(chain.ID) bool) ([]chain.ID, error) {
	ids := make([]chain.ID, 0, len(urls))
	var errs []error
	for _, name := range slices.Sorted(maps.Keys(urls)) {
		id, err := chain.ToChainID(chain.Name(name))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
			continue
		}
		if !inFamily(id) {
			errs = append(errs, fmt.Errorf("%s: chain %s is not supported here", field, id))
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids, errors.Join(errs...)
}

// ContextOptions maps the context section onto walletctx options.
func (c *Config) ContextOptions() []walletctx.Option {
	return []walletctx.Option{
		walletctx.WithCoalesceEVMChains(c.Context.CoalesceEVMChains),
		walletctx.WithCoalesceTerraChains(c.Context.CoalesceTerraChains),
	}
}

// DetectOptions maps the detection section onto registry.Detect options.
func (c *Config) DetectOptions() []registry.DetectOption {
	return []registry.DetectOption{
		registry.WithAttempts(c.Detection.Attempts),
		registry.WithDelay(c.Detection.Delay),
	}
}

const redacted = "xxxxx"

// Redacted returns a copy with every secret replaced, fit for logging. Endpoint maps keep their
// chain names but lose their urls, which often embed provider api keys.
func (c *Config) Redacted() Config {
	out := *c
	out.EVM.RPCURLs = redactValues(c.EVM.RPCURLs)
	out.Cosmos.LCDURLs = redactValues(c.Cosmos.LCDURLs)
	for _, s := range []*string{
		&out.EVM.PrivateKey,
		&out.Solana.PrivateKey,
		&out.Aptos.PrivateKey,
		&out.Sui.PrivateKey,
		&out.Sui.Mnemonic,
		&out.Cosmos.PrivateKey,
	} {
		if *s != "" {
			*s = redacted
		}
	}

	return out
}

func redactValues(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k := range m {
		out[k] = redacted
	}

	return out
}
