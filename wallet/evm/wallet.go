// Package evm provides a key-backed wallet for the EVM chain family. One wallet instance spans
// every EVM chain in the registry and can switch between them.
package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet"
)

var (
	_ wallet.TxWallet[*types.Transaction, *types.Transaction] = (*Wallet)(nil)
	_ wallet.ChainSwitcher                                     = (*Wallet)(nil)
)

// Client is the subset of an EVM RPC client the wallet needs. *ethclient.Client satisfies it.
type Client interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// Dialer returns a client for the given EVM chain.
type Dialer func(ctx context.Context, id chain.ID) (Client, error)

// Config holds the configuration to initialize a Wallet.
type Config struct {
	// Required: PrivateKey is the hex encoded secp256k1 key, with or without 0x prefix.
	PrivateKey string
	// Optional: Dialer connects to chain RPCs. Without one the wallet can sign but Balance and
	// SendTransaction return wallet.ErrNotSupported.
	Dialer Dialer
	// Optional: Metadata overrides the default wallet name, url and icon.
	Metadata wallet.Metadata
}

func (c Config) validate() error {
	if c.PrivateKey == "" {
		return errors.New("private key is required")
	}

	return nil
}

var defaultMetadata = wallet.Metadata{
	Name: "EVM Key Wallet",
	URL:  "https://ethereum.org",
}

// Wallet signs with a local secp256k1 key.
type Wallet struct {
	*wallet.Base

	key    *ecdsa.PrivateKey
	dialer Dialer

	mu      sync.Mutex
	clients map[chain.ID]Client
}

// New returns a disconnected wallet bound to the EVM chain id. No RPC is dialed until needed.
func New(id chain.ID, cfg Config) (*Wallet, error) {
	if !chain.IsEVMChain(id) {
		return nil, fmt.Errorf("%w: %s is not an EVM chain", chain.ErrUnknownChain, id)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate evm wallet config: %w", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse evm private key: %w", err)
	}

	meta := cfg.Metadata
	if meta.Name == "" {
		meta = defaultMetadata
	}

	return &Wallet{
		Base:    wallet.NewBase(id, meta),
		key:     key,
		dialer:  cfg.Dialer,
		clients: make(map[chain.ID]Client),
	}, nil
}

func (w *Wallet) account() common.Address {
	return crypto.PubkeyToAddress(w.key.PublicKey)
}

func (w *Wallet) Connect(ctx context.Context) ([]wallet.Address, error) {
	return w.Base.Connect(ctx, func(ctx context.Context) ([]wallet.Address, error) {
		if w.dialer != nil {
			if _, err := w.client(ctx); err != nil {
				return nil, err
			}
		}

		return []wallet.Address{wallet.Address(w.account().Hex())}, nil
	})
}

func (w *Wallet) Disconnect(ctx context.Context) error {
	return w.Base.Disconnect(ctx, func(context.Context) error {
		w.mu.Lock()
		defer w.mu.Unlock()

		for id, c := range w.clients {
			if closer, ok := c.(interface{ Close() }); ok {
				closer.Close()
			}
			delete(w.clients, id)
		}

		return nil
	})
}

// client returns the cached client for the current chain, dialing it on first use.
func (w *Wallet) client(ctx context.Context) (Client, error) {
	if w.dialer == nil {
		return nil, fmt.Errorf("%w: no rpc configured", wallet.ErrNotSupported)
	}

	id := w.ChainID()

	w.mu.Lock()
	defer w.mu.Unlock()

	if c, ok := w.clients[id]; ok {
		return c, nil
	}
	c, err := w.dialer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", id, err)
	}
	w.clients[id] = c

	return c, nil
}

// Balance returns the wei balance of the main address on the current chain.
func (w *Wallet) Balance(ctx context.Context) (string, error) {
	addr, err := w.ConnectedAddress()
	if err != nil {
		return "", err
	}
	c, err := w.client(ctx)
	if err != nil {
		return "", err
	}

	bal, err := c.BalanceAt(ctx, common.HexToAddress(string(addr)), nil)
	if err != nil {
		return "", fmt.Errorf("failed to get balance of %s: %w", addr, err)
	}

	return bal.String(), nil
}

// SignMessage produces a personal_sign signature: 65 bytes, V in {27, 28}.
func (w *Wallet) SignMessage(_ context.Context, msg []byte) ([]byte, error) {
	if _, err := w.ConnectedAddress(); err != nil {
		return nil, err
	}

	sig, err := crypto.Sign(accounts.TextHash(msg), w.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27

	return sig, nil
}

// SignTransaction signs tx for the wallet's current chain.
func (w *Wallet) SignTransaction(_ context.Context, tx *types.Transaction) (*types.Transaction, error) {
	if _, err := w.ConnectedAddress(); err != nil {
		return nil, err
	}

	chainID, err := nativeChainID(w.ChainID())
	if err != nil {
		return nil, err
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), w.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	return signed, nil
}

func (w *Wallet) SendTransaction(ctx context.Context, signed *types.Transaction) (wallet.SendTransactionResult, error) {
	if _, err := w.ConnectedAddress(); err != nil {
		return wallet.SendTransactionResult{}, err
	}
	c, err := w.client(ctx)
	if err != nil {
		return wallet.SendTransactionResult{}, err
	}

	if err := c.SendTransaction(ctx, signed); err != nil {
		return wallet.SendTransactionResult{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	return wallet.SendTransactionResult{ID: signed.Hash().Hex(), Data: signed}, nil
}

func (w *Wallet) SignAndSendTransaction(ctx context.Context, tx *types.Transaction) (wallet.SendTransactionResult, error) {
	return wallet.SignThenSend[*types.Transaction, *types.Transaction](ctx, w, tx)
}

func (w *Wallet) SupportsChain(id chain.ID) bool {
	return chain.IsEVMChain(id)
}

// SwitchChain moves the wallet to another EVM network. Addresses are unchanged.
func (w *Wallet) SwitchChain(_ context.Context, id chain.ID) error {
	if !w.SupportsChain(id) {
		return fmt.Errorf("%w: cannot switch evm wallet to %s", wallet.ErrNotSupported, id)
	}

	return w.Base.SwitchChain(id)
}

func nativeChainID(id chain.ID) (*big.Int, error) {
	s, err := chain.NativeID(id)
	if err != nil {
		return nil, err
	}

	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("failed to convert chain ID %s to big.Int", s)
	}

	return n, nil
}
