// Package solana provides a key-backed wallet for Solana and Pythnet.
package solana

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	sollib "github.com/gagliardetto/solana-go"
	solrpc "github.com/gagliardetto/solana-go/rpc"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet"
)

var _ wallet.TxWallet[*sollib.Transaction, *sollib.Transaction] = (*Wallet)(nil)

// Client is the subset of the Solana RPC client the wallet needs. *solrpc.Client satisfies it.
type Client interface {
	GetBalance(ctx context.Context, account sollib.PublicKey, commitment solrpc.CommitmentType) (*solrpc.GetBalanceResult, error)
	SendTransaction(ctx context.Context, tx *sollib.Transaction) (sollib.Signature, error)
}

// Config holds the configuration to initialize a Wallet.
type Config struct {
	// Required: PrivateKey is the base58 encoded 64 byte keypair.
	PrivateKey string
	// Optional: Client is used for balance queries and submission. Use solrpc.New to create one.
	Client Client
	// Optional: Commitment for balance queries. Defaults to confirmed.
	Commitment solrpc.CommitmentType
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
	Name: "Solana Key Wallet",
	URL:  "https://solana.com",
}

// Wallet signs with a local ed25519 keypair.
type Wallet struct {
	*wallet.Base

	key        sollib.PrivateKey
	client     Client
	commitment solrpc.CommitmentType
}

// New returns a disconnected wallet for a Solana family chain.
func New(id chain.ID, cfg Config) (*Wallet, error) {
	if f, err := chain.FamilyOf(id); err != nil || f != chain.FamilySolana {
		return nil, fmt.Errorf("%w: %s is not a Solana chain", chain.ErrUnknownChain, id)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate solana wallet config: %w", err)
	}

	key, err := sollib.PrivateKeyFromBase58(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	meta := cfg.Metadata
	if meta.Name == "" {
		meta = defaultMetadata
	}
	commitment := cfg.Commitment
	if commitment == "" {
		commitment = solrpc.CommitmentConfirmed
	}

	return &Wallet{
		Base:       wallet.NewBase(id, meta),
		key:        key,
		client:     cfg.Client,
		commitment: commitment,
	}, nil
}

func (w *Wallet) Connect(ctx context.Context) ([]wallet.Address, error) {
	return w.Base.Connect(ctx, func(context.Context) ([]wallet.Address, error) {
		return []wallet.Address{wallet.Address(w.key.PublicKey().String())}, nil
	})
}

func (w *Wallet) Disconnect(ctx context.Context) error {
	return w.Base.Disconnect(ctx, nil)
}

// Balance returns the lamport balance of the main address.
func (w *Wallet) Balance(ctx context.Context) (string, error) {
	if _, err := w.ConnectedAddress(); err != nil {
		return "", err
	}
	if w.client == nil {
		return "", fmt.Errorf("%w: no rpc configured", wallet.ErrNotSupported)
	}

	res, err := w.client.GetBalance(ctx, w.key.PublicKey(), w.commitment)
	if err != nil {
		return "", fmt.Errorf("failed to get balance: %w", err)
	}

	return strconv.FormatUint(res.Value, 10), nil
}

// SignMessage returns the 64 byte ed25519 signature of msg.
func (w *Wallet) SignMessage(_ context.Context, msg []byte) ([]byte, error) {
	if _, err := w.ConnectedAddress(); err != nil {
		return nil, err
	}

	sig, err := w.key.Sign(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}

	return sig[:], nil
}

// SignTransaction signs tx in place and returns it. Every signer the message requires must be
// the wallet's key.
func (w *Wallet) SignTransaction(_ context.Context, tx *sollib.Transaction) (*sollib.Transaction, error) {
	if _, err := w.ConnectedAddress(); err != nil {
		return nil, err
	}

	pub := w.key.PublicKey()
	_, err := tx.Sign(func(key sollib.PublicKey) *sollib.PrivateKey {
		if key.Equals(pub) {
			return &w.key
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	return tx, nil
}

func (w *Wallet) SendTransaction(ctx context.Context, signed *sollib.Transaction) (wallet.SendTransactionResult, error) {
	if _, err := w.ConnectedAddress(); err != nil {
		return wallet.SendTransactionResult{}, err
	}
	if w.client == nil {
		return wallet.SendTransactionResult{}, fmt.Errorf("%w: no rpc configured", wallet.ErrNotSupported)
	}

	sig, err := w.client.SendTransaction(ctx, signed)
	if err != nil {
		return wallet.SendTransactionResult{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	return wallet.SendTransactionResult{ID: sig.String()}, nil
}

func (w *Wallet) SignAndSendTransaction(ctx context.Context, tx *sollib.Transaction) (wallet.SendTransactionResult, error) {
	return wallet.SignThenSend[*sollib.Transaction, *sollib.Transaction](ctx, w, tx)
}
