// Package aptos provides a key-backed wallet for Aptos.
package aptos

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/crypto"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet"
)

var _ wallet.TxWallet[*aptoslib.RawTransaction, *aptoslib.SignedTransaction] = (*Wallet)(nil)

// Config holds the configuration to initialize a Wallet.
type Config struct {
	// Required: PrivateKey is the hex encoded ed25519 private key.
	PrivateKey string
	// Optional: Client is used for balance queries and submission.
	Client Client
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
	Name: "Aptos Key Wallet",
	URL:  "https://aptosfoundation.org",
}

// Wallet signs with a local ed25519 account.
type Wallet struct {
	*wallet.Base

	account *aptoslib.Account
	client  Client
}

func New(cfg Config) (*Wallet, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate aptos wallet config: %w", err)
	}

	privateKey := &crypto.Ed25519PrivateKey{}
	if err := privateKey.FromHex(cfg.PrivateKey); err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	account, err := aptoslib.NewAccountFromSigner(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create account from private key: %w", err)
	}

	meta := cfg.Metadata
	if meta.Name == "" {
		meta = defaultMetadata
	}

	return &Wallet{
		Base:    wallet.NewBase(chain.Aptos, meta),
		account: account,
		client:  cfg.Client,
	}, nil
}

func (w *Wallet) Connect(ctx context.Context) ([]wallet.Address, error) {
	return w.Base.Connect(ctx, func(context.Context) ([]wallet.Address, error) {
		return []wallet.Address{wallet.Address(w.account.Address.String())}, nil
	})
}

func (w *Wallet) Disconnect(ctx context.Context) error {
	return w.Base.Disconnect(ctx, nil)
}

// Balance returns the octa balance of the main address.
func (w *Wallet) Balance(ctx context.Context) (string, error) {
	if _, err := w.ConnectedAddress(); err != nil {
		return "", err
	}
	if w.client == nil {
		return "", fmt.Errorf("%w: no rpc configured", wallet.ErrNotSupported)
	}

	bal, err := w.client.Balance(ctx, w.account.Address)
	if err != nil {
		return "", fmt.Errorf("failed to get balance: %w", err)
	}

	return strconv.FormatUint(bal, 10), nil
}

func (w *Wallet) SignMessage(_ context.Context, msg []byte) ([]byte, error) {
	if _, err := w.ConnectedAddress(); err != nil {
		return nil, err
	}

	sig, err := w.account.SignMessage(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}

	return sig.Bytes(), nil
}

func (w *Wallet) SignTransaction(_ context.Context, tx *aptoslib.RawTransaction) (*aptoslib.SignedTransaction, error) {
	if _, err := w.ConnectedAddress(); err != nil {
		return nil, err
	}

	signed, err := tx.SignedTransaction(w.account)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	return signed, nil
}

func (w *Wallet) SendTransaction(ctx context.Context, signed *aptoslib.SignedTransaction) (wallet.SendTransactionResult, error) {
	if _, err := w.ConnectedAddress(); err != nil {
		return wallet.SendTransactionResult{}, err
	}
	if w.client == nil {
		return wallet.SendTransactionResult{}, fmt.Errorf("%w: no rpc configured", wallet.ErrNotSupported)
	}

	hash, err := w.client.Submit(ctx, signed)
	if err != nil {
		return wallet.SendTransactionResult{}, fmt.Errorf("failed to submit transaction: %w", err)
	}

	return wallet.SendTransactionResult{ID: hash}, nil
}

func (w *Wallet) SignAndSendTransaction(ctx context.Context, tx *aptoslib.RawTransaction) (wallet.SendTransactionResult, error) {
	return wallet.SignThenSend[*aptoslib.RawTransaction, *aptoslib.SignedTransaction](ctx, w, tx)
}
