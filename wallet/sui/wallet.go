// Package sui provides a wallet for Sui backed by an ed25519 seed or a BIP39 mnemonic.
package sui

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/block-vision/sui-go-sdk/constant"
	"github.com/block-vision/sui-go-sdk/signer"
	"github.com/cosmos/go-bip39"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet"
)

var _ wallet.TxWallet[[]byte, SignedTransaction] = (*Wallet)(nil)

// SignedTransaction is BCS transaction data with its serialized signature, both base64 encoded
// as the JSON-RPC API expects them.
type SignedTransaction struct {
	TxBytes   string
	Signature string
}

// Config holds the configuration to initialize a Wallet. Exactly one of PrivateKey and Mnemonic
// must be set.
type Config struct {
	// PrivateKey is the hex encoded 32 byte ed25519 seed.
	PrivateKey string
	// Mnemonic is a BIP39 phrase, derived along the Sui path m/44'/784'/0'/0'/0'.
	Mnemonic string
	// Optional: Client is used for balance queries and submission.
	Client Client
	// Optional: Metadata overrides the default wallet name, url and icon.
	Metadata wallet.Metadata
}

func (c Config) validate() error {
	if (c.PrivateKey == "") == (c.Mnemonic == "") {
		return errors.New("exactly one of private key or mnemonic is required")
	}
	if c.Mnemonic != "" && !bip39.IsMnemonicValid(c.Mnemonic) {
		return errors.New("mnemonic is not a valid BIP39 phrase")
	}

	return nil
}

var defaultMetadata = wallet.Metadata{
	Name: "Sui Key Wallet",
	URL:  "https://sui.io",
}

// Wallet signs with a local ed25519 key.
type Wallet struct {
	*wallet.Base

	signer *signer.Signer
	client Client
}

func New(cfg Config) (*Wallet, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate sui wallet config: %w", err)
	}

	s, err := newSigner(cfg)
	if err != nil {
		return nil, err
	}

	meta := cfg.Metadata
	if meta.Name == "" {
		meta = defaultMetadata
	}

	return &Wallet{
		Base:   wallet.NewBase(chain.Sui, meta),
		signer: s,
		client: cfg.Client,
	}, nil
}

func newSigner(cfg Config) (*signer.Signer, error) {
	if cfg.Mnemonic != "" {
		s, err := signer.NewSignertWithMnemonic(cfg.Mnemonic)
		if err != nil {
			return nil, fmt.Errorf("failed to derive key from mnemonic: %w", err)
		}

		return s, nil
	}

	hexKey := strings.TrimPrefix(cfg.PrivateKey, "0x")
	if len(hexKey) != 64 {
		return nil, fmt.Errorf("hex private key must be exactly 64 characters (32 bytes), got %d characters", len(hexKey))
	}
	seed, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid hex private key: %w", err)
	}

	return signer.NewSigner(seed), nil
}

// NewMnemonic generates a BIP39 mnemonic with entropySize bits of entropy (128 to 256, a
// multiple of 32).
func NewMnemonic(entropySize int) (string, error) {
	entropy, err := bip39.NewEntropy(entropySize)
	if err != nil {
		return "", err
	}

	return bip39.NewMnemonic(entropy)
}

func (w *Wallet) Connect(ctx context.Context) ([]wallet.Address, error) {
	return w.Base.Connect(ctx, func(context.Context) ([]wallet.Address, error) {
		return []wallet.Address{wallet.Address(w.signer.Address)}, nil
	})
}

func (w *Wallet) Disconnect(ctx context.Context) error {
	return w.Base.Disconnect(ctx, nil)
}

// Balance returns the MIST balance of the main address.
func (w *Wallet) Balance(ctx context.Context) (string, error) {
	addr, err := w.ConnectedAddress()
	if err != nil {
		return "", err
	}
	if w.client == nil {
		return "", fmt.Errorf("%w: no rpc configured", wallet.ErrNotSupported)
	}

	bal, err := w.client.Balance(ctx, string(addr))
	if err != nil {
		return "", fmt.Errorf("failed to get balance: %w", err)
	}

	return bal, nil
}

// SignMessage signs msg with the personal message intent and returns the serialized signature
// (scheme flag, signature, public key).
func (w *Wallet) SignMessage(_ context.Context, msg []byte) ([]byte, error) {
	if _, err := w.ConnectedAddress(); err != nil {
		return nil, err
	}

	return w.sign(msg, constant.PersonalMessageIntentScope)
}

func (w *Wallet) sign(data []byte, scope constant.IntentScope) ([]byte, error) {
	signed, err := w.signer.SignMessage(base64.StdEncoding.EncodeToString(data), scope)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}

	sig, err := base64.StdEncoding.DecodeString(signed.Signature)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signature: %w", err)
	}

	return sig, nil
}

// SignTransaction signs BCS encoded transaction data with the transaction intent.
func (w *Wallet) SignTransaction(_ context.Context, txBytes []byte) (SignedTransaction, error) {
	if _, err := w.ConnectedAddress(); err != nil {
		return SignedTransaction{}, err
	}

	sig, err := w.sign(txBytes, constant.TransactionDataIntentScope)
	if err != nil {
		return SignedTransaction{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	return SignedTransaction{
		TxBytes:   base64.StdEncoding.EncodeToString(txBytes),
		Signature: base64.StdEncoding.EncodeToString(sig),
	}, nil
}

func (w *Wallet) SendTransaction(ctx context.Context, signed SignedTransaction) (wallet.SendTransactionResult, error) {
	if _, err := w.ConnectedAddress(); err != nil {
		return wallet.SendTransactionResult{}, err
	}
	if w.client == nil {
		return wallet.SendTransactionResult{}, fmt.Errorf("%w: no rpc configured", wallet.ErrNotSupported)
	}

	digest, err := w.client.Execute(ctx, signed)
	if err != nil {
		return wallet.SendTransactionResult{}, fmt.Errorf("failed to execute transaction: %w", err)
	}

	return wallet.SendTransactionResult{ID: digest}, nil
}

func (w *Wallet) SignAndSendTransaction(ctx context.Context, txBytes []byte) (wallet.SendTransactionResult, error) {
	return wallet.SignThenSend[[]byte, SignedTransaction](ctx, w, txBytes)
}
