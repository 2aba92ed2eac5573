// Package cosmos provides a secp256k1 key-backed wallet for Cosmos-SDK chains: Terra, Terra2,
// Injective, XPLA, Sei, Osmosis and Wormchain.
package cosmos

import (
	"context"
	"crypto/ecdsa"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/cosmos/btcutil/bech32"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // cosmos addresses are defined over ripemd160

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet"
)

var _ wallet.TxWallet[SignDoc, TxRaw] = (*Wallet)(nil)

// keyScheme selects how the account address is derived from the public key.
type keyScheme int

const (
	// schemeCosmos is ripemd160(sha256(compressed pubkey)).
	schemeCosmos keyScheme = iota
	// schemeEthermint is keccak256(uncompressed pubkey)[12:], used by EVM-flavoured cosmos chains.
	schemeEthermint
)

type chainParams struct {
	hrp    string
	denom  string
	scheme keyScheme
}

var params = map[chain.ID]chainParams{
	chain.Terra:     {hrp: "terra", denom: "uluna", scheme: schemeCosmos},
	chain.Terra2:    {hrp: "terra", denom: "uluna", scheme: schemeCosmos},
	chain.Injective: {hrp: "inj", denom: "inj", scheme: schemeEthermint},
	chain.XPLA:      {hrp: "xpla", denom: "axpla", scheme: schemeEthermint},
	chain.Sei:       {hrp: "sei", denom: "usei", scheme: schemeCosmos},
	chain.Osmosis:   {hrp: "osmo", denom: "uosmo", scheme: schemeCosmos},
	chain.Wormchain: {hrp: "wormhole", denom: "uworm", scheme: schemeCosmos},
}

// Config holds the configuration to initialize a Wallet.
type Config struct {
	// Required: PrivateKey is the hex encoded secp256k1 key.
	PrivateKey string
	// Optional: Client is the chain's LCD. Without one Balance and SendTransaction return
	// wallet.ErrNotSupported.
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

// Wallet signs sign docs with a local secp256k1 key. It has no message signing primitive.
type Wallet struct {
	*wallet.Base

	key    *ecdsa.PrivateKey
	params chainParams
	client Client
}

// New returns a disconnected wallet for the cosmos chain id.
func New(id chain.ID, cfg Config) (*Wallet, error) {
	p, ok := params[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a supported cosmos chain", chain.ErrUnknownChain, id)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate cosmos wallet config: %w", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse cosmos private key: %w", err)
	}

	meta := cfg.Metadata
	if meta.Name == "" {
		name, _ := chain.ToChainName(id)
		meta = wallet.Metadata{Name: fmt.Sprintf("Cosmos Key Wallet (%s)", name)}
	}

	return &Wallet{
		Base:   wallet.NewBase(id, meta),
		key:    key,
		params: p,
		client: cfg.Client,
	}, nil
}

// AccountAddress derives the bech32 account address of a key for the given chain.
func AccountAddress(id chain.ID, key *ecdsa.PrivateKey) (string, error) {
	p, ok := params[id]
	if !ok {
		return "", fmt.Errorf("%w: %s is not a supported cosmos chain", chain.ErrUnknownChain, id)
	}

	return accountAddress(p, key)
}

func accountAddress(p chainParams, key *ecdsa.PrivateKey) (string, error) {
	var raw []byte
	switch p.scheme {
	case schemeEthermint:
		raw = crypto.PubkeyToAddress(key.PublicKey).Bytes()
	default:
		sha := sha256.Sum256(crypto.CompressPubkey(&key.PublicKey))
		h := ripemd160.New()
		h.Write(sha[:])
		raw = h.Sum(nil)
	}

	return bech32.EncodeFromBase256(p.hrp, raw)
}

func (w *Wallet) Connect(ctx context.Context) ([]wallet.Address, error) {
	return w.Base.Connect(ctx, func(context.Context) ([]wallet.Address, error) {
		addr, err := accountAddress(w.params, w.key)
		if err != nil {
			return nil, err
		}

		return []wallet.Address{wallet.Address(addr)}, nil
	})
}

func (w *Wallet) Disconnect(ctx context.Context) error {
	return w.Base.Disconnect(ctx, nil)
}

// Denom is the native staking denom the balance is reported in.
func (w *Wallet) Denom() string {
	return w.params.denom
}

func (w *Wallet) Balance(ctx context.Context) (string, error) {
	addr, err := w.ConnectedAddress()
	if err != nil {
		return "", err
	}
	if w.client == nil {
		return "", fmt.Errorf("%w: no lcd configured", wallet.ErrNotSupported)
	}

	bal, err := w.client.Balance(ctx, string(addr), w.params.denom)
	if err != nil {
		return "", fmt.Errorf("failed to get balance: %w", err)
	}

	return bal, nil
}

// SignMessage always fails with wallet.ErrNotSupported.
func (w *Wallet) SignMessage(context.Context, []byte) ([]byte, error) {
	return nil, fmt.Errorf("%w: cosmos wallets cannot sign arbitrary messages", wallet.ErrNotSupported)
}

// SignTransaction signs the sign doc and returns the broadcastable transaction. The signature
// is the 64 byte r||s form.
func (w *Wallet) SignTransaction(_ context.Context, doc SignDoc) (TxRaw, error) {
	if _, err := w.ConnectedAddress(); err != nil {
		return TxRaw{}, err
	}

	var hash []byte
	switch w.params.scheme {
	case schemeEthermint:
		hash = crypto.Keccak256(doc.Bytes())
	default:
		sum := sha256.Sum256(doc.Bytes())
		hash = sum[:]
	}

	sig, err := crypto.Sign(hash, w.key)
	if err != nil {
		return TxRaw{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	return TxRaw{
		BodyBytes:     doc.BodyBytes,
		AuthInfoBytes: doc.AuthInfoBytes,
		Signatures:    [][]byte{sig[:crypto.RecoveryIDOffset]},
	}, nil
}

func (w *Wallet) SendTransaction(ctx context.Context, signed TxRaw) (wallet.SendTransactionResult, error) {
	if _, err := w.ConnectedAddress(); err != nil {
		return wallet.SendTransactionResult{}, err
	}
	if w.client == nil {
		return wallet.SendTransactionResult{}, fmt.Errorf("%w: no lcd configured", wallet.ErrNotSupported)
	}

	hash, err := w.client.Broadcast(ctx, signed.Bytes())
	if err != nil {
		return wallet.SendTransactionResult{}, fmt.Errorf("failed to broadcast transaction: %w", err)
	}

	return wallet.SendTransactionResult{ID: hash}, nil
}

func (w *Wallet) SignAndSendTransaction(ctx context.Context, doc SignDoc) (wallet.SendTransactionResult, error) {
	return wallet.SignThenSend[SignDoc, TxRaw](ctx, w, doc)
}
