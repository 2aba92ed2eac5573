package sui_test

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/cosmos/go-bip39"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet/sui"
)

var testKey = "0x" + strings.Repeat("22", 32)

type fakeClient struct {
	balance  string
	execErr  error
	executed []sui.SignedTransaction
}

func (c *fakeClient) Balance(context.Context, string) (string, error) {
	return c.balance, nil
}

func (c *fakeClient) Execute(_ context.Context, signed sui.SignedTransaction) (string, error) {
	if c.execErr != nil {
		return "", c.execErr
	}
	c.executed = append(c.executed, signed)

	return "9xDigest", nil
}

func TestNewMnemonic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		entropySize int
		wantWords   int
		wantErr     bool
	}{
		{name: "128 bits", entropySize: 128, wantWords: 12},
		{name: "256 bits", entropySize: 256, wantWords: 24},
		{name: "not a multiple of 32", entropySize: 100, wantErr: true},
		{name: "zero", entropySize: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mnemonic, err := sui.NewMnemonic(tt.entropySize)
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, mnemonic)

				return
			}
			require.NoError(t, err)
			assert.True(t, bip39.IsMnemonicValid(mnemonic))
			assert.Len(t, strings.Fields(mnemonic), tt.wantWords)
		})
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     sui.Config
		wantErr string
	}{
		{name: "nothing set", cfg: sui.Config{}, wantErr: "exactly one of private key or mnemonic"},
		{name: "both set", cfg: sui.Config{PrivateKey: testKey, Mnemonic: "abandon"}, wantErr: "exactly one of private key or mnemonic"},
		{name: "bad mnemonic", cfg: sui.Config{Mnemonic: "not a real phrase at all"}, wantErr: "not a valid BIP39 phrase"},
		{name: "short key", cfg: sui.Config{PrivateKey: "0xabcd"}, wantErr: "exactly 64 characters"},
		{name: "non hex key", cfg: sui.Config{PrivateKey: strings.Repeat("zz", 32)}, wantErr: "invalid hex private key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := sui.New(tt.cfg)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestWallet_FromMnemonic(t *testing.T) {
	t.Parallel()

	mnemonic, err := sui.NewMnemonic(128)
	require.NoError(t, err)

	w, err := sui.New(sui.Config{Mnemonic: mnemonic})
	require.NoError(t, err)

	addrs, err := w.Connect(t.Context())
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.Len(t, string(addrs[0]), 66)
}

func TestWallet_ConnectAndSign(t *testing.T) {
	t.Parallel()

	w, err := sui.New(sui.Config{PrivateKey: testKey})
	require.NoError(t, err)
	assert.Equal(t, chain.Sui, w.ChainID())

	_, err = w.SignMessage(t.Context(), []byte("hello"))
	require.ErrorIs(t, err, wallet.ErrNotConnected)

	addrs, err := w.Connect(t.Context())
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.True(t, strings.HasPrefix(string(addrs[0]), "0x"))
	assert.Equal(t, strings.ToLower(string(addrs[0])), string(addrs[0]))

	sig, err := w.SignMessage(t.Context(), []byte("hello"))
	require.NoError(t, err)
	require.Len(t, sig, 1+64+32, "flag, signature, public key")
	assert.Equal(t, byte(0x00), sig[0], "ed25519 scheme flag")

	// the intent prefix makes message and transaction signatures differ
	signed, err := w.SignTransaction(t.Context(), []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("hello")), signed.TxBytes)
	assert.NotEqual(t, base64.StdEncoding.EncodeToString(sig), signed.Signature)
}

func TestWallet_BalanceAndSend(t *testing.T) {
	t.Parallel()

	client := &fakeClient{balance: "1000000000"}
	w, err := sui.New(sui.Config{PrivateKey: testKey, Client: client})
	require.NoError(t, err)
	_, err = w.Connect(t.Context())
	require.NoError(t, err)

	bal, err := w.Balance(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "1000000000", bal)

	res, err := w.SignAndSendTransaction(t.Context(), []byte{0x00, 0x01})
	require.NoError(t, err)
	assert.Equal(t, "9xDigest", res.ID)
	require.Len(t, client.executed, 1)
	assert.NotEmpty(t, client.executed[0].Signature)

	client.execErr = errors.New("object version mismatch")
	_, err = w.SignAndSendTransaction(t.Context(), []byte{0x00, 0x01})
	require.ErrorIs(t, err, client.execErr)
}

func TestWallet_WithoutClient(t *testing.T) {
	t.Parallel()

	w, err := sui.New(sui.Config{PrivateKey: testKey})
	require.NoError(t, err)
	_, err = w.Connect(t.Context())
	require.NoError(t, err)

	_, err = w.Balance(t.Context())
	require.ErrorIs(t, err, wallet.ErrNotSupported)

	_, err = w.SendTransaction(t.Context(), sui.SignedTransaction{})
	require.ErrorIs(t, err, wallet.ErrNotSupported)
}
