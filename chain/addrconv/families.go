package addrconv

import (
	"encoding/hex"
	"fmt"
	"strings"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	"github.com/cosmos/btcutil/bech32"
	"github.com/ethereum/go-ethereum/common"
	sollib "github.com/gagliardetto/solana-go"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
)

var (
	_ Converter = EVMConverter{}
	_ Converter = SolanaConverter{}
	_ Converter = AptosConverter{}
	_ Converter = SuiConverter{}
	_ Converter = CosmosConverter{}
)

// EVMConverter handles hex addresses of EVM-compatible chains (20 bytes, optional 0x prefix).
type EVMConverter struct{}

func (EVMConverter) ConvertToBytes(address string) ([]byte, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid EVM address format: %s", address)
	}

	return common.HexToAddress(address).Bytes(), nil
}

// Normalize returns the EIP-55 checksummed form.
func (EVMConverter) Normalize(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("invalid EVM address format: %s", address)
	}

	return common.HexToAddress(address).Hex(), nil
}

func (EVMConverter) Supports(family string) bool {
	return family == string(chain.FamilyEVM)
}

// SolanaConverter handles base58-encoded 32 byte public keys.
type SolanaConverter struct{}

func (SolanaConverter) ConvertToBytes(address string) ([]byte, error) {
	pubkey, err := sollib.PublicKeyFromBase58(address)
	if err != nil {
		return nil, fmt.Errorf("invalid Solana address format: %s, error: %w", address, err)
	}

	return pubkey.Bytes(), nil
}

func (SolanaConverter) Normalize(address string) (string, error) {
	pubkey, err := sollib.PublicKeyFromBase58(address)
	if err != nil {
		return "", fmt.Errorf("invalid Solana address format: %s, error: %w", address, err)
	}

	return pubkey.String(), nil
}

func (SolanaConverter) Supports(family string) bool {
	return family == string(chain.FamilySolana)
}

// AptosConverter handles Aptos addresses in any of the short, long, prefixed or bare forms.
type AptosConverter struct{}

func (AptosConverter) ConvertToBytes(address string) ([]byte, error) {
	var addr aptoslib.AccountAddress
	if err := addr.ParseStringRelaxed(address); err != nil {
		return nil, fmt.Errorf("invalid Aptos address format: %s, error: %w", address, err)
	}

	return addr[:], nil
}

// Normalize returns the long 0x-prefixed 64 hex character form.
func (a AptosConverter) Normalize(address string) (string, error) {
	b, err := a.ConvertToBytes(address)
	if err != nil {
		return "", err
	}

	return "0x" + hex.EncodeToString(b), nil
}

func (AptosConverter) Supports(family string) bool {
	return family == string(chain.FamilyAptos)
}

// SuiConverter handles 0x-prefixed 32 byte hex addresses. Short forms such as 0x2 are left
// padded with zeros.
type SuiConverter struct{}

func (SuiConverter) ConvertToBytes(address string) ([]byte, error) {
	address = strings.TrimPrefix(address, "0x")

	if address == "" || len(address) > 64 {
		return nil, fmt.Errorf("invalid Sui address format: expected 1 to 64 hex characters, got %d", len(address))
	}
	address = strings.Repeat("0", 64-len(address)) + address

	b, err := hex.DecodeString(address)
	if err != nil {
		return nil, fmt.Errorf("invalid Sui address format: %s, error: %w", address, err)
	}

	return b, nil
}

func (s SuiConverter) Normalize(address string) (string, error) {
	b, err := s.ConvertToBytes(address)
	if err != nil {
		return "", err
	}

	return "0x" + hex.EncodeToString(b), nil
}

func (SuiConverter) Supports(family string) bool {
	return family == string(chain.FamilySui)
}

// CosmosConverter handles bech32 account addresses of Cosmos-SDK chains. The human readable
// part is preserved, so a terra address never normalizes to an inj one.
type CosmosConverter struct{}

func (CosmosConverter) ConvertToBytes(address string) ([]byte, error) {
	_, data, err := bech32.DecodeToBase256(address)
	if err != nil {
		return nil, fmt.Errorf("invalid bech32 address format: %s, error: %w", address, err)
	}

	return data, nil
}

func (CosmosConverter) Normalize(address string) (string, error) {
	hrp, data, err := bech32.DecodeToBase256(address)
	if err != nil {
		return "", fmt.Errorf("invalid bech32 address format: %s, error: %w", address, err)
	}

	return bech32.EncodeFromBase256(hrp, data)
}

func (CosmosConverter) Supports(family string) bool {
	return family == string(chain.FamilyCosmos)
}
