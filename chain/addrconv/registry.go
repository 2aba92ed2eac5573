package addrconv

import (
	"fmt"
	"sync"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
)

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *converterRegistry
)

func registry() *converterRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = newConverterRegistry()
	})

	return defaultRegistry
}

// ToBytes converts an address string to bytes based on the chain family.
//
// Usage:
//
//	bytes, err := addrconv.ToBytes(chain.FamilyEVM, "0x742d35Cc...")
func ToBytes(family chain.Family, address string) ([]byte, error) {
	c, err := registry().converter(family)
	if err != nil {
		return nil, err
	}

	return c.ConvertToBytes(address)
}

// Normalize returns the canonical form of address for the chain family. Two addresses refer to
// the same account if and only if their normalized forms are equal.
func Normalize(family chain.Family, address string) (string, error) {
	c, err := registry().converter(family)
	if err != nil {
		return "", err
	}

	return c.Normalize(address)
}

// NormalizerFor returns a normalizer bound to the family of chain id, for use by wallets.
func NormalizerFor(id chain.ID) (func(string) (string, error), error) {
	family, err := chain.FamilyOf(id)
	if err != nil {
		return nil, err
	}
	c, err := registry().converter(family)
	if err != nil {
		return nil, err
	}

	return c.Normalize, nil
}

// converterRegistry manages address strategies for different chain families.
type converterRegistry struct {
	converters map[chain.Family]Converter
}

// newConverterRegistry creates a new registry with all supported family converters pre-registered.
func newConverterRegistry() *converterRegistry {
	r := &converterRegistry{
		converters: make(map[chain.Family]Converter),
	}

	r.converters[chain.FamilyEVM] = EVMConverter{}
	r.converters[chain.FamilySolana] = SolanaConverter{}
	r.converters[chain.FamilyAptos] = AptosConverter{}
	r.converters[chain.FamilySui] = SuiConverter{}
	r.converters[chain.FamilyCosmos] = CosmosConverter{}

	return r
}

func (r *converterRegistry) converter(family chain.Family) (Converter, error) {
	c, exists := r.converters[family]
	if !exists {
		return nil, fmt.Errorf("no address converter registered for family: %s", family)
	}

	return c, nil
}
