package chain

import (
	"fmt"

	chainsel "github.com/smartcontractkit/chain-selectors"
)

// ID identifies one supported chain. IDs are fixed constants and are never created at runtime.
type ID uint16

// Name is the canonical lowercase name of a supported chain.
type Name string

// Family groups chains that share a provider and signing model.
type Family string

// Chain families. Where chain-selectors defines a family, the same string is reused so that
// registry entries can be resolved against it.
const (
	FamilyEVM      Family = chainsel.FamilyEVM
	FamilySolana   Family = chainsel.FamilySolana
	FamilyAptos    Family = chainsel.FamilyAptos
	FamilySui      Family = chainsel.FamilySui
	FamilyCosmos   Family = "cosmos"
	FamilyAlgorand Family = "algorand"
	FamilyNear     Family = "near"
	FamilyBitcoin  Family = "bitcoin"
)

const (
	Solana    ID = 1
	Ethereum  ID = 2
	Terra     ID = 3
	BSC       ID = 4
	Polygon   ID = 5
	Avalanche ID = 6
	Oasis     ID = 7
	Algorand  ID = 8
	Aurora    ID = 9
	Fantom    ID = 10
	Karura    ID = 11
	Acala     ID = 12
	Klaytn    ID = 13
	Celo      ID = 14
	Near      ID = 15
	Moonbeam  ID = 16
	Neon      ID = 17
	Terra2    ID = 18
	Injective ID = 19
	Osmosis   ID = 20
	Sui       ID = 21
	Aptos     ID = 22
	Arbitrum  ID = 23
	Optimism  ID = 24
	Gnosis    ID = 25
	Pythnet   ID = 26
	XPLA      ID = 28
	Bitcoin   ID = 29
	Base      ID = 30
	Sei       ID = 32
	Rootstock ID = 33
	Wormchain ID = 3104
	Sepolia   ID = 10002
)

// entry is one row of the chain registry.
type entry struct {
	id     ID
	name   Name
	family Family
	// nativeID is the chain's own identifier (EVM chain id, genesis hash, cosmos chain-id).
	nativeID string
}

var entries = []entry{
	{Solana, "solana", FamilySolana, "5eykt4UsFv8P8NJdTREpY1vzqKqZKvdpKuc147dw2N5d"},
	{Ethereum, "ethereum", FamilyEVM, "1"},
	{Terra, "terra", FamilyCosmos, "columbus-5"},
	{BSC, "bsc", FamilyEVM, "56"},
	{Polygon, "polygon", FamilyEVM, "137"},
	{Avalanche, "avalanche", FamilyEVM, "43114"},
	{Oasis, "oasis", FamilyEVM, "42262"},
	{Algorand, "algorand", FamilyAlgorand, "mainnet-v1.0"},
	{Aurora, "aurora", FamilyEVM, "1313161554"},
	{Fantom, "fantom", FamilyEVM, "250"},
	{Karura, "karura", FamilyEVM, "686"},
	{Acala, "acala", FamilyEVM, "787"},
	{Klaytn, "klaytn", FamilyEVM, "8217"},
	{Celo, "celo", FamilyEVM, "42220"},
	{Near, "near", FamilyNear, "mainnet"},
	{Moonbeam, "moonbeam", FamilyEVM, "1284"},
	{Neon, "neon", FamilyEVM, "245022934"},
	{Terra2, "terra2", FamilyCosmos, "phoenix-1"},
	{Injective, "injective", FamilyCosmos, "injective-1"},
	{Osmosis, "osmosis", FamilyCosmos, "osmosis-1"},
	{Sui, "sui", FamilySui, "1"},
	{Aptos, "aptos", FamilyAptos, "1"},
	{Arbitrum, "arbitrum", FamilyEVM, "42161"},
	{Optimism, "optimism", FamilyEVM, "10"},
	{Gnosis, "gnosis", FamilyEVM, "100"},
	{Pythnet, "pythnet", FamilySolana, "pythnet"},
	{XPLA, "xpla", FamilyCosmos, "dimension_37-1"},
	{Bitcoin, "btc", FamilyBitcoin, "mainnet"},
	{Base, "base", FamilyEVM, "8453"},
	{Sei, "sei", FamilyCosmos, "pacific-1"},
	{Rootstock, "rootstock", FamilyEVM, "30"},
	{Wormchain, "wormchain", FamilyCosmos, "wormchain"},
	{Sepolia, "sepolia", FamilyEVM, "11155111"},
}

// String returns chain name and id "<name> (<id>)".
func (id ID) String() string {
	e, ok := byID[id]
	if !ok {
		return fmt.Sprintf("unknown (%d)", uint16(id))
	}

	return fmt.Sprintf("%s (%d)", e.name, uint16(id))
}
