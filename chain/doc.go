/*
Package chain is the static registry of the chains the wallet layer knows about: their numeric
ids, canonical names, families and native identifiers.

# Identifiers

Every chain has a small numeric ID and a lowercase Name. Both directions are lookups against
the same table:

	id, err := chain.ToChainID("bsc")     // chain.BSC (4)
	name, err := chain.ToChainName(4)      // "bsc"
	ok := chain.IsChain(chain.Name("sei")) // true

Unknown ids and names fail with ErrUnknownChain.

CoalesceChainID accepts either representation and returns the id:

	id, err := chain.CoalesceChainID(chain.Name("polygon")) // chain.Polygon
	id, err = chain.CoalesceChainID(chain.Polygon)          // chain.Polygon

# Families

Chains are grouped by Family. The family decides which address codec and which wallet adapter
applies to a chain:

	f, err := chain.FamilyOf(chain.Injective) // chain.FamilyCosmos
	evmChains := chain.ChainsOfFamily(chain.FamilyEVM)

The predicates IsEVMChain, IsCosmWasmChain and IsTerraChain cover the groups the wallet context
coalesces or treats specially.

# Native identifiers and selectors

NativeID returns the identifier the chain uses for itself, such as "56" for bsc or "phoenix-1"
for terra2. Details and Selector map EVM, Solana, Aptos and Sui chains onto their entries in
the chain-selectors registry:

	sel, err := chain.Selector(chain.Ethereum)
*/
package chain
