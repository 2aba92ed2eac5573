package chain

// Membership sets backing the family predicates. They are the only place coalescing groups are
// defined; add a chain here rather than extending a predicate.
var (
	evmChains = setOf(ChainsOfFamily(FamilyEVM)...)

	cosmWasmChains = setOf(Terra, Terra2, Injective, XPLA, Sei)

	terraChains = setOf(Terra, Terra2)
)

func setOf(ids ...ID) map[ID]struct{} {
	s := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}

	return s
}

// IsEVMChain reports whether id is an EVM-compatible chain.
func IsEVMChain(id ID) bool {
	_, ok := evmChains[id]
	return ok
}

// IsCosmWasmChain reports whether id is a Cosmos-SDK chain running CosmWasm.
func IsCosmWasmChain(id ID) bool {
	_, ok := cosmWasmChains[id]
	return ok
}

// IsTerraChain reports whether id is Terra Classic or Terra2.
func IsTerraChain(id ID) bool {
	_, ok := terraChains[id]
	return ok
}
