package chain

import (
	"errors"
	"fmt"

	chainsel "github.com/smartcontractkit/chain-selectors"
)

// ErrNoSelector is returned for registered chains that chain-selectors does not describe.
var ErrNoSelector = errors.New("chain has no chain selector")

// Details returns the chain-selectors record of a registered chain. Only the families known to
// chain-selectors (evm, solana, aptos, sui) resolve; other chains return ErrNoSelector.
func Details(id ID) (chainsel.ChainDetails, error) {
	e, ok := byID[id]
	if !ok {
		return chainsel.ChainDetails{}, fmt.Errorf("%w: id %d", ErrUnknownChain, id)
	}

	switch e.family {
	case FamilyEVM, FamilySolana, FamilyAptos, FamilySui:
	default:
		return chainsel.ChainDetails{}, fmt.Errorf("%w: %s", ErrNoSelector, id)
	}

	info, err := chainsel.GetChainDetailsByChainIDAndFamily(e.nativeID, string(e.family))
	if err != nil {
		return chainsel.ChainDetails{}, fmt.Errorf("%w: %s: %w", ErrNoSelector, id, err)
	}

	return info, nil
}

// Selector returns the chain-selectors selector of a registered chain.
func Selector(id ID) (uint64, error) {
	info, err := Details(id)
	if err != nil {
		return 0, err
	}

	return info.ChainSelector, nil
}
