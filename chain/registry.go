package chain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrUnknownChain is returned when a chain id or name is not in the registry.
var ErrUnknownChain = errors.New("unknown chain")

var (
	byID   = make(map[ID]entry, len(entries))
	byName = make(map[Name]entry, len(entries))
)

func init() {
	for _, e := range entries {
		if _, dup := byID[e.id]; dup {
			panic(fmt.Sprintf("chain registry: duplicate id %d", e.id))
		}
		if _, dup := byName[e.name]; dup {
			panic(fmt.Sprintf("chain registry: duplicate name %q", e.name))
		}
		byID[e.id] = e
		byName[e.name] = e
	}
}

// IDOrName is satisfied by either representation of a registered chain.
type IDOrName interface {
	ID | Name
}

// ToChainID returns the id registered for name.
func ToChainID(name Name) (ID, error) {
	e, ok := byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: name %q", ErrUnknownChain, name)
	}

	return e.id, nil
}

// ToChainName returns the name registered for id.
func ToChainName(id ID) (Name, error) {
	e, ok := byID[id]
	if !ok {
		return "", fmt.Errorf("%w: id %d", ErrUnknownChain, id)
	}

	return e.name, nil
}

// IsChain reports whether v is a registered chain id or chain name.
func IsChain[T IDOrName](v T) bool {
	switch x := any(v).(type) {
	case ID:
		_, ok := byID[x]
		return ok
	case Name:
		_, ok := byName[x]
		return ok
	}

	return false
}

// CoalesceChainID normalises either representation of a chain to its ID. A registered ID is
// returned unchanged.
func CoalesceChainID[T IDOrName](v T) (ID, error) {
	switch x := any(v).(type) {
	case ID:
		if _, ok := byID[x]; !ok {
			return 0, fmt.Errorf("%w: id %d", ErrUnknownChain, x)
		}

		return x, nil
	case Name:
		return ToChainID(x)
	}

	return 0, ErrUnknownChain
}

// FamilyOf returns the family of a registered chain.
func FamilyOf(id ID) (Family, error) {
	e, ok := byID[id]
	if !ok {
		return "", fmt.Errorf("%w: id %d", ErrUnknownChain, id)
	}

	return e.family, nil
}

// All returns every registered chain id in ascending order.
func All() []ID {
	ids := slices.Collect(maps.Keys(byID))
	slices.Sort(ids)

	return ids
}

// ChainsOfFamily returns the registered chain ids of family f in ascending order.
func ChainsOfFamily(f Family) []ID {
	var ids []ID
	for _, e := range entries {
		if e.family == f {
			ids = append(ids, e.id)
		}
	}
	slices.Sort(ids)

	return ids
}

// NativeID returns the identifier the chain uses for itself, e.g. the EVM chain id "56" for bsc
// or the cosmos chain-id "phoenix-1" for terra2.
func NativeID(id ID) (string, error) {
	e, ok := byID[id]
	if !ok {
		return "", fmt.Errorf("%w: id %d", ErrUnknownChain, id)
	}

	return e.nativeID, nil
}
