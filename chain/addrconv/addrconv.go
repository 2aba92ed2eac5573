package addrconv

// Converter defines the strategy interface for address handling.
// Each chain family implements this interface to provide its specific address rules.
type Converter interface {
	// ConvertToBytes converts an address string to bytes according to the chain's format
	ConvertToBytes(address string) ([]byte, error)

	// Normalize returns the canonical textual form of an address
	Normalize(address string) (string, error)

	// Supports returns true if this converter supports the given chain family
	Supports(family string) bool
}
