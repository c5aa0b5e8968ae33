package hawk

import "strings"

// Algorithm identifies the keyed-hash construction used for a set of
// Credentials. Inputs that name algorithms (strings, header attributes)
// are normalized to this two-variant enumeration at the boundary; any
// other value is an unknown algorithm.
type Algorithm uint8

const (
	// unspecifiedAlgorithm is the Algorithm zero value; it is never valid
	// on its own and only appears transiently while parsing.
	unspecifiedAlgorithm Algorithm = iota
	// SHA1 selects HMAC-SHA1 for MACs and SHA-1 for payload hashes.
	SHA1
	// SHA256 selects HMAC-SHA256 for MACs and SHA-256 for payload hashes.
	SHA256
)

// String returns the canonical wire name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case SHA1:
		return "sha1"
	case SHA256:
		return "sha256"
	default:
		return "unknown"
	}
}

// ParseAlgorithm normalizes a string/byte-list form of an algorithm name
// to its Algorithm tag. Matching is case-insensitive and accepts the
// common aliases seen across Hawk implementations ("sha1", "SHA1").
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sha1":
		return SHA1, nil
	case "sha256":
		return SHA256, nil
	default:
		return unspecifiedAlgorithm, newError(KindUnknownAlgorithm, "unknown algorithm: "+s)
	}
}
