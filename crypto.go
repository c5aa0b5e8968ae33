package hawk

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"hash"
)

// newHash returns a fresh unkeyed hash.Hash for the given algorithm.
func newHash(a Algorithm) (hash.Hash, *Error) {
	switch a {
	case SHA1:
		return sha1.New(), nil
	case SHA256:
		return sha256.New(), nil
	default:
		return nil, newError(KindUnknownAlgorithm, "unknown algorithm")
	}
}

// hmacFunc returns the constructor crypto/hmac.New expects for the given
// algorithm.
func hmacFunc(a Algorithm) (func() hash.Hash, *Error) {
	switch a {
	case SHA1:
		return sha1.New, nil
	case SHA256:
		return sha256.New, nil
	default:
		return nil, newError(KindUnknownAlgorithm, "unknown algorithm")
	}
}

// hmacBase64 computes HMAC(key, data) with the given algorithm and
// base64-encodes the result using the standard, padded alphabet (every
// MAC and tsm value in the wire format uses this encoding).
func hmacBase64(a Algorithm, key, data []byte) (string, *Error) {
	newFn, err := hmacFunc(a)
	if err != nil {
		return "", err
	}
	mac := hmac.New(newFn, key)
	mac.Write(data)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// hashBase64 computes an unkeyed digest of data and base64-encodes it
// with the standard, padded alphabet. Payload hashes are hashed, not
// HMAC'd.
func hashBase64(a Algorithm, data []byte) (string, *Error) {
	h, err := newHash(a)
	if err != nil {
		return "", err
	}
	h.Write(data)
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

// constantTimeEqual compares two base64-encoded MAC/hash strings without
// leaking timing information about the position of the first differing
// byte. Every cryptographic comparison in this package goes through this
// function.
func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// base64URLNoPad encodes data with the URL-safe alphabet and no padding,
// as used by the bewit token.
func base64URLNoPad(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// decodeBase64URLNoPad decodes a URL-safe, unpadded base64 string.
func decodeBase64URLNoPad(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
