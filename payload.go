package hawk

import (
	"fmt"
	"strings"
)

// hashPayload computes the payload-content hash: an unkeyed digest of
// "hawk.1.payload\n" || content-type || "\n" || payload || "\n". The
// content type is reduced to its media type: anything from the first ";"
// on is dropped, and the remainder is trimmed and lowercased.
func hashPayload(a Algorithm, contentType string, payload []byte) (string, *Error) {
	input := fmt.Sprintf("hawk.%s.payload\n%s\n", protocolVersion, mediaType(contentType))
	buf := make([]byte, 0, len(input)+len(payload)+1)
	buf = append(buf, input...)
	buf = append(buf, payload...)
	buf = append(buf, '\n')
	return hashBase64(a, buf)
}

// mediaType reduces a Content-Type header value to its bare media type.
func mediaType(contentType string) string {
	if idx := strings.IndexByte(contentType, ';'); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// AuthenticatePayloadHash compares a caller-supplied, already-computed
// payload hash against artifacts.Hash in constant time. Use this when
// the caller hashed the payload itself and only needs the final
// comparison.
func AuthenticatePayloadHash(computedHash string, artifacts Artifacts) error {
	if !constantTimeEqual(computedHash, artifacts.Hash) {
		return newError(KindBadPayloadHash, "payload hash mismatch")
	}
	return nil
}
