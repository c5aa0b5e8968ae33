package hawk

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Kind enumerates every distinguishable Hawk failure. Each Kind maps to
// exactly one HTTP status and to whether a WWW-Authenticate challenge is
// emitted alongside it.
type Kind string

// 400s: malformed input, never challenged. KindInvalidHostHeader is the
// exception in this group: it maps to 500 (see statusByKind).
const (
	KindBadHeaderFormat            Kind = "bad-header-format"
	KindHeaderLengthTooLong        Kind = "header-length-too-long"
	KindInvalidHeaderSyntax        Kind = "invalid-header-syntax"
	KindInvalidHostHeader          Kind = "invalid-host-header"
	KindMissingAttributes          Kind = "missing-attributes"
	KindDuplicateAttribute         Kind = "duplicate-attribute"
	KindUnknownAttribute           Kind = "unknown-attribute"
	KindBadAttributeValue          Kind = "bad-attribute-value"
	KindInvalidBewitEncoding       Kind = "invalid-bewit-encoding"
	KindInvalidBewitStructure      Kind = "invalid-bewit-structure"
	KindMissingBewitAttributes     Kind = "missing-bewit-attributes"
	KindMultipleAuthentications    Kind = "multiple-authentications"
	KindResourcePathExceedsMaxSize Kind = "resource-path-exceeds-max-length"
	KindInvalidAuthorization       Kind = "invalid-authorization"
)

// 401s: the client may retry, possibly after reading the challenge.
const (
	KindUnauthorized             Kind = "unauthorized"
	KindUnknownCredentials       Kind = "unknown-credentials"
	KindBadMAC                   Kind = "bad-mac"
	KindBadPayloadHash           Kind = "bad-payload-hash"
	KindBadMessageHash           Kind = "bad-message-hash"
	KindMissingRequiredPayload   Kind = "missing-required-payload-hash"
	KindInvalidMethod            Kind = "invalid-method"
	KindInvalidNonce             Kind = "invalid-nonce"
	KindStaleTimestamp           Kind = "stale-timestamp"
	KindAccessExpired            Kind = "access-expired"
	KindEmptyBewit               Kind = "empty-bewit"
)

// 500s: the host or the credential backing store is misconfigured.
const (
	KindInvalidCredentials            Kind = "invalid-credentials"
	KindUnknownAlgorithm              Kind = "unknown-algorithm"
	KindInvalidServerTimestampHash    Kind = "invalid-server-timestamp-hash"
	KindBadResponseMAC                Kind = "bad-response-mac"
	KindBadResponsePayloadMAC         Kind = "bad-response-payload-mac"
	KindMissingResponseHashAttribute  Kind = "missing-response-hash-attribute"
	KindInvalidWWWAuthenticateHeader  Kind = "invalid-www-authenticate-header"
	KindInvalidServerAuthorizationHdr Kind = "invalid-server-authorization-header"
)

var statusByKind = map[Kind]int{
	KindBadHeaderFormat:     http.StatusBadRequest,
	KindHeaderLengthTooLong: http.StatusBadRequest,
	KindInvalidHeaderSyntax: http.StatusBadRequest,
	// A missing or garbled Host header is the transport layer
	// misbehaving, not a malformed credential presentation.
	KindInvalidHostHeader:          http.StatusInternalServerError,
	KindMissingAttributes:          http.StatusBadRequest,
	KindDuplicateAttribute:         http.StatusBadRequest,
	KindUnknownAttribute:           http.StatusBadRequest,
	KindBadAttributeValue:          http.StatusBadRequest,
	KindInvalidBewitEncoding:       http.StatusBadRequest,
	KindInvalidBewitStructure:      http.StatusBadRequest,
	KindMissingBewitAttributes:     http.StatusBadRequest,
	KindMultipleAuthentications:    http.StatusBadRequest,
	KindResourcePathExceedsMaxSize: http.StatusBadRequest,
	KindInvalidAuthorization:       http.StatusBadRequest,

	KindUnauthorized:           http.StatusUnauthorized,
	KindUnknownCredentials:     http.StatusUnauthorized,
	KindBadMAC:                 http.StatusUnauthorized,
	KindBadPayloadHash:         http.StatusUnauthorized,
	KindBadMessageHash:         http.StatusUnauthorized,
	KindMissingRequiredPayload: http.StatusUnauthorized,
	KindInvalidMethod:          http.StatusUnauthorized,
	KindInvalidNonce:           http.StatusUnauthorized,
	KindStaleTimestamp:         http.StatusUnauthorized,
	KindAccessExpired:          http.StatusUnauthorized,
	KindEmptyBewit:             http.StatusUnauthorized,

	KindInvalidCredentials:            http.StatusInternalServerError,
	KindUnknownAlgorithm:              http.StatusInternalServerError,
	KindInvalidServerTimestampHash:    http.StatusInternalServerError,
	KindBadResponseMAC:                http.StatusInternalServerError,
	KindBadResponsePayloadMAC:         http.StatusInternalServerError,
	KindMissingResponseHashAttribute:  http.StatusInternalServerError,
	KindInvalidWWWAuthenticateHeader:  http.StatusInternalServerError,
	KindInvalidServerAuthorizationHdr: http.StatusInternalServerError,
}

// emitsChallenge reports whether a WWW-Authenticate challenge accompanies
// this Kind's response. Every 401 carries one; nothing else does.
func emitsChallenge(k Kind) bool {
	return statusByKind[k] == http.StatusUnauthorized
}

// Error is the single error type every Hawk operation returns on failure.
// It carries the classified Kind, the HTTP status the host should answer
// with, a human message, and, for 401s, the literal WWW-Authenticate
// value to send back.
type Error struct {
	Kind      Kind
	status    int
	message   string
	challenge string
	cause     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("hawk: %s: %s: %v", e.Kind, e.message, e.cause)
	}
	return fmt.Sprintf("hawk: %s: %s", e.Kind, e.message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

// StatusCode returns the HTTP status the host should answer with.
func (e *Error) StatusCode() int { return e.status }

// Challenge returns the literal WWW-Authenticate header value for this
// error, and whether one applies at all (only 401s carry one).
func (e *Error) Challenge() (string, bool) {
	if e.challenge == "" {
		return "", false
	}
	return e.challenge, true
}

func newError(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		status:  statusByKind[kind],
		message: message,
	}
}

func wrapError(kind Kind, message string, cause error) *Error {
	e := newError(kind, message)
	e.cause = errors.Wrap(cause, message)
	return e
}

// formatChallenge assembles a WWW-Authenticate value: the scheme token,
// any attribute pairs each followed by a comma, and an optional trailing
// error attribute. Without an error attribute the last pair's comma is
// dropped.
func formatChallenge(pairs [][2]string, errMsg string) string {
	var b strings.Builder
	b.WriteString("Hawk")
	for _, p := range pairs {
		b.WriteByte(' ')
		b.WriteString(p[0])
		b.WriteString(`="`)
		b.WriteString(p[1])
		b.WriteString(`",`)
	}
	if errMsg != "" {
		b.WriteString(` error="`)
		b.WriteString(errMsg)
		b.WriteByte('"')
		return b.String()
	}
	return strings.TrimSuffix(b.String(), ",")
}

// unauthorizedBare is the 401 whose challenge is the bare scheme token,
// used when no Hawk credentials were presented at all.
func unauthorizedBare() *Error {
	e := newError(KindUnauthorized, "unauthorized")
	e.challenge = "Hawk"
	return e
}

// challengeError builds a 401 whose challenge is `Hawk error="<message>"`.
func challengeError(kind Kind, message string) *Error {
	e := newError(kind, message)
	if emitsChallenge(kind) {
		e.challenge = formatChallenge(nil, message)
	}
	return e
}

// AsHawkError extracts the *Error from any error produced by this package,
// unwrapping causes added by collaborators as needed.
func AsHawkError(err error) (*Error, bool) {
	var he *Error
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}
