package hawk

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CanonKind names one of the six normalized-string flavors MAC or hash
// computation can produce.
type CanonKind string

const (
	CanonHeader   CanonKind = "header"
	CanonResponse CanonKind = "response"
	CanonBewit    CanonKind = "bewit"
	CanonMessage  CanonKind = "message"
	CanonPayload  CanonKind = "payload"
	CanonTS       CanonKind = "ts"
)

const protocolVersion = "1"

// escapeExt normalizes ext to Unicode NFC (closing the interop gap left
// by implementations that compare raw UTF-8 byte sequences) and then
// escapes it: backslash doubles, newline becomes the literal
// two-character sequence "\n".
func escapeExt(ext string) string {
	if ext == "" {
		return ""
	}
	normalized := norm.NFC.String(ext)
	normalized = strings.ReplaceAll(normalized, `\`, `\\`)
	normalized = strings.ReplaceAll(normalized, "\n", `\n`)
	return normalized
}

// canonicalString builds the exact byte string that is HMAC'd to produce
// a MAC of the given kind. It is the single choke point all
// MAC computations in this package pass through, so canonicalization
// stays byte-for-byte identical between the client and the server.
func canonicalString(kind CanonKind, a Artifacts) string {
	var b strings.Builder
	fmt.Fprintf(&b, "hawk.%s.%s\n", protocolVersion, kind)
	fmt.Fprintf(&b, "%d\n", a.TS)
	b.WriteString(a.Nonce)
	b.WriteByte('\n')
	b.WriteString(strings.ToUpper(a.Method))
	b.WriteByte('\n')
	b.WriteString(resourceOrRoot(a.Resource))
	b.WriteByte('\n')
	b.WriteString(strings.ToLower(a.Host))
	b.WriteByte('\n')
	b.WriteString(strconv.Itoa(a.Port))
	b.WriteByte('\n')
	b.WriteString(a.Hash)
	b.WriteByte('\n')
	b.WriteString(escapeExt(a.Ext))
	b.WriteByte('\n')
	if a.App != "" {
		b.WriteString(a.App)
		b.WriteByte('\n')
		b.WriteString(a.Dlg)
		b.WriteByte('\n')
	}
	return b.String()
}

// resourceOrRoot substitutes "/" for an absent path.
func resourceOrRoot(resource string) string {
	if resource == "" {
		return "/"
	}
	return resource
}

// computeMAC canonicalizes artifacts for kind and HMACs the result with
// credentials' key and algorithm.
func computeMAC(kind CanonKind, creds Credentials, a Artifacts) (string, *Error) {
	return hmacBase64(creds.Algorithm, creds.Key, []byte(canonicalString(kind, a)))
}

// computeTimestampMAC implements the distinct "hawk.1.ts\n<ts>\n"
// construction used to let a client recover from clock skew.
func computeTimestampMAC(creds Credentials, tsSeconds int64) (string, *Error) {
	input := fmt.Sprintf("hawk.%s.ts\n%d\n", protocolVersion, tsSeconds)
	return hmacBase64(creds.Algorithm, creds.Key, []byte(input))
}
