package hawk

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxHeaderLength bounds the Authorization, Server-Authorization, and
// WWW-Authenticate values this package will parse.
const MaxHeaderLength = 4096

// The closed attribute vocabulary of the header grammar. Per header type
// the caller restricts this further; see parseHeader.
var headerAttributes = []string{"app", "dlg", "error", "ext", "hash", "id", "mac", "nonce", "ts", "tsm"}

var (
	authorizationAttributes   = []string{"app", "dlg", "ext", "hash", "id", "mac", "nonce", "ts"}
	serverAuthAttributes      = []string{"ext", "hash", "mac"}
	wwwAuthenticateAttributes = []string{"error", "ts", "tsm"}
)

var schemeRegex = regexp.MustCompile(`^(\w+)(?:\s+(\S.*))?$`)

// parseHeader tokenizes a `Hawk k="v", …` attribute list into a map,
// admitting only the keys in allowed. It classifies each way the input
// can be malformed but does not judge semantic completeness; asserting
// which attributes must be present is the caller's job.
func parseHeader(header string, allowed []string) (map[string]string, *Error) {
	if header == "" {
		return nil, unauthorizedBare()
	}
	if len(header) > MaxHeaderLength {
		return nil, newError(KindHeaderLengthTooLong, "Header length too long")
	}

	m := schemeRegex.FindStringSubmatch(header)
	if m == nil {
		return nil, newError(KindInvalidHeaderSyntax, "Invalid header syntax")
	}
	if !strings.EqualFold(m[1], "hawk") {
		return nil, unauthorizedBare()
	}
	if m[2] == "" {
		// The scheme token alone carries no attributes.
		return nil, newError(KindInvalidHeaderSyntax, "Invalid header syntax")
	}
	return parseAttributes(m[2], allowed)
}

func parseAttributes(src string, allowed []string) (map[string]string, *Error) {
	attrs := make(map[string]string)
	rest := src
	for {
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 {
			return nil, newError(KindBadHeaderFormat, "Bad header format")
		}
		key := rest[:eq]
		for i := 0; i < len(key); i++ {
			if !isWordByte(key[i]) {
				return nil, newError(KindBadHeaderFormat, "Bad header format")
			}
		}
		if !contains(headerAttributes, key) || !contains(allowed, key) {
			return nil, newError(KindUnknownAttribute, "Unknown attribute: "+key)
		}
		if _, seen := attrs[key]; seen {
			return nil, newError(KindDuplicateAttribute, "Duplicate attribute: "+key)
		}

		rest = rest[eq+1:]
		if rest == "" || rest[0] != '"' {
			return nil, newError(KindBadHeaderFormat, "Bad header format")
		}
		rest = rest[1:]

		// Value: one or more bytes from the allowed set, then the closing
		// quote. An empty value trips over its own closing quote, which is
		// reported as the offending character.
		var i int
		for i = 0; i < len(rest); i++ {
			c := rest[i]
			if c == '"' && i > 0 {
				break
			}
			if !isValueByte(c) {
				return nil, newError(KindBadAttributeValue, "Bad attribute value: "+string(c))
			}
		}
		if i == len(rest) {
			return nil, newError(KindBadHeaderFormat, "Bad header format")
		}
		attrs[key] = rest[:i]
		rest = rest[i+1:]

		if rest == "" {
			return attrs, nil
		}
		if rest[0] != ',' {
			return nil, newError(KindBadHeaderFormat, "Bad header format")
		}
		rest = strings.TrimLeft(rest[1:], " ")
		if rest == "" {
			return nil, newError(KindBadHeaderFormat, "Bad header format")
		}
	}
}

// isValueByte admits the printable ASCII range less the two bytes the
// grammar reserves, '"' and '\'.
func isValueByte(c byte) bool {
	return c >= 0x20 && c <= 0x7e && c != '"' && c != '\\'
}

func isWordByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}

func contains(set []string, s string) bool {
	for _, member := range set {
		if member == s {
			return true
		}
	}
	return false
}

// formatRequestHeader assembles the Authorization value in its fixed
// order: id, ts, nonce, hash and ext when present, mac, then app and dlg
// when the request is made on behalf of an application.
func formatRequestHeader(a Artifacts) string {
	var b strings.Builder
	b.WriteString(`Hawk id="`)
	b.WriteString(a.ID)
	b.WriteString(`", ts="`)
	b.WriteString(formatTS(a.TS))
	b.WriteString(`", nonce="`)
	b.WriteString(a.Nonce)
	b.WriteByte('"')
	if a.Hash != "" {
		b.WriteString(`, hash="`)
		b.WriteString(a.Hash)
		b.WriteByte('"')
	}
	if a.Ext != "" {
		b.WriteString(`, ext="`)
		b.WriteString(a.Ext)
		b.WriteByte('"')
	}
	b.WriteString(`, mac="`)
	b.WriteString(a.MAC)
	b.WriteByte('"')
	if a.App != "" {
		b.WriteString(`, app="`)
		b.WriteString(a.App)
		b.WriteByte('"')
		if a.Dlg != "" {
			b.WriteString(`, dlg="`)
			b.WriteString(a.Dlg)
			b.WriteByte('"')
		}
	}
	return b.String()
}

func formatTS(ts int64) string {
	return strconv.FormatInt(ts, 10)
}

// escapeHeaderAttribute protects a Server-Authorization ext value:
// backslash and double quote are backslash-escaped.
func escapeHeaderAttribute(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return v
}
