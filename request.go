// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hawk

import (
	"net/http"
	"strconv"
	"strings"
)

// MaxHostHeaderLength bounds the Host header value ParseRequest accepts.
const MaxHostHeaderLength = 4096

// RequestOptions adjusts how ParseRequest derives the request view.
// Host and Port, when set, take precedence over anything found in the
// request itself; HostHeaderName substitutes a proxy-supplied header
// (such as "X-Forwarded-Host") for the plain Host header.
type RequestOptions struct {
	HostHeaderName string
	Host           string
	Port           int
}

// RequestView is the neutral description of one HTTP request that the
// server-side operations consume. Hosts that do not route through
// net/http can fill it in directly instead of calling ParseRequest.
type RequestView struct {
	Method        string
	URL           string // path, plus "?query" when the query is non-empty
	Host          string
	Port          int
	Authorization string
	ContentType   string // media type only, parameters stripped
}

// ParseRequest normalizes an incoming net/http request into a
// RequestView, resolving the effective host and port from the options,
// the Host header, and the transport, in that order of precedence.
func ParseRequest(r *http.Request, opts RequestOptions) (*RequestView, error) {
	view := &RequestView{
		Method:        r.Method,
		URL:           requestResource(r),
		Host:          opts.Host,
		Port:          opts.Port,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   mediaType(r.Header.Get("Content-Type")),
	}

	if view.Host == "" || view.Port == 0 {
		value := hostHeaderValue(r, opts.HostHeaderName)
		if value != "" {
			host, port, err := parseHostHeader(value)
			if err != nil {
				return nil, err
			}
			if view.Host == "" {
				view.Host = host
			}
			if view.Port == 0 {
				view.Port = port
			}
		}
	}
	if view.Host == "" {
		return nil, newError(KindInvalidHostHeader, "Invalid Host header")
	}
	if view.Port == 0 {
		view.Port = defaultPort(r)
	}
	return view, nil
}

func requestResource(r *http.Request) string {
	resource := r.URL.EscapedPath()
	if resource == "" {
		resource = "/"
	}
	if r.URL.RawQuery != "" {
		resource += "?" + r.URL.RawQuery
	}
	return resource
}

// hostHeaderValue reads the header ParseRequest should trust for the
// host. net/http promotes the plain Host header out of the header map,
// so that name is answered from r.Host.
func hostHeaderValue(r *http.Request, name string) string {
	if name == "" || strings.EqualFold(name, "Host") {
		return r.Host
	}
	return r.Header.Get(name)
}

func defaultPort(r *http.Request) int {
	if r.TLS != nil || r.URL.Scheme == "https" {
		return 443
	}
	return 80
}

// parseHostHeader splits a Host header value into host and port. It is a
// character-class state machine, not a URI parser: hostnames and IPv4
// literals are letters, digits, '.' and '-'; IPv6 literals are bracketed
// and may contain ':' only inside the brackets. A ':' outside brackets
// ends the host and begins a mandatory decimal port in 0..65535.
//
// A zero port in the return means the header named no port.
func parseHostHeader(value string) (string, int, *Error) {
	if len(value) > MaxHostHeaderLength {
		return "", 0, newError(KindInvalidHostHeader, "Invalid Host header")
	}

	var host string
	rest := value
	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return "", 0, newError(KindInvalidHostHeader, "Invalid Host header")
		}
		host = rest[:end+1]
		rest = rest[end+1:]
	} else {
		var i int
		for i = 0; i < len(rest); i++ {
			if !isHostByte(rest[i]) {
				break
			}
		}
		host = rest[:i]
		rest = rest[i:]
	}
	if host == "" || host == "[]" {
		return "", 0, newError(KindInvalidHostHeader, "Invalid Host header")
	}
	if rest == "" {
		return host, 0, nil
	}
	if rest[0] != ':' {
		return "", 0, newError(KindInvalidHostHeader, "Invalid Host header")
	}

	portStr := rest[1:]
	if portStr == "" {
		return "", 0, newError(KindInvalidHostHeader, "Invalid Host header")
	}
	for i := 0; i < len(portStr); i++ {
		if portStr[i] < '0' || portStr[i] > '9' {
			return "", 0, newError(KindInvalidHostHeader, "Invalid Host header")
		}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port > 65535 {
		return "", 0, newError(KindInvalidHostHeader, "Invalid Host header")
	}
	return host, port, nil
}

func isHostByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '.' || c == '-'
}
