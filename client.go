package hawk

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Client issues Authorization headers, bewits, and message
// authenticators, and validates what the server sends back. The zero
// value reads the OS clock with no offset and is ready for use.
type Client struct {
	Clock Clock
	// OffsetMsec is added to every clock reading, usually after a stale
	// timestamp challenge revealed how far this host's clock drifts from
	// the server's.
	OffsetMsec int64
}

// HeaderOptions carries the optional inputs to Client.Header. TS and
// Nonce are generated when left zero. A non-nil Payload is hashed into
// the request unless Hash already holds a precomputed value.
type HeaderOptions struct {
	TS          int64
	Nonce       string
	Hash        string
	Payload     []byte
	ContentType string
	Ext         string
	App         string
	Dlg         string
}

// HeaderResult is a built Authorization value plus the artifacts that
// produced it. Keep the artifacts; Client.Authenticate needs them to
// validate the server's reply to this same request.
type HeaderResult struct {
	Header    string
	Artifacts Artifacts
}

// ResponseOptions carries the optional inputs to Client.Authenticate.
// A non-empty Payload asks for the response body to be verified against
// the hash attribute of the Server-Authorization header.
type ResponseOptions struct {
	Payload []byte
}

// BewitOptions carries the optional inputs to Client.GetBewit.
type BewitOptions struct {
	Ext string
}

// BewitResult is a minted bewit token plus the artifacts it was
// computed over.
type BewitResult struct {
	Bewit     string
	Artifacts Artifacts
}

// MessageOptions carries the optional inputs to Client.Message. TS and
// Nonce are generated when left zero.
type MessageOptions struct {
	TS    int64
	Nonce string
}

// MessageAuthorization authenticates one out-of-band message. The
// client sends all five fields; Server.AuthenticateMessage requires all
// five to be present.
type MessageAuthorization struct {
	ID    string
	TS    int64
	Nonce string
	Hash  string
	MAC   string
}

func (c *Client) nowMsec() int64 {
	return nowMillis(c.Clock) + c.OffsetMsec
}

// Header builds the Authorization value for one request to uri, and
// returns it together with the artifacts it was computed over.
func (c *Client) Header(uri *url.URL, method string, creds *Credentials, opts *HeaderOptions) (*HeaderResult, error) {
	if uri == nil || method == "" {
		return nil, errors.New("hawk: invalid uri or method argument")
	}
	if opts == nil {
		opts = &HeaderOptions{}
	}
	if err := creds.validate(); err != nil {
		return nil, err
	}

	ts := opts.TS
	if ts == 0 {
		ts = c.nowMsec() / 1000
	}
	nonce := opts.Nonce
	if nonce == "" {
		var err error
		if nonce, err = RandomNonce(DefaultNonceLength); err != nil {
			return nil, errors.Wrap(err, "hawk: generating a nonce")
		}
	}
	hash := opts.Hash
	if hash == "" && opts.Payload != nil {
		var herr *Error
		if hash, herr = hashPayload(creds.Algorithm, opts.ContentType, opts.Payload); herr != nil {
			return nil, herr
		}
	}

	host, port := splitURLHostPort(uri)
	a := Artifacts{
		TS:       ts,
		Nonce:    nonce,
		Method:   strings.ToUpper(method),
		Resource: urlResource(uri),
		Host:     host,
		Port:     port,
		Hash:     hash,
		Ext:      opts.Ext,
		App:      opts.App,
		Dlg:      opts.Dlg,
		ID:       creds.ID,
	}
	mac, merr := computeMAC(CanonHeader, *creds, a)
	if merr != nil {
		return nil, merr
	}
	a.MAC = mac
	return &HeaderResult{Header: formatRequestHeader(a), Artifacts: a}, nil
}

// Authenticate validates the server's response headers against the
// artifacts of the request they answer. It returns the attributes parsed
// from the WWW-Authenticate and Server-Authorization values, merged.
func (c *Client) Authenticate(headers http.Header, creds *Credentials, artifacts Artifacts, opts *ResponseOptions) (map[string]string, error) {
	if opts == nil {
		opts = &ResponseOptions{}
	}
	if err := creds.validate(); err != nil {
		return nil, err
	}

	result := make(map[string]string)

	if wwwAuth := headers.Get("Www-Authenticate"); wwwAuth != "" {
		attrs, perr := parseHeader(wwwAuth, wwwAuthenticateAttributes)
		if perr != nil {
			return nil, wrapError(KindInvalidWWWAuthenticateHeader, "Invalid WWW-Authenticate header", perr)
		}
		for k, v := range attrs {
			result[k] = v
		}
		if attrs["ts"] != "" && attrs["tsm"] != "" {
			ts, terr := strconv.ParseInt(attrs["ts"], 10, 64)
			if terr != nil {
				return nil, wrapError(KindInvalidWWWAuthenticateHeader, "Invalid WWW-Authenticate header", terr)
			}
			tsm, merr := computeTimestampMAC(*creds, ts)
			if merr != nil {
				return nil, merr
			}
			if !constantTimeEqual(tsm, attrs["tsm"]) {
				return nil, newError(KindInvalidServerTimestampHash, "Invalid server timestamp hash")
			}
		}
	}

	serverAuth := headers.Get("Server-Authorization")
	if serverAuth == "" {
		return result, nil
	}
	attrs, perr := parseHeader(serverAuth, serverAuthAttributes)
	if perr != nil {
		return nil, wrapError(KindInvalidServerAuthorizationHdr, "Invalid Server-Authorization header", perr)
	}
	for k, v := range attrs {
		result[k] = v
	}

	// The response MAC covers the request's artifacts with the reply's
	// own ext and hash substituted in.
	a := artifacts
	a.Ext = attrs["ext"]
	a.Hash = attrs["hash"]
	a.MAC = ""
	mac, merr := computeMAC(CanonResponse, *creds, a)
	if merr != nil {
		return nil, merr
	}
	if !constantTimeEqual(mac, attrs["mac"]) {
		return nil, newError(KindBadResponseMAC, "Bad response mac")
	}

	if len(opts.Payload) > 0 {
		if attrs["hash"] == "" {
			return nil, newError(KindMissingResponseHashAttribute, "Missing response hash attribute")
		}
		hash, herr := hashPayload(creds.Algorithm, headers.Get("Content-Type"), opts.Payload)
		if herr != nil {
			return nil, herr
		}
		if !constantTimeEqual(hash, attrs["hash"]) {
			return nil, newError(KindBadResponsePayloadMAC, "Bad response payload mac")
		}
	}
	return result, nil
}

// GetBewit mints a URL-embeddable authenticator for a single GET or
// HEAD of uri, valid for ttl from now.
func (c *Client) GetBewit(uri *url.URL, creds *Credentials, ttl time.Duration, opts *BewitOptions) (*BewitResult, error) {
	if uri == nil || ttl <= 0 {
		return nil, errors.New("hawk: invalid uri or ttl argument")
	}
	if opts == nil {
		opts = &BewitOptions{}
	}
	if err := creds.validate(); err != nil {
		return nil, err
	}

	exp := c.nowMsec()/1000 + int64(ttl/time.Second)
	host, port := splitURLHostPort(uri)
	a := Artifacts{
		TS:       exp,
		Nonce:    "",
		Method:   "GET",
		Resource: urlResource(uri),
		Host:     host,
		Port:     port,
		Ext:      opts.Ext,
		ID:       creds.ID,
	}
	mac, merr := computeMAC(CanonBewit, *creds, a)
	if merr != nil {
		return nil, merr
	}
	a.MAC = mac
	token := encodeBewit(bewit{id: creds.ID, exp: exp, mac: mac, ext: opts.Ext})
	return &BewitResult{Bewit: token, Artifacts: a}, nil
}

// Message authenticates an out-of-band message addressed to host:port,
// outside any HTTP exchange.
func (c *Client) Message(host string, port int, message []byte, creds *Credentials, opts *MessageOptions) (*MessageAuthorization, error) {
	if host == "" || port < 1 || port > 65535 {
		return nil, errors.New("hawk: invalid host or port argument")
	}
	if opts == nil {
		opts = &MessageOptions{}
	}
	if err := creds.validate(); err != nil {
		return nil, err
	}

	ts := opts.TS
	if ts == 0 {
		ts = c.nowMsec() / 1000
	}
	nonce := opts.Nonce
	if nonce == "" {
		var err error
		if nonce, err = RandomNonce(DefaultNonceLength); err != nil {
			return nil, errors.Wrap(err, "hawk: generating a nonce")
		}
	}
	hash, herr := hashPayload(creds.Algorithm, "", message)
	if herr != nil {
		return nil, herr
	}

	a := Artifacts{
		TS:    ts,
		Nonce: nonce,
		Host:  host,
		Port:  port,
		Hash:  hash,
		ID:    creds.ID,
	}
	mac, merr := computeMAC(CanonMessage, *creds, a)
	if merr != nil {
		return nil, merr
	}
	return &MessageAuthorization{ID: creds.ID, TS: ts, Nonce: nonce, Hash: hash, MAC: mac}, nil
}

// urlResource is the request-target of uri: its path, plus the raw
// query when one is present.
func urlResource(u *url.URL) string {
	resource := u.EscapedPath()
	if resource == "" {
		resource = "/"
	}
	if u.RawQuery != "" {
		resource += "?" + u.RawQuery
	}
	return resource
}

// splitURLHostPort lowercases the hostname and resolves an omitted port
// from the scheme.
func splitURLHostPort(u *url.URL) (string, int) {
	host := strings.ToLower(u.Hostname())
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err == nil {
			return host, port
		}
	}
	if u.Scheme == "https" {
		return host, 443
	}
	return host, 80
}
