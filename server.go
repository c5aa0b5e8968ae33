package hawk

import (
	"net/http"
	"strconv"

	"github.com/pkg/errors"
)

// DefaultTimestampSkewSec is the tolerance, in seconds and symmetric
// about now, for accepting a request timestamp.
const DefaultTimestampSkewSec = 60

// MaxResourceLength bounds the URL AuthenticateBewit is willing to scan.
const MaxResourceLength = 4096

// Server bundles the two host-supplied collaborators with the temporal
// knobs of request verification. Resolver is mandatory; Nonce is
// optional, and without it replayed requests are not detected.
type Server struct {
	Resolver CredentialResolver
	Nonce    NonceChecker
	Clock    Clock
	// OffsetMsec is added to every clock reading.
	OffsetMsec int64
	// TimestampSkewSec overrides DefaultTimestampSkewSec when positive.
	TimestampSkewSec int64
	// ResolverOptions is handed to Resolver.Resolve unchanged.
	ResolverOptions interface{}
}

// AuthOptions carries the optional inputs to Server.Authenticate. A
// non-nil Payload asks for the request body to be verified inline
// against the header's hash attribute.
type AuthOptions struct {
	Payload []byte
}

// AuthResult is a successfully verified request: the credentials it was
// signed with and the artifacts the MAC covered. It is the input to
// Server.Header and Server.AuthenticatePayload.
type AuthResult struct {
	Credentials *Credentials
	Artifacts   Artifacts
}

// ServerHeaderOptions carries the optional inputs to Server.Header.
// Hash wins over Payload; a non-nil Payload is hashed with ContentType.
type ServerHeaderOptions struct {
	Ext         string
	Hash        string
	Payload     []byte
	ContentType string
}

func (s *Server) nowMsec() int64 {
	return nowMillis(s.Clock) + s.OffsetMsec
}

func (s *Server) skewMsec() uint64 {
	skew := s.TimestampSkewSec
	if skew <= 0 {
		skew = DefaultTimestampSkewSec
	}
	return uint64(skew) * 1000
}

// Authenticate verifies the Authorization header of req: it parses the
// header, resolves the presented id, recomputes the MAC, optionally
// verifies the payload, consults the nonce store, and enforces the
// timestamp skew window. The first failing step decides the error.
func (s *Server) Authenticate(req *RequestView, opts *AuthOptions) (*AuthResult, error) {
	if req == nil {
		return nil, errors.New("hawk: nil request")
	}
	if opts == nil {
		opts = &AuthOptions{}
	}
	now := s.nowMsec()

	attrs, perr := parseHeader(req.Authorization, authorizationAttributes)
	if perr != nil {
		return nil, perr
	}
	if attrs["id"] == "" || attrs["ts"] == "" || attrs["nonce"] == "" || attrs["mac"] == "" {
		return nil, newError(KindMissingAttributes, "Missing attributes")
	}
	ts, terr := strconv.ParseInt(attrs["ts"], 10, 64)
	if terr != nil {
		return nil, newError(KindBadHeaderFormat, "Bad header format")
	}

	a := Artifacts{
		TS:       ts,
		Nonce:    attrs["nonce"],
		Method:   req.Method,
		Resource: req.URL,
		Host:     req.Host,
		Port:     req.Port,
		Hash:     attrs["hash"],
		Ext:      attrs["ext"],
		App:      attrs["app"],
		Dlg:      attrs["dlg"],
		ID:       attrs["id"],
		MAC:      attrs["mac"],
	}

	creds, cerr := s.resolve(attrs["id"])
	if cerr != nil {
		return nil, cerr
	}

	mac, merr := computeMAC(CanonHeader, *creds, a)
	if merr != nil {
		return nil, merr
	}
	if !constantTimeEqual(mac, a.MAC) {
		return nil, challengeError(KindBadMAC, "Bad mac")
	}

	if opts.Payload != nil {
		if a.Hash == "" {
			return nil, challengeError(KindMissingRequiredPayload, "Missing required payload hash")
		}
		hash, herr := hashPayload(creds.Algorithm, "", opts.Payload)
		if herr != nil {
			return nil, herr
		}
		if !constantTimeEqual(hash, a.Hash) {
			return nil, challengeError(KindBadPayloadHash, "Bad payload hash")
		}
	}

	if s.Nonce != nil {
		if nerr := checkNonce(s.Nonce, string(creds.Key), a.Nonce, a.TS); nerr != nil {
			return nil, challengeError(KindInvalidNonce, "Invalid nonce")
		}
	}

	if abs64(ts*1000-now) > s.skewMsec() {
		return nil, s.staleTimestamp(creds)
	}

	return &AuthResult{Credentials: creds, Artifacts: a}, nil
}

// AuthenticateBewit verifies a bewit-bearing GET or HEAD request. The
// returned artifacts carry the bewit's fields; the resource is the URL
// with the bewit parameter stripped, which is what the MAC covered.
func (s *Server) AuthenticateBewit(req *RequestView) (*AuthResult, error) {
	if req == nil {
		return nil, errors.New("hawk: nil request")
	}
	now := s.nowMsec()

	if len(req.URL) > MaxResourceLength {
		return nil, newError(KindResourcePathExceedsMaxSize, "Resource path exceeds max length")
	}
	if req.Method != "GET" && req.Method != "HEAD" {
		return nil, challengeError(KindInvalidMethod, "Invalid method")
	}
	if req.Authorization != "" {
		return nil, newError(KindMultipleAuthentications, "Multiple authentications")
	}

	token, stripped, xerr := extractBewit(req.URL)
	if xerr != nil {
		return nil, xerr
	}
	b, derr := decodeBewit(token)
	if derr != nil {
		return nil, derr
	}
	if b.exp*1000 <= now {
		return nil, challengeError(KindAccessExpired, "Access expired")
	}

	creds, cerr := s.resolve(b.id)
	if cerr != nil {
		return nil, cerr
	}

	a := Artifacts{
		TS:       b.exp,
		Nonce:    "",
		Method:   "GET",
		Resource: stripped,
		Host:     req.Host,
		Port:     req.Port,
		Ext:      b.ext,
		ID:       b.id,
		MAC:      b.mac,
	}
	mac, merr := computeMAC(CanonBewit, *creds, a)
	if merr != nil {
		return nil, merr
	}
	if !constantTimeEqual(mac, b.mac) {
		return nil, challengeError(KindBadMAC, "Bad mac")
	}
	return &AuthResult{Credentials: creds, Artifacts: a}, nil
}

// AuthenticateMessage verifies an out-of-band message authenticator
// minted by Client.Message for the same host, port, and message bytes.
func (s *Server) AuthenticateMessage(host string, port int, message []byte, auth *MessageAuthorization) (*Credentials, error) {
	now := s.nowMsec()

	if auth == nil || auth.ID == "" || auth.TS == 0 || auth.Nonce == "" || auth.Hash == "" || auth.MAC == "" {
		return nil, newError(KindInvalidAuthorization, "Invalid authorization")
	}

	creds, cerr := s.resolve(auth.ID)
	if cerr != nil {
		return nil, cerr
	}

	a := Artifacts{
		TS:    auth.TS,
		Nonce: auth.Nonce,
		Host:  host,
		Port:  port,
		Hash:  auth.Hash,
		ID:    auth.ID,
		MAC:   auth.MAC,
	}
	mac, merr := computeMAC(CanonMessage, *creds, a)
	if merr != nil {
		return nil, merr
	}
	if !constantTimeEqual(mac, a.MAC) {
		return nil, challengeError(KindBadMAC, "Bad mac")
	}

	hash, herr := hashPayload(creds.Algorithm, "", message)
	if herr != nil {
		return nil, herr
	}
	if !constantTimeEqual(hash, a.Hash) {
		return nil, challengeError(KindBadMessageHash, "Bad message hash")
	}

	if s.Nonce != nil {
		if nerr := checkNonce(s.Nonce, string(creds.Key), a.Nonce, a.TS); nerr != nil {
			return nil, challengeError(KindInvalidNonce, "Invalid nonce")
		}
	}
	if abs64(a.TS*1000-now) > s.skewMsec() {
		return nil, challengeError(KindStaleTimestamp, "Stale timestamp")
	}
	return creds, nil
}

// AuthenticatePayload verifies a request body that was not yet at hand
// when Authenticate ran, against the hash attribute the MAC has already
// vouched for.
func (s *Server) AuthenticatePayload(payload []byte, result *AuthResult, contentType string) error {
	if result == nil || result.Credentials == nil {
		return errors.New("hawk: nil authentication result")
	}
	hash, herr := hashPayload(result.Credentials.Algorithm, contentType, payload)
	if herr != nil {
		return herr
	}
	if !constantTimeEqual(hash, result.Artifacts.Hash) {
		return challengeError(KindBadPayloadHash, "Bad payload hash")
	}
	return nil
}

// Header builds the Server-Authorization value for a request previously
// verified into result, so the client can confirm the response came
// from a holder of the same key.
func (s *Server) Header(result *AuthResult, opts *ServerHeaderOptions) (string, error) {
	if result == nil || result.Credentials == nil {
		return "", errors.New("hawk: nil authentication result")
	}
	if opts == nil {
		opts = &ServerHeaderOptions{}
	}
	if err := result.Credentials.validate(); err != nil {
		return "", err
	}

	a := result.Artifacts
	a.MAC = ""
	a.Hash = opts.Hash
	a.Ext = opts.Ext
	if a.Hash == "" && opts.Payload != nil {
		var herr *Error
		if a.Hash, herr = hashPayload(result.Credentials.Algorithm, opts.ContentType, opts.Payload); herr != nil {
			return "", herr
		}
	}

	mac, merr := computeMAC(CanonResponse, *result.Credentials, a)
	if merr != nil {
		return "", merr
	}

	header := `Hawk mac="` + mac + `"`
	if a.Hash != "" {
		header += `, hash="` + a.Hash + `"`
	}
	if a.Ext != "" {
		header += `, ext="` + escapeHeaderAttribute(a.Ext) + `"`
	}
	return header, nil
}

// resolve classifies the resolver's answer: lookup failures are the
// client's problem, structurally broken credentials are the host's.
func (s *Server) resolve(id string) (*Credentials, *Error) {
	if s.Resolver == nil {
		return nil, newError(KindInvalidCredentials, "Invalid credentials")
	}
	creds, err := s.Resolver.Resolve(id, s.ResolverOptions)
	if err != nil || creds == nil {
		e := challengeError(KindUnknownCredentials, "Unknown credentials")
		if err != nil {
			e.cause = errors.Wrap(err, "resolving credentials")
		}
		return nil, e
	}
	if verr := creds.validate(); verr != nil {
		return nil, verr
	}
	return creds, nil
}

// checkNonce consults the nonce store, converting a panic inside the
// host's implementation into a replay indication.
func checkNonce(nc NonceChecker, key, nonce string, ts int64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("nonce check panicked: %v", r)
		}
	}()
	return nc.CheckNonce(key, nonce, ts)
}

// staleTimestamp builds the 401 whose challenge tells the client the
// server's own clock, MAC'd with the request's credentials so the
// client can trust and adopt it.
func (s *Server) staleTimestamp(creds *Credentials) *Error {
	e := newError(KindStaleTimestamp, "Stale timestamp")
	nowSec := s.nowMsec() / 1000
	tsm, merr := computeTimestampMAC(*creds, nowSec)
	if merr != nil {
		return e
	}
	e.challenge = formatChallenge([][2]string{
		{"ts", formatTS(nowSec)},
		{"tsm", tsm},
	}, "Stale timestamp")
	return e
}

// StatusFor maps any error returned by this package to the HTTP status
// the host should answer with. Unrecognized errors map to 500.
func StatusFor(err error) int {
	if he, ok := AsHawkError(err); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}
