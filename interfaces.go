package hawk

// Clock supplies the current time in milliseconds since the epoch. The
// default implementation, SystemClock, reads the OS clock; tests inject a
// fake so that fixed-timestamp scenarios stay deterministic.
type Clock interface {
	NowMillis() int64
}

// CredentialResolver looks up the Credentials for a presented id. opts is
// forwarded opaquely from whichever ServerAuthenticateOptions the caller
// supplied; this package never inspects it.
//
// A nil Credentials with a nil error is treated the same as a non-nil
// error: unknown credentials. Implementations must be safe for concurrent
// calls.
type CredentialResolver interface {
	Resolve(id string, opts interface{}) (*Credentials, error)
}

// CredentialResolverFunc adapts a function to a CredentialResolver.
type CredentialResolverFunc func(id string, opts interface{}) (*Credentials, error)

// Resolve implements CredentialResolver.
func (f CredentialResolverFunc) Resolve(id string, opts interface{}) (*Credentials, error) {
	return f(id, opts)
}

// NonceChecker records a (key, nonce) pair exactly once and reports
// whether this is the first time it has been seen for that key. A
// non-nil error, and a panic inside the implementation, are both treated
// as a replay.
//
// The nonce store behind this interface is the only resource the core
// treats as shared; it must be safe for concurrent access.
type NonceChecker interface {
	CheckNonce(key, nonce string, ts int64) error
}

// NonceCheckerFunc adapts a function to a NonceChecker.
type NonceCheckerFunc func(key, nonce string, ts int64) error

// CheckNonce implements NonceChecker.
func (f NonceCheckerFunc) CheckNonce(key, nonce string, ts int64) error {
	return f(key, nonce, ts)
}
