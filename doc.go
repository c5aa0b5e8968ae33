// Package hawk implements the Hawk HTTP Holder-Of-Key authentication
// scheme: a client builds an "Authorization" header over a canonicalized
// request description using a pre-shared symmetric key, and a server
// validates it, generates a matching "Server-Authorization" reply, and
// authenticates out-of-band messages and bewit-bearing URLs.
//
// The client side authenticates a request by sending a header formatted
// like this:
//
//	Authorization: Hawk id="dh37fgj492je", ts="1353832234", nonce="j4h3g2",
//	    ext="some-app-data", mac="6R4rV5iE+NPoym+WwjeHzjAGXUtLNIxmTHbFJ+YpZ8o="
//
// The server replies with a header of its own so the client can verify the
// response came from someone who also knows the shared secret:
//
//	Server-Authorization: Hawk mac="XIJRsMl/4oL9nGhWuWouhZBo0f+3LE"
//
// This package performs no I/O and owns no process-wide state: credential
// lookup, nonce replay tracking, and the current time are all supplied by
// the caller through the Clock, CredentialResolver, and NonceChecker
// interfaces (see time.go, interfaces.go). HTTP transport, credential
// issuance, and TLS are the host's responsibility.
package hawk // import "blitznote.com/src/hawk"
