// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hawk

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
)

func TestStatusByKindCoversEveryKind(t *testing.T) {
	all := []Kind{
		KindBadHeaderFormat, KindHeaderLengthTooLong, KindInvalidHeaderSyntax, KindInvalidHostHeader,
		KindMissingAttributes, KindDuplicateAttribute, KindUnknownAttribute, KindBadAttributeValue,
		KindInvalidBewitEncoding, KindInvalidBewitStructure, KindMissingBewitAttributes,
		KindMultipleAuthentications, KindResourcePathExceedsMaxSize, KindInvalidAuthorization,
		KindUnauthorized, KindUnknownCredentials, KindBadMAC, KindBadPayloadHash, KindBadMessageHash,
		KindMissingRequiredPayload, KindInvalidMethod, KindInvalidNonce, KindStaleTimestamp,
		KindAccessExpired, KindEmptyBewit,
		KindInvalidCredentials, KindUnknownAlgorithm, KindInvalidServerTimestampHash,
		KindBadResponseMAC, KindBadResponsePayloadMAC, KindMissingResponseHashAttribute,
		KindInvalidWWWAuthenticateHeader, KindInvalidServerAuthorizationHdr,
	}
	for _, kind := range all {
		status, known := statusByKind[kind]
		if !known {
			t.Errorf("kind %q has no status mapping", kind)
			continue
		}
		switch status {
		case 400, 401, 500:
		default:
			t.Errorf("kind %q maps to unexpected status %d", kind, status)
		}
		if emitsChallenge(kind) != (status == 401) {
			t.Errorf("kind %q: challenge emission disagrees with status %d", kind, status)
		}
	}
}

func TestErrorChallengeOnlyOn401(t *testing.T) {
	if _, ok := newError(KindBadHeaderFormat, "Bad header format").Challenge(); ok {
		t.Error("a 400 carried a challenge")
	}
	if _, ok := newError(KindInvalidCredentials, "Invalid credentials").Challenge(); ok {
		t.Error("a 500 carried a challenge")
	}
	challenge, ok := challengeError(KindBadMAC, "Bad mac").Challenge()
	if !ok || challenge != `Hawk error="Bad mac"` {
		t.Errorf("challengeError(bad mac) challenge = %q, %v", challenge, ok)
	}
}

func TestErrorUnwrapsItsCause(t *testing.T) {
	cause := pkgerrors.New("underlying decode failure")
	wrapped := wrapError(KindInvalidBewitEncoding, "Invalid bewit encoding", cause)

	var he *Error
	if !pkgerrors.As(wrapped, &he) {
		t.Fatal("errors.As failed to find *Error at the surface")
	}
	if he.Kind != KindInvalidBewitEncoding {
		t.Errorf("surfaced kind = %q", he.Kind)
	}
	if pkgerrors.Cause(he.Unwrap()) != cause {
		t.Error("the original cause was lost in wrapping")
	}
}
