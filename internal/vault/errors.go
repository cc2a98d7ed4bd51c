package vault

import (
	"errors"
	"fmt"
)

// CryptoErrorKind classifies cipher failures so callers can react to the
// class of failure without seeing primitive-level detail.
type CryptoErrorKind string

const (
	// MalformedBlob means the encrypted blob could not be parsed: wrong
	// component count or a component that is not valid hex.
	MalformedBlob CryptoErrorKind = "malformed_blob"
	// AuthenticationFailed means the GCM tag did not verify: the blob was
	// tampered with or encrypted under a different key.
	AuthenticationFailed CryptoErrorKind = "authentication_failed"
	// PrimitiveError means an underlying crypto primitive failed.
	PrimitiveError CryptoErrorKind = "primitive_error"
)

// CryptoError is the typed error returned by all cipher operations.
// The wrapped cause carries internal detail and must only reach logs,
// never an end user.
type CryptoError struct {
	Kind CryptoErrorKind
	err  error
}

func (e *CryptoError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("crypto failure (%s): %v", e.Kind, e.err)
	}
	return fmt.Sprintf("crypto failure (%s)", e.Kind)
}

func (e *CryptoError) Unwrap() error {
	return e.err
}

// IsCryptoError reports whether err is a CryptoError of the given kind.
func IsCryptoError(err error, kind CryptoErrorKind) bool {
	var ce *CryptoError
	if !errors.As(err, &ce) {
		return false
	}
	return ce.Kind == kind
}

func cryptoErr(kind CryptoErrorKind, err error) *CryptoError {
	return &CryptoError{Kind: kind, err: err}
}
