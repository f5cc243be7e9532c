// Package jwterr defines the structured error taxonomy the Validator and
// Token Builder use. Every failure surfaced across a pipeline step belongs
// to exactly one Category; callers branch on the category with errors.Is
// rather than parsing message text.
package jwterr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Category enumerates the distinct failure classes a caller can branch on.
type Category string

const (
	ArgumentMissing    Category = "argument_missing"
	TokenTooLarge      Category = "token_too_large"
	MalformedToken     Category = "malformed_token"
	UnsupportedAlgorithm Category = "unsupported_algorithm"
	SignatureRequired  Category = "signature_required"
	InvalidSignature   Category = "invalid_signature"
	// SigningKeyNotFound signals that at least one candidate key matched the
	// header's kid hint but none verified - the caller's cue to refresh its
	// key set and retry, distinct from InvalidSignature.
	SigningKeyNotFound Category = "signing_key_not_found"
	NoExpiration       Category = "no_expiration"
	NotYetValid        Category = "not_yet_valid"
	Expired            Category = "expired"
	InvalidAudience    Category = "invalid_audience"
	InvalidIssuer      Category = "invalid_issuer"
	InvalidActor       Category = "invalid_actor"
	ActorDepthExceeded Category = "actor_depth_exceeded"
	InvalidSigningKey  Category = "invalid_signing_key"
)

// Error is a category-tagged failure. Diagnostic accumulates free-form
// detail gathered along the way (e.g. one line per candidate key tried) but
// never carries key bytes. Cause, when present, is the first underlying
// error that led to this failure and participates in errors.Is/As via
// Unwrap.
type Error struct {
	Category   Category
	Diagnostic string
	cause      error
}

func New(cat Category, msg string) *Error {
	return &Error{Category: cat, Diagnostic: msg}
}

func Wrap(cat Category, cause error, msg string) *Error {
	return &Error{Category: cat, Diagnostic: msg, cause: errors.WithStack(cause)}
}

func (e *Error) Error() string {
	if e.Diagnostic == "" {
		return string(e.Category)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Category, e.Diagnostic, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Diagnostic)
}

// Unwrap exposes the wrapped cause so errors.Is/errors.As can walk it.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is a *Error with the same Category, so that
// errors.Is(err, jwterr.New(jwterr.Expired, "")) style category checks work,
// alongside the Sentinel helper below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Category == e.Category
}

// Cause returns the first captured underlying error, or nil.
func (e *Error) Cause() error {
	return e.cause
}

// Sentinel returns a zero-diagnostic *Error for use with errors.Is, e.g.
// errors.Is(err, jwterr.Sentinel(jwterr.InvalidSignature)).
func Sentinel(cat Category) *Error {
	return &Error{Category: cat}
}
