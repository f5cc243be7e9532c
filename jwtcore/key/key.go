// Package key defines the SecurityKey capability used to sign and verify
// JWTs, and the kid-matching rule the Validator uses to pick candidate keys
// out of a key set. It deliberately stops short of JWK (RFC 7517) JSON
// marshaling - converting between a SecurityKey and a JWK document is out of
// scope for this library.
package key

// KeyType names the kind of key material a SecurityKey wraps, mirroring the
// "kty" values defined by RFC 7518 section 6.1, without carrying any of that
// RFC's JSON serialization.
type KeyType string

const (
	TypeSymmetric KeyType = "oct"
	TypeRSA       KeyType = "RSA"
	TypeEC        KeyType = "EC"
	TypeX509      KeyType = "X509"
)

// Hints carries the key-identifying material a JWS header supplies: the
// "kid" claim and, for certificate-backed signers, the X.509 thumbprints.
// A zero-value Hints matches nothing.
type Hints struct {
	KeyID   string
	X5T     string // base64url SHA-1 thumbprint
	X5TS256 string // base64url SHA-256 thumbprint
}

// Empty reports whether h carries no identifying material at all, in which
// case no SecurityKey can match it.
func (h Hints) Empty() bool {
	return h.KeyID == "" && h.X5T == "" && h.X5TS256 == ""
}

// SecurityKey is the capability every signing/verification key in this
// package implements. Matches reports whether hints identifies this key
// under a type-specific equality test - see each concrete key's Matches
// method for the exact rule it applies. Every key type matches on a bare
// "kid" equality; X.509-backed keys additionally match on the x5t/x5t#S256
// certificate thumbprints, which only they can produce.
type SecurityKey interface {
	Type() KeyType

	// ID returns the key's own identifier, if it has one. May be empty.
	ID() string

	// Matches reports whether hints, taken from a JWS header, identifies
	// this key under the kid-matching rule described in the package doc.
	Matches(hints Hints) bool
}
