package key

import (
	"crypto"
	"crypto/sha1" //nolint:gosec // SHA-1 thumbprint is the RFC 7515 "x5t" wire format, not used for its collision resistance.
	"crypto/sha256"
	"crypto/x509"

	"github.com/halimath/jwtguard/internal/encoding"
)

// X509Key wraps a certificate-backed public key. Like every SecurityKey it
// matches a header's "kid" hint; it is the only type that also resolves the
// x5t/x5t#S256 thumbprint hints (see the SecurityKey doc).
type X509Key struct {
	keyID       string
	Certificate *x509.Certificate
}

// NewX509Key wraps cert, identified by kid (which may be empty - the
// thumbprint clauses still allow it to be matched).
func NewX509Key(kid string, cert *x509.Certificate) *X509Key {
	return &X509Key{keyID: kid, Certificate: cert}
}

func (k *X509Key) Type() KeyType         { return TypeX509 }
func (k *X509Key) ID() string            { return k.keyID }
func (k *X509Key) PublicKey() crypto.PublicKey { return k.Certificate.PublicKey }

// Thumbprint returns the base64url-encoded SHA-1 digest of the certificate's
// DER encoding, matching the wire format of the "x5t" header parameter.
func (k *X509Key) Thumbprint() string {
	sum := sha1.Sum(k.Certificate.Raw) //nolint:gosec
	return encoding.Encode(sum[:])
}

// ThumbprintS256 returns the base64url-encoded SHA-256 digest of the
// certificate's DER encoding, matching the wire format of the "x5t#S256"
// header parameter.
func (k *X509Key) ThumbprintS256() string {
	sum := sha256.Sum256(k.Certificate.Raw)
	return encoding.Encode(sum[:])
}

// Matches resolves hints against every clause type the certificate
// supports: kid equality, the SHA-1 thumbprint ("x5t"), and the SHA-256
// thumbprint ("x5t#S256"). Any single match is sufficient.
func (k *X509Key) Matches(hints Hints) bool {
	if hints.Empty() {
		return false
	}
	if hints.KeyID != "" && k.keyID != "" && hints.KeyID == k.keyID {
		return true
	}
	if hints.X5T != "" && hints.X5T == k.Thumbprint() {
		return true
	}
	if hints.X5TS256 != "" && hints.X5TS256 == k.ThumbprintS256() {
		return true
	}
	return false
}

// CertificateValidator validates an X.509 certificate chain. Chain
// validation itself (path building, revocation, trust anchors) is an
// external capability this package only consumes.
type CertificateValidator interface {
	ValidateCertificate(cert *x509.Certificate) error
}

// CertificateValidatorFunc adapts a function to a CertificateValidator.
type CertificateValidatorFunc func(cert *x509.Certificate) error

func (f CertificateValidatorFunc) ValidateCertificate(cert *x509.Certificate) error {
	return f(cert)
}
