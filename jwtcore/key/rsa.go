package key

import "crypto/rsa"

// RsaKey wraps an RSA key pair used with RSASSA-PKCS1-v1_5. PrivateKey is nil
// for a verify-only key.
type RsaKey struct {
	keyID      string
	PublicKey  *rsa.PublicKey
	PrivateKey *rsa.PrivateKey
}

// NewRsaVerifyKey creates an RsaKey carrying only a public key, suitable for
// signature verification.
func NewRsaVerifyKey(kid string, pub *rsa.PublicKey) *RsaKey {
	return &RsaKey{keyID: kid, PublicKey: pub}
}

// NewRsaSigningKey creates an RsaKey carrying a private key, suitable for
// signing. Its public half is derived from priv.
func NewRsaSigningKey(kid string, priv *rsa.PrivateKey) *RsaKey {
	return &RsaKey{keyID: kid, PublicKey: &priv.PublicKey, PrivateKey: priv}
}

func (k *RsaKey) Type() KeyType { return TypeRSA }
func (k *RsaKey) ID() string    { return k.keyID }

// Matches reports whether hints carries a non-empty "kid" equal to this
// key's own identifier. A bare RSA key has no certificate to produce a
// thumbprint from, so X5T/X5TS256 hints never match here.
func (k *RsaKey) Matches(hints Hints) bool {
	return hints.KeyID != "" && k.keyID != "" && hints.KeyID == k.keyID
}
