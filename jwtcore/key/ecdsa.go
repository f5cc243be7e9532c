package key

import "crypto/ecdsa"

// EcdsaKey wraps an ECDSA key pair used with the ECDSA SHA-2 family.
// PrivateKey is nil for a verify-only key. This extends beyond the RSA and
// HMAC families the core spec names, exercising the teacher's ECDSA
// signer/verifier alongside them.
type EcdsaKey struct {
	keyID      string
	PublicKey  *ecdsa.PublicKey
	PrivateKey *ecdsa.PrivateKey
}

// NewEcdsaVerifyKey creates an EcdsaKey carrying only a public key.
func NewEcdsaVerifyKey(kid string, pub *ecdsa.PublicKey) *EcdsaKey {
	return &EcdsaKey{keyID: kid, PublicKey: pub}
}

// NewEcdsaSigningKey creates an EcdsaKey carrying a private key.
func NewEcdsaSigningKey(kid string, priv *ecdsa.PrivateKey) *EcdsaKey {
	return &EcdsaKey{keyID: kid, PublicKey: &priv.PublicKey, PrivateKey: priv}
}

func (k *EcdsaKey) Type() KeyType { return TypeEC }
func (k *EcdsaKey) ID() string    { return k.keyID }

// Matches reports whether hints carries a non-empty "kid" equal to this
// key's own identifier. An ECDSA key has no certificate to produce a
// thumbprint from, so X5T/X5TS256 hints never match here.
func (k *EcdsaKey) Matches(hints Hints) bool {
	return hints.KeyID != "" && k.keyID != "" && hints.KeyID == k.keyID
}
