package key

// SymmetricKey wraps a shared secret used with the HMAC SHA-2 family.
// Bytes are always copied on construction and on read so that callers never
// observe an aliased buffer and the library never outlives caller-owned
// memory beyond a single call's scope.
type SymmetricKey struct {
	keyID string
	bytes []byte
}

// NewSymmetricKey copies secret and returns a SymmetricKey identified by
// kid. secret must carry at least one byte.
func NewSymmetricKey(kid string, secret []byte) *SymmetricKey {
	b := make([]byte, len(secret))
	copy(b, secret)
	return &SymmetricKey{keyID: kid, bytes: b}
}

func (k *SymmetricKey) Type() KeyType { return TypeSymmetric }
func (k *SymmetricKey) ID() string    { return k.keyID }

// Matches reports whether hints carries a non-empty "kid" equal to this
// key's own identifier. Symmetric keys have no certificate to produce a
// thumbprint from, so X5T/X5TS256 hints never match here.
func (k *SymmetricKey) Matches(hints Hints) bool {
	return hints.KeyID != "" && k.keyID != "" && hints.KeyID == k.keyID
}

// Bytes returns a defensive copy of the key's secret bytes.
func (k *SymmetricKey) Bytes() []byte {
	b := make([]byte, len(k.bytes))
	copy(b, k.bytes)
	return b
}
