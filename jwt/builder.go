package jwt

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/halimath/jwtguard/internal/encoding"
	"github.com/halimath/jwtguard/jws"
	"github.com/halimath/jwtguard/jwtcore/alg"
	"github.com/halimath/jwtguard/jwtcore/key"
	"github.com/halimath/jwtguard/jwterr"
)

// DefaultTokenLifetime is the lifetime applied when a Descriptor leaves
// Expires unset.
const DefaultTokenLifetime = 60 * time.Minute

// SigningCredentials pairs a SecurityKey with the wire algorithm name to
// sign under, e.g. {Key: hmacKey, Algorithm: jws.ALG_HS256}.
type SigningCredentials struct {
	Key       key.SecurityKey
	Algorithm jws.SignatureAlgorithm
}

// Actor describes the delegated identity to embed as the "actort" claim
// when building a token. Exactly one of RawToken or Token should be set to
// reuse an existing token; leave both empty and set Claims to have the
// Token Builder mint a fresh unsigned actor token (see actorValue).
type Actor struct {
	// RawToken, if non-empty, is used verbatim as the actort claim value.
	// This covers both "bootstrap context is a string" and "bootstrap
	// context holds a raw token string" from the actor-value construction
	// rules, which have identical representations here.
	RawToken string

	// Token, if set, supplies an already-built Jwt. Its Raw() form is used
	// if present; otherwise it is re-serialized.
	Token *Jwt

	// Claims seeds a freshly built, unsigned actor token when neither
	// RawToken nor Token is set.
	Claims Claims
}

// Descriptor is the input to CreateToken: the claim set, lifetime, and
// signing material needed to assemble a JWT. A zero-value NotBefore/Expires
// default to now and now+DefaultTokenLifetime respectively.
type Descriptor struct {
	Issuer             string
	Audience           []string
	Claims             Claims
	NotBefore          time.Time
	Expires            time.Time
	SigningCredentials *SigningCredentials
	Actor              *Actor

	// Factory resolves SigningCredentials to a concrete signer. Defaults to
	// alg.NewFactory() when nil.
	Factory *alg.Factory

	// AlgorithmMap translates the internal family identifier of
	// SigningCredentials.Algorithm (as given by alg.InternalIDFor) into the
	// wire name written to the header's "alg" member, per the outbound half
	// of the Algorithm Map. Defaults to alg.Default() when nil.
	AlgorithmMap *alg.Map
}

// CreateToken assembles a new Jwt from d. It never mutates d.Claims; the
// returned token carries a cloned and enriched copy.
func CreateToken(d Descriptor) (*Jwt, error) {
	now := time.Now()

	nbf := d.NotBefore
	if nbf.IsZero() {
		nbf = now
	}

	exp := d.Expires
	if exp.IsZero() {
		exp = now.Add(DefaultTokenLifetime)
	}

	claims := d.Claims
	if claims == nil {
		claims = Claims{}
	}
	claims = claims.Clone()

	if d.Issuer != "" {
		claims[ClaimIssuer] = d.Issuer
	}
	if len(d.Audience) > 0 {
		claims[ClaimAudience] = d.Audience
	}
	claims.SetNumericDate(ClaimNotBefore, nbf)
	claims.SetNumericDate(ClaimExpirationTime, exp)
	claims.SetNumericDate(ClaimIssuedAt, now)

	if _, ok := claims[ClaimID]; !ok {
		claims[ClaimID] = uuid.NewString()
	}

	if d.Actor != nil {
		actortValue, err := actorValue(d.Actor)
		if err != nil {
			return nil, err
		}
		claims[ClaimActor] = actortValue
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return nil, jwterr.Wrap(jwterr.MalformedToken, err, "failed to marshal claims")
	}

	header := jws.Header{Type: "JWT", Algorithm: jws.ALG_NONE}

	signer, err := resolveSigner(d, &header)
	if err != nil {
		return nil, err
	}

	// Built manually rather than via jws.Sign: jws.Sign always overwrites
	// header.Algorithm with signer.Alg(), which would discard the outbound
	// algorithm-map translation step 1 of the Token Builder requires (the
	// wire "alg" may legitimately differ from the algorithm the Provider
	// Factory used to actually compute the signature).
	headerEncoded := header.Encode()
	payloadEncoded := encoding.Encode(payload)
	signingInput := []byte(headerEncoded + "." + payloadEncoded)

	sig, err := signer.Sign(signingInput)
	if err != nil {
		return nil, jwterr.Wrap(jwterr.UnsupportedAlgorithm, err, "signing failed")
	}

	compact := string(signingInput) + "." + encoding.Encode(sig)
	j, err := jws.ParseCompact(compact)
	if err != nil {
		return nil, jwterr.Wrap(jwterr.UnsupportedAlgorithm, err, "failed to assemble signed token")
	}

	return &Jwt{jws: j, claims: claims, raw: j.Compact()}, nil
}

// resolveSigner resolves d's SigningCredentials to a Signer and sets
// header's "alg" (via the outbound algorithm map) and "kid" accordingly.
// An unsigned Descriptor yields the "none" signer with no header changes.
func resolveSigner(d Descriptor, header *jws.Header) (jws.Signer, error) {
	if d.SigningCredentials == nil {
		return jws.None(), nil
	}

	if kid := d.SigningCredentials.Key.ID(); kid != "" {
		header.KeyID = kid
	}

	factory := d.Factory
	if factory == nil {
		factory = alg.NewFactory()
	}

	algMap := d.AlgorithmMap
	if algMap == nil {
		algMap = alg.Default()
	}

	p, ok := factory.Resolve(d.SigningCredentials.Key, d.SigningCredentials.Algorithm, alg.IntentSign)
	if !ok {
		return nil, jwterr.New(jwterr.UnsupportedAlgorithm, "no signer for the given key and algorithm")
	}
	defer factory.Release(p)

	header.Algorithm = jws.SignatureAlgorithm(algMap.Outbound(alg.InternalIDFor(d.SigningCredentials.Algorithm)))

	return p.Signer(), nil
}

// actorValue derives the "actort" claim value from a, following the rules
// in order: a verbatim/raw string, a bootstrapped Jwt (its raw form or a
// re-serialization), or a freshly built unsigned token carrying a.Claims.
func actorValue(a *Actor) (string, error) {
	if a.RawToken != "" {
		return a.RawToken, nil
	}

	if a.Token != nil {
		if raw := a.Token.Raw(); raw != "" {
			return raw, nil
		}
		return WriteJwt(a.Token)
	}

	fresh, err := CreateToken(Descriptor{Claims: a.Claims})
	if err != nil {
		return "", err
	}
	return WriteJwt(fresh)
}

// WriteToken builds a token from d and serializes it to compact form.
func WriteToken(d Descriptor) (string, error) {
	t, err := CreateToken(d)
	if err != nil {
		return "", err
	}
	return WriteJwt(t)
}
