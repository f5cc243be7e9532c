package jwt

import (
	"regexp"
	"time"

	"github.com/halimath/jwtguard/jws"
	"github.com/halimath/jwtguard/jwtcore/key"
	"github.com/halimath/jwtguard/jwterr"
)

// DefaultMaxTokenSizeBytes is the default pre-acceptance size cap applied to
// a raw compact token string before any parsing is attempted.
const DefaultMaxTokenSizeBytes = 262144

var compactForm = regexp.MustCompile(`^[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*$`)

// CanRead reports whether raw is structurally recognizable as a compact JWT:
// its byte length does not exceed maxBytes (checked as len(raw)*2, the
// stricter of the two rules the original implementation used) and it
// matches the three-segment base64url form. CanRead
// never allocates parsed state; it is a pure predicate.
func CanRead(raw string, maxBytes int) bool {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxTokenSizeBytes
	}
	if len(raw)*2 > maxBytes {
		return false
	}
	return compactForm.MatchString(raw)
}

// Jwt is a parsed, but not yet validated, JWT: a typed view over the header
// and claims plus the exact bytes the signature was computed over. Jwt
// values are produced only by ReadToken, Validate, or the Token Builder.
type Jwt struct {
	jws       *jws.JWS
	claims    Claims
	raw       string
	signingKey key.SecurityKey // set by Validate once a candidate key verifies
}

// Header returns a copy of the JWT's header.
func (t *Jwt) Header() jws.Header {
	return t.jws.Header()
}

// Claims returns a copy of the JWT's claim set.
func (t *Jwt) Claims() Claims {
	return t.claims.Clone()
}

// Raw returns the exact compact string this Jwt was parsed from, or the
// freshly serialized form if it was produced by the Token Builder.
func (t *Jwt) Raw() string {
	return t.raw
}

// Compact re-derives the compact serialization from this Jwt's current
// segments. For a token obtained via ReadToken/Validate this is identical to
// Raw(), by construction (see ParseCompact).
func (t *Jwt) Compact() string {
	return t.jws.Compact()
}

// SigningInput returns the exact bytes the signature was (or must be)
// computed over.
func (t *Jwt) SigningInput() []byte {
	return t.jws.SigningInput()
}

// Signature returns a copy of the JWT's signature bytes. Empty for an
// unsigned token.
func (t *Jwt) Signature() []byte {
	return t.jws.Signature()
}

// SigningKey returns the SecurityKey that successfully verified this JWT's
// signature during Validate, or nil if the token has not been validated (or
// carries no signature).
func (t *Jwt) SigningKey() key.SecurityKey {
	return t.signingKey
}

// -- reserved claim accessors --

func (t *Jwt) Issuer() string {
	v, _ := t.claims.GetString(ClaimIssuer)
	return v
}

func (t *Jwt) Subject() string {
	v, _ := t.claims.GetString(ClaimSubject)
	return v
}

func (t *Jwt) ID() string {
	v, _ := t.claims.GetString(ClaimID)
	return v
}

func (t *Jwt) Audience() []string {
	v, _ := t.claims.GetStringSlice(ClaimAudience)
	return v
}

func (t *Jwt) Expiration() (time.Time, bool) {
	v, ok, _ := t.claims.GetNumericDate(ClaimExpirationTime)
	return v, ok
}

func (t *Jwt) NotBefore() (time.Time, bool) {
	v, ok, _ := t.claims.GetNumericDate(ClaimNotBefore)
	return v, ok
}

func (t *Jwt) IssuedAt() (time.Time, bool) {
	v, ok, _ := t.claims.GetNumericDate(ClaimIssuedAt)
	return v, ok
}

// Actor returns the raw compact string of the "actort" claim, or "" if
// absent.
func (t *Jwt) Actor() string {
	v, _ := t.claims.GetString(ClaimActor)
	return v
}

// ReadToken performs a structural decode only: base64url/JSON parsing of
// the header and payload, with no cryptographic or policy validation. Use
// Validate for that. ReadToken applies the default size cap. Validate
// checks params.MaxTokenSizeBytes first and then parses through ReadToken,
// so a cap larger than DefaultMaxTokenSizeBytes does not admit longer
// tokens.
func ReadToken(raw string) (*Jwt, error) {
	if len(raw)*2 > DefaultMaxTokenSizeBytes {
		return nil, jwterr.New(jwterr.TokenTooLarge, "token exceeds maximum size")
	}
	if !CanRead(raw, DefaultMaxTokenSizeBytes) {
		return nil, jwterr.New(jwterr.MalformedToken, "not a compact JWT")
	}

	j, err := jws.ParseCompact(raw)
	if err != nil {
		return nil, jwterr.Wrap(jwterr.MalformedToken, err, "failed to parse compact JWS")
	}

	claims, err := UnmarshalClaims(j.Payload())
	if err != nil {
		return nil, jwterr.Wrap(jwterr.MalformedToken, err, "invalid claims JSON")
	}

	return &Jwt{jws: j, claims: claims, raw: raw}, nil
}

// WriteJwt serializes t back to its compact form.
func WriteJwt(t *Jwt) (string, error) {
	return t.jws.Compact(), nil
}
