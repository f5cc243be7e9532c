package jwt

import (
	"github.com/go-logr/logr"

	"github.com/halimath/jwtguard/jwtcore/alg"
	"github.com/halimath/jwtguard/jwtcore/config"
	"github.com/halimath/jwtguard/jwtcore/key"
)

// ValidationParameters is a flat record of optional overrides controlling
// Validate's nine pipeline steps. A zero-value boolean leaves its check or
// option off and a zero ClockSkew allows no tolerance; only
// MaxTokenSizeBytes, MaxActorDepth, Factory and AlgorithmMap fall back to a
// default when zero. DefaultValidationParameters returns a record seeded
// with the documented defaults, so callers only set what they want to
// change instead of assembling a chain of inherited configuration objects.
type ValidationParameters struct {
	// ValidIssuers, if non-empty, restricts acceptable "iss" values.
	// IssuerValidator, if set, replaces this check entirely.
	ValidIssuers    []string
	IssuerValidator func(issuer string) error

	// ValidateAudience turns the audience check on or off; defaults to
	// config.Defaults.ValidateAudience when unset via DefaultValidationParameters.
	ValidateAudience bool
	ValidAudiences   []string
	AudienceValidator func(audience []string) error

	// Exactly one of SigningKey, SigningKeys, or SigningKeyRetriever supplies
	// candidate keys. SigningKeyRetriever is consulted with the raw token so
	// a caller can look up keys by issuer/kid without pre-loading a full set.
	SigningKey          key.SecurityKey
	SigningKeys         key.Set
	SigningKeyRetriever func(raw string) (key.Set, error)

	ValidateLifetime       bool
	ClockSkew              int64 // seconds
	RequireExpirationTime  bool
	RequireSignedTokens    bool

	ValidateActor     bool
	MaxActorDepth     int

	// ValidateSigningKey, when true and the key that verified the signature
	// is an *key.X509Key, runs CertificateValidator against its certificate
	// (step 8). Nothing is checked when CertificateValidator is nil.
	ValidateSigningKey   bool
	CertificateValidator key.CertificateValidator

	MaxTokenSizeBytes int

	// NameClaimType and RoleClaimType pick which flattened claim type
	// Principal.Name and Principal.IsInRole key off of. NameClaimTypeRetriever
	// and RoleClaimTypeRetriever, if set, are consulted per-token instead and
	// win over the static string when both are set.
	NameClaimType          string
	RoleClaimType          string
	NameClaimTypeRetriever func(*Jwt) string
	RoleClaimTypeRetriever func(*Jwt) string

	// AuthenticationType is recorded on the built Principal verbatim; this
	// package assigns it no meaning of its own.
	AuthenticationType string

	// SaveSigninToken, when true, attaches the token's raw compact string to
	// the built Principal as a bootstrap token (see Principal.BootstrapToken).
	SaveSigninToken bool

	// InboundClaimFilter, if non-empty, names claim types dropped entirely
	// from the built Principal - they never reach step 9's claim list.
	InboundClaimFilter map[string]bool

	// InboundClaimTypeMap, if non-empty, renames a claim's type when
	// flattening (e.g. mapping a short registered name to a long URI-style
	// one). The claim's original type is preserved on Claim.OriginalType so
	// callers can still recognize it.
	InboundClaimTypeMap map[string]string

	// Factory resolves verification providers; defaults to alg.NewFactory().
	Factory *alg.Factory

	// AlgorithmMap translates the header's wire "alg" into the internal
	// algorithm name the Provider Factory resolves against (the inbound
	// half of the Algorithm Map). Defaults to alg.Default() when nil.
	AlgorithmMap *alg.Map

	// Logger receives diagnostic detail about candidate keys tried. Optional.
	Logger logr.Logger
}

// DefaultValidationParameters returns ValidationParameters seeded from
// config.MustLoad: unless the environment overrides them, lifetime,
// audience, and signed-token checks are enabled, the clock skew is 5
// minutes, and the size cap is 256KiB. MaxActorDepth is 1.
func DefaultValidationParameters() ValidationParameters {
	d := config.MustLoad()
	return ValidationParameters{
		ValidateAudience:      d.ValidateAudience,
		ValidateLifetime:      d.ValidateLifetime,
		ClockSkew:             int64(d.ClockSkew.Seconds()),
		RequireSignedTokens:   d.RequireSignedTokens,
		MaxActorDepth:         1,
		MaxTokenSizeBytes:     d.MaxTokenSizeBytes,
	}
}
