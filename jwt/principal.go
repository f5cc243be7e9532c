package jwt

import "fmt"

// Claim is one flattened (type, value) pair lifted out of a validated
// token's claim set, tagged with the issuer that vouched for it. Multi-
// valued claims (e.g. "aud") produce one Claim per element.
type Claim struct {
	Type   string
	Value  string
	Issuer string

	// OriginalType records the claim's type as it appeared in the token,
	// before InboundClaimTypeMap renamed it. Equal to Type when no mapping
	// applied.
	OriginalType string

	// OriginalIssuer is the issuer that vouched for this claim, same as
	// Issuer - callers that rename a principal's effective issuer downstream
	// (e.g. via an actor chain) can still recover who originally signed it.
	OriginalIssuer string
}

// Principal is the Claims-Identity Adapter's output: a flattened, read-only
// view over a validated token's claims, plus the delegated identity chain
// (if any) that authenticated on the caller's behalf. It has no notion of
// authorization itself - only of "who does this token say is acting, and on
// whose behalf".
type Principal struct {
	Claims []Claim
	Actor  *Principal

	// AuthenticationType, NameClaimType, and RoleClaimType are copied from
	// the ValidationParameters that built this Principal (or its retrievers'
	// results); see Name and IsInRole.
	AuthenticationType string
	NameClaimType      string
	RoleClaimType      string

	// BootstrapToken holds the raw compact token this Principal was built
	// from, set only when ValidationParameters.SaveSigninToken is true.
	BootstrapToken string
}

// FindFirst returns the first claim of the given type, if any.
func (p *Principal) FindFirst(claimType string) (Claim, bool) {
	for _, c := range p.Claims {
		if c.Type == claimType {
			return c, true
		}
	}
	return Claim{}, false
}

// HasClaim reports whether p carries a claim of the given type and value.
func (p *Principal) HasClaim(claimType, value string) bool {
	for _, c := range p.Claims {
		if c.Type == claimType && c.Value == value {
			return true
		}
	}
	return false
}

// Identity returns the "sub" claim's value, or "" if absent.
func (p *Principal) Identity() string {
	c, _ := p.FindFirst(ClaimSubject)
	return c.Value
}

// FindFirstOrEmpty returns the value of the first claim of the given type,
// or "" if absent.
func (p *Principal) FindFirstOrEmpty(claimType string) string {
	c, _ := p.FindFirst(claimType)
	return c.Value
}

// Name returns the value of the first claim whose type equals p.NameClaimType,
// or "" if NameClaimType is unset or carries no matching claim.
func (p *Principal) Name() string {
	if p.NameClaimType == "" {
		return ""
	}
	return p.FindFirstOrEmpty(p.NameClaimType)
}

// IsInRole reports whether p carries a claim of type p.RoleClaimType with the
// given value. Always false when RoleClaimType is unset.
func (p *Principal) IsInRole(role string) bool {
	if p.RoleClaimType == "" {
		return false
	}
	return p.HasClaim(p.RoleClaimType, role)
}

// BuildPrincipal flattens t's claims into a Principal per params. issuer is
// the validated issuer string step 6 produced for t (authoritative even when
// an IssuerValidator replaced the default check) - every attached claim is
// tagged with it as both Issuer and OriginalIssuer, since a claim is only
// ever as trustworthy as the token that carried it. If t carries an "actort"
// claim referencing a structurally valid nested token, its claims are
// flattened into Principal.Actor, tagged with that nested token's own "iss"
// (BuildPrincipal does not re-run signature or policy checks on it -
// Validate's own actor step, run before this, already did that when
// ValidateActor is enabled).
func BuildPrincipal(t *Jwt, params *ValidationParameters, issuer string) *Principal {
	p := &Principal{
		AuthenticationType: params.AuthenticationType,
		NameClaimType:      effectiveClaimType(params.NameClaimType, params.NameClaimTypeRetriever, t),
		RoleClaimType:      effectiveClaimType(params.RoleClaimType, params.RoleClaimTypeRetriever, t),
	}
	p.Claims, p.Actor = flattenClaims(t.Claims(), issuer, params)

	if params.SaveSigninToken {
		p.BootstrapToken = t.Raw()
	}

	return p
}

// effectiveClaimType resolves a name/role claim type: a per-token retriever,
// when set, wins over the static value.
func effectiveClaimType(static string, retriever func(*Jwt) string, t *Jwt) string {
	if retriever != nil {
		if v := retriever(t); v != "" {
			return v
		}
	}
	return static
}

// flattenClaims walks claims, applying the inbound filter set and claim-type
// map, and returns the flattened literal claims plus (at most one) nested
// actor Principal. A claim whose mapped type is the well-known actor type is
// recursed into only if its value parses as a JWT; otherwise it is attached
// as an ordinary literal claim instead.
func flattenClaims(claims Claims, issuer string, params *ValidationParameters) ([]Claim, *Principal) {
	var out []Claim
	var actor *Principal

	for k, v := range claims {
		if params.InboundClaimFilter[k] {
			continue
		}

		claimType := k
		if mapped, ok := params.InboundClaimTypeMap[k]; ok {
			claimType = mapped
		}

		if claimType == ClaimActor && actor == nil {
			if s, ok := v.(string); ok && s != "" {
				if nested, err := ReadToken(s); err == nil {
					actor = BuildPrincipal(nested, params, nested.Issuer())
					continue
				}
			}
		}

		switch val := v.(type) {
		case []any:
			for _, item := range val {
				out = append(out, claim(claimType, k, fmt.Sprint(item), issuer))
			}
		case []string:
			for _, item := range val {
				out = append(out, claim(claimType, k, item, issuer))
			}
		default:
			out = append(out, claim(claimType, k, fmt.Sprint(val), issuer))
		}
	}
	return out, actor
}

func claim(claimType, originalType, value, issuer string) Claim {
	return Claim{
		Type:           claimType,
		Value:          value,
		Issuer:         issuer,
		OriginalType:   originalType,
		OriginalIssuer: issuer,
	}
}
