package jwt

import (
	"encoding/json"
	"fmt"
	"time"
)

// Reserved claim names as defined in RFC7519 section 4.1
// (https://datatracker.ietf.org/doc/html/rfc7519#section-4.1), plus the
// "actort" delegated-identity claim this package recognizes.
const (
	ClaimIssuer         = "iss"
	ClaimSubject        = "sub"
	ClaimAudience       = "aud"
	ClaimExpirationTime = "exp"
	ClaimNotBefore      = "nbf"
	ClaimIssuedAt       = "iat"
	ClaimID             = "jti"

	// ClaimActor carries a nested compact JWT representing delegated
	// identity (the "act" claim family as used by OAuth token exchange /
	// delegation profiles).
	ClaimActor = "actort"
)

// Claims is a map of claim names to values - the opaque payload of a JWT as
// this package sees it. Reserved claims are interpreted by the Validator and
// Token Builder; all others pass through untouched.
type Claims map[string]any

// UnmarshalClaims unmarshals JSON data into a Claims value.
func UnmarshalClaims(data []byte) (Claims, error) {
	var c Claims
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clone returns a deep-enough copy of claims for use as a new payload: the
// top-level map is copied so that mutating the copy never mutates the
// original claim set a caller passed in.
func (c Claims) Clone() Claims {
	out := make(Claims, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Has returns true iff claims contains a claim named claim.
func (c Claims) Has(claim string) bool {
	_, ok := c[claim]
	return ok
}

// GetString returns the named claim's value as a string. Returns "" if
// absent, and an error if present but not a string.
func (c Claims) GetString(claim string) (string, error) {
	v, ok := c[claim]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("claim %s is not a string: %v", claim, v)
	}
	return s, nil
}

// GetInt64 returns the named claim's value as an int64. Returns 0 if
// absent, and an error if present but not numeric.
func (c Claims) GetInt64(claim string) (int64, error) {
	v, ok := c[claim]
	if !ok {
		return 0, nil
	}
	switch val := v.(type) {
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case float64:
		return int64(val), nil
	case json.Number:
		return val.Int64()
	default:
		return 0, fmt.Errorf("claim %s is not numeric: %v", claim, v)
	}
}

// GetNumericDate returns the named claim's value as a time.Time, treating
// the claim as a NumericDate (seconds since epoch; fractional accepted).
// ok is false iff the claim is absent.
func (c Claims) GetNumericDate(claim string) (t time.Time, ok bool, err error) {
	v, present := c[claim]
	if !present {
		return time.Time{}, false, nil
	}
	switch val := v.(type) {
	case int64:
		return time.Unix(val, 0).UTC(), true, nil
	case int:
		return time.Unix(int64(val), 0).UTC(), true, nil
	case float64:
		sec := int64(val)
		nsec := int64((val - float64(sec)) * float64(time.Second))
		return time.Unix(sec, nsec).UTC(), true, nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return time.Time{}, true, fmt.Errorf("claim %s is not a numeric date: %v", claim, v)
		}
		sec := int64(f)
		return time.Unix(sec, 0).UTC(), true, nil
	default:
		return time.Time{}, true, fmt.Errorf("claim %s is not a numeric date: %v", claim, v)
	}
}

// GetStringSlice returns the named claim's value as a slice of strings. A
// single string value is returned as a one-element slice (the "aud" claim's
// special case per RFC7519 section 4.1.3).
func (c Claims) GetStringSlice(claim string) ([]string, error) {
	v, ok := c[claim]
	if !ok {
		return nil, nil
	}

	switch val := v.(type) {
	case string:
		return []string{val}, nil
	case []string:
		return val, nil
	case []any:
		out := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("claim %s contains a non-string element: %v", claim, item)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("claim %s is not a string or array of strings: %v", claim, v)
	}
}

// SetNumericDate sets claim to t's NumericDate (integer seconds since
// epoch).
func (c Claims) SetNumericDate(claim string, t time.Time) {
	c[claim] = t.Unix()
}
