package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/halimath/jwtguard/jwt"
)

func TestBuildPrincipalFlattensClaims(t *testing.T) {
	now := time.Now()
	tok, err := jwt.CreateToken(jwt.Descriptor{
		Issuer:    "https://issuer",
		Audience:  []string{"api", "web"},
		Expires:   now.Add(time.Hour),
		NotBefore: now,
		Claims:    jwt.Claims{"sub": "alice"},
	})
	require.NoError(t, err)

	p := jwt.BuildPrincipal(tok, &jwt.ValidationParameters{}, tok.Issuer())

	require.Equal(t, "alice", p.Identity())
	require.True(t, p.HasClaim(jwt.ClaimAudience, "api"))
	require.True(t, p.HasClaim(jwt.ClaimAudience, "web"))
	require.True(t, p.HasClaim(jwt.ClaimIssuer, "https://issuer"))
	require.Nil(t, p.Actor)
}

func TestBuildPrincipalResolvesActorChain(t *testing.T) {
	actorTok, err := jwt.CreateToken(jwt.Descriptor{Claims: jwt.Claims{"sub": "bob"}})
	require.NoError(t, err)
	actorRaw, err := jwt.WriteJwt(actorTok)
	require.NoError(t, err)

	tok, err := jwt.CreateToken(jwt.Descriptor{
		Claims: jwt.Claims{"sub": "service-a"},
		Actor:  &jwt.Actor{RawToken: actorRaw},
	})
	require.NoError(t, err)

	p := jwt.BuildPrincipal(tok, &jwt.ValidationParameters{}, tok.Issuer())
	require.NotNil(t, p.Actor)
	require.Equal(t, "bob", p.Actor.Identity())
}

func TestBuildPrincipalNameAndRoleClaimTypes(t *testing.T) {
	tok, err := jwt.CreateToken(jwt.Descriptor{
		Claims: jwt.Claims{"sub": "alice", "role": "admin"},
	})
	require.NoError(t, err)

	p := jwt.BuildPrincipal(tok, &jwt.ValidationParameters{
		NameClaimType:      jwt.ClaimSubject,
		RoleClaimType:      "role",
		AuthenticationType: "Bearer",
	}, tok.Issuer())

	require.Equal(t, "alice", p.Name())
	require.True(t, p.IsInRole("admin"))
	require.False(t, p.IsInRole("user"))
	require.Equal(t, "Bearer", p.AuthenticationType)
}

func TestBuildPrincipalNameClaimTypeRetrieverWinsOverStatic(t *testing.T) {
	tok, err := jwt.CreateToken(jwt.Descriptor{
		Claims: jwt.Claims{"sub": "alice", "email": "alice@example.com"},
	})
	require.NoError(t, err)

	p := jwt.BuildPrincipal(tok, &jwt.ValidationParameters{
		NameClaimType:          jwt.ClaimSubject,
		NameClaimTypeRetriever: func(*jwt.Jwt) string { return "email" },
	}, tok.Issuer())

	require.Equal(t, "alice@example.com", p.Name())
}

func TestBuildPrincipalAppliesInboundFilterAndTypeMap(t *testing.T) {
	tok, err := jwt.CreateToken(jwt.Descriptor{
		Claims: jwt.Claims{"sub": "alice", "internal_debug": "secret", "email": "alice@example.com"},
	})
	require.NoError(t, err)

	p := jwt.BuildPrincipal(tok, &jwt.ValidationParameters{
		InboundClaimFilter:  map[string]bool{"internal_debug": true},
		InboundClaimTypeMap: map[string]string{"email": "http://schemas.example.com/email"},
	}, tok.Issuer())

	_, hasDebug := p.FindFirst("internal_debug")
	require.False(t, hasDebug)

	mapped, ok := p.FindFirst("http://schemas.example.com/email")
	require.True(t, ok)
	require.Equal(t, "alice@example.com", mapped.Value)
	require.Equal(t, "email", mapped.OriginalType)
}

func TestBuildPrincipalSavesSigninToken(t *testing.T) {
	tok, err := jwt.CreateToken(jwt.Descriptor{Claims: jwt.Claims{"sub": "alice"}})
	require.NoError(t, err)
	raw, err := jwt.WriteJwt(tok)
	require.NoError(t, err)
	reread, err := jwt.ReadToken(raw)
	require.NoError(t, err)

	p := jwt.BuildPrincipal(reread, &jwt.ValidationParameters{SaveSigninToken: true}, reread.Issuer())
	require.Equal(t, raw, p.BootstrapToken)

	q := jwt.BuildPrincipal(reread, &jwt.ValidationParameters{}, reread.Issuer())
	require.Empty(t, q.BootstrapToken)
}
