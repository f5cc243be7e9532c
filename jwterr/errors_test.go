package jwterr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halimath/jwtguard/jwterr"
)

func TestIsMatchesByCategory(t *testing.T) {
	err := jwterr.New(jwterr.Expired, "token expired 10s ago")

	require.True(t, errors.Is(err, jwterr.Sentinel(jwterr.Expired)))
	require.False(t, errors.Is(err, jwterr.Sentinel(jwterr.InvalidAudience)))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("rsa: verification error")
	err := jwterr.Wrap(jwterr.InvalidSignature, cause, "no candidate key verified")

	require.ErrorIs(t, err, jwterr.Sentinel(jwterr.InvalidSignature))
	require.Contains(t, err.Error(), "no candidate key verified")
	require.NotNil(t, err.Cause())
}
