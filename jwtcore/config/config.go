// Package config loads the process-wide defaults this library falls back to
// when a caller does not override them explicitly on ValidationParameters.
// Values come from the environment via envconfig, following the same
// ambient configuration style the rest of this codebase's retrieval corpus
// uses for its services.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Defaults mirrors the documented default values: a 256KiB token size cap,
// a 60 minute default token lifetime, a 5 minute clock skew, and signed
// tokens/lifetime/audience validation required by default.
type Defaults struct {
	MaxTokenSizeBytes    int           `envconfig:"JWTGUARD_MAX_TOKEN_SIZE_BYTES" default:"262144"`
	DefaultTokenLifetime time.Duration `envconfig:"JWTGUARD_DEFAULT_TOKEN_LIFETIME" default:"60m"`
	ClockSkew            time.Duration `envconfig:"JWTGUARD_CLOCK_SKEW" default:"5m"`
	RequireSignedTokens  bool          `envconfig:"JWTGUARD_REQUIRE_SIGNED_TOKENS" default:"true"`
	ValidateLifetime     bool          `envconfig:"JWTGUARD_VALIDATE_LIFETIME" default:"true"`
	ValidateAudience     bool          `envconfig:"JWTGUARD_VALIDATE_AUDIENCE" default:"true"`
}

// Load reads Defaults from the environment, applying the documented
// defaults for any variable that is unset.
func Load() (Defaults, error) {
	var d Defaults
	if err := envconfig.Process("", &d); err != nil {
		return Defaults{}, err
	}
	return d, nil
}

// MustLoad is Load, panicking on a malformed environment. Intended for use
// in process startup paths where a bad env var should fail fast.
func MustLoad() Defaults {
	d, err := Load()
	if err != nil {
		panic(err)
	}
	return d
}
