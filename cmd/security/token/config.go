package token

import (
	"os"
	"strings"
	"time"
)

// minSecretBytes is the minimum HS256 secret size we accept.
// We measure bytes (not runes) because the key is used as raw bytes.
const minSecretBytes = 32

// Config defines runtime configuration for token issuance and verification.
type Config struct {
	// Issuer is the value set in the "iss" claim.
	Issuer string

	// TTL defines the lifetime of issued tokens (exp = iat + TTL).
	TTL time.Duration

	// ClockSkew is the allowed time skew during verification.
	ClockSkew time.Duration

	// Secret is the process-wide HS256 signing secret.
	Secret []byte
}

// DefaultConfig returns defaults suitable for development.
// The secret has no default; it must be supplied via environment.
// ClockSkew defaults to zero so expiry is exact: a token is rejected one
// second past exp. Deployments with drifting clocks opt into leeway via
// GATE_TOKEN_CLOCK_SKEW.
func DefaultConfig() Config {
	return Config{
		Issuer:    "gate",
		TTL:       1 * time.Hour,
		ClockSkew: 0,
	}
}

// FromEnv loads token configuration from environment variables.
//
// Required:
//   - GATE_TOKEN_SECRET (>= 32 bytes)
//
// Optional (durations must be valid Go duration strings):
//   - GATE_TOKEN_ISSUER
//   - GATE_TOKEN_TTL
//   - GATE_TOKEN_CLOCK_SKEW
//
// Returns ErrConfig if configuration is invalid. Fail-fast is intentional:
// silently running with a missing or short secret is unacceptable.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv("GATE_TOKEN_ISSUER")); v != "" {
		cfg.Issuer = v
	}

	if v := os.Getenv("GATE_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.TTL = d
	}

	if v := os.Getenv("GATE_TOKEN_CLOCK_SKEW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, ErrConfig
		}
		cfg.ClockSkew = d
	}

	secret := strings.TrimSpace(os.Getenv("GATE_TOKEN_SECRET"))
	if len(secret) < minSecretBytes {
		return Config{}, ErrConfig
	}
	cfg.Secret = []byte(secret)

	return cfg, nil
}
