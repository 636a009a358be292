package identity

import (
	"errors"

	"gate/cmd/security/password"
)

// Password hashing facade.
//
// identity delegates to cmd/security/password as the single source of truth
// for Argon2id parameters (defaults + env overrides), password policy, and
// strict PHC decoding during verification. This keeps the store and the
// hashing configuration from drifting apart.

// HashPassword returns a PHC-style Argon2id hash string.
// The same plaintext hashed twice yields different strings (random salt).
func HashPassword(plain string) (string, error) {
	cfg, err := password.FromEnv()
	if err != nil {
		// Treat invalid env as an operational error, not a weak fallback.
		return "", err
	}

	enc, err := cfg.Hash(plain)
	if err != nil {
		switch {
		case errors.Is(err, password.ErrPasswordTooShort):
			return "", OpError{Op: "identity.HashPassword", Kind: ErrInvalidInput, Msg: "password too short"}
		case errors.Is(err, password.ErrPasswordTooLong):
			return "", OpError{Op: "identity.HashPassword", Kind: ErrInvalidInput, Msg: "password too long"}
		case errors.Is(err, password.ErrWeakPassword):
			return "", OpError{Op: "identity.HashPassword", Kind: ErrInvalidInput, Msg: "weak password"}
		default:
			return "", err
		}
	}

	return enc, nil
}

// VerifyPassword checks a plaintext candidate against a PHC Argon2id hash.
// A mismatch is (false, nil), not an error; errors are reserved for malformed
// hashes and operational failures.
func VerifyPassword(plain string, encodedPHC string) (bool, error) {
	cfg, err := password.FromEnv()
	if err != nil {
		return false, err
	}

	ok, err := cfg.Verify(encodedPHC, plain)
	if err != nil {
		if errors.Is(err, password.ErrInvalidHash) {
			return false, OpError{Op: "identity.VerifyPassword", Kind: ErrInvalidInput, Msg: "invalid argon2id hash format"}
		}
		return false, err
	}
	return ok, nil
}
