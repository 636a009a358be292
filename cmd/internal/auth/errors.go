package auth

import "errors"

// Stable outcome kinds for the API layer.
var (
	// ErrEmailTaken is the registration conflict. It covers both the advisory
	// exists-check and the store-level conflict from a lost race.
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidCredentials is the single login failure. Unknown email and
	// wrong password are deliberately indistinguishable to the caller to
	// resist account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
