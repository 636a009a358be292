package token

import "errors"

// Public, stable errors for callers. API layers map these to access-denied
// responses without re-parsing the token.
var (
	ErrConfig           = errors.New("invalid token config")
	ErrExpired          = errors.New("token expired")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrMalformed        = errors.New("token malformed")
)
