package identity

import (
	"context"
	"time"
)

// RoleUser is the only role Gate assigns. There is no promotion operation.
const RoleUser = "USER"

// User is Gate's canonical security principal.
//
// PasswordHash is only ever produced by the password hasher; the plaintext
// password is never persisted and never readable back.
type User struct {
	ID           string
	Email        string
	EmailNorm    string
	PasswordHash string
	Role         string

	CreatedAt time.Time
}

// CreateUserInput describes a new user record. Email is stored as given;
// uniqueness is enforced on its normalized form. PasswordHash must already be
// an encoded hash, never a plaintext password.
type CreateUserInput struct {
	Email        string
	PasswordHash string
	Role         string
	Now          time.Time
}

// Store is the credential persistence boundary.
//
// Contract:
//   - CreateUser fails with ConflictError{Field: "email"} when the normalized
//     email already exists at the point of durable write. Concurrent creates
//     for the same email resolve with exactly one success.
//   - GetUserByEmail fails with a NotFoundError when no record matches.
//   - ExistsByEmail is advisory only; callers must still handle the create
//     conflict, because check-then-act across two calls is racy.
type Store interface {
	CreateUser(ctx context.Context, in CreateUserInput) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
