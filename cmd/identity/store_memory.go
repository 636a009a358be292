package identity

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the fallback credential store when no database is configured.
// Uniqueness is enforced under a single mutex hold, so the exists-check and the
// write are atomic with respect to concurrent CreateUser calls.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]User // email_norm -> record
}

// NewMemoryStore constructs an in-memory Store implementation.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]User),
	}
}

// CreateUser persists a new record, failing with ConflictError if the
// normalized email is already taken.
func (s *MemoryStore) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.CreateUser"

	if in.Email == "" || in.PasswordHash == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "email and password hash are required"}
	}
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	role := in.Role
	if role == "" {
		role = RoleUser
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	emailNorm := NormalizeEmail(in.Email)
	if emailNorm == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "email is required"}
	}

	userID, err := NewULID(now)
	if err != nil {
		return User{}, err
	}

	u := User{
		ID:           userID,
		Email:        in.Email,
		EmailNorm:    emailNorm,
		PasswordHash: in.PasswordHash,
		Role:         role,
		CreatedAt:    now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.users[emailNorm]; taken {
		return User{}, ConflictError{Op: op, Field: "email"}
	}
	s.users[emailNorm] = u

	return u, nil
}

// GetUserByEmail returns the record whose normalized email matches.
func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	const op = "identity.GetUserByEmail"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	emailNorm := NormalizeEmail(email)
	if emailNorm == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "email is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[emailNorm]
	if !ok {
		return User{}, NotFoundError{Op: op, Resource: "user"}
	}
	return u, nil
}

// ExistsByEmail reports whether a record with the normalized email exists.
func (s *MemoryStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	emailNorm := NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.users[emailNorm]
	return ok, nil
}
