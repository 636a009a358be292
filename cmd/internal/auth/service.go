package auth

import (
	"context"
	"log/slog"
	"time"

	"gate/cmd/identity"
	"gate/cmd/security/token"
)

// Service implements the authentication lifecycle over a credential store and
// a token manager. Safe for concurrent use.
type Service struct {
	log    *slog.Logger
	store  identity.Store
	tokens *token.Manager

	// dummyHash is verified on the unknown-email login path so that a missing
	// user costs roughly the same as a wrong password.
	dummyHash string
}

// Subject is the identity resolved from a verified token.
type Subject struct {
	UserID string
	Email  string
	Role   string
}

// LoginResult carries the minted token and its expiry.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      identity.User
}

// NewService constructs the orchestrator.
func NewService(log *slog.Logger, store identity.Store, tokens *token.Manager) *Service {
	if log == nil {
		log = slog.Default()
	}

	s := &Service{
		log:    log,
		store:  store,
		tokens: tokens,
	}

	if hash, err := identity.HashPassword("dummy-password-for-timing-only"); err == nil {
		s.dummyHash = hash
	}

	return s
}

// Register creates a new user with role USER. A duplicate email fails with
// ErrEmailTaken, whether it is caught by the advisory exists-check or by the
// store's uniqueness constraint when two registrations race.
func (s *Service) Register(ctx context.Context, email, password string) (identity.User, error) {
	if exists, err := s.store.ExistsByEmail(ctx, email); err != nil {
		return identity.User{}, err
	} else if exists {
		return identity.User{}, ErrEmailTaken
	}

	hash, err := identity.HashPassword(password)
	if err != nil {
		return identity.User{}, err
	}

	u, err := s.store.CreateUser(ctx, identity.CreateUserInput{
		Email:        email,
		PasswordHash: hash,
		Role:         identity.RoleUser,
	})
	if err != nil {
		if identity.IsConflict(err) {
			// Lost the race between exists-check and insert.
			return identity.User{}, ErrEmailTaken
		}
		return identity.User{}, err
	}

	s.log.Info("auth.register.success", "user_id", u.ID)
	return u, nil
}

// Login verifies the email/password pair and mints a token. Unknown email and
// wrong password both collapse to ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, now time.Time, email, password string) (LoginResult, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if identity.IsNotFound(err) {
			// Timing resistance: perform a dummy verify when user is missing.
			if s.dummyHash != "" {
				_, _ = identity.VerifyPassword(password, s.dummyHash)
			}
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	ok, err := identity.VerifyPassword(password, u.PasswordHash)
	if err != nil || !ok {
		return LoginResult{}, ErrInvalidCredentials
	}

	raw, exp, err := s.tokens.Issue(u.Email, u.ID, u.Role, now)
	if err != nil {
		return LoginResult{}, err
	}

	s.log.Info("auth.login.success", "user_id", u.ID)
	return LoginResult{Token: raw, ExpiresAt: exp, User: u}, nil
}

// Identify verifies a presented token and returns the embedded subject.
// Verification failures pass through with their kind intact
// (token.ErrExpired, token.ErrInvalidSignature, token.ErrMalformed).
func (s *Service) Identify(raw string, now time.Time) (Subject, error) {
	claims, err := s.tokens.Verify(raw, now)
	if err != nil {
		return Subject{}, err
	}

	return Subject{
		UserID: claims.UserID,
		Email:  claims.Subject,
		Role:   claims.Role,
	}, nil
}
