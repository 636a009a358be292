package auth

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gate/cmd/identity"
	"gate/cmd/security/token"
)

func newTestService(t *testing.T) (*Service, *identity.MemoryStore) {
	t.Helper()

	// Keep argon2 cheap in tests.
	t.Setenv("GATE_ARGON2_MEMORY_KIB", "8192")
	t.Setenv("GATE_ARGON2_ITERATIONS", "1")

	cfg := token.DefaultConfig()
	cfg.ClockSkew = 0
	cfg.Secret = []byte("0123456789abcdef0123456789abcdef")
	tokens, err := token.NewManager(cfg)
	require.NoError(t, err)

	store := identity.NewMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(log, store, tokens), store
}

func TestRegisterLoginIdentify_Roundtrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	u, err := svc.Register(ctx, "alice@example.com", "hunter2")
	require.NoError(t, err)
	require.Equal(t, identity.RoleUser, u.Role)
	require.NotEqual(t, "hunter2", u.PasswordHash)

	res, err := svc.Login(ctx, now, "alice@example.com", "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	sub, err := svc.Identify(res.Token, now)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", sub.Email)
	require.Equal(t, u.ID, sub.UserID)
	require.Equal(t, identity.RoleUser, sub.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "hunter2")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice@example.com", "hunter2")
	require.ErrorIs(t, err, ErrEmailTaken)

	// Normalization: differently-cased duplicates are still duplicates.
	_, err = svc.Register(ctx, "ALICE@example.com", "hunter2")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	const n = 8
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, "race@example.com", "hunter2")
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			require.ErrorIs(t, err, ErrEmailTaken)
			conflicts++
		}
	}
	require.Equal(t, 1, successes)
	require.Equal(t, n-1, conflicts)
}

func TestLogin_GenericFailure(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := svc.Register(ctx, "alice@example.com", "hunter2")
	require.NoError(t, err)

	_, wrongPw := svc.Login(ctx, now, "alice@example.com", "wrong")
	_, noUser := svc.Login(ctx, now, "nobody@example.com", "whatever")

	// Both failure modes must be externally identical.
	require.ErrorIs(t, wrongPw, ErrInvalidCredentials)
	require.ErrorIs(t, noUser, ErrInvalidCredentials)
}

func TestIdentify_TokenErrorKindsPassThrough(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := svc.Register(ctx, "alice@example.com", "hunter2")
	require.NoError(t, err)

	res, err := svc.Login(ctx, now, "alice@example.com", "hunter2")
	require.NoError(t, err)

	_, err = svc.Identify(res.Token, res.ExpiresAt.Add(time.Minute))
	require.ErrorIs(t, err, token.ErrExpired)

	_, err = svc.Identify("not-a-token", now)
	require.ErrorIs(t, err, token.ErrMalformed)
}

func TestRegister_StoredHashIsNotPlaintext(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "hunter2")
	require.NoError(t, err)

	u, err := store.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", u.PasswordHash)
	require.NotContains(t, u.PasswordHash, "hunter2")
}
