package identity

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryStore_CreateAndGet(t *testing.T) {
	t.Parallel()

	st := NewMemoryStore()
	now := time.Now().UTC()

	u, err := st.CreateUser(context.Background(), CreateUserInput{
		Email:        "Alice@Example.com",
		PasswordHash: "$argon2id$fake",
		Role:         RoleUser,
		Now:          now,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == "" {
		t.Fatalf("expected generated id")
	}
	if u.Email != "Alice@Example.com" {
		t.Fatalf("email changed: %q", u.Email)
	}
	if u.EmailNorm != "alice@example.com" {
		t.Fatalf("email_norm=%q", u.EmailNorm)
	}
	if u.Role != RoleUser {
		t.Fatalf("role=%q", u.Role)
	}

	got, err := st.GetUserByEmail(context.Background(), "ALICE@example.COM")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("lookup returned wrong user: %q vs %q", got.ID, u.ID)
	}
}

func TestMemoryStore_DuplicateEmailConflicts(t *testing.T) {
	t.Parallel()

	st := NewMemoryStore()
	in := CreateUserInput{
		Email:        "bob@example.com",
		PasswordHash: "$argon2id$fake",
		Role:         RoleUser,
		Now:          time.Now().UTC(),
	}

	if _, err := st.CreateUser(context.Background(), in); err != nil {
		t.Fatalf("first create: %v", err)
	}

	in.Email = "BOB@example.com"
	_, err := st.CreateUser(context.Background(), in)
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	t.Parallel()

	st := NewMemoryStore()
	_, err := st.GetUserByEmail(context.Background(), "ghost@example.com")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	ok, err := st.ExistsByEmail(context.Background(), "ghost@example.com")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Fatalf("exists should be false")
	}
}

func TestMemoryStore_ConcurrentCreateSingleWinner(t *testing.T) {
	t.Parallel()

	st := NewMemoryStore()
	const workers = 16

	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = st.CreateUser(context.Background(), CreateUserInput{
				Email:        "race@example.com",
				PasswordHash: "$argon2id$fake",
				Role:         RoleUser,
				Now:          time.Now().UTC(),
			})
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case IsConflict(err):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
	if conflicts != workers-1 {
		t.Fatalf("expected %d conflicts, got %d", workers-1, conflicts)
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{in: "Alice@Example.com", want: "alice@example.com"},
		{in: "  bob@example.com  ", want: "bob@example.com"},
		{in: "plain@example.com", want: "plain@example.com"},
	}

	for _, tc := range cases {
		if got := NormalizeEmail(tc.in); got != tc.want {
			t.Fatalf("NormalizeEmail(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}
