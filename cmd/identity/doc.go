// Package identity implements Gate's credential store.
//
// It defines the canonical User record, the Store persistence boundary, a
// PostgreSQL implementation (pgx) and an in-memory implementation used when no
// database is configured. Email uniqueness is enforced by the store itself, not
// by callers, so concurrent registrations for the same address resolve with
// exactly one winner.
package identity
