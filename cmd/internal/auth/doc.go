// Package auth composes the credential store, the password hasher and the
// token manager into Gate's three operations: Register, Login and Identify.
//
// It holds no persistent state of its own; every invariant that matters under
// concurrency (email uniqueness) is owned by the store.
package auth
