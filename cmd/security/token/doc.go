// Package token issues and verifies Gate's bearer tokens.
//
// Tokens are HS256-signed JWTs carrying the subject's email, user id and role,
// bounded by a fixed TTL. Verification is stateless: validity is determined
// purely by signature and expiry, nothing is stored server-side.
//
// Environment:
//   - GATE_TOKEN_SECRET: required. Process-wide signing secret, >= 32 bytes.
//     Compromise of this value compromises all issued and future tokens.
package token
