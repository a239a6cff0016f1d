// Package auth implements the credential and session-token subsystem.
//
// It covers four concerns:
//   - credential records (User) and their SQLite persistence
//   - one-way password hashing and constant-time verification
//   - issuing and verifying signed, time-limited session tokens
//   - the sentinel errors the API layer translates to HTTP responses
//
// Tokens are stateless: nothing is persisted at issuance, and a token is
// trusted only after its signature verifies against the process-wide secret.
package auth
