// Package common defines shared constants and sentinel errors used across
// client and server layers of sollog. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors. ErrNotFound is also what owner-scoped
	// lookups return for objects owned by someone else, so a caller can
	// never distinguish "absent" from "not yours".
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Request validation errors (bad or missing input).
	ErrValidation = errors.New("validation error")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")

	// Crypto errors. ErrAuthentication means the AEAD tag did not verify:
	// tampered ciphertext, wrong key or wrong IV. Retrying with the same
	// inputs cannot succeed.
	ErrAuthentication = errors.New("ciphertext authentication failed")
	ErrKeyFormat      = errors.New("malformed key material")

	// Backend storage errors, retryable by the caller.
	ErrStorageWrite = errors.New("storage write failed")
	ErrStorageRead  = errors.New("storage read failed")

	// Generic internal flow control.
	ErrInternal = errors.New("internal error")
)
