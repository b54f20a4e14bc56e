// Package common defines shared constants and sentinel errors used across
// the SecureStash server layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Credential access-control errors.
	ErrVerificationRequired = errors.New("verification required")
	ErrVerificationMismatch = errors.New("verification code mismatch")
	ErrIssuerDispatchFailed = errors.New("verification code dispatch failed")
)
