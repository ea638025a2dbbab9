package service

import "errors"

// Sentinel errors returned by the services. Handlers map these onto the
// JSON error envelope with errors.Is; anything unlisted becomes a generic
// server error so internal details never reach the wire.
var (
	// ErrInvalidCredentials covers every login failure the caller must not
	// be able to distinguish: unknown email, wrong password, or a missing
	// admin profile on the admin path.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrNotVerified is returned only after the password matched, so it
	// never confirms an account's existence to a guesser.
	ErrNotVerified = errors.New("email_not_verified")

	// ErrInvalidToken covers unknown, tampered and already consumed tokens
	// alike.
	ErrInvalidToken = errors.New("invalid_token")

	// ErrExpiredToken is returned when an outstanding reset token is
	// presented past its expiry. The distinction lets clients prompt for a
	// fresh request instead of treating the token as mistyped.
	ErrExpiredToken = errors.New("expired_token")

	// ErrConflict is returned when a unique resource already exists.
	ErrConflict = errors.New("conflict")

	// ErrAccessDenied is the permission guard's failure value for callers
	// whose grants do not cover the operation.
	ErrAccessDenied = errors.New("access_denied")

	// ErrNoAuthContext is returned when a request reaches the guard with no
	// authenticated principal at all. That only happens when the
	// authentication middleware was skipped or misordered, so it surfaces as
	// a server fault rather than an ordinary denial.
	ErrNoAuthContext = errors.New("auth_context_missing")

	// ErrNotFound is returned for lookups of missing resources on the
	// administrative surface.
	ErrNotFound = errors.New("not_found")

	// ErrRateLimited is returned when a per-account issuance bound is hit.
	ErrRateLimited = errors.New("rate_limited")

	// ErrValidation is returned for malformed input that passed JSON
	// decoding but fails domain rules.
	ErrValidation = errors.New("validation_failed")
)
