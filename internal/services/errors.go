package services

import "errors"

// Error taxonomy shared by all services. Handlers map these to HTTP statuses
// with errors.Is; anything outside the taxonomy is treated as an internal
// error and never shown to the client verbatim.
var (
	ErrValidation     = errors.New("validation failed")
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrAuthentication is deliberately generic: the same error covers an
	// unknown email, a wrong password and a bad or revoked token, so callers
	// cannot enumerate accounts.
	ErrAuthentication = errors.New("unable to authenticate")
	ErrNotFound       = errors.New("not found")
)
