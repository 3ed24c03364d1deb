// Package common defines the error kinds shared by the store, service and
// transport layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrorNotFound reports that a referenced user, product, cart line,
	// favorite or order does not exist.
	ErrorNotFound = errors.New("not found")

	// ErrorConflict reports a uniqueness violation, e.g. a duplicate email.
	ErrorConflict = errors.New("conflict")

	// ErrorInvalidInput reports a request rejected before any mutation.
	ErrorInvalidInput = errors.New("invalid input")

	// ErrorStorage reports that the persistence layer failed or is unavailable.
	ErrorStorage = errors.New("storage failure")

	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// ErrInvalidToken is returned for malformed or badly signed access tokens.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
