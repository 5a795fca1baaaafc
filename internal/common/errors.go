// Package common defines shared constants and sentinel errors used across
// the portal layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Validation errors: a missing or malformed field.
	ErrValidation = errors.New("validation error")

	// Uniqueness violations (duplicate email, duplicate employee id).
	ErrConflict = errors.New("conflict")

	// A referenced record is absent.
	ErrNotFound = errors.New("not found")

	// The actor lacks the required role, or attempts a forbidden
	// action on its own record.
	ErrForbidden = errors.New("forbidden")

	// Too many attempts in a short period.
	ErrThrottled = errors.New("too many attempts")

	// Persisted blob is unreadable. Recovered internally by reseeding.
	ErrStorageCorrupted = errors.New("storage corrupted")

	// Session token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Error kinds reported to the presentation layer.
const (
	KindOK         = "ok"
	KindValidation = "validation"
	KindConflict   = "conflict"
	KindNotFound   = "not_found"
	KindForbidden  = "authorization"
	KindThrottled  = "throttled"
	KindInternal   = "internal"
)

// KindOf maps err to a stable kind string suitable for a notification.
func KindOf(err error) string {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrThrottled):
		return KindThrottled
	default:
		return KindInternal
	}
}
