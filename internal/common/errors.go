// Package common defines sentinel errors and small helpers shared by the
// storage, session, moderation and catalog layers. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound           = errors.New("not found")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrNoPushChannel      = errors.New("backend has no push channel")

	// Identity errors.
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrNotSignedIn        = errors.New("not signed in")

	// Moderation errors.
	ErrBanned        = errors.New("account banned")
	ErrPending       = errors.New("account pending approval")
	ErrAdminRequired = errors.New("admin access required")

	// Catalog errors.
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation error")
	ErrBusy       = errors.New("operation already in progress")
)
