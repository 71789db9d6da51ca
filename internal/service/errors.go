package service

import (
	"errors"
	"fmt"

	"alcyxob/strength-planner/internal/repository"
)

// --- Error Definitions ---
var (
	ErrValidation           = errors.New("validation failed")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrAccessDenied         = errors.New("access denied")
	ErrStorage              = errors.New("storage failure")
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrMediaUnavailable     = errors.New("video storage is not configured")
)

// ValidationError describes malformed or out-of-range input. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

func conflict(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// storageErr wraps a repository failure as ErrStorage. Errors that already carry a
// service kind pass through untouched.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrAccessDenied, ErrStorage} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// lookupErr maps a failed single-entity read: a missing row becomes "<what> not found".
func lookupErr(what string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(what)
	}
	return storageErr("load "+what, err)
}
