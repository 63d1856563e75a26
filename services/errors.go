package services

import "errors"

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrStore         = errors.New("datastore error")
	ErrUpstream      = errors.New("upstream service error")
	ErrNotConfigured = errors.New("service not configured")
)

// ValidationError carries the client-facing message for a rejected request.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error { return &ValidationError{Msg: msg} }
