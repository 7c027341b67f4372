// Package apperrors defines sentinel errors shared across services and
// handlers. Handlers map them onto HTTP status codes with errors.Is.
package apperrors

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnknownDiscipline = errors.New("unknown discipline")
)
