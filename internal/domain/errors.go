package domain

import (
	"errors"
	"fmt"
)

// Errores centinela del core. Los adapters los envuelven con contexto.
var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrNotFound             = errors.New("not found")
	ErrAlreadyParticipating = errors.New("already participating")
	ErrCapacityExceeded     = errors.New("capacity exceeded")
	ErrInvalidState         = errors.New("invalid lifecycle state")
)

// ValidationError es un input rechazado antes de mutar estado.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// NewValidationError construye un ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation devuelve true si err es (o envuelve) un ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
