package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrUniquenessViolation indicates a unique constraint rejected a write.
	ErrUniquenessViolation = errors.New("uniqueness violation")
	// ErrPreconditionNotMet indicates a cascade step was invoked out of order
	// or its downstream entity already exists.
	ErrPreconditionNotMet = errors.New("precondition not met")
	// ErrCodeGenerationExhausted indicates every attempt to reserve a code collided.
	ErrCodeGenerationExhausted = errors.New("code generation exhausted")
)

// FieldCode names the primary identifier column of code-keyed entities.
const FieldCode = "code"

// UniquenessViolation reports which entity and field rejected a write.
type UniquenessViolation struct {
	Entity string
	Field  string
}

func (e *UniquenessViolation) Error() string {
	return fmt.Sprintf("%s: duplicate %s", e.Entity, e.Field)
}

// Is lets errors.Is match ErrUniquenessViolation.
func (e *UniquenessViolation) Is(target error) bool {
	return target == ErrUniquenessViolation
}

// Duplicate builds a UniquenessViolation.
func Duplicate(entity, field string) error {
	return &UniquenessViolation{Entity: entity, Field: field}
}

// IsCodeCollision reports whether err is a uniqueness violation on the code field.
func IsCodeCollision(err error) bool {
	var uv *UniquenessViolation
	return errors.As(err, &uv) && uv.Field == FieldCode
}

// Precondition wraps ErrPreconditionNotMet with a message.
func Precondition(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPreconditionNotMet, fmt.Sprintf(format, args...))
}

// Invalid wraps ErrValidation with a message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
