package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("missing required fields")
	ErrProcessor  = errors.New("payment processor error")
)

// ValidationError carries the failing fields of a checkout request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", ErrValidation.Error(), e.Fields)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ProcessorError wraps a failure reported by the payment processor. Its message
// is the processor's own and is returned to the caller.
type ProcessorError struct {
	Err error
}

func (e *ProcessorError) Error() string { return e.Err.Error() }

func (e *ProcessorError) Unwrap() error { return e.Err }

func (e *ProcessorError) Is(target error) bool { return target == ErrProcessor }
