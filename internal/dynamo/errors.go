package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for kernel operations.
var (
	// ErrInvalidParameter indicates K, p, steps or a fiber outside its valid range.
	ErrInvalidParameter = errors.New("dynamo: invalid parameter")

	// ErrNotPrime indicates a modulus that is not an odd prime.
	ErrNotPrime = errors.New("dynamo: modulus is not an odd prime")
)

// ParamError describes which parameter was rejected and why.
type ParamError struct {
	Name    string
	Value   any
	Reason  string
	Wrapped error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("dynamo: invalid %s=%v: %s", e.Name, e.Value, e.Reason)
}

// Unwrap always yields ErrInvalidParameter, plus the more specific cause
// when there is one.
func (e *ParamError) Unwrap() []error {
	if e.Wrapped != nil {
		return []error{ErrInvalidParameter, e.Wrapped}
	}
	return []error{ErrInvalidParameter}
}

func paramErr(name string, value any, reason string) error {
	return &ParamError{Name: name, Value: value, Reason: reason}
}
