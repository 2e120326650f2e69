package formulas

import (
	"errors"
	"fmt"
	"math"
)

// ErrDomain indicates a physically meaningless input to a formula.
var ErrDomain = errors.New("formulas: value outside physical domain")

// DomainError reports which quantity was rejected.
type DomainError struct {
	Quantity string
	Value    float64
}

func (e *DomainError) Error() string {
	if math.IsInf(e.Value, 0) {
		return fmt.Sprintf("formulas: %s is not finite", e.Quantity)
	}
	return fmt.Sprintf("formulas: %s must be positive, got %g", e.Quantity, e.Value)
}

func (e *DomainError) Unwrap() error {
	return ErrDomain
}

// requirePositive rejects zero, negative, NaN and infinite values.
func requirePositive(quantity string, v float64) error {
	if !(v > 0) || math.IsInf(v, 1) {
		return &DomainError{Quantity: quantity, Value: v}
	}
	return nil
}

// requireFinite rejects results that overflowed or became NaN for
// extreme but positive inputs.
func requireFinite(quantity string, v float64) error {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return &DomainError{Quantity: quantity, Value: v}
	}
	return nil
}
