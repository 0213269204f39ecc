// Package validation provides labeled parameter errors and common validation utilities.
package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/constants"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/mathutil"
)

// ErrInvalidParameter is matched by every ParameterError via errors.Is.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParameterError reports a parameter value that makes a computation undefined.
type ParameterError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Param, e.Value, e.Reason)
}

// Is allows errors.Is(err, ErrInvalidParameter).
func (e *ParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// Invalid builds a ParameterError.
func Invalid(param string, value float64, reason string) error {
	return &ParameterError{Param: param, Value: value, Reason: reason}
}

// Fraction requires value to lie in [0, 1].
func Fraction(param string, value float64) error {
	if math.IsNaN(value) || value < 0 || value > 1 {
		return Invalid(param, value, "must be within [0, 1]")
	}
	return nil
}

// NonNegative requires value >= 0.
func NonNegative(param string, value float64) error {
	if math.IsNaN(value) || value < 0 {
		return Invalid(param, value, "must not be negative")
	}
	return nil
}

// PositiveInt requires value > 0.
func PositiveInt(param string, value int) error {
	if value <= 0 {
		return Invalid(param, float64(value), "must be a positive integer")
	}
	return nil
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// FractionSumWarning returns a warning when fractions sum above one, or when exact is set
// and they do not sum to one.
func FractionSumWarning(label string, exact bool, fractions ...float64) string {
	sum := mathutil.Sum(fractions...)
	switch {
	case sum > 1+constants.FractionSumTolerance:
		return fmt.Sprintf("%s fractions sum to %.4f, which exceeds 1", label, sum)
	case exact && !mathutil.WithinTolerance(sum, 1, constants.FractionSumTolerance):
		return fmt.Sprintf("%s fractions sum to %.4f, leaving part of the total unassigned", label, sum)
	}
	return ""
}

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}
