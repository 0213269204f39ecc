// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"
	"testing"

	"github.com/oscarandresgarntor/billionaires-tax-ca/internal/analysis"
)

// FindScenario finds a projection by scenario name in the results slice.
// Returns a pointer to the projection if found, nil otherwise.
func FindScenario(results []analysis.Projection, name string) *analysis.Projection {
	for i := range results {
		if results[i].Scenario.Name == name {
			return &results[i]
		}
	}
	return nil
}

// AssertWithin fails the test when got and want differ by more than tolerance.
func AssertWithin(t testing.TB, label string, got, want, tolerance float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > tolerance {
		t.Errorf("%s = %v, expected %v (tolerance %v)", label, got, want, tolerance)
	}
}
