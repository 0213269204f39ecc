package mathutil

import (
	"math"
	"testing"
)

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name      string
		a, b, tol float64
		expected  bool
	}{
		{"Equal", 1, 1, 0, true},
		{"Inside tolerance", 1, 1 + 1e-10, 1e-9, true},
		{"Outside tolerance", 0.95, 1, 1e-9, false},
		{"Symmetric", 1, 0.95, 0.05 + 1e-12, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinTolerance(tt.a, tt.b, tt.tol); got != tt.expected {
				t.Errorf("WithinTolerance(%v, %v, %v) = %v, expected %v", tt.a, tt.b, tt.tol, got, tt.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		val      float64
		expected float64
	}{
		{"Below range", -3, 0},
		{"Inside range", 12.5, 12.5},
		{"Above range", 500, 204},
		{"At upper bound", 204, 204},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.val, 0, 204); got != tt.expected {
				t.Errorf("Clamp(%v, 0, 204) = %v, expected %v", tt.val, got, tt.expected)
			}
		})
	}
}

func TestSafeDivide(t *testing.T) {
	if got := SafeDivide(10, 0, 0); got != 0 {
		t.Errorf("SafeDivide by zero = %v, expected fallback 0", got)
	}
	if got := SafeDivide(10, 0, math.Inf(1)); !math.IsInf(got, 1) {
		t.Errorf("SafeDivide by zero = %v, expected +Inf fallback", got)
	}
	if got := SafeDivide(10, 4, 0); got != 2.5 {
		t.Errorf("SafeDivide(10, 4) = %v, expected 2.5", got)
	}
}

func TestCalculatePercentage(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		total    float64
		expected float64
	}{
		{"Quarter", 25, 100, 25},
		{"Zero total", 5, 0, 0},
		{"Fraction of population", 10, 250, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculatePercentage(tt.value, tt.total); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("CalculatePercentage(%v, %v) = %v, expected %v", tt.value, tt.total, got, tt.expected)
			}
		})
	}
}

func TestSum(t *testing.T) {
	if got := Sum(); got != 0 {
		t.Errorf("Sum() = %v, expected 0", got)
	}
	if got := Sum(1.5, 2.5, -1); got != 3 {
		t.Errorf("Sum(1.5, 2.5, -1) = %v, expected 3", got)
	}
}
