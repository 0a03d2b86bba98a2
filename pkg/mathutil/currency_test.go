package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number round down", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Very small negative", -0.001, 0.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Exactly zero", 0.0, true},
		{"Very small positive", 0.001, true},
		{"Just above tolerance", 0.02, false},
		{"Large negative", -100.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsZero(tt.input); result != tt.expected {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(100.0, 100.5, 1.0) {
		t.Error("expected values within tolerance")
	}
	if WithinTolerance(100.0, 102.0, 1.0) {
		t.Error("expected values outside tolerance")
	}
}

func TestSameSign(t *testing.T) {
	tests := []struct {
		a, b     float64
		expected bool
	}{
		{1, 2, true},
		{-1, -2, true},
		{-1, 2, false},
		{0, 2, false},
	}

	for _, tt := range tests {
		if result := SameSign(tt.a, tt.b); result != tt.expected {
			t.Errorf("SameSign(%v, %v) = %v, expected %v", tt.a, tt.b, result, tt.expected)
		}
	}
}
