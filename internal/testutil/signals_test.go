package testutil

import (
	"math"
	"testing"
)

func TestSineStartsAtZero(t *testing.T) {
	s := Sine(5, 0.01, 2, 100)
	if len(s) != 100 {
		t.Fatalf("len = %d, want 100", len(s))
	}
	if s[0] != 0 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	// quarter period of 5 Hz at dt=0.01 is 5 samples
	RequireNear(t, "peak", s[5], 2, 1e-12)
}

func TestGaussianDeterministic(t *testing.T) {
	a := Gaussian(7, 1, 64)
	b := Gaussian(7, 1, 64)
	RequireSliceNearlyEqual(t, a, b, 0)
	RequireFinite(t, a)
}

func TestBurstWindow(t *testing.T) {
	s := Burst(1, 1000, 400, 600, 5, 0.01)
	var inside, outside float64
	for i, v := range s {
		if i >= 400 && i < 600 {
			inside = math.Max(inside, math.Abs(v))
		} else {
			outside = math.Max(outside, math.Abs(v))
		}
	}
	if inside < 10*outside {
		t.Fatalf("strong window %v not dominant over %v", inside, outside)
	}
}
