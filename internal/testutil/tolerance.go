package testutil

import (
	"math"
	"testing"
)

// RequireNearlyEqual fails t if got and want differ by more than eps
// (absolute tolerance).
func RequireNearlyEqual(t *testing.T, got, want, eps float64) {
	t.Helper()

	diff := math.Abs(got - want)
	if diff > eps {
		t.Fatalf("got %v, want %v (diff %v > eps %v)", got, want, diff, eps)
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()

	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequirePhasesWrapped fails t if any phase lies outside (-pi, pi].
func RequirePhasesWrapped(t *testing.T, phases []float64) {
	t.Helper()

	for i, p := range phases {
		if math.IsNaN(p) || p <= -math.Pi || p > math.Pi {
			t.Fatalf("index %d: phase %v outside (-pi, pi]", i, p)
		}
	}
}

// RequireAtLeast fails t if any element is below floor.
func RequireAtLeast(t *testing.T, data []float64, floor float64) {
	t.Helper()

	for i, v := range data {
		if !(v >= floor) {
			t.Fatalf("index %d: value %v below floor %v", i, v, floor)
		}
	}
}
