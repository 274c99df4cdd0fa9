package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float64{1.0, 2.0, 3.0}, []float64{1.0, 2.1, 3.0})
	if err != nil {
		t.Fatalf("MaxAbsDiff error: %v", err)
	}
	if math.Abs(d-0.1) > 1e-15 {
		t.Fatalf("MaxAbsDiff = %v, want 0.1", d)
	}
}

func TestMaxAbsDiffLengthMismatch(t *testing.T) {
	_, err := MaxAbsDiff([]float64{1}, []float64{1, 2})
	if err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestRelErr(t *testing.T) {
	if got := RelErr(101, 100); math.Abs(got-0.01) > 1e-12 {
		t.Fatalf("RelErr = %v, want 0.01", got)
	}
	if got := RelErr(-2, 0); got != 2 {
		t.Fatalf("RelErr against zero = %v, want 2", got)
	}
}
