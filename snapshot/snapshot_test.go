package snapshot

import (
	"math"
	"testing"
)

func TestEmptySnapshotReturnsZero(t *testing.T) {
	s := New(nil)
	if s.Min() != 0 || s.Max() != 0 || s.Mean() != 0 || s.Stdev() != 0 {
		t.Fatalf("expected all-zero accessors on an empty snapshot")
	}
	if v, err := s.ValueAt(0.5); err != nil || v != 0 {
		t.Fatalf("expected ValueAt on empty snapshot to return 0, got %v %v", v, err)
	}
}

func TestMedianOfFourValues(t *testing.T) {
	s := New([]int64{1, 2, 3, 4})
	if s.Median() != 2.5 {
		t.Fatalf("expected median 2.5, got %v", s.Median())
	}
}

func TestValueAtBoundaries(t *testing.T) {
	s := New([]int64{10, 20, 30})
	if v, _ := s.ValueAt(0); v != 10 {
		t.Fatalf("expected ValueAt(0) == first element, got %v", v)
	}
	if v, _ := s.ValueAt(1); v != 30 {
		t.Fatalf("expected ValueAt(1) == last element, got %v", v)
	}
}

func TestValueAtInvalidQuantile(t *testing.T) {
	s := New([]int64{1, 2, 3})
	if _, err := s.ValueAt(-0.1); err != ErrInvalidQuantile {
		t.Fatalf("expected ErrInvalidQuantile for q < 0")
	}
	if _, err := s.ValueAt(1.1); err != ErrInvalidQuantile {
		t.Fatalf("expected ErrInvalidQuantile for q > 1")
	}
}

func TestMinMax(t *testing.T) {
	s := New([]int64{-1, 2, 3})
	if s.Min() != -1 || s.Max() != 3 {
		t.Fatalf("expected min -1 max 3, got %d %d", s.Min(), s.Max())
	}
}

func TestMeanAndStdev(t *testing.T) {
	s := New([]int64{1, 3, 3})
	if math.Abs(s.Mean()-7.0/3.0) > 1e-9 {
		t.Fatalf("expected mean 7/3, got %v", s.Mean())
	}
	if math.Abs(s.Stdev()-1.0) > 1e-9 {
		t.Fatalf("expected stdev 1.0, got %v", s.Stdev())
	}
}

func TestStdevUndefinedBelowTwoSamples(t *testing.T) {
	s := New([]int64{42})
	if s.Stdev() != 0 {
		t.Fatalf("expected stdev 0 for n<2, got %v", s.Stdev())
	}
}

func TestInputNotMutated(t *testing.T) {
	in := []int64{3, 1, 2}
	_ = New(in)
	if in[0] != 3 || in[1] != 1 || in[2] != 2 {
		t.Fatalf("New must not mutate its input slice, got %v", in)
	}
}
