package snapshot

import (
	"errors"
	"math"
	"sort"
)

// ErrInvalidQuantile is returned by ValueAt when q falls outside [0, 1].
var ErrInvalidQuantile = errors.New("snapshot: quantile must be within [0, 1]")

// Snapshot is an immutable, sorted sample of observed int64 values.
type Snapshot struct {
	values []int64
	mean   float64
	stdev  float64
}

// New copies values (the caller's slice is left unchanged), sorts the copy
// if necessary, and precomputes mean and standard deviation with Welford's
// single-pass algorithm.
func New(values []int64) *Snapshot {
	sorted := make([]int64, len(values))
	copy(sorted, values)
	if !sort.SliceIsSorted(sorted, func(i, j int) bool { return sorted[i] < sorted[j] }) {
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	}

	s := &Snapshot{values: sorted}

	// Welford's single-pass algorithm. varsum accumulates as int64, matching
	// the reference implementation: each increment is truncated toward zero
	// before being summed, not just the final variance.
	var mean float64
	var varsum int64
	for i, v := range sorted {
		n := float64(i + 1)
		delta := float64(v) - mean
		mean += delta / n
		varsum += int64(delta * (float64(v) - mean))
	}
	s.mean = mean
	if len(sorted) >= 2 {
		variance := float64(varsum) / float64(len(sorted)-1)
		s.stdev = math.Sqrt(variance)
	}
	return s
}

// Len returns the number of values in the sample.
func (s *Snapshot) Len() int { return len(s.values) }

// Min returns the smallest value, or 0 if the sample is empty.
func (s *Snapshot) Min() int64 {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[0]
}

// Max returns the largest value, or 0 if the sample is empty.
func (s *Snapshot) Max() int64 {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[len(s.values)-1]
}

// Mean returns the arithmetic mean, or 0 if the sample is empty.
func (s *Snapshot) Mean() float64 { return s.mean }

// Stdev returns the sample standard deviation (n-1 denominator), or 0 if
// the sample has fewer than two values.
func (s *Snapshot) Stdev() float64 { return s.stdev }

// Median returns the 50th percentile.
func (s *Snapshot) Median() float64 {
	v, _ := s.ValueAt(0.5)
	return v
}

// Get75tile returns the 75th percentile.
func (s *Snapshot) Get75tile() float64 {
	v, _ := s.ValueAt(0.75)
	return v
}

// Get95tile returns the 95th percentile.
func (s *Snapshot) Get95tile() float64 {
	v, _ := s.ValueAt(0.95)
	return v
}

// Get99tile returns the 99th percentile.
func (s *Snapshot) Get99tile() float64 {
	v, _ := s.ValueAt(0.99)
	return v
}

// Get999tile returns the 99.9th percentile.
func (s *Snapshot) Get999tile() float64 {
	v, _ := s.ValueAt(0.999)
	return v
}

// ValueAt returns the R-7 linearly-interpolated value at quantile q, which
// must lie within [0, 1]. An empty sample returns 0 for any valid q.
func (s *Snapshot) ValueAt(q float64) (float64, error) {
	if q < 0 || q > 1 || math.IsNaN(q) {
		return 0, ErrInvalidQuantile
	}
	n := len(s.values)
	if n == 0 {
		return 0, nil
	}

	idx := q * float64(n+1)
	if idx < 1 {
		return float64(s.values[0]), nil
	}
	if idx >= float64(n) {
		return float64(s.values[n-1]), nil
	}

	lower := int(idx) - 1
	upper := lower + 1
	frac := idx - math.Floor(idx)
	return float64(s.values[lower]) + frac*float64(s.values[upper]-s.values[lower]), nil
}
