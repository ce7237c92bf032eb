package reservoir

import (
	"testing"
	"time"

	"github.com/vkolb/ccmetrics/internal/clock"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

func TestSamplingFavorsRecentEvents(t *testing.T) {
	r := New(fixedClock{now: time.Unix(0, 0)}, nil)

	r.Update(1000)
	for i := 0; i < 100000; i++ {
		r.Update(1)
	}

	snap := r.Snapshot()
	if snap.Max() != 1 {
		t.Fatalf("expected the flood of 1s to dominate the sample, got max %d", snap.Max())
	}
}

func TestSnapshotEmptyReservoir(t *testing.T) {
	r := New(fixedClock{now: time.Unix(0, 0)}, nil)
	snap := r.Snapshot()
	if snap.Len() != 0 {
		t.Fatalf("expected empty snapshot, got %d entries", snap.Len())
	}
}

func TestCountIsMonotoneNotCardinality(t *testing.T) {
	r := New(fixedClock{now: time.Unix(0, 0)}, nil)
	for i := 0; i < reservoirSize+500; i++ {
		r.Update(int64(i))
	}
	if got := r.Count(); got != int64(reservoirSize+500) {
		t.Fatalf("expected count to keep incrementing past capacity, got %d", got)
	}
	if got := r.Snapshot().Len(); got > reservoirSize {
		t.Fatalf("expected held sample size to stay at or under capacity, got %d", got)
	}
}

func TestRescalePreservesSamplesUnderCap(t *testing.T) {
	start := time.Unix(0, 0)
	c := &mutableClock{now: start}
	r := New(c, nil)

	for i := 0; i < 100; i++ {
		r.Update(int64(i))
	}
	before := r.Snapshot().Len()

	c.now = start.Add(2 * time.Hour)
	r.Update(999) // triggers maybeRescale as a side effect

	after := r.Snapshot().Len()
	if after < before {
		t.Fatalf("expected rescale to carry samples forward, had %d now have %d", before, after)
	}
}

type mutableClock struct{ now time.Time }

func (c *mutableClock) Now() time.Time { return c.now }

var _ clock.Clock = (*mutableClock)(nil)
