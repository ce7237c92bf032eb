package metrics

import (
	"testing"
	"time"
)

func TestTimerRecordsDurationsAndCount(t *testing.T) {
	c := &fakeClock{now: time.Unix(0, 0)}
	tm := NewTimer(c, nil)

	for _, d := range []int64{10, 20, 30, 40, 50} {
		tm.Update(d)
	}

	if got := tm.Count(); got != 5 {
		t.Fatalf("expected count 5, got %d", got)
	}

	snap := tm.Snapshot()
	if snap.Len() != 5 {
		t.Fatalf("expected snapshot of 5 durations, got %d", snap.Len())
	}
	if snap.Mean() != 30 {
		t.Fatalf("expected mean 30, got %v", snap.Mean())
	}
}
