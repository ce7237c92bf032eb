package metrics

import (
	"testing"
	"time"
)

func TestRegistryLazyCreationReturnsSameInstance(t *testing.T) {
	r := NewRegistry(&fakeClock{now: time.Unix(0, 0)}, nil)

	a := r.Counter("requests")
	b := r.Counter("requests")
	if a != b {
		t.Fatalf("expected the same Counter instance on repeated lookup by name")
	}
	a.Inc()
	if got := b.Value(); got != 1 {
		t.Fatalf("expected the second handle to observe the first's increment, got %d", got)
	}
}

func TestRegistryEnumeratesAllKinds(t *testing.T) {
	r := NewRegistry(&fakeClock{now: time.Unix(0, 0)}, nil)
	r.Counter("c1")
	r.Counter("c2")
	r.Meter("m1")
	r.Timer("t1")

	if got := r.CounterNames(); len(got) != 2 || got[0] != "c1" || got[1] != "c2" {
		t.Fatalf("expected sorted [c1 c2], got %v", got)
	}
	if got := r.MeterNames(); len(got) != 1 || got[0] != "m1" {
		t.Fatalf("expected [m1], got %v", got)
	}
	if got := r.TimerNames(); len(got) != 1 || got[0] != "t1" {
		t.Fatalf("expected [t1], got %v", got)
	}
}

func TestRegistryInstanceIDStable(t *testing.T) {
	r := NewRegistry(&fakeClock{now: time.Unix(0, 0)}, nil)
	id := r.InstanceID()
	if r.InstanceID() != id {
		t.Fatalf("expected a Registry's instance ID to be stable across calls")
	}
}
