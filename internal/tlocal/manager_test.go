package tlocal

import (
	"sync"
	"testing"
)

func TestManagerLeaseRoundTrip(t *testing.T) {
	created := 0
	mgr := NewManager(func() int {
		created++
		return 0
	})

	l := mgr.Acquire()
	*l.Value = 5
	l.Release()

	l2 := mgr.Acquire()
	if *l2.Value != 5 {
		t.Fatalf("expected pooled value to be reused, got %d", *l2.Value)
	}
}

func TestManagerConcurrentLeasesAreExclusive(t *testing.T) {
	mgr := NewManager(func() int { return 0 })
	var wg sync.WaitGroup
	for g := 0; g < 32; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				l := mgr.Acquire()
				*l.Value = i
				if *l.Value != i {
					t.Errorf("lease was not exclusively owned")
				}
				l.Release()
			}
		}()
	}
	wg.Wait()
}

func TestRNGStreamsAreDistinct(t *testing.T) {
	a := NewRNG()
	b := NewRNG()
	if a.Next63() == b.Next63() && a.Next63() == b.Next63() {
		t.Fatalf("expected independently seeded streams to diverge")
	}
}

func TestRNGFloat64Range(t *testing.T) {
	r := NewRNG()
	for i := 0; i < 10000; i++ {
		f := r.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range: %v", f)
		}
	}
}
