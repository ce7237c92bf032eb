package hazard

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestAllocateReusesReleasedSlot(t *testing.T) {
	hps := New[int](2)

	s1 := hps.Allocate()
	hps.Release(s1)

	s2 := hps.Allocate()
	if s1 != s2 {
		t.Fatalf("expected Allocate to reuse the released slot")
	}
	if hps.slotCount.Load() != 1 {
		t.Fatalf("expected slotCount 1, got %d", hps.slotCount.Load())
	}
}

func TestAllocateGrowsWhenNoneFree(t *testing.T) {
	hps := New[int](1)

	s1 := hps.Allocate()
	s2 := hps.Allocate()
	if s1 == s2 {
		t.Fatalf("expected distinct slots when none are free")
	}
	if hps.slotCount.Load() != 2 {
		t.Fatalf("expected slotCount 2, got %d", hps.slotCount.Load())
	}
}

func TestRetireProtectsHazardousPointer(t *testing.T) {
	hps := New[int](1)
	reader := hps.Allocate()
	writer := hps.Allocate()

	var target atomic.Pointer[int]
	v := 42
	target.Store(&v)

	p := reader.LoadAndSetHazard(&target, 0)
	if p != &v {
		t.Fatalf("expected to protect &v")
	}

	// Writer retires the node the reader still holds hazardous; it must
	// survive every Scan triggered while the reader protects it.
	for i := 0; i < writer.owner.retireThreshold()+1; i++ {
		n := i
		writer.Retire(&n)
	}
	writer.Retire(p)
	writer.Scan()

	found := false
	for _, r := range writer.retired {
		if r == p {
			found = true
		}
	}
	if !found {
		t.Fatalf("hazard-protected pointer was reclaimed while still in use")
	}

	reader.ClearHazard(0)
	writer.Scan()
	for _, r := range writer.retired {
		if r == p {
			t.Fatalf("pointer should have been reclaimable once unprotected")
		}
	}
}

func TestLoadAndSetHazardOrFailConsistentRead(t *testing.T) {
	hps := New[int](1)
	s := hps.Allocate()

	var target atomic.Pointer[int]
	a, b := 1, 2
	target.Store(&a)

	// A single goroutine cannot swap the pointer between the method's own
	// two loads, so the first half replays those loads by hand around a
	// swap to show that the re-check sees the change; the method itself is
	// then checked on a consistent read.
	p1 := target.Load()
	target.Store(&b)
	s.pointers[0].Store(p1)
	if target.Load() == p1 {
		t.Fatalf("test setup invariant broken")
	}

	target.Store(&a)
	p2, ok := s.LoadAndSetHazardOrFail(&target, 0)
	if !ok || p2 != &a {
		t.Fatalf("expected consistent read to succeed, got p=%v ok=%v", p2, ok)
	}
}

func TestHelpScanStealsAbandonedRetireList(t *testing.T) {
	hps := New[int](1)
	abandoned := hps.Allocate()
	n := 7
	abandoned.retired = append(abandoned.retired, &n)
	// Allocate the helper before releasing the abandoned slot, so that
	// Allocate cannot hand the abandoned slot itself back as the helper.
	helper := hps.Allocate()
	hps.Release(abandoned)

	if len(abandoned.retired) != 1 {
		t.Fatalf("expected abandoned slot to still carry its retire list before helping")
	}

	helper.HelpScan()

	if len(abandoned.retired) != 0 {
		t.Fatalf("expected HelpScan to drain the abandoned slot's retire list")
	}
	// n was never hazard-protected by any slot, so the merged Scan at the
	// end of HelpScan reclaims it immediately rather than keeping it.
	if len(helper.retired) != 0 {
		t.Fatalf("expected unprotected stolen entry to be scanned away, got %d", len(helper.retired))
	}
}

func TestPoolAcquireReleaseConcurrent(t *testing.T) {
	pool := NewPool[int](2)
	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				s := pool.Acquire()
				v := i
				s.SetHazard(0, &v)
				runtime.Gosched()
				s.ClearHazard(0)
				pool.Release(s)
			}
		}()
	}
	wg.Wait()
}

func TestRetiredNodeEventuallyCollected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping GC-timing test in short mode")
	}
	hps := New[int](1)
	s := hps.Allocate()

	collected := make(chan struct{}, 1)
	func() {
		n := new(int)
		*n = 99
		runtime.SetFinalizer(n, func(*int) {
			select {
			case collected <- struct{}{}:
			default:
			}
		})
		s.Retire(n)
		s.Scan()
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		runtime.GC()
		select {
		case <-collected:
			return
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("retired node was never collected")
}
