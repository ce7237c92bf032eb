package adder

import (
	"sync/atomic"

	"github.com/vkolb/ccmetrics/internal/hazard"
	"github.com/vkolb/ccmetrics/internal/tlocal"
)

// Adder is a lock-free, contention-adaptive running sum. Add is always
// wait-free from the caller's point of view in the uncontended case and
// lock-free under contention; Sum is a best-effort snapshot, not a
// linearization point (see the package-level non-goal on linearizable
// reads).
type Adder struct {
	base    atomic.Int64
	storage atomic.Pointer[storage]
	hzPool  *hazard.Pool[storage]
	hashMgr *tlocal.Manager[uint64]
}

// New creates an Adder starting at zero with no stripes allocated.
func New() *Adder {
	return &Adder{
		hzPool:  hazard.NewPool[storage](1),
		hashMgr: tlocal.NewManager(tlocal.NextHashSeed),
	}
}

// Add adds v (v may be negative) to the running sum.
func (a *Adder) Add(v int64) {
	lease := a.hashMgr.Acquire()
	defer lease.Release()
	h := *lease.Value

	for {
		s := a.storage.Load()
		if s == nil {
			old := a.base.Load()
			if a.base.CompareAndSwap(old, old+v) {
				return
			}
			a.growOrCreate(nil)
			continue
		}

		idx := h & uint64(len(s.slots)-1)
		c := s.slots[idx]
		old := c.v.Load()
		if c.v.CompareAndSwap(old, old+v) {
			*lease.Value = h
			return
		}

		h = rehash(h)
		if len(s.slots) < stripeLimit {
			a.growOrCreate(s)
		}
	}
}

// growOrCreate transitions storage from old to the next generation, unless
// another goroutine has already done so. A failed attempt is not an error:
// the caller simply retries against whatever storage is current.
func (a *Adder) growOrCreate(old *storage) {
	slot := a.hzPool.Acquire()
	defer a.hzPool.Release(slot)

	if a.storage.Load() != old {
		return
	}

	var ns *storage
	if old == nil {
		ns = newStorage(2)
	} else {
		if len(old.slots) >= stripeLimit {
			return
		}
		ns = growStorage(old)
	}

	if a.storage.CompareAndSwap(old, ns) && old != nil {
		slot.Retire(old)
	}
}

// Sum returns a best-effort snapshot of the running total. It is not
// linearizable: concurrent Add calls may be observed partially or not at
// all.
func (a *Adder) Sum() int64 {
	slot := a.hzPool.Acquire()
	defer a.hzPool.Release(slot)

	sum := a.base.Load()
	if s := slot.LoadAndSetHazard(&a.storage, 0); s != nil {
		for _, c := range s.slots {
			sum += c.v.Load()
		}
	}
	return sum
}

// SumThenReset atomically reads and zeroes the base counter and each
// stripe in turn, returning their sum. Like Sum, the result is not a single
// point-in-time snapshot: an Add racing with SumThenReset may land in a
// stripe that has already been drained, and is then counted by the next
// SumThenReset instead. Each stripe is drained with one atomic swap, so no
// Add is dropped.
func (a *Adder) SumThenReset() int64 {
	slot := a.hzPool.Acquire()
	defer a.hzPool.Release(slot)

	sum := a.base.Swap(0)
	if s := slot.LoadAndSetHazard(&a.storage, 0); s != nil {
		for _, c := range s.slots {
			sum += c.v.Swap(0)
		}
	}
	return sum
}
