package hazard

import "sync/atomic"

// Slot is one goroutine's set of hazard registers. A Slot is either active
// (checked out to exactly one goroutine) or available for reuse.
type Slot[T any] struct {
	owner    *HazardPointers[T]
	active   atomic.Bool
	pointers []atomic.Pointer[T]
	next     atomic.Pointer[Slot[T]]
	retired  []*T
}

// SetHazard publishes p into register i, announcing that the caller may be
// about to dereference it.
func (s *Slot[T]) SetHazard(i int, p *T) {
	s.pointers[i].Store(p)
}

// ClearHazard withdraws the announcement made in register i.
func (s *Slot[T]) ClearHazard(i int) {
	s.pointers[i].Store(nil)
}

// ClearAll withdraws every announcement held by the slot.
func (s *Slot[T]) ClearAll() {
	for i := range s.pointers {
		s.pointers[i].Store(nil)
	}
}

// LoadAndSetHazard loads *addr, publishes the result into register i, and
// re-checks *addr. It loops until the value observed before and after
// publishing agree, guaranteeing the returned pointer was hazard-protected
// for the whole interval in which some other goroutine could have retired it.
func (s *Slot[T]) LoadAndSetHazard(addr *atomic.Pointer[T], i int) *T {
	for {
		p := addr.Load()
		s.pointers[i].Store(p)
		if addr.Load() == p {
			return p
		}
	}
}

// LoadAndSetHazardOrFail behaves like LoadAndSetHazard but gives up after a
// single inconsistent observation instead of looping, returning ok=false so
// the caller can restart its own higher-level traversal instead of spinning
// here.
func (s *Slot[T]) LoadAndSetHazardOrFail(addr *atomic.Pointer[T], i int) (p *T, ok bool) {
	p = addr.Load()
	if p == nil {
		s.pointers[i].Store(nil)
		return nil, true
	}
	s.pointers[i].Store(p)
	if addr.Load() != p {
		s.pointers[i].Store(nil)
		return nil, false
	}
	return p, true
}

// Retire hands p over for reclamation once no slot's hazard registers
// protect it any longer. p must already be unreachable from any data
// structure root; Retire only delays the point at which Go's garbage
// collector is allowed to free it.
func (s *Slot[T]) Retire(p *T) {
	s.retired = append(s.retired, p)
	if len(s.retired) < s.owner.retireThreshold() {
		return
	}
	s.Scan()
	if len(s.retired) >= s.owner.retireThreshold() {
		s.HelpScan()
	}
}

// Scan drops every retired pointer that is no longer protected by any
// slot's hazard registers, letting the garbage collector reclaim it.
func (s *Slot[T]) Scan() {
	if len(s.retired) == 0 {
		return
	}
	protected := make(map[*T]struct{}, s.owner.slotCount.Load()*int32(s.owner.k))
	for cur := s.owner.head.Load(); cur != nil; cur = cur.next.Load() {
		for i := range cur.pointers {
			if p := cur.pointers[i].Load(); p != nil {
				protected[p] = struct{}{}
			}
		}
	}
	kept := s.retired[:0]
	for _, p := range s.retired {
		if _, ok := protected[p]; ok {
			kept = append(kept, p)
		}
	}
	s.retired = kept
}

// HelpScan steals the retire lists of slots that currently look inactive,
// folds them into this slot's own list, and scans the result. This lets a
// burst of retirements from a single busy goroutine make progress against
// nodes abandoned by goroutines that have since gone idle, instead of
// waiting for those goroutines to retire something of their own.
func (s *Slot[T]) HelpScan() {
	for cur := s.owner.head.Load(); cur != nil; cur = cur.next.Load() {
		if cur == s {
			continue
		}
		if !cur.active.CompareAndSwap(false, true) {
			continue
		}
		stolen := cur.retired
		cur.retired = nil
		cur.active.Store(false)
		s.retired = append(s.retired, stolen...)
	}
	s.Scan()
}

// HazardPointers owns the global, ever-growing list of Slots shared by every
// user of one logical SMR domain (e.g. one skip list, one striped adder).
type HazardPointers[T any] struct {
	k         int
	head      atomic.Pointer[Slot[T]]
	slotCount atomic.Int32
}

// New creates a hazard-pointer domain in which each slot has k registers.
func New[T any](k int) *HazardPointers[T] {
	return &HazardPointers[T]{k: k}
}

// K reports the number of hazard registers each slot carries.
func (hps *HazardPointers[T]) K() int { return hps.k }

func (hps *HazardPointers[T]) retireThreshold() int {
	n := int(hps.slotCount.Load())
	if n < 1 {
		n = 1
	}
	// ceil(1.25 * slotCount * k), floored at 2*k so a lone goroutine still
	// reclaims eventually instead of growing its retire list unboundedly.
	t := (n*hps.k*5 + 3) / 4
	if min := 2 * hps.k; t < min {
		t = min
	}
	return t
}

// Allocate returns a Slot for exclusive use by the calling goroutine. It
// first looks for a previously retired slot to reuse before appending a new
// one to the list.
func (hps *HazardPointers[T]) Allocate() *Slot[T] {
	for cur := hps.head.Load(); cur != nil; cur = cur.next.Load() {
		if cur.active.CompareAndSwap(false, true) {
			cur.ClearAll()
			return cur
		}
	}

	ns := &Slot[T]{owner: hps, pointers: make([]atomic.Pointer[T], hps.k)}
	ns.active.Store(true)
	for {
		head := hps.head.Load()
		ns.next.Store(head)
		if hps.head.CompareAndSwap(head, ns) {
			hps.slotCount.Add(1)
			return ns
		}
	}
}

// Release marks a slot inactive and available for reuse by a future
// Allocate call. The slot's hazard registers are cleared first so it
// protects nothing while idle.
func (hps *HazardPointers[T]) Release(s *Slot[T]) {
	s.ClearAll()
	s.active.Store(false)
}
