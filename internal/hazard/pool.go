package hazard

import "sync"

// Pool leases Slots to goroutines through a sync.Pool instead of through
// HazardPointers' own Allocate/Release dance on every call. sync.Pool
// already gives each goroutine an affinity towards the slot it used last, so
// the common path (Acquire, use, Release) never has to walk the global slot
// list — only a pool miss does, which happens once per goroutine lifetime in
// the steady state, matching the "allocate once, reuse forever" usage this
// algorithm was designed around.
//
// A slot dropped by the pool under GC pressure is simply abandoned: it stays
// permanently active in the HazardPointers list but, since Release clears
// its registers first, it never blocks reclamation of anything. This bounds
// slot-list growth by peak concurrent goroutine count, same as the
// underlying algorithm's bound on peak thread count.
type Pool[T any] struct {
	hps  *HazardPointers[T]
	pool sync.Pool
}

// NewPool creates a Pool whose slots carry k hazard registers each.
func NewPool[T any](k int) *Pool[T] {
	p := &Pool[T]{hps: New[T](k)}
	p.pool.New = func() any { return p.hps.Allocate() }
	return p
}

// Acquire leases a Slot to the calling goroutine.
func (p *Pool[T]) Acquire() *Slot[T] {
	return p.pool.Get().(*Slot[T])
}

// Release clears the slot's hazard registers and returns it to the pool.
func (p *Pool[T]) Release(s *Slot[T]) {
	s.ClearAll()
	p.pool.Put(s)
}

// K reports the number of hazard registers each leased slot carries.
func (p *Pool[T]) K() int { return p.hps.k }
