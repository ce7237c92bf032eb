// Package hazard implements Maged Michael's hazard-pointer scheme for safe
// memory reclamation in lock-free data structures.
//
// A HazardPointers[T] tracks a growing list of fixed-width slots. Each slot
// belongs to at most one goroutine at a time and exposes K pointer-sized
// "hazard" registers. A reader announces that it is about to dereference a
// pointer by publishing it into one of its slot's registers before following
// it, and clears the register once it no longer needs the pointer. A writer
// that wants to reclaim an object calls Retire on it instead of dropping it
// directly; the object is only released for garbage collection once a scan
// of every active slot's registers shows nothing still protects it.
//
// Pool wraps a HazardPointers[T] with a sync.Pool so that call sites pay the
// cost of walking the global slot list only once per goroutine lifetime
// rather than on every operation, mirroring the "allocate once, reuse for
// the life of the thread" usage pattern the algorithm is designed around.
package hazard
