package adder

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// stripeLimit caps the number of stripes a single Adder will grow to. Beyond
// this point further contention is assumed to be pathological rather than a
// sign that more parallelism would help, and colliding goroutines simply
// retry the hash-then-CAS loop instead of growing further.
const stripeLimit = 8

// counter is one stripe. It is padded to its own cache line so that two
// goroutines hammering adjacent stripes never cause false sharing.
type counter struct {
	v atomic.Int64
	_ cpu.CacheLinePad
}

// storage is one generation of the stripe array. Growing never mutates or
// discards an existing generation's slots — it builds a new, larger slice
// that shares every *counter the old generation already had and appends
// fresh ones for the newly doubled capacity. Values already accumulated in
// the inherited stripes are therefore preserved exactly, and any goroutine
// still holding a reference to the old generation keeps reading live,
// un-torn counters (just fewer of them) until it observes the new one.
type storage struct {
	slots []*counter
}

func newStorage(size int) *storage {
	s := &storage{slots: make([]*counter, size)}
	for i := range s.slots {
		s.slots[i] = &counter{}
	}
	return s
}

func growStorage(old *storage) *storage {
	size := len(old.slots) * 2
	if size > stripeLimit {
		size = stripeLimit
	}
	ns := &storage{slots: make([]*counter, size)}
	copy(ns.slots, old.slots)
	for i := len(old.slots); i < size; i++ {
		ns.slots[i] = &counter{}
	}
	return ns
}

// rehash advances a goroutine's stripe-selection hash after a CAS collision,
// using the xorshift 13/17/5 mix used throughout the reference design.
func rehash(h uint64) uint64 {
	h ^= h << 13
	h ^= h >> 17
	h ^= h << 5
	return h
}
