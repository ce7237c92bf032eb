// Package tlocal stands in for the per-thread local storage the original
// design relies on (a per-thread cached hazard-pointer slot, a per-thread
// hash seed for the striped adder, a per-thread PRNG stream for the
// reservoir). Go has no safe, portable way to hang state off the current
// goroutine that survives across calls the way OS thread-local storage does
// — goroutines migrate between OS threads freely and have no stable
// identity an ordinary package can observe.
//
// Rather than fight the runtime, callers are given two long-lived resources
// instead of one implicit one:
//
//   - Manager[T] is a typed lease pool: Acquire borrows a T-shaped scratch
//     value for the duration of a single operation, Release returns it.
//     Because sync.Pool favors giving a goroutine back the item it last
//     returned, repeated calls from the same goroutine tend to reuse the
//     same value, approximating thread affinity without requiring it for
//     correctness — each lease is exclusively owned for its lifetime either
//     way.
//   - RNG is an explicit, struct-held pseudo-random stream. Instead of a
//     single global generator (contended) or real OS TLS (unavailable),
//     each concern that needs randomness owns a Manager[*RNG] and leases a
//     stream per call.
package tlocal
