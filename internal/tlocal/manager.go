package tlocal

import "sync"

// Manager leases values of type T to goroutines through a sync.Pool. It
// plays the role the original design gives to a thread-local key: a single
// long-lived handle, created once per concern, through which short-lived
// per-call scratch state is obtained and returned.
type Manager[T any] struct {
	pool sync.Pool
}

// NewManager creates a Manager whose leased values are produced by newFn on
// first use.
func NewManager[T any](newFn func() T) *Manager[T] {
	m := &Manager[T]{}
	m.pool.New = func() any {
		v := newFn()
		return &v
	}
	return m
}

// Lease is a borrowed value, exclusively owned by whoever holds it until
// Release is called.
type Lease[T any] struct {
	mgr   *Manager[T]
	Value *T
}

// Acquire borrows a value for the duration of the caller's operation.
func (m *Manager[T]) Acquire() *Lease[T] {
	return &Lease[T]{mgr: m, Value: m.pool.Get().(*T)}
}

// Release returns the leased value to the pool for reuse.
func (l *Lease[T]) Release() {
	l.mgr.pool.Put(l.Value)
}
