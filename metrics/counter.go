package metrics

import "github.com/vkolb/ccmetrics/internal/adder"

// Counter is an integral accumulator metric backed by a striped adder.
// After all writers quiesce, Value equals the algebraic sum of every delta
// ever applied through Inc, Dec and Update.
type Counter struct {
	a *adder.Adder
}

// NewCounter creates a Counter starting at zero.
func NewCounter() *Counter {
	return &Counter{a: adder.New()}
}

// Inc increments the counter by one.
func (c *Counter) Inc() { c.a.Add(1) }

// Dec decrements the counter by one.
func (c *Counter) Dec() { c.a.Add(-1) }

// Update adds delta (which may be negative) to the counter.
func (c *Counter) Update(delta int64) { c.a.Add(delta) }

// Value returns a best-effort snapshot of the counter; see internal/adder's
// Sum for the consistency caveat under concurrent writers.
func (c *Counter) Value() int64 { return c.a.Sum() }
