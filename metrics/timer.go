package metrics

import (
	"sync/atomic"

	"github.com/vkolb/ccmetrics/internal/clock"
	"github.com/vkolb/ccmetrics/internal/logging"
	"github.com/vkolb/ccmetrics/internal/reservoir"
	"github.com/vkolb/ccmetrics/snapshot"
)

// Timer reports aggregate statistics of recorded event durations alongside
// throughput rate estimates — a reservoir for the distribution, a meter for
// the rate.
type Timer struct {
	hist  *reservoir.Reservoir
	meter *Meter
	count atomic.Int64
}

// NewTimer creates a Timer using c as its time source for both the
// reservoir's decay schedule and the meter's tick schedule.
func NewTimer(c clock.Clock, logger *logging.Logger) *Timer {
	return &Timer{
		hist:  reservoir.New(c, logger),
		meter: NewMeter(c),
	}
}

// Update records an event duration (in whatever unit the caller is
// consistent about, conventionally milliseconds) and marks one event on
// the rate meter.
func (t *Timer) Update(duration int64) {
	t.hist.Update(duration)
	t.meter.Mark()
	t.count.Add(1)
}

// Count returns the number of durations recorded so far.
func (t *Timer) Count() int64 { return t.count.Load() }

// OneMinuteRate returns the one minute operation rate, in ops/s.
func (t *Timer) OneMinuteRate() float64 { return t.meter.OneMinuteRate() }

// FiveMinuteRate returns the five minute operation rate, in ops/s.
func (t *Timer) FiveMinuteRate() float64 { return t.meter.FiveMinuteRate() }

// FifteenMinuteRate returns the fifteen minute operation rate, in ops/s.
func (t *Timer) FifteenMinuteRate() float64 { return t.meter.FifteenMinuteRate() }

// Snapshot returns a snapshot of the distribution of recorded durations.
func (t *Timer) Snapshot() *snapshot.Snapshot { return t.hist.Snapshot() }
