package metrics

import (
	"github.com/vkolb/ccmetrics/internal/clock"
	"github.com/vkolb/ccmetrics/internal/ewma"
)

// Precomputed smoothing factors, basically UNIX load average windows.
var (
	oneMinuteAlpha     = ewma.Alpha(1)
	fiveMinuteAlpha    = ewma.Alpha(5)
	fifteenMinuteAlpha = ewma.Alpha(15)
)

// Meter tracks one, five and fifteen minute exponentially weighted moving
// average event rates.
type Meter struct {
	m1, m5, m15 *ewma.EWMA
}

// NewMeter creates a Meter using c as its tick clock.
func NewMeter(c clock.Clock) *Meter {
	return &Meter{
		m1:  ewma.New(oneMinuteAlpha, c),
		m5:  ewma.New(fiveMinuteAlpha, c),
		m15: ewma.New(fifteenMinuteAlpha, c),
	}
}

// Mark records one event.
func (m *Meter) Mark() { m.MarkN(1) }

// MarkN records n events.
func (m *Meter) MarkN(n int64) {
	m.m1.Update(n)
	m.m5.Update(n)
	m.m15.Update(n)
}

// OneMinuteRate returns the one minute rate, in events/s.
func (m *Meter) OneMinuteRate() float64 { return m.m1.Rate() }

// FiveMinuteRate returns the five minute rate, in events/s.
func (m *Meter) FiveMinuteRate() float64 { return m.m5.Rate() }

// FifteenMinuteRate returns the fifteen minute rate, in events/s.
func (m *Meter) FifteenMinuteRate() float64 { return m.m15.Rate() }
