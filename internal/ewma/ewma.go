package ewma

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/vkolb/ccmetrics/internal/adder"
	"github.com/vkolb/ccmetrics/internal/clock"
)

// TickInterval is the fixed period over which the adder's accumulated count
// is folded into the running rate.
const TickInterval = 5 * time.Second

// Alpha precomputes the smoothing factor for a window of windowMinutes
// minutes, using the standard "1 - exp(-tick/window)" EWMA derivation.
func Alpha(windowMinutes float64) float64 {
	return 1 - math.Exp(-TickInterval.Seconds()/(60*windowMinutes))
}

// EWMA is a rate estimator: events are recorded with Update, and Rate
// returns the exponentially-weighted events-per-second average as of the
// last completed tick.
type EWMA struct {
	adder       *adder.Adder
	alpha       float64
	clock       clock.Clock
	rateBits    atomic.Uint64
	initialized atomic.Bool
	lastTick    atomic.Int64
}

// New creates an EWMA with the given smoothing factor, using c as its time
// source.
func New(alpha float64, c clock.Clock) *EWMA {
	e := &EWMA{
		adder: adder.New(),
		alpha: alpha,
		clock: c,
	}
	e.lastTick.Store(c.Now().UnixNano())
	return e
}

// Update records n events and advances the tick clock if a tick boundary
// has been crossed.
func (e *EWMA) Update(n int64) {
	e.adder.Add(n)
	e.tickIfNecessary()
}

// Rate returns the current events-per-second estimate, ticking first if
// necessary. A Meter with no events ever recorded returns 0.
func (e *EWMA) Rate() float64 {
	e.tickIfNecessary()
	return math.Float64frombits(e.rateBits.Load())
}

func (e *EWMA) tickIfNecessary() {
	now := e.clock.Now().UnixNano()
	last := e.lastTick.Load()
	elapsed := now - last
	if elapsed < int64(TickInterval) {
		return
	}
	if !e.lastTick.CompareAndSwap(last, now) {
		return
	}
	ticks := elapsed / int64(TickInterval)
	for i := int64(0); i < ticks; i++ {
		e.tick()
	}
}

// tick folds the adder's accumulated count since the last tick into the
// running rate. The drain of the adder is not atomic across stripes with
// respect to concurrent Update calls: an Update racing with a tick may be
// folded into this tick or into the next one. Each stripe is read and
// zeroed by a single atomic swap, so no event is dropped, and the hot
// Update path takes no lock.
func (e *EWMA) tick() {
	uncounted := e.adder.SumThenReset()
	instant := float64(uncounted) / TickInterval.Seconds()

	if !e.initialized.Load() {
		e.rateBits.Store(math.Float64bits(instant))
		e.initialized.Store(true)
		return
	}

	for {
		old := e.rateBits.Load()
		oldRate := math.Float64frombits(old)
		next := oldRate + e.alpha*(instant-oldRate)
		if e.rateBits.CompareAndSwap(old, math.Float64bits(next)) {
			return
		}
	}
}
