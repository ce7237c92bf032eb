package reservoir

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vkolb/ccmetrics/internal/clock"
	"github.com/vkolb/ccmetrics/internal/hazard"
	"github.com/vkolb/ccmetrics/internal/logging"
	"github.com/vkolb/ccmetrics/internal/skiplist"
	"github.com/vkolb/ccmetrics/internal/tlocal"
	"github.com/vkolb/ccmetrics/snapshot"
)

const (
	decayAlpha      = 0.015
	reservoirSize   = 1028
	rescaleInterval = time.Hour
)

// data is one generation of the reservoir: a priority-ordered map of
// samples, a monotone insert sequencer, and the landmark timestamp decay is
// measured relative to.
type data struct {
	m        *skiplist.SkipList[float64, int64]
	count    atomic.Int64
	landmark atomic.Int64 // UnixNano
}

func newData(landmark time.Time) *data {
	d := &data{m: skiplist.New[float64, int64]()}
	d.landmark.Store(landmark.UnixNano())
	return d
}

// Reservoir is a concurrent, self-rescaling exponential decay sample.
type Reservoir struct {
	cur       atomic.Pointer[data]
	nextScale atomic.Int64 // UnixNano

	hzPool *hazard.Pool[data]
	rngMgr *tlocal.Manager[*tlocal.RNG]
	mu     sync.Mutex // serializes rescale against Snapshot

	clock  clock.Clock
	logger *logging.Logger
}

// New creates a Reservoir whose landmark and rescale schedule start at
// c.Now().
func New(c clock.Clock, logger *logging.Logger) *Reservoir {
	r := &Reservoir{
		hzPool: hazard.NewPool[data](1),
		rngMgr: tlocal.NewManager(func() *tlocal.RNG { return tlocal.NewRNG() }),
		clock:  c,
		logger: logger,
	}
	now := c.Now()
	r.cur.Store(newData(now))
	r.nextScale.Store(now.Add(rescaleInterval).UnixNano())
	return r
}

// Update records v, assigning it a forward-decay priority relative to the
// current generation's landmark.
func (r *Reservoir) Update(v int64) {
	now := r.clock.Now()
	r.maybeRescale(now)

	slot := r.hzPool.Acquire()
	defer r.hzPool.Release(slot)

	d := slot.LoadAndSetHazard(&r.cur, 0)
	if d == nil {
		return
	}

	delta := now.Sub(time.Unix(0, d.landmark.Load())).Seconds()

	rl := r.rngMgr.Acquire()
	u := 1 - (*rl.Value).Float64() // (0, 1], excludes the 0 that would blow up 1/(1-U)
	rl.Release()

	priority := math.Exp(decayAlpha*delta) / u
	insertWithEviction(d, priority, v)
}

// Count returns the current generation's monotone insert sequencer. It is
// not the number of samples currently held — eviction does not decrement
// it — so it must not be treated as cardinality.
func (r *Reservoir) Count() int64 {
	slot := r.hzPool.Acquire()
	defer r.hzPool.Release(slot)
	d := slot.LoadAndSetHazard(&r.cur, 0)
	if d == nil {
		return 0
	}
	return d.count.Load()
}

// Snapshot returns an unsorted-internally-but-Snapshot-sorts sample of
// every value currently held.
func (r *Reservoir) Snapshot() *snapshot.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot := r.hzPool.Acquire()
	defer r.hzPool.Release(slot)

	d := slot.LoadAndSetHazard(&r.cur, 0)
	if d == nil {
		return snapshot.New(nil)
	}
	return snapshot.New(d.m.Values())
}

func (r *Reservoir) maybeRescale(now time.Time) {
	observed := r.nextScale.Load()
	if now.UnixNano() <= observed {
		return
	}
	if !r.nextScale.CompareAndSwap(observed, now.Add(rescaleInterval).UnixNano()) {
		return
	}
	r.rescale(now)
}

// rescale swaps in a fresh generation landmarked at now, then reinserts
// every surviving sample from the old generation with its priority decayed
// by the elapsed time. A burst of Updates that observe the old generation
// mid-rescale may be lost; this is the same tradeoff the 5-second EWMA tick
// makes and is accepted for the same reason: a sampling/rate estimator
// doesn't need every event, just a representative stream of them.
func (r *Reservoir) rescale(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot := r.hzPool.Acquire()
	defer r.hzPool.Release(slot)

	old := slot.LoadAndSetHazard(&r.cur, 0)
	nd := newData(now)
	r.cur.Store(nd)
	if old == nil {
		return
	}
	slot.Retire(old)

	decay := math.Exp(-decayAlpha * now.Sub(time.Unix(0, old.landmark.Load())).Seconds())
	entries := old.m.Entries()
	for _, e := range entries {
		insertWithEviction(nd, e.Key*decay, e.Value)
	}

	if r.logger != nil {
		r.logger.Debugf("reservoir rescaled: %d samples carried forward", len(entries))
	}
}

// insertWithEviction implements the reservoir's priority-sampling admission
// rule: always admit while under capacity; once at capacity, only admit a
// higher-priority sample than the current minimum, and evict that minimum.
func insertWithEviction(d *data, priority float64, value int64) {
	if d.count.Add(1) <= reservoirSize {
		d.m.Insert(priority, value)
		return
	}

	first, ok := d.m.FirstKey()
	for ok && first < priority {
		if _, inserted := d.m.Insert(priority, value); inserted {
			for {
				if _, erased := d.m.Erase(first); erased {
					return
				}
				if first, ok = d.m.FirstKey(); !ok {
					return
				}
			}
		}
		first, ok = d.m.FirstKey()
	}
}
