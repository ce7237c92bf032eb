package metrics

import (
	"sort"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/vkolb/ccmetrics/internal/clock"
	"github.com/vkolb/ccmetrics/internal/logging"
)

// Kind distinguishes the three metric families a Registry holds.
type Kind int

const (
	KindCounter Kind = iota
	KindMeter
	KindTimer
)

func (k Kind) String() string {
	switch k {
	case KindCounter:
		return "counter"
	case KindMeter:
		return "meter"
	case KindTimer:
		return "timer"
	default:
		return "unknown"
	}
}

// Registry is a container for name -> metric mappings. Metrics created
// through a Registry live forever: there is no interface to remove one
// short of discarding the Registry itself, so callers must not retain a
// metric reference past the registry's own lifetime.
//
// Each Registry gets a random instance ID on creation, available through
// InstanceID. The reporters in this module do not include it in what they
// write.
type Registry struct {
	instanceID uuid.UUID
	clock      clock.Clock
	logger     *logging.Logger

	counters *xsync.MapOf[string, *Counter]
	meters   *xsync.MapOf[string, *Meter]
	timers   *xsync.MapOf[string, *Timer]
}

// NewRegistry creates an empty Registry whose Meter and Timer instances
// tick against c.
func NewRegistry(c clock.Clock, logger *logging.Logger) *Registry {
	return &Registry{
		instanceID: uuid.New(),
		clock:      c,
		logger:     logger,
		counters:   xsync.NewMapOf[string, *Counter](),
		meters:     xsync.NewMapOf[string, *Meter](),
		timers:     xsync.NewMapOf[string, *Timer](),
	}
}

// InstanceID returns the Registry's random identity, stable for its
// lifetime.
func (r *Registry) InstanceID() uuid.UUID { return r.instanceID }

// Counter returns the named counter, creating it on first use.
func (r *Registry) Counter(name string) *Counter {
	c, _ := r.counters.LoadOrStore(name, NewCounter())
	return c
}

// Meter returns the named meter, creating it on first use.
func (r *Registry) Meter(name string) *Meter {
	m, _ := r.meters.LoadOrStore(name, NewMeter(r.clock))
	return m
}

// Timer returns the named timer, creating it on first use.
func (r *Registry) Timer(name string) *Timer {
	t, _ := r.timers.LoadOrStore(name, NewTimer(r.clock, r.logger))
	return t
}

// Counters returns every registered counter keyed by name. The returned
// map has no iteration order; CounterNames gives the names sorted.
func (r *Registry) Counters() map[string]*Counter {
	return snapshotOrdered(r.counters)
}

// Meters returns every registered meter keyed by name. The returned map has
// no iteration order; MeterNames gives the names sorted.
func (r *Registry) Meters() map[string]*Meter {
	return snapshotOrdered(r.meters)
}

// Timers returns every registered timer keyed by name. The returned map has
// no iteration order; TimerNames gives the names sorted.
func (r *Registry) Timers() map[string]*Timer {
	return snapshotOrdered(r.timers)
}

// CounterNames returns the sorted names of every registered counter, for
// callers that need deterministic enumeration order (reporters).
func (r *Registry) CounterNames() []string { return sortedKeys(r.counters) }

// MeterNames returns the sorted names of every registered meter.
func (r *Registry) MeterNames() []string { return sortedKeys(r.meters) }

// TimerNames returns the sorted names of every registered timer.
func (r *Registry) TimerNames() []string { return sortedKeys(r.timers) }

func snapshotOrdered[V any](m *xsync.MapOf[string, V]) map[string]V {
	out := make(map[string]V, m.Size())
	m.Range(func(k string, v V) bool {
		out[k] = v
		return true
	})
	return out
}

func sortedKeys[V any](m *xsync.MapOf[string, V]) []string {
	names := make([]string, 0, m.Size())
	m.Range(func(k string, _ V) bool {
		names = append(names, k)
		return true
	})
	sort.Strings(names)
	return names
}
