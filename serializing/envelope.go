package serializing

import (
	"fmt"

	"github.com/vkolb/ccmetrics/metrics"
)

// MeterRates is the wire representation of a Meter's three EWMA rates.
type MeterRates struct {
	OneMinute     float64
	FiveMinute    float64
	FifteenMinute float64
}

// TimerStats is the wire representation of a Timer: its event count, rate
// estimates, and a quantile summary of its duration distribution.
type TimerStats struct {
	Count   int64
	Rates   MeterRates
	Min     int64
	Max     int64
	Mean    float64
	Stdev   float64
	Median  float64
	P75     float64
	P95     float64
	P99     float64
	P999    float64
}

// Envelope is a single named metric reading, tagged with its Kind so a
// decoder knows which of CounterValue, Meter or Timer is populated.
type Envelope struct {
	Kind         metrics.Kind
	Name         string
	CounterValue int64
	Meter        MeterRates
	Timer        TimerStats
}

// newEnvelope builds an Envelope from the value a caller passes to
// EncodeSnapshot, which must match kind: int64 for KindCounter,
// MeterRates for KindMeter, TimerStats for KindTimer.
func newEnvelope(kind metrics.Kind, name string, s any) (Envelope, error) {
	env := Envelope{Kind: kind, Name: name}
	switch kind {
	case metrics.KindCounter:
		v, ok := s.(int64)
		if !ok {
			return Envelope{}, fmt.Errorf("serializing: counter snapshot must be int64, got %T", s)
		}
		env.CounterValue = v
	case metrics.KindMeter:
		v, ok := s.(MeterRates)
		if !ok {
			return Envelope{}, fmt.Errorf("serializing: meter snapshot must be MeterRates, got %T", s)
		}
		env.Meter = v
	case metrics.KindTimer:
		v, ok := s.(TimerStats)
		if !ok {
			return Envelope{}, fmt.Errorf("serializing: timer snapshot must be TimerStats, got %T", s)
		}
		env.Timer = v
	default:
		return Envelope{}, fmt.Errorf("serializing: unknown metric kind %v", kind)
	}
	return env, nil
}

// MeterRatesFrom adapts a live Meter into its wire representation.
func MeterRatesFrom(m *metrics.Meter) MeterRates {
	return MeterRates{
		OneMinute:     m.OneMinuteRate(),
		FiveMinute:    m.FiveMinuteRate(),
		FifteenMinute: m.FifteenMinuteRate(),
	}
}

// TimerStatsFrom adapts a live Timer into its wire representation.
func TimerStatsFrom(t *metrics.Timer) TimerStats {
	snap := t.Snapshot()
	return TimerStats{
		Count: t.Count(),
		Rates: MeterRates{
			OneMinute:     t.OneMinuteRate(),
			FiveMinute:    t.FiveMinuteRate(),
			FifteenMinute: t.FifteenMinuteRate(),
		},
		Min:    snap.Min(),
		Max:    snap.Max(),
		Mean:   snap.Mean(),
		Stdev:  snap.Stdev(),
		Median: snap.Median(),
		P75:    snap.Get75tile(),
		P95:    snap.Get95tile(),
		P99:    snap.Get99tile(),
		P999:   snap.Get999tile(),
	}
}
