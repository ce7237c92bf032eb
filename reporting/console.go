package reporting

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/vkolb/ccmetrics/internal/logging"
	"github.com/vkolb/ccmetrics/metrics"
	"github.com/vkolb/ccmetrics/serializing"
)

// ConsoleReporter writes a human-readable line per metric to an io.Writer,
// conventionally os.Stdout. It's the reporter a developer reaches for
// while wiring up a new Registry, grounded on the reference
// implementation's console reporter.
type ConsoleReporter struct {
	w      io.Writer
	logger *logging.Logger
}

// NewConsoleReporter creates a ConsoleReporter writing to w.
func NewConsoleReporter(w io.Writer, logger *logging.Logger) *ConsoleReporter {
	return &ConsoleReporter{w: w, logger: logger}
}

func (c *ConsoleReporter) Report(ctx context.Context, reg *metrics.Registry) error {
	if ctx.Err() != nil {
		return ErrReporterStopped
	}
	for _, name := range reg.CounterNames() {
		if _, err := fmt.Fprintf(c.w, "counter %s = %d\n", name, reg.Counter(name).Value()); err != nil {
			return err
		}
	}
	for _, name := range reg.MeterNames() {
		m := reg.Meter(name)
		rates := serializing.MeterRatesFrom(m)
		if _, err := fmt.Fprintf(c.w, "meter %s: 1m=%.3f 5m=%.3f 15m=%.3f\n",
			name, rates.OneMinute, rates.FiveMinute, rates.FifteenMinute); err != nil {
			return err
		}
	}
	for _, name := range reg.TimerNames() {
		stats := serializing.TimerStatsFrom(reg.Timer(name))
		if _, err := fmt.Fprintf(c.w, "timer %s: count=%d mean=%.3f p99=%.3f\n",
			name, stats.Count, stats.Mean, stats.P99); err != nil {
			return err
		}
	}
	return nil
}

func (c *ConsoleReporter) Run(ctx context.Context, reg *metrics.Registry, interval time.Duration) {
	runLoop(ctx, reg, interval, c.logger, c.Report)
}

var _ Reporter = (*ConsoleReporter)(nil)
