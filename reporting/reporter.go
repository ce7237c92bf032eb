package reporting

import (
	"context"
	"errors"
	"time"

	"github.com/vkolb/ccmetrics/internal/logging"
	"github.com/vkolb/ccmetrics/metrics"
)

// ErrReporterStopped is returned by Report when the context it is given has
// already been canceled; nothing is written in that case.
var ErrReporterStopped = errors.New("reporting: reporter stopped")

// Reporter pushes a Registry's current metric readings somewhere.
type Reporter interface {
	// Report emits one reading of every metric currently in reg.
	Report(ctx context.Context, reg *metrics.Registry) error
	// Run calls Report on every tick of interval until ctx is canceled.
	// A Report error is logged, not fatal: the loop retries on the next
	// tick rather than giving up on a single transient failure.
	Run(ctx context.Context, reg *metrics.Registry, interval time.Duration)
}

// runLoop is the periodic-reporter control flow shared by every Reporter
// implementation in this package: tick, report, log failures, repeat until
// canceled.
func runLoop(ctx context.Context, reg *metrics.Registry, interval time.Duration, logger *logging.Logger, report func(context.Context, *metrics.Registry) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := report(ctx, reg); err != nil && logger != nil {
				logger.Warnf("report failed: %v", err)
			}
		}
	}
}
