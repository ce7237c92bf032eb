package reporting

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/vkolb/ccmetrics/metrics"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

func TestConsoleReporterWritesEveryMetric(t *testing.T) {
	reg := metrics.NewRegistry(fixedClock{now: time.Unix(0, 0)}, nil)
	reg.Counter("requests").Update(5)
	reg.Meter("ops").Mark()
	reg.Timer("latency").Update(10)

	var buf bytes.Buffer
	rep := NewConsoleReporter(&buf, nil)
	if err := rep.Report(context.Background(), reg); err != nil {
		t.Fatalf("report: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"counter requests = 5", "meter ops:", "timer latency:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestConsoleReporterRunStopsOnCancel(t *testing.T) {
	reg := metrics.NewRegistry(fixedClock{now: time.Unix(0, 0)}, nil)
	var buf bytes.Buffer
	rep := NewConsoleReporter(&buf, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rep.Run(ctx, reg, time.Millisecond)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected Run to return promptly after context cancellation")
	}
}

func TestConsoleReporterReportAfterCancel(t *testing.T) {
	reg := metrics.NewRegistry(fixedClock{now: time.Unix(0, 0)}, nil)
	var buf bytes.Buffer
	rep := NewConsoleReporter(&buf, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := rep.Report(ctx, reg); err != ErrReporterStopped {
		t.Fatalf("expected ErrReporterStopped, got %v", err)
	}
}
