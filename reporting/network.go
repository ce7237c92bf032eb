package reporting

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"github.com/vkolb/ccmetrics/internal/logging"
	"github.com/vkolb/ccmetrics/metrics"
	"github.com/vkolb/ccmetrics/serializing"
)

// NewTCPReporter creates a NetworkReporter that dials endpoint over TCP on
// every Report call.
func NewTCPReporter(endpoint string, ser serializing.Serializer, logger *logging.Logger) *NetworkReporter {
	return newNetworkReporter(tcpConnector{}, endpoint, ser, logger)
}

// NewUnixReporter creates a NetworkReporter that dials endpoint over a Unix
// domain socket on every Report call.
func NewUnixReporter(endpoint string, ser serializing.Serializer, logger *logging.Logger) *NetworkReporter {
	return newNetworkReporter(unixConnector{}, endpoint, ser, logger)
}

// NetworkReporter pushes every metric reading as a length-prefixed,
// serialized frame over a freshly dialed connection. It dials once per
// Report call rather than holding a connection open across ticks, trading
// a little latency for never having to detect and recover from a half-open
// socket on the reporting goroutine.
type NetworkReporter struct {
	connector connector
	endpoint  string
	ser       serializing.Serializer
	logger    *logging.Logger
}

func newNetworkReporter(c connector, endpoint string, ser serializing.Serializer, logger *logging.Logger) *NetworkReporter {
	return &NetworkReporter{connector: c, endpoint: endpoint, ser: ser, logger: logger}
}

func (n *NetworkReporter) Report(ctx context.Context, reg *metrics.Registry) error {
	if ctx.Err() != nil {
		return ErrReporterStopped
	}
	conn, err := n.connector.Connect(n.endpoint)
	if err != nil {
		return fmt.Errorf("reporting: dial %s: %w", n.endpoint, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}

	for _, name := range reg.CounterNames() {
		if err := n.writeFrame(conn, metrics.KindCounter, name, reg.Counter(name).Value()); err != nil {
			return err
		}
	}
	for _, name := range reg.MeterNames() {
		if err := n.writeFrame(conn, metrics.KindMeter, name, serializing.MeterRatesFrom(reg.Meter(name))); err != nil {
			return err
		}
	}
	for _, name := range reg.TimerNames() {
		if err := n.writeFrame(conn, metrics.KindTimer, name, serializing.TimerStatsFrom(reg.Timer(name))); err != nil {
			return err
		}
	}
	return nil
}

func (n *NetworkReporter) writeFrame(conn net.Conn, kind metrics.Kind, name string, s any) error {
	b, err := n.ser.EncodeSnapshot(kind, name, s)
	if err != nil {
		return fmt.Errorf("reporting: encode %s: %w", name, err)
	}
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(b)))
	if _, err := conn.Write(header[:]); err != nil {
		return fmt.Errorf("reporting: write frame header for %s: %w", name, err)
	}
	if _, err := conn.Write(b); err != nil {
		return fmt.Errorf("reporting: write frame body for %s: %w", name, err)
	}
	return nil
}

func (n *NetworkReporter) Run(ctx context.Context, reg *metrics.Registry, interval time.Duration) {
	runLoop(ctx, reg, interval, n.logger, n.Report)
}

var _ Reporter = (*NetworkReporter)(nil)
