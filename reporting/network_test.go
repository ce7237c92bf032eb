package reporting

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/vkolb/ccmetrics/metrics"
	"github.com/vkolb/ccmetrics/serializing"
)

func TestNetworkReporterWritesFramedSnapshots(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	received := make(chan []serializing.Envelope, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		var envs []serializing.Envelope
		ser := serializing.NewJSONSerializer()
		for {
			var header [4]byte
			if _, err := io.ReadFull(conn, header[:]); err != nil {
				break
			}
			size := binary.BigEndian.Uint32(header[:])
			body := make([]byte, size)
			if _, err := io.ReadFull(conn, body); err != nil {
				break
			}
			env, err := ser.DecodeSnapshot(body)
			if err != nil {
				break
			}
			envs = append(envs, env)
		}
		received <- envs
	}()

	reg := metrics.NewRegistry(fixedClock{now: time.Unix(0, 0)}, nil)
	reg.Counter("requests").Update(7)

	rep := NewTCPReporter(ln.Addr().String(), serializing.NewJSONSerializer(), nil)
	if err := rep.Report(context.Background(), reg); err != nil {
		t.Fatalf("report: %v", err)
	}

	envs := <-received
	if len(envs) != 1 {
		t.Fatalf("expected 1 framed envelope, got %d", len(envs))
	}
	if envs[0].Name != "requests" || envs[0].CounterValue != 7 {
		t.Fatalf("unexpected envelope: %+v", envs[0])
	}
}

func TestNetworkReporterReportAfterCancel(t *testing.T) {
	reg := metrics.NewRegistry(fixedClock{now: time.Unix(0, 0)}, nil)
	rep := NewTCPReporter("127.0.0.1:0", serializing.NewJSONSerializer(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := rep.Report(ctx, reg); err != ErrReporterStopped {
		t.Fatalf("expected ErrReporterStopped, got %v", err)
	}
}
