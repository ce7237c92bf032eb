package serializing

import "github.com/vkolb/ccmetrics/metrics"

// Serializer is the interface for all metric snapshot encoders.
type Serializer interface {
	// EncodeSnapshot encodes a single named metric reading. s must match
	// kind: int64 for KindCounter, MeterRates for KindMeter, TimerStats
	// for KindTimer.
	EncodeSnapshot(kind metrics.Kind, name string, s any) ([]byte, error)
	// DecodeSnapshot decodes bytes produced by EncodeSnapshot.
	DecodeSnapshot(b []byte) (Envelope, error)
}
