package serializing

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/vkolb/ccmetrics/metrics"
)

// NewBinarySerializer creates a Serializer using a compact,
// length-prefixed binary format: a kind byte, a length-prefixed name,
// and a fixed-size payload whose shape is determined by kind.
func NewBinarySerializer() Serializer {
	return binarySerializer{}
}

type binarySerializer struct{}

const (
	counterPayloadSize = 8
	meterPayloadSize   = 8 * 3
	timerPayloadSize   = 8 + meterPayloadSize + 8*9 // count + rates + 9 distribution stats
)

func (binarySerializer) EncodeSnapshot(kind metrics.Kind, name string, s any) ([]byte, error) {
	env, err := newEnvelope(kind, name, s)
	if err != nil {
		return nil, err
	}

	nameBytes := []byte(env.Name)
	payloadSize, err := payloadSizeFor(kind)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 1+4+len(nameBytes)+payloadSize)
	pos := 0
	out[pos] = byte(kind)
	pos++
	binary.BigEndian.PutUint32(out[pos:pos+4], uint32(len(nameBytes)))
	pos += 4
	copy(out[pos:pos+len(nameBytes)], nameBytes)
	pos += len(nameBytes)

	switch kind {
	case metrics.KindCounter:
		binary.BigEndian.PutUint64(out[pos:pos+8], uint64(env.CounterValue))
	case metrics.KindMeter:
		putMeterRates(out[pos:pos+meterPayloadSize], env.Meter)
	case metrics.KindTimer:
		putTimerStats(out[pos:pos+timerPayloadSize], env.Timer)
	}

	return out, nil
}

func (binarySerializer) DecodeSnapshot(b []byte) (Envelope, error) {
	if len(b) < 5 {
		return Envelope{}, fmt.Errorf("serializing: binary snapshot too short for header")
	}
	kind := metrics.Kind(b[0])
	nameLen := int(binary.BigEndian.Uint32(b[1:5]))
	pos := 5
	if pos+nameLen > len(b) {
		return Envelope{}, fmt.Errorf("serializing: binary snapshot too short for name")
	}
	name := string(b[pos : pos+nameLen])
	pos += nameLen

	payloadSize, err := payloadSizeFor(kind)
	if err != nil {
		return Envelope{}, err
	}
	if pos+payloadSize > len(b) {
		return Envelope{}, fmt.Errorf("serializing: binary snapshot too short for payload")
	}
	payload := b[pos : pos+payloadSize]

	env := Envelope{Kind: kind, Name: name}
	switch kind {
	case metrics.KindCounter:
		env.CounterValue = int64(binary.BigEndian.Uint64(payload))
	case metrics.KindMeter:
		env.Meter = getMeterRates(payload)
	case metrics.KindTimer:
		env.Timer = getTimerStats(payload)
	}
	return env, nil
}

func payloadSizeFor(kind metrics.Kind) (int, error) {
	switch kind {
	case metrics.KindCounter:
		return counterPayloadSize, nil
	case metrics.KindMeter:
		return meterPayloadSize, nil
	case metrics.KindTimer:
		return timerPayloadSize, nil
	default:
		return 0, fmt.Errorf("serializing: unknown metric kind %v", kind)
	}
}

func putFloat64(b []byte, v float64) { binary.BigEndian.PutUint64(b, math.Float64bits(v)) }
func getFloat64(b []byte) float64    { return math.Float64frombits(binary.BigEndian.Uint64(b)) }

func putMeterRates(b []byte, r MeterRates) {
	putFloat64(b[0:8], r.OneMinute)
	putFloat64(b[8:16], r.FiveMinute)
	putFloat64(b[16:24], r.FifteenMinute)
}

func getMeterRates(b []byte) MeterRates {
	return MeterRates{
		OneMinute:     getFloat64(b[0:8]),
		FiveMinute:    getFloat64(b[8:16]),
		FifteenMinute: getFloat64(b[16:24]),
	}
}

func putTimerStats(b []byte, t TimerStats) {
	binary.BigEndian.PutUint64(b[0:8], uint64(t.Count))
	putMeterRates(b[8:8+meterPayloadSize], t.Rates)
	pos := 8 + meterPayloadSize
	binary.BigEndian.PutUint64(b[pos:pos+8], uint64(t.Min))
	binary.BigEndian.PutUint64(b[pos+8:pos+16], uint64(t.Max))
	putFloat64(b[pos+16:pos+24], t.Mean)
	putFloat64(b[pos+24:pos+32], t.Stdev)
	putFloat64(b[pos+32:pos+40], t.Median)
	putFloat64(b[pos+40:pos+48], t.P75)
	putFloat64(b[pos+48:pos+56], t.P95)
	putFloat64(b[pos+56:pos+64], t.P99)
	putFloat64(b[pos+64:pos+72], t.P999)
}

func getTimerStats(b []byte) TimerStats {
	t := TimerStats{Count: int64(binary.BigEndian.Uint64(b[0:8]))}
	t.Rates = getMeterRates(b[8 : 8+meterPayloadSize])
	pos := 8 + meterPayloadSize
	t.Min = int64(binary.BigEndian.Uint64(b[pos : pos+8]))
	t.Max = int64(binary.BigEndian.Uint64(b[pos+8 : pos+16]))
	t.Mean = getFloat64(b[pos+16 : pos+24])
	t.Stdev = getFloat64(b[pos+24 : pos+32])
	t.Median = getFloat64(b[pos+32 : pos+40])
	t.P75 = getFloat64(b[pos+40 : pos+48])
	t.P95 = getFloat64(b[pos+48 : pos+56])
	t.P99 = getFloat64(b[pos+56 : pos+64])
	t.P999 = getFloat64(b[pos+64 : pos+72])
	return t
}
