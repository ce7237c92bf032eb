package serializing

import (
	"bytes"
	"encoding/gob"

	"github.com/vkolb/ccmetrics/metrics"
)

// NewGobSerializer creates a Serializer using Go's gob encoding.
func NewGobSerializer() Serializer {
	return gobSerializer{}
}

type gobSerializer struct{}

func (gobSerializer) EncodeSnapshot(kind metrics.Kind, name string, s any) ([]byte, error) {
	env, err := newEnvelope(kind, name, s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gobSerializer) DecodeSnapshot(b []byte) (Envelope, error) {
	var env Envelope
	err := gob.NewDecoder(bytes.NewReader(b)).Decode(&env)
	return env, err
}
