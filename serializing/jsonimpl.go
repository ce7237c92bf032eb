package serializing

import (
	"encoding/json"

	"github.com/vkolb/ccmetrics/metrics"
)

// NewJSONSerializer creates a Serializer using JSON encoding.
func NewJSONSerializer() Serializer {
	return jsonSerializer{}
}

type jsonSerializer struct{}

func (jsonSerializer) EncodeSnapshot(kind metrics.Kind, name string, s any) ([]byte, error) {
	env, err := newEnvelope(kind, name, s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

func (jsonSerializer) DecodeSnapshot(b []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(b, &env)
	return env, err
}
