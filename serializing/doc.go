// Package serializing encodes a single named metric reading into bytes for
// a reporter to write to a collector. Three codecs are provided — JSON,
// gob, and a compact length-prefixed binary format — selectable by the
// reporter independent of which metric kind is being encoded.
package serializing
