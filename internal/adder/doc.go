// Package adder implements a contention-adaptive 64-bit sum, in the style
// of Doug Lea's LongAdder: a single base counter absorbs uncontended
// updates, and a growing, cache-line-padded array of stripes absorbs
// concurrent ones so that writers hash to (mostly) disjoint cells instead of
// fighting over one cache line.
package adder
