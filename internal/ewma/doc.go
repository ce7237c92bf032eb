// Package ewma implements the exponentially-weighted moving average rate
// used by Meter's one/five/fifteen-minute rates: events accumulate in a
// striped adder between ticks, and every 5 seconds the accumulated count is
// folded into the running rate with the window's precomputed smoothing
// factor.
package ewma
