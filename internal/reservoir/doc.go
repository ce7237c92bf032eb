// Package reservoir implements a forward-decay exponentially weighted
// reservoir sample (the Cormode/Forman-style "priority sampling" scheme):
// every observed value is assigned a priority that grows with the weight
// given to recent events and decays with age, the S highest-priority
// samples are kept in an ordered map keyed by priority, and the whole
// generation is rescaled and swapped out once an hour so that priorities
// never drift towards floating-point overflow.
package reservoir
