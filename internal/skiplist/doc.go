// Package skiplist implements a lock-free ordered map using the
// find/insert/erase algorithm of Maged Michael's lock-free linked list,
// extended with index levels chosen by coin-flip (geometric, p=0.5) the way
// a skip list normally is.
//
// Deletion is logical-then-physical: Erase flips a dead flag carried
// alongside the level-0 forward pointer (the linearization point for
// removal) and then opportunistically unlinks the node from every level.
// Any concurrent Find that walks past a dead node finishes the physical
// unlink itself instead of waiting for the original eraser, so removal
// always completes in bounded time regardless of which goroutine notices
// the node first.
//
// Go's garbage collector cannot safely scan a pointer whose low bits have
// been repurposed to carry a flag, so the dead flag is not tagged into the
// pointer bits themselves (as a C implementation typically would); each
// forward pointer is instead an atomic pointer to a small immutable
// {next, dead} value, and marking swaps that value rather than a bit.
package skiplist
