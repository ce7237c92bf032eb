// Package logging provides a small leveled logger over the standard log
// package, used by components that need to report recoverable failures
// (a reporter write error, a reservoir rescale) without panicking and
// without pulling in a third-party logging library the rest of this module
// has no other use for.
package logging
