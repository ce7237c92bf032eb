// Package reporting periodically pushes a Registry's metrics somewhere: to
// the console for local debugging, or over a TCP or Unix-socket connection
// to a remote collector. A Reporter only ever reads a Registry through its
// enumeration methods; it never mutates metric state.
package reporting
