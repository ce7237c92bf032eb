// Package testsuite provides standardized conformance and stress tests for
// the concurrent primitives this module is built on, parameterized over a
// factory function the way lib/db/testing parameterizes its KVDB
// conformance suite over a DBFactory. RunAdderConformance and
// RunOrderedMapConformance run the same assertions against any
// implementation satisfying their respective interfaces, so the production
// lock-free skip list can be cross-checked against a trivial mutex-guarded
// reference map.
package testsuite
