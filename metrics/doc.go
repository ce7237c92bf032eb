// Package metrics is the public façade over this module's concurrent core:
// Counter, Meter and Timer wrap internal/adder, internal/ewma and
// internal/reservoir respectively, and Registry binds names to lazily
// created instances of each. Metrics are never removed from a Registry;
// their lifetime is the registry's.
package metrics
