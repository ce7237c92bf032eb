// Command metricsd is a small demo daemon that wires a Registry, a
// Reporter and a reporting interval together and runs until interrupted.
// It exists to exercise the full stack end to end, not as a production
// service: a real caller embeds the metrics package directly rather than
// shelling out to a binary.
package main
