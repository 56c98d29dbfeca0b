// Package otel publishes goCred engine metrics through an OpenTelemetry
// Meter.
//
// [NewOTelExporter] registers one Int64ObservableCounter per engine counter
// and, for the hash latency histogram, one Int64ObservableGauge per
// cumulative bucket plus a count gauge. A single callback reads
// [goCred.Engine.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the MeterProvider; callers supply the Meter.
//   - Mutate engine state.
package otel
