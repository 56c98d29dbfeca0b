// Package prometheus publishes goCred engine metrics through
// github.com/prometheus/client_golang.
//
// [Collector] converts each engine snapshot into constant metrics: one
// gocred_*_total counter per engine counter and the
// gocred_hash_latency_seconds histogram when latency histograms are on.
// [PrometheusExporter] owns a private registry holding the collector and
// serves it with promhttp.
//
// # What this package must NOT do
//
//   - Register anything in the global Prometheus registry.
//   - Mutate engine state.
package prometheus
