// Package metric provides Prometheus metrics for HireFlow clients.
//
//   - prometheus.go: registry, client metrics and HTTP handler
//   - collector.go: session state collector
//
// Metrics include request counts and latency per service, session purges
// after authentication failures, and query cache hit/miss/invalidation
// counts. They are exposed at /metrics when the interactive shell runs
// with --metrics-addr.
package metric
