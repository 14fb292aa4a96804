// Package httpserver provides the local HTTP server the interactive shell
// exposes for observability.
//
// Endpoints:
//
//   - /metrics: Prometheus metrics of the client layer
//   - /healthz: liveness and session state as JSON
//
// Requests pass through Recover, RequestID, AccessLog and an optional
// NetworkACL.
package httpserver
