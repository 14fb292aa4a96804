// Package tracer provides OpenTelemetry tracing for HireFlow clients.
//
// Every backend call gets a client span, and the span context is injected
// into outgoing requests as W3C traceparent headers. Without an installed
// SDK the global provider is a no-op, so tracing costs nothing until a
// provider is configured.
package tracer
