package tracer

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/yndnr/hireflow-go"

// Provider wraps an OpenTelemetry tracer and propagator.
type Provider struct {
	serviceName string
	tp          trace.TracerProvider
	tracer      trace.Tracer
	propagator  propagation.TextMapPropagator
}

// Option configures a Provider.
type Option func(*Provider)

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(p *Provider) { p.tp = tp }
}

// WithPropagator overrides the W3C trace context propagator.
func WithPropagator(prop propagation.TextMapPropagator) Option {
	return func(p *Provider) { p.propagator = prop }
}

// New creates a provider. serviceName is recorded on every span.
func New(serviceName string, opts ...Option) *Provider {
	p := &Provider{
		serviceName: serviceName,
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.tp == nil {
		p.tp = otel.GetTracerProvider()
	}
	p.tracer = p.tp.Tracer(instrumentationName)
	return p
}

// Noop returns a provider that records nothing.
func Noop() *Provider {
	return New("", WithTracerProvider(noop.NewTracerProvider()))
}

// StartSpan starts a client span for an outgoing request.
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if p.serviceName != "" {
		attrs = append(attrs, attribute.String("service.name", p.serviceName))
	}
	return p.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

// Inject writes the span context of ctx into h.
func (p *Provider) Inject(ctx context.Context, h http.Header) {
	p.propagator.Inject(ctx, propagation.HeaderCarrier(h))
}

// TraceID returns the hex trace ID of ctx, or "" when there is none.
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// EndSpan records the status and ends span.
func EndSpan(span trace.Span, status int, err error) {
	if status > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case status >= 400:
		span.SetStatus(codes.Error, http.StatusText(status))
	}
	span.End()
}

// Shutdown flushes the provider when it supports it.
func (p *Provider) Shutdown(ctx context.Context) error {
	if s, ok := p.tp.(interface{ Shutdown(context.Context) error }); ok {
		return s.Shutdown(ctx)
	}
	return nil
}
