package apiclient

import (
	"net/http"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/yndnr/hireflow-go/internal/telemetry/logger"
	"github.com/yndnr/hireflow-go/internal/telemetry/tracer"
)

// Header names.
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderAuthorization = "Authorization"
)

func jsonHeaders() RequestInterceptor {
	return RequestInterceptor{Name: "json-headers", Fn: func(req *http.Request) (*http.Request, error) {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		return req, nil
	}}
}

func userAgent(ua string) RequestInterceptor {
	return RequestInterceptor{Name: "user-agent", Fn: func(req *http.Request) (*http.Request, error) {
		req.Header.Set("User-Agent", ua)
		return req, nil
	}}
}

// requestID tags the request with a ULID, keeping one the caller set.
func requestID() RequestInterceptor {
	return RequestInterceptor{Name: "request-id", Fn: func(req *http.Request) (*http.Request, error) {
		id := logger.RequestIDFromContext(req.Context())
		if id == "" {
			id = ulid.Make().String()
		}
		req.Header.Set(HeaderRequestID, id)
		return req.WithContext(logger.WithRequestID(req.Context(), id)), nil
	}}
}

func traceRequest(p *tracer.Provider, service Service) RequestInterceptor {
	return RequestInterceptor{Name: "trace", Fn: func(req *http.Request) (*http.Request, error) {
		ctx, _ := p.StartSpan(req.Context(), req.Method+" "+req.URL.Path,
			attribute.String("hireflow.service", string(service)),
			attribute.String("http.request.method", req.Method),
			attribute.String("url.full", req.URL.String()),
		)
		if id := tracer.TraceID(ctx); id != "" {
			ctx = logger.WithTraceID(ctx, id)
		}
		p.Inject(ctx, req.Header)
		return req.WithContext(ctx), nil
	}}
}

// bearer attaches the stored token. A missing token is not an error.
func bearer(ts TokenSource) RequestInterceptor {
	return RequestInterceptor{Name: "bearer", Fn: func(req *http.Request) (*http.Request, error) {
		if ts == nil {
			return req, nil
		}
		if token, ok := ts.Get(); ok && token != "" {
			req.Header.Set(HeaderAuthorization, "Bearer "+token)
		}
		return req, nil
	}}
}

func rateLimit(l *rate.Limiter) RequestInterceptor {
	return RequestInterceptor{Name: "rate-limit", Fn: func(req *http.Request) (*http.Request, error) {
		return req, l.Wait(req.Context())
	}}
}

// classify sets Outcome.Class. Only 401 counts as an authentication failure.
func classify() ResponseInterceptor {
	return ResponseInterceptor{Name: "classify", Fn: func(o *Outcome) {
		switch {
		case o.Err != nil:
			o.Class = ClassTransport
		case o.Status == http.StatusUnauthorized:
			o.Class = ClassAuth
		case o.Status >= 200 && o.Status < 300:
			o.Class = ClassOK
		default:
			o.Class = ClassHTTP
		}
	}}
}

func traceResponse() ResponseInterceptor {
	return ResponseInterceptor{Name: "trace", Fn: func(o *Outcome) {
		if o.Request == nil {
			return
		}
		var err error
		if o.Class == ClassTransport {
			err = o.Err
		}
		tracer.EndSpan(trace.SpanFromContext(o.Request.Context()), o.Status, err)
	}}
}

func metrics(r Recorder) ResponseInterceptor {
	return ResponseInterceptor{Name: "metrics", Fn: func(o *Outcome) {
		if r == nil || o.Request == nil {
			return
		}
		r.ObserveRequest(string(o.Service), o.Request.Method, o.Class.String(), o.Duration)
	}}
}

func logOutcome(l logger.Logger) ResponseInterceptor {
	return ResponseInterceptor{Name: "log", Fn: func(o *Outcome) {
		if o.Request == nil {
			return
		}
		log := logger.ForRequest(o.Request.Context(), l)
		args := []any{
			"method", o.Request.Method,
			"path", o.Request.URL.Path,
			"status", o.Status,
			"class", o.Class.String(),
			"duration_ms", o.Duration.Milliseconds(),
		}

		switch o.Class {
		case ClassOK:
			log.Debug("request completed", args...)
		case ClassTransport:
			log.Warn("request failed", append(args, "error", o.Err)...)
		default:
			log.Info("request rejected", args...)
		}
	}}
}
