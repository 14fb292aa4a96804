package apiclient

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/yndnr/hireflow-go/internal/telemetry/logger"
	"github.com/yndnr/hireflow-go/internal/telemetry/tracer"
)

// DefaultTimeout applies when the configured timeout is unset or not a
// positive number of milliseconds.
const DefaultTimeout = 10 * time.Second

// TokenSource yields the current bearer token.
type TokenSource interface {
	Get() (string, bool)
}

// Recorder receives per-request metrics.
type Recorder interface {
	ObserveRequest(service, method, class string, d time.Duration)
}

// FactoryConfig holds settings shared by every client.
type FactoryConfig struct {
	// Timeout is the request timeout in milliseconds, as configured.
	Timeout string

	// RateLimit is requests per second per client; 0 disables limiting.
	RateLimit float64
	Burst     int

	// TLS overrides the transport TLS configuration (custom CA roots).
	TLS *tls.Config

	// UserAgent is sent on every request.
	UserAgent string
}

// Factory creates service clients sharing configuration and dependencies.
type Factory struct {
	cfg       FactoryConfig
	timeout   time.Duration
	tokens    TokenSource
	observers []Observer
	log       logger.Logger
	recorder  Recorder
	tracer    *tracer.Provider
	transport http.RoundTripper
	validate  *validator.Validate
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithTokenSource sets where the bearer interceptor reads the token from.
func WithTokenSource(ts TokenSource) FactoryOption {
	return func(f *Factory) { f.tokens = ts }
}

// WithObserver appends an observer to every client.
func WithObserver(obs Observer) FactoryOption {
	return func(f *Factory) { f.observers = append(f.observers, obs) }
}

// WithLogger sets the logger used by the log interceptor.
func WithLogger(l logger.Logger) FactoryOption {
	return func(f *Factory) { f.log = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) FactoryOption {
	return func(f *Factory) { f.recorder = r }
}

// WithTracer sets the tracing provider.
func WithTracer(p *tracer.Provider) FactoryOption {
	return func(f *Factory) { f.tracer = p }
}

// WithTransport overrides the HTTP transport.
func WithTransport(rt http.RoundTripper) FactoryOption {
	return func(f *Factory) { f.transport = rt }
}

// NewFactory creates a Factory.
func NewFactory(cfg FactoryConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		cfg:      cfg,
		timeout:  ParseTimeout(cfg.Timeout),
		log:      logger.Default(),
		tracer:   tracer.Noop(),
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.transport == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.TLS != nil {
			t.TLSClientConfig = cfg.TLS
		}
		f.transport = t
	}
	if f.cfg.UserAgent == "" {
		f.cfg.UserAgent = "hireflow-cli"
	}
	return f
}

// Timeout returns the resolved request timeout.
func (f *Factory) Timeout() time.Duration {
	return f.timeout
}

// New creates the client for one service.
func (f *Factory) New(service Service, baseURL string) (*Client, error) {
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%s service: %w", service, err)
	}

	c := &Client{
		service:  service,
		baseURL:  base,
		timeout:  f.timeout,
		validate: f.validate,
		log:      f.log.With("service", string(service)),
		http: &http.Client{
			Timeout:   f.timeout,
			Transport: f.transport,
		},
		observers: append([]Observer(nil), f.observers...),
	}

	c.request = []RequestInterceptor{
		jsonHeaders(),
		userAgent(f.cfg.UserAgent),
		requestID(),
		traceRequest(f.tracer, service),
		bearer(f.tokens),
	}
	if f.cfg.RateLimit > 0 {
		burst := f.cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.request = append(c.request, rateLimit(rate.NewLimiter(rate.Limit(f.cfg.RateLimit), burst)))
	}

	c.response = []ResponseInterceptor{
		classify(),
		traceResponse(),
		metrics(f.recorder),
		logOutcome(c.log),
	}

	return c, nil
}

// ParseTimeout converts a millisecond string to a duration, falling back
// to DefaultTimeout when s is empty, not numeric, or not positive.
func ParseTimeout(s string) time.Duration {
	ms, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || ms <= 0 {
		return DefaultTimeout
	}
	return time.Duration(ms) * time.Millisecond
}

func normalizeBaseURL(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("base URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("base URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("base URL %q has no host", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// newValidator reports field errors by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}
