package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yndnr/hireflow-go/internal/client/apierror"
	"github.com/yndnr/hireflow-go/internal/telemetry/logger"
)

// Service names a backend service.
type Service string

const (
	ServiceUser    Service = "user"
	ServiceProfile Service = "profile"
	ServiceJob     Service = "job"
)

// Class is the outcome classification set by the classify interceptor.
type Class int

const (
	ClassOK Class = iota + 1
	ClassHTTP
	ClassAuth
	ClassTransport
)

func (c Class) String() string {
	switch c {
	case ClassOK:
		return "ok"
	case ClassHTTP:
		return "http"
	case ClassAuth:
		return "auth"
	case ClassTransport:
		return "transport"
	default:
		return "unclassified"
	}
}

// Outcome is the result of one call as seen by response interceptors
// and observers.
type Outcome struct {
	Service  Service
	Request  *http.Request
	Status   int // 0 when no response was received
	Header   http.Header
	Body     []byte
	Err      error // transport or request pipeline failure
	Duration time.Duration
	Class    Class
}

// RequestInterceptor is a named step of the request pipeline.
// Fn may return a new request, for example one with a derived context.
type RequestInterceptor struct {
	Name string
	Fn   func(*http.Request) (*http.Request, error)
}

// ResponseInterceptor is a named step of the response pipeline.
type ResponseInterceptor struct {
	Name string
	Fn   func(*Outcome)
}

// Observer acts on a completed call. It cannot change the outcome.
type Observer interface {
	Observe(ctx context.Context, o *Outcome)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, o *Outcome)

// Observe implements Observer.
func (f ObserverFunc) Observe(ctx context.Context, o *Outcome) { f(ctx, o) }

// Client talks to one backend service. It is immutable after
// construction and safe for concurrent use.
type Client struct {
	service   Service
	baseURL   string
	timeout   time.Duration
	http      *http.Client
	validate  *validator.Validate
	log       logger.Logger
	request   []RequestInterceptor
	response  []ResponseInterceptor
	observers []Observer
}

// Service returns the backend service name.
func (c *Client) Service() Service { return c.service }

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

// RequestInterceptors returns the names of the request pipeline, in order.
func (c *Client) RequestInterceptors() []string {
	names := make([]string, len(c.request))
	for i, ic := range c.request {
		names[i] = ic.Name
	}
	return names
}

// ResponseInterceptors returns the names of the response pipeline, in order.
func (c *Client) ResponseInterceptors() []string {
	names := make([]string, len(c.response))
	for i, ic := range c.response {
		names[i] = ic.Name
	}
	return names
}

// Do sends one request and returns the raw 2xx body.
//
// body, when non-nil, is validated (struct tags) and JSON-encoded. Any
// failure is returned as *apierror.Error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	payload, err := c.encode(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path, query), bytesReader(payload))
	if err != nil {
		return nil, apierror.FromTransport(fmt.Errorf("create request: %w", err))
	}

	out := &Outcome{Service: c.service}
	start := time.Now()

	req, err = c.runRequestPipeline(req)
	out.Request = req
	if err != nil {
		out.Err = err
	} else {
		c.send(req, out)
	}
	out.Duration = time.Since(start)

	for _, ic := range c.response {
		ic.Fn(out)
	}
	for _, obs := range c.observers {
		obs.Observe(req.Context(), out)
	}

	switch out.Class {
	case ClassOK:
		return out.Body, nil
	case ClassTransport:
		return nil, apierror.FromTransport(out.Err)
	default:
		return nil, apierror.FromResponse(out.Status, out.Body)
	}
}

func (c *Client) runRequestPipeline(req *http.Request) (*http.Request, error) {
	for _, ic := range c.request {
		next, err := ic.Fn(req)
		if err != nil {
			return req, fmt.Errorf("%s: %w", ic.Name, err)
		}
		if next != nil {
			req = next
		}
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out *Outcome) {
	resp, err := c.http.Do(req)
	if err != nil {
		out.Err = err
		return
	}
	defer resp.Body.Close()

	out.Status = resp.StatusCode
	out.Header = resp.Header
	out.Body, err = io.ReadAll(resp.Body)
	if err != nil {
		out.Err = fmt.Errorf("read body: %w", err)
	}
}

// encode validates and marshals a request body.
func (c *Client) encode(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}

	if isStruct(body) {
		if err := c.validate.Struct(body); err != nil {
			return nil, apierror.FromValidation(err)
		}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, apierror.FromValidation(fmt.Errorf("encode request: %w", err))
	}
	return data, nil
}

func (c *Client) resolve(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func isStruct(v any) bool {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func bytesReader(b []byte) io.Reader {
	if b == nil {
		return http.NoBody
	}
	return bytes.NewReader(b)
}
