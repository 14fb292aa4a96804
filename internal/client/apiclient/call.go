package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// CallOption adjusts a single call.
type CallOption func(*callOptions)

type callOptions struct {
	query url.Values
}

// WithQuery adds query parameters. Empty values are dropped.
func WithQuery(q url.Values) CallOption {
	return func(o *callOptions) {
		if o.query == nil {
			o.query = url.Values{}
		}
		for k, vs := range q {
			for _, v := range vs {
				if v != "" {
					o.query.Add(k, v)
				}
			}
		}
	}
}

// Get performs a GET and decodes the response into T.
func Get[T any](ctx context.Context, c *Client, path string, opts ...CallOption) (T, error) {
	return call[T](ctx, c, http.MethodGet, path, nil, opts)
}

// Post performs a POST with a JSON body and decodes the response into T.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...CallOption) (T, error) {
	return call[T](ctx, c, http.MethodPost, path, body, opts)
}

// Put performs a PUT with a JSON body and decodes the response into T.
func Put[T any](ctx context.Context, c *Client, path string, body any, opts ...CallOption) (T, error) {
	return call[T](ctx, c, http.MethodPut, path, body, opts)
}

// Patch performs a PATCH with a JSON body and decodes the response into T.
func Patch[T any](ctx context.Context, c *Client, path string, body any, opts ...CallOption) (T, error) {
	return call[T](ctx, c, http.MethodPatch, path, body, opts)
}

// Delete performs a DELETE and decodes the response into T.
func Delete[T any](ctx context.Context, c *Client, path string, opts ...CallOption) (T, error) {
	return call[T](ctx, c, http.MethodDelete, path, nil, opts)
}

func call[T any](ctx context.Context, c *Client, method, path string, body any, opts []CallOption) (T, error) {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}

	raw, err := c.Do(ctx, method, path, o.query, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](raw), nil
}

// decode turns a 2xx body into T. An empty body yields the zero value.
// A body that is not valid JSON is passed through as text when T is
// string or any, and yields the zero value otherwise.
func decode[T any](raw []byte) T {
	var out T
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err == nil {
		return out
	}

	var zero T
	switch p := any(&zero).(type) {
	case *string:
		*p = string(raw)
	case *any:
		*p = string(raw)
	}
	return zero
}
