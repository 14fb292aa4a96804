package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// mockServer records requests and answers with handler.
type mockServer struct {
	*httptest.Server
	hits     atomic.Int32
	mu       sync.Mutex
	requests []*http.Request
}

func newMockServer(t *testing.T, handler http.HandlerFunc) *mockServer {
	t.Helper()
	m := &mockServer{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.hits.Add(1)
		m.mu.Lock()
		m.requests = append(m.requests, r.Clone(r.Context()))
		m.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

func (m *mockServer) lastRequest(t *testing.T) *http.Request {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		t.Fatal("no request received")
	}
	return m.requests[len(m.requests)-1]
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// staticTokens is a TokenSource with a fixed token.
type staticTokens string

func (s staticTokens) Get() (string, bool) {
	return string(s), s != ""
}

// outcomeLog collects outcomes seen by an observer.
type outcomeLog struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (l *outcomeLog) observer() Observer {
	return ObserverFunc(func(_ context.Context, o *Outcome) {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.outcomes = append(l.outcomes, *o)
	})
}

func (l *outcomeLog) all() []Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Outcome(nil), l.outcomes...)
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeRecorder) ObserveRequest(service, method, class string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, service+" "+method+" "+class)
}

func newTestClient(t *testing.T, baseURL string, cfg FactoryConfig, opts ...FactoryOption) *Client {
	t.Helper()
	c, err := NewFactory(cfg, opts...).New(ServiceUser, baseURL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}
