package command

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// mockServer is a backend serving all three services under /api/v1.
type mockServer struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	hits     map[string]int
}

// newMockServer creates a mock backend closed with the test.
func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	m := &mockServer{
		handlers: make(map[string]http.HandlerFunc),
		hits:     make(map[string]int),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		m.mu.Lock()
		handler, ok := m.handlers[route]
		m.hits[route]++
		m.mu.Unlock()
		if !ok {
			errorResponse(w, http.StatusNotFound, "no route "+route)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

// handle registers a handler for "METHOD /path" relative to /api/v1.
func (m *mockServer) handle(route string, handler http.HandlerFunc) {
	method, path, _ := strings.Cut(route, " ")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[method+" /api/v1"+path] = handler
}

func (m *mockServer) count(route string) int {
	method, path, _ := strings.Cut(route, " ")
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits[method+" /api/v1"+path]
}

func (m *mockServer) baseURL() string {
	return m.URL + "/api/v1"
}

// jsonResponse writes a JSON response.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// errorResponse writes an error body the way the backend does.
func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"message": message})
}

// cliRunner runs hireflow-cli commands against a mock backend.
type cliRunner struct {
	t          *testing.T
	server     *mockServer
	sessionDir string
	stdin      string
}

// newRunner isolates HOME and uses a persistent session directory, so
// successive runs share the session like separate processes would.
func newRunner(t *testing.T, server *mockServer) *cliRunner {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return &cliRunner{t: t, server: server, sessionDir: t.TempDir()}
}

type result struct {
	stdout string
	stderr string
	err    error
}

func (r *cliRunner) run(args ...string) result {
	r.t.Helper()

	app := App()
	var stdout, stderr bytes.Buffer
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.Reader = strings.NewReader(r.stdin)

	base := r.server.baseURL()
	full := []string{app.Name,
		"--user-url", base,
		"--profile-url", base,
		"--job-url", base,
		"--session-dir", r.sessionDir,
	}
	full = append(full, args...)

	err := app.RunContext(context.Background(), full)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// signIn registers a login route and signs in as Ada.
func (r *cliRunner) signIn() {
	r.t.Helper()
	r.server.handle("POST /auth/login", func(w http.ResponseWriter, req *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{
			"token": "tok-ada",
			"user":  map[string]any{"id": 7, "name": "Ada", "email": "ada@example.com"},
		})
	})
	res := r.run("auth", "login", "--email", "ada@example.com", "--password", "correct-horse")
	if res.err != nil {
		r.t.Fatalf("login failed: %v\nstderr: %s", res.err, res.stderr)
	}
}

// requireToken wraps a handler, answering 401 unless the bearer token matches.
func requireToken(token string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			errorResponse(w, http.StatusUnauthorized, "Token expired")
			return
		}
		next(w, r)
	}
}
