package hooks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/yndnr/hireflow-go/internal/client/apiclient"
	"github.com/yndnr/hireflow-go/internal/client/notify"
	"github.com/yndnr/hireflow-go/internal/client/query"
	"github.com/yndnr/hireflow-go/internal/client/services/job"
	"github.com/yndnr/hireflow-go/internal/client/services/profile"
	"github.com/yndnr/hireflow-go/internal/client/services/user"
	"github.com/yndnr/hireflow-go/internal/client/session"
	"github.com/yndnr/hireflow-go/internal/client/tokenstore"
	"github.com/yndnr/hireflow-go/internal/storage"
)

// backend is a single mock server standing in for all three services.
type backend struct {
	*httptest.Server
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	hits   map[string]int
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{routes: map[string]http.HandlerFunc{}, hits: map[string]int{}}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		b.mu.Lock()
		h, ok := b.routes[route]
		b.hits[route]++
		b.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "no route " + route})
			return
		}
		h(w, r)
	}))
	t.Cleanup(b.Close)
	return b
}

func (b *backend) handle(route string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[route] = h
}

func (b *backend) count(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[route]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// env is the full client stack against a backend.
type env struct {
	backend   *backend
	store     *tokenstore.Store
	cache     *query.Cache
	notes     *notify.Recorder
	redirects *atomic.Int32
	auth      *Auth
	profile   *Profile
	jobs      *Jobs
}

func newEnv(t *testing.T, cfg apiclient.FactoryConfig) *env {
	t.Helper()

	b := newBackend(t)
	store, err := tokenstore.Open(storage.NewMemoryKV())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	redirects := &atomic.Int32{}
	notes := &notify.Recorder{}
	cache := query.New()
	guard := session.NewGuard(store, session.NavigatorFunc(func() { redirects.Add(1) }),
		session.WithCache(cache),
	)

	factory := apiclient.NewFactory(cfg,
		apiclient.WithTokenSource(store),
		apiclient.WithObserver(guard),
	)
	clients, err := apiclient.NewClients(factory, apiclient.URLs{
		User:    b.URL + "/user",
		Profile: b.URL + "/profile",
		Job:     b.URL + "/job",
	})
	if err != nil {
		t.Fatalf("NewClients() error = %v", err)
	}

	return &env{
		backend:   b,
		store:     store,
		cache:     cache,
		notes:     notes,
		redirects: redirects,
		auth:      NewAuth(user.New(clients.User, store, cache, nil), store, cache, notes),
		profile:   NewProfile(profile.New(clients.Profile), cache, notes),
		jobs:      NewJobs(job.New(clients.Job), cache, notes),
	}
}
