package httpserver

import (
	"log/slog"
	"net/http"
	"time"
)

// Health is the body of /healthz.
type Health struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Authenticated bool   `json:"authenticated"`
	Time          string `json:"time"`
}

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Metrics serves /metrics.
	Metrics http.Handler

	// Version is reported by /healthz.
	Version string

	// Authenticated reports whether a session is stored. Optional.
	Authenticated func() bool

	// AllowList restricts clients by IP or CIDR. Empty allows everyone.
	AllowList []string

	Logger *slog.Logger
}

// NewRouter creates the handler with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		h := Health{
			Status:  "ok",
			Version: cfg.Version,
			Time:    time.Now().UTC().Format(time.RFC3339),
		}
		if cfg.Authenticated != nil {
			h.Authenticated = cfg.Authenticated()
		}
		writeJSON(w, http.StatusOK, h)
	})

	return Chain(mux,
		Recover(logger),
		RequestID(),
		AccessLog(logger),
		NetworkACL(cfg.AllowList, logger),
	)
}
