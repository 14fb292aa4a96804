package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/yndnr/hireflow-go/internal/client/apiclient"
	"github.com/yndnr/hireflow-go/internal/client/hooks"
	"github.com/yndnr/hireflow-go/internal/client/notify"
	"github.com/yndnr/hireflow-go/internal/client/query"
	"github.com/yndnr/hireflow-go/internal/client/services/job"
	"github.com/yndnr/hireflow-go/internal/client/services/profile"
	"github.com/yndnr/hireflow-go/internal/client/services/user"
	"github.com/yndnr/hireflow-go/internal/client/session"
	"github.com/yndnr/hireflow-go/internal/client/tokenstore"
	"github.com/yndnr/hireflow-go/internal/config"
	"github.com/yndnr/hireflow-go/internal/infra/buildinfo"
	"github.com/yndnr/hireflow-go/internal/infra/tlsroots"
	"github.com/yndnr/hireflow-go/internal/storage"
	"github.com/yndnr/hireflow-go/internal/telemetry/logger"
	"github.com/yndnr/hireflow-go/internal/telemetry/metric"
	"github.com/yndnr/hireflow-go/internal/telemetry/tracer"
)

// Options configures New.
type Options struct {
	Config *config.Config

	// Logger overrides the logger built from Config.Log.
	Logger logger.Logger

	// Navigator is called after the session is purged. Optional.
	Navigator session.Navigator

	// Notifier receives success and session messages. Optional.
	Notifier notify.Notifier

	// Transport overrides the HTTP transport. Used in tests.
	Transport http.RoundTripper
}

// App is the wired client layer.
type App struct {
	Config  *config.Config
	Logger  logger.Logger
	Store   *tokenstore.Store
	Metrics *metric.Registry
	Tracer  *tracer.Provider
	Cache   *query.Cache
	Clients *apiclient.Clients

	Users    *user.Service
	Profiles *profile.Service
	Jobs     *job.Service

	AuthHook    *hooks.Auth
	ProfileHook *hooks.Profile
	JobsHook    *hooks.Jobs
}

// New builds the client layer from opts.Config.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}

	log := opts.Logger
	if log == nil {
		var err error
		log, err = logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
		if err != nil {
			return nil, fmt.Errorf("app: logger: %w", err)
		}
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Discard
	}

	a := &App{
		Config:  cfg,
		Logger:  log,
		Metrics: metric.NewRegistry(),
		Tracer:  tracer.New(buildinfo.Product),
	}

	kv, err := openKV(cfg.Session, log, a.Metrics)
	if err != nil {
		return nil, err
	}

	storeOpts := []tokenstore.Option{tokenstore.WithLogger(log.Slog().With("component", "tokenstore"))}
	if cfg.Session.Secret != "" {
		storeOpts = append(storeOpts, tokenstore.WithSecret(cfg.Session.Secret))
	}
	a.Store, err = tokenstore.Open(kv, storeOpts...)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("app: %w", err)
	}
	a.Metrics.Registerer().MustRegister(metric.NewCollector(a.Store.IsAuthenticated))

	a.Cache = query.New(
		query.WithStaleTime(cfg.Cache.Stale),
		query.WithRecorder(a.Metrics),
		query.WithLogger(log.Slog().With("component", "query")),
	)

	guard := session.NewGuard(a.Store, opts.Navigator,
		session.WithCache(a.Cache),
		session.WithNotifier(notifier),
		session.WithRecorder(a.Metrics),
		session.WithLogger(log.Slog().With("component", "session")),
	)

	tlsCfg, err := tlsroots.ClientConfig(cfg.HTTP.CAFile)
	if err != nil {
		a.Store.Close()
		return nil, fmt.Errorf("app: %w", err)
	}

	factoryOpts := []apiclient.FactoryOption{
		apiclient.WithTokenSource(a.Store),
		apiclient.WithObserver(guard),
		apiclient.WithLogger(log),
		apiclient.WithRecorder(a.Metrics),
		apiclient.WithTracer(a.Tracer),
	}
	if opts.Transport != nil {
		factoryOpts = append(factoryOpts, apiclient.WithTransport(opts.Transport))
	}
	factory := apiclient.NewFactory(apiclient.FactoryConfig{
		Timeout:   cfg.HTTP.Timeout,
		RateLimit: cfg.HTTP.RateLimit,
		Burst:     cfg.HTTP.Burst,
		TLS:       tlsCfg,
		UserAgent: buildinfo.UserAgent(),
	}, factoryOpts...)

	a.Clients, err = apiclient.NewClients(factory, apiclient.URLs{
		User:    cfg.Services.User,
		Profile: cfg.Services.Profile,
		Job:     cfg.Services.Job,
	})
	if err != nil {
		a.Store.Close()
		return nil, fmt.Errorf("app: %w", err)
	}

	a.Users = user.New(a.Clients.User, a.Store, a.Cache, log.Slog().With("component", "user"))
	a.Profiles = profile.New(a.Clients.Profile)
	a.Jobs = job.New(a.Clients.Job)

	a.AuthHook = hooks.NewAuth(a.Users, a.Store, a.Cache, notifier)
	a.ProfileHook = hooks.NewProfile(a.Profiles, a.Cache, notifier)
	a.JobsHook = hooks.NewJobs(a.Jobs, a.Cache, notifier)

	log.Debug("client layer ready",
		"user_url", a.Clients.User.BaseURL(),
		"profile_url", a.Clients.Profile.BaseURL(),
		"job_url", a.Clients.Job.BaseURL(),
		"timeout", factory.Timeout())

	return a, nil
}

// Close releases the session medium and flushes the tracer.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return errors.Join(
		a.Store.Close(),
		a.Tracer.Shutdown(ctx),
	)
}

func openKV(cfg config.SessionSection, log logger.Logger, metrics *metric.Registry) (storage.KV, error) {
	if cfg.Memory {
		return storage.NewMemoryKV(), nil
	}

	kv, err := storage.NewBadgerKV(storage.DefaultKVConfig(cfg.Dir), log.Slog().With("component", "badger"))
	if err != nil {
		return nil, fmt.Errorf("app: open session store: %w", err)
	}
	return kv.RegisterMetrics(metrics.Registerer()), nil
}
