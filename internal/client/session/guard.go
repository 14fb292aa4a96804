package session

import (
	"context"
	"log/slog"

	"github.com/yndnr/hireflow-go/internal/client/apiclient"
	"github.com/yndnr/hireflow-go/internal/client/notify"
)

// Purger clears the stored session.
type Purger interface {
	Remove() error
}

// Clearer drops data cached for the signed-in user.
type Clearer interface {
	Clear()
}

// Navigator sends the user to the application entry point.
type Navigator interface {
	RedirectToEntry()
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func()

// RedirectToEntry implements Navigator.
func (f NavigatorFunc) RedirectToEntry() { f() }

// Recorder counts purges.
type Recorder interface {
	SessionPurged()
}

// ExpiredMessage is the notification sent when a session is purged.
const ExpiredMessage = "Your session has expired. Please sign in again."

// Guard purges the session on authentication failures.
type Guard struct {
	store    Purger
	cache    Clearer
	nav      Navigator
	notifier notify.Notifier
	recorder Recorder
	logger   *slog.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithNotifier announces the purge.
func WithNotifier(n notify.Notifier) Option {
	return func(g *Guard) { g.notifier = n }
}

// WithCache clears cache along with the stored session.
func WithCache(cache Clearer) Option {
	return func(g *Guard) { g.cache = cache }
}

// WithRecorder counts purges.
func WithRecorder(r Recorder) Option {
	return func(g *Guard) { g.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) { g.logger = l }
}

// NewGuard creates a Guard. nav may be nil.
func NewGuard(store Purger, nav Navigator, opts ...Option) *Guard {
	g := &Guard{
		store:  store,
		nav:    nav,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Observe implements apiclient.Observer. It acts on every 401, even when
// the store is already empty.
func (g *Guard) Observe(ctx context.Context, o *apiclient.Outcome) {
	if o.Class != apiclient.ClassAuth {
		return
	}

	if err := g.store.Remove(); err != nil {
		g.logger.Warn("session purge failed", "service", string(o.Service), "error", err)
	} else {
		g.logger.Info("session purged after authentication failure", "service", string(o.Service))
	}
	if g.cache != nil {
		g.cache.Clear()
	}

	if g.recorder != nil {
		g.recorder.SessionPurged()
	}
	if g.notifier != nil {
		g.notifier.Notify(notify.Info, ExpiredMessage)
	}
	if g.nav != nil {
		g.nav.RedirectToEntry()
	}
}
