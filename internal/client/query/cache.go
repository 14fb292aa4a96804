package query

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yndnr/hireflow-go/pkg/cmap"
)

// DefaultStaleTime is how long an entry is served without refetching.
const DefaultStaleTime = 30 * time.Second

// Recorder receives cache metrics.
type Recorder interface {
	CacheHit()
	CacheMiss()
	CacheInvalidated(n int)
}

type entry struct {
	key       Key
	value     any
	updatedAt time.Time
	stale     bool
}

// generation identifies a version of a key. A fetch stores its result only
// if the key's generation has not moved since the fetch started.
type generation struct {
	epoch uint64
	n     uint64
}

// Cache holds query results. Safe for concurrent use.
type Cache struct {
	entries *cmap.Map[*entry]
	group   singleflight.Group

	mu    sync.Mutex
	epoch uint64
	gens  map[string]uint64

	staleTime time.Duration
	now       func() time.Time
	recorder  Recorder
	logger    *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithStaleTime sets how long entries stay fresh. Zero means every read
// refetches unless another fetch of the same key is in flight.
func WithStaleTime(d time.Duration) Option {
	return func(c *Cache) { c.staleTime = d }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Cache) { c.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// WithClock overrides time.Now. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:   cmap.New[*entry](),
		gens:      make(map[string]uint64),
		staleTime: DefaultStaleTime,
		now:       time.Now,
		recorder:  nopRecorder{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the cached value for key when fresh, and otherwise calls
// fn, caching its result on success. On failure the previous entry, if
// any, is kept.
//
// Concurrent fetches of the same key share one call of fn. The shared call
// does not inherit cancellation from any single caller; each caller stops
// waiting when its own ctx is done. A result whose key was invalidated
// while fn ran is returned to its callers but not cached.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	id := key.String()

	if v, ok := c.fresh(id); ok {
		if typed, ok := v.(T); ok {
			c.recorder.CacheHit()
			return typed, nil
		}
	}
	c.recorder.CacheMiss()

	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(id, func() (any, error) {
		gen := c.begin(id)
		result, err := fn(flightCtx)
		if err != nil {
			return nil, err
		}
		if !c.storeIf(key, id, result, gen) {
			c.logger.Debug("query result discarded after invalidation", "query", id)
		}
		return result, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		if res.Shared {
			c.logger.Debug("query fetch shared", "query", id)
		}
		typed, _ := res.Val.(T)
		return typed, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Get returns the cached value for key regardless of staleness.
func (c *Cache) Get(key Key) (any, bool) {
	e, ok := c.entries.Get(key.String())
	if !ok {
		return nil, false
	}
	return e.value, true
}

// IsStale reports whether key is missing, invalidated, or older than the
// stale time.
func (c *Cache) IsStale(key Key) bool {
	_, fresh := c.fresh(key.String())
	return !fresh
}

// SetData stores value for key as a fresh entry. A fetch of key already in
// flight will not overwrite it.
func (c *Cache) SetData(key Key, value any) {
	id := key.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bump(id)
	c.store(key, id, value)
}

// Invalidate marks every entry matching one of keys as stale and returns
// how many entries were affected.
func (c *Cache) Invalidate(keys ...Key) int {
	if len(keys) == 0 {
		return 0
	}

	prefixes := make([]string, len(keys))
	for i, k := range keys {
		prefixes[i] = k.prefix()
	}
	matches := func(id string) bool {
		for _, p := range prefixes {
			if matchCanonical(p, id) {
				return true
			}
		}
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for id := range c.gens {
		if matches(id) {
			c.bump(id)
		}
	}

	n := c.entries.UpdateIf(matches,
		func(_ string, e *entry) (*entry, bool) {
			next := *e
			next.stale = true
			return &next, true
		},
	)

	if n > 0 {
		c.recorder.CacheInvalidated(n)
		c.logger.Debug("queries invalidated", "count", n)
	}
	return n
}

// Remove drops the entry for key.
func (c *Cache) Remove(key Key) {
	id := key.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.gens[id]; ok {
		c.bump(id)
	}
	c.entries.Delete(id)
}

// Clear drops every entry. Fetches in flight will not repopulate the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	for id := range c.gens {
		c.group.Forget(id)
	}
	c.gens = make(map[string]uint64)
	c.entries.Clear()
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	return c.entries.Count()
}

// Keys returns the canonical form of every cached key.
func (c *Cache) Keys() []string {
	return c.entries.Keys()
}

func (c *Cache) fresh(id string) (any, bool) {
	e, ok := c.entries.Get(id)
	if !ok || e.stale {
		return nil, false
	}
	if c.now().Sub(e.updatedAt) >= c.staleTime {
		return nil, false
	}
	return e.value, true
}

// begin registers a fetch of id and returns the generation it started in.
func (c *Cache) begin(id string) generation {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.gens[id]
	if !ok {
		c.gens[id] = 0
	}
	return generation{epoch: c.epoch, n: n}
}

// storeIf caches value unless id moved past gen.
func (c *Cache) storeIf(key Key, id string, value any, gen generation) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != gen.epoch || c.gens[id] != gen.n {
		return false
	}
	c.store(key, id, value)
	return true
}

// bump moves id to a new generation and detaches any fetch in flight, so
// later reads start their own. Callers hold c.mu.
func (c *Cache) bump(id string) {
	c.gens[id]++
	c.group.Forget(id)
}

func (c *Cache) store(key Key, id string, value any) {
	c.entries.Set(id, &entry{
		key:       key,
		value:     value,
		updatedAt: c.now(),
	})
}

type nopRecorder struct{}

func (nopRecorder) CacheHit()            {}
func (nopRecorder) CacheMiss()           {}
func (nopRecorder) CacheInvalidated(int) {}
