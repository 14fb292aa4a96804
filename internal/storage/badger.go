package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"
)

// BadgerKV implements KV using Badger v3.
type BadgerKV struct {
	db     *badger.DB
	cfg    BadgerConfig
	logger *slog.Logger

	lastGCTime atomic.Int64 // Unix milliseconds
	closed     atomic.Bool

	// Prometheus metrics
	metricsLSMSize      prometheus.Gauge
	metricsValueLogSize prometheus.Gauge

	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
}

// NewBadgerKV opens (or creates) a Badger store in cfg.Dir.
func NewBadgerKV(cfg KVConfig, logger *slog.Logger) (*BadgerKV, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.Logger = &badgerLogger{logger: logger}

	badgerCfg := cfg.Badger
	opts.BlockCacheSize = badgerCfg.CacheSize
	opts.ValueLogFileSize = badgerCfg.ValueLogFileSize
	opts.SyncWrites = badgerCfg.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	kv := &BadgerKV{
		db:     db,
		cfg:    badgerCfg,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	go kv.gcLoop()

	logger.Debug("badger store opened",
		"dir", cfg.Dir,
		"gc_interval", badgerCfg.GCInterval)

	return kv, nil
}

// Get retrieves a value by key.
func (e *BadgerKV) Get(ctx context.Context, key []byte) ([]byte, error) {
	if err := e.check(ctx); err != nil {
		return nil, err
	}

	var value []byte
	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Set stores a key-value pair.
func (e *BadgerKV) Set(ctx context.Context, key, value []byte) error {
	if err := e.check(ctx); err != nil {
		return err
	}
	return e.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// Delete removes a key.
func (e *BadgerKV) Delete(ctx context.Context, key []byte) error {
	if err := e.check(ctx); err != nil {
		return err
	}
	return e.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// Scan iterates over keys with a given prefix.
func (e *BadgerKV) Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	if err := e.check(ctx); err != nil {
		return err
	}
	return e.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if !fn(item.KeyCopy(nil), value) {
				break
			}
		}
		return nil
	})
}

// GC runs value log garbage collection until nothing is left to rewrite.
// Returns the number of GC cycles that rewrote a value log file.
func (e *BadgerKV) GC(ctx context.Context) (int, error) {
	cycles := 0
	for {
		if err := ctx.Err(); err != nil {
			return cycles, err
		}
		err := e.db.RunValueLogGC(e.cfg.GCThreshold)
		if err != nil {
			if errors.Is(err, badger.ErrNoRewrite) {
				break
			}
			return cycles, fmt.Errorf("gc: %w", err)
		}
		cycles++
	}

	e.lastGCTime.Store(time.Now().UnixMilli())
	return cycles, nil
}

// Size returns the LSM and value log sizes in bytes.
func (e *BadgerKV) Size() (lsm, vlog int64) {
	return e.db.Size()
}

// Close gracefully shuts down the store. Safe to call more than once.
func (e *BadgerKV) Close() error {
	var err error
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		close(e.stopCh)
		<-e.doneCh

		if cerr := e.db.Close(); cerr != nil {
			err = fmt.Errorf("close db: %w", cerr)
			return
		}
		e.logger.Debug("badger store closed")
	})
	return err
}

// RegisterMetrics registers store size gauges with Prometheus.
// Returns the store for method chaining.
func (e *BadgerKV) RegisterMetrics(registry prometheus.Registerer) *BadgerKV {
	e.metricsLSMSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "hireflow",
		Subsystem: "session_store",
		Name:      "lsm_size_bytes",
		Help:      "Session store LSM tree size in bytes",
	})
	e.metricsValueLogSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "hireflow",
		Subsystem: "session_store",
		Name:      "value_log_size_bytes",
		Help:      "Session store value log size in bytes",
	})

	registry.MustRegister(e.metricsLSMSize, e.metricsValueLogSize)
	e.updateMetrics()

	return e
}

func (e *BadgerKV) updateMetrics() {
	if e.metricsLSMSize == nil || e.closed.Load() {
		return
	}
	lsm, vlog := e.db.Size()
	e.metricsLSMSize.Set(float64(lsm))
	e.metricsValueLogSize.Set(float64(vlog))
}

func (e *BadgerKV) check(ctx context.Context) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}

// gcLoop runs periodic garbage collection and refreshes size gauges.
func (e *BadgerKV) gcLoop() {
	defer close(e.doneCh)

	interval, err := time.ParseDuration(e.cfg.GCInterval)
	if err != nil || interval <= 0 {
		e.logger.Warn("invalid gc_interval, using default 30m", "value", e.cfg.GCInterval)
		interval = 30 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if _, err := e.GC(ctx); err != nil {
				e.logger.Error("auto gc failed", "error", err)
			}
			cancel()
			e.updateMetrics()

		case <-e.stopCh:
			return
		}
	}
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
// Badger is chatty at info level, so info is demoted to debug.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
