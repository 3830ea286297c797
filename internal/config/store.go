package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/aretw0/aicode/internal/logging"
	"github.com/aretw0/aicode/pkg/domain"
	"github.com/fsnotify/fsnotify"
)

// Store holds the live configuration. Readers never block; Reload, Watch
// and SetBackend publish a new value for the next exchange.
type Store struct {
	path     string
	required bool
	logger   *slog.Logger

	current atomic.Pointer[Config]

	mu        sync.Mutex
	overrides []func(*Config)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used for reload notices.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOverride registers a change applied after every load, such as a
// command-line flag.
func WithOverride(fn func(*Config)) StoreOption {
	return func(s *Store) {
		s.overrides = append(s.overrides, fn)
	}
}

// WithRequiredFile makes a missing config file an error.
func WithRequiredFile() StoreOption {
	return func(s *Store) { s.required = true }
}

// Open loads path and returns a Store serving it.
func Open(path string, opts ...StoreOption) (*Store, error) {
	s := &Store{path: path, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStore serves cfg without a backing file.
func NewStore(cfg Config) *Store {
	s := &Store{logger: logging.NewNop()}
	s.current.Store(&cfg)
	return s
}

// Path returns the backing file, empty for an in-memory store.
func (s *Store) Path() string { return s.path }

// Config returns a copy of the current configuration.
func (s *Store) Config() Config { return *s.current.Load() }

// Backend implements ports.ConfigSource.
func (s *Store) Backend() domain.BackendConfig { return s.current.Load().Backend }

// SetBackend points subsequent exchanges at host:port. The change survives
// reloads of the file.
func (s *Store) SetBackend(host string, port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.current.Load()
	next.Backend.Host = host
	next.Backend.Port = port
	if err := next.Validate(); err != nil {
		return err
	}
	s.overrides = append(s.overrides, func(c *Config) {
		c.Backend.Host = host
		c.Backend.Port = port
	})
	s.current.Store(&next)
	s.logger.Info("Backend switched", "addr", next.Backend.Addr())
	return nil
}

// Reload rereads the backing file. On error the previous value stays.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cfg Config
	if s.path == "" {
		cfg = Default()
		if err := ApplyEnv(&cfg); err != nil {
			return err
		}
	} else {
		var err error
		if cfg, err = Load(s.path, s.required); err != nil {
			return err
		}
	}
	for _, fn := range s.overrides {
		fn(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.current.Store(&cfg)
	return nil
}

// Watch reloads the store whenever its file is written or replaced, until
// ctx is done. The directory is watched so editors that rename on save are
// followed. Invalid edits are logged and ignored.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(s.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}
	s.logger.Debug("Watching config", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Warn("Config reload rejected", "path", target, "err", err)
				continue
			}
			s.logger.Info("Config reloaded", "path", target, "backend", s.Backend().Addr())
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("Config watcher error", "err", err)
		}
	}
}
