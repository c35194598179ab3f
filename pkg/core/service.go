package core

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"sync"
	"time"
)

const (
	// DefaultSystemDir is the hidden directory holding the lock and the undo buffer.
	DefaultSystemDir = ".notepad"
	// DefaultLockTimeout bounds how long a write waits for the single-writer lock.
	DefaultLockTimeout = 5 * time.Second
)

// Service implements every notepad operation on top of a Storage.
// Operations are synchronous; writes are serialized in-process and, when the
// storage is a Locker, across processes.
type Service struct {
	storage     Storage
	sink        Sink
	resolver    Resolver
	logger      *slog.Logger
	now         func() time.Time
	lockTimeout time.Duration

	mu sync.Mutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSink sets where exports are written.
func WithSink(sink Sink) ServiceOption {
	return func(s *Service) {
		s.sink = sink
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSystemDir sets the name of the reserved bookkeeping directory.
func WithSystemDir(name string) ServiceOption {
	return func(s *Service) {
		if name != "" {
			s.resolver.SystemDir = name
		}
	}
}

// WithLockTimeout bounds how long writes wait for the storage lock.
func WithLockTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// NewService creates a new Service.
func NewService(storage Storage, opts ...ServiceOption) *Service {
	s := &Service{
		storage:     storage,
		resolver:    Resolver{SystemDir: DefaultSystemDir},
		logger:      slog.New(slog.DiscardHandler),
		now:         time.Now,
		lockTimeout: DefaultLockTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolver returns the namespace resolver used by the service.
func (s *Service) Resolver() Resolver {
	return s.resolver
}

// Initialize ensures the notes root exists.
func (s *Service) Initialize(ctx context.Context) error {
	if err := s.storage.EnsureDir(ctx, ""); err != nil {
		return ioError("initialize", "Failed to create notes directory", err)
	}
	s.logger.Info("notes directory ready")
	return nil
}

// Watch observes record changes if the storage supports it.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.storage.(Watchable)
	if !ok {
		return nil, errors.New("storage does not support watching")
	}
	return w.Watch(ctx, path.Join("*", RecordPattern))
}

// lock serializes writers. The returned func releases everything acquired.
func (s *Service) lock(ctx context.Context) (func(), error) {
	s.mu.Lock()

	locker, ok := s.storage.(Locker)
	if !ok {
		return s.mu.Unlock, nil
	}

	lctx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	release, err := locker.Lock(lctx)
	if err != nil {
		s.mu.Unlock()
		return nil, ioError("lock", "Notes directory is locked by another process", err)
	}
	return func() {
		release()
		s.mu.Unlock()
	}, nil
}

func (s *Service) undoDir() string {
	return path.Join(s.resolver.SystemDir, "undo")
}
