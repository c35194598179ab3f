package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/notepad/pkg/core"
)

// options holds the internal configuration for the notepad service.
type options struct {
	storage     core.Storage
	sink        core.Sink
	logger      *slog.Logger
	clock       func() time.Time
	config      *Config
	exportDir   string
	systemDir   string
	lockTimeout time.Duration
	forceTemp   bool
	devSafety   bool
	mustExist   bool
}

// Option defines a functional option for configuring the service.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		devSafety: true,
	}
}

// WithStorage injects a storage adapter (e.g. memory.Storage). The filesystem
// adapter and the dev sandbox are skipped.
func WithStorage(s core.Storage) Option {
	return func(o *options) {
		o.storage = s
	}
}

// WithSink injects where exports are written, replacing the export directory.
func WithSink(s core.Sink) Option {
	return func(o *options) {
		o.sink = s
	}
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithConfig applies a loaded config. Explicit options win over it.
func WithConfig(c *Config) Option {
	return func(o *options) {
		o.config = c
	}
}

// WithExportDir sets the directory export artifacts go to.
func WithExportDir(dir string) Option {
	return func(o *options) {
		o.exportDir = dir
	}
}

// WithSystemDir sets the hidden bookkeeping directory name (default ".notepad").
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.systemDir = name
	}
}

// WithLockTimeout bounds how long writes wait for the notes lock.
func WithLockTimeout(d time.Duration) Option {
	return func(o *options) {
		o.lockTimeout = d
	}
}

// WithForceTemp re-roots the notes and export directories into the temp dir.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox applied under `go run` / `go test`.
// It is on by default; disable it only to work on real notes from a dev build.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithMustExist fails initialization when the notes root is missing instead of creating it.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}
