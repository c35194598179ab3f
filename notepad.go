package notepad

import (
	"log/slog"
	"time"

	"github.com/aretw0/notepad/internal/platform"
	"github.com/aretw0/notepad/pkg/core"
)

// --- Types ---

// Service is the notepad store.
type Service = core.Service

// Config is the file-backed configuration read by LoadConfig.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring the service.
type Option = platform.Option

// WithStorage injects a storage adapter (e.g. memory.NewStorage()).
func WithStorage(s core.Storage) Option {
	return platform.WithStorage(s)
}

// WithSink injects where exports are written.
func WithSink(s core.Sink) Option {
	return platform.WithSink(s)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithClock replaces time.Now for timestamps and export names.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithConfig applies a loaded config file.
func WithConfig(c *Config) Option {
	return platform.WithConfig(c)
}

// WithExportDir sets the directory export artifacts go to.
func WithExportDir(dir string) Option {
	return platform.WithExportDir(dir)
}

// WithSystemDir allows specifying the hidden directory name (e.g. ".notepad").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithLockTimeout bounds how long writes wait for the notes lock.
func WithLockTimeout(d time.Duration) Option {
	return platform.WithLockTimeout(d)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety toggles the temp-dir sandbox applied to `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithMustExist ensures the notes directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// --- Factory ---

// New creates a notepad service rooted at path.
func New(path string, opts ...Option) (*Service, error) {
	return platform.New(path, opts...)
}

// Init prepares a notes root so FindRoot can discover it.
func Init(path string, opts ...Option) (string, error) {
	return platform.Init(path, opts...)
}

// FindRoot walks up from dir looking for a notes root.
func FindRoot(dir, systemDir string) (string, error) {
	return platform.FindRoot(dir, systemDir)
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	return platform.LoadConfig(path)
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return platform.DefaultConfig()
}
