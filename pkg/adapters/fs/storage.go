package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/notepad/pkg/core"
)

// ErrOutsideRoot is returned for keys that would resolve outside the notes root.
var ErrOutsideRoot = errors.New("key escapes the notes root")

// Config holds the configuration for the filesystem storage.
type Config struct {
	Path      string
	MustExist bool
	Logger    *slog.Logger
	SystemDir string        // e.g. ".notepad"
	StaleLock time.Duration // lock files older than this are broken; 0 means DefaultStaleLock
}

// Storage implements core.Storage on a directory tree.
// Keys map to paths below Path; game directories are its direct children.
type Storage struct {
	Path   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
	locksTaken    int
	lastLockAt    *time.Time
}

// NewStorage creates a new filesystem-backed storage.
func NewStorage(config Config) *Storage {
	if config.SystemDir == "" {
		config.SystemDir = core.DefaultSystemDir
	}
	if config.StaleLock <= 0 {
		config.StaleLock = DefaultStaleLock
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Storage{
		Path:   config.Path,
		config: config,
	}
}

// Initialize prepares the notes root.
func (s *Storage) Initialize(ctx context.Context) error {
	if s.config.MustExist {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("notes path does not exist: %s", s.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat notes path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("notes path is not a directory: %s", s.Path)
		}
		return nil
	}
	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create notes directory: %w", err)
	}
	return nil
}

// resolve maps a slash-separated key to an absolute path below the root.
func (s *Storage) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)[1:]
	if clean != strings.TrimSuffix(key, "/") {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, key)
	}
	return filepath.Join(s.Path, filepath.FromSlash(clean)), nil
}

// Read implements core.Storage.
func (s *Storage) Read(ctx context.Context, key string) ([]byte, error) {
	p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Write implements core.Storage.
func (s *Storage) Write(ctx context.Context, key string, data []byte) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	if err := writeFileAtomic(p, data, 0644); err != nil {
		return err
	}
	s.config.Logger.Debug("wrote record", "key", key, "bytes", len(data))
	return nil
}

// Exists implements core.Storage. Directories do not count.
func (s *Storage) Exists(ctx context.Context, key string) (bool, error) {
	p, err := s.resolve(key)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return info.Mode().IsRegular(), nil
}

// List implements core.Storage. os.ReadDir already sorts by name.
func (s *Storage) List(ctx context.Context, dir, pattern string) ([]string, error) {
	p, err := s.resolve(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(p)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, TempFilePrefix) {
			continue
		}
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if ok {
			keys = append(keys, path.Join(dir, name))
		}
	}
	return keys, nil
}

// Dirs implements core.Storage.
func (s *Storage) Dirs(ctx context.Context, dir string) ([]string, error) {
	p, err := s.resolve(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(p)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	dirs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			dirs = append(dirs, e.Name())
		}
	}
	return dirs, nil
}

// Move implements core.Storage.
func (s *Storage) Move(ctx context.Context, src, dst string) error {
	from, err := s.resolve(src)
	if err != nil {
		return err
	}
	to, err := s.resolve(dst)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(to), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", src, dst, err)
	}
	return nil
}

// Remove implements core.Storage.
func (s *Storage) Remove(ctx context.Context, key string) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// EnsureDir implements core.Storage.
func (s *Storage) EnsureDir(ctx context.Context, dir string) error {
	p, err := s.resolve(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(p, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return nil
}

// RemoveDir implements core.Storage.
func (s *Storage) RemoveDir(ctx context.Context, dir string) error {
	if dir == "" {
		return nil
	}
	p, err := s.resolve(dir)
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", dir, err)
	}
	if len(entries) > 0 {
		return nil
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	return nil
}

// RemoveAll implements core.Storage. The root itself is never removed.
func (s *Storage) RemoveAll(ctx context.Context, dir string) error {
	if dir == "" {
		return fmt.Errorf("%w: refusing to remove the root", ErrOutsideRoot)
	}
	p, err := s.resolve(dir)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(p); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	return nil
}

var (
	_ core.Storage   = (*Storage)(nil)
	_ core.Locker    = (*Storage)(nil)
	_ core.Watchable = (*Storage)(nil)
)
