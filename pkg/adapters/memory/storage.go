// Package memory provides in-process implementations of the core storage ports.
// They back tests and dry runs; nothing survives the process.
package memory

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/introspection"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/notepad/pkg/core"
)

// Storage implements core.Storage over a map of keys.
// Directories exist implicitly below any key and explicitly once created.
type Storage struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]struct{}

	// FailOn, when set, is consulted before every mutation; a non-nil error aborts it.
	FailOn func(op, key string) error
}

// NewStorage creates an empty storage.
func NewStorage() *Storage {
	return &Storage{
		files: make(map[string][]byte),
		dirs:  make(map[string]struct{}),
	}
}

func notExist(op, key string) error {
	return &fs.PathError{Op: op, Path: key, Err: fs.ErrNotExist}
}

func (s *Storage) fail(op, key string) error {
	if s.FailOn == nil {
		return nil
	}
	return s.FailOn(op, key)
}

// addParents registers every ancestor directory of key. Caller holds mu.
func (s *Storage) addParents(key string) {
	for dir := path.Dir(key); dir != "." && dir != "/"; dir = path.Dir(dir) {
		s.dirs[dir] = struct{}{}
	}
}

// Read implements core.Storage.
func (s *Storage) Read(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[key]
	if !ok {
		return nil, notExist("read", key)
	}
	return slices.Clone(data), nil
}

// Write implements core.Storage.
func (s *Storage) Write(ctx context.Context, key string, data []byte) error {
	if err := s.fail("write", key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = slices.Clone(data)
	s.addParents(key)
	return nil
}

// Exists implements core.Storage.
func (s *Storage) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[key]
	return ok, nil
}

// List implements core.Storage.
func (s *Storage) List(ctx context.Context, dir, pattern string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := []string{}
	for key := range s.files {
		if parentOf(key) != dir {
			continue
		}
		ok, err := doublestar.Match(pattern, path.Base(key))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if ok {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// Dirs implements core.Storage.
func (s *Storage) Dirs(ctx context.Context, dir string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := []string{}
	for d := range s.dirs {
		if parentOf(d) != dir {
			continue
		}
		if name := path.Base(d); !strings.HasPrefix(name, ".") {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Move implements core.Storage.
func (s *Storage) Move(ctx context.Context, src, dst string) error {
	if err := s.fail("move", src); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[src]
	if !ok {
		return notExist("move", src)
	}
	delete(s.files, src)
	s.files[dst] = data
	s.addParents(dst)
	return nil
}

// Remove implements core.Storage.
func (s *Storage) Remove(ctx context.Context, key string) error {
	if err := s.fail("remove", key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[key]; !ok {
		return notExist("remove", key)
	}
	delete(s.files, key)
	return nil
}

// EnsureDir implements core.Storage.
func (s *Storage) EnsureDir(ctx context.Context, dir string) error {
	if dir == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirs[dir] = struct{}{}
	s.addParents(dir)
	return nil
}

// RemoveDir implements core.Storage.
func (s *Storage) RemoveDir(ctx context.Context, dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := dir + "/"
	for key := range s.files {
		if strings.HasPrefix(key, prefix) {
			return nil
		}
	}
	for d := range s.dirs {
		if strings.HasPrefix(d, prefix) {
			return nil
		}
	}
	delete(s.dirs, dir)
	return nil
}

// RemoveAll implements core.Storage.
func (s *Storage) RemoveAll(ctx context.Context, dir string) error {
	if err := s.fail("removeall", dir); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := dir + "/"
	for key := range s.files {
		if strings.HasPrefix(key, prefix) {
			delete(s.files, key)
		}
	}
	for d := range s.dirs {
		if d == dir || strings.HasPrefix(d, prefix) {
			delete(s.dirs, d)
		}
	}
	return nil
}

// Keys returns every stored key, sorted.
func (s *Storage) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.files))
	for key := range s.files {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// State implements introspection.Introspectable.
func (s *Storage) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]int{"files": len(s.files), "dirs": len(s.dirs)}
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "memory-storage"
}

// parentOf returns the directory of key with the root as "".
func parentOf(key string) string {
	dir := path.Dir(key)
	if dir == "." {
		return ""
	}
	return dir
}

var (
	_ core.Storage                 = (*Storage)(nil)
	_ introspection.Introspectable = (*Storage)(nil)
	_ introspection.Component      = (*Storage)(nil)
)
