package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// StorageState exposes internal state for observability.
type StorageState struct {
	Path          string     `json:"path"`
	SystemDir     string     `json:"system_dir"`
	MustExist     bool       `json:"must_exist"`
	StaleLock     string     `json:"stale_lock"`
	WatcherActive bool       `json:"watcher_active"`
	LocksTaken    int        `json:"locks_taken"`
	LastLockAt    *time.Time `json:"last_lock_at,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Storage) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StorageState{
		Path:          s.Path,
		SystemDir:     s.config.SystemDir,
		MustExist:     s.config.MustExist,
		StaleLock:     s.config.StaleLock.String(),
		WatcherActive: s.watcherActive,
		LocksTaken:    s.locksTaken,
		LastLockAt:    s.lastLockAt,
	}
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "fs-storage"
}

var _ introspection.Introspectable = (*Storage)(nil)
var _ introspection.Component = (*Storage)(nil)
