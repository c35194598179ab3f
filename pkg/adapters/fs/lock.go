package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// LockFileName is the single-writer lock inside the system directory.
	LockFileName = "lock"
	// DefaultStaleLock is the age after which a lock file is considered abandoned.
	DefaultStaleLock = time.Minute

	lockPollInterval = 10 * time.Millisecond
)

// ErrLocked is returned when the lock could not be acquired before ctx was done.
var ErrLocked = errors.New("notes directory is locked")

func (s *Storage) lockPath() string {
	return filepath.Join(s.Path, s.config.SystemDir, LockFileName)
}

// Lock implements core.Locker with an O_EXCL lock file, polling until it is
// free or ctx is done. Lock files older than the stale threshold are broken.
func (s *Storage) Lock(ctx context.Context) (func(), error) {
	lockPath := s.lockPath()
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create system directory: %w", err)
	}

	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0666)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			s.recordLock()
			return func() {
				if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
					s.config.Logger.Warn("failed to release lock", "error", err)
				}
			}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}

		if s.breakStaleLock(lockPath) {
			continue
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrLocked, ctx.Err())
		case <-time.After(lockPollInterval):
		}
	}
}

// breakStaleLock removes the lock file if it outlived the stale threshold.
func (s *Storage) breakStaleLock(lockPath string) bool {
	info, err := os.Stat(lockPath)
	if err != nil {
		// Released between our attempt and the stat.
		return os.IsNotExist(err)
	}
	age := time.Since(info.ModTime())
	if age < s.config.StaleLock {
		return false
	}
	s.config.Logger.Warn("breaking stale lock", "path", lockPath, "age", age)
	return os.Remove(lockPath) == nil
}

func (s *Storage) recordLock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.locksTaken++
	s.lastLockAt = &now
}
