package fs

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s := NewStorage(Config{Path: t.TempDir(), SystemDir: ".notepad"})
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return s
}

func TestLockIsExclusive(t *testing.T) {
	s := newTestStorage(t)

	unlock, err := s.Lock(context.Background())
	if err != nil {
		t.Fatalf("first lock failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := s.Lock(ctx); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked while held, got %v", err)
	}

	unlock()

	unlock2, err := s.Lock(context.Background())
	if err != nil {
		t.Fatalf("lock after release failed: %v", err)
	}
	unlock2()

	if _, err := os.Stat(s.lockPath()); !os.IsNotExist(err) {
		t.Error("lock file left behind after unlock")
	}
}

func TestLockWaitsForRelease(t *testing.T) {
	s := newTestStorage(t)

	unlock, err := s.Lock(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	go func() {
		time.Sleep(30 * time.Millisecond)
		unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	unlock2, err := s.Lock(ctx)
	if err != nil {
		t.Fatalf("expected lock after release, got %v", err)
	}
	unlock2()
}

func TestLockBreaksStaleLock(t *testing.T) {
	s := newTestStorage(t)
	s.config.StaleLock = 10 * time.Millisecond

	if _, err := s.Lock(context.Background()); err != nil {
		t.Fatal(err)
	}
	// Simulate a crashed holder: the lock is never released.
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(s.lockPath(), old, old); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlock, err := s.Lock(ctx)
	if err != nil {
		t.Fatalf("expected stale lock to be broken, got %v", err)
	}
	unlock()

	state := s.State().(StorageState)
	if state.LocksTaken != 2 {
		t.Errorf("expected 2 locks recorded, got %d", state.LocksTaken)
	}
}
