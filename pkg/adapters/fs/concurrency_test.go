package fs_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/notepad/pkg/adapters/fs"
	"github.com/aretw0/notepad/pkg/core"
)

// TestConcurrentAppends runs two services over one root, as two processes
// would, so only the lock file serializes them.
func TestConcurrentAppends(t *testing.T) {
	s, _ := setupStorage(t)
	ctx := context.Background()
	if err := s.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	other := fs.NewStorage(fs.Config{Path: s.Path, SystemDir: ".notepad"})

	services := []*core.Service{
		core.NewService(s, core.WithLockTimeout(10*time.Second)),
		core.NewService(other, core.WithLockTimeout(10*time.Second)),
	}

	const perWorker = 10
	var wg sync.WaitGroup
	errs := make(chan error, 2*len(services)*perWorker)
	for w := range 2 * len(services) {
		svc := services[w%len(services)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWorker {
				if _, err := svc.AppendEntry(ctx, "Race", fmt.Sprintf("w%d-%d", w, i), "Arena"); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("append failed: %v", err)
	}

	pad, err := services[0].Read(ctx, "Race", "Arena")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	want := 2 * len(services) * perWorker
	if len(pad.Entries) != want {
		t.Fatalf("expected %d entries, got %d", want, len(pad.Entries))
	}
	for i, e := range pad.Entries {
		if e.ID != i+1 {
			t.Fatalf("entry %d has id %d; ids must be sequential", i, e.ID)
		}
	}
}
