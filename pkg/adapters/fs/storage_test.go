package fs_test

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/aretw0/notepad/pkg/adapters/fs"
	"github.com/aretw0/notepad/pkg/core"
)

// setupStorage creates a storage rooted in a fresh temp directory.
func setupStorage(t *testing.T, opts ...func(*fs.Config)) (*fs.Storage, string) {
	t.Helper()

	root := filepath.Join(t.TempDir(), "notes")
	cfg := fs.Config{
		Path:      root,
		SystemDir: ".notepad",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return fs.NewStorage(cfg), root
}

func TestInitialize(t *testing.T) {
	t.Run("Creates Directory if Missing", func(t *testing.T) {
		s, root := setupStorage(t)

		if err := s.Initialize(context.Background()); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
		if _, err := os.Stat(root); os.IsNotExist(err) {
			t.Errorf("expected directory to be created at %s", root)
		}
	})

	t.Run("Fails if MustExist and Missing", func(t *testing.T) {
		s, _ := setupStorage(t, func(c *fs.Config) { c.MustExist = true })

		if err := s.Initialize(context.Background()); err == nil {
			t.Error("expected Initialize to fail when directory is missing and MustExist=true")
		}
	})
}

func TestReadWrite(t *testing.T) {
	ctx := context.Background()
	s, root := setupStorage(t)

	if err := s.Write(ctx, "Test/Missions.json", []byte(`{"title":"Missions"}`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "Test", "Missions.json")); err != nil {
		t.Fatalf("record not on disk: %v", err)
	}

	got, err := s.Read(ctx, "Test/Missions.json")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != `{"title":"Missions"}` {
		t.Errorf("unexpected content %q", got)
	}

	_, err = s.Read(ctx, "Test/Missing.json")
	if !errors.Is(err, iofs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist for missing key, got %v", err)
	}
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	s, _ := setupStorage(t)
	_ = s.Write(ctx, "Test/a.json", []byte("{}"))

	cases := map[string]bool{
		"Test/a.json": true,
		"Test/b.json": false,
		"Test":        false, // directories are not records
	}
	for key, want := range cases {
		got, err := s.Exists(ctx, key)
		if err != nil {
			t.Fatalf("Exists(%q) failed: %v", key, err)
		}
		if got != want {
			t.Errorf("Exists(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestListAndDirs(t *testing.T) {
	ctx := context.Background()
	s, root := setupStorage(t)

	for _, key := range []string{"Test/b.json", "Test/a.json", "Test/notes.txt", "Other/c.json"} {
		if err := s.Write(ctx, key, []byte("{}")); err != nil {
			t.Fatal(err)
		}
	}
	// In-flight temp files and hidden dirs must never surface.
	_ = os.WriteFile(filepath.Join(root, "Test", fs.TempFilePrefix+"123"), []byte("x"), 0644)
	_ = os.MkdirAll(filepath.Join(root, ".notepad", "undo"), 0755)

	keys, err := s.List(ctx, "Test", core.RecordPattern)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if want := []string{"Test/a.json", "Test/b.json"}; !slices.Equal(keys, want) {
		t.Errorf("List = %v, want %v", keys, want)
	}

	missing, err := s.List(ctx, "Nope", core.RecordPattern)
	if err != nil || len(missing) != 0 {
		t.Errorf("List on missing dir = %v, %v; want empty, nil", missing, err)
	}

	dirs, err := s.Dirs(ctx, "")
	if err != nil {
		t.Fatalf("Dirs failed: %v", err)
	}
	if want := []string{"Other", "Test"}; !slices.Equal(dirs, want) {
		t.Errorf("Dirs = %v, want %v", dirs, want)
	}
}

func TestMoveAndRemove(t *testing.T) {
	ctx := context.Background()
	s, _ := setupStorage(t)
	_ = s.Write(ctx, "Test/a.json", []byte("{}"))

	if err := s.Move(ctx, "Test/a.json", ".notepad/undo/gen/Test/a.json"); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if ok, _ := s.Exists(ctx, "Test/a.json"); ok {
		t.Error("source still exists after move")
	}
	if ok, _ := s.Exists(ctx, ".notepad/undo/gen/Test/a.json"); !ok {
		t.Error("destination missing after move")
	}

	if err := s.RemoveDir(ctx, "Test"); err != nil {
		t.Fatalf("RemoveDir failed: %v", err)
	}
	dirs, _ := s.Dirs(ctx, "")
	if slices.Contains(dirs, "Test") {
		t.Error("empty game directory was not removed")
	}

	if err := s.RemoveAll(ctx, ".notepad/undo/gen"); err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}
	if ok, _ := s.Exists(ctx, ".notepad/undo/gen/Test/a.json"); ok {
		t.Error("RemoveAll left content behind")
	}

	err := s.Remove(ctx, "Test/a.json")
	if !errors.Is(err, iofs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist removing missing key, got %v", err)
	}
}

func TestRemoveDirKeepsNonEmpty(t *testing.T) {
	ctx := context.Background()
	s, _ := setupStorage(t)
	_ = s.Write(ctx, "Test/a.json", []byte("{}"))

	if err := s.RemoveDir(ctx, "Test"); err != nil {
		t.Fatalf("RemoveDir failed: %v", err)
	}
	if ok, _ := s.Exists(ctx, "Test/a.json"); !ok {
		t.Error("RemoveDir deleted a non-empty directory")
	}
}

func TestKeysCannotEscapeRoot(t *testing.T) {
	ctx := context.Background()
	s, _ := setupStorage(t)

	for _, key := range []string{"../outside.json", "Test/../../x.json"} {
		if err := s.Write(ctx, key, []byte("{}")); !errors.Is(err, fs.ErrOutsideRoot) {
			t.Errorf("Write(%q): expected ErrOutsideRoot, got %v", key, err)
		}
	}
	if err := s.RemoveAll(ctx, ""); !errors.Is(err, fs.ErrOutsideRoot) {
		t.Errorf("RemoveAll(root): expected ErrOutsideRoot, got %v", err)
	}
}

func TestStorageState(t *testing.T) {
	s, root := setupStorage(t)

	state, ok := s.State().(fs.StorageState)
	if !ok {
		t.Fatalf("unexpected state type %T", s.State())
	}
	if state.Path != root || state.SystemDir != ".notepad" {
		t.Errorf("unexpected state %+v", state)
	}
	if s.ComponentType() != "fs-storage" {
		t.Errorf("unexpected component type %q", s.ComponentType())
	}
}
