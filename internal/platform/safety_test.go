package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDevRun(t *testing.T) {
	// Test binaries are built by `go test`.
	assert.True(t, IsDevRun())
}

func TestResolveRoot(t *testing.T) {
	tmp := os.TempDir()
	inside := filepath.Join(tmp, "already-safe")

	tests := []struct {
		name      string
		path      string
		forceTemp bool
		want      string
	}{
		{name: "untouched", path: "/home/me/notes", want: "/home/me/notes"},
		{name: "empty means cwd", path: "", want: "."},
		{name: "sandboxed", path: "/home/me/notes", forceTemp: true, want: filepath.Join(tmp, devDirName, "notes")},
		{name: "relative sandboxed", path: "notes", forceTemp: true, want: filepath.Join(tmp, devDirName, "notes")},
		{name: "inside temp kept", path: inside, forceTemp: true, want: inside},
		{name: "empty sandboxed", path: "", forceTemp: true, want: filepath.Join(tmp, devDirName, "default")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveRoot(tt.path, tt.forceTemp))
		})
	}
}
