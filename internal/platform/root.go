package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindRoot walks up from startDir looking for a notes root, recognized by its
// system directory (e.g. ".notepad"). It returns the absolute root path.
func FindRoot(startDir, systemDir string) (string, error) {
	if systemDir == "" {
		systemDir = DefaultConfig().SystemDir
	}
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for dir := abs; ; {
		if isDir(filepath.Join(dir, systemDir)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no notes root found above %s", abs)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
