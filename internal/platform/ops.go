package platform

import (
	"context"
	"fmt"
)

// Init prepares a notes root: the directory itself and its system dir, which
// is what FindRoot looks for. It returns the resolved root path.
//
// An injected storage is initialized in place and reported as "".
func Init(root string, opts ...Option) (string, error) {
	o := newOptions(opts)
	ctx := context.Background()

	if o.storage != nil {
		if err := o.storage.EnsureDir(ctx, o.systemDir); err != nil {
			return "", fmt.Errorf("failed to create system directory: %w", err)
		}
		return "", nil
	}

	storage, err := o.openStorage(root)
	if err != nil {
		return "", err
	}
	if err := storage.EnsureDir(ctx, o.systemDir); err != nil {
		return "", fmt.Errorf("failed to create system directory: %w", err)
	}
	o.logger.Info("notes root initialized", "path", storage.Path)
	return storage.Path, nil
}
