package platform

import (
	"context"
	"log/slog"

	"github.com/aretw0/notepad/pkg/adapters/fs"
	"github.com/aretw0/notepad/pkg/core"
)

// New builds a ready-to-use service rooted at root. An empty root falls back
// to the config's notes dir, then to DefaultNotesDir().
//
//	svc, err := notepad.New("", notepad.WithExportDir("/tmp/exports"))
func New(root string, opts ...Option) (*core.Service, error) {
	o := newOptions(opts)

	storage := o.storage
	if storage == nil {
		fsStorage, err := o.openStorage(root)
		if err != nil {
			return nil, err
		}
		storage = fsStorage
	}

	sink := o.sink
	if sink == nil {
		exportDir := o.exportDir
		if exportDir == "" {
			exportDir = o.config.ResolvedExportDir()
		}
		sink = fs.NewSink(ResolveRoot(exportDir, o.useTemp()), o.logger)
	}

	svcOpts := []core.ServiceOption{
		core.WithLogger(o.logger),
		core.WithSink(sink),
		core.WithSystemDir(o.systemDir),
		core.WithLockTimeout(o.lockTimeout),
	}
	if o.clock != nil {
		svcOpts = append(svcOpts, core.WithClock(o.clock))
	}

	service := core.NewService(storage, svcOpts...)
	if err := service.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return service, nil
}

// newOptions applies opts over the defaults and folds the config into the
// fields left unset.
func newOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.config == nil {
		o.config = DefaultConfig()
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.systemDir == "" {
		o.systemDir = o.config.systemDirOr()
	}
	if o.lockTimeout <= 0 {
		o.lockTimeout = o.config.LockTimeout
	}
	return o
}

func (o *options) useTemp() bool {
	return o.forceTemp || (IsDevRun() && o.devSafety)
}

// openStorage resolves root through the dev sandbox and prepares the filesystem adapter.
func (o *options) openStorage(root string) (*fs.Storage, error) {
	if root == "" {
		root = o.config.ResolvedNotesDir()
	}
	useTemp := o.useTemp()
	resolved := ResolveRoot(root, useTemp)

	if IsDevRun() {
		if useTemp {
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		} else {
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		}
	}

	storage := fs.NewStorage(fs.Config{
		Path:      resolved,
		MustExist: o.mustExist,
		Logger:    o.logger,
		SystemDir: o.systemDir,
	})
	if err := storage.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return storage, nil
}
