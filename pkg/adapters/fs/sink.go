package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/introspection"

	"github.com/aretw0/notepad/pkg/core"
)

const maxNameAttempts = 1000

// Sink writes export artifacts into a directory, never overwriting one.
type Sink struct {
	Dir    string
	logger *slog.Logger
}

// NewSink creates a sink rooted at dir.
func NewSink(dir string, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sink{Dir: dir, logger: logger}
}

// Write implements core.Sink. A taken name gets a "_<n>" suffix before its extension.
func (s *Sink) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for n := 1; n <= maxNameAttempts; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		target := filepath.Join(s.Dir, candidate)
		err := writeFileExclusive(target, data, 0644)
		if err == nil {
			s.logger.Debug("export written", "path", target, "bytes", len(data))
			return target, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("failed to write export: %w", err)
		}
		candidate = fmt.Sprintf("%s_%d%s", stem, n, ext)
	}
	return "", fmt.Errorf("no free export name for %s", name)
}

// Location implements core.Sink.
func (s *Sink) Location() string {
	return s.Dir
}

// ComponentType implements introspection.Component.
func (s *Sink) ComponentType() string {
	return "fs-sink"
}

var (
	_ core.Sink               = (*Sink)(nil)
	_ introspection.Component = (*Sink)(nil)
)
