package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/google/uuid"
)

const manifestName = "manifest.json"

// StagedItem maps a cleared record to its place in the undo buffer.
type StagedItem struct {
	Original string `json:"original"`
	Staged   string `json:"staged"`
}

// Generation is the content of the single-slot undo buffer.
type Generation struct {
	ID        uuid.UUID    `json:"id"`
	Scope     Scope        `json:"scope"`
	Game      string       `json:"game,omitempty"`
	ClearedAt Timestamp    `json:"cleared_at"`
	Items     []StagedItem `json:"items"`
}

// Count returns how many records the generation holds.
func (g *Generation) Count() int {
	if g == nil {
		return 0
	}
	return len(g.Items)
}

func (s *Service) manifestKey() string {
	return path.Join(s.undoDir(), manifestName)
}

// Staged returns the generation currently held in the undo buffer, nil when idle.
func (s *Service) Staged(ctx context.Context) (*Generation, error) {
	g, err := s.readManifest(ctx)
	if err != nil {
		return nil, ioError("staged", "Failed to read undo buffer", err)
	}
	return g, nil
}

func (s *Service) readManifest(ctx context.Context) (*Generation, error) {
	data, err := s.storage.Read(ctx, s.manifestKey())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var g Generation
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("invalid undo manifest: %w", err)
	}
	return &g, nil
}

func (s *Service) writeManifest(ctx context.Context, g *Generation) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("failed to serialize undo manifest: %w", err)
	}
	return s.storage.Write(ctx, s.manifestKey(), buf.Bytes())
}

// Clear moves every record of a game, or of all games, into the undo buffer.
// Whatever the buffer held before is discarded.
func (s *Service) Clear(ctx context.Context, scope Scope, game string) (*Generation, error) {
	const op = "clear"
	if scope != ScopeGame && scope != ScopeAll {
		return nil, validationError(op, fmt.Sprintf("Invalid scope '%s'. Must be 'game' or 'all'", scope))
	}
	game = NormalizeGame(game)

	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var dirs []string
	if scope == ScopeGame {
		dirs = []string{s.resolver.GameDir(game)}
	} else {
		dirs, err = s.gameDirs(ctx)
		if err != nil {
			return nil, ioError(op, "Failed to clear notepads", err)
		}
	}

	var keys []string
	for _, dir := range dirs {
		found, err := s.storage.List(ctx, dir, RecordPattern)
		if err != nil {
			return nil, ioError(op, "Failed to clear notepads", err)
		}
		keys = append(keys, found...)
	}
	if len(keys) == 0 {
		if scope == ScopeGame {
			return nil, notFoundError(op, fmt.Sprintf("No notepads found for game '%s'", game))
		}
		return nil, notFoundError(op, "No notepads found to clear")
	}

	previous, err := s.readManifest(ctx)
	if err != nil {
		s.logger.Warn("discarding unreadable undo manifest", "error", err)
	}

	g := &Generation{
		ID:        uuid.New(),
		Scope:     scope,
		ClearedAt: NewTimestamp(s.now()),
		Items:     make([]StagedItem, 0, len(keys)),
	}
	if scope == ScopeGame {
		g.Game = game
	}
	genDir := path.Join(s.undoDir(), g.ID.String())

	for _, key := range keys {
		item := StagedItem{Original: key, Staged: path.Join(genDir, key)}
		if err := s.storage.Move(ctx, item.Original, item.Staged); err != nil {
			s.revert(g.Items, false)
			_ = s.storage.RemoveAll(context.WithoutCancel(ctx), genDir)
			return nil, ioError(op, "Failed to clear notepads", err)
		}
		g.Items = append(g.Items, item)
	}

	if err := s.writeManifest(ctx, g); err != nil {
		s.revert(g.Items, false)
		_ = s.storage.RemoveAll(context.WithoutCancel(ctx), genDir)
		return nil, ioError(op, "Failed to clear notepads", err)
	}

	s.purgeGenerations(ctx, g.ID, previous)

	if scope == ScopeAll {
		for _, dir := range dirs {
			if err := s.storage.RemoveDir(ctx, dir); err != nil {
				s.logger.Warn("failed to prune game directory", "game", dir, "error", err)
			}
		}
	}

	s.logger.Info("cleared notepads", "scope", scope, "game", g.Game, "generation", g.ID, "count", g.Count())
	return g, nil
}

// Undo restores the generation held in the undo buffer.
// Nothing is moved if any original location has been reused since the clear.
func (s *Service) Undo(ctx context.Context) (*Generation, error) {
	const op = "undo"

	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	g, err := s.readManifest(ctx)
	if err != nil {
		return nil, ioError(op, "Failed to read undo buffer", err)
	}
	if g == nil {
		return nil, conflictError(op, "No cleared notepads to restore")
	}

	pending := make([]StagedItem, 0, len(g.Items))
	for _, item := range g.Items {
		taken, err := s.storage.Exists(ctx, item.Original)
		if err != nil {
			return nil, ioError(op, "Failed to restore notepads", err)
		}
		if taken {
			return nil, conflictError(op, fmt.Sprintf("Cannot restore: '%s' was recreated after the clear", item.Original))
		}
		present, err := s.storage.Exists(ctx, item.Staged)
		if err != nil {
			return nil, ioError(op, "Failed to restore notepads", err)
		}
		if !present {
			s.logger.Warn("staged notepad missing, skipping", "key", item.Staged)
			continue
		}
		pending = append(pending, item)
	}

	restored := make([]StagedItem, 0, len(pending))
	for _, item := range pending {
		if err := s.storage.Move(ctx, item.Staged, item.Original); err != nil {
			s.revert(restored, true)
			return nil, ioError(op, "Failed to restore notepads", err)
		}
		restored = append(restored, item)
	}

	if err := s.storage.Remove(ctx, s.manifestKey()); err != nil {
		return nil, ioError(op, "Failed to reset undo buffer", err)
	}
	if err := s.storage.RemoveAll(ctx, path.Join(s.undoDir(), g.ID.String())); err != nil {
		s.logger.Warn("failed to remove undo generation", "generation", g.ID, "error", err)
	}

	s.logger.Info("restored notepads", "scope", g.Scope, "game", g.Game, "generation", g.ID, "count", len(restored))
	return g, nil
}

// revert undoes a partial batch of moves, newest first. With restored set the
// items are sent back to the buffer, otherwise back to their original keys.
func (s *Service) revert(items []StagedItem, restored bool) {
	ctx := context.Background()
	for i := len(items) - 1; i >= 0; i-- {
		src, dst := items[i].Staged, items[i].Original
		if restored {
			src, dst = dst, src
		}
		if err := s.storage.Move(ctx, src, dst); err != nil {
			s.logger.Error("rollback failed", "src", src, "dst", dst, "error", err)
		}
	}
}

// purgeGenerations drops every generation directory other than keep.
func (s *Service) purgeGenerations(ctx context.Context, keep uuid.UUID, previous *Generation) {
	dirs, err := s.storage.Dirs(ctx, s.undoDir())
	if err != nil {
		s.logger.Warn("failed to enumerate undo buffer", "error", err)
		return
	}
	for _, d := range dirs {
		if d == keep.String() {
			continue
		}
		if err := s.storage.RemoveAll(ctx, path.Join(s.undoDir(), d)); err != nil {
			s.logger.Warn("failed to purge undo generation", "generation", d, "error", err)
		}
	}
	if previous != nil {
		s.logger.Debug("discarded previous undo generation", "generation", previous.ID, "count", previous.Count())
	}
}
