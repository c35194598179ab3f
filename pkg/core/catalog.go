package core

import (
	"context"
	"slices"
)

// List summarizes every notepad of a game, most recently updated first.
// Records that fail to parse are skipped.
func (s *Service) List(ctx context.Context, game string) ([]Summary, error) {
	const op = "list"
	game = NormalizeGame(game)
	dir := s.resolver.GameDir(game)

	if err := s.storage.EnsureDir(ctx, dir); err != nil {
		return nil, ioError(op, "Failed to list notepads", err)
	}

	records, err := s.loadDir(ctx, dir)
	if err != nil {
		return nil, ioError(op, "Failed to list notepads", err)
	}

	summaries := make([]Summary, 0, len(records))
	for _, r := range records {
		n := r.notepad
		summary := Summary{
			Title:      n.Title,
			Game:       n.Game,
			EntryCount: len(n.Entries),
			CreatedAt:  n.CreatedAt,
			UpdatedAt:  n.UpdatedAt,
		}
		if summary.Game == "" {
			summary.Game = game
		}
		summaries = append(summaries, summary)
	}

	// Stable: equal timestamps keep enumeration order.
	slices.SortStableFunc(summaries, func(a, b Summary) int {
		return b.UpdatedAt.Compare(a.UpdatedAt.Time)
	})

	s.logger.Info("listed notepads", "game", game, "count", len(summaries))
	return summaries, nil
}

// ListAll loads every notepad of every game, games in directory name order.
// Unreadable games and records are skipped; games without readable records are omitted.
func (s *Service) ListAll(ctx context.Context) ([]GameNotepads, error) {
	dirs, err := s.gameDirs(ctx)
	if err != nil {
		return nil, ioError("list", "Failed to list games", err)
	}

	var games []GameNotepads
	for _, dir := range dirs {
		records, err := s.loadDir(ctx, dir)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ioError("list", "Failed to list games", err)
			}
			s.logger.Warn("skipping unreadable game", "game", dir, "error", err)
			continue
		}
		if len(records) == 0 {
			continue
		}
		g := GameNotepads{Game: dir, Notepads: make([]*Notepad, 0, len(records))}
		for _, r := range records {
			g.Notepads = append(g.Notepads, r.notepad)
		}
		games = append(games, g)
	}
	return games, nil
}

// gameDirs returns every game directory under the root.
func (s *Service) gameDirs(ctx context.Context) ([]string, error) {
	dirs, err := s.storage.Dirs(ctx, "")
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(dirs, func(d string) bool {
		return d == s.resolver.SystemDir
	}), nil
}
