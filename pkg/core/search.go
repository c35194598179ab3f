package core

import (
	"context"
	"errors"
	"io/fs"
	"slices"
	"strings"
)

// Search finds entries whose content contains query, ignoring case.
//
// With a title only that notepad is scanned (a missing notepad yields no results);
// otherwise every notepad of the game is. Results are newest first; entries with
// equal timestamps keep enumeration order (record file name, then entry order).
func (s *Service) Search(ctx context.Context, query, game, title string) ([]SearchResult, error) {
	const op = "search"
	if query == "" {
		return nil, validationError(op, "Missing required parameter: query")
	}
	game = NormalizeGame(game)
	dir := s.resolver.GameDir(game)

	if err := s.storage.EnsureDir(ctx, dir); err != nil {
		return nil, ioError(op, "Failed to search notepads", err)
	}

	var records []loadedRecord
	if title != "" {
		key := s.resolver.RecordKey(title, game)
		n, err := s.loadRecord(ctx, key)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			s.logger.Warn("skipping unreadable notepad", "key", key, "error", err)
		default:
			records = append(records, loadedRecord{key: key, notepad: n})
		}
	} else {
		var err error
		records, err = s.loadDir(ctx, dir)
		if err != nil {
			return nil, ioError(op, "Failed to search notepads", err)
		}
	}

	needle := strings.ToLower(query)
	var results []SearchResult
	for _, r := range records {
		for _, e := range r.notepad.Entries {
			if !strings.Contains(strings.ToLower(e.Content), needle) {
				continue
			}
			results = append(results, SearchResult{
				NotepadTitle: r.notepad.Title,
				EntryID:      e.ID,
				Content:      e.Content,
				CreatedAt:    e.CreatedAt,
			})
		}
	}

	slices.SortStableFunc(results, func(a, b SearchResult) int {
		return b.CreatedAt.Compare(a.CreatedAt.Time)
	})

	s.logger.Info("searched notepads", "query", query, "game", game, "matches", len(results))
	return results, nil
}
