package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// AppendEntry adds an entry to a notepad, creating the notepad on first use.
//
// The entry ID is the number of existing entries plus one. The full record is
// rewritten on every append.
func (s *Service) AppendEntry(ctx context.Context, title, content, game string) (Entry, error) {
	const op = "append"
	if title == "" {
		return Entry{}, validationError(op, "Missing required parameter: title (notepad name)")
	}
	if content == "" {
		return Entry{}, validationError(op, "Missing required parameter: content (entry to add)")
	}
	game = NormalizeGame(game)

	unlock, err := s.lock(ctx)
	if err != nil {
		return Entry{}, err
	}
	defer unlock()

	if err := s.storage.EnsureDir(ctx, s.resolver.GameDir(game)); err != nil {
		return Entry{}, ioError(op, "Failed to add entry to notepad", err)
	}

	key := s.resolver.RecordKey(title, game)
	n, err := s.loadRecord(ctx, key)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		now := NewTimestamp(s.now())
		n = &Notepad{
			Title:     title,
			Game:      game,
			CreatedAt: now,
			UpdatedAt: now,
			Entries:   []Entry{},
		}
	case err != nil:
		// Never overwrite a record we could not read.
		return Entry{}, ioError(op, "Failed to add entry to notepad", err)
	}

	now := NewTimestamp(s.now())
	entry := Entry{
		ID:        len(n.Entries) + 1,
		Content:   content,
		CreatedAt: now,
	}
	n.Entries = append(n.Entries, entry)
	n.UpdatedAt = now

	if err := s.saveRecord(ctx, key, n); err != nil {
		return Entry{}, ioError(op, "Failed to add entry to notepad", err)
	}

	s.logger.Info("added entry", "id", entry.ID, "title", title, "game", game)
	return entry, nil
}

// Read loads a notepad.
func (s *Service) Read(ctx context.Context, title, game string) (*Notepad, error) {
	const op = "read"
	if title == "" {
		return nil, validationError(op, "Missing required parameter: title (notepad name)")
	}
	game = NormalizeGame(game)

	n, err := s.loadRecord(ctx, s.resolver.RecordKey(title, game))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFoundError(op, fmt.Sprintf("Notepad '%s' not found for game '%s'", title, game))
	}
	if err != nil {
		return nil, ioError(op, "Failed to read notepad", err)
	}

	s.logger.Debug("read notepad", "title", title, "game", game, "entries", len(n.Entries))
	return n, nil
}

// Delete removes a whole notepad.
func (s *Service) Delete(ctx context.Context, title, game string) error {
	const op = "delete"
	if title == "" {
		return validationError(op, "Missing required parameter: title (notepad name)")
	}
	game = NormalizeGame(game)

	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	key := s.resolver.RecordKey(title, game)
	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return ioError(op, "Failed to delete notepad", err)
	}
	if !exists {
		return notFoundError(op, fmt.Sprintf("Notepad '%s' not found for game '%s'", title, game))
	}

	if err := s.storage.Remove(ctx, key); err != nil {
		return ioError(op, "Failed to delete notepad", err)
	}

	s.logger.Info("deleted notepad", "title", title, "game", game)
	return nil
}
