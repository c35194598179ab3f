package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// EncodeNotepad serializes a record: indented JSON, non-ASCII and HTML kept verbatim.
func EncodeNotepad(n *Notepad) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeNotepad parses a record.
func DecodeNotepad(data []byte) (*Notepad, error) {
	var n Notepad
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("invalid record: %w", err)
	}
	if n.Entries == nil {
		n.Entries = []Entry{}
	}
	return &n, nil
}

func (s *Service) loadRecord(ctx context.Context, key string) (*Notepad, error) {
	data, err := s.storage.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	return DecodeNotepad(data)
}

func (s *Service) saveRecord(ctx context.Context, key string, n *Notepad) error {
	data, err := EncodeNotepad(n)
	if err != nil {
		return fmt.Errorf("failed to serialize notepad: %w", err)
	}
	return s.storage.Write(ctx, key, data)
}

type loadedRecord struct {
	key     string
	notepad *Notepad
}

// loadDir loads every readable record directly inside dir, in enumeration order.
// Unreadable records are logged and skipped.
func (s *Service) loadDir(ctx context.Context, dir string) ([]loadedRecord, error) {
	keys, err := s.storage.List(ctx, dir, RecordPattern)
	if err != nil {
		return nil, err
	}

	records := make([]loadedRecord, 0, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := s.loadRecord(ctx, key)
		if err != nil {
			s.logger.Warn("skipping unreadable notepad", "key", key, "error", err)
			continue
		}
		records = append(records, loadedRecord{key: key, notepad: n})
	}
	return records, nil
}
