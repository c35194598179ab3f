// Package core holds the notepad domain: records, namespaces, and the service that
// implements every notepad operation on top of a Storage.
package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// DefaultGame is the namespace used when a caller does not name one.
const DefaultGame = "General"

// Timestamp is a point in time persisted as an ISO-8601 string.
//
// It is written as RFC 3339 with nanoseconds. Reading also accepts the naive
// "2006-01-02T15:04:05.999999" form (no zone, local time) found in older records.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed
		return nil
	}
	// Fractional seconds are accepted by Parse even though the layout omits them.
	parsed, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// Display renders the timestamp for humans, "Unknown" when unset.
func (t Timestamp) Display() string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format("2006-01-02 15:04:05")
}

// Entry is a single note inside a notepad.
type Entry struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	CreatedAt Timestamp `json:"created_at"`
}

// Notepad is a named, per-game collection of entries persisted as one record.
// Entries are kept in insertion order, which is also display order.
type Notepad struct {
	Title     string    `json:"title"`
	Game      string    `json:"game"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
	Entries   []Entry   `json:"entries"`
}

// Summary is the catalog view of a notepad.
type Summary struct {
	Title      string    `json:"title"`
	Game       string    `json:"game"`
	EntryCount int       `json:"entry_count"`
	CreatedAt  Timestamp `json:"created_at"`
	UpdatedAt  Timestamp `json:"updated_at"`
}

// SearchResult is one entry matching a search query.
type SearchResult struct {
	NotepadTitle string    `json:"notepad_title"`
	EntryID      int       `json:"entry_id"`
	Content      string    `json:"content"`
	CreatedAt    Timestamp `json:"created_at"`
}

// GameNotepads groups every readable notepad of one game directory.
type GameNotepads struct {
	Game     string     `json:"game"`
	Notepads []*Notepad `json:"notepads"`
}

// Scope is the breadth of an export or clear.
type Scope string

const (
	ScopeNotepad Scope = "notepad"
	ScopeGame    Scope = "game"
	ScopeAll     Scope = "all"
)

// EventType represents the type of change to a record.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a notepad record observed on storage.
type Event struct {
	Type      EventType
	Key       string
	Game      string
	Name      string // sanitized title, i.e. the record file name without extension
	Timestamp int64  // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Key)
}
