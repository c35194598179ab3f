package core

import "context"

// Storage defines the contract for the byte store notepads live in.
//
// Keys are slash-separated paths relative to the storage root
// (e.g. "Cyberpunk 2077/Missions.json"). Implementations must report missing
// keys with an error that wraps fs.ErrNotExist.
type Storage interface {
	// Read returns the content stored under key.
	Read(ctx context.Context, key string) ([]byte, error)
	// Write replaces the content under key, creating parent directories.
	// The replacement must be atomic: readers see the old or the new content, never a mix.
	Write(ctx context.Context, key string, data []byte) error
	// Exists reports whether key holds content.
	Exists(ctx context.Context, key string) (bool, error)
	// List returns the keys directly inside dir whose base name matches pattern,
	// sorted lexically. A missing dir yields an empty list.
	List(ctx context.Context, dir, pattern string) ([]string, error)
	// Dirs returns the names of the directories directly inside dir, sorted lexically.
	// Hidden entries (leading dot) are never returned.
	Dirs(ctx context.Context, dir string) ([]string, error)
	// Move renames src to dst, creating dst's parent directories.
	Move(ctx context.Context, src, dst string) error
	// Remove deletes the content under key.
	Remove(ctx context.Context, key string) error
	// EnsureDir creates dir and its parents if missing. "" means the root.
	EnsureDir(ctx context.Context, dir string) error
	// RemoveDir deletes dir if it is empty; a non-empty or missing dir is left alone.
	RemoveDir(ctx context.Context, dir string) error
	// RemoveAll deletes dir and everything below it.
	RemoveAll(ctx context.Context, dir string) error
}

// Locker is implemented by storages shared between processes.
// Lock blocks until the caller holds the single-writer lock or ctx is done.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// Watchable is implemented by storages that can report changes to records.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Sink receives rendered export artifacts.
type Sink interface {
	// Write stores data under a name derived from name, never overwriting an
	// existing artifact, and returns where it ended up.
	Write(ctx context.Context, name string, data []byte) (string, error)
	// Location describes where artifacts go (a directory for the filesystem sink).
	Location() string
}
