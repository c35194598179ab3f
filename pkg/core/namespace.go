package core

import (
	"path"
	"strings"
)

const (
	// RecordExt is the extension of every notepad record.
	RecordExt = ".json"
	// RecordPattern matches record file names inside a game directory.
	RecordPattern = "*" + RecordExt

	maxNameLen   = 100
	invalidChars = `<>:"/\|?*`
)

// Resolver maps (game, title) pairs to storage keys.
//
// Two titles that sanitize to the same name share a key; later writes merge into
// the earlier record.
type Resolver struct {
	// SystemDir is the hidden directory reserved for bookkeeping (lock, undo buffer).
	// A game can never resolve to it.
	SystemDir string
}

// NormalizeGame returns the display name of a game namespace.
func NormalizeGame(game string) string {
	if strings.TrimSpace(game) == "" {
		return DefaultGame
	}
	return game
}

// Sanitize replaces characters that are unsafe in file names with '_' and
// truncates the result to 100 runes.
func Sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidChars, r) {
			return '_'
		}
		return r
	}, name)

	runes := []rune(name)
	if len(runes) > maxNameLen {
		name = string(runes[:maxNameLen])
	}
	return name
}

// GameDir returns the storage directory of a game namespace.
func (r Resolver) GameDir(game string) string {
	dir := Sanitize(NormalizeGame(game))
	// Dot-led names would escape the root or be hidden from the catalog.
	if strings.HasPrefix(dir, ".") || (r.SystemDir != "" && dir == r.SystemDir) {
		dir = "_" + dir
	}
	return dir
}

// RecordKey returns the storage key of a notepad record.
func (r Resolver) RecordKey(title, game string) string {
	return path.Join(r.GameDir(game), Sanitize(title)+RecordExt)
}
