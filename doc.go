// Package notepad is the composition root of a per-game notepad store.
//
// Notes are short text entries grouped into named notepads, and notepads are
// grouped by game. Each notepad is one JSON record under
// <root>/<game>/<title>.json, so a game's notes never leak into another game.
//
// Features:
//
//   - **Append-only notepads**: entries get sequential ids and timestamps.
//   - **Search**: case-insensitive substring search within a game.
//   - **Export**: plain-text reports for one notepad, one game or every game.
//   - **Clear with undo**: clearing moves records to a staging area; the latest
//     clear can be restored until the next one.
//   - **Assistant protocol**: a JSON command loop (see pkg/protocol) for
//     driving the store from an assistant host over stdio.
//   - **Pluggable storage**: the filesystem adapter is the default; an in-memory
//     adapter serves tests and embedding.
//
// Usage:
//
//	svc, err := notepad.New("",
//		notepad.WithExportDir(os.TempDir()),
//		notepad.WithLogger(logger),
//	)
//
//	entry, err := svc.AppendEntry(ctx, "Quests", "Find the key", "Zelda")
package notepad
