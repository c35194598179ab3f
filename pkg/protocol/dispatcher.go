package protocol

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/aretw0/notepad/pkg/core"
)

// Notes is the set of operations the dispatcher drives. *core.Service implements it.
type Notes interface {
	Initialize(ctx context.Context) error
	AppendEntry(ctx context.Context, title, content, game string) (core.Entry, error)
	Read(ctx context.Context, title, game string) (*core.Notepad, error)
	List(ctx context.Context, game string) ([]core.Summary, error)
	Delete(ctx context.Context, title, game string) error
	Search(ctx context.Context, query, game, title string) ([]core.SearchResult, error)
	Export(ctx context.Context, scope core.Scope, game, title string) (*core.ExportResult, error)
	Clear(ctx context.Context, scope core.Scope, game string) (*core.Generation, error)
	Undo(ctx context.Context) (*core.Generation, error)
}

var _ Notes = (*core.Service)(nil)

// Dispatcher routes commands to Notes and wraps every outcome in a Response.
type Dispatcher struct {
	notes  Notes
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(notes Notes, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{notes: notes, logger: logger}
}

// Handle runs one command. It never panics: failures, including panics in
// the handler, come back as an unsuccessful Response.
func (d *Dispatcher) Handle(ctx context.Context, cmd Command) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("command panicked", "func", cmd.Func, "panic", r, "stack", string(debug.Stack()))
			resp = fail(fmt.Sprintf("Internal error while handling %s: %v", cmd.Func, r))
		}
	}()

	d.logger.Debug("command received", "func", cmd.Func)

	switch cmd.Func {
	case FuncInitialize:
		if err := d.notes.Initialize(ctx); err != nil {
			return d.failure(cmd, err)
		}
		return ok("Notepad plugin initialized successfully", nil)
	case FuncShutdown:
		return ok("Notepad plugin shutdown successfully", nil)
	}

	req, err := Decode(cmd)
	if err != nil {
		return d.failure(cmd, err)
	}

	switch r := req.(type) {
	case *CreateNoteRequest:
		return d.createNote(ctx, r)
	case *ReadNoteRequest:
		return d.readNote(ctx, r)
	case *ListNotesRequest:
		return d.listNotes(ctx, r)
	case *DeleteNoteRequest:
		return d.deleteNote(ctx, r)
	case *SearchNotesRequest:
		return d.searchNotes(ctx, r)
	case *ExportNotesRequest:
		return d.exportNotes(ctx, r)
	case *ClearNotesRequest:
		return d.clearNotes(ctx, r)
	case *UndoClearRequest:
		return d.undoClear(ctx)
	}

	d.logger.Warn("unknown command", "func", cmd.Func)
	return fail(fmt.Sprintf("Unknown function call: %s", cmd.Func))
}

func (d *Dispatcher) failure(cmd Command, err error) Response {
	level := slog.LevelError
	var pe *ParamError
	if errors.As(err, &pe) || errors.Is(err, core.ErrValidation) || errors.Is(err, core.ErrNotFound) {
		level = slog.LevelWarn
	}
	d.logger.Log(context.Background(), level, "command failed", "func", cmd.Func, "error", err)
	return fail(err.Error())
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func (d *Dispatcher) createNote(ctx context.Context, r *CreateNoteRequest) Response {
	game := core.NormalizeGame(r.Game)
	entry, err := d.notes.AppendEntry(ctx, r.Title, r.Content, game)
	if err != nil {
		return d.failure(Command{Func: FuncCreateNote}, err)
	}
	return ok(fmt.Sprintf("Added entry #%d to notepad '%s' for game '%s': %s",
		entry.ID, r.Title, game, truncate(r.Content, 50)), nil)
}

func (d *Dispatcher) readNote(ctx context.Context, r *ReadNoteRequest) Response {
	game := core.NormalizeGame(r.Game)
	n, err := d.notes.Read(ctx, r.Title, game)
	if err != nil {
		return d.failure(Command{Func: FuncReadNote}, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Notepad '%s' for game '%s' contains %d entries", r.Title, game, len(n.Entries))
	if len(n.Entries) > 0 {
		b.WriteString(":")
		for _, e := range n.Entries {
			fmt.Fprintf(&b, "\n#%d: %s", e.ID, e.Content)
		}
	}
	return ok(b.String(), n)
}

func (d *Dispatcher) listNotes(ctx context.Context, r *ListNotesRequest) Response {
	game := core.NormalizeGame(r.Game)
	summaries, err := d.notes.List(ctx, game)
	if err != nil {
		return d.failure(Command{Func: FuncListNotes}, err)
	}

	msg := fmt.Sprintf("No notepads found for game '%s'", game)
	if len(summaries) > 0 {
		lines := []string{fmt.Sprintf("Found %d notepads for game '%s'", len(summaries), game)}
		for _, s := range summaries {
			lines = append(lines, fmt.Sprintf("- %s: %d entries", s.Title, s.EntryCount))
		}
		msg = strings.Join(lines, "\n")
	}
	return ok(msg, map[string]any{"notepads": summaries, "game": game})
}

func (d *Dispatcher) deleteNote(ctx context.Context, r *DeleteNoteRequest) Response {
	game := core.NormalizeGame(r.Game)
	if err := d.notes.Delete(ctx, r.Title, game); err != nil {
		return d.failure(Command{Func: FuncDeleteNote}, err)
	}

	msg := fmt.Sprintf("Notepad '%s' deleted successfully from game '%s'", r.Title, game)
	if r.Content != "" {
		d.logger.Info("entry-level delete requested, deleted whole notepad", "title", r.Title, "game", game)
		msg += " (single entries cannot be deleted; the whole notepad was removed)"
	}
	return ok(msg, nil)
}

func (d *Dispatcher) searchNotes(ctx context.Context, r *SearchNotesRequest) Response {
	game := core.NormalizeGame(r.Game)
	results, err := d.notes.Search(ctx, r.Query, game, r.Title)
	if err != nil {
		return d.failure(Command{Func: FuncSearch}, err)
	}
	if results == nil {
		results = []core.SearchResult{}
	}

	var msg string
	if len(results) > 0 {
		lines := []string{fmt.Sprintf("Found %d entries matching '%s' in game '%s':", len(results), r.Query, game)}
		for _, res := range results {
			lines = append(lines, fmt.Sprintf("- %s #%d: %s", res.NotepadTitle, res.EntryID, truncate(res.Content, 100)))
		}
		msg = strings.Join(lines, "\n")
	} else {
		where := fmt.Sprintf("game '%s'", game)
		if r.Title != "" {
			where = fmt.Sprintf("notepad '%s'", r.Title)
		}
		msg = fmt.Sprintf("No entries found matching '%s' in %s", r.Query, where)
	}
	return ok(msg, map[string]any{"results": results, "game": game, "query": r.Query})
}

func (d *Dispatcher) exportNotes(ctx context.Context, r *ExportNotesRequest) Response {
	res, err := d.notes.Export(ctx, core.Scope(r.Scope), r.Game, r.Title)
	if err != nil {
		return d.failure(Command{Func: FuncExport}, err)
	}
	msg := fmt.Sprintf("Successfully exported to %s:\n- %s", exportPlace(res.Location), filepath.Base(res.Path))
	return ok(msg, map[string]any{
		"exported_files":  []string{res.Path},
		"export_location": res.Location,
		"notepads":        res.Notepads,
		"entries":         res.Entries,
	})
}

// exportPlace names the export directory the way users know it.
func exportPlace(location string) string {
	if filepath.Base(location) == "Desktop" {
		return "Desktop"
	}
	return location
}

func (d *Dispatcher) clearNotes(ctx context.Context, r *ClearNotesRequest) Response {
	scope := core.Scope(r.Scope)
	g, err := d.notes.Clear(ctx, scope, r.Game)
	if err != nil {
		return d.failure(Command{Func: FuncClear}, err)
	}
	return ok(fmt.Sprintf("Cleared %d notepads from %s. Use undo_clear to restore them.", g.Count(), describe(g)),
		map[string]any{"generation": g.ID.String(), "cleared": g.Count(), "scope": g.Scope})
}

func (d *Dispatcher) undoClear(ctx context.Context) Response {
	g, err := d.notes.Undo(ctx)
	if err != nil {
		return d.failure(Command{Func: FuncUndoClear}, err)
	}
	return ok(fmt.Sprintf("Restored %d notepads to %s", g.Count(), describe(g)),
		map[string]any{"generation": g.ID.String(), "restored": g.Count(), "scope": g.Scope})
}

func describe(g *core.Generation) string {
	if g.Scope == core.ScopeAll {
		return "all games"
	}
	return fmt.Sprintf("game '%s'", g.Game)
}
