package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"
)

const exportStampLayout = "20060102_150405"

// ExportResult describes a written export artifact.
type ExportResult struct {
	Scope    Scope  `json:"scope"`
	Path     string `json:"path"`
	Location string `json:"location"`
	Games    int    `json:"games"`
	Notepads int    `json:"notepads"`
	Entries  int    `json:"entries"`
}

// Export renders a notepad, a game, or every game into one text artifact.
func (s *Service) Export(ctx context.Context, scope Scope, game, title string) (*ExportResult, error) {
	const op = "export"
	game = NormalizeGame(game)
	now := s.now()
	stamp := now.Format(exportStampLayout)

	var (
		name   string
		body   string
		result = &ExportResult{Scope: scope}
	)

	switch scope {
	case ScopeNotepad:
		if title == "" {
			return nil, validationError(op, "Missing required parameter: title (notepad name) for notepad scope")
		}
		n, err := s.loadRecord(ctx, s.resolver.RecordKey(title, game))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFoundError(op, fmt.Sprintf("Notepad '%s' not found for game '%s'", title, game))
		}
		if err != nil {
			return nil, ioError(op, "Failed to export notes", err)
		}
		name = fmt.Sprintf("Export_%s_%s_%s.txt", s.resolver.GameDir(game), Sanitize(n.Title), stamp)
		body = RenderNotepad(n, now)
		result.Games, result.Notepads, result.Entries = 1, 1, len(n.Entries)

	case ScopeGame:
		records, err := s.loadDir(ctx, s.resolver.GameDir(game))
		if err != nil {
			return nil, ioError(op, "Failed to export notes", err)
		}
		if len(records) == 0 {
			return nil, notFoundError(op, fmt.Sprintf("No notepads found for game '%s'", game))
		}
		pads := make([]*Notepad, 0, len(records))
		for _, r := range records {
			pads = append(pads, r.notepad)
			result.Entries += len(r.notepad.Entries)
		}
		name = fmt.Sprintf("Export_%s_All_%s.txt", s.resolver.GameDir(game), stamp)
		body = RenderGame(game, pads, now)
		result.Games, result.Notepads = 1, len(pads)

	case ScopeAll:
		games, err := s.ListAll(ctx)
		if err != nil {
			return nil, ioError(op, "Failed to export notes", err)
		}
		if len(games) == 0 {
			return nil, notFoundError(op, "No games with notepads found")
		}
		for _, g := range games {
			result.Notepads += len(g.Notepads)
			for _, n := range g.Notepads {
				result.Entries += len(n.Entries)
			}
		}
		name = fmt.Sprintf("Export_All_Games_%s.txt", stamp)
		body = RenderAll(games, now)
		result.Games = len(games)

	default:
		return nil, validationError(op, fmt.Sprintf("Invalid scope '%s'. Must be 'notepad', 'game', or 'all'", scope))
	}

	if s.sink == nil {
		return nil, ioError(op, "Failed to export notes", errors.New("no export destination configured"))
	}
	p, err := s.sink.Write(ctx, name, []byte(body))
	if err != nil {
		return nil, ioError(op, "Failed to export notes", err)
	}
	result.Path = p
	result.Location = s.sink.Location()

	s.logger.Info("exported notes", "scope", scope, "path", p, "notepads", result.Notepads)
	return result, nil
}

func rule(ch string, n int) string {
	return strings.Repeat(ch, n) + "\n"
}

// indent prefixes every line after the first with pad, so multi-line content
// stays inside its nesting level.
func indent(content, pad string) string {
	return strings.ReplaceAll(content, "\n", "\n"+pad)
}

func sortedByTitle(pads []*Notepad) []*Notepad {
	out := slices.Clone(pads)
	slices.SortStableFunc(out, func(a, b *Notepad) int {
		return strings.Compare(a.Title, b.Title)
	})
	return out
}

func countEntries(pads []*Notepad) int {
	total := 0
	for _, n := range pads {
		total += len(n.Entries)
	}
	return total
}

// RenderNotepad renders a single notepad report.
func RenderNotepad(n *Notepad, exportedAt time.Time) string {
	var b strings.Builder

	b.WriteString(rule("=", 60))
	b.WriteString("NOTEPAD EXPORT\n")
	b.WriteString(rule("=", 60))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Notepad: %s\n", n.Title)
	fmt.Fprintf(&b, "Game: %s\n", n.Game)
	fmt.Fprintf(&b, "Created: %s\n", n.CreatedAt.Display())
	fmt.Fprintf(&b, "Last Updated: %s\n", n.UpdatedAt.Display())
	fmt.Fprintf(&b, "Total Entries: %d\n", len(n.Entries))
	fmt.Fprintf(&b, "Exported: %s\n", exportedAt.Format(time.DateTime))
	b.WriteString("\n")
	b.WriteString(rule("=", 60))
	b.WriteString("\n")

	if len(n.Entries) == 0 {
		b.WriteString("No entries found in this notepad.\n")
		return b.String()
	}
	for _, e := range n.Entries {
		fmt.Fprintf(&b, "Entry #%d\n", e.ID)
		b.WriteString(rule("-", 20))
		fmt.Fprintf(&b, "Created: %s\n", e.CreatedAt.Display())
		fmt.Fprintf(&b, "Content:\n%s\n", e.Content)
		b.WriteString("\n")
		b.WriteString(rule("-", 40))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderGame renders every notepad of one game, sorted by title.
func RenderGame(game string, pads []*Notepad, exportedAt time.Time) string {
	pads = sortedByTitle(pads)
	var b strings.Builder

	b.WriteString(rule("=", 80))
	fmt.Fprintf(&b, "GAME EXPORT - %s\n", strings.ToUpper(game))
	b.WriteString(rule("=", 80))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Game: %s\n", game)
	fmt.Fprintf(&b, "Total Notepads: %d\n", len(pads))
	fmt.Fprintf(&b, "Total Entries: %d\n", countEntries(pads))
	fmt.Fprintf(&b, "Exported: %s\n", exportedAt.Format(time.DateTime))
	b.WriteString("\n")
	b.WriteString(rule("=", 80))
	b.WriteString("\n")

	for i, n := range pads {
		fmt.Fprintf(&b, "NOTEPAD %d: %s\n", i+1, n.Title)
		b.WriteString(rule("=", 60))
		fmt.Fprintf(&b, "Created: %s\n", n.CreatedAt.Display())
		fmt.Fprintf(&b, "Last Updated: %s\n", n.UpdatedAt.Display())
		fmt.Fprintf(&b, "Entries: %d\n\n", len(n.Entries))

		if len(n.Entries) == 0 {
			b.WriteString("  No entries in this notepad.\n\n")
		}
		for _, e := range n.Entries {
			fmt.Fprintf(&b, "  Entry #%d\n", e.ID)
			b.WriteString("  " + rule("-", 18))
			fmt.Fprintf(&b, "  Created: %s\n", e.CreatedAt.Display())
			fmt.Fprintf(&b, "  Content:\n  %s\n", indent(e.Content, "  "))
			b.WriteString("\n")
		}

		if i < len(pads)-1 {
			b.WriteString("\n")
			b.WriteString(rule("=", 80))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RenderAll renders every game, games by name and notepads by title.
func RenderAll(games []GameNotepads, exportedAt time.Time) string {
	games = slices.Clone(games)
	slices.SortStableFunc(games, func(a, b GameNotepads) int {
		return strings.Compare(a.Game, b.Game)
	})

	totalNotepads, totalEntries := 0, 0
	for _, g := range games {
		totalNotepads += len(g.Notepads)
		totalEntries += countEntries(g.Notepads)
	}

	var b strings.Builder
	b.WriteString(rule("=", 100))
	b.WriteString("MASTER EXPORT - ALL GAMES\n")
	b.WriteString(rule("=", 100))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total Games: %d\n", len(games))
	fmt.Fprintf(&b, "Total Notepads: %d\n", totalNotepads)
	fmt.Fprintf(&b, "Total Entries: %d\n", totalEntries)
	fmt.Fprintf(&b, "Exported: %s\n", exportedAt.Format(time.DateTime))
	b.WriteString("\n")
	b.WriteString(rule("=", 100))
	b.WriteString("\n")

	for gi, g := range games {
		pads := sortedByTitle(g.Notepads)

		fmt.Fprintf(&b, "GAME %d: %s\n", gi+1, g.Game)
		b.WriteString(rule("=", 80))
		fmt.Fprintf(&b, "Notepads: %d\n", len(pads))
		fmt.Fprintf(&b, "Total Entries: %d\n\n", countEntries(pads))

		for ni, n := range pads {
			fmt.Fprintf(&b, "  NOTEPAD %d: %s\n", ni+1, n.Title)
			b.WriteString("  " + rule("-", 50))
			fmt.Fprintf(&b, "  Created: %s\n", n.CreatedAt.Display())
			fmt.Fprintf(&b, "  Last Updated: %s\n", n.UpdatedAt.Display())
			fmt.Fprintf(&b, "  Entries: %d\n\n", len(n.Entries))

			if len(n.Entries) == 0 {
				b.WriteString("    No entries in this notepad.\n\n")
			}
			for _, e := range n.Entries {
				fmt.Fprintf(&b, "    Entry #%d\n", e.ID)
				b.WriteString("    " + rule("-", 16))
				fmt.Fprintf(&b, "    Created: %s\n", e.CreatedAt.Display())
				fmt.Fprintf(&b, "    Content:\n    %s\n", indent(e.Content, "    "))
				b.WriteString("\n")
			}

			if ni < len(pads)-1 {
				b.WriteString("\n")
			}
		}

		if gi < len(games)-1 {
			b.WriteString("\n")
			b.WriteString(rule("=", 100))
			b.WriteString("\n")
		}
	}
	return b.String()
}
