// Package lifecycle bridges notepad change feeds to aretw0/lifecycle.
package lifecycle

import (
	"context"
	"slices"
	"sync/atomic"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notepad/pkg/core"
)

// Source re-emits record events from a notepad change feed, optionally narrowed
// to some games and event types.
type Source struct {
	events   <-chan core.Event
	out      chan lifecycle.Event
	gameDirs []string
	types    []core.EventType

	forwarded atomic.Int64
	filtered  atomic.Int64
	running   atomic.Bool
}

// SourceOption narrows what a Source forwards.
type SourceOption func(*Source)

// WithGames forwards only events of the given games. Names are resolved to
// their storage directories with resolver, so "" means the default game.
func WithGames(resolver core.Resolver, games ...string) SourceOption {
	return func(s *Source) {
		for _, g := range games {
			s.gameDirs = append(s.gameDirs, resolver.GameDir(g))
		}
	}
}

// WithTypes forwards only the given event types.
func WithTypes(types ...core.EventType) SourceOption {
	return func(s *Source) {
		s.types = append(s.types, types...)
	}
}

// NewSource creates a lifecycle.Source over a notepad change feed.
func NewSource(events <-chan core.Event, opts ...SourceOption) *Source {
	s := &Source{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events implements lifecycle.Source.
func (s *Source) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards matching events until ctx is done or the feed closes, then closes Events.
func (s *Source) Start(ctx context.Context) error {
	s.running.Store(true)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		defer s.running.Store(false)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if !s.matches(e) {
					s.filtered.Add(1)
					continue
				}
				select {
				case s.out <- e:
					s.forwarded.Add(1)
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

func (s *Source) matches(e core.Event) bool {
	if len(s.gameDirs) > 0 && !slices.Contains(s.gameDirs, e.Game) {
		return false
	}
	return len(s.types) == 0 || slices.Contains(s.types, e.Type)
}

// SourceState exposes the bridge counters.
type SourceState struct {
	Running   bool             `json:"running"`
	Games     []string         `json:"games,omitempty"`
	Types     []core.EventType `json:"types,omitempty"`
	Forwarded int64            `json:"forwarded"`
	Filtered  int64            `json:"filtered"`
}

// State implements introspection.Introspectable.
func (s *Source) State() any {
	return SourceState{
		Running:   s.running.Load(),
		Games:     s.gameDirs,
		Types:     s.types,
		Forwarded: s.forwarded.Load(),
		Filtered:  s.filtered.Load(),
	}
}

// ComponentType implements introspection.Component.
func (s *Source) ComponentType() string {
	return "notepad-source"
}

var (
	_ lifecycle.Source             = (*Source)(nil)
	_ introspection.Introspectable = (*Source)(nil)
	_ introspection.Component      = (*Source)(nil)
)
