package core

import (
	"context"

	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	StorageType string `json:"storage_type"`
	SinkType    string `json:"sink_type,omitempty"`
	SystemDir   string `json:"system_dir"`
	UndoState   string `json:"undo_state"`
	Generation  string `json:"generation,omitempty"`
	StagedCount int    `json:"staged_count"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	state := ServiceState{
		StorageType: componentType(s.storage, "storage"),
		SystemDir:   s.resolver.SystemDir,
		UndoState:   "idle",
	}
	if s.sink != nil {
		state.SinkType = componentType(s.sink, "sink")
	}

	g, err := s.readManifest(context.Background())
	switch {
	case err != nil:
		state.UndoState = "unreadable"
	case g != nil:
		state.UndoState = "staged"
		state.Generation = g.ID.String()
		state.StagedCount = g.Count()
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

func componentType(v any, fallback string) string {
	if comp, ok := v.(introspection.Component); ok {
		return comp.ComponentType()
	}
	return fallback
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
