package memory

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/notepad/pkg/core"
)

// Sink keeps export artifacts in memory, keyed by name.
type Sink struct {
	mu        sync.Mutex
	artifacts map[string][]byte
	order     []string
}

// NewSink creates an empty sink.
func NewSink() *Sink {
	return &Sink{artifacts: make(map[string][]byte)}
}

// Write implements core.Sink with the same collision suffixing as the fs sink.
func (s *Sink) Write(ctx context.Context, name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for n := 1; ; n++ {
		if _, taken := s.artifacts[candidate]; !taken {
			break
		}
		candidate = fmt.Sprintf("%s_%d%s", stem, n, ext)
	}
	s.artifacts[candidate] = slices.Clone(data)
	s.order = append(s.order, candidate)
	return candidate, nil
}

// Location implements core.Sink.
func (s *Sink) Location() string {
	return "memory"
}

// Get returns an artifact by name.
func (s *Sink) Get(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.artifacts[name]
	return string(data), ok
}

// Names returns artifact names in write order.
func (s *Sink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.order)
}

var _ core.Sink = (*Sink)(nil)
