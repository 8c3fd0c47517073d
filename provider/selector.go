package provider

import (
	"context"
	"fmt"
)

// Selector picks which backend should get the next attempt.
type Selector[T Provider] interface {
	Select(ctx context.Context, providers map[string]T) (T, error)
}

// PrioritySelector walks a fixed priority list and returns the first
// backend that is reachable. The diarization chain consults it between
// attempts, so an unreachable backend is skipped without being called.
type PrioritySelector[T Provider] struct {
	// Priority is the ordered list of backend names to try.
	Priority []string
}

// Select returns the first available backend in priority order.
func (s *PrioritySelector[T]) Select(ctx context.Context, providers map[string]T) (T, error) {
	for _, name := range s.Priority {
		if p, ok := providers[name]; ok && p.IsAvailable(ctx) {
			return p, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("no backend in the priority list is available")
}
