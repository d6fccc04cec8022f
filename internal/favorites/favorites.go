// Package favorites keeps each visitor's saved property ids.
package favorites

import (
	"context"
	"fmt"
	"slices"

	"github.com/wolfman30/primer-realty/internal/kvstore"
	"github.com/wolfman30/primer-realty/internal/visitor"
)

// StorageKey is the key favorites live under inside a visitor namespace.
const StorageKey = "primer_favorites"

// Toggle adds id when absent and removes it when present. Toggling the same
// id twice returns the original set. The input slice is not modified.
func Toggle(ids []int, id int) ([]int, bool) {
	if i := slices.Index(ids, id); i >= 0 {
		out := make([]int, 0, len(ids)-1)
		out = append(out, ids[:i]...)
		return append(out, ids[i+1:]...), false
	}
	out := make([]int, len(ids), len(ids)+1)
	copy(out, ids)
	return append(out, id), true
}

// Service reads and writes favorites for the visitor found in the context.
type Service struct {
	store kvstore.Store
}

// NewService creates a favorites service over a shared store.
func NewService(store kvstore.Store) *Service {
	if store == nil {
		panic("favorites: store required")
	}
	return &Service{store: store}
}

// List returns the visitor's favorites in the order they were added.
func (s *Service) List(ctx context.Context) ([]int, error) {
	ids := []int{}
	if _, err := kvstore.GetJSON(ctx, visitor.Scope(ctx, s.store), StorageKey, &ids); err != nil {
		return nil, fmt.Errorf("favorites: load: %w", err)
	}
	return ids, nil
}

// Contains reports whether id is a favorite.
func (s *Service) Contains(ctx context.Context, id int) (bool, error) {
	ids, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, id), nil
}

// Toggle flips id and returns the new list and whether id is now a favorite.
func (s *Service) Toggle(ctx context.Context, id int) ([]int, bool, error) {
	ids, err := s.List(ctx)
	if err != nil {
		return nil, false, err
	}
	next, added := Toggle(ids, id)
	if err := kvstore.SetJSON(ctx, visitor.Scope(ctx, s.store), StorageKey, next); err != nil {
		return nil, false, fmt.Errorf("favorites: save: %w", err)
	}
	return next, added, nil
}

// Clear removes every favorite.
func (s *Service) Clear(ctx context.Context) error {
	if err := visitor.Scope(ctx, s.store).Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("favorites: clear: %w", err)
	}
	return nil
}
