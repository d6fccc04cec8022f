package blog

import (
	"context"
	"fmt"
	"slices"

	"github.com/wolfman30/primer-realty/internal/kvstore"
	"github.com/wolfman30/primer-realty/internal/visitor"
)

// ReadArticlesKey holds the visitor's read post ids.
const ReadArticlesKey = "primer_read_articles"

// ReadTracker remembers which posts a visitor has opened.
type ReadTracker struct {
	store kvstore.Store
}

func NewReadTracker(store kvstore.Store) *ReadTracker {
	return &ReadTracker{store: store}
}

// List returns read post ids in the order they were first read.
func (t *ReadTracker) List(ctx context.Context) ([]int, error) {
	ids := []int{}
	if _, err := kvstore.GetJSON(ctx, visitor.Scope(ctx, t.store), ReadArticlesKey, &ids); err != nil {
		return nil, fmt.Errorf("blog: load read articles: %w", err)
	}
	return ids, nil
}

// MarkRead adds id to the read set. Repeated calls are no-ops.
func (t *ReadTracker) MarkRead(ctx context.Context, id int) error {
	ids, err := t.List(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(ids, id) {
		return nil
	}
	if err := kvstore.SetJSON(ctx, visitor.Scope(ctx, t.store), ReadArticlesKey, append(ids, id)); err != nil {
		return fmt.Errorf("blog: save read articles: %w", err)
	}
	return nil
}
