// Package visitor identifies anonymous site visitors so that their
// browser-style state (favorites, read articles, newsletter flag) can be kept
// apart in the shared key-value store.
package visitor

import (
	"context"

	"github.com/wolfman30/primer-realty/internal/kvstore"
)

type ctxKey string

const idKey ctxKey = "primer.visitor_id"

// WithID stores the visitor id in context.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idKey, id)
}

// IDFromContext extracts the visitor id if present.
func IDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(idKey)
	if val == nil {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}

// Scope returns a view of store namespaced to the visitor in ctx. Requests
// without a visitor share the "anonymous" namespace.
func Scope(ctx context.Context, store kvstore.Store) kvstore.Store {
	id, ok := IDFromContext(ctx)
	if !ok {
		id = "anonymous"
	}
	return kvstore.WithPrefix(store, "visitor", id)
}
