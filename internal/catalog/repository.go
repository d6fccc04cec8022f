package catalog

import (
	"context"

	"github.com/wolfman30/primer-realty/internal/fixtures"
)

// Repository serves the currently loaded listings.
type Repository struct {
	coll *fixtures.Collection[Property]
}

// NewRepository wraps a fixture collection of properties.
func NewRepository(coll *fixtures.Collection[Property]) *Repository {
	if coll == nil {
		panic("catalog: collection required")
	}
	return &Repository{coll: coll}
}

// All returns every loaded listing in document order. Read-only.
func (r *Repository) All() []Property {
	return r.coll.Items()
}

// FindByID looks up one listing.
func (r *Repository) FindByID(id int) (Property, error) {
	for _, p := range r.coll.Items() {
		if p.ID == id {
			return p, nil
		}
	}
	return Property{}, ErrPropertyNotFound
}

// Reload refetches the properties document.
func (r *Repository) Reload(ctx context.Context) (int, error) {
	return r.coll.Reload(ctx)
}
