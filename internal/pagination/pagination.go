// Package pagination slices sorted collections into fixed-size, 1-based pages.
package pagination

import "errors"

// ErrPageOutOfRange is returned for page 0, negative pages, and pages past the last one.
var ErrPageOutOfRange = errors.New("pagination: page out of range")

// Page is one slice of a larger ordered collection.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

// TotalPages returns ceil(total/size); zero items means zero pages.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// InRange reports whether page is a valid 1-based index for total items.
func InRange(page, total, size int) bool {
	return page >= 1 && page <= TotalPages(total, size)
}

// Paginate returns the requested page of items. An empty collection yields an
// empty first page rather than an error so callers can render "no results".
func Paginate[T any](items []T, page, size int) (Page[T], error) {
	total := len(items)
	pages := TotalPages(total, size)
	if total == 0 && page == 1 {
		return Page[T]{Items: []T{}, Page: 1, PageSize: size}, nil
	}
	if !InRange(page, total, size) {
		return Page[T]{}, ErrPageOutOfRange
	}

	start := (page - 1) * size
	end := min(start+size, total)
	out := make([]T, end-start)
	copy(out, items[start:end])

	return Page[T]{
		Items:      out,
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: pages,
		HasPrev:    page > 1,
		HasNext:    page < pages,
	}, nil
}
