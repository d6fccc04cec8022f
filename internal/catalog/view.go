package catalog

import (
	"github.com/wolfman30/primer-realty/internal/pagination"
)

// PageSize is the number of listings per catalog page.
const PageSize = 12

// View is the full state of a catalog listing: filters, ordering and page.
// Updates return a new View and never touch the receiver.
type View struct {
	Criteria Criteria `json:"criteria"`
	Sort     SortKey  `json:"sort"`
	Page     int      `json:"page"`
}

// DefaultView is the unfiltered first page in default order.
func DefaultView() View {
	return View{Sort: DefaultSort, Page: 1}
}

// WithCriteria replaces the filters and returns to page 1.
func (v View) WithCriteria(c Criteria) View {
	v.Criteria = c
	v.Page = 1
	return v
}

// WithSort changes the ordering. The match count does not change, so the
// current page stays valid.
func (v View) WithSort(key SortKey) View {
	v.Sort = ParseSortKey(string(key))
	return v
}

// GoToPage moves to page given total matches. Out-of-range pages return the
// unchanged view and pagination.ErrPageOutOfRange.
func (v View) GoToPage(page, total int) (View, error) {
	if !pagination.InRange(page, total, PageSize) {
		return v, pagination.ErrPageOutOfRange
	}
	v.Page = page
	return v, nil
}

// Cleared resets filters, ordering and page.
func (v View) Cleared() View {
	return DefaultView()
}

// Result is one rendered page of a query.
type Result struct {
	Items       []Property `json:"items"`
	Total       int        `json:"total"`
	Page        int        `json:"page"`
	PageSize    int        `json:"page_size"`
	TotalPages  int        `json:"total_pages"`
	HasPrev     bool       `json:"has_prev"`
	HasNext     bool       `json:"has_next"`
	NoResults   bool       `json:"no_results"`
	Sort        SortKey    `json:"sort"`
	ActiveCount int        `json:"active_filters"`
}

// Query filters, sorts and paginates props according to v. An empty match set
// is reported through NoResults, not as an error.
func Query(props []Property, v View) (Result, error) {
	sorted := Sort(Filter(props, v.Criteria), v.Sort)
	p, err := pagination.Paginate(sorted, v.Page, PageSize)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Items:       p.Items,
		Total:       p.Total,
		Page:        p.Page,
		PageSize:    p.PageSize,
		TotalPages:  p.TotalPages,
		HasPrev:     p.HasPrev,
		HasNext:     p.HasNext,
		NoResults:   p.Total == 0,
		Sort:        ParseSortKey(string(v.Sort)),
		ActiveCount: v.Criteria.ActiveCount(),
	}, nil
}
