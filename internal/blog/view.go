package blog

import (
	"sort"
	"strings"

	"github.com/wolfman30/primer-realty/internal/pagination"
)

const (
	// PageSize is the number of posts per page.
	PageSize = 9
	// PopularCount is the size of the most-viewed sidebar list.
	PopularCount = 4
	// AllCategories disables the category filter.
	AllCategories = "all"
)

// SortKey orders posts.
type SortKey string

const (
	SortNewest  SortKey = "newest"
	SortOldest  SortKey = "oldest"
	SortPopular SortKey = "popular"
)

// ParseSortKey maps unknown values to SortNewest.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortNewest, SortOldest, SortPopular:
		return k
	default:
		return SortNewest
	}
}

// View is the listing state.
type View struct {
	Category string  `json:"category"`
	Query    string  `json:"query,omitempty"`
	Sort     SortKey `json:"sort"`
	Page     int     `json:"page"`
}

// DefaultView lists every category, newest first, page 1.
func DefaultView() View {
	return View{Category: AllCategories, Sort: SortNewest, Page: 1}
}

// WithCategory filters by slug and returns to page 1.
func (v View) WithCategory(slug string) View {
	if slug == "" {
		slug = AllCategories
	}
	v.Category = slug
	v.Page = 1
	return v
}

// WithQuery sets the search text and returns to page 1.
func (v View) WithQuery(q string) View {
	v.Query = strings.TrimSpace(q)
	v.Page = 1
	return v
}

// WithSort changes the order and returns to page 1.
func (v View) WithSort(key SortKey) View {
	v.Sort = ParseSortKey(string(key))
	v.Page = 1
	return v
}

// GoToPage is a no-op with ErrPageOutOfRange for invalid pages.
func (v View) GoToPage(page, total int) (View, error) {
	if !pagination.InRange(page, total, PageSize) {
		return v, pagination.ErrPageOutOfRange
	}
	v.Page = page
	return v, nil
}

// Filter applies the category and search filters.
func Filter(posts []Post, v View) []Post {
	q := strings.ToLower(strings.TrimSpace(v.Query))
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if v.Category != "" && v.Category != AllCategories && p.Slug() != v.Category {
			continue
		}
		if q != "" && !matches(p, q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matches(p Post, q string) bool {
	for _, field := range []string{p.Title, p.Excerpt, p.Content, p.Author} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Sort returns a sorted copy of posts.
func Sort(posts []Post, key SortKey) []Post {
	out := make([]Post, len(posts))
	copy(out, posts)
	switch ParseSortKey(string(key)) {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Published().Before(out[j].Published()) })
	case SortPopular:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Published().After(out[j].Published()) })
	}
	return out
}

// Query returns one page of filtered, sorted posts.
func Query(posts []Post, v View) (pagination.Page[Post], error) {
	return pagination.Paginate(Sort(Filter(posts, v), v.Sort), v.Page, PageSize)
}

// Category is a sidebar entry.
type Category struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// Categories counts posts per category slug, in order of first appearance.
func Categories(posts []Post) []Category {
	out := []Category{}
	index := map[string]int{}
	for _, p := range posts {
		slug := p.Slug()
		if i, ok := index[slug]; ok {
			out[i].Count++
			continue
		}
		index[slug] = len(out)
		out = append(out, Category{Name: p.Category, Slug: slug, Count: 1})
	}
	return out
}

// Popular returns the n most viewed posts.
func Popular(posts []Post, n int) []Post {
	sorted := Sort(posts, SortPopular)
	return sorted[:min(n, len(sorted))]
}

// Featured returns the most recent post.
func Featured(posts []Post) (Post, bool) {
	if len(posts) == 0 {
		return Post{}, false
	}
	return Sort(posts, SortNewest)[0], true
}
