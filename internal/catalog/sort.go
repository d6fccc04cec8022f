package catalog

import "sort"

// SortKey selects the result ordering.
type SortKey string

const (
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortNewest    SortKey = "newest"
	SortPopular   SortKey = "popular"
)

// DefaultSort is applied to fresh and cleared views.
const DefaultSort = SortPriceLow

// ParseSortKey maps unknown values to DefaultSort.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortPriceLow, SortPriceHigh, SortNewest, SortPopular:
		return k
	default:
		return DefaultSort
	}
}

// Sort returns a sorted copy of props. Popular orders by views and falls back
// to the higher id when views tie, which is also the whole ordering for
// listings without engagement data.
func Sort(props []Property, key SortKey) []Property {
	out := make([]Property, len(props))
	copy(out, props)

	var less func(a, b Property) bool
	switch ParseSortKey(string(key)) {
	case SortPriceHigh:
		less = func(a, b Property) bool { return a.Price > b.Price }
	case SortNewest:
		less = func(a, b Property) bool { return a.Listed().After(b.Listed()) }
	case SortPopular:
		less = func(a, b Property) bool {
			if a.Views != b.Views {
				return a.Views > b.Views
			}
			return a.ID > b.ID
		}
	default:
		less = func(a, b Property) bool { return a.Price < b.Price }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
