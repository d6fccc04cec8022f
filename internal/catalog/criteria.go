package catalog

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Open-ended bucket thresholds. The bare top bucket ("4", "3") is read the
// same as "4+" / "3+".
const (
	topBedroomBucket  = 4
	topBathroomBucket = 3
)

var amenityLabels = map[string]string{
	"parking":   "Parking",
	"pool":      "Pool",
	"garden":    "Garden",
	"garage":    "Garage",
	"pets":      "Pets Allowed",
	"furnished": "Furnished",
}

// title upper-cases the first letter of each word. Casers carry state, so
// one is built per call.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// AmenityLabel maps a short filter key such as "pets" to the display name
// stored on listings ("Pets Allowed"). Unknown keys are title-cased.
func AmenityLabel(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	if label, ok := amenityLabels[k]; ok {
		return label
	}
	return title(strings.ReplaceAll(k, "_", " "))
}

// PriceRange bounds price inclusively. Max <= 0 means no upper bound.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r PriceRange) contains(price float64) bool {
	if price < r.Min {
		return false
	}
	return r.Max <= 0 || price <= r.Max
}

// Criteria is the conjunction of active filters. The zero value matches
// everything.
type Criteria struct {
	Query         string     `json:"query,omitempty"`
	PropertyTypes []string   `json:"property_types,omitempty"`
	Price         PriceRange `json:"price"`
	Bedrooms      []string   `json:"bedrooms,omitempty"`
	Bathrooms     []string   `json:"bathrooms,omitempty"`
	Amenities     []string   `json:"amenities,omitempty"`
	FavoritesOnly bool       `json:"favorites_only,omitempty"`
	Favorites     []int      `json:"-"`
}

// ActiveCount returns how many filter groups are set.
func (c Criteria) ActiveCount() int {
	if c.FavoritesOnly {
		return 1
	}
	n := 0
	if strings.TrimSpace(c.Query) != "" {
		n++
	}
	if len(c.PropertyTypes) > 0 {
		n++
	}
	if c.Price.Min > 0 || c.Price.Max > 0 {
		n++
	}
	if len(c.Bedrooms) > 0 {
		n++
	}
	if len(c.Bathrooms) > 0 {
		n++
	}
	if len(c.Amenities) > 0 {
		n++
	}
	return n
}

// Matches reports whether p satisfies every active predicate. In favorites
// mode only favorite membership is checked.
func (c Criteria) Matches(p Property) bool {
	if c.FavoritesOnly {
		for _, id := range c.Favorites {
			if id == p.ID {
				return true
			}
		}
		return false
	}
	return c.matchesQuery(p) &&
		c.matchesType(p) &&
		c.Price.contains(p.Price) &&
		matchesBuckets(float64(p.Bedrooms), c.Bedrooms, topBedroomBucket) &&
		matchesBuckets(p.Bathrooms, c.Bathrooms, topBathroomBucket) &&
		c.matchesAmenities(p)
}

func (c Criteria) matchesQuery(p Property) bool {
	q := strings.ToLower(strings.TrimSpace(c.Query))
	if q == "" {
		return true
	}
	for _, field := range []string{p.Title, p.Address, p.City, p.State, p.Description, p.PropertyType, p.Neighborhood} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (c Criteria) matchesType(p Property) bool {
	if len(c.PropertyTypes) == 0 {
		return true
	}
	for _, t := range c.PropertyTypes {
		if strings.EqualFold(t, p.PropertyType) {
			return true
		}
	}
	return false
}

func (c Criteria) matchesAmenities(p Property) bool {
	for _, key := range c.Amenities {
		want := AmenityLabel(key)
		found := false
		for _, have := range p.Amenities {
			if strings.EqualFold(have, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// matchesBuckets is an OR over the selected buckets.
func matchesBuckets(value float64, buckets []string, top int) bool {
	if len(buckets) == 0 {
		return true
	}
	for _, b := range buckets {
		n, open, ok := parseBucket(b)
		if !ok {
			continue
		}
		if open || n >= top {
			if value >= float64(n) {
				return true
			}
			continue
		}
		if value == float64(n) {
			return true
		}
	}
	return false
}

func parseBucket(b string) (n int, open bool, ok bool) {
	b = strings.TrimSpace(b)
	if strings.HasSuffix(b, "+") {
		open = true
		b = strings.TrimSuffix(b, "+")
	}
	n, err := strconv.Atoi(b)
	if err != nil || n < 0 {
		return 0, false, false
	}
	return n, open, true
}

// Filter returns the members of props that satisfy c, preserving order.
func Filter(props []Property, c Criteria) []Property {
	out := make([]Property, 0, len(props))
	for _, p := range props {
		if c.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
