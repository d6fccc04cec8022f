package catalog

import (
	"net/url"
	"strconv"
	"strings"
)

// ParseQuery builds a View from catalog URL parameters. Unparseable numbers
// fall back to their defaults rather than failing the request.
//
// Recognised keys: location or q (free text), type (repeatable or comma
// separated), minPrice, maxPrice, bedrooms, bathrooms, amenities, favorites,
// sort and page.
func ParseQuery(q url.Values) View {
	v := DefaultView()
	c := Criteria{}

	if loc := strings.TrimSpace(q.Get("location")); loc != "" {
		c.Query = loc
	}
	if text := strings.TrimSpace(q.Get("q")); text != "" {
		c.Query = text
	}
	c.PropertyTypes = listParam(q, "type")
	c.Price.Min = floatParam(q.Get("minPrice"))
	c.Price.Max = floatParam(q.Get("maxPrice"))
	c.Bedrooms = listParam(q, "bedrooms")
	c.Bathrooms = listParam(q, "bathrooms")
	c.Amenities = listParam(q, "amenities")

	if q.Get("favorites") == "true" {
		c = Criteria{FavoritesOnly: true}
	}
	v = v.WithCriteria(c)

	if s := q.Get("sort"); s != "" {
		v = v.WithSort(SortKey(s))
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil {
		v.Page = p
	}
	return v
}

func listParam(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func floatParam(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
