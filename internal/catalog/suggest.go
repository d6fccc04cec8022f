package catalog

import "strings"

const (
	// MinSuggestionQuery is the shortest query that yields suggestions.
	MinSuggestionQuery = 2
	// MaxSuggestions caps the suggestion list.
	MaxSuggestions = 8
	// SimilarCount and FeaturedCount are the default list sizes.
	SimilarCount  = 3
	FeaturedCount = 6

	popularThreshold = 5
)

// Suggestion is one search-box completion.
type Suggestion struct {
	Text  string `json:"text"`
	Value string `json:"value"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

var popularSearches = []Suggestion{
	{Text: "Apartments with pool", Value: "apartment pool", Kind: "popular", Label: "Popular Search"},
	{Text: "Houses with garden", Value: "house garden", Kind: "popular", Label: "Popular Search"},
	{Text: "Modern condos", Value: "modern condo", Kind: "popular", Label: "Popular Search"},
}

// Suggestions lists matching cities, states, property types and
// neighborhoods, topped up with popular searches when fewer than five match.
func Suggestions(props []Property, query string) []Suggestion {
	q := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(q)) < MinSuggestionQuery {
		return []Suggestion{}
	}

	out := []Suggestion{}
	seen := map[string]bool{}
	add := func(s Suggestion) {
		if s.Value == "" || seen[s.Kind+"\x00"+s.Value] {
			return
		}
		seen[s.Kind+"\x00"+s.Value] = true
		out = append(out, s)
	}
	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), q) }

	for _, p := range props {
		if contains(p.City) {
			add(Suggestion{Text: p.City, Value: p.City, Kind: "city", Label: "City"})
		}
	}
	for _, p := range props {
		if contains(p.State) {
			add(Suggestion{Text: p.State, Value: p.State, Kind: "state", Label: "State"})
		}
	}
	for _, p := range props {
		if contains(p.PropertyType) {
			add(Suggestion{Text: title(p.PropertyType), Value: p.PropertyType, Kind: "propertyType", Label: "Property Type"})
		}
	}
	for _, p := range props {
		if p.Neighborhood != "" && contains(p.Neighborhood) {
			add(Suggestion{Text: p.Neighborhood, Value: p.Neighborhood, Kind: "neighborhood", Label: "Neighborhood"})
		}
	}
	if len(out) < popularThreshold {
		for _, s := range popularSearches {
			if contains(s.Text) {
				add(s)
			}
		}
	}
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

// Similar returns up to n listings of the same property type as the listing
// with the given id, excluding that listing.
func Similar(props []Property, id, n int) []Property {
	var subject *Property
	for i := range props {
		if props[i].ID == id {
			subject = &props[i]
			break
		}
	}
	out := []Property{}
	if subject == nil || n <= 0 {
		return out
	}
	for _, p := range props {
		if p.ID != id && p.PropertyType == subject.PropertyType {
			out = append(out, p)
			if len(out) == n {
				break
			}
		}
	}
	return out
}

// Featured returns the first n listings in document order.
func Featured(props []Property, n int) []Property {
	n = max(0, min(n, len(props)))
	out := make([]Property, n)
	copy(out, props[:n])
	return out
}
