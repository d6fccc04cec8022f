package catalog

import (
	"encoding/json"
	"fmt"
	"time"
)

// Property is one listing. Values are immutable once loaded.
type Property struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	Description  string   `json:"description,omitempty"`
	Price        float64  `json:"price"`
	Type         string   `json:"type"`
	PropertyType string   `json:"propertyType"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    float64  `json:"bathrooms"`
	SquareFeet   float64  `json:"squareFeet"`
	Amenities    []string `json:"amenities"`
	Images       []string `json:"images"`
	ListedDate   string   `json:"listedDate,omitempty"`
	Views        int      `json:"views,omitempty"`
}

// Listed parses ListedDate. Unparseable or missing dates yield the zero time.
func (p Property) Listed() time.Time {
	if p.ListedDate == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.DateOnly, p.ListedDate); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, p.ListedDate); err == nil {
		return t
	}
	return time.Time{}
}

// Document is the wire shape of data/properties.json.
type Document struct {
	Properties []Property `json:"properties"`
}

// DecodeDocument parses a properties document and rejects duplicate ids.
func DecodeDocument(data []byte) ([]Property, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: decode properties: %w", err)
	}
	seen := make(map[int]struct{}, len(doc.Properties))
	for _, p := range doc.Properties {
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return doc.Properties, nil
}
