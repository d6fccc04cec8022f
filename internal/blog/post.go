// Package blog serves the article listing: category and text filters,
// ordering, pagination and the sidebar lists.
package blog

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrPostNotFound is returned when no post has the requested id.
var ErrPostNotFound = errors.New("blog: post not found")

// DefaultReadTime is shown for posts that do not carry one.
const DefaultReadTime = "5 min read"

// Post is one article.
type Post struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Author   string `json:"author"`
	Date     string `json:"date"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content"`
	Image    string `json:"image"`
	Views    int    `json:"views"`
	ReadTime string `json:"readTime"`
}

// Published parses Date; bad dates sort as the zero time.
func (p Post) Published() time.Time {
	t, err := time.Parse(time.DateOnly, p.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Slug is the post's category slug.
func (p Post) Slug() string {
	return CategorySlug(p.Category)
}

var whitespace = regexp.MustCompile(`\s+`)

// CategorySlug lower-cases name and joins words with "-".
func CategorySlug(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(name), "-")
}

type document struct {
	Posts []Post `json:"posts"`
}

// DecodeDocument parses a blog document, filling in default read times.
func DecodeDocument(data []byte) ([]Post, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("blog: decode posts: %w", err)
	}
	for i := range doc.Posts {
		if doc.Posts[i].ReadTime == "" {
			doc.Posts[i].ReadTime = DefaultReadTime
		}
	}
	return doc.Posts, nil
}
