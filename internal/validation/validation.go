// Package validation holds the field checks shared by the booking wizard,
// inquiries and newsletter signup.
package validation

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MinPhoneDigits is the minimum number of digits a phone number must carry.
const MinPhoneDigits = 10

// ErrInvalid is matched by every *Errors value via errors.Is.
var ErrInvalid = errors.New("validation failed")

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// IsPhone reports whether s carries at least MinPhoneDigits digits once
// formatting characters are stripped.
func IsPhone(s string) bool {
	return CountDigits(s) >= MinPhoneDigits
}

// CountDigits returns the number of ASCII digits in s.
func CountDigits(s string) int {
	n := 0
	for _, r := range s {
		if '0' <= r && r <= '9' {
			n++
		}
	}
	return n
}

// Blank reports whether s is empty after trimming whitespace.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Errors collects field-level messages. The zero value is ready to use.
type Errors struct {
	Fields map[string]string `json:"fields"`
}

// Add records msg for field, keeping the first message per field.
func (e *Errors) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = msg
}

// Required adds "This field is required" when value is blank and reports
// whether the value was present.
func (e *Errors) Required(field, value string) bool {
	if Blank(value) {
		e.Add(field, "This field is required")
		return false
	}
	return true
}

// Has reports whether field failed.
func (e *Errors) Has(field string) bool {
	if e == nil {
		return false
	}
	_, ok := e.Fields[field]
	return ok
}

// Empty reports whether no field failed.
func (e *Errors) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// Err returns e as an error, or nil when nothing failed.
func (e *Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *Errors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrInvalid) true for any *Errors.
func (e *Errors) Is(target error) bool {
	return target == ErrInvalid
}

// Merge copies every field from other that e does not already have.
func (e *Errors) Merge(other *Errors) {
	if other == nil {
		return
	}
	for k, v := range other.Fields {
		e.Add(k, v)
	}
}
