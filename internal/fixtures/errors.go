package fixtures

import "errors"

var (
	// ErrFetchFailed covers network, read, parse and schema failures while
	// loading a fixture document. The previously loaded data stays in place.
	ErrFetchFailed = errors.New("fixtures: fetch failed")
	// ErrInvalidDocument marks a document that parsed but failed its schema.
	ErrInvalidDocument = errors.New("fixtures: invalid document")
	// ErrStale is returned when a newer reload was issued before this one
	// finished; its result is discarded.
	ErrStale = errors.New("fixtures: stale response discarded")
)
