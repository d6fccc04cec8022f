package fixtures

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wolfman30/primer-realty/pkg/logging"
)

// DecodeFunc turns a validated document into its records.
type DecodeFunc[T any] func(data []byte) ([]T, error)

// LoadObserver receives one call per reload attempt.
type LoadObserver interface {
	ObserveFixtureLoad(collection, outcome string, duration time.Duration)
}

// Options configures a Collection.
type Options[T any] struct {
	Name      string
	Source    Source
	Validator *Validator
	Schema    string
	Decode    DecodeFunc[T]
	Observer  LoadObserver
	Logger    *logging.Logger
}

// Collection holds the currently served records of one fixture document and
// swaps them atomically on a successful reload.
type Collection[T any] struct {
	opts   Options[T]
	latest Latest
	logger *logging.Logger

	mu       sync.RWMutex
	items    []T
	loadedAt time.Time
}

// NewCollection creates an empty collection. Call Reload to populate it.
func NewCollection[T any](opts Options[T]) *Collection[T] {
	if opts.Source == nil {
		panic("fixtures: source required")
	}
	if opts.Decode == nil {
		panic("fixtures: decode func required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Collection[T]{opts: opts, logger: logger}
}

// NewStaticCollection wraps records that are already in memory.
func NewStaticCollection[T any](name string, items []T) *Collection[T] {
	return &Collection[T]{
		opts:     Options[T]{Name: name},
		logger:   logging.Default(),
		items:    items,
		loadedAt: time.Now().UTC(),
	}
}

// Items returns the current records. Callers must treat the slice as read-only.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items
}

// LoadedAt reports when the current records were applied.
func (c *Collection[T]) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// Reload fetches, validates and decodes the document. On any failure the
// previous records are kept and an error wrapping ErrFetchFailed is returned.
// If a Reload started after this one has already been applied, the result is
// dropped with ErrStale.
func (c *Collection[T]) Reload(ctx context.Context) (int, error) {
	if c.opts.Source == nil {
		return len(c.Items()), nil
	}
	token := c.latest.Begin()
	start := time.Now()

	items, err := c.load(ctx)
	if err != nil {
		c.observe("error", start)
		c.logger.Warn("fixture reload failed",
			"collection", c.opts.Name,
			"source", c.opts.Source.String(),
			"error", err,
		)
		return 0, err
	}

	c.mu.Lock()
	if !c.latest.Commit(token) {
		c.mu.Unlock()
		c.observe("stale", start)
		c.logger.Info("discarding stale fixture response", "collection", c.opts.Name, "token", token)
		return 0, ErrStale
	}
	c.items = items
	c.loadedAt = time.Now().UTC()
	c.mu.Unlock()

	c.observe("success", start)
	c.logger.Info("fixture loaded",
		"collection", c.opts.Name,
		"source", c.opts.Source.String(),
		"count", len(items),
	)
	return len(items), nil
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	data, err := c.opts.Source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if c.opts.Validator != nil && c.opts.Schema != "" {
		if err := c.opts.Validator.Validate(c.opts.Schema, data); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
		}
	}
	items, err := c.opts.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrFetchFailed, c.opts.Name, err)
	}
	return items, nil
}

func (c *Collection[T]) observe(outcome string, start time.Time) {
	if c.opts.Observer == nil {
		return
	}
	c.opts.Observer.ObserveFixtureLoad(c.opts.Name, outcome, time.Since(start))
}

// IsRetryable reports whether err came from a failed fetch the caller may retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrFetchFailed)
}
