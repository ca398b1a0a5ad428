package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/stwalsh4118/estatedesk/internal/logger"
	"github.com/stwalsh4118/estatedesk/internal/storage"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidPatch is returned when a patch does not decode into the record type.
	ErrInvalidPatch = errors.New("invalid patch")

	// ErrPersist wraps failures to write a collection back to storage.
	ErrPersist = errors.New("failed to persist collection")
)

// Repository is the per-entity store contract: list, upsert by id with a
// shallow merge, and idempotent delete. Every write rewrites the whole
// collection.
type Repository[T any] interface {
	// List returns every record in stored order.
	List(ctx context.Context) ([]T, error)

	// Get returns the record with id or ErrNotFound.
	Get(ctx context.Context, id string) (T, error)

	// Upsert merges patch into the record whose id it carries, or creates
	// a new record with a fresh id when the id is missing or unknown.
	// It returns the saved record and the full updated collection.
	Upsert(ctx context.Context, patch Patch) (T, []T, error)

	// UpsertPrepared is Upsert with prepare run under the collection lock
	// once it is known whether the patch creates a record. An error from
	// prepare aborts the write. created reports which path was taken.
	UpsertPrepared(ctx context.Context, patch Patch, prepare PrepareFunc) (record T, all []T, created bool, err error)

	// Update applies fn to the record with id and saves the collection.
	Update(ctx context.Context, id string, fn func(*T) error) (T, error)

	// Delete removes the record with id. It reports whether a record was
	// removed; a missing id leaves the collection untouched.
	Delete(ctx context.Context, id string) (bool, error)
}

// PrepareFunc validates or completes a patch before it is applied. It
// returns the patch to apply.
type PrepareFunc func(patch Patch, created bool) (Patch, error)

// Placement controls where new records go.
type Placement int

const (
	// Prepend puts new records first.
	Prepend Placement = iota
	// Append puts new records last.
	Append
)

// Options configures a Collection.
type Options[T any] struct {
	// Key is the storage key of the collection.
	Key string

	// IDOf returns a pointer to the record's id field.
	IDOf func(*T) *string

	// Seed provides the records used when the key has never been written
	// or cannot be read. Nil means start empty.
	Seed func() ([]T, error)

	Placement Placement

	// OnCreate runs on a new record after its id is assigned.
	OnCreate func(*T)

	// Normalize runs after every upsert or update and restores derived
	// fields. patch is nil for Update.
	Normalize func(record *T, patch Patch, created bool)
}

// Collection is a Repository over one storage key. A mutex serializes
// read-modify-write cycles within the process.
type Collection[T any] struct {
	store storage.Store
	ids   *IDGenerator
	log   *logger.Logger
	opts  Options[T]
	mu    sync.Mutex
}

// NewCollection creates a Collection.
func NewCollection[T any](store storage.Store, ids *IDGenerator, log *logger.Logger, opts Options[T]) *Collection[T] {
	return &Collection[T]{
		store: store,
		ids:   ids,
		log:   log.With(map[string]interface{}{"collection": opts.Key}),
		opts:  opts,
	}
}

// Key returns the storage key.
func (c *Collection[T]) Key() string {
	return c.opts.Key
}

func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	items, err := c.load(ctx)
	if err != nil {
		return zero, err
	}
	if i := c.indexOf(items, id); i >= 0 {
		return items[i], nil
	}
	return zero, fmt.Errorf("%w: %s %s", ErrNotFound, c.opts.Key, id)
}

func (c *Collection[T]) Upsert(ctx context.Context, patch Patch) (T, []T, error) {
	record, all, _, err := c.UpsertPrepared(ctx, patch, nil)
	return record, all, err
}

func (c *Collection[T]) UpsertPrepared(ctx context.Context, patch Patch, prepare PrepareFunc) (T, []T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	items, err := c.load(ctx)
	if err != nil {
		return zero, nil, false, err
	}

	i := -1
	if id := patch.ID(); id != "" {
		i = c.indexOf(items, id)
	}
	created := i < 0

	if prepare != nil {
		if patch, err = prepare(patch, created); err != nil {
			return zero, nil, false, err
		}
	}

	if !created {
		id := *c.opts.IDOf(&items[i])
		record, err := merge(&items[i], patch)
		if err != nil {
			return zero, nil, false, err
		}
		if c.opts.Normalize != nil {
			c.opts.Normalize(&record, patch, false)
		}
		*c.opts.IDOf(&record) = id

		updated := make([]T, len(items))
		copy(updated, items)
		updated[i] = record
		if err := c.save(ctx, updated); err != nil {
			return zero, nil, false, err
		}

		c.log.Debug("Record updated", map[string]interface{}{"id": id})
		return record, updated, false, nil
	}

	record, err := merge[T](nil, patch)
	if err != nil {
		return zero, nil, false, err
	}
	id := c.ids.Next()
	*c.opts.IDOf(&record) = id
	if c.opts.OnCreate != nil {
		c.opts.OnCreate(&record)
	}
	if c.opts.Normalize != nil {
		c.opts.Normalize(&record, patch, true)
	}

	updated := make([]T, 0, len(items)+1)
	if c.opts.Placement == Append {
		updated = append(updated, items...)
		updated = append(updated, record)
	} else {
		updated = append(updated, record)
		updated = append(updated, items...)
	}
	if err := c.save(ctx, updated); err != nil {
		return zero, nil, false, err
	}

	c.log.Debug("Record created", map[string]interface{}{"id": id})
	return record, updated, true, nil
}

func (c *Collection[T]) Update(ctx context.Context, id string, fn func(*T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	items, err := c.load(ctx)
	if err != nil {
		return zero, err
	}

	i := c.indexOf(items, id)
	if i < 0 {
		return zero, fmt.Errorf("%w: %s %s", ErrNotFound, c.opts.Key, id)
	}

	updated := make([]T, len(items))
	copy(updated, items)
	record := updated[i]
	if err := fn(&record); err != nil {
		return zero, err
	}
	if c.opts.Normalize != nil {
		c.opts.Normalize(&record, nil, false)
	}
	*c.opts.IDOf(&record) = id
	updated[i] = record

	if err := c.save(ctx, updated); err != nil {
		return zero, err
	}
	return record, nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return false, err
	}

	kept := make([]T, 0, len(items))
	for i := range items {
		if *c.opts.IDOf(&items[i]) != id {
			kept = append(kept, items[i])
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}

	if err := c.save(ctx, kept); err != nil {
		return false, err
	}
	c.log.Debug("Record deleted", map[string]interface{}{"id": id})
	return true, nil
}

func (c *Collection[T]) indexOf(items []T, id string) int {
	for i := range items {
		if *c.opts.IDOf(&items[i]) == id {
			return i
		}
	}
	return -1
}

// load reads the collection. An absent, unreadable or corrupt document is
// treated as a fresh install: the seed (or an empty list) is returned and
// the seed is written back.
func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	data, found, err := c.store.Get(ctx, c.opts.Key)
	if err != nil {
		c.log.Warn("Collection unreadable, treating as empty", map[string]interface{}{"error": err.Error()})
		found = false
	}

	if found {
		var items []T
		err := json.Unmarshal(data, &items)
		if err == nil {
			if items == nil {
				items = []T{}
			}
			return items, nil
		}
		c.log.Warn("Collection corrupt, treating as empty", map[string]interface{}{"error": err.Error()})
	}

	if c.opts.Seed == nil {
		return []T{}, nil
	}

	items, err := c.opts.Seed()
	if err != nil {
		return nil, fmt.Errorf("failed to load seed for %s: %w", c.opts.Key, err)
	}
	if err := c.save(ctx, items); err != nil {
		c.log.Warn("Could not persist seed", map[string]interface{}{"error": err.Error()})
	} else {
		c.log.Info("Collection seeded", map[string]interface{}{"count": len(items)})
	}
	return items, nil
}

func (c *Collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPersist, c.opts.Key, err)
	}
	if err := c.store.Set(ctx, c.opts.Key, data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPersist, c.opts.Key, err)
	}
	return nil
}
