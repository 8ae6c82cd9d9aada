// Package cache holds the client side mirror of a remote collection and the
// optimistic mutation protocol on top of it.
//
// A Collection is not safe for concurrent use. It is owned by the event loop
// and only touched from closures running there.
package cache

import (
	"slices"
	"time"
)

// DefaultStaleAfter is how long fetched data is considered fresh.
const DefaultStaleAfter = 5 * time.Minute

// Collection is an ordered list of items keyed by Key.
type Collection[T any] struct {
	Key        func(T) string
	StaleAfter time.Duration

	items     []T
	fetchedAt time.Time
	loaded    bool

	// generation changes on Reset so mutations begun before it can tell
	// their settlement no longer applies.
	generation uint64
}

func New[T any](key func(T) string, staleAfter time.Duration) *Collection[T] {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Collection[T]{Key: key, StaleAfter: staleAfter}
}

// Items returns a copy of the current contents.
func (c *Collection[T]) Items() []T {
	return slices.Clone(c.items)
}

func (c *Collection[T]) Len() int { return len(c.items) }

// Get returns the item with key id and its position.
func (c *Collection[T]) Get(id string) (T, int, bool) {
	i := IndexOf(c.items, c.Key, id)
	if i < 0 {
		var zero T
		return zero, -1, false
	}
	return c.items[i], i, true
}

// Loaded reports whether the collection holds fetched or seeded data.
func (c *Collection[T]) Loaded() bool { return c.loaded }

func (c *Collection[T]) FetchedAt() time.Time { return c.fetchedAt }

// Stale reports whether the data is missing or older than StaleAfter.
func (c *Collection[T]) Stale(now time.Time) bool {
	return !c.loaded || now.Sub(c.fetchedAt) >= c.StaleAfter
}

// Set replaces the contents with authoritative data fetched at fetchedAt.
func (c *Collection[T]) Set(items []T, fetchedAt time.Time) {
	c.items = slices.Clone(items)
	c.fetchedAt = fetchedAt
	c.loaded = true
}

// Reset empties the collection and invalidates every open Mutation.
func (c *Collection[T]) Reset() {
	c.items = nil
	c.fetchedAt = time.Time{}
	c.loaded = false
	c.generation++
}

// Generation identifies the current lifetime of the collection.
func (c *Collection[T]) Generation() uint64 { return c.generation }

// Begin snapshots the contents and applies fn optimistically. The returned
// Mutation settles the change once the remote outcome is known.
func (c *Collection[T]) Begin(fn func([]T) []T) *Mutation[T] {
	m := &Mutation[T]{
		c:          c,
		snapshot:   slices.Clone(c.items),
		generation: c.generation,
	}
	c.items = fn(slices.Clone(c.items))
	return m
}

// Mutation is an optimistic change awaiting its remote outcome.
type Mutation[T any] struct {
	c          *Collection[T]
	snapshot   []T
	generation uint64
	settled    bool
}

// Valid reports whether the mutation can still settle: it has not settled
// and the collection was not reset since Begin.
func (m *Mutation[T]) Valid() bool {
	return !m.settled && m.generation == m.c.generation
}

// Commit reconciles the optimistic state with the confirmed result. fn may
// be nil when the optimistic state is already what the server holds. It
// returns false, changing nothing, when the mutation is no longer valid.
func (m *Mutation[T]) Commit(fn func([]T) []T) bool {
	if !m.Valid() {
		return false
	}
	m.settled = true
	if fn != nil {
		m.c.items = fn(m.c.items)
	}
	return true
}

// Rollback undoes the optimistic change. undo reverts only what this
// mutation touched, leaving changes settled by other mutations in place; a
// nil undo restores the contents as they were before Begin. It returns
// false, changing nothing, when the mutation is no longer valid.
func (m *Mutation[T]) Rollback(undo func([]T) []T) bool {
	if !m.Valid() {
		return false
	}
	m.settled = true
	if undo == nil {
		m.c.items = m.snapshot
		return true
	}
	m.c.items = undo(m.c.items)
	return true
}

// IndexOf returns the position of the item keyed id or -1.
func IndexOf[T any](items []T, key func(T) string, id string) int {
	return slices.IndexFunc(items, func(v T) bool { return key(v) == id })
}

// Prepend returns items with v at the head.
func Prepend[T any](items []T, v T) []T {
	return slices.Insert(items, 0, v)
}

// Insert puts v at position i, clamped to the bounds of items.
func Insert[T any](items []T, i int, v T) []T {
	i = min(max(i, 0), len(items))
	return slices.Insert(items, i, v)
}

// Replace swaps the item keyed id for v in place. Items without a match are
// returned unchanged.
func Replace[T any](items []T, key func(T) string, id string, v T) []T {
	if i := IndexOf(items, key, id); i >= 0 {
		items[i] = v
	}
	return items
}

// Remove drops the item keyed id.
func Remove[T any](items []T, key func(T) string, id string) []T {
	if i := IndexOf(items, key, id); i >= 0 {
		return slices.Delete(items, i, i+1)
	}
	return items
}
