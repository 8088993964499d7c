// Package symbols provides a generic keyed symbol table.
package symbols

import (
	"cmp"
	"slices"
)

// Table provides generic symbol tracking with deterministic iteration order.
// K is the lookup key, for example a label name or an offset.
type Table[K cmp.Ordered, T any] struct {
	items map[K]T
}

// New creates a new symbol table.
func New[K cmp.Ordered, T any]() *Table[K, T] {
	return &Table[K, T]{
		items: make(map[K]T),
	}
}

// Get returns the item for the given key.
func (t *Table[K, T]) Get(key K) (T, bool) {
	item, ok := t.items[key]
	return item, ok
}

// Set sets the item for the given key.
func (t *Table[K, T]) Set(key K, item T) {
	t.items[key] = item
}

// Has returns whether an item exists for the given key.
func (t *Table[K, T]) Has(key K) bool {
	_, ok := t.items[key]
	return ok
}

// Len returns the number of items in the table.
func (t *Table[K, T]) Len() int {
	return len(t.items)
}

// Keys returns all keys in ascending order.
func (t *Table[K, T]) Keys() []K {
	keys := make([]K, 0, len(t.items))
	for key := range t.items {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Sorted returns all items ordered by their key.
func (t *Table[K, T]) Sorted() []T {
	keys := t.Keys()
	items := make([]T, 0, len(keys))
	for _, key := range keys {
		items = append(items, t.items[key])
	}
	return items
}

// SortedBy returns all items as a slice sorted by a key extracted from each item.
// Items with equal sort keys keep the order of their table keys.
func SortedBy[K cmp.Ordered, T any, S cmp.Ordered](t *Table[K, T], keyFunc func(T) S) []T {
	items := t.Sorted()
	slices.SortStableFunc(items, func(a, b T) int {
		return cmp.Compare(keyFunc(a), keyFunc(b))
	})
	return items
}
