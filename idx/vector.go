package idx

import "iter"

// Vector is a slice indexed by handles of domain D.
type Vector[D any, T any] struct {
	items []T
	gen   Generator[D]
}

// Push appends v and returns its handle.
func (vec *Vector[D, T]) Push(v T) ID[D] {
	id := vec.gen.FreshID()
	vec.items = append(vec.items, v)
	return id
}

// Get returns the element for id.
func (vec *Vector[D, T]) Get(id ID[D]) (T, bool) {
	if id.index >= uint64(len(vec.items)) {
		var zero T
		return zero, false
	}
	return vec.items[id.index], true
}

// Set replaces the element for id. It reports false if id is out of range.
func (vec *Vector[D, T]) Set(id ID[D], v T) bool {
	if id.index >= uint64(len(vec.items)) {
		return false
	}
	vec.items[id.index] = v
	return true
}

// Len returns the number of elements.
func (vec *Vector[D, T]) Len() int {
	return len(vec.items)
}

// All iterates over handles and elements in ordinal order.
func (vec *Vector[D, T]) All() iter.Seq2[ID[D], T] {
	return func(yield func(ID[D], T) bool) {
		for i, v := range vec.items {
			if !yield(New[D](uint64(i)), v) {
				return
			}
		}
	}
}

// Values returns the elements in ordinal order.
func (vec *Vector[D, T]) Values() []T {
	return vec.items
}
