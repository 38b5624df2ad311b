// Package ordered provides an insertion-ordered associative container.
//
// Iteration follows the order in which keys were first inserted; updating an
// existing key keeps its position.
package ordered

import "iter"

// Map is an insertion-ordered map. The zero value is not usable; call New.
type Map[K comparable, V any] struct {
	keys  []K
	index map[K]int
	vals  []V
}

// New returns an empty map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{index: make(map[K]int)}
}

// Set stores v under k, appending k if it is new.
func (m *Map[K, V]) Set(k K, v V) {
	if i, ok := m.index[k]; ok {
		m.vals[i] = v
		return
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
}

// Get returns the value stored under k.
func (m *Map[K, V]) Get(k K) (V, bool) {
	if i, ok := m.index[k]; ok {
		return m.vals[i], true
	}
	var zero V
	return zero, false
}

// Update applies fn to the current value of k (zero value when absent) and stores the result.
func (m *Map[K, V]) Update(k K, fn func(V) V) {
	cur, _ := m.Get(k)
	m.Set(k, fn(cur))
}

// Len returns the number of keys.
func (m *Map[K, V]) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// All iterates key/value pairs in insertion order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i, k := range m.keys {
			if !yield(k, m.vals[i]) {
				return
			}
		}
	}
}
