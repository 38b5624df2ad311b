package ordered

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapKeepsFirstInsertionOrder(t *testing.T) {
	m := New[string, int]()
	m.Set("2024-02", 1)
	m.Set("2023-12", 2)
	m.Set("2024-02", 3)

	assert.Equal(t, []string{"2024-02", "2023-12"}, m.Keys())
	v, ok := m.Get("2024-02")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestMapUpdateAndAll(t *testing.T) {
	m := New[string, []int]()
	for i, k := range []string{"b", "a", "b", "c", "a"} {
		m.Update(k, func(cur []int) []int { return append(cur, i) })
	}
	var keys []string
	var vals [][]int
	for k, v := range m.All() {
		keys = append(keys, k)
		vals = append(vals, v)
	}
	assert.Equal(t, []string{"b", "a", "c"}, keys)
	assert.Equal(t, [][]int{{0, 2}, {1, 4}, {3}}, vals)
	assert.Equal(t, 3, m.Len())
}

func TestMapAllStopsEarly(t *testing.T) {
	m := New[int, int]()
	for i := range 5 {
		m.Set(i, i)
	}
	n := 0
	for range m.All() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}
