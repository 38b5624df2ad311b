package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := New("a", "b")
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("c"))
	s.Add("c")
	assert.Equal(t, 3, s.Len())
	assert.False(t, s.AddNew("c"))
	assert.True(t, s.AddNew("d"))
	assert.True(t, s.Has("d"))
}
