package ecutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_StringSet_AddRemoveHas(t *testing.T) {
	s := StringSet{}
	assert.False(t, s.Has("a"))

	s.Add("a")
	assert.True(t, s.Has("a"))
	assert.Equal(t, 1, s.Len())

	s.Remove("a")
	assert.False(t, s.Has("a"))
	assert.Equal(t, 0, s.Len())

	// removing an absent value is a no-op
	s.Remove("a")
}

func Test_NewStringSet_fromMultipleSlices(t *testing.T) {
	s := NewStringSet([]string{"a", "b"}, []string{"b", "c"})
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Has("a"))
	assert.True(t, s.Has("c"))
}

func Test_StringSet_SortedElements(t *testing.T) {
	s := NewStringSet([]string{"zebra", "apple", "mango"})
	assert.Equal(t, []string{"apple", "mango", "zebra"}, s.SortedElements())
}

func Test_StringSet_String(t *testing.T) {
	s := NewStringSet([]string{"b", "a"})
	assert.Equal(t, "{a, b}", s.String())

	empty := StringSet{}
	assert.Equal(t, "{}", empty.String())
}
