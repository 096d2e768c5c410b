package ecoli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_StrVec_PushGetLen(t *testing.T) {
	v := NewStrVec()
	assert.Equal(t, 0, v.Len())

	v.Push("a")
	v.Push("b")
	require.Equal(t, 2, v.Len())
	assert.Equal(t, "a", v.Get(0))
	assert.Equal(t, "b", v.Get(1))
}

func Test_StrVec_DelLast(t *testing.T) {
	v := NewStrVec("a", "b", "c")
	v.DelLast()
	assert.Equal(t, []string{"a", "b"}, v.Strings())

	empty := NewStrVec()
	empty.DelLast()
	assert.Equal(t, 0, empty.Len())
}

func Test_StrVec_NDup(t *testing.T) {
	v := NewStrVec("a", "b", "c", "d")

	sub, err := v.NDup(1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, sub.Strings())

	_, err = v.NDup(2, 5)
	assert.Error(t, err)

	_, err = v.NDup(-1, 1)
	assert.Error(t, err)
}

func Test_StrVec_Dup_isIndependent(t *testing.T) {
	v := NewStrVec("a", "b")
	d := v.Dup()
	d.Set(0, "z")
	assert.Equal(t, "a", v.Get(0))
	assert.Equal(t, "z", d.Get(0))
}

func Test_StrVec_AttrsGetSet(t *testing.T) {
	v := NewStrVec("a")
	attrs := v.AttrsGet(0)
	require.NotNil(t, attrs)
	attrs.Set("key", "value")

	got := v.AttrsGet(0)
	val, ok := got.Get("key")
	require.True(t, ok)
	assert.Equal(t, "value", val)

	assert.Nil(t, v.AttrsGet(5))
}

func Test_StrVec_Equal(t *testing.T) {
	a := NewStrVec("x", "y")
	b := NewStrVec("x", "y")
	c := NewStrVec("x", "z")
	d := NewStrVec("x")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}

func Test_StrVec_Sort(t *testing.T) {
	v := NewStrVec("banana", "apple", "cherry")
	v.Sort(nil)
	assert.Equal(t, []string{"apple", "banana", "cherry"}, v.Strings())
}

func Test_StrVec_String(t *testing.T) {
	v := NewStrVec("a", "b", "c")
	assert.Equal(t, "[a b c]", v.String())
}
