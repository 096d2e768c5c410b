package ecoli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Dict_SetGetHasDel(t *testing.T) {
	d := NewDict()
	assert.False(t, d.Has("a"))

	d.Set("a", 1)
	v, ok := d.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.True(t, d.Has("a"))
	assert.Equal(t, 1, d.Len())

	d.Del("a")
	assert.False(t, d.Has("a"))
	assert.Equal(t, 0, d.Len())
}

func Test_Dict_Keys_sorted(t *testing.T) {
	d := NewDict()
	d.Set("zebra", 1)
	d.Set("apple", 2)
	d.Set("mango", 3)
	assert.Equal(t, []string{"apple", "mango", "zebra"}, d.Keys())
}

func Test_Dict_Dup_isIndependent(t *testing.T) {
	d := NewDict()
	d.Set("a", 1)
	dup := d.Dup()
	dup.Set("b", 2)

	assert.True(t, dup.Has("a"))
	assert.True(t, dup.Has("b"))
	assert.False(t, d.Has("b"), "original dict is unaffected by changes to the dup")
}

func Test_Dict_nilReceiver(t *testing.T) {
	var d *Dict
	assert.False(t, d.Has("a"))
	assert.Equal(t, 0, d.Len())
	assert.Nil(t, d.Keys())
	assert.Nil(t, d.Dup())
	v, ok := d.Get("a")
	assert.False(t, ok)
	assert.Nil(t, v)
}
