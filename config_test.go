package ecoli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Config_scalarAccessors(t *testing.T) {
	assert.Equal(t, true, ConfigBoolVal(true).Bool())
	assert.Equal(t, int64(-5), ConfigI64Val(-5).I64())
	assert.Equal(t, uint64(5), ConfigU64Val(5).U64())
	assert.Equal(t, "hi", ConfigStringVal("hi").Str())
}

func Test_Config_List(t *testing.T) {
	c := ConfigListVal(ConfigI64Val(1), ConfigI64Val(2))
	assert.Equal(t, ConfigList, c.Type())
	require.Len(t, c.List(), 2)
	assert.Equal(t, int64(2), c.List()[1].I64())
}

func Test_Config_Dict(t *testing.T) {
	c := ConfigDictVal()
	c.DictSet("a", ConfigI64Val(1))
	c.DictSet("b", ConfigI64Val(2))
	c.DictSet("a", ConfigI64Val(3))

	assert.Equal(t, int64(3), c.DictGet("a").I64())
	assert.Equal(t, []string{"a", "b"}, c.DictKeys(), "key order is insertion order, reinsertion doesn't move it")
	assert.Nil(t, c.DictGet("missing"))
}

func Test_Config_Dup_clonesNodeRef(t *testing.T) {
	RegisterTypeOverride(&NodeType{Name: "config-test-type", Parse: func(*Node, *PNode, *StrVec) (int, error) { return 0, nil }})
	n, err := New("config-test-type", "x")
	require.NoError(t, err)
	defer Free(n)

	c := ConfigNode(n)
	dup := c.Dup()
	defer dup.Free()

	assert.Same(t, c.NodeVal(), dup.NodeVal(), "Dup takes its own reference on the same node")
	assert.Equal(t, c.NodeVal().ID(), dup.NodeVal().ID())
}

func Test_Config_Cmp(t *testing.T) {
	a := ConfigListVal(ConfigI64Val(1), ConfigStringVal("x"))
	b := ConfigListVal(ConfigI64Val(1), ConfigStringVal("x"))
	c := ConfigListVal(ConfigI64Val(1), ConfigStringVal("y"))

	assert.True(t, a.Cmp(b))
	assert.False(t, a.Cmp(c))
	assert.True(t, (*Config)(nil).Cmp(nil))
	assert.False(t, a.Cmp(nil))
}

func Test_ConfigKeyIsReserved(t *testing.T) {
	assert.True(t, ConfigKeyIsReserved("id"))
	assert.True(t, ConfigKeyIsReserved("type"))
	assert.False(t, ConfigKeyIsReserved("whatever"))
}
