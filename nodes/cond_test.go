package nodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vjardin/ecoli"
)

// Scenario 4: cond("cmp(le, count(find(root(), id_node)), 3)",
// many(str id="id_node" "foo", 0, 0)).
func Test_Scenario_Cond(t *testing.T) {
	foo, err := Str("id_node", "foo")
	require.NoError(t, err)
	many, err := Many("many", foo, 0, 0)
	require.NoError(t, err)
	cond, err := Cond("cond", "cmp(le, count(find(root(), id_node)), 3)", many)
	require.NoError(t, err)
	defer ecoli.Free(cond)

	pn3, err := ecoli.ParseStrvec(cond, ecoli.NewStrVec("foo", "foo", "foo"))
	require.NoError(t, err)
	assert.True(t, pn3.Matches())

	pn4, err := ecoli.ParseStrvec(cond, ecoli.NewStrVec("foo", "foo", "foo", "foo"))
	require.NoError(t, err)
	assert.False(t, pn4.Matches())
}

func Test_Cond_predicateParse_errors(t *testing.T) {
	foo, err := Str("x", "foo")
	require.NoError(t, err)

	_, err = Cond("bad", "cmp(le, count(find(root(", foo)
	assert.Error(t, err)
}

func Test_condTruthy(t *testing.T) {
	assert.True(t, condTruthy([]*ecoli.PNode{{}}))
	assert.False(t, condTruthy([]*ecoli.PNode{}))
	assert.True(t, condTruthy(int64(1)))
	assert.False(t, condTruthy(int64(0)))
	assert.True(t, condTruthy("x"))
	assert.False(t, condTruthy(""))
	assert.True(t, condTruthy(true))
	assert.False(t, condTruthy(false))
}
