package ecoli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingType(name string) *NodeType {
	return &NodeType{Name: name}
}

func Test_RegisterType_duplicate(t *testing.T) {
	typ := countingType("test-dup-type")
	require.NoError(t, RegisterType(typ))
	err := RegisterType(typ)
	assert.Error(t, err)
}

func Test_RegisterTypeOverride_replaces(t *testing.T) {
	typ1 := countingType("test-override-type")
	typ2 := &NodeType{Name: "test-override-type", Desc: func(n *Node) string { return "replaced" }}

	RegisterTypeOverride(typ1)
	n, err := New("test-override-type", "")
	require.NoError(t, err)
	assert.Equal(t, "<test-override-type>", n.Desc())

	RegisterTypeOverride(typ2)
	n2, err := New("test-override-type", "")
	require.NoError(t, err)
	assert.Equal(t, "replaced", n2.Desc())
}

func Test_RegisteredTypeNames_sorted(t *testing.T) {
	RegisterTypeOverride(countingType("zzz-test-type"))
	RegisterTypeOverride(countingType("aaa-test-type"))

	names := RegisteredTypeNames()
	sawA, sawZ, zAfterA := false, false, -1
	aIdx, zIdx := -1, -1
	for i, n := range names {
		if n == "aaa-test-type" {
			sawA = true
			aIdx = i
		}
		if n == "zzz-test-type" {
			sawZ = true
			zIdx = i
		}
	}
	require.True(t, sawA)
	require.True(t, sawZ)
	if aIdx < zIdx {
		zAfterA = 1
	}
	assert.Equal(t, 1, zAfterA, "names must be sorted alphabetically")
}

// A self-referential pair of nodes (built the way dynamic/bypass-style
// combinators wire a grammar graph back on itself) must still be
// freeable without leaking or double-freeing.
type cyclePriv struct {
	other *Node
}

func (p *cyclePriv) FreeChildren() {
	Free(p.other)
}

func Test_Free_cyclicGraph(t *testing.T) {
	cycleType := &NodeType{
		Name: "test-cycle-type",
		GetChildrenCount: func(n *Node) int {
			if n.Priv().(*cyclePriv).other == nil {
				return 0
			}
			return 1
		},
		GetChild: func(n *Node, i int) (*Node, int, error) {
			return n.Priv().(*cyclePriv).other, 1, nil
		},
	}
	RegisterTypeOverride(cycleType)

	a, err := New("test-cycle-type", "a")
	require.NoError(t, err)
	b, err := New("test-cycle-type", "b")
	require.NoError(t, err)

	a.SetPriv(&cyclePriv{other: Clone(b)})
	b.SetPriv(&cyclePriv{other: Clone(a)})

	// Dropping the caller's two references should free the whole cycle
	// without panicking.
	assert.NotPanics(t, func() {
		Free(a)
		Free(b)
	})
}

func Test_Clone_sharesPointer(t *testing.T) {
	RegisterTypeOverride(&NodeType{Name: "test-clone-type"})
	n, err := New("test-clone-type", "")
	require.NoError(t, err)

	c := Clone(n)
	assert.Same(t, n, c)
}
