package ecoli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a 3-level tree: root -> {a, b}, a -> {a1, a2}
func buildPNodeTestTree(t *testing.T) (root, a, b, a1, a2 *PNode) {
	RegisterTypeOverride(&NodeType{Name: "pnode-test-type", Parse: func(*Node, *PNode, *StrVec) (int, error) { return 0, nil }})

	newNode := func(id string) *Node {
		n, err := New("pnode-test-type", id)
		require.NoError(t, err)
		return n
	}

	root = NewPNode(newNode("root"))
	a = NewPNode(newNode("a"))
	b = NewPNode(newNode("b"))
	a1 = NewPNode(newNode("a1"))
	a2 = NewPNode(newNode("a2"))

	root.LinkChild(a)
	root.LinkChild(b)
	a.LinkChild(a1)
	a.LinkChild(a2)
	return
}

func Test_PNode_LinkUnlinkChild(t *testing.T) {
	root, a, b, _, _ := buildPNodeTestTree(t)
	assert.Equal(t, []*PNode{a, b}, root.Children())
	assert.Same(t, root, a.GetParent())

	root.UnlinkChild(a)
	assert.Equal(t, []*PNode{b}, root.Children())
	assert.Nil(t, a.GetParent())
}

func Test_PNode_DelLastChild(t *testing.T) {
	root, a, b, _, _ := buildPNodeTestTree(t)
	root.DelLastChild()
	assert.Equal(t, []*PNode{a}, root.Children())
	assert.Nil(t, b.GetParent())

	// no effect on a childless node
	b.DelLastChild()
}

func Test_PNode_FirstLastChild(t *testing.T) {
	root, a, b, _, _ := buildPNodeTestTree(t)
	assert.Same(t, a, root.GetFirstChild())
	assert.Same(t, b, root.GetLastChild())

	leaf := NewPNode(nil)
	assert.Nil(t, leaf.GetFirstChild())
	assert.Nil(t, leaf.GetLastChild())
}

func Test_PNode_GetRoot(t *testing.T) {
	root, _, _, a1, _ := buildPNodeTestTree(t)
	assert.Same(t, root, a1.GetRoot())
	assert.Same(t, root, root.GetRoot())
}

func Test_PNode_Next(t *testing.T) {
	root, a, b, a1, a2 := buildPNodeTestTree(t)
	assert.Same(t, b, a.Next())
	assert.Nil(t, b.Next())
	assert.Same(t, a2, a1.Next())
	assert.Nil(t, root.Next(), "root has no parent, so no sibling")
}

func Test_PNode_IterNext_depthFirst(t *testing.T) {
	root, a, b, a1, a2 := buildPNodeTestTree(t)

	var visited []*PNode
	for n := root; n != nil; n = n.IterNext(root, true) {
		visited = append(visited, n)
	}
	assert.Equal(t, []*PNode{root, a, a1, a2, b}, visited)
}

func Test_PNode_Find(t *testing.T) {
	root, _, _, a1, _ := buildPNodeTestTree(t)
	found := root.Find("a1")
	assert.Same(t, a1, found)
	assert.Nil(t, root.Find("nonexistent"))
}

func Test_PNode_FindNext_resumesAfterPrev(t *testing.T) {
	RegisterTypeOverride(&NodeType{Name: "pnode-test-dup-type", Parse: func(*Node, *PNode, *StrVec) (int, error) { return 0, nil }})
	dupID, err := New("pnode-test-dup-type", "dup")
	require.NoError(t, err)

	root := NewPNode(dupID)
	child1 := NewPNode(dupID)
	child2 := NewPNode(dupID)
	root.LinkChild(child1)
	root.LinkChild(child2)

	first := root.Find("dup")
	assert.Same(t, root, first)

	second := root.FindNext(first, "dup", true)
	assert.Same(t, child1, second)

	third := root.FindNext(second, "dup", true)
	assert.Same(t, child2, third)

	assert.Nil(t, root.FindNext(third, "dup", true))
}

func Test_PNode_Dup_independentCopy(t *testing.T) {
	root, _, _, a1, _ := buildPNodeTestTree(t)
	a1.strvec = NewStrVec("x")

	dupA1 := a1.Dup()
	require.NotNil(t, dupA1)
	assert.NotSame(t, a1, dupA1)
	assert.Equal(t, a1.Strvec().Strings(), dupA1.Strvec().Strings())
	assert.NotSame(t, root, dupA1.GetRoot())
	assert.Equal(t, 2, len(dupA1.GetRoot().Children()), "the whole tree is duplicated, not just the target node")
}

func Test_PNode_MatchesAndLen(t *testing.T) {
	p := NewPNode(nil)
	assert.False(t, p.Matches())
	assert.Equal(t, 0, p.Len())

	p.strvec = NewStrVec("a", "b")
	assert.True(t, p.Matches())
	assert.Equal(t, 2, p.Len())
}

func Test_PNode_nilReceiver(t *testing.T) {
	var p *PNode
	assert.Nil(t, p.Node())
	assert.Nil(t, p.Strvec())
	assert.Nil(t, p.Attrs())
	assert.False(t, p.Matches())
	assert.Equal(t, 0, p.Len())
	assert.Nil(t, p.GetParent())
	assert.Nil(t, p.GetRoot())
	assert.Nil(t, p.Next())
}

func Test_ParseStrvec_rootIsOwnMatchRecord(t *testing.T) {
	RegisterTypeOverride(&NodeType{
		Name: "pnode-test-str-type",
		Parse: func(node *Node, pstate *PNode, strvec *StrVec) (int, error) {
			if strvec.Len() == 0 || strvec.Get(0) != "x" {
				return NoMatch, nil
			}
			return 1, nil
		},
	})
	n, err := New("pnode-test-str-type", "x")
	require.NoError(t, err)

	pn, err := ParseStrvec(n, NewStrVec("x"))
	require.NoError(t, err)
	assert.True(t, pn.Matches())
	assert.Empty(t, pn.Children(), "a leaf root parse has no children; it's its own match record")
}
