package ecoli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compTestNode(t *testing.T, id string) *Node {
	RegisterTypeOverride(&NodeType{Name: "comp-test-type", Parse: func(*Node, *PNode, *StrVec) (int, error) { return 0, nil }})
	n, err := New("comp-test-type", id)
	require.NoError(t, err)
	return n
}

func Test_Comp_AddItem_sortsWithinGroup(t *testing.T) {
	c := NewComp()
	n := compTestNode(t, "x")

	_, err := c.AddItem(n, CompFull, "f", "foo")
	require.NoError(t, err)
	_, err = c.AddItem(n, CompFull, "b", "bar")
	require.NoError(t, err)
	_, err = c.AddItem(n, CompFull, "b", "baz")
	require.NoError(t, err)

	var order []string
	for item := c.IterFirst(CompFull); item != nil; item = c.IterNext(item, CompFull) {
		order = append(order, item.Str())
	}
	assert.Equal(t, []string{"bar", "baz", "foo"}, order)
}

func Test_Comp_AddItem_completionSuffix(t *testing.T) {
	c := NewComp()
	n := compTestNode(t, "x")

	item, err := c.AddItem(n, CompFull, "fo", "foobar")
	require.NoError(t, err)
	assert.Equal(t, "obar", item.Completion())
	assert.Equal(t, "foobar", item.Display())
}

func Test_Comp_AddItem_rejectsMismatchedPrefix(t *testing.T) {
	c := NewComp()
	n := compTestNode(t, "x")
	_, err := c.AddItem(n, CompFull, "zz", "foobar")
	assert.Error(t, err)
}

func Test_Comp_AddItem_unknownMustHaveNoFullString(t *testing.T) {
	c := NewComp()
	n := compTestNode(t, "x")
	_, err := c.AddItem(n, CompUnknown, "", "something")
	assert.Error(t, err)

	item, err := c.AddItem(n, CompUnknown, "", "")
	require.NoError(t, err)
	assert.Equal(t, CompUnknown, item.Type())
}

func Test_Comp_Count(t *testing.T) {
	c := NewComp()
	n := compTestNode(t, "x")
	c.AddItem(n, CompFull, "", "a")
	c.AddItem(n, CompFull, "", "b")
	c.AddItem(n, CompPartial, "", "c")
	c.AddItem(n, CompUnknown, "", "")

	assert.Equal(t, 2, c.Count(CompFull))
	assert.Equal(t, 1, c.Count(CompPartial))
	assert.Equal(t, 1, c.Count(CompUnknown))
	assert.Equal(t, 4, c.Count(CompAll))
}

func Test_Comp_Merge(t *testing.T) {
	c1 := NewComp()
	n1 := compTestNode(t, "x")
	c1.AddItem(n1, CompFull, "", "a")

	c2 := NewComp()
	n2 := compTestNode(t, "y")
	c2.AddItem(n2, CompFull, "", "b")

	c1.Merge(c2)
	assert.Equal(t, 2, c1.Count(CompAll))
	assert.Len(t, c1.Groups(), 2)
}

func Test_Comp_Groups_sortedByFirstItem(t *testing.T) {
	c := NewComp()
	// n1's group is created first but offers "zzz", which must sort
	// after n2's group, created second but offering "aaa".
	n1 := compTestNode(t, "n1")
	_, err := c.AddItem(n1, CompFull, "", "zzz")
	require.NoError(t, err)

	n2 := compTestNode(t, "n2")
	_, err = c.AddItem(n2, CompFull, "", "aaa")
	require.NoError(t, err)

	groups := c.Groups()
	require.Len(t, groups, 2)
	assert.Same(t, n2, groups[0].Node())
	assert.Same(t, n1, groups[1].Node())
}

func Test_Comp_Merge_resortsGroups(t *testing.T) {
	c1 := NewComp()
	n1 := compTestNode(t, "n1")
	_, err := c1.AddItem(n1, CompFull, "", "zzz")
	require.NoError(t, err)

	c2 := NewComp()
	n2 := compTestNode(t, "n2")
	_, err = c2.AddItem(n2, CompFull, "", "aaa")
	require.NoError(t, err)

	c1.Merge(c2)
	groups := c1.Groups()
	require.Len(t, groups, 2)
	assert.Same(t, n2, groups[0].Node())
	assert.Same(t, n1, groups[1].Node())
}

func Test_Comp_SetDisplayCompletionStr(t *testing.T) {
	c := NewComp()
	n := compTestNode(t, "x")
	item, err := c.AddItem(n, CompFull, "f", "foo")
	require.NoError(t, err)

	require.NoError(t, item.SetDisplay("Foo (directory)"))
	require.NoError(t, item.SetCompletion("oo!"))
	require.NoError(t, item.SetStr("foo!"))

	assert.Equal(t, "Foo (directory)", item.Display())
	assert.Equal(t, "oo!", item.Completion())
	assert.Equal(t, "foo!", item.Str())

	unknown, err := c.AddItem(n, CompUnknown, "", "")
	require.NoError(t, err)
	assert.Error(t, unknown.SetDisplay("x"))
	assert.Error(t, unknown.SetCompletion("x"))
	assert.Error(t, unknown.SetStr("x"))
}

func Test_CompleteStrvecExpand_expandsUniqueCompletion(t *testing.T) {
	RegisterTypeOverride(&NodeType{
		Name: "comp-test-prefix-type",
		Complete: func(node *Node, comp *Comp, strvec *StrVec) error {
			if strvec.Len() != 1 {
				return nil
			}
			cur := strvec.Get(0)
			candidates := []string{"foobar"}
			for _, cand := range candidates {
				if len(cur) <= len(cand) && cand[:len(cur)] == cur {
					if _, err := comp.AddItem(node, CompFull, cur, cand); err != nil {
						return err
					}
				}
			}
			return nil
		},
	})
	n, err := New("comp-test-prefix-type", "x")
	require.NoError(t, err)

	expanded, err := CompleteStrvecExpand(n, CompFull, NewStrVec("foo"))
	require.NoError(t, err)
	assert.Equal(t, []string{"foobar"}, expanded.Strings())
}
