package ecoli

import (
	"fmt"
	"math"
)

// NoMatch is returned by a ParseFunc (or by ParseChild) when the grammar
// node does not match the given input. It is deliberately a large
// positive int, distinct from any real element count, and is not an
// error value: callers must check for it explicitly rather than relying
// on a non-nil error.
const NoMatch = math.MaxInt32

// PNode is one node of a parse tree: the record, for a given grammar Node,
// of which contiguous slice of the input string vector it matched (if
// any), plus any children built by matching sub-nodes and a free-form
// attribute dictionary that a combinator's Parse implementation can use
// to stash extra context.
//
// A PNode whose Strvec is nil did not match; a tree with an unmatched
// root but matched-or-partial descendants is exactly what Complete builds
// while exploring possibilities, and is never returned by Parse itself.
type PNode struct {
	parent   *PNode
	children []*PNode
	node     *Node
	strvec   *StrVec
	attrs    *Dict
}

// NewPNode returns a fresh, childless, unmatched parse-tree node for the
// given grammar node.
func NewPNode(node *Node) *PNode {
	return &PNode{node: node, attrs: NewDict()}
}

// Node returns the grammar node that produced this parse-tree node.
func (p *PNode) Node() *Node {
	if p == nil {
		return nil
	}
	return p.node
}

// Strvec returns the slice of the input that matched this node, or nil if
// it did not match.
func (p *PNode) Strvec() *StrVec {
	if p == nil {
		return nil
	}
	return p.strvec
}

// Attrs returns the node's attribute dictionary.
func (p *PNode) Attrs() *Dict {
	if p == nil {
		return nil
	}
	return p.attrs
}

// Matches reports whether p matched part of the input (i.e. has an
// associated, possibly empty, string vector).
func (p *PNode) Matches() bool {
	return p != nil && p.strvec != nil
}

// Len returns the number of input elements this node matched (0 if it did
// not match at all).
func (p *PNode) Len() int {
	if p == nil || p.strvec == nil {
		return 0
	}
	return p.strvec.Len()
}

// LinkChild appends child to p's children list.
func (p *PNode) LinkChild(child *PNode) {
	p.children = append(p.children, child)
	child.parent = p
}

// UnlinkChild removes child from p's children list without freeing it.
func (p *PNode) UnlinkChild(child *PNode) {
	for i, c := range p.children {
		if c == child {
			p.children = append(p.children[:i], p.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// DelLastChild unlinks p's last child. No effect if p has no children.
func (p *PNode) DelLastChild() {
	if len(p.children) == 0 {
		return
	}
	last := p.children[len(p.children)-1]
	p.UnlinkChild(last)
}

// GetFirstChild returns p's first child, or nil.
func (p *PNode) GetFirstChild() *PNode {
	if len(p.children) == 0 {
		return nil
	}
	return p.children[0]
}

// GetLastChild returns p's last child, or nil.
func (p *PNode) GetLastChild() *PNode {
	if len(p.children) == 0 {
		return nil
	}
	return p.children[len(p.children)-1]
}

// Children returns p's children in order. The returned slice must not be
// mutated by the caller.
func (p *PNode) Children() []*PNode {
	return p.children
}

// GetParent returns p's parent, or nil if p is the root of its tree.
func (p *PNode) GetParent() *PNode {
	if p == nil {
		return nil
	}
	return p.parent
}

// GetRoot walks up to, and returns, the root of p's parse tree.
func (p *PNode) GetRoot() *PNode {
	if p == nil {
		return nil
	}
	for p.parent != nil {
		p = p.parent
	}
	return p
}

// Next returns p's next sibling, or nil if p is the last child (or the
// root).
func (p *PNode) Next() *PNode {
	if p == nil || p.parent == nil {
		return nil
	}
	siblings := p.parent.children
	for i, s := range siblings {
		if s == p {
			if i+1 < len(siblings) {
				return siblings[i+1]
			}
			return nil
		}
	}
	return nil
}

// IterNext advances a depth-first traversal of the tree rooted at root,
// starting from the current node p: into p's children first (when
// iterChildren is true), else to the next sibling, walking up toward
// root as needed. It returns nil once the traversal exhausts the subtree
// under root.
func (p *PNode) IterNext(root *PNode, iterChildren bool) *PNode {
	if iterChildren {
		if child := p.GetFirstChild(); child != nil {
			return child
		}
	}
	parent := p.parent
	for parent != nil && p != root {
		if next := p.Next(); next != nil {
			return next
		}
		p = parent
		parent = p.parent
	}
	return nil
}

// Find performs a depth-first search for the first node whose grammar
// node has the given id.
func (p *PNode) Find(id string) *PNode {
	return p.FindNext(nil, id, true)
}

// FindNext continues a depth-first search for id, resuming after prev (or
// starting fresh from p, used as the search root, if prev is nil).
// iterChildren controls whether prev's children are considered part of
// the remaining search space.
func (p *PNode) FindNext(prev *PNode, id string, iterChildren bool) *PNode {
	var start *PNode
	if prev == nil {
		start = p
	} else {
		start = prev.IterNext(p, iterChildren)
	}
	for iter := start; iter != nil; iter = iter.IterNext(p, true) {
		if iter.node != nil && iter.node.ID() == id {
			return iter
		}
	}
	return nil
}

// Dup deep-copies the parse tree that p belongs to, returning the copy of
// p at the same position in the duplicated tree.
func (p *PNode) Dup() *PNode {
	root := p.GetRoot()
	var dupOfP *PNode
	dupRoot := dupPNode(root, p, &dupOfP)
	_ = dupRoot
	return dupOfP
}

func dupPNode(src, ref *PNode, dupOfRef **PNode) *PNode {
	if src == nil {
		return nil
	}
	dup := NewPNode(src.node)
	dup.attrs = src.attrs.Dup()
	if src.strvec != nil {
		dup.strvec = src.strvec.Dup()
	}
	if src == ref {
		*dupOfRef = dup
	}
	for _, child := range src.children {
		dup.LinkChild(dupPNode(child, ref, dupOfRef))
	}
	return dup
}

// parseChild runs node's Parse method, recording the result as a new
// child of pstate. On a match, the matched prefix of strvec is copied
// into the new PNode's Strvec and the child is linked under pstate; on
// NoMatch, nothing is linked. The root call (from Parse/ParseStrvec)
// instead parses directly into pstate without creating an extra child
// layer.
func parseChild(node *Node, pstate *PNode, isRoot bool, strvec *StrVec) (int, error) {
	if node.typ.Parse == nil {
		return 0, fmt.Errorf("node type %q does not support parsing", node.typ.Name)
	}

	var target *PNode
	if isRoot {
		target = pstate
	} else {
		target = NewPNode(node)
		pstate.LinkChild(target)
	}

	n, err := node.typ.Parse(node, target, strvec)
	if err != nil {
		if !isRoot {
			pstate.UnlinkChild(target)
		}
		return 0, err
	}
	if n == NoMatch {
		if !isRoot {
			pstate.UnlinkChild(target)
		}
		return NoMatch, nil
	}

	matched, err := strvec.NDup(0, n)
	if err != nil {
		if !isRoot {
			pstate.UnlinkChild(target)
		}
		return 0, err
	}
	target.strvec = matched
	return n, nil
}

// ParseChild runs node's Parse method against strvec, recording the
// result as a new child of pstate. It is the call a combinator's own
// Parse implementation uses to recurse into its children.
func ParseChild(node *Node, pstate *PNode, strvec *StrVec) (int, error) {
	return parseChild(node, pstate, false, strvec)
}

// ParseStrvec builds a complete parse tree by matching strvec against the
// grammar rooted at node. The returned tree's root reports Matches() true
// when and only when the whole input was accepted.
func ParseStrvec(node *Node, strvec *StrVec) (*PNode, error) {
	root := NewPNode(node)
	_, err := parseChild(node, root, true, strvec)
	if err != nil {
		return nil, err
	}
	return root, nil
}

// Parse is a convenience wrapper around ParseStrvec for a single input
// string.
func Parse(node *Node, str string) (*PNode, error) {
	return ParseStrvec(node, NewStrVec(str))
}
