package nodes

import "github.com/vjardin/ecoli"

// Well-known attribute keys a line-editor collaborator (or any caller
// walking a matched parse tree) can rely on finding on a node.
const (
	AttrHelp     = "ec:help"
	AttrDesc     = "ec:desc"
	AttrCallback = "ec:callback"
)

// Callback is invoked, in textual match order, for every node of a parse
// tree that was given one via SetCallback.
type Callback func(pn *ecoli.PNode) error

// SetCallback attaches cb to node, to be run by WalkCallbacks whenever a
// parse tree contains a matching pnode for node.
func SetCallback(node *ecoli.Node, cb Callback) {
	node.Attrs().Set(AttrCallback, cb)
}

// GetCallback returns the callback previously attached to node, if any.
func GetCallback(node *ecoli.Node) (Callback, bool) {
	v, ok := node.Attrs().Get(AttrCallback)
	if !ok {
		return nil, false
	}
	cb, ok := v.(Callback)
	return cb, ok
}

// SetHelp attaches a one-line help string to node.
func SetHelp(node *ecoli.Node, help string) {
	node.Attrs().Set(AttrHelp, help)
}

// GetHelp returns the help string attached to node, if any.
func GetHelp(node *ecoli.Node) (string, bool) {
	v, ok := node.Attrs().Get(AttrHelp)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// WalkCallbacks runs every callback attached (via SetCallback) to a node
// found in pn's subtree, in the textual order the nodes matched, and
// stops at the first error.
func WalkCallbacks(pn *ecoli.PNode) error {
	root := pn
	for p := root; p != nil; p = p.IterNext(root, true) {
		if p.Node() == nil || !p.Matches() {
			continue
		}
		if cb, ok := GetCallback(p.Node()); ok {
			if err := cb(p); err != nil {
				return err
			}
		}
	}
	return nil
}

// HelpEntry is one line of help text associated with a completion group.
type HelpEntry struct {
	Description string
	Help        string
}

// GetHelps collects a {description, help} entry for every completion
// group that (or whose node's closest ancestor in the matched parse
// tree) carries a help attribute, for display alongside a completion
// list. A group's own node is checked first; if it has no help of its
// own, its pnode's ancestors are checked in turn, so a plain leaf
// nested under a helpful combinator still surfaces that help.
func GetHelps(comp *ecoli.Comp) []HelpEntry {
	var out []HelpEntry
	for _, g := range comp.Groups() {
		node, help, ok := nearestHelp(g)
		if !ok {
			continue
		}
		desc := node.Desc()
		if desc == "" {
			desc = node.Type().Name
		}
		out = append(out, HelpEntry{Description: desc, Help: help})
	}
	return out
}

// nearestHelp returns the help attribute carried by g's own node, or
// failing that, by the nearest ancestor (in the pnode chain g completed
// against) that has one.
func nearestHelp(g *ecoli.CompGroup) (*ecoli.Node, string, bool) {
	if help, ok := GetHelp(g.Node()); ok {
		return g.Node(), help, true
	}
	for p := g.PState(); p != nil; p = p.GetParent() {
		if p.Node() == nil {
			continue
		}
		if help, ok := GetHelp(p.Node()); ok {
			return p.Node(), help, true
		}
	}
	return nil, "", false
}
