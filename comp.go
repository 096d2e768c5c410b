package ecoli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vjardin/ecoli/internal/ecerr"
)

// CompType classifies a completion item: whether it fully completes a
// token, only partially completes it (the file combinator does this at a
// directory boundary), or merely signals that the token parsed but the
// node has no completion logic of its own.
type CompType int

const (
	CompUnknown CompType = 1 << iota
	CompFull
	CompPartial
)

// CompAll selects every completion item type, for Count/iteration calls
// that don't want to filter.
const CompAll = CompUnknown | CompFull | CompPartial

// CompItem is one possible completion of the last token of an input
// string vector.
type CompItem struct {
	typ        CompType
	current    string
	full       string
	completion string
	display    string
	attrs      *Dict
	grp        *CompGroup
}

// Str returns the item's fully completed string ("" for CompUnknown
// items).
func (it *CompItem) Str() string { return it.full }

// Display returns the string that should be shown to the user when
// listing this item.
func (it *CompItem) Display() string { return it.display }

// Completion returns the characters that should be appended to the
// current token to complete it.
func (it *CompItem) Completion() string { return it.completion }

// Type returns the item's completion type.
func (it *CompItem) Type() CompType { return it.typ }

// Group returns the group this item belongs to.
func (it *CompItem) Group() *CompGroup { return it.grp }

// Node returns the grammar node that issued this item's group.
func (it *CompItem) Node() *Node { return it.grp.node }

// Attrs returns the item's attribute dictionary.
func (it *CompItem) Attrs() *Dict { return it.attrs }

// SetDisplay overrides the item's display string. Not valid on a
// CompUnknown item.
func (it *CompItem) SetDisplay(display string) error {
	if it.typ == CompUnknown {
		return ecerr.New(ecerr.EINVAL, "cannot set display on an unknown-type item")
	}
	it.display = display
	return nil
}

// SetCompletion overrides the item's completion string. Not valid on a
// CompUnknown item.
func (it *CompItem) SetCompletion(completion string) error {
	if it.typ == CompUnknown {
		return ecerr.New(ecerr.EINVAL, "cannot set completion on an unknown-type item")
	}
	it.completion = completion
	return nil
}

// SetStr overrides the item's fully completed string. Not valid on a
// CompUnknown item.
func (it *CompItem) SetStr(str string) error {
	if it.typ == CompUnknown {
		return ecerr.New(ecerr.EINVAL, "cannot set string on an unknown-type item")
	}
	it.full = str
	return nil
}

// CompGroup is a list of completion items that were all issued by the
// same grammar node against the same parsing state (i.e. the same
// preceding input).
type CompGroup struct {
	comp   *Comp
	node   *Node
	items  []*CompItem
	pstate *PNode
	attrs  *Dict
}

// Node returns the grammar node that issued this group.
func (g *CompGroup) Node() *Node { return g.node }

// PState returns the parsing state (a copy, owned by the group) that
// preceded this group's items.
func (g *CompGroup) PState() *PNode { return g.pstate }

// Attrs returns the group's attribute dictionary.
func (g *CompGroup) Attrs() *Dict { return g.attrs }

// Items returns the group's completion items in order.
func (g *CompGroup) Items() []*CompItem { return g.items }

// Comp is the result of completing an input string vector against a
// grammar graph: a list of CompGroups, each holding the items one node
// contributed.
type Comp struct {
	count        int
	countFull    int
	countPartial int
	countUnknown int

	curPState *PNode
	curGroup  *CompGroup

	groups []*CompGroup
	attrs  *Dict
}

// NewComp returns an empty completion list.
func NewComp() *Comp {
	return &Comp{attrs: NewDict()}
}

// NewCompAt returns an empty completion list whose current parsing state
// is pstate. It is for combinators (like sh-lex) that need to complete a
// child into a throwaway Comp, positioned at the same place in the parse
// tree as their own current state, so items can be post-processed before
// merging them into the real completion list.
func NewCompAt(pstate *PNode) *Comp {
	return &Comp{attrs: NewDict(), curPState: pstate}
}

// CurPState returns the parsing state in effect for the node currently
// being asked to complete. Only meaningful from inside a CompleteFunc.
func (c *Comp) CurPState() *PNode { return c.curPState }

// CurGroup returns the group the node currently being asked to complete
// is adding items to (nil until the node's first AddItem call).
func (c *Comp) CurGroup() *CompGroup { return c.curGroup }

// Attrs returns the completion list's attribute dictionary.
func (c *Comp) Attrs() *Dict { return c.attrs }

// Count returns how many items of the given type(s) the list holds.
func (c *Comp) Count(typ CompType) int {
	if c == nil {
		return 0
	}
	n := 0
	if typ&CompFull != 0 {
		n += c.countFull
	}
	if typ&CompPartial != 0 {
		n += c.countPartial
	}
	if typ&CompUnknown != 0 {
		n += c.countUnknown
	}
	return n
}

// Groups returns the completion list's groups, ordered by each group's
// first item's full string.
func (c *Comp) Groups() []*CompGroup { return c.groups }

// newGroup creates and appends a group for node at the current parsing
// state. Groups are kept sorted by their first item's full string
// (sortGroups re-sorts after every AddItem); items within a group are
// kept sorted by full string in AddItem.
func (c *Comp) newGroup(node *Node) *CompGroup {
	grp := &CompGroup{
		comp:   c,
		node:   node,
		attrs:  NewDict(),
		pstate: c.curPState.Dup(),
	}
	c.groups = append(c.groups, grp)
	return grp
}

// sortGroups stably re-sorts c.groups by each group's first item's full
// string, so that the order groups are iterated in reflects the
// completions they offer rather than the order their nodes happened to
// be visited in.
func (c *Comp) sortGroups() {
	sort.SliceStable(c.groups, func(i, j int) bool {
		return groupSortKey(c.groups[i]) < groupSortKey(c.groups[j])
	})
}

func groupSortKey(g *CompGroup) string {
	if len(g.items) == 0 {
		return ""
	}
	return g.items[0].full
}

// AddItem creates a new completion item of the given type and links it
// into the current group (creating one, attached to node, if none is
// current yet). full must be empty for a CompUnknown item, and start
// with current (the token typed so far) otherwise.
func (c *Comp) AddItem(node *Node, typ CompType, current, full string) (*CompItem, error) {
	if typ == CompUnknown && full != "" {
		return nil, ecerr.New(ecerr.EINVAL, "unknown-type item must not carry a full string")
	}
	if typ != CompUnknown {
		if !strings.HasPrefix(full, current) {
			return nil, ecerr.Errorf(ecerr.EINVAL, "full %q does not start with current %q", full, current)
		}
	}

	item := &CompItem{typ: typ, attrs: NewDict()}
	if typ != CompUnknown {
		item.current = current
		item.full = full
		item.completion = full[len(current):]
		item.display = full
	}

	switch typ {
	case CompUnknown:
		c.countUnknown++
	case CompFull:
		c.countFull++
	case CompPartial:
		c.countPartial++
	default:
		return nil, ecerr.New(ecerr.EINVAL, "invalid completion item type")
	}

	if c.curGroup == nil {
		c.curGroup = c.newGroup(node)
	}
	c.count++

	insertAt := len(c.curGroup.items)
	for i, existing := range c.curGroup.items {
		if existing.full != "" && item.full != "" && existing.full > item.full {
			insertAt = i
			break
		}
	}
	c.curGroup.items = append(c.curGroup.items, nil)
	copy(c.curGroup.items[insertAt+1:], c.curGroup.items[insertAt:])
	c.curGroup.items[insertAt] = item
	item.grp = c.curGroup
	c.sortGroups()

	return item, nil
}

// Merge appends from's groups onto to's and adjusts counters, consuming
// from (the caller must not use it afterward).
func (c *Comp) Merge(from *Comp) {
	if from == nil {
		return
	}
	for _, g := range from.groups {
		g.comp = c
	}
	c.groups = append(c.groups, from.groups...)
	c.sortGroups()
	c.count += from.count
	c.countFull += from.countFull
	c.countPartial += from.countPartial
	c.countUnknown += from.countUnknown
}

// IterFirst returns the first item matching typ, or nil.
func (c *Comp) IterFirst(typ CompType) *CompItem {
	return compIterNext(c, nil, typ)
}

// IterNext returns the item after item that matches typ, or nil.
func (c *Comp) IterNext(item *CompItem, typ CompType) *CompItem {
	if item == nil {
		return nil
	}
	return compIterNext(item.grp.comp, item, typ)
}

func compIterNext(comp *Comp, item *CompItem, typ CompType) *CompItem {
	var groupIdx, itemIdx int
	if item == nil {
		groupIdx, itemIdx = 0, 0
	} else {
		for gi, g := range comp.groups {
			if g == item.grp {
				groupIdx = gi
				break
			}
		}
		for ii, it := range item.grp.items {
			if it == item {
				itemIdx = ii + 1
				break
			}
		}
		if itemIdx >= len(item.grp.items) {
			groupIdx++
			itemIdx = 0
		}
	}

	for gi := groupIdx; gi < len(comp.groups); gi++ {
		g := comp.groups[gi]
		start := 0
		if gi == groupIdx {
			start = itemIdx
		}
		for ii := start; ii < len(g.items); ii++ {
			if g.items[ii].typ&typ != 0 {
				return g.items[ii]
			}
		}
	}
	return nil
}

// CompleteUnknown is the default CompleteFunc used by node types that
// don't implement their own: it reports one CompUnknown item, meaning the
// last token parsed but the node has nothing useful to suggest, as long
// as exactly one token remains to complete.
func CompleteUnknown(node *Node, comp *Comp, strvec *StrVec) error {
	if strvec.Len() != 1 {
		return nil
	}
	_, err := comp.AddItem(node, CompUnknown, "", "")
	return err
}

// CompleteChild asks node to add its completions of the last element of
// strvec to comp. It is the call a combinator's own Complete
// implementation uses to recurse into a child, saving and restoring the
// current parsing state and group around the recursive call the same way
// parseChild does for parse trees.
func CompleteChild(node *Node, comp *Comp, strvec *StrVec) error {
	completeFn := node.typ.Complete
	if completeFn == nil {
		completeFn = CompleteUnknown
	}

	savedPState := comp.curPState
	childPState := NewPNode(node)
	if savedPState != nil {
		savedPState.LinkChild(childPState)
	}
	comp.curPState = childPState
	savedGroup := comp.curGroup
	comp.curGroup = nil

	err := completeFn(node, comp, strvec)

	if savedPState != nil {
		savedPState.UnlinkChild(childPState)
	}
	comp.curPState = savedPState
	comp.curGroup = savedGroup

	if err != nil {
		return err
	}
	return nil
}

// CompleteStrvec completes the last element of strvec against the
// grammar rooted at node.
func CompleteStrvec(node *Node, strvec *StrVec) (*Comp, error) {
	comp := NewComp()
	if err := CompleteChild(node, comp, strvec); err != nil {
		return nil, err
	}
	return comp, nil
}

// Complete is a convenience wrapper around CompleteStrvec for a single
// input string.
func Complete(node *Node, str string) (*Comp, error) {
	return CompleteStrvec(node, NewStrVec(str))
}

// CompleteStrvecExpand completes strvec one token at a time, replacing
// any token that has exactly one completion of the given type with that
// completion's full string, the way a shell expands an unambiguous
// partial word on Tab.
func CompleteStrvecExpand(node *Node, typ CompType, strvec *StrVec) (*StrVec, error) {
	expanded := NewStrVec()
	for i := 0; i < strvec.Len(); i++ {
		s := strvec.Get(i)
		expanded.Push(s)

		comp, err := CompleteStrvec(node, expanded)
		if err != nil {
			return nil, err
		}
		if comp.Count(typ) == 1 {
			item := comp.IterFirst(typ)
			if item != nil && item.full != "" && item.full != s {
				expanded.Set(i, item.full)
			}
		}
	}
	return expanded, nil
}

func (c *Comp) String() string {
	if c == nil || c.count == 0 {
		return "no completion"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "completion: count=%d full=%d partial=%d unknown=%d\n",
		c.count, c.countFull, c.countPartial, c.countUnknown)
	for _, g := range c.groups {
		fmt.Fprintf(&sb, "node=%s type=%s\n", g.node.ID(), g.node.Type().Name)
		for _, it := range g.items {
			fmt.Fprintf(&sb, "  type=%d str=<%s> comp=<%s> disp=<%s>\n",
				it.typ, it.full, it.completion, it.display)
		}
	}
	return sb.String()
}
