package nodes

import (
	"github.com/vjardin/ecoli"
	"github.com/vjardin/ecoli/internal/ecerr"
)

func init() {
	ecoli.RegisterTypeOverride(orType)
	ecoli.RegisterTypeOverride(seqType)
	ecoli.RegisterTypeOverride(optionType)
	ecoli.RegisterTypeOverride(manyType)
	ecoli.RegisterTypeOverride(subsetType)
	ecoli.RegisterTypeOverride(onceType)
	ecoli.RegisterTypeOverride(bypassType)
}

// childTable is the shared private state for combinators that own an
// ordered, fixed list of children, each referenced exactly once.
type childTable struct {
	children []*ecoli.Node
}

// FreeChildren releases the table's reference on each child, satisfying
// node.go's free-callback interface.
func (t *childTable) FreeChildren() {
	for _, c := range t.children {
		ecoli.Free(c)
	}
}

func childTableGetChildrenCount(node *ecoli.Node) int {
	return len(node.Priv().(*childTable).children)
}

func childTableGetChild(node *ecoli.Node, i int) (*ecoli.Node, int, error) {
	t := node.Priv().(*childTable)
	if i < 0 || i >= len(t.children) {
		return nil, 0, ecerr.New(ecerr.ENOENT, "child index out of range")
	}
	return t.children[i], 1, nil
}

func rollback(pstate *ecoli.PNode, count int) {
	for i := 0; i < count; i++ {
		pstate.DelLastChild()
	}
}

// --- or ----------------------------------------------------------------

var orType = &ecoli.NodeType{
	Name: "or",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		t := node.Priv().(*childTable)
		for _, child := range t.children {
			n, err := ecoli.ParseChild(child, pstate, strvec)
			if err != nil {
				return 0, err
			}
			if n != ecoli.NoMatch {
				return n, nil
			}
		}
		return ecoli.NoMatch, nil
	},
	Complete: func(node *ecoli.Node, comp *ecoli.Comp, strvec *ecoli.StrVec) error {
		t := node.Priv().(*childTable)
		for _, child := range t.children {
			if err := ecoli.CompleteChild(child, comp, strvec); err != nil {
				return err
			}
		}
		return nil
	},
	GetChildrenCount: childTableGetChildrenCount,
	GetChild:         childTableGetChild,
}

// Or returns a node that matches the first of its children (tried in
// order) that matches.
func Or(id string, children ...*ecoli.Node) (*ecoli.Node, error) {
	n, err := ecoli.New("or", id)
	if err != nil {
		return nil, err
	}
	n.SetPriv(&childTable{children: append([]*ecoli.Node{}, children...)})
	return n, nil
}

// --- seq -----------------------------------------------------------------

var seqType = &ecoli.NodeType{
	Name: "seq",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		t := node.Priv().(*childTable)
		total := 0
		cur := strvec
		matched := 0
		for _, child := range t.children {
			n, err := ecoli.ParseChild(child, pstate, cur)
			if err != nil {
				rollback(pstate, matched)
				return 0, err
			}
			if n == ecoli.NoMatch {
				rollback(pstate, matched)
				return ecoli.NoMatch, nil
			}
			matched++
			total += n
			rest, err := cur.NDup(n, cur.Len()-n)
			if err != nil {
				rollback(pstate, matched)
				return 0, err
			}
			cur = rest
		}
		return total, nil
	},
	Complete: func(node *ecoli.Node, comp *ecoli.Comp, strvec *ecoli.StrVec) error {
		t := node.Priv().(*childTable)
		return seqCompleteRec(t.children, comp, strvec)
	},
	GetChildrenCount: childTableGetChildrenCount,
	GetChild:         childTableGetChild,
}

// seqCompleteRec completes the first of children whose turn it is to
// consume the partial last token of strvec. It always offers head's own
// completions at the current position (head's CompleteFunc self-guards on
// strvec having exactly one element left), then, if head can also fully
// consume a shorter, non-final prefix of strvec, recurses into the
// remaining children so that an optional or repeatable head doesn't hide
// the completions of what follows it.
func seqCompleteRec(children []*ecoli.Node, comp *ecoli.Comp, strvec *ecoli.StrVec) error {
	if len(children) == 0 {
		return nil
	}
	head, rest := children[0], children[1:]

	if err := ecoli.CompleteChild(head, comp, strvec); err != nil {
		return err
	}
	if strvec.Len() == 0 {
		return seqCompleteRec(rest, comp, strvec)
	}

	pstate := comp.CurPState()
	n, err := ecoli.ParseChild(head, pstate, strvec)
	if err != nil {
		return err
	}
	if n == ecoli.NoMatch {
		return nil
	}
	pstate.DelLastChild()
	if n >= strvec.Len() {
		return nil
	}
	suffix, err := strvec.NDup(n, strvec.Len()-n)
	if err != nil {
		return err
	}
	return seqCompleteRec(rest, comp, suffix)
}

// Seq returns a node that matches its children in order, one after
// another, consuming the concatenation of what each one matches.
func Seq(id string, children ...*ecoli.Node) (*ecoli.Node, error) {
	n, err := ecoli.New("seq", id)
	if err != nil {
		return nil, err
	}
	n.SetPriv(&childTable{children: append([]*ecoli.Node{}, children...)})
	return n, nil
}

// SeqAdd appends a child to an existing seq node.
func SeqAdd(node *ecoli.Node, child *ecoli.Node) error {
	if !node.CheckType("seq") {
		return ecerr.New(ecerr.EINVAL, "node is not a seq node")
	}
	t := node.Priv().(*childTable)
	t.children = append(t.children, child)
	return nil
}

// OrAdd appends a child to an existing or node.
func OrAdd(node *ecoli.Node, child *ecoli.Node) error {
	if !node.CheckType("or") {
		return ecerr.New(ecerr.EINVAL, "node is not an or node")
	}
	t := node.Priv().(*childTable)
	t.children = append(t.children, child)
	return nil
}

// --- option --------------------------------------------------------------

type onePriv struct {
	child *ecoli.Node
}

func (p *onePriv) FreeChildren() { ecoli.Free(p.child) }

var optionType = &ecoli.NodeType{
	Name: "option",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		p := node.Priv().(*onePriv)
		n, err := ecoli.ParseChild(p.child, pstate, strvec)
		if err != nil {
			return 0, err
		}
		if n == ecoli.NoMatch {
			return 0, nil
		}
		return n, nil
	},
	Complete: func(node *ecoli.Node, comp *ecoli.Comp, strvec *ecoli.StrVec) error {
		p := node.Priv().(*onePriv)
		return ecoli.CompleteChild(p.child, comp, strvec)
	},
	GetChildrenCount: func(node *ecoli.Node) int { return 1 },
	GetChild: func(node *ecoli.Node, i int) (*ecoli.Node, int, error) {
		if i != 0 {
			return nil, 0, ecerr.New(ecerr.ENOENT, "child index out of range")
		}
		return node.Priv().(*onePriv).child, 1, nil
	},
}

// Option returns a node that matches its child if possible, and otherwise
// matches zero tokens.
func Option(id string, child *ecoli.Node) (*ecoli.Node, error) {
	n, err := ecoli.New("option", id)
	if err != nil {
		return nil, err
	}
	n.SetPriv(&onePriv{child: child})
	return n, nil
}

// --- many ------------------------------------------------------------

type manyPriv struct {
	child    *ecoli.Node
	min, max int
}

func (p *manyPriv) FreeChildren() { ecoli.Free(p.child) }

var manyType = &ecoli.NodeType{
	Name: "many",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		p := node.Priv().(*manyPriv)
		total, cur, count := 0, strvec, 0
		for p.max == 0 || count < p.max {
			n, err := ecoli.ParseChild(p.child, pstate, cur)
			if err != nil {
				rollback(pstate, count)
				return 0, err
			}
			if n == ecoli.NoMatch {
				break
			}
			count++
			total += n
			if n == 0 {
				// a child that matches without consuming anything
				// would loop forever; one repetition is enough.
				break
			}
			rest, err := cur.NDup(n, cur.Len()-n)
			if err != nil {
				rollback(pstate, count)
				return 0, err
			}
			cur = rest
		}
		if count < p.min {
			rollback(pstate, count)
			return ecoli.NoMatch, nil
		}
		return total, nil
	},
	Complete: func(node *ecoli.Node, comp *ecoli.Comp, strvec *ecoli.StrVec) error {
		p := node.Priv().(*manyPriv)
		return manyCompleteRec(p.child, p.max, 0, comp, strvec)
	},
	GetChildrenCount: func(node *ecoli.Node) int { return 1 },
	GetChild: func(node *ecoli.Node, i int) (*ecoli.Node, int, error) {
		if i != 0 {
			return nil, 0, ecerr.New(ecerr.ENOENT, "child index out of range")
		}
		return node.Priv().(*manyPriv).child, 1, nil
	},
}

func manyCompleteRec(child *ecoli.Node, max, count int, comp *ecoli.Comp, strvec *ecoli.StrVec) error {
	if max != 0 && count >= max {
		return nil
	}
	if err := ecoli.CompleteChild(child, comp, strvec); err != nil {
		return err
	}
	if strvec.Len() == 0 {
		return nil
	}
	pstate := comp.CurPState()
	n, err := ecoli.ParseChild(child, pstate, strvec)
	if err != nil {
		return err
	}
	if n == ecoli.NoMatch {
		return nil
	}
	pstate.DelLastChild()
	if n >= strvec.Len() {
		return nil
	}
	suffix, err := strvec.NDup(n, strvec.Len()-n)
	if err != nil {
		return err
	}
	return manyCompleteRec(child, max, count+1, comp, suffix)
}

// Many returns a node that matches its child min to max times in a row
// (max == 0 means unbounded), consuming the concatenation of every
// repetition.
func Many(id string, child *ecoli.Node, min, max int) (*ecoli.Node, error) {
	n, err := ecoli.New("many", id)
	if err != nil {
		return nil, err
	}
	n.SetPriv(&manyPriv{child: child, min: min, max: max})
	return n, nil
}

// --- subset ------------------------------------------------------------

var subsetType = &ecoli.NodeType{
	Name: "subset",
	// subsetParse finds the longest sequence of distinct children (each
	// used at most once, in any order) that matches a prefix of strvec.
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		t := node.Priv().(*childTable)
		n, err := subsetParse(pstate, append([]*ecoli.Node{}, t.children...), strvec)
		if err != nil {
			return 0, err
		}
		return n, nil
	},
	Complete: func(node *ecoli.Node, comp *ecoli.Comp, strvec *ecoli.StrVec) error {
		t := node.Priv().(*childTable)
		return subsetComplete(append([]*ecoli.Node{}, t.children...), comp, strvec)
	},
	GetChildrenCount: childTableGetChildrenCount,
	GetChild:         childTableGetChild,
}

type subsetResult struct {
	parseLen int
	consumed int
}

func subsetParse(pstate *ecoli.PNode, table []*ecoli.Node, strvec *ecoli.StrVec) (int, error) {
	res, err := subsetParseRec(pstate, table, strvec)
	if err != nil {
		return 0, err
	}
	if res.parseLen == 0 {
		return 0, nil
	}
	return res.consumed, nil
}

func subsetRestTable(table []*ecoli.Node, drop int) []*ecoli.Node {
	rest := make([]*ecoli.Node, len(table))
	copy(rest, table)
	rest[drop] = nil
	return rest
}

// subsetParseRec tries every remaining table entry as the next pick,
// exploring each one fully (including its own recursive subset of what's
// left) and immediately undoing it, so that candidates never interfere
// with each other as siblings under the shared pstate. Once the best
// candidate index is known, its attempt is redone once more for real,
// left linked under pstate on return.
func subsetParseRec(pstate *ecoli.PNode, table []*ecoli.Node, strvec *ecoli.StrVec) (subsetResult, error) {
	bestIdx := -1
	var best subsetResult

	for i, child := range table {
		if child == nil {
			continue
		}
		n, err := ecoli.ParseChild(child, pstate, strvec)
		if err != nil {
			return subsetResult{}, err
		}
		if n == ecoli.NoMatch {
			continue
		}

		suffix, err := strvec.NDup(n, strvec.Len()-n)
		if err != nil {
			pstate.DelLastChild()
			return subsetResult{}, err
		}
		sub, err := subsetParseRec(pstate, subsetRestTable(table, i), suffix)
		if err != nil {
			return subsetResult{}, err
		}
		total := subsetResult{parseLen: sub.parseLen + 1, consumed: n + sub.consumed}
		rollback(pstate, total.parseLen)

		if bestIdx == -1 || total.parseLen > best.parseLen {
			best = total
			bestIdx = i
		}
	}

	if bestIdx == -1 {
		return subsetResult{}, nil
	}

	child := table[bestIdx]
	n, err := ecoli.ParseChild(child, pstate, strvec)
	if err != nil {
		return subsetResult{}, err
	}
	suffix, err := strvec.NDup(n, strvec.Len()-n)
	if err != nil {
		return subsetResult{}, err
	}
	if _, err := subsetParseRec(pstate, subsetRestTable(table, bestIdx), suffix); err != nil {
		return subsetResult{}, err
	}

	return best, nil
}

func subsetComplete(table []*ecoli.Node, comp *ecoli.Comp, strvec *ecoli.StrVec) error {
	for _, child := range table {
		if child == nil {
			continue
		}
		if err := ecoli.CompleteChild(child, comp, strvec); err != nil {
			return err
		}
	}

	pstate := comp.CurPState()
	for i, child := range table {
		if child == nil {
			continue
		}
		n, err := ecoli.ParseChild(child, pstate, strvec)
		if err != nil {
			return err
		}
		if n == ecoli.NoMatch {
			continue
		}
		suffix, err := strvec.NDup(n, strvec.Len()-n)
		if err != nil {
			pstate.DelLastChild()
			return err
		}
		rest := make([]*ecoli.Node, len(table))
		copy(rest, table)
		rest[i] = nil
		err = subsetComplete(rest, comp, suffix)
		pstate.DelLastChild()
		if err != nil {
			return err
		}
	}
	return nil
}

// Subset returns a node that matches any subset of its children, each at
// most once, in any order, greedily preferring the choice that consumes
// the most children.
func Subset(id string, children ...*ecoli.Node) (*ecoli.Node, error) {
	n, err := ecoli.New("subset", id)
	if err != nil {
		return nil, err
	}
	n.SetPriv(&childTable{children: append([]*ecoli.Node{}, children...)})
	return n, nil
}

// SubsetAdd appends a child to an existing subset node.
func SubsetAdd(node *ecoli.Node, child *ecoli.Node) error {
	if !node.CheckType("subset") {
		return ecerr.New(ecerr.EINVAL, "node is not a subset node")
	}
	t := node.Priv().(*childTable)
	t.children = append(t.children, child)
	return nil
}

// --- once ----------------------------------------------------------------

var onceType = &ecoli.NodeType{
	Name: "once",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		p := node.Priv().(*onePriv)
		if onceAlreadyMatched(pstate, node) {
			return ecoli.NoMatch, nil
		}
		return ecoli.ParseChild(p.child, pstate, strvec)
	},
	Complete: func(node *ecoli.Node, comp *ecoli.Comp, strvec *ecoli.StrVec) error {
		p := node.Priv().(*onePriv)
		if onceAlreadyMatched(comp.CurPState(), node) {
			return nil
		}
		return ecoli.CompleteChild(p.child, comp, strvec)
	},
	GetChildrenCount: func(node *ecoli.Node) int { return 1 },
	GetChild: func(node *ecoli.Node, i int) (*ecoli.Node, int, error) {
		if i != 0 {
			return nil, 0, ecerr.New(ecerr.ENOENT, "child index out of range")
		}
		return node.Priv().(*onePriv).child, 1, nil
	},
}

// onceAlreadyMatched reports whether node already produced a matching
// parse-tree node anywhere in pstate's tree, which is how a "once"
// combinator, typically nested under "many" via "or", keeps a repeatable
// alternative from being picked twice.
func onceAlreadyMatched(pstate *ecoli.PNode, node *ecoli.Node) bool {
	if pstate == nil {
		return false
	}
	root := pstate.GetRoot()
	for p := root; p != nil; p = p.IterNext(root, true) {
		if p.Node() == node && p.Matches() {
			return true
		}
	}
	return false
}

// Once returns a node that behaves like its child, except that once it
// has matched anywhere in a parse tree, further attempts to match it
// again in that same tree fail.
func Once(id string, child *ecoli.Node) (*ecoli.Node, error) {
	n, err := ecoli.New("once", id)
	if err != nil {
		return nil, err
	}
	n.SetPriv(&onePriv{child: child})
	return n, nil
}

// --- bypass --------------------------------------------------------------

type bypassPriv struct {
	child *ecoli.Node
}

func (p *bypassPriv) FreeChildren() {
	if p.child != nil {
		ecoli.Free(p.child)
	}
}

var bypassType = &ecoli.NodeType{
	Name: "bypass",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		p := node.Priv().(*bypassPriv)
		if p.child == nil {
			return 0, ecerr.New(ecerr.EINVAL, "bypass node has no child set")
		}
		return ecoli.ParseChild(p.child, pstate, strvec)
	},
	Complete: func(node *ecoli.Node, comp *ecoli.Comp, strvec *ecoli.StrVec) error {
		p := node.Priv().(*bypassPriv)
		if p.child == nil {
			return nil
		}
		return ecoli.CompleteChild(p.child, comp, strvec)
	},
	GetChildrenCount: func(node *ecoli.Node) int {
		if node.Priv().(*bypassPriv).child == nil {
			return 0
		}
		return 1
	},
	GetChild: func(node *ecoli.Node, i int) (*ecoli.Node, int, error) {
		p := node.Priv().(*bypassPriv)
		if i != 0 || p.child == nil {
			return nil, 0, ecerr.New(ecerr.ENOENT, "child index out of range")
		}
		return p.child, 1, nil
	},
}

// Bypass returns a forwarding placeholder node with no child yet. Set one
// with BypassSet before using the node, to build grammars that need to
// reference themselves (e.g. a parenthesized sub-expression that contains
// another expression).
func Bypass(id string) (*ecoli.Node, error) {
	n, err := ecoli.New("bypass", id)
	if err != nil {
		return nil, err
	}
	n.SetPriv(&bypassPriv{})
	return n, nil
}

// BypassSet assigns node's forwarding target. It fails if node is not a
// bypass node or already has a child.
func BypassSet(node *ecoli.Node, child *ecoli.Node) error {
	if !node.CheckType("bypass") {
		return ecerr.New(ecerr.EINVAL, "node is not a bypass node")
	}
	p := node.Priv().(*bypassPriv)
	if p.child != nil {
		return ecerr.New(ecerr.EPERM, "bypass node already has a child")
	}
	p.child = child
	return nil
}
