package nodes

import (
	"github.com/vjardin/ecoli"
	"github.com/vjardin/ecoli/internal/ecerr"
)

func init() {
	ecoli.RegisterTypeOverride(exprType)
}

// exprPriv holds the operator vocabulary an expr node was configured
// with, plus the grammar built from it. Node identity (not node
// structure) is what exprGetNodeKind uses to recognize, during evaluation,
// which role a given leaf of the built grammar plays, since Clone in this
// library hands back the very same node rather than a structural copy.
type exprPriv struct {
	valNode  *ecoli.Node
	binOps   []*ecoli.Node
	preOps   []*ecoli.Node
	postOps  []*ecoli.Node
	openOps  []*ecoli.Node
	closeOps []*ecoli.Node
	child    *ecoli.Node
}

var exprType = &ecoli.NodeType{
	Name: "expr",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		p := node.Priv().(*exprPriv)
		if p.child == nil {
			return 0, ecerr.New(ecerr.ENOENT, "expr node has no value node set")
		}
		return ecoli.ParseChild(p.child, pstate, strvec)
	},
	Complete: func(node *ecoli.Node, comp *ecoli.Comp, strvec *ecoli.StrVec) error {
		p := node.Priv().(*exprPriv)
		if p.child == nil {
			return ecerr.New(ecerr.ENOENT, "expr node has no value node set")
		}
		return ecoli.CompleteChild(p.child, comp, strvec)
	},
	GetChildrenCount: func(node *ecoli.Node) int {
		if node.Priv().(*exprPriv).child == nil {
			return 0
		}
		return 1
	},
	GetChild: func(node *ecoli.Node, i int) (*ecoli.Node, int, error) {
		p := node.Priv().(*exprPriv)
		if i != 0 || p.child == nil {
			return nil, 0, ecerr.New(ecerr.ENOENT, "child index out of range")
		}
		return p.child, 1, nil
	},
}

// Expr returns an empty operator-precedence expression node. Configure it
// with ExprSetValNode and any mix of ExprAddBinOp/ExprAddPreOp/
// ExprAddPostOp/ExprAddParenthesis, in any order, before using it to
// parse: each call rebuilds the underlying grammar from scratch.
func Expr(id string) (*ecoli.Node, error) {
	n, err := ecoli.New("expr", id)
	if err != nil {
		return nil, err
	}
	n.SetPriv(&exprPriv{})
	return n, nil
}

func exprRebuild(node *ecoli.Node) error {
	p := node.Priv().(*exprPriv)
	// Until a value node and at least one operator are set there is no
	// grammar to build yet; Parse and Complete report ENOENT meanwhile.
	if p.valNode == nil || (len(p.binOps) == 0 && len(p.preOps) == 0 && len(p.postOps) == 0) {
		return nil
	}

	if p.child != nil {
		ecoli.Free(p.child)
		p.child = nil
	}

	// Grammar shape (degenerate example with one bin op "+", one pre
	// op "!", one post op "^", and parenthesis "(" ")"):
	//
	//   post = val | (pre-op ref) | ("(" ref ")")
	//   term = post post-op*
	//   expr = term ("+" term)*
	//   ref  = expr   (set after expr is built, closes the recursion)

	ref, err := Bypass("ref")
	if err != nil {
		return err
	}

	preOp, err := Or("pre-op", p.preOps...)
	if err != nil {
		ecoli.Free(ref)
		return err
	}
	postOp, err := Or("post-op", p.postOps...)
	if err != nil {
		ecoli.Free(ref)
		ecoli.Free(preOp)
		return err
	}

	post, err := Or("post", ecoli.Clone(p.valNode))
	if err != nil {
		ecoli.Free(ref)
		ecoli.Free(preOp)
		ecoli.Free(postOp)
		return err
	}
	preSeq, err := Seq("", ecoli.Clone(preOp), ecoli.Clone(ref))
	if err != nil {
		ecoli.Free(ref)
		ecoli.Free(preOp)
		ecoli.Free(postOp)
		ecoli.Free(post)
		return err
	}
	if err := OrAdd(post, preSeq); err != nil {
		return err
	}
	for i := range p.openOps {
		parenSeq, err := Seq("", ecoli.Clone(p.openOps[i]), ecoli.Clone(ref), ecoli.Clone(p.closeOps[i]))
		if err != nil {
			return err
		}
		if err := OrAdd(post, parenSeq); err != nil {
			return err
		}
	}

	term, err := Seq("term", ecoli.Clone(post), func() *ecoli.Node {
		m, _ := Many("", ecoli.Clone(postOp), 0, 0)
		return m
	}())
	if err != nil {
		return err
	}

	for _, binOp := range p.binOps {
		rep, err := Seq("", ecoli.Clone(binOp), ecoli.Clone(term))
		if err != nil {
			return err
		}
		many, err := Many("", rep, 0, 0)
		if err != nil {
			return err
		}
		next, err := Seq("next", ecoli.Clone(term), many)
		if err != nil {
			return err
		}
		ecoli.Free(term)
		term = next
	}

	expr := term
	ecoli.Free(preOp)
	ecoli.Free(postOp)
	ecoli.Free(post)

	if err := BypassSet(ref, ecoli.Clone(expr)); err != nil {
		return err
	}
	ecoli.Free(ref)

	p.child = expr
	return nil
}

// ExprSetValNode sets the leaf node an expr matches a bare value against,
// and rebuilds the grammar.
func ExprSetValNode(node *ecoli.Node, val *ecoli.Node) error {
	if !node.CheckType("expr") {
		return ecerr.New(ecerr.EINVAL, "node is not an expr node")
	}
	p := node.Priv().(*exprPriv)
	ecoli.Free(p.valNode)
	p.valNode = val
	return exprRebuild(node)
}

// ExprAddBinOp adds a left-associative binary operator. Operators added
// earlier bind tighter (are evaluated deeper) than ones added later.
func ExprAddBinOp(node *ecoli.Node, op *ecoli.Node) error {
	if !node.CheckType("expr") {
		return ecerr.New(ecerr.EINVAL, "node is not an expr node")
	}
	p := node.Priv().(*exprPriv)
	p.binOps = append(p.binOps, op)
	return exprRebuild(node)
}

// ExprAddPreOp adds a unary prefix operator.
func ExprAddPreOp(node *ecoli.Node, op *ecoli.Node) error {
	if !node.CheckType("expr") {
		return ecerr.New(ecerr.EINVAL, "node is not an expr node")
	}
	p := node.Priv().(*exprPriv)
	p.preOps = append(p.preOps, op)
	return exprRebuild(node)
}

// ExprAddPostOp adds a unary postfix operator.
func ExprAddPostOp(node *ecoli.Node, op *ecoli.Node) error {
	if !node.CheckType("expr") {
		return ecerr.New(ecerr.EINVAL, "node is not an expr node")
	}
	p := node.Priv().(*exprPriv)
	p.postOps = append(p.postOps, op)
	return exprRebuild(node)
}

// ExprAddParenthesis adds a pair of grouping symbols that wrap a
// sub-expression.
func ExprAddParenthesis(node *ecoli.Node, open, close *ecoli.Node) error {
	if !node.CheckType("expr") {
		return ecerr.New(ecerr.EINVAL, "node is not an expr node")
	}
	p := node.Priv().(*exprPriv)
	p.openOps = append(p.openOps, open)
	p.closeOps = append(p.closeOps, close)
	return exprRebuild(node)
}

// --- evaluation ------------------------------------------------------

type exprNodeKind int

const (
	exprKindNone exprNodeKind = iota
	exprKindVal
	exprKindBinOp
	exprKindPreOp
	exprKindPostOp
	exprKindParenOpen
	exprKindParenClose
)

func exprGetNodeKind(p *exprPriv, check *ecoli.Node) exprNodeKind {
	if check == p.valNode {
		return exprKindVal
	}
	for _, n := range p.binOps {
		if check == n {
			return exprKindBinOp
		}
	}
	for _, n := range p.preOps {
		if check == n {
			return exprKindPreOp
		}
	}
	for _, n := range p.postOps {
		if check == n {
			return exprKindPostOp
		}
	}
	for _, n := range p.openOps {
		if check == n {
			return exprKindParenOpen
		}
	}
	for _, n := range p.closeOps {
		if check == n {
			return exprKindParenClose
		}
	}
	return exprKindNone
}

// ExprEvalOps is the set of callbacks ExprEval uses to turn a matched
// expr parse tree into a caller-defined result value, one node at a
// time, bottom-up.
type ExprEvalOps struct {
	EvalVar         func(pnode *ecoli.PNode) (interface{}, error)
	EvalPreOp       func(operand interface{}, op *ecoli.PNode) (interface{}, error)
	EvalPostOp      func(operand interface{}, op *ecoli.PNode) (interface{}, error)
	EvalBinOp       func(left interface{}, op *ecoli.PNode, right interface{}) (interface{}, error)
	EvalParenthesis func(open, close *ecoli.PNode, value interface{}) (interface{}, error)
}

type exprResult struct {
	hasVal bool
	val    interface{}
	op     *ecoli.PNode
	opKind exprNodeKind
}

func exprMergeResults(ops *ExprEvalOps, x *exprResult, y *exprResult) error {
	if !y.hasVal && y.op == nil {
		return nil
	}
	if !x.hasVal && x.op == nil {
		*x = *y
		return nil
	}

	if x.hasVal && y.hasVal && y.op != nil && y.opKind == exprKindBinOp {
		v, err := ops.EvalBinOp(x.val, y.op, y.val)
		if err != nil {
			return err
		}
		x.val = v
		return nil
	}

	if !x.hasVal && x.op != nil && y.hasVal && y.op == nil {
		if x.opKind == exprKindPreOp {
			v, err := ops.EvalPreOp(y.val, x.op)
			if err != nil {
				return err
			}
			x.val = v
			x.hasVal = true
			x.op = nil
			x.opKind = exprKindNone
			return nil
		} else if x.opKind == exprKindBinOp {
			x.val = y.val
			x.hasVal = true
			return nil
		}
	}

	if x.hasVal && x.op == nil && !y.hasVal && y.op != nil {
		v, err := ops.EvalPostOp(x.val, y.op)
		if err != nil {
			return err
		}
		x.val = v
		return nil
	}

	return ecerr.New(ecerr.EINVAL, "expr eval: unreachable result combination")
}

func exprEvalRec(p *exprPriv, ops *ExprEvalOps, pn *ecoli.PNode) (exprResult, error) {
	result := exprResult{}

	kind := exprGetNodeKind(p, pn.Node())
	switch kind {
	case exprKindVal:
		v, err := ops.EvalVar(pn)
		if err != nil {
			return exprResult{}, err
		}
		result.val = v
		result.hasVal = true
	case exprKindPreOp, exprKindPostOp, exprKindBinOp:
		result.op = pn
		result.opKind = kind
	}

	var open, close *ecoli.PNode
	for child := pn.GetFirstChild(); child != nil; child = child.Next() {
		ck := exprGetNodeKind(p, child.Node())
		if ck == exprKindParenOpen {
			open = child
			continue
		}
		if ck == exprKindParenClose {
			close = child
			continue
		}

		childResult, err := exprEvalRec(p, ops, child)
		if err != nil {
			return exprResult{}, err
		}
		if err := exprMergeResults(ops, &result, &childResult); err != nil {
			return exprResult{}, err
		}
	}

	if open != nil && close != nil {
		v, err := ops.EvalParenthesis(open, close, result.val)
		if err != nil {
			return exprResult{}, err
		}
		result.val = v
	}

	return result, nil
}

// ExprEval walks a matched parse tree produced by node (an expr node)
// bottom-up, turning each value, operator, and parenthesis pair into a
// caller-defined result via ops.
func ExprEval(node *ecoli.Node, pn *ecoli.PNode, ops *ExprEvalOps) (interface{}, error) {
	if !node.CheckType("expr") {
		return nil, ecerr.New(ecerr.EINVAL, "node is not an expr node")
	}
	if !pn.Matches() {
		return nil, ecerr.New(ecerr.EINVAL, "parse tree does not match")
	}
	p := node.Priv().(*exprPriv)

	result, err := exprEvalRec(p, ops, pn)
	if err != nil {
		return nil, err
	}
	return result.val, nil
}
