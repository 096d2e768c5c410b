package nodes

import (
	"sync"

	"github.com/vjardin/ecoli"
	"github.com/vjardin/ecoli/internal/ecerr"
)

func init() {
	ecoli.RegisterTypeOverride(cmdType)
}

var (
	cmdParserOnce sync.Once
	cmdParser     *ecoli.Node // re-lex(expr), used to parse a cmd expression string
	cmdExprNode   *ecoli.Node // the bare expr node, used to classify/evaluate
	cmdBuildErr   error
)

// cmdBuildExprGrammar builds the little grammar a cmd expression string
// like "command [option] (subset1, subset2) x|y z*" is itself written in:
// a bare identifier references a child node by id (or becomes a literal
// string match), "," groups an unordered subset, "|" an alternative, "+"
// and "*" repeat the previous term, "[...]" makes it optional, and
// "(...)" just groups.
func cmdBuildExprGrammar() error {
	expr, err := Expr("expr")
	if err != nil {
		return err
	}
	val, err := Re("", "[a-zA-Z0-9._-]+")
	if err != nil {
		return err
	}
	if err := ExprSetValNode(expr, val); err != nil {
		return err
	}

	comma, err := Str("", ",")
	if err != nil {
		return err
	}
	if err := ExprAddBinOp(expr, comma); err != nil {
		return err
	}
	pipe, err := Str("", "|")
	if err != nil {
		return err
	}
	if err := ExprAddBinOp(expr, pipe); err != nil {
		return err
	}
	seqOp, err := Empty("")
	if err != nil {
		return err
	}
	if err := ExprAddBinOp(expr, seqOp); err != nil {
		return err
	}

	plus, err := Str("", "+")
	if err != nil {
		return err
	}
	if err := ExprAddPostOp(expr, plus); err != nil {
		return err
	}
	star, err := Str("", "*")
	if err != nil {
		return err
	}
	if err := ExprAddPostOp(expr, star); err != nil {
		return err
	}

	lbrack, err := Str("", "[")
	if err != nil {
		return err
	}
	rbrack, err := Str("", "]")
	if err != nil {
		return err
	}
	if err := ExprAddParenthesis(expr, lbrack, rbrack); err != nil {
		return err
	}
	lparen, err := Str("", "(")
	if err != nil {
		return err
	}
	rparen, err := Str("", ")")
	if err != nil {
		return err
	}
	if err := ExprAddParenthesis(expr, lparen, rparen); err != nil {
		return err
	}

	lex, err := ReLex("", ecoli.Clone(expr), []ReLexPattern{
		{Pattern: "[a-zA-Z0-9._-]+", Keep: true},
		{Pattern: "[*+|,()]", Keep: true},
		{Pattern: `\[`, Keep: true},
		{Pattern: `\]`, Keep: true},
		{Pattern: `[\t ]+`, Keep: false},
	})
	if err != nil {
		return err
	}

	cmdExprNode = expr
	cmdParser = lex
	return nil
}

func cmdEnsureParser() error {
	cmdParserOnce.Do(func() {
		cmdBuildErr = cmdBuildExprGrammar()
	})
	return cmdBuildErr
}

// cmdEvalVar resolves an identifier matched by the value node to one of
// the caller's children (by id) or, failing that, to a literal string
// match.
func cmdEvalVar(table []*ecoli.Node) func(pn *ecoli.PNode) (interface{}, error) {
	return func(pn *ecoli.PNode) (interface{}, error) {
		if pn.Strvec().Len() != 1 {
			return nil, ecerr.New(ecerr.EINVAL, "cmd: malformed value token")
		}
		str := pn.Strvec().Get(0)
		for _, child := range table {
			if child.ID() == str {
				return ecoli.Clone(child), nil
			}
		}
		return Str("", str)
	}
}

func cmdEvalPreOp(operand interface{}, op *ecoli.PNode) (interface{}, error) {
	return nil, ecerr.New(ecerr.EINVAL, "cmd expressions have no prefix operators")
}

func cmdEvalPostOp(operand interface{}, op *ecoli.PNode) (interface{}, error) {
	in := operand.(*ecoli.Node)
	if op.Strvec().Len() != 1 {
		return nil, ecerr.New(ecerr.EINVAL, "cmd: malformed postfix operator")
	}
	switch op.Strvec().Get(0) {
	case "*":
		return Many("", in, 0, 0)
	case "+":
		return Many("", in, 1, 0)
	default:
		return nil, ecerr.New(ecerr.EINVAL, "cmd: unknown postfix operator")
	}
}

func cmdEvalBinOp(left interface{}, op *ecoli.PNode, right interface{}) (interface{}, error) {
	in1 := left.(*ecoli.Node)
	in2 := right.(*ecoli.Node)

	if op.Strvec().Len() > 1 {
		return nil, ecerr.New(ecerr.EINVAL, "cmd: malformed binary operator")
	}
	if op.Strvec().Len() == 0 {
		if in1.CheckType("seq") {
			if err := SeqAdd(in1, ecoli.Clone(in2)); err != nil {
				return nil, err
			}
			return in1, nil
		}
		return Seq("", ecoli.Clone(in1), ecoli.Clone(in2))
	}

	switch op.Strvec().Get(0) {
	case "|":
		if in2.CheckType("or") {
			if err := OrAdd(in2, ecoli.Clone(in1)); err != nil {
				return nil, err
			}
			return in2, nil
		}
		if in1.CheckType("or") {
			if err := OrAdd(in1, ecoli.Clone(in2)); err != nil {
				return nil, err
			}
			return in1, nil
		}
		return Or("", ecoli.Clone(in1), ecoli.Clone(in2))
	case ",":
		if in2.CheckType("subset") {
			if err := SubsetAdd(in2, ecoli.Clone(in1)); err != nil {
				return nil, err
			}
			return in2, nil
		}
		if in1.CheckType("subset") {
			if err := SubsetAdd(in1, ecoli.Clone(in2)); err != nil {
				return nil, err
			}
			return in1, nil
		}
		return Subset("", ecoli.Clone(in1), ecoli.Clone(in2))
	default:
		return nil, ecerr.New(ecerr.EINVAL, "cmd: unknown binary operator")
	}
}

func cmdEvalParenthesis(open, close *ecoli.PNode, value interface{}) (interface{}, error) {
	in := value.(*ecoli.Node)
	if open.Strvec().Len() != 1 {
		return nil, ecerr.New(ecerr.EINVAL, "cmd: malformed parenthesis")
	}
	switch open.Strvec().Get(0) {
	case "[":
		return Option("", in)
	case "(":
		return in, nil
	default:
		return nil, ecerr.New(ecerr.EINVAL, "cmd: unknown parenthesis")
	}
}

// cmdBuild parses exprStr with the shared command-expression grammar and
// evaluates it into the actual matching node, resolving bare identifiers
// against table by id.
func cmdBuild(exprStr string, table []*ecoli.Node) (*ecoli.Node, error) {
	if err := cmdEnsureParser(); err != nil {
		return nil, err
	}

	pn, err := ecoli.Parse(cmdParser, exprStr)
	if err != nil {
		return nil, err
	}
	if !pn.Matches() {
		return nil, ecerr.Errorf(ecerr.EINVAL, "invalid cmd expression %q", exprStr)
	}

	first := pn.GetFirstChild()
	if first == nil {
		return nil, ecerr.New(ecerr.EINVAL, "cmd expression produced an empty parse tree")
	}

	ops := &ExprEvalOps{
		EvalVar:         cmdEvalVar(table),
		EvalPreOp:       cmdEvalPreOp,
		EvalPostOp:      cmdEvalPostOp,
		EvalBinOp:       cmdEvalBinOp,
		EvalParenthesis: cmdEvalParenthesis,
	}
	result, err := ExprEval(cmdExprNode, first, ops)
	if err != nil {
		return nil, err
	}
	return result.(*ecoli.Node), nil
}

type cmdPriv struct {
	exprStr string
	cmd     *ecoli.Node
	table   []*ecoli.Node
}

func (p *cmdPriv) FreeChildren() {
	ecoli.Free(p.cmd)
	for _, c := range p.table {
		ecoli.Free(c)
	}
}

var cmdType = &ecoli.NodeType{
	Name: "cmd",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		p := node.Priv().(*cmdPriv)
		return ecoli.ParseChild(p.cmd, pstate, strvec)
	},
	Complete: func(node *ecoli.Node, comp *ecoli.Comp, strvec *ecoli.StrVec) error {
		p := node.Priv().(*cmdPriv)
		return ecoli.CompleteChild(p.cmd, comp, strvec)
	},
	GetChildrenCount: func(node *ecoli.Node) int { return 1 },
	GetChild: func(node *ecoli.Node, i int) (*ecoli.Node, int, error) {
		if i != 0 {
			return nil, 0, ecerr.New(ecerr.ENOENT, "child index out of range")
		}
		return node.Priv().(*cmdPriv).cmd, 1, nil
	},
}

// Cmd returns a node matching the tokens described by a small expression
// language: whitespace-separated terms, each a bare identifier (matching
// a child in children by id, or else literally), grouped with "|"
// (alternative), "," (unordered subset), "[...]" (optional), "(...)"
// (grouping), "term*" (zero or more) and "term+" (one or more). For
// example, "command [option] (subset1, subset2) x|y" given children
// named "x" and "y" builds a grammar matching "command", then optionally
// "option", then subset1 and subset2 in any order, then "x" or "y".
func Cmd(id, exprStr string, children ...*ecoli.Node) (*ecoli.Node, error) {
	table := append([]*ecoli.Node{}, children...)
	cmd, err := cmdBuild(exprStr, table)
	if err != nil {
		for _, c := range table {
			ecoli.Free(c)
		}
		return nil, err
	}
	n, err := ecoli.New("cmd", id)
	if err != nil {
		ecoli.Free(cmd)
		for _, c := range table {
			ecoli.Free(c)
		}
		return nil, err
	}
	n.SetPriv(&cmdPriv{exprStr: exprStr, cmd: cmd, table: table})
	return n, nil
}
