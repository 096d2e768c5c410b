package nodes

import (
	"strconv"

	"github.com/vjardin/ecoli"
	"github.com/vjardin/ecoli/internal/ecerr"
)

func init() {
	ecoli.RegisterTypeOverride(condType)
}

// --- predicate language -------------------------------------------------
//
// predicate ::= identifier ( "(" predicate ("," predicate)* ")" )?
//             | integer | identifier

type condExprKind int

const (
	condExprCall condExprKind = iota
	condExprIdent
	condExprInt
)

type condExpr struct {
	kind condExprKind
	name string
	ival int64
	args []*condExpr
}

func condTokenize(s string) ([]string, error) {
	var toks []string
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(' || c == ')' || c == ',':
			toks = append(toks, string(c))
			i++
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			j := i + 1
			for j < len(s) {
				d := s[j]
				if d == '_' || d == '.' || (d >= 'a' && d <= 'z') ||
					(d >= 'A' && d <= 'Z') || (d >= '0' && d <= '9') {
					j++
					continue
				}
				break
			}
			toks = append(toks, s[i:j])
			i = j
		case c >= '0' && c <= '9':
			j := i + 1
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			toks = append(toks, s[i:j])
			i = j
		default:
			return nil, ecerr.Errorf(ecerr.EBADMSG, "cond: unexpected character %q", c)
		}
	}
	return toks, nil
}

type condParser struct {
	toks []string
	pos  int
}

func (p *condParser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *condParser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func condIsIdentTok(t string) bool {
	if t == "" {
		return false
	}
	c := t[0]
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func condIsIntTok(t string) bool {
	if t == "" {
		return false
	}
	return t[0] >= '0' && t[0] <= '9'
}

func (p *condParser) parsePredicate() (*condExpr, error) {
	tok := p.next()
	if condIsIntTok(tok) {
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, ecerr.Wrap(ecerr.EBADMSG, err, "cond: invalid integer")
		}
		return &condExpr{kind: condExprInt, ival: v}, nil
	}
	if !condIsIdentTok(tok) {
		return nil, ecerr.Errorf(ecerr.EBADMSG, "cond: expected identifier or integer, got %q", tok)
	}

	if p.peek() != "(" {
		return &condExpr{kind: condExprIdent, name: tok}, nil
	}
	p.next() // "("

	e := &condExpr{kind: condExprCall, name: tok}
	if p.peek() == ")" {
		p.next()
		return e, nil
	}
	for {
		arg, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		e.args = append(e.args, arg)
		switch p.next() {
		case ",":
			continue
		case ")":
			return e, nil
		default:
			return nil, ecerr.New(ecerr.EBADMSG, "cond: expected ',' or ')'")
		}
	}
}

func condParse(s string) (*condExpr, error) {
	toks, err := condTokenize(s)
	if err != nil {
		return nil, err
	}
	p := &condParser{toks: toks}
	e, err := p.parsePredicate()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, ecerr.New(ecerr.EBADMSG, "cond: trailing tokens after predicate")
	}
	return e, nil
}

// --- evaluation ----------------------------------------------------------
//
// A condValue is one of: []*ecoli.PNode (a nodeset), int64, string, bool.

func condTruthy(v interface{}) bool {
	switch x := v.(type) {
	case []*ecoli.PNode:
		return len(x) > 0
	case int64:
		return x != 0
	case string:
		return x != ""
	case bool:
		return x
	default:
		return false
	}
}

func condWalk(root *ecoli.PNode) []*ecoli.PNode {
	var out []*ecoli.PNode
	for p := root; p != nil; p = p.IterNext(root, true) {
		out = append(out, p)
	}
	return out
}

func condFuncRoot(pstate *ecoli.PNode, args []interface{}) (interface{}, error) {
	if len(args) != 0 {
		return nil, ecerr.New(ecerr.EINVAL, "root() takes no arguments")
	}
	return []*ecoli.PNode{pstate.GetRoot()}, nil
}

func condFuncCurrent(pstate *ecoli.PNode, args []interface{}) (interface{}, error) {
	if len(args) != 0 {
		return nil, ecerr.New(ecerr.EINVAL, "current() takes no arguments")
	}
	return []*ecoli.PNode{pstate}, nil
}

func condFuncFirstChild(pstate *ecoli.PNode, args []interface{}) (interface{}, error) {
	if len(args) != 1 {
		return nil, ecerr.New(ecerr.EINVAL, "first_child() takes one argument")
	}
	ns, ok := args[0].([]*ecoli.PNode)
	if !ok {
		return nil, ecerr.New(ecerr.EINVAL, "first_child() expects a nodeset")
	}
	var out []*ecoli.PNode
	for _, n := range ns {
		if c := n.GetFirstChild(); c != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func condFuncFind(pstate *ecoli.PNode, args []interface{}) (interface{}, error) {
	if len(args) != 2 {
		return nil, ecerr.New(ecerr.EINVAL, "find() takes two arguments")
	}
	ns, ok := args[0].([]*ecoli.PNode)
	if !ok {
		return nil, ecerr.New(ecerr.EINVAL, "find() expects a nodeset as its first argument")
	}
	id, ok := args[1].(string)
	if !ok {
		return nil, ecerr.New(ecerr.EINVAL, "find() expects an identifier as its second argument")
	}
	var out []*ecoli.PNode
	for _, n := range ns {
		for _, d := range condWalk(n) {
			if d.Node() != nil && d.Node().ID() == id {
				out = append(out, d)
			}
		}
	}
	return out, nil
}

func condFuncCount(pstate *ecoli.PNode, args []interface{}) (interface{}, error) {
	if len(args) != 1 {
		return nil, ecerr.New(ecerr.EINVAL, "count() takes one argument")
	}
	ns, ok := args[0].([]*ecoli.PNode)
	if !ok {
		return nil, ecerr.New(ecerr.EINVAL, "count() expects a nodeset")
	}
	return int64(len(ns)), nil
}

func condFuncBool(pstate *ecoli.PNode, args []interface{}) (interface{}, error) {
	if len(args) != 1 {
		return nil, ecerr.New(ecerr.EINVAL, "bool() takes one argument")
	}
	return condTruthy(args[0]), nil
}

func condFuncOr(pstate *ecoli.PNode, args []interface{}) (interface{}, error) {
	if len(args) == 0 {
		return false, nil
	}
	for _, a := range args {
		if condTruthy(a) {
			return a, nil
		}
	}
	return args[len(args)-1], nil
}

func condFuncAnd(pstate *ecoli.PNode, args []interface{}) (interface{}, error) {
	if len(args) == 0 {
		return true, nil
	}
	for _, a := range args {
		if !condTruthy(a) {
			return a, nil
		}
	}
	return args[len(args)-1], nil
}

func condAsInt(v interface{}) (int64, bool) {
	i, ok := v.(int64)
	return i, ok
}

func condFuncCmp(pstate *ecoli.PNode, args []interface{}) (interface{}, error) {
	if len(args) != 3 {
		return nil, ecerr.New(ecerr.EINVAL, "cmp() takes three arguments")
	}
	op, ok := args[0].(string)
	if !ok {
		return nil, ecerr.New(ecerr.EINVAL, "cmp() expects an operator name as its first argument")
	}

	switch op {
	case "eq", "ne":
		equal := args[1] == args[2]
		if ai, aok := condAsInt(args[1]); aok {
			if bi, bok := condAsInt(args[2]); bok {
				equal = ai == bi
			}
		}
		if op == "eq" {
			return equal, nil
		}
		return !equal, nil
	case "lt", "le", "gt", "ge":
		a, aok := condAsInt(args[1])
		b, bok := condAsInt(args[2])
		if !aok || !bok {
			return nil, ecerr.New(ecerr.EINVAL, "cmp() ordering operators require integers")
		}
		switch op {
		case "lt":
			return a < b, nil
		case "le":
			return a <= b, nil
		case "gt":
			return a > b, nil
		default:
			return a >= b, nil
		}
	default:
		return nil, ecerr.Errorf(ecerr.EINVAL, "cmp(): unknown operator %q", op)
	}
}

type condFunc func(pstate *ecoli.PNode, args []interface{}) (interface{}, error)

var condFuncs = map[string]condFunc{
	"root":         condFuncRoot,
	"current":      condFuncCurrent,
	"first_child":  condFuncFirstChild,
	"find":         condFuncFind,
	"count":        condFuncCount,
	"bool":         condFuncBool,
	"or":           condFuncOr,
	"and":          condFuncAnd,
	"cmp":          condFuncCmp,
}

func condEval(e *condExpr, pstate *ecoli.PNode) (interface{}, error) {
	switch e.kind {
	case condExprInt:
		return e.ival, nil
	case condExprIdent:
		return e.name, nil
	case condExprCall:
		fn, ok := condFuncs[e.name]
		if !ok {
			return nil, ecerr.Errorf(ecerr.ENOENT, "cond: unknown function %q", e.name)
		}
		args := make([]interface{}, len(e.args))
		for i, a := range e.args {
			v, err := condEval(a, pstate)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return fn(pstate, args)
	default:
		return nil, ecerr.New(ecerr.EINVAL, "cond: malformed predicate")
	}
}

// --- node type -------------------------------------------------------

type condPriv struct {
	predicateStr string
	predicate    *condExpr
	child        *ecoli.Node
}

func (p *condPriv) FreeChildren() { ecoli.Free(p.child) }

var condType = &ecoli.NodeType{
	Name: "cond",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		p := node.Priv().(*condPriv)
		n, err := ecoli.ParseChild(p.child, pstate, strvec)
		if err != nil {
			return 0, err
		}
		if n == ecoli.NoMatch {
			return ecoli.NoMatch, nil
		}

		matched := pstate.GetLastChild()
		v, err := condEval(p.predicate, matched)
		if err != nil {
			pstate.DelLastChild()
			return 0, err
		}
		if !condTruthy(v) {
			pstate.DelLastChild()
			return ecoli.NoMatch, nil
		}
		return n, nil
	},
	Complete: func(node *ecoli.Node, comp *ecoli.Comp, strvec *ecoli.StrVec) error {
		p := node.Priv().(*condPriv)
		return ecoli.CompleteChild(p.child, comp, strvec)
	},
	GetChildrenCount: func(node *ecoli.Node) int { return 1 },
	GetChild: func(node *ecoli.Node, i int) (*ecoli.Node, int, error) {
		if i != 0 {
			return nil, 0, ecerr.New(ecerr.ENOENT, "child index out of range")
		}
		return node.Priv().(*condPriv).child, 1, nil
	},
}

// Cond returns a node that matches child, then evaluates predicate (see
// the package-level predicate grammar) against the parse state of the
// match that was just produced, rejecting it if the predicate is not
// truthy. Standard predicate functions are root, current, first_child,
// find, count, bool, or, and, cmp.
func Cond(id, predicate string, child *ecoli.Node) (*ecoli.Node, error) {
	e, err := condParse(predicate)
	if err != nil {
		ecoli.Free(child)
		return nil, err
	}
	n, err := ecoli.New("cond", id)
	if err != nil {
		ecoli.Free(child)
		return nil, err
	}
	n.SetPriv(&condPriv{predicateStr: predicate, predicate: e, child: child})
	return n, nil
}
