// Package nodes registers the built-in grammar node types: string/regex/
// number terminals, the structural combinators (or, seq, option, many,
// subset, once, bypass), the lexer bridges (re-lex, sh-lex), the
// dynamic/dynlist/file combinators, and the cmd/expr/cond mini-languages.
//
// Importing the package for side effects registers every type with the
// ecoli registry. Each type is configured through its exported
// constructor, which takes plain Go arguments: none of the types declares
// a config schema, so Node.SetConfig rejects them all, and a node made
// with ecoli.New alone has no private state to parse or complete with.
package nodes

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vjardin/ecoli"
	"github.com/vjardin/ecoli/internal/ecerr"
)

func init() {
	ecoli.RegisterTypeOverride(strType)
	ecoli.RegisterTypeOverride(anyType)
	ecoli.RegisterTypeOverride(emptyType)
	ecoli.RegisterTypeOverride(spaceType)
	ecoli.RegisterTypeOverride(reType)
	ecoli.RegisterTypeOverride(intType)
	ecoli.RegisterTypeOverride(uintType)
}

// --- str -------------------------------------------------------------

type strPriv struct {
	value string
}

var strType = &ecoli.NodeType{
	Name: "str",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		priv := node.Priv().(*strPriv)
		if strvec.Len() == 0 {
			return ecoli.NoMatch, nil
		}
		if strvec.Get(0) != priv.value {
			return ecoli.NoMatch, nil
		}
		return 1, nil
	},
	Complete: func(node *ecoli.Node, comp *ecoli.Comp, strvec *ecoli.StrVec) error {
		if strvec.Len() != 1 {
			return nil
		}
		priv := node.Priv().(*strPriv)
		cur := strvec.Get(0)
		if !strings.HasPrefix(priv.value, cur) {
			return nil
		}
		_, err := comp.AddItem(node, ecoli.CompFull, cur, priv.value)
		return err
	},
	Desc: func(node *ecoli.Node) string {
		return node.Priv().(*strPriv).value
	},
}

// Str returns a node that matches exactly one token equal to value (an
// empty value matches any single empty token, unconditionally).
func Str(id, value string) (*ecoli.Node, error) {
	n, err := ecoli.New("str", id)
	if err != nil {
		return nil, err
	}
	n.SetPriv(&strPriv{value: value})
	return n, nil
}

// --- any ---------------------------------------------------------------

var anyType = &ecoli.NodeType{
	Name: "any",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		if strvec.Len() == 0 {
			return ecoli.NoMatch, nil
		}
		return 1, nil
	},
	Complete: ecoli.CompleteUnknown,
}

// Any returns a node that matches any single token.
func Any(id string) (*ecoli.Node, error) { return ecoli.New("any", id) }

// --- empty ---------------------------------------------------------------

var emptyType = &ecoli.NodeType{
	Name: "empty",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		return 0, nil
	},
	// empty never offers a completion: there is no token for it to
	// complete.
	Complete: func(node *ecoli.Node, comp *ecoli.Comp, strvec *ecoli.StrVec) error {
		return nil
	},
}

// Empty returns a node that matches zero tokens, unconditionally.
func Empty(id string) (*ecoli.Node, error) { return ecoli.New("empty", id) }

// --- space ---------------------------------------------------------------

var spaceType = &ecoli.NodeType{
	Name: "space",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		if strvec.Len() == 0 {
			return ecoli.NoMatch, nil
		}
		tok := strvec.Get(0)
		if tok == "" {
			return ecoli.NoMatch, nil
		}
		for _, r := range tok {
			if r != ' ' && r != '\t' {
				return ecoli.NoMatch, nil
			}
		}
		return 1, nil
	},
	// never completes: the whitespace a space node wants is supplied by
	// the tokeniser, not typed by the user as a visible token.
	Complete: func(node *ecoli.Node, comp *ecoli.Comp, strvec *ecoli.StrVec) error {
		return nil
	},
}

// Space returns a node that matches exactly one all-whitespace token.
func Space(id string) (*ecoli.Node, error) { return ecoli.New("space", id) }

// --- re --------------------------------------------------------------

type rePriv struct {
	pattern string
	re      *regexp.Regexp
}

var reType = &ecoli.NodeType{
	Name: "re",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		priv := node.Priv().(*rePriv)
		if strvec.Len() == 0 {
			return ecoli.NoMatch, nil
		}
		if !anchoredMatch(priv.re, strvec.Get(0)) {
			return ecoli.NoMatch, nil
		}
		return 1, nil
	},
	Complete: ecoli.CompleteUnknown,
}

func anchoredMatch(re *regexp.Regexp, s string) bool {
	loc := re.FindStringIndex(s)
	return loc != nil && loc[0] == 0 && loc[1] == len(s)
}

// Re returns a node that matches exactly one token fully matching the
// given regular expression (the match must span the whole token, the way
// the library's re node behaves, not just find a substring).
func Re(id, pattern string) (*ecoli.Node, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, ecerr.Wrap(ecerr.EINVAL, err, "invalid regular expression")
	}
	n, err := ecoli.New("re", id)
	if err != nil {
		return nil, err
	}
	n.SetPriv(&rePriv{pattern: pattern, re: re})
	return n, nil
}

// --- int / uint ----------------------------------------------------------

type intPriv struct {
	min, max int64
	base     int
}

type uintPriv struct {
	min, max uint64
	base     int
}

var intType = &ecoli.NodeType{
	Name: "int",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		priv := node.Priv().(*intPriv)
		if strvec.Len() == 0 {
			return ecoli.NoMatch, nil
		}
		v, ok := parseInt(strvec.Get(0), priv.base)
		if !ok || v < priv.min || v > priv.max {
			return ecoli.NoMatch, nil
		}
		return 1, nil
	},
	Complete: ecoli.CompleteUnknown,
}

var uintType = &ecoli.NodeType{
	Name: "uint",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		priv := node.Priv().(*uintPriv)
		if strvec.Len() == 0 {
			return ecoli.NoMatch, nil
		}
		v, ok := parseUint(strvec.Get(0), priv.base)
		if !ok || v < priv.min || v > priv.max {
			return ecoli.NoMatch, nil
		}
		return 1, nil
	},
	Complete: ecoli.CompleteUnknown,
}

// parseInt accepts an optional leading '-' followed by digits in base, or
// (when base is 0) the usual "0x"/"0" prefixes to pick the base, mirroring
// strtoll(3)'s behavior as used by the C original.
func parseInt(s string, base int) (int64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, base, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseUint(s string, base int) (uint64, bool) {
	if s == "" || strings.HasPrefix(s, "-") {
		return 0, false
	}
	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Int returns a node that matches exactly one token parseable (in the
// given base, or any base when base is 0) as a signed integer within
// [min, max].
func Int(id string, min, max int64, base int) (*ecoli.Node, error) {
	n, err := ecoli.New("int", id)
	if err != nil {
		return nil, err
	}
	n.SetPriv(&intPriv{min: min, max: max, base: base})
	return n, nil
}

// Uint returns a node that matches exactly one token parseable (in the
// given base, or any base when base is 0) as an unsigned integer within
// [min, max].
func Uint(id string, min, max uint64, base int) (*ecoli.Node, error) {
	n, err := ecoli.New("uint", id)
	if err != nil {
		return nil, err
	}
	n.SetPriv(&uintPriv{min: min, max: max, base: base})
	return n, nil
}

// IntGetVal parses a token previously matched by an int node, returning
// its value.
func IntGetVal(node *ecoli.Node, s string) (int64, error) {
	priv, ok := node.Priv().(*intPriv)
	if !ok {
		return 0, ecerr.New(ecerr.EINVAL, "node is not an int node")
	}
	v, ok := parseInt(s, priv.base)
	if !ok {
		return 0, ecerr.New(ecerr.EBADMSG, "not a valid integer")
	}
	return v, nil
}

// UintGetVal parses a token previously matched by a uint node, returning
// its value.
func UintGetVal(node *ecoli.Node, s string) (uint64, error) {
	priv, ok := node.Priv().(*uintPriv)
	if !ok {
		return 0, ecerr.New(ecerr.EINVAL, "node is not a uint node")
	}
	v, ok := parseUint(s, priv.base)
	if !ok {
		return 0, ecerr.New(ecerr.EBADMSG, "not a valid unsigned integer")
	}
	return v, nil
}
