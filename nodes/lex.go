package nodes

import (
	"regexp"

	"github.com/vjardin/ecoli"
	"github.com/vjardin/ecoli/internal/ecerr"
)

func init() {
	ecoli.RegisterTypeOverride(shLexType)
	ecoli.RegisterTypeOverride(reLexType)
}

// --- sh-lex --------------------------------------------------------------

type shLexPriv struct {
	child *ecoli.Node
}

func (p *shLexPriv) FreeChildren() { ecoli.Free(p.child) }

var shLexType = &ecoli.NodeType{
	Name: "sh-lex",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		if strvec.Len() != 1 {
			return ecoli.NoMatch, nil
		}
		p := node.Priv().(*shLexPriv)
		toks, _, err := ecoli.ShellLex(strvec.Get(0), ecoli.LexStrict)
		if err != nil {
			return ecoli.NoMatch, nil
		}

		n, err := ecoli.ParseChild(p.child, pstate, toks)
		if err != nil {
			return 0, err
		}
		if n == ecoli.NoMatch {
			return ecoli.NoMatch, nil
		}
		if n != toks.Len() {
			pstate.DelLastChild()
			return ecoli.NoMatch, nil
		}
		return 1, nil
	},
	Complete: func(node *ecoli.Node, comp *ecoli.Comp, strvec *ecoli.StrVec) error {
		if strvec.Len() != 1 {
			return nil
		}
		p := node.Priv().(*shLexPriv)
		toks, missingQuote, err := ecoli.ShellLex(strvec.Get(0), ecoli.LexLenient)
		if err != nil {
			return err
		}

		temp := ecoli.NewCompAt(comp.CurPState())
		if err := ecoli.CompleteChild(p.child, temp, toks); err != nil {
			return err
		}

		if missingQuote != 0 {
			for item := temp.IterFirst(ecoli.CompFull); item != nil; item = temp.IterNext(item, ecoli.CompFull) {
				full := item.Str()
				_ = item.SetStr(string(missingQuote) + full + string(missingQuote))
				_ = item.SetCompletion(item.Completion() + string(missingQuote))
			}
		}

		comp.Merge(temp)
		return nil
	},
	GetChildrenCount: func(node *ecoli.Node) int { return 1 },
	GetChild: func(node *ecoli.Node, i int) (*ecoli.Node, int, error) {
		if i != 0 {
			return nil, 0, ecerr.New(ecerr.ENOENT, "child index out of range")
		}
		return node.Priv().(*shLexPriv).child, 1, nil
	},
}

// ShLex returns a node that shell-tokenises its single input token (using
// the same quoting rules as ShellLex) and requires child to consume every
// resulting token; on a match, sh-lex itself reports consuming exactly
// the one raw token it split.
func ShLex(id string, child *ecoli.Node) (*ecoli.Node, error) {
	n, err := ecoli.New("sh-lex", id)
	if err != nil {
		return nil, err
	}
	n.SetPriv(&shLexPriv{child: child})
	return n, nil
}

// --- re-lex ----------------------------------------------------------

// ReLexPattern is one entry of a re-lex node's delimiter table: strings
// matching Pattern (anchored at the current offset) split the input;
// Keep controls whether the matched substring becomes a token of its own
// (true) or is silently dropped as a separator (false); Attr, if set, is
// recorded in the kept token's attribute dictionary under that name.
type ReLexPattern struct {
	Pattern string
	Keep    bool
	Attr    string
}

type reLexEntry struct {
	re   *regexp.Regexp
	keep bool
	attr string
}

type reLexPriv struct {
	child *ecoli.Node
	table []reLexEntry
}

func (p *reLexPriv) FreeChildren() { ecoli.Free(p.child) }

func reLexTokenize(table []reLexEntry, s string) (*ecoli.StrVec, error) {
	out := ecoli.NewStrVec()
	off := 0
	for off < len(s) {
		matched := false
		for _, ent := range table {
			loc := ent.re.FindStringIndex(s[off:])
			if loc == nil || loc[0] != 0 || loc[1] == 0 {
				continue
			}
			matched = true
			if ent.keep {
				tok := s[off : off+loc[1]]
				out.Push(tok)
				if ent.attr != "" {
					out.AttrsGet(out.Len() - 1).Set(ent.attr, true)
				}
			}
			off += loc[1]
			break
		}
		if !matched {
			return nil, ecerr.New(ecerr.EBADMSG, "no delimiter pattern matched")
		}
	}
	return out, nil
}

var reLexType = &ecoli.NodeType{
	Name: "re-lex",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		if strvec.Len() != 1 {
			return ecoli.NoMatch, nil
		}
		p := node.Priv().(*reLexPriv)
		toks, err := reLexTokenize(p.table, strvec.Get(0))
		if err != nil {
			return ecoli.NoMatch, nil
		}

		n, err := ecoli.ParseChild(p.child, pstate, toks)
		if err != nil {
			return 0, err
		}
		if n == ecoli.NoMatch {
			return ecoli.NoMatch, nil
		}
		if n != toks.Len() {
			pstate.DelLastChild()
			return ecoli.NoMatch, nil
		}
		return 1, nil
	},
	Complete: ecoli.CompleteUnknown,
	GetChildrenCount: func(node *ecoli.Node) int { return 1 },
	GetChild: func(node *ecoli.Node, i int) (*ecoli.Node, int, error) {
		if i != 0 {
			return nil, 0, ecerr.New(ecerr.ENOENT, "child index out of range")
		}
		return node.Priv().(*reLexPriv).child, 1, nil
	},
}

// ReLex returns a node that splits its single input token at every
// position matched by one of patterns (tried in order, first match wins,
// anchored at the current offset) and requires child to consume every
// resulting token.
func ReLex(id string, child *ecoli.Node, patterns []ReLexPattern) (*ecoli.Node, error) {
	table := make([]reLexEntry, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, ecerr.Wrap(ecerr.EINVAL, err, "invalid re-lex pattern")
		}
		table = append(table, reLexEntry{re: re, keep: p.Keep, attr: p.Attr})
	}
	n, err := ecoli.New("re-lex", id)
	if err != nil {
		return nil, err
	}
	n.SetPriv(&reLexPriv{child: child, table: table})
	return n, nil
}
