package nodes

import (
	"regexp"
	"strings"

	"github.com/vjardin/ecoli"
	"github.com/vjardin/ecoli/internal/ecerr"
)

func init() {
	ecoli.RegisterTypeOverride(dynamicType)
	ecoli.RegisterTypeOverride(dynlistType)
}

// --- dynamic -------------------------------------------------------------

// DynamicBuildFunc builds the node that a dynamic combinator should match
// against, given the parse tree built so far (so the built node can, for
// instance, depend on how many times an ancestor id has already matched).
type DynamicBuildFunc func(pstate *ecoli.PNode) (*ecoli.Node, error)

type dynamicPriv struct {
	build DynamicBuildFunc
}

var dynamicType = &ecoli.NodeType{
	Name: "dynamic",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		p := node.Priv().(*dynamicPriv)
		child, err := p.build(pstate)
		if err != nil {
			return 0, err
		}
		defer ecoli.Free(child)
		return ecoli.ParseChild(child, pstate, strvec)
	},
	Complete: func(node *ecoli.Node, comp *ecoli.Comp, strvec *ecoli.StrVec) error {
		p := node.Priv().(*dynamicPriv)
		child, err := p.build(comp.CurPState())
		if err != nil {
			return err
		}
		defer ecoli.Free(child)
		return ecoli.CompleteChild(child, comp, strvec)
	},
}

// Dynamic returns a node whose actual matching node is rebuilt, by
// calling build, on every parse or complete attempt.
func Dynamic(id string, build DynamicBuildFunc) (*ecoli.Node, error) {
	n, err := ecoli.New("dynamic", id)
	if err != nil {
		return nil, err
	}
	n.SetPriv(&dynamicPriv{build: build})
	return n, nil
}

// --- dynlist ---------------------------------------------------------

// DynlistFunc returns the set of candidate strings a dynlist node should
// accept, freshly computed for each parse or complete attempt.
type DynlistFunc func(pstate *ecoli.PNode) ([]string, error)

// DynlistMode controls how a dynlist node checks a token against its
// candidate list and against its filter regular expression.
type DynlistMode int

const (
	// DynlistMatchList accepts a token only if it equals one of the
	// candidates.
	DynlistMatchList DynlistMode = 1 << iota
	// DynlistMatchRegexp accepts a token if it matches the filter
	// regular expression, regardless of the candidate list.
	DynlistMatchRegexp
	// DynlistExcludeList, combined with DynlistMatchRegexp, additionally
	// rejects a token that happens to equal one of the candidates (used
	// to let the regexp branch pick up only names NOT already known).
	DynlistExcludeList
)

type dynlistPriv struct {
	get    DynlistFunc
	filter *regexp.Regexp
	mode   DynlistMode
}

var dynlistType = &ecoli.NodeType{
	Name: "dynlist",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		p := node.Priv().(*dynlistPriv)
		if strvec.Len() == 0 {
			return ecoli.NoMatch, nil
		}
		tok := strvec.Get(0)
		names, err := p.get(pstate)
		if err != nil {
			return 0, err
		}
		if dynlistAccepts(p, names, tok) {
			return 1, nil
		}
		return ecoli.NoMatch, nil
	},
	Complete: func(node *ecoli.Node, comp *ecoli.Comp, strvec *ecoli.StrVec) error {
		if strvec.Len() != 1 {
			return nil
		}
		p := node.Priv().(*dynlistPriv)
		cur := strvec.Get(0)
		names, err := p.get(comp.CurPState())
		if err != nil {
			return err
		}
		if p.mode&DynlistMatchList != 0 {
			for _, name := range names {
				if strings.HasPrefix(name, cur) {
					if _, err := comp.AddItem(node, ecoli.CompFull, cur, name); err != nil {
						return err
					}
				}
			}
		}
		return nil
	},
}

func dynlistAccepts(p *dynlistPriv, names []string, tok string) bool {
	inList := false
	for _, name := range names {
		if name == tok {
			inList = true
			break
		}
	}

	if p.mode&DynlistMatchList != 0 && inList {
		return true
	}
	if p.mode&DynlistMatchRegexp != 0 && p.filter != nil {
		loc := p.filter.FindStringIndex(tok)
		matchesFilter := loc != nil && loc[0] == 0 && loc[1] == len(tok)
		if matchesFilter {
			if p.mode&DynlistExcludeList != 0 && inList {
				return false
			}
			return true
		}
	}
	return false
}

// Dynlist returns a node that matches one token against a dynamically
// computed candidate list and/or a filter regular expression, per mode.
func Dynlist(id string, get DynlistFunc, filterPattern string, mode DynlistMode) (*ecoli.Node, error) {
	var filter *regexp.Regexp
	if filterPattern != "" {
		re, err := regexp.Compile(filterPattern)
		if err != nil {
			return nil, ecerr.Wrap(ecerr.EINVAL, err, "invalid dynlist filter pattern")
		}
		filter = re
	}
	n, err := ecoli.New("dynlist", id)
	if err != nil {
		return nil, err
	}
	n.SetPriv(&dynlistPriv{get: get, filter: filter, mode: mode})
	return n, nil
}
