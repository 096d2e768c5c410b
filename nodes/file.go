package nodes

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/vjardin/ecoli"
)

func init() {
	ecoli.RegisterTypeOverride(fileType)
}

// DirEntry is the subset of a directory entry the file node's completion
// needs: a name and whether it names a directory.
type DirEntry interface {
	Name() string
	IsDir() bool
}

// FileHooks isolates the file node's filesystem access behind a small,
// swappable seam (standing in for the library's lstat/opendir/readdir/
// closedir/dirfd/fstatat set) so tests can supply deterministic fakes
// instead of depending on the real filesystem.
type FileHooks struct {
	// ReadDir lists dir's entries. DefaultFileHooks sets it to an
	// os.ReadDir-backed lister; no default is applied when it is nil.
	ReadDir func(dir string) ([]DirEntry, error)
}

func realReadDir(dir string) ([]DirEntry, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]DirEntry, len(ents))
	for i, e := range ents {
		out[i] = e
	}
	return out, nil
}

// DefaultFileHooks returns the hook set File uses: real os-backed
// directory listing.
func DefaultFileHooks() FileHooks {
	return FileHooks{ReadDir: realReadDir}
}

type filePriv struct {
	hooks FileHooks
}

var fileType = &ecoli.NodeType{
	Name: "file",
	Parse: func(node *ecoli.Node, pstate *ecoli.PNode, strvec *ecoli.StrVec) (int, error) {
		if strvec.Len() == 0 {
			return ecoli.NoMatch, nil
		}
		return 1, nil
	},
	// file only offers completions; any single token is accepted by
	// Parse, matching the library's own "any path is syntactically
	// valid" stance (whether it exists is a runtime concern, not a
	// grammar one).
	Complete: func(node *ecoli.Node, comp *ecoli.Comp, strvec *ecoli.StrVec) error {
		if strvec.Len() != 1 {
			return nil
		}
		cur := strvec.Get(0)
		p := node.Priv().(*filePriv)

		dir, prefix := filepath.Split(cur)
		listDir := dir
		if listDir == "" {
			listDir = "."
		}
		entries, err := p.hooks.ReadDir(listDir)
		if err != nil {
			return nil
		}
		for _, ent := range entries {
			if !strings.HasPrefix(ent.Name(), prefix) {
				continue
			}
			full := dir + ent.Name()
			typ := ecoli.CompFull
			if ent.IsDir() {
				full += "/"
				typ = ecoli.CompPartial
			}
			if _, err := comp.AddItem(node, typ, cur, full); err != nil {
				return err
			}
		}
		return nil
	},
}

// File returns a node that matches any single token as a filesystem path,
// and offers directory-entry completions (with a trailing "/" and a
// CompPartial type for subdirectories, so completing one doesn't end the
// token), listing directories via the real filesystem.
func File(id string) (*ecoli.Node, error) {
	return FileWithHooks(id, DefaultFileHooks())
}

// FileWithHooks is File with its filesystem access replaced by hooks,
// for tests that need deterministic directory listings.
func FileWithHooks(id string, hooks FileHooks) (*ecoli.Node, error) {
	n, err := ecoli.New("file", id)
	if err != nil {
		return nil, err
	}
	n.SetPriv(&filePriv{hooks: hooks})
	return n, nil
}
