package ecoli

import (
	"fmt"
	"sync"

	"github.com/vjardin/ecoli/internal/ecerr"
	"github.com/vjardin/ecoli/internal/ecutil"
)

// ParseFunc matches strvec against node, returning the number of leading
// elements consumed, NoMatch if the node does not match, or an error.
// Implementations that have children should recurse through ParseChild
// rather than calling a child's ParseFunc directly, so that the shared
// parse tree bookkeeping stays consistent.
type ParseFunc func(node *Node, pstate *PNode, strvec *StrVec) (int, error)

// CompleteFunc adds every completion of the last element of strvec to comp.
// Implementations with children recurse through CompleteChild.
type CompleteFunc func(node *Node, comp *Comp, strvec *StrVec) error

// DescFunc returns a node's short, human-readable description (used to
// label completion groups and help listings). When nil, the node type's
// default "<name>" description is used.
type DescFunc func(node *Node) string

// GetChildrenCountFunc returns how many children a node of this type
// exposes. When nil, the node is treated as a leaf (zero children).
type GetChildrenCountFunc func(node *Node) int

// GetChildFunc returns the i-th child of a node along with how many
// references the parent holds on it (1 for every built-in combinator).
type GetChildFunc func(node *Node, i int) (child *Node, refs int, err error)

// SetConfigFunc applies a validated Config to a node's private state. It is
// only called after the config has already passed schema validation.
type SetConfigFunc func(node *Node, config *Config) error

// NodeType is the vtable describing one kind of grammar node: how it
// parses, completes, describes itself, exposes children, and is
// configured. Built-in and user combinators alike are just NodeType
// values registered under a name.
type NodeType struct {
	Name   string
	Schema []ConfigSchema

	Parse            ParseFunc
	Complete         CompleteFunc
	Desc             DescFunc
	SetConfig        SetConfigFunc
	GetChildrenCount GetChildrenCountFunc
	GetChild         GetChildFunc
}

// freeState tracks a node's progress through the cycle-safe free
// algorithm: none (untouched), traversed (reference count accumulated),
// freeable/notFreeable (final verdict from the mark pass), or freeing
// (already inside a recursive Node.free call, guarding against re-entering
// the same node through a loop in the grammar graph).
type freeState int

const (
	freeStateNone freeState = iota
	freeStateTraversed
	freeStateFreeable
	freeStateNotFreeable
	freeStateFreeing
)

// Node is one vertex of a grammar graph: a typed, reference-counted,
// possibly-cyclic instance of a NodeType, carrying an identifier, a free
// attribute dictionary, and an optional Config.
type Node struct {
	typ    *NodeType
	id     string
	desc   string
	refcnt int
	attrs  *Dict
	config *Config
	priv   interface{}

	freeMark   freeState
	freeRefcnt int
}

// New creates a node of the named, registered type. id may be empty
// (equivalent to the C library's EC_NO_ID).
func New(typeName, id string) (*Node, error) {
	typ, ok := LookupType(typeName)
	if !ok {
		return nil, ecerr.Errorf(ecerr.ENOENT, "node type %q does not exist", typeName)
	}
	return newFromType(typ, id)
}

func newFromType(typ *NodeType, id string) (*Node, error) {
	n := &Node{
		typ:    typ,
		id:     id,
		desc:   fmt.Sprintf("<%s>", typ.Name),
		refcnt: 1,
		attrs:  NewDict(),
	}
	return n, nil
}

// Type returns the node's type descriptor.
func (n *Node) Type() *NodeType { return n.typ }

// ID returns the node's identifier, which may be empty.
func (n *Node) ID() string { return n.id }

// Attrs returns the node's free-form attribute dictionary.
func (n *Node) Attrs() *Dict { return n.attrs }

// Config returns the node's current configuration, or nil if none was set.
func (n *Node) Config() *Config { return n.config }

// Priv returns the node type's private state, set by the combinator's
// constructor or SetConfig implementation.
func (n *Node) Priv() interface{} { return n.priv }

// SetPriv sets the node type's private state.
func (n *Node) SetPriv(p interface{}) { n.priv = p }

// Desc returns the node's short description, using the type's Desc
// callback if present, else the default "<typename>" string.
func (n *Node) Desc() string {
	if n.typ.Desc != nil {
		return n.typ.Desc(n)
	}
	return n.desc
}

// SetConfig validates config against the node type's schema, invokes the
// type's SetConfig callback, and on success replaces the node's stored
// configuration, freeing the previous one. On failure, config is treated
// as not consumed by the node (the caller retains ownership semantics are
// not enforced by Go's GC, but the old config is left untouched).
func (n *Node) SetConfig(config *Config) error {
	if n.typ.Schema == nil {
		return ecerr.New(ecerr.EINVAL, "node type has no config schema")
	}
	if err := ConfigValidate(config, n.typ.Schema); err != nil {
		return err
	}
	if n.typ.SetConfig != nil {
		if err := n.typ.SetConfig(n, config); err != nil {
			return err
		}
	}
	if n.config != config {
		n.config.Free()
	}
	n.config = config
	return nil
}

// GetChildrenCount returns the number of children exposed by the node,
// via its type's GetChildrenCount callback (0 if the type has none).
func (n *Node) GetChildrenCount() int {
	if n.typ.GetChildrenCount == nil {
		return 0
	}
	return n.typ.GetChildrenCount(n)
}

// GetChild returns the i-th child and how many references the parent
// holds on it.
func (n *Node) GetChild(i int) (*Node, int, error) {
	if n.typ.GetChild == nil {
		return nil, 0, ecerr.New(ecerr.ENOENT, "node type exposes no children")
	}
	return n.typ.GetChild(n, i)
}

// CheckType reports whether n's type is exactly typeName.
func (n *Node) CheckType(typeName string) bool {
	return n.typ.Name == typeName
}

// Find searches the grammar graph rooted at n (depth-first, node first,
// then children in order) for a node with the given non-empty id.
func Find(n *Node, id string) *Node {
	if n == nil || id == "" {
		return nil
	}
	if n.id == id {
		return n
	}
	count := n.GetChildrenCount()
	for i := 0; i < count; i++ {
		child, _, err := n.GetChild(i)
		if err != nil || child == nil {
			continue
		}
		if found := Find(child, id); found != nil {
			return found
		}
	}
	return nil
}

// clone bumps n's reference count and returns n itself: every reference
// to a shared node must go through clone rather than aliasing the pointer
// directly, or free's bookkeeping will under-count.
func (n *Node) clone() *Node {
	if n == nil {
		return nil
	}
	n.refcnt++
	return n
}

// Clone is the exported form of clone, for callers outside the package
// that need to take a second reference on a node (for instance, wiring the
// same subgrammar into two parents).
func Clone(n *Node) *Node { return n.clone() }

// countReferences is pass 1 of the cycle-safe free algorithm: walk the
// graph reachable from n, accumulating how many times each node is
// reached (weighted by each parent's declared reference count on that
// child slot), so a node's reachable-reference total can be compared
// against its stored refcount.
func countReferences(n *Node, refs int) {
	if n.freeMark == freeStateTraversed {
		n.freeRefcnt += refs
		return
	}
	n.freeRefcnt = refs
	n.freeMark = freeStateTraversed

	count := n.GetChildrenCount()
	for i := 0; i < count; i++ {
		child, childRefs, err := n.GetChild(i)
		if err != nil || child == nil {
			continue
		}
		countReferences(child, childRefs)
	}
}

// markFreeable is pass 2: a node is freeable only if every reference to it
// is reachable from the free root (refcnt == freeRefcnt); any node
// unreachable-in-full poisons every node reachable from it as
// not-freeable, since some other owner outside this call still holds it.
func markFreeable(n *Node, mark freeState) {
	if mark == n.freeMark {
		return
	}
	if n.refcnt > n.freeRefcnt {
		mark = freeStateNotFreeable
	}
	n.freeMark = mark

	count := n.GetChildrenCount()
	for i := 0; i < count; i++ {
		child, _, err := n.GetChild(i)
		if err != nil || child == nil {
			continue
		}
		markFreeable(child, mark)
	}
}

// resetMark is pass 3: undo the bookkeeping left behind by a free attempt
// that turned out to be a no-op (the node was not-freeable), so the graph
// is left exactly as it was found.
func resetMark(n *Node) {
	if n.freeMark == freeStateNone {
		return
	}
	n.freeMark = freeStateNone
	n.freeRefcnt = 0

	count := n.GetChildrenCount()
	for i := 0; i < count; i++ {
		child, _, err := n.GetChild(i)
		if err != nil || child == nil {
			continue
		}
		resetMark(child)
	}
}

// free drops one reference to n, tearing the node (and any children it
// owns outright) down once the last reference disappears. It is safe to
// call on a node that participates in a cycle: a three-pass mark scheme
// decides whether the whole reachable subgraph can go at once, and a
// "freeing" guard stops a cycle from re-entering a node currently being
// torn down.
func (n *Node) free() {
	if n == nil {
		return
	}

	if n.freeMark == freeStateNone && n.refcnt != 1 {
		countReferences(n, 1)
		markFreeable(n, freeStateFreeable)
	}

	if n.freeMark == freeStateNotFreeable {
		n.refcnt--
		resetMark(n)
		return
	}

	if n.freeMark != freeStateFreeing {
		n.freeMark = freeStateFreeing
		// Children are released by priv state belonging to the node's
		// own combinator, the way the C library's free_priv callback
		// does it: a combinator that owns child nodes drops its
		// references to them here via its priv's FreeChildren method, if
		// it has one.
		if fp, ok := n.priv.(interface{ FreeChildren() }); ok {
			fp.FreeChildren()
		}
	}

	n.refcnt--
	if n.refcnt != 0 {
		return
	}

	n.freeMark = freeStateNone
	n.freeRefcnt = 0
	n.config.Free()
}

// Free is the exported entry point for dropping a reference to n.
func Free(n *Node) { n.free() }

// registry is the process-wide table of node types, keyed by name.
var registry = struct {
	mu    sync.RWMutex
	types map[string]*NodeType
}{types: map[string]*NodeType{}}

// RegisterType registers a node type under its name. It fails with
// EEXIST if a type of that name is already registered; use
// RegisterTypeOverride to replace one deliberately.
func RegisterType(typ *NodeType) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.types[typ.Name]; exists {
		return ecerr.Errorf(ecerr.EEXIST, "node type %q already registered", typ.Name)
	}
	registry.types[typ.Name] = typ
	return nil
}

// RegisterTypeOverride registers typ under its name, replacing any
// previously registered type of the same name. Existing nodes built from
// the old type keep working against the old NodeType value; only future
// lookups by name see the replacement.
func RegisterTypeOverride(typ *NodeType) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.types[typ.Name] = typ
}

// LookupType returns the registered node type with the given name.
func LookupType(name string) (*NodeType, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	typ, ok := registry.types[name]
	return typ, ok
}

// RegisteredTypeNames returns the names of every registered node type, in
// alphabetical order, for dump/help output.
func RegisteredTypeNames() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	names := make([]string, 0, len(registry.types))
	for name := range registry.types {
		names = append(names, name)
	}
	return ecutil.NewStringSet(names).SortedElements()
}
