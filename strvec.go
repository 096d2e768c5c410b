package ecoli

import (
	"sort"
	"strings"

	"github.com/vjardin/ecoli/internal/ecerr"
)

// StrVec is an ordered, finite sequence of UTF-8 strings, the unit of input
// to every parse and complete call. Each position carries an attribute
// dictionary, used by the shell-lex tokeniser to record source byte offsets
// and by other combinators to attach semantic tags.
//
// Strings are immutable in Go, so unlike the C original there is no element
// refcounting to manage: ndup and Dup simply reslice/copy the backing
// arrays, which is already as cheap as sharing.
type StrVec struct {
	vals  []string
	attrs []*Dict
}

// NewStrVec builds a StrVec from the given values, none of which carry any
// attributes.
func NewStrVec(vals ...string) *StrVec {
	return &StrVec{vals: append([]string{}, vals...), attrs: make([]*Dict, len(vals))}
}

// Len returns the number of elements in the vector.
func (v *StrVec) Len() int {
	if v == nil {
		return 0
	}
	return len(v.vals)
}

// Get returns the element at index i, or "" if i is out of range.
func (v *StrVec) Get(i int) string {
	if v == nil || i < 0 || i >= len(v.vals) {
		return ""
	}
	return v.vals[i]
}

// Push appends s to the end of the vector.
func (v *StrVec) Push(s string) {
	v.vals = append(v.vals, s)
	v.attrs = append(v.attrs, nil)
}

// Set replaces the element at index i. No effect if i is out of range.
func (v *StrVec) Set(i int, s string) {
	if i < 0 || i >= len(v.vals) {
		return
	}
	v.vals[i] = s
}

// DelLast removes the last element of the vector in O(1). No effect on an
// empty vector.
func (v *StrVec) DelLast() {
	if len(v.vals) == 0 {
		return
	}
	v.vals = v.vals[:len(v.vals)-1]
	v.attrs = v.attrs[:len(v.attrs)-1]
}

// NDup returns a new StrVec holding the count elements starting at start. It
// returns an error if start+count exceeds the vector's length.
func (v *StrVec) NDup(start, count int) (*StrVec, error) {
	if v == nil {
		if start == 0 && count == 0 {
			return NewStrVec(), nil
		}
		return nil, errInvalidSlice
	}
	if start < 0 || count < 0 || start+count > len(v.vals) {
		return nil, errInvalidSlice
	}
	out := &StrVec{
		vals:  append([]string{}, v.vals[start:start+count]...),
		attrs: append([]*Dict{}, v.attrs[start:start+count]...),
	}
	return out, nil
}

// Dup returns a full copy of the vector.
func (v *StrVec) Dup() *StrVec {
	out, _ := v.NDup(0, v.Len())
	return out
}

// AttrsGet returns the attribute dictionary at index i, creating an empty
// one lazily if none has been attached yet. Returns nil for an out-of-range
// index.
func (v *StrVec) AttrsGet(i int) *Dict {
	if i < 0 || i >= len(v.attrs) {
		return nil
	}
	if v.attrs[i] == nil {
		v.attrs[i] = NewDict()
	}
	return v.attrs[i]
}

// AttrsSet replaces the attribute dictionary at index i.
func (v *StrVec) AttrsSet(i int, d *Dict) {
	if i < 0 || i >= len(v.attrs) {
		return
	}
	v.attrs[i] = d
}

// Sort stably reorders the vector's elements (and their attached attribute
// dictionaries together with them). When cmp is nil, elements are compared
// lexicographically.
func (v *StrVec) Sort(cmp func(a, b string) int) {
	idx := make([]int, v.Len())
	for i := range idx {
		idx[i] = i
	}
	less := func(i, j int) bool {
		if cmp != nil {
			return cmp(v.vals[idx[i]], v.vals[idx[j]]) < 0
		}
		return v.vals[idx[i]] < v.vals[idx[j]]
	}
	sort.SliceStable(idx, less)

	newVals := make([]string, len(idx))
	newAttrs := make([]*Dict, len(idx))
	for i, j := range idx {
		newVals[i] = v.vals[j]
		newAttrs[i] = v.attrs[j]
	}
	v.vals = newVals
	v.attrs = newAttrs
}

// Cmp structurally compares two vectors: first by length, then
// element-wise.
func (v *StrVec) Cmp(o *StrVec) int {
	if v.Len() != o.Len() {
		return v.Len() - o.Len()
	}
	for i := 0; i < v.Len(); i++ {
		if c := strings.Compare(v.Get(i), o.Get(i)); c != 0 {
			return c
		}
	}
	return 0
}

// Equal reports whether v and o hold the same elements in the same order.
func (v *StrVec) Equal(o *StrVec) bool {
	return v.Cmp(o) == 0
}

// Strings returns the vector's elements as a plain slice, useful for
// formatting and tests. The returned slice must not be mutated.
func (v *StrVec) Strings() []string {
	if v == nil {
		return nil
	}
	return v.vals
}

func (v *StrVec) String() string {
	return "[" + strings.Join(v.vals, " ") + "]"
}

var errInvalidSlice = ecerr.New(ecerr.EINVAL, "invalid strvec slice bounds")
