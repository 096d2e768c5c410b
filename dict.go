package ecoli

import "sort"

// Dict is a string-keyed map of arbitrary values, used for node and
// token-vector-position attribute dictionaries. Iteration order is not
// guaranteed by the underlying map, but Keys() returns a sorted view so
// callers that need determinism (dumps, tests) can get it.
type Dict struct {
	m map[string]interface{}
}

// NewDict returns an empty Dict.
func NewDict() *Dict {
	return &Dict{m: map[string]interface{}{}}
}

// Set assigns key to val, overwriting any previous value.
func (d *Dict) Set(key string, val interface{}) {
	if d.m == nil {
		d.m = map[string]interface{}{}
	}
	d.m[key] = val
}

// Get returns the value stored at key and whether it was present.
func (d *Dict) Get(key string) (interface{}, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.m[key]
	return v, ok
}

// Has reports whether key is present.
func (d *Dict) Has(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d.m[key]
	return ok
}

// Del removes key, if present.
func (d *Dict) Del(key string) {
	if d == nil {
		return
	}
	delete(d.m, key)
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.m)
}

// Keys returns the dict's keys in sorted order.
func (d *Dict) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, 0, len(d.m))
	for k := range d.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dup returns a shallow copy of d: top-level keys are duplicated, but values
// are copied by reference, matching the attribute dictionary's role as a
// free-form bag the caller is expected to treat as owning its own values.
func (d *Dict) Dup() *Dict {
	if d == nil {
		return nil
	}
	out := NewDict()
	for k, v := range d.m {
		out.m[k] = v
	}
	return out
}
