package ecoli

// ConfigType tags the kind of value a Config holds.
type ConfigType int

const (
	ConfigBool ConfigType = iota
	ConfigI64
	ConfigU64
	ConfigString
	ConfigNodeRef
	ConfigList
	ConfigDict
)

func (t ConfigType) String() string {
	switch t {
	case ConfigBool:
		return "bool"
	case ConfigI64:
		return "int64"
	case ConfigU64:
		return "uint64"
	case ConfigString:
		return "string"
	case ConfigNodeRef:
		return "node"
	case ConfigList:
		return "list"
	case ConfigDict:
		return "dict"
	default:
		return "unknown"
	}
}

// Config is a typed, tree-shaped configuration value used to build and
// introspect grammar nodes: a tagged union of bool/i64/u64/string/node-ref/
// list/dict. A NodeRef Config consumes (takes one reference on) the node it
// wraps.
type Config struct {
	typ    ConfigType
	b      bool
	i64    int64
	u64    uint64
	str    string
	node   *Node
	list   []*Config
	dict   map[string]*Config
	dorder []string // insertion order for dict keys, for deterministic dump/dup
}

// ConfigBoolVal builds a bool Config.
func ConfigBoolVal(b bool) *Config { return &Config{typ: ConfigBool, b: b} }

// ConfigI64Val builds an int64 Config.
func ConfigI64Val(i int64) *Config { return &Config{typ: ConfigI64, i64: i} }

// ConfigU64Val builds a uint64 Config.
func ConfigU64Val(u uint64) *Config { return &Config{typ: ConfigU64, u64: u} }

// ConfigStringVal builds a string Config.
func ConfigStringVal(s string) *Config { return &Config{typ: ConfigString, str: s} }

// ConfigNode builds a Config that owns one reference to n.
func ConfigNode(n *Node) *Config { return &Config{typ: ConfigNodeRef, node: n} }

// ConfigListVal builds a list Config from its elements.
func ConfigListVal(elems ...*Config) *Config {
	return &Config{typ: ConfigList, list: append([]*Config{}, elems...)}
}

// ConfigDictVal builds an empty dict Config; use Set to populate it.
func ConfigDictVal() *Config {
	return &Config{typ: ConfigDict, dict: map[string]*Config{}}
}

// Type returns the Config's tag.
func (c *Config) Type() ConfigType { return c.typ }

// Bool returns the bool payload (zero value if not a bool Config).
func (c *Config) Bool() bool { return c.b }

// I64 returns the int64 payload.
func (c *Config) I64() int64 { return c.i64 }

// U64 returns the uint64 payload.
func (c *Config) U64() uint64 { return c.u64 }

// Str returns the string payload.
func (c *Config) Str() string { return c.str }

// NodeVal returns the node-ref payload.
func (c *Config) NodeVal() *Node { return c.node }

// List returns the list payload.
func (c *Config) List() []*Config { return c.list }

// DictGet returns the dict entry for key, or nil if absent or not a dict.
func (c *Config) DictGet(key string) *Config {
	if c.typ != ConfigDict {
		return nil
	}
	return c.dict[key]
}

// DictSet sets a key in a dict Config, taking ownership of val.
func (c *Config) DictSet(key string, val *Config) {
	if c.dict == nil {
		c.dict = map[string]*Config{}
	}
	if _, exists := c.dict[key]; !exists {
		c.dorder = append(c.dorder, key)
	}
	c.dict[key] = val
}

// DictKeys returns a dict Config's keys in insertion order.
func (c *Config) DictKeys() []string {
	return append([]string{}, c.dorder...)
}

// Free releases any node reference the Config owns, recursively. Go's
// garbage collector reclaims the Config's own memory; Free exists to
// preserve the node refcount discipline described in §3 ("NodeRef consumes
// a node"): freeing a config that owns an un-set node must drop that
// reference the same way a successful set_config replaces-and-frees would.
func (c *Config) Free() {
	if c == nil {
		return
	}
	switch c.typ {
	case ConfigNodeRef:
		c.node.free()
	case ConfigList:
		for _, e := range c.list {
			e.Free()
		}
	case ConfigDict:
		for _, e := range c.dict {
			e.Free()
		}
	}
}

// Dup deep-copies a Config. A NodeRef value is cloned: the copy holds its
// own reference (refcount bumped) on the same node.
func (c *Config) Dup() *Config {
	if c == nil {
		return nil
	}
	out := &Config{typ: c.typ, b: c.b, i64: c.i64, u64: c.u64, str: c.str}
	switch c.typ {
	case ConfigNodeRef:
		out.node = c.node.clone()
	case ConfigList:
		for _, e := range c.list {
			out.list = append(out.list, e.Dup())
		}
	case ConfigDict:
		out.dict = map[string]*Config{}
		for _, k := range c.dorder {
			out.dict[k] = c.dict[k].Dup()
			out.dorder = append(out.dorder, k)
		}
	}
	return out
}

// Cmp structurally compares two Config values.
func (c *Config) Cmp(o *Config) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.typ != o.typ {
		return false
	}
	switch c.typ {
	case ConfigBool:
		return c.b == o.b
	case ConfigI64:
		return c.i64 == o.i64
	case ConfigU64:
		return c.u64 == o.u64
	case ConfigString:
		return c.str == o.str
	case ConfigNodeRef:
		return c.node == o.node
	case ConfigList:
		if len(c.list) != len(o.list) {
			return false
		}
		for i := range c.list {
			if !c.list[i].Cmp(o.list[i]) {
				return false
			}
		}
		return true
	case ConfigDict:
		if len(c.dict) != len(o.dict) {
			return false
		}
		for k, v := range c.dict {
			ov, ok := o.dict[k]
			if !ok || !v.Cmp(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// reservedConfigKeys lists the config/attribute keys user schemas must not
// declare: they are reserved for the engine itself (node identity, help
// text, attributes, and the discriminating type tag used by the external
// YAML import/export contract named in §6).
var reservedConfigKeys = map[string]bool{
	"id":    true,
	"attrs": true,
	"help":  true,
	"type":  true,
}

// ConfigKeyIsReserved reports whether name is one of the engine-reserved
// config/attribute keys.
func ConfigKeyIsReserved(name string) bool {
	return reservedConfigKeys[name]
}

// ConfigDup is a free function mirroring Config.Dup, handy when c may be
// nil and a nil-safe call reads better at the call site.
func ConfigDup(c *Config) *Config { return c.Dup() }

// ConfigCmp is a free function mirroring Config.Cmp.
func ConfigCmp(a, b *Config) bool { return a.Cmp(b) }
