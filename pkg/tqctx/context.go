// Package tqctx holds the mutable state threaded through a single
// compile pass: the running set of auto-parameter bindings, the
// table-alias registry, and the parameter-origin taxonomy
// (table/query/helpers/grouping/join-result) every identifier gets
// classified against.
//
// Follows a snapshot-then-mutate pattern (read a cached plan's context,
// Clone it, mutate the clone for a fresh call). lancet/slice backs the
// DistinctTables helper; alias assignment itself uses a map.
package tqctx

import (
	"fmt"
	"sort"

	"github.com/duke-git/lancet/v2/slice"
)

// ParamOrigin classifies where an identifier seen during compilation
// came from.
type ParamOrigin int

const (
	OriginUnknown ParamOrigin = iota
	OriginTable               // the lambda's table parameter (e.g. `u`)
	OriginQuery               // the caller-supplied query-params parameter
	OriginHelpers             // the helpers parameter (h.functions.*)
	OriginGrouping            // a grouping-result parameter; tqexpr resolves no member of it
	OriginJoinResult          // a destructured join-result parameter
)

// Binding records one lambda parameter's name and classified origin.
type Binding struct {
	Name   string
	Origin ParamOrigin
	// JoinTable is set when Origin == OriginJoinResult and this name is
	// a destructured property referring to a specific joined table.
	JoinTable string
}

// Context is the mutable compile-time state for one builder source.
// Construct it with New: the zero value's maps are nil, so AssignAlias
// and NewAutoParam panic on it.
type Context struct {
	bindings   []Binding
	aliases    map[string]string // table name -> assigned join alias
	aliasOrder []string
	autoParams map[string]any // auto-param name -> literal value
	nextAutoID int
}

// New returns an empty Context.
func New() *Context {
	return &Context{
		aliases:    make(map[string]string),
		autoParams: make(map[string]any),
	}
}

// PushBinding registers a lambda parameter's classification. Visitors
// call this once per FuncLit parameter before walking its body.
func (c *Context) PushBinding(b Binding) {
	c.bindings = append(c.bindings, b)
}

// Lookup returns the Binding for name, if one has been pushed.
func (c *Context) Lookup(name string) (Binding, bool) {
	for i := len(c.bindings) - 1; i >= 0; i-- {
		if c.bindings[i].Name == name {
			return c.bindings[i], true
		}
	}
	return Binding{}, false
}

// AssignAlias returns the stable alias for table, minting t0, t1, ...
// in first-encounter order if this is the first time table is seen.
// Alias assignment is a pure function of encounter order, never of
// table name.
func (c *Context) AssignAlias(table string) string {
	if alias, ok := c.aliases[table]; ok {
		return alias
	}
	alias := fmt.Sprintf("t%d", len(c.aliasOrder))
	c.aliases[table] = alias
	c.aliasOrder = append(c.aliasOrder, table)
	return alias
}

// HasAlias reports whether table already has an assigned alias, without
// minting a new one.
func (c *Context) HasAlias(table string) bool {
	_, ok := c.aliases[table]
	return ok
}

// KnownTables returns every table seen by AssignAlias, in encounter order.
func (c *Context) KnownTables() []string {
	out := make([]string, len(c.aliasOrder))
	copy(out, c.aliasOrder)
	return out
}

// NewAutoParam mints the next deterministic auto-parameter name
// (__p1, __p2, ...) for a literal value and records its binding. Naming
// depends only on encounter order within the source, never on
// wall-clock time or randomness, so the same source always compiles to
// the same parameter names.
func (c *Context) NewAutoParam(value any) string {
	c.nextAutoID++
	name := fmt.Sprintf("__p%d", c.nextAutoID)
	c.autoParams[name] = value
	return name
}

// AutoParams returns the accumulated auto-parameter bindings.
func (c *Context) AutoParams() map[string]any {
	out := make(map[string]any, len(c.autoParams))
	for k, v := range c.autoParams {
		out[k] = v
	}
	return out
}

// AutoParamNames returns the minted auto-parameter names in assignment
// order. Positional (MySQL) argument order comes from the emitter's
// tqemit.Result.ParamOrder, not from this list.
func (c *Context) AutoParamNames() []string {
	names := make([]string, 0, len(c.autoParams))
	for k := range c.autoParams {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool { return autoParamIndex(names[i]) < autoParamIndex(names[j]) })
	return names
}

func autoParamIndex(name string) int {
	var n int
	_, _ = fmt.Sscanf(name, "__p%d", &n)
	return n
}

// Clone returns a deep-enough copy of c suitable for a plan handle to
// mutate independently of the cached original, so extending a plan
// never mutates the cache shared by other callers.
func (c *Context) Clone() *Context {
	clone := &Context{
		bindings:   append([]Binding(nil), c.bindings...),
		aliases:    make(map[string]string, len(c.aliases)),
		aliasOrder: append([]string(nil), c.aliasOrder...),
		autoParams: make(map[string]any, len(c.autoParams)),
		nextAutoID: c.nextAutoID,
	}
	for k, v := range c.aliases {
		clone.aliases[k] = v
	}
	for k, v := range c.autoParams {
		clone.autoParams[k] = v
	}
	return clone
}

// RequiresAlias reports whether the compiled query involves more than
// one table, in which case every column reference must be alias-qualified.
func (c *Context) RequiresAlias() bool {
	return len(c.aliasOrder) > 1
}

// DistinctTables reports whether every table name in names is unique.
func DistinctTables(names []string) bool {
	return len(slice.Unique(names)) == len(names)
}
