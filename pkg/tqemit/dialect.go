// Package tqemit walks a normalized tqir.Op tree in canonical clause
// order and renders it to SQL text through a pluggable Dialect
// strategy.
//
// Grounded on pkg/cydb/sql/postgresql and pkg/cydb/sql/sqlite: each
// dialect there is a small struct registered against a core interface
// via init(), implementing identifier quoting and a handful of
// dialect-specific SQL fragments (BuildPagination, ON CONFLICT,
// array membership) while the clause-assembly logic itself stays
// dialect-agnostic. Tinqer-Go keeps that split: Dialect below is the
// strategy surface, Emit (emit.go) is the one tree walk all three
// dialects share.
//
// startsWith/endsWith/includes render as LIKE against the bound
// argument as-is: `%` and `_` inside the argument value are not escaped
// and act as wildcards.
package tqemit

// Dialect renders the dialect-specific fragments of emitted SQL: how
// identifiers are quoted, how parameters are referenced, and how an
// `includes()` membership test is expressed.
type Dialect interface {
	// Name identifies the dialect for error messages and result metadata.
	Name() string

	// QuoteIdent quotes a table/column/alias identifier.
	QuoteIdent(name string) string

	// UsesNamedParams reports whether Placeholder produces a named
	// reference (Postgres, SQLite) rather than requiring the emitter to
	// track positional order (MySQL).
	UsesNamedParams() bool

	// Placeholder renders a reference to parameter name.
	Placeholder(name string) string

	// ArrayMembership renders `valueSQL` tested for membership against
	// the array bound to the parameter named listParam.
	ArrayMembership(valueSQL, listParam string) string

	// Concat renders a two-operand string concatenation.
	Concat(left, right string) string

	// Pagination renders the LIMIT/OFFSET (or dialect equivalent)
	// fragment; either argument may be empty.
	Pagination(limit, offset string) string
}

// Result is the emitter's output: the SQL text plus the parameter
// values to bind, and — for dialects without named placeholders — the
// order positional arguments must be supplied in.
//
// Grounded on pkg/cydb/interfaces.go's BuildResult{SQL, ParamOrder}.
type Result struct {
	SQL        string
	Params     map[string]any
	ParamOrder []string // populated only when Dialect.UsesNamedParams() is false
}
