// Package sqlite implements tqemit.Dialect for SQLite: double-quoted
// identifiers, `@name` named placeholders, and an expanded `IN (...)`
// list for array membership (SQLite has no array/ANY type).
//
// Grounded on pkg/cydb/sql/sqlite/default.go's PRAGMA-based introspection
// and its `sqlx.BindDriver("sqlite", sqlx.QUESTION)` registration,
// blank-importing the same pure-Go driver used there.
package sqlite

import (
	"fmt"

	_ "github.com/logoove/sqlite"

	"github.com/fj1981/tinqer/pkg/tqemit"
)

type dialect struct{}

// New returns the SQLite tqemit.Dialect.
func New() tqemit.Dialect { return dialect{} }

func (dialect) Name() string { return "sqlite" }

func (dialect) QuoteIdent(name string) string {
	return `"` + name + `"`
}

func (dialect) UsesNamedParams() bool { return true }

func (dialect) Placeholder(name string) string {
	return fmt.Sprintf("@%s", name)
}

// ArrayMembership renders an IN clause against listParam. SQLite has
// no array bind type of its own, so the actual `@name_0, @name_1, ...`
// placeholder list can't be known until the caller's array value is
// available; this emits a sentinel tqemit.ExpandArrays resolves once
// compileAndEmit has the caller's parameters in hand.
func (dialect) ArrayMembership(valueSQL, listParam string) string {
	return fmt.Sprintf("%s IN (%s)", valueSQL, tqemit.ArraySentinel(listParam))
}

func (dialect) Concat(left, right string) string {
	return fmt.Sprintf("%s || %s", left, right)
}

func (dialect) Pagination(limit, offset string) string {
	switch {
	case limit != "" && offset != "":
		return fmt.Sprintf("LIMIT %s OFFSET %s", limit, offset)
	case limit != "":
		return fmt.Sprintf("LIMIT %s", limit)
	case offset != "":
		// SQLite requires a LIMIT to use OFFSET; -1 means unbounded.
		return fmt.Sprintf("LIMIT -1 OFFSET %s", offset)
	default:
		return ""
	}
}
