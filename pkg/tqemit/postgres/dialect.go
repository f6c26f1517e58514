// Package postgres implements tqemit.Dialect for PostgreSQL: double-
// quoted identifiers, `$(name)` named placeholders, and `= ANY($(name))`
// array membership.
//
// Grounded on pkg/cydb/sql/postgresql/default.go and crud.go (keyword-
// aware double-quoting, ON CONFLICT/array-membership fragments) and
// registered for `database/sql` the same way, via a blank import of the
// driver used there.
package postgres

import (
	"fmt"

	_ "github.com/lib/pq"

	"github.com/fj1981/tinqer/pkg/tqemit"
)

type dialect struct{}

// New returns the PostgreSQL tqemit.Dialect.
func New() tqemit.Dialect { return dialect{} }

func (dialect) Name() string { return "postgres" }

func (dialect) QuoteIdent(name string) string {
	return `"` + name + `"`
}

func (dialect) UsesNamedParams() bool { return true }

func (dialect) Placeholder(name string) string {
	return fmt.Sprintf("$(%s)", name)
}

func (dialect) ArrayMembership(valueSQL, listParam string) string {
	return fmt.Sprintf("%s = ANY($(%s))", valueSQL, listParam)
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
		return fmt.Sprintf("OFFSET %s", offset)
	default:
		return ""
	}
}
