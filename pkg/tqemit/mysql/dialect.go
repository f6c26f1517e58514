// Package mysql implements tqemit.Dialect for MySQL: backtick-quoted
// identifiers and plain positional `?` placeholders (MySQL's wire
// protocol has no named-parameter form). Since `?` placeholders carry
// no name, the emitter records minted parameter names in source order
// (tqemit.Result.ParamOrder) so the execute wrapper can build the
// correctly ordered positional argument slice.
//
// Tinqer-Go's third dialect, added to give go-sql-driver/mysql a real
// home (see DESIGN.md); not grounded on a single prior dialect file.
// Like the postgres and sqlite dialect packages it has no init()
// registration: tinqer's dialectFor builds it with New().
package mysql

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/fj1981/tinqer/pkg/tqemit"
)

type dialect struct{}

// New returns the MySQL tqemit.Dialect.
func New() tqemit.Dialect { return dialect{} }

func (dialect) Name() string { return "mysql" }

func (dialect) QuoteIdent(name string) string {
	return "`" + name + "`"
}

func (dialect) UsesNamedParams() bool { return false }

func (dialect) Placeholder(name string) string { return "?" }

// ArrayMembership renders an IN clause against listParam. MySQL's `?`
// placeholders are positional and singular, so a multi-element array
// can't be bound as one `?`; this emits a sentinel tqemit.ExpandArrays
// resolves into the matching count of `?`s (and rewrites ParamOrder to
// match) once the caller's array value is known.
func (dialect) ArrayMembership(valueSQL, listParam string) string {
	return fmt.Sprintf("%s IN (%s)", valueSQL, tqemit.ArraySentinel(listParam))
}

func (dialect) Concat(left, right string) string {
	return fmt.Sprintf("CONCAT(%s, %s)", left, right)
}

func (dialect) Pagination(limit, offset string) string {
	switch {
	case limit != "" && offset != "":
		return fmt.Sprintf("LIMIT %s OFFSET %s", limit, offset)
	case limit != "":
		return fmt.Sprintf("LIMIT %s", limit)
	case offset != "":
		return fmt.Sprintf("LIMIT 18446744073709551615 OFFSET %s", offset)
	default:
		return ""
	}
}
