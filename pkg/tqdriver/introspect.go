package tqdriver

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/fj1981/tinqer/pkg/tqutil"
)

// Column describes one table column as reported by the target
// database's information_schema/PRAGMA introspection. This is ambient
// tooling, not part of the compiler itself: Tinqer-Go's schemas remain
// opaque type witnesses to the compiler proper, but a caller wiring up
// a new table benefits from seeing what's actually there.
type Column struct {
	Name     string
	DataType string
	Nullable bool
}

var schemaCache = gocache.New(2*time.Minute, 5*time.Minute)

// TableColumns returns tableName's columns, dialect-appropriately
// introspected, short-TTL-cached per (dialect, database, table) to
// avoid hammering information_schema on repeated calls. Grounded on
// pkg/cydb/db_cli.go's GetTableColumns, which cached the same query
// shape the same way (patrickmn/go-cache, 2-minute TTL) — kept as the
// one exception to dropping that library elsewhere (DESIGN.md).
func TableColumns(ctx context.Context, c *Client, database, tableName string) ([]Column, error) {
	key := fmt.Sprintf("%s:%s:%s", c.dialect, database, tableName)
	if cached, ok := schemaCache.Get(key); ok {
		return cached.([]Column), nil
	}

	var sqlText string
	var params map[string]any
	switch c.dialect {
	case "postgres":
		sqlText = `SELECT column_name AS name, data_type AS data_type, is_nullable AS nullable
			FROM information_schema.columns WHERE table_name = :table_name`
		params = map[string]any{"table_name": tableName}
	case "mysql":
		sqlText = `SELECT column_name AS name, data_type AS data_type, is_nullable AS nullable
			FROM information_schema.columns WHERE table_schema = :database AND table_name = :table_name`
		params = map[string]any{"database": database, "table_name": tableName}
	case "sqlite":
		sqlText = fmt.Sprintf("PRAGMA table_info(%s)", tableName)
		params = map[string]any{}
	default:
		return nil, fmt.Errorf("tqdriver: introspection unsupported for dialect %q", c.dialect)
	}

	rows, err := c.Query(ctx, c.dialect, sqlText, params, nil)
	if err != nil {
		return nil, fmt.Errorf("tqdriver: introspecting %s: %w", tableName, err)
	}

	cols := make([]Column, 0, len(rows))
	for _, row := range rows {
		if c.dialect == "sqlite" {
			cols = append(cols, Column{
				Name:     tqutil.GetStr(row, "name"),
				DataType: tqutil.GetStr(row, "type"),
				Nullable: tqutil.GetInt(row, "notnull") == 0,
			})
			continue
		}
		cols = append(cols, Column{
			Name:     tqutil.GetStr(row, "name"),
			DataType: tqutil.GetStr(row, "data_type"),
			Nullable: tqutil.GetStr(row, "nullable") == "YES",
		})
	}

	schemaCache.Set(key, cols, gocache.DefaultExpiration)
	return cols, nil
}
