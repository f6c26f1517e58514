package tqdriver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToSqlxNamed_Postgres(t *testing.T) {
	got := toSqlxNamed("postgres", `SELECT * FROM "users" WHERE "Age" > $(__p1) AND "Name" = $(__p2)`)
	require.Equal(t, `SELECT * FROM "users" WHERE "Age" > :__p1 AND "Name" = :__p2`, got)
}

func TestToSqlxNamed_SQLite(t *testing.T) {
	got := toSqlxNamed("sqlite", `SELECT * FROM "users" WHERE "Age" > @__p1`)
	require.Equal(t, `SELECT * FROM "users" WHERE "Age" > :__p1`, got)
}

func TestToSqlxNamed_UnknownDialectPassesThrough(t *testing.T) {
	sql := "SELECT * FROM `users` WHERE `Age` > ?"
	require.Equal(t, sql, toSqlxNamed("mysql", sql))
}

func TestNormalizeRow_ConvertsByteSlicesToStrings(t *testing.T) {
	row := map[string]any{
		"name":  []byte("alice"),
		"count": int64(3),
	}
	normalizeRow(row)
	require.Equal(t, "alice", row["name"])
	require.Equal(t, int64(3), row["count"])
}

func TestRegisterConnector_LookupRoundTrip(t *testing.T) {
	RegisterConnector("test-dialect", func(cfg *ConnConfig) (string, string) {
		return "test-driver", "dsn://" + cfg.Database
	})
	connectorsMu.RLock()
	fn, ok := connectors["test-dialect"]
	connectorsMu.RUnlock()
	require.True(t, ok)
	driver, dsn := fn(&ConnConfig{Database: "app"})
	require.Equal(t, "test-driver", driver)
	require.Equal(t, "dsn://app", dsn)
}
