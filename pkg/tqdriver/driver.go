// Package tqdriver is Tinqer-Go's execute layer: it turns a
// tinqer.Statement (SQL text + named parameters) into a database/sql
// call, translating the statement's dialect-specific placeholder syntax
// into sqlx's `:name` bind convention so sqlx's per-driver BindType
// rewrites it into whatever the registered driver actually expects.
//
// Built around a connection handle with transaction management and row
// scanning plus a pool/registry manager, trimmed of migration and
// raw-SQL-file concerns and NanoID-keyed transaction bookkeeping,
// neither of which has a home in a query compiler's execute path
// (see DESIGN.md).
package tqdriver

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"

	"github.com/jmoiron/sqlx"

	"github.com/fj1981/tinqer/pkg/tqutil"
)

// ConnConfig describes one logical database connection.
type ConnConfig struct {
	Dialect  string
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxOpen  int
	MaxIdle  int
}

// connector resolves a ConnConfig to the database/sql driver name and
// DSN to open. Kept separate from tqemit.Dialect (which only governs
// SQL *text* rendering) so tqdriver never needs to import tqemit.
type connector func(cfg *ConnConfig) (driverName, dsn string)

var (
	connectorsMu sync.RWMutex
	connectors   = map[string]connector{}
)

// RegisterConnector associates a dialect name with the function that
// resolves a ConnConfig into a database/sql driver name and DSN. Called
// for each driver from the single init() in drivers.go, following a registration
// pattern without coupling to any particular dialect interface.
func RegisterConnector(dialect string, fn connector) {
	connectorsMu.Lock()
	defer connectorsMu.Unlock()
	connectors[dialect] = fn
}

func lookupConnector(dialect string) (connector, error) {
	connectorsMu.RLock()
	defer connectorsMu.RUnlock()
	fn, ok := connectors[dialect]
	if !ok {
		return nil, fmt.Errorf("tqdriver: no connector registered for dialect %q", dialect)
	}
	return fn, nil
}

// Client wraps one pooled *sqlx.DB.
type Client struct {
	db      *sqlx.DB
	dialect string
	key     string
}

// Connect opens (or re-uses, via Manager) a connection for cfg.
func Connect(cfg *ConnConfig) (*Client, error) {
	fn, err := lookupConnector(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	driverName, dsn := fn(cfg)
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("tqdriver: opening %s connection: %w", cfg.Dialect, err)
	}
	if cfg.MaxOpen > 0 {
		db.SetMaxOpenConns(cfg.MaxOpen)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("tqdriver: pinging %s connection: %w", cfg.Dialect, err)
	}
	return &Client{db: db, dialect: cfg.Dialect, key: tqutil.MD5(cfg)}, nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error { return c.db.Close() }

// Key identifies the connection config this client was opened from, for
// use as a Manager registry key.
func (c *Client) Key() string { return c.key }

var namedParamPattern = map[string]*regexp.Regexp{
	"postgres": regexp.MustCompile(`\$\(([a-zA-Z_][a-zA-Z0-9_]*)\)`),
	"sqlite":   regexp.MustCompile(`@([a-zA-Z_][a-zA-Z0-9_]*)`),
}

// toSqlxNamed rewrites a dialect's named-placeholder syntax into sqlx's
// `:name` bind convention so sqlx.NamedQuery/NamedExec can rebind it to
// whatever the registered driver's BindType expects.
func toSqlxNamed(dialect, sql string) string {
	re, ok := namedParamPattern[dialect]
	if !ok {
		return sql
	}
	return re.ReplaceAllString(sql, ":$1")
}

// Exec runs sql (with named placeholders, per dialect) as a statement
// that doesn't return rows, using params to bind values.
func (c *Client) Exec(ctx context.Context, dialect, sqlText string, params map[string]any, paramOrder []string) (sql.Result, error) {
	if paramOrder != nil {
		args := make([]any, len(paramOrder))
		for i, name := range paramOrder {
			args[i] = params[name]
		}
		return c.db.ExecContext(ctx, sqlText, args...)
	}
	return c.db.NamedExecContext(ctx, toSqlxNamed(dialect, sqlText), params)
}

// Query runs sqlText and scans every row into a map[string]any,
// normalising each row so []byte becomes string, everything else
// passes through sqlx's MapScan as-is.
func (c *Client) Query(ctx context.Context, dialect, sqlText string, params map[string]any, paramOrder []string) ([]map[string]any, error) {
	var rows *sqlx.Rows
	var err error
	if paramOrder != nil {
		args := make([]any, len(paramOrder))
		for i, name := range paramOrder {
			args[i] = params[name]
		}
		rows, err = c.db.QueryxContext(ctx, sqlText, args...)
	} else {
		var named *sqlx.NamedStmt
		named, err = c.db.PrepareNamedContext(ctx, toSqlxNamed(dialect, sqlText))
		if err == nil {
			rows, err = named.QueryxContext(ctx, params)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("tqdriver: query: %w", err)
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("tqdriver: scanning row: %w", err)
		}
		normalizeRow(row)
		out = append(out, row)
	}
	return out, rows.Err()
}

func normalizeRow(row map[string]any) {
	for k, v := range row {
		if b, ok := v.([]byte); ok {
			row[k] = string(b)
		}
	}
}

// BeginTx starts a transaction. Callers manage one transaction per
// logical unit of work, so a plain *sqlx.Tx wrapper is enough — no
// NanoID-keyed reentrant ref-counting.
func (c *Client) BeginTx(ctx context.Context) (*Tx, error) {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("tqdriver: beginning transaction: %w", err)
	}
	id := txCounter.Add(1)
	return &Tx{tx: tx, id: id, dialect: c.dialect}, nil
}

var txCounter atomic.Uint64

// Tx wraps one open transaction.
type Tx struct {
	tx      *sqlx.Tx
	id      uint64
	dialect string
}

// Exec runs a statement within the transaction.
func (t *Tx) Exec(ctx context.Context, sqlText string, params map[string]any, paramOrder []string) (sql.Result, error) {
	if paramOrder != nil {
		args := make([]any, len(paramOrder))
		for i, name := range paramOrder {
			args[i] = params[name]
		}
		return t.tx.ExecContext(ctx, sqlText, args...)
	}
	return t.tx.NamedExecContext(ctx, toSqlxNamed(t.dialect, sqlText), params)
}

// Commit commits the transaction.
func (t *Tx) Commit() error { return t.tx.Commit() }

// Rollback rolls back the transaction.
func (t *Tx) Rollback() error { return t.tx.Rollback() }

// WithTransaction runs fn inside a transaction, committing on success
// and rolling back if fn returns an error or panics. Grounded on the
// teacher's DBCli.WithTransaction panic-recovery wrapper.
func (c *Client) WithTransaction(ctx context.Context, fn func(*Tx) error) (err error) {
	tx, err := c.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
