// Package tinqer is Tinqer-Go's public API: compile a builder lambda's
// source text into SQL for a chosen dialect and manage the
// process-local parse cache. Running the SQL against a database is
// left to the caller (pkg/tqdriver offers a client for that). Everything else (pkg/tqast, tqctx, tqexpr, tqop, tqnorm,
// tqemit, tqcache, tqplan) is an implementation detail reached only
// through this package.
package tinqer

import (
	"fmt"
	"sync"

	"github.com/fj1981/tinqer/pkg/tqast"
	"github.com/fj1981/tinqer/pkg/tqcache"
	"github.com/fj1981/tinqer/pkg/tqctx"
	"github.com/fj1981/tinqer/pkg/tqemit"
	"github.com/fj1981/tinqer/pkg/tqemit/mysql"
	"github.com/fj1981/tinqer/pkg/tqemit/postgres"
	"github.com/fj1981/tinqer/pkg/tqemit/sqlite"
	"github.com/fj1981/tinqer/pkg/tqnorm"
	"github.com/fj1981/tinqer/pkg/tqop"
	"github.com/fj1981/tinqer/pkg/tqplan"
)

// Dialect names recognised by dialectFor.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
	DialectMySQL    = "mysql"
)

var (
	cacheMu sync.RWMutex
	cache   = tqcache.New(tqcache.DefaultCapacity)
)

func dialectFor(name string) (tqemit.Dialect, error) {
	switch name {
	case DialectPostgres:
		return postgres.New(), nil
	case DialectSQLite:
		return sqlite.New(), nil
	case DialectMySQL:
		return mysql.New(), nil
	default:
		return nil, fmt.Errorf("tinqer: unknown dialect %q", name)
	}
}

// ParseCacheConfig describes the current parse cache's tunables.
type ParseCacheConfig struct {
	Capacity int
	Enabled  bool
}

// SetParseCacheConfig reconfigures the process-wide parse cache.
// Every call rebuilds the cache at cfg.Capacity, discarding all
// currently cached plans.
func SetParseCacheConfig(cfg ParseCacheConfig) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache.Resize(cfg.Capacity)
	cache.SetEnabled(cfg.Enabled)
}

// GetParseCacheConfig reports whether the parse cache is enabled. The
// cache's capacity is not reported: Capacity in the result is always 0.
func GetParseCacheConfig() ParseCacheConfig {
	cacheMu.RLock()
	defer cacheMu.RUnlock()
	return ParseCacheConfig{Enabled: cache.Enabled()}
}

// ClearParseCache discards every cached plan, forcing the next compile
// of each builder source to re-parse from scratch.
func ClearParseCache() {
	cacheMu.RLock()
	c := cache
	cacheMu.RUnlock()
	c.Clear()
}

// ParseCacheLen reports how many plans are currently cached.
func ParseCacheLen() int {
	cacheMu.RLock()
	c := cache
	cacheMu.RUnlock()
	return c.Len()
}

// compile parses (or retrieves from cache) source, runs it through the
// operation-tree builder and the normalisation passes, and returns the
// resulting tqplan.Handle. This is the single chokepoint every public
// SelectStatement/InsertStatement/... entry point funnels through.
func compile(source string) (*tqplan.Handle, error) {
	cacheMu.RLock()
	c := cache
	cacheMu.RUnlock()

	if entry, ok := c.Get(source); ok {
		return tqplan.New(entry.Op, entry.Ctx), nil
	}

	fn, err := tqast.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("tinqer: %w", err)
	}
	ctx := tqctx.New()
	op, err := tqop.Build(ctx, fn)
	if err != nil {
		return nil, fmt.Errorf("tinqer: %w", err)
	}
	op = tqnorm.Normalize(op)

	c.Put(source, &tqcache.Entry{Op: op, Ctx: ctx})
	return tqplan.New(op, ctx), nil
}

// Statement is the result of compiling and emitting a builder lambda:
// ready-to-bind SQL text plus its parameter values.
type Statement struct {
	SQL        string
	Params     map[string]any
	ParamOrder []string
}

// compileAndEmit is shared by every Statement constructor below.
// callerParams supplies the values bound to caller-facing parameters
// (array-valued ones drive tqemit.ExpandArrays); it may be nil.
func compileAndEmit(source, dialectName string, callerParams map[string]any) (*Statement, error) {
	dialect, err := dialectFor(dialectName)
	if err != nil {
		return nil, err
	}
	handle, err := compile(source)
	if err != nil {
		return nil, err
	}
	result, err := tqemit.Emit(dialect, handle.Ctx, handle.Op)
	if err != nil {
		return nil, fmt.Errorf("tinqer: %w", err)
	}

	merged := make(map[string]any, len(result.Params)+len(callerParams))
	for k, v := range result.Params {
		merged[k] = v
	}
	for k, v := range callerParams {
		merged[k] = v
	}

	sql, params, paramOrder, err := tqemit.ExpandArrays(dialect, result.SQL, merged, result.ParamOrder)
	if err != nil {
		return nil, fmt.Errorf("tinqer: %w", err)
	}
	return &Statement{SQL: sql, Params: params, ParamOrder: paramOrder}, nil
}

// SelectStatement compiles a SELECT builder lambda's source text to SQL
// for the given dialect. params supplies caller-bound parameter values
// (may be nil).
func SelectStatement(source, dialectName string, params map[string]any) (*Statement, error) {
	return compileAndEmit(source, dialectName, params)
}

// InsertStatement compiles an INSERT builder lambda's source text to SQL.
func InsertStatement(source, dialectName string, params map[string]any) (*Statement, error) {
	return compileAndEmit(source, dialectName, params)
}

// UpdateStatement compiles an UPDATE builder lambda's source text to SQL.
func UpdateStatement(source, dialectName string, params map[string]any) (*Statement, error) {
	return compileAndEmit(source, dialectName, params)
}

// DeleteStatement compiles a DELETE builder lambda's source text to SQL.
func DeleteStatement(source, dialectName string, params map[string]any) (*Statement, error) {
	return compileAndEmit(source, dialectName, params)
}
