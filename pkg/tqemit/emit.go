package tqemit

import (
	"fmt"
	"strings"

	"github.com/fj1981/tinqer/pkg/tqctx"
	"github.com/fj1981/tinqer/pkg/tqir"
)

// Emit renders op to SQL text for the given dialect. ctx supplies the
// auto-parameter bindings minted during compilation and the alias
// registry filled by tqop while it built the tree.
func Emit(dialect Dialect, ctx *tqctx.Context, op tqir.Op) (*Result, error) {
	e := &emitter{dialect: dialect, ctx: ctx, params: ctx.AutoParams()}
	sql, err := e.root(op)
	if err != nil {
		return nil, err
	}
	result := &Result{SQL: sql, Params: e.params}
	if !dialect.UsesNamedParams() {
		result.ParamOrder = e.paramOrder
	}
	return result, nil
}

type emitter struct {
	dialect    Dialect
	ctx        *tqctx.Context
	params     map[string]any
	paramOrder []string

	// invertOrder flips every ORDER BY direction rendered while true,
	// toggled around Reverse/Last/LastOrDefault rendering. Never
	// mutates the Op tree itself (it is shared across cached plans);
	// OrderBy reads this field instead.
	invertOrder bool
}

// root is Emit's entry point: DML statements and terminals already
// render a complete statement on their own, everything else may need a
// synthesized default SELECT.
func (e *emitter) root(n tqir.Op) (string, error) {
	switch n.(type) {
	case *tqir.Insert, *tqir.Update, *tqir.Delete, *tqir.Terminal:
		return e.op(n)
	default:
		return e.complete(n)
	}
}

// complete renders n's clause chain and, unless n's own tree already
// supplies a SELECT (an explicit Select/Distinct/Union, or a terminal
// that replaces the SELECT clause), prepends a synthesized
// `SELECT <default projection> FROM`.
func (e *emitter) complete(n tqir.Op) (string, error) {
	core, err := e.op(n)
	if err != nil {
		return "", err
	}
	if hasExplicitSelection(n) {
		return core, nil
	}
	proj, err := e.defaultProjectionFor(n)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SELECT %s FROM %s", proj, core), nil
}

// hasExplicitSelection reports whether op's own Source chain already
// renders a SELECT clause, walking through the clause types that don't
// themselves introduce one.
func hasExplicitSelection(op tqir.Op) bool {
	switch node := op.(type) {
	case *tqir.Select, *tqir.Distinct, *tqir.Union:
		return true
	case *tqir.Where:
		return hasExplicitSelection(node.Source)
	case *tqir.Join:
		return hasExplicitSelection(node.Source)
	case *tqir.GroupBy:
		return hasExplicitSelection(node.Source)
	case *tqir.OrderBy:
		return hasExplicitSelection(node.Source)
	case *tqir.Take:
		return hasExplicitSelection(node.Source)
	case *tqir.Skip:
		return hasExplicitSelection(node.Source)
	case *tqir.Reverse:
		return hasExplicitSelection(node.Source)
	case *tqir.Terminal:
		if isSelectReplacingTerminal(node.Kind) {
			return true
		}
		return hasExplicitSelection(node.Source)
	default:
		return false
	}
}

func isSelectReplacingTerminal(kind string) bool {
	switch kind {
	case "Count", "Sum", "Average", "Min", "Max", "Any", "All", "Contains":
		return true
	default:
		return false
	}
}

// findGroupBy locates the nearest GroupBy in op's Source chain, used to
// derive a default projection when no explicit Select follows it.
func findGroupBy(op tqir.Op) *tqir.GroupBy {
	switch node := op.(type) {
	case *tqir.GroupBy:
		return node
	case *tqir.Where:
		return findGroupBy(node.Source)
	case *tqir.Join:
		return findGroupBy(node.Source)
	case *tqir.OrderBy:
		return findGroupBy(node.Source)
	case *tqir.Take:
		return findGroupBy(node.Source)
	case *tqir.Skip:
		return findGroupBy(node.Source)
	case *tqir.Reverse:
		return findGroupBy(node.Source)
	case *tqir.Terminal:
		return findGroupBy(node.Source)
	default:
		return nil
	}
}

// hasOrderBy reports whether op's tree contains an OrderBy anywhere,
// used to decide whether Last/LastOrDefault needs a sentinel ordering.
func hasOrderBy(op tqir.Op) bool {
	switch node := op.(type) {
	case *tqir.OrderBy:
		return true
	case *tqir.Where:
		return hasOrderBy(node.Source)
	case *tqir.Join:
		return hasOrderBy(node.Source)
	case *tqir.GroupBy:
		return hasOrderBy(node.Source)
	case *tqir.Select:
		return hasOrderBy(node.Source)
	case *tqir.Distinct:
		return hasOrderBy(node.Source)
	case *tqir.Take:
		return hasOrderBy(node.Source)
	case *tqir.Skip:
		return hasOrderBy(node.Source)
	case *tqir.Reverse:
		return hasOrderBy(node.Source)
	case *tqir.Terminal:
		return hasOrderBy(node.Source)
	default:
		return false
	}
}

// defaultProjectionFor renders the projection a synthesized SELECT
// should use: the nearest GroupBy's keys if one precedes it, else "*".
func (e *emitter) defaultProjectionFor(op tqir.Op) (string, error) {
	gb := findGroupBy(op)
	if gb == nil {
		return "*", nil
	}
	parts := make([]string, 0, len(gb.Keys))
	for _, k := range gb.Keys {
		s, err := e.expr(k.Key)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("%s AS %s", s, e.dialect.QuoteIdent(k.Name)))
	}
	return strings.Join(parts, ", "), nil
}

// ---- operation tree ----

func (e *emitter) op(n tqir.Op) (string, error) {
	switch node := n.(type) {
	case *tqir.From:
		return e.quoteTable(node.Table, node.Alias), nil

	case *tqir.Where:
		source, err := e.op(node.Source)
		if err != nil {
			return "", err
		}
		pred, err := e.boolExpr(node.Predicate)
		if err != nil {
			return "", err
		}
		return wrapWhere(source, pred), nil

	case *tqir.Join:
		source, err := e.op(node.Source)
		if err != nil {
			return "", err
		}
		onSQL := ""
		if node.SourceKey != nil && node.TargetKey != nil {
			left, err := e.expr(node.SourceKey)
			if err != nil {
				return "", err
			}
			right, err := e.expr(node.TargetKey)
			if err != nil {
				return "", err
			}
			onSQL = fmt.Sprintf(" ON %s = %s", left, right)
		}
		return fmt.Sprintf("%s %s JOIN %s%s", source, node.Kind, e.quoteTable(node.Table, node.Alias), onSQL), nil

	case *tqir.GroupBy:
		source, err := e.op(node.Source)
		if err != nil {
			return "", err
		}
		keys := make([]string, 0, len(node.Keys))
		for _, k := range node.Keys {
			s, err := e.expr(k.Key)
			if err != nil {
				return "", err
			}
			keys = append(keys, s)
		}
		sql := fmt.Sprintf("%s GROUP BY %s", source, strings.Join(keys, ", "))
		if node.Having != nil {
			h, err := e.boolExpr(node.Having)
			if err != nil {
				return "", err
			}
			sql = fmt.Sprintf("%s HAVING %s", sql, h)
		}
		return sql, nil

	case *tqir.OrderBy:
		source, err := e.op(node.Source)
		if err != nil {
			return "", err
		}
		keys := make([]string, 0, len(node.Keys))
		for _, k := range node.Keys {
			s, err := e.expr(k.Key)
			if err != nil {
				return "", err
			}
			descending := k.Descending
			if e.invertOrder {
				descending = !descending
			}
			if descending {
				s += " DESC"
			}
			keys = append(keys, s)
		}
		return fmt.Sprintf("%s ORDER BY %s", source, strings.Join(keys, ", ")), nil

	case *tqir.Select:
		projection, err := e.projection(node.Projection)
		if err != nil {
			return "", err
		}
		source, err := e.op(node.Source)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("SELECT %s FROM %s", projection, source), nil

	case *tqir.Distinct:
		source, err := e.op(node.Source)
		if err != nil {
			return "", err
		}
		if hasExplicitSelection(node.Source) {
			if strings.HasPrefix(source, "SELECT ") {
				return "SELECT DISTINCT " + source[len("SELECT "):], nil
			}
			return "SELECT DISTINCT * FROM (" + source + ")", nil
		}
		proj, err := e.defaultProjectionFor(node.Source)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("SELECT DISTINCT %s FROM %s", proj, source), nil

	case *tqir.Take:
		return e.limit(node.Source, node.Count, nil)

	case *tqir.Skip:
		return e.limit(node.Source, nil, node.Count)

	case *tqir.Reverse:
		prev := e.invertOrder
		e.invertOrder = !prev
		s, err := e.op(node.Source)
		e.invertOrder = prev
		if err != nil {
			return "", err
		}
		return s, nil

	case *tqir.Union:
		left, err := e.complete(node.First)
		if err != nil {
			return "", err
		}
		right, err := e.complete(node.Second)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s UNION %s", left, right), nil

	case *tqir.Terminal:
		return e.terminal(node)

	case *tqir.Insert:
		return e.insert(node)

	case *tqir.Update:
		return e.update(node)

	case *tqir.Delete:
		return e.delete(node)

	default:
		return "", fmt.Errorf("tqemit: unsupported operation %T", n)
	}
}

func wrapWhere(source, pred string) string {
	if strings.Contains(source, " WHERE ") {
		return fmt.Sprintf("%s AND %s", source, pred)
	}
	return fmt.Sprintf("%s WHERE %s", source, pred)
}

func (e *emitter) limit(source tqir.Op, take, skip tqir.Expr) (string, error) {
	sourceSQL, err := e.op(source)
	if err != nil {
		return "", err
	}
	var limitSQL, offsetSQL string
	if take != nil {
		limitSQL, err = e.expr(take)
		if err != nil {
			return "", err
		}
	}
	if skip != nil {
		offsetSQL, err = e.expr(skip)
		if err != nil {
			return "", err
		}
	}
	page := e.dialect.Pagination(limitSQL, offsetSQL)
	if page == "" {
		return sourceSQL, nil
	}
	return sourceSQL + " " + page, nil
}

// terminal dispatches a Terminal node to the rendering strategy its
// Kind needs: aggregates replace the SELECT clause, Any/All/Contains
// render as an EXISTS check, First/Single/Last append a LIMIT, and
// ToArray is a pure passthrough.
func (e *emitter) terminal(t *tqir.Terminal) (string, error) {
	switch t.Kind {
	case "Count", "Sum", "Average", "Min", "Max":
		return e.aggregateTerminal(t)
	case "Any", "All":
		return e.existsTerminal(t)
	case "Contains":
		return e.containsTerminal(t)
	case "First", "FirstOrDefault":
		return e.limitedTerminal(t, 1, false)
	case "Single", "SingleOrDefault":
		return e.limitedTerminal(t, 2, false)
	case "Last", "LastOrDefault":
		return e.limitedTerminal(t, 1, true)
	case "ToArray":
		return e.complete(t.Source)
	default:
		return "", fmt.Errorf("tqemit: unsupported terminal %q", t.Kind)
	}
}

var aggregateFuncs = map[string]string{
	"Sum":     "SUM",
	"Average": "AVG",
	"Min":     "MIN",
	"Max":     "MAX",
}

// aggregateTerminal replaces Source's SELECT clause entirely with a
// single aggregate expression; Source must not already carry its own
// projection.
func (e *emitter) aggregateTerminal(t *tqir.Terminal) (string, error) {
	source := t.Source
	if t.Predicate != nil {
		source = &tqir.Where{Source: source, Predicate: t.Predicate}
	}
	if hasExplicitSelection(source) {
		return "", fmt.Errorf("tqemit: %s cannot follow a query that already projects a result", t.Kind)
	}
	// The aggregate is rendered before the FROM source so that
	// positional parameters are recorded in the order they appear.
	var agg string
	if t.Kind == "Count" {
		agg = "COUNT(*)"
	} else {
		fn, ok := aggregateFuncs[t.Kind]
		if !ok || t.Selector == nil {
			return "", fmt.Errorf("tqemit: %s requires a selector", t.Kind)
		}
		arg, err := e.expr(t.Selector)
		if err != nil {
			return "", err
		}
		agg = fmt.Sprintf("%s(%s)", fn, arg)
	}
	core, err := e.op(source)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SELECT %s FROM %s", agg, core), nil
}

// existsTerminal renders Any/All as a CASE-wrapped [NOT] EXISTS check.
// All negates its (mandatory) predicate before folding it into the
// inner query's WHERE clause.
func (e *emitter) existsTerminal(t *tqir.Terminal) (string, error) {
	pred := t.Predicate
	negated := t.Kind == "All"
	if negated {
		if pred == nil {
			return "", fmt.Errorf("tqemit: All requires a predicate")
		}
		pred = &tqir.Not{Expr: pred}
	}
	core, err := e.op(t.Source)
	if err != nil {
		return "", err
	}
	if pred != nil {
		predSQL, err := e.boolExpr(pred)
		if err != nil {
			return "", err
		}
		core = wrapWhere(core, predSQL)
	}
	keyword := "EXISTS"
	if negated {
		keyword = "NOT EXISTS"
	}
	return fmt.Sprintf("SELECT CASE WHEN %s (SELECT 1 FROM %s) THEN 1 ELSE 0 END", keyword, core), nil
}

// containsTerminal renders Contains(value) as an existence check
// against the single column a preceding Select projected.
func (e *emitter) containsTerminal(t *tqir.Terminal) (string, error) {
	col, err := singleProjectedColumn(t.Source)
	if err != nil {
		return "", err
	}
	core, err := e.complete(t.Source)
	if err != nil {
		return "", err
	}
	colSQL, err := e.expr(col)
	if err != nil {
		return "", err
	}
	valSQL, err := e.expr(t.Value)
	if err != nil {
		return "", err
	}
	inner := wrapWhere(core, fmt.Sprintf("%s = %s", colSQL, valSQL))
	return fmt.Sprintf("SELECT CASE WHEN EXISTS (%s) THEN 1 ELSE 0 END", inner), nil
}

// singleProjectedColumn walks down to the nearest Select and returns
// its lone projected expression, erroring if none exists or it
// projects more than one column.
func singleProjectedColumn(op tqir.Op) (tqir.Expr, error) {
	switch node := op.(type) {
	case *tqir.Select:
		obj, ok := node.Projection.(*tqir.Object)
		if !ok || len(obj.Properties) != 1 {
			return nil, fmt.Errorf("tqemit: Contains requires its source to project exactly one column")
		}
		return obj.Properties[0].Value, nil
	case *tqir.Where:
		return singleProjectedColumn(node.Source)
	case *tqir.Distinct:
		return singleProjectedColumn(node.Source)
	case *tqir.OrderBy:
		return singleProjectedColumn(node.Source)
	case *tqir.Take:
		return singleProjectedColumn(node.Source)
	case *tqir.Skip:
		return singleProjectedColumn(node.Source)
	default:
		return nil, fmt.Errorf("tqemit: Contains requires a preceding single-column Select")
	}
}

// limitedTerminal renders First/Single (LIMIT 1/2) and Last (which
// additionally inverts ordering, falling back to a sentinel `ORDER BY
// 1 DESC` when Source has no OrderBy of its own to invert).
func (e *emitter) limitedTerminal(t *tqir.Terminal, n int, invertsOrder bool) (string, error) {
	if invertsOrder {
		prev := e.invertOrder
		e.invertOrder = !prev
		defer func() { e.invertOrder = prev }()
	}
	core, err := e.complete(t.Source)
	if err != nil {
		return "", err
	}
	if invertsOrder && !hasOrderBy(t.Source) {
		core += " ORDER BY 1 DESC"
	}
	page := e.dialect.Pagination(fmt.Sprintf("%d", n), "")
	if page == "" {
		return core, nil
	}
	return core + " " + page, nil
}

func (e *emitter) quoteTable(table, alias string) string {
	q := e.dialect.QuoteIdent(table)
	if alias == "" {
		return q
	}
	return fmt.Sprintf("%s AS %s", q, e.dialect.QuoteIdent(alias))
}

func (e *emitter) projection(proj tqir.Expr) (string, error) {
	switch p := proj.(type) {
	case *tqir.AllColumns:
		return "*", nil
	case *tqir.Object:
		parts := make([]string, 0, len(p.Properties))
		for _, prop := range p.Properties {
			s, err := e.expr(prop.Value)
			if err != nil {
				return "", err
			}
			parts = append(parts, fmt.Sprintf("%s AS %s", s, e.dialect.QuoteIdent(prop.Name)))
		}
		return strings.Join(parts, ", "), nil
	default:
		return "", fmt.Errorf("tqemit: unsupported projection %T", proj)
	}
}

// ---- DML ----

func (e *emitter) insert(n *tqir.Insert) (string, error) {
	cols := make([]string, 0, len(n.Values.Properties))
	vals := make([]string, 0, len(n.Values.Properties))
	for _, p := range n.Values.Properties {
		cols = append(cols, e.dialect.QuoteIdent(p.Name))
		s, err := e.expr(p.Value)
		if err != nil {
			return "", err
		}
		vals = append(vals, s)
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", e.dialect.QuoteIdent(n.Table), strings.Join(cols, ", "), strings.Join(vals, ", "))
	return e.appendReturning(sql, n.Returning)
}

func (e *emitter) update(n *tqir.Update) (string, error) {
	if n.Set == nil {
		return "", fmt.Errorf("tqemit: Update requires a Set clause")
	}
	if n.Predicate == nil {
		return "", fmt.Errorf("tqemit: Update requires a Where predicate to avoid an unbounded update")
	}
	sets := make([]string, 0, len(n.Set.Properties))
	for _, p := range n.Set.Properties {
		s, err := e.expr(p.Value)
		if err != nil {
			return "", err
		}
		sets = append(sets, fmt.Sprintf("%s = %s", e.dialect.QuoteIdent(p.Name), s))
	}
	pred, err := e.boolExpr(n.Predicate)
	if err != nil {
		return "", err
	}
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s", e.dialect.QuoteIdent(n.Table), strings.Join(sets, ", "), pred)
	return e.appendReturning(sql, n.Returning)
}

func (e *emitter) delete(n *tqir.Delete) (string, error) {
	if n.Predicate == nil {
		return "", fmt.Errorf("tqemit: Delete requires a Where predicate to avoid an unbounded delete")
	}
	pred, err := e.boolExpr(n.Predicate)
	if err != nil {
		return "", err
	}
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s", e.dialect.QuoteIdent(n.Table), pred)
	return e.appendReturning(sql, n.Returning)
}

func (e *emitter) appendReturning(sql string, returning tqir.Expr) (string, error) {
	if returning == nil {
		return sql, nil
	}
	proj, err := e.projection(returning)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s RETURNING %s", sql, proj), nil
}

// ---- value expressions ----

func (e *emitter) expr(n tqir.Expr) (string, error) {
	switch node := n.(type) {
	case *tqir.Column:
		return e.column(node.Name, node.Table), nil

	case *tqir.Constant:
		return renderConstant(node), nil

	case *tqir.Param:
		return e.param(paramRef(node.Name, node.Property))

	case *tqir.Arithmetic:
		left, err := e.expr(node.Left)
		if err != nil {
			return "", err
		}
		right, err := e.expr(node.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", left, node.Op, right), nil

	case *tqir.Concat:
		left, err := e.expr(node.Left)
		if err != nil {
			return "", err
		}
		right, err := e.expr(node.Right)
		if err != nil {
			return "", err
		}
		return e.dialect.Concat(left, right), nil

	case *tqir.StringMethod:
		obj, err := e.expr(node.Object)
		if err != nil {
			return "", err
		}
		fn := "LOWER"
		if node.Method == "toUpperCase" {
			fn = "UPPER"
		}
		return fmt.Sprintf("%s(%s)", fn, obj), nil

	case *tqir.Coalesce:
		parts := make([]string, 0, len(node.Expressions))
		for _, e2 := range node.Expressions {
			s, err := e.expr(e2)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return fmt.Sprintf("COALESCE(%s)", strings.Join(parts, ", ")), nil

	case *tqir.Case:
		return e.caseExpr(node)

	case *tqir.Aggregate:
		return e.aggregate(node)

	case *tqir.WindowFunction:
		return e.window(node)

	case *tqir.Object:
		return "", fmt.Errorf("tqemit: object expressions are only valid as a projection")

	default:
		return "", fmt.Errorf("tqemit: unsupported expression %T", n)
	}
}

func (e *emitter) column(name, table string) string {
	if table == "" || !e.ctx.RequiresAlias() {
		return e.dialect.QuoteIdent(name)
	}
	return fmt.Sprintf("%s.%s", e.dialect.QuoteIdent(table), e.dialect.QuoteIdent(name))
}

func renderConstant(c *tqir.Constant) string {
	if c.ValueType == tqir.ValueTypeNull || c.Value == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", c.Value)
}

// paramRef resolves which name to bind: Property, when set, is the
// caller-facing parameter name; Name is only the lambda's local
// binding identifier and never what the caller actually supplied.
func paramRef(name, property string) string {
	if property != "" {
		return property
	}
	return name
}

func (e *emitter) param(name string) (string, error) {
	if e.dialect.UsesNamedParams() {
		return e.dialect.Placeholder(name), nil
	}
	e.paramOrder = append(e.paramOrder, name)
	return e.dialect.Placeholder(name), nil
}

func (e *emitter) caseExpr(n *tqir.Case) (string, error) {
	var b strings.Builder
	b.WriteString("CASE")
	for _, w := range n.Conditions {
		cond, err := e.boolExpr(w.When)
		if err != nil {
			return "", err
		}
		then, err := e.expr(w.Then)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, " WHEN %s THEN %s", cond, then)
	}
	if n.Else != nil {
		els, err := e.expr(n.Else)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, " ELSE %s", els)
	}
	b.WriteString(" END")
	return b.String(), nil
}

func (e *emitter) aggregate(n *tqir.Aggregate) (string, error) {
	if n.Expression == nil {
		return fmt.Sprintf("%s(*)", n.Function), nil
	}
	arg, err := e.expr(n.Expression)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s)", n.Function, arg), nil
}

func (e *emitter) window(n *tqir.WindowFunction) (string, error) {
	args := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		s, err := e.expr(a)
		if err != nil {
			return "", err
		}
		args = append(args, s)
	}
	var over strings.Builder
	if len(n.PartitionBy) > 0 {
		parts := make([]string, 0, len(n.PartitionBy))
		for _, p := range n.PartitionBy {
			s, err := e.expr(p)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		fmt.Fprintf(&over, "PARTITION BY %s", strings.Join(parts, ", "))
	}
	if len(n.OrderBy) > 0 {
		if over.Len() > 0 {
			over.WriteString(" ")
		}
		keys := make([]string, 0, len(n.OrderBy))
		for _, k := range n.OrderBy {
			s, err := e.expr(k.Key)
			if err != nil {
				return "", err
			}
			if k.Descending {
				s += " DESC"
			}
			keys = append(keys, s)
		}
		fmt.Fprintf(&over, "ORDER BY %s", strings.Join(keys, ", "))
	}
	return fmt.Sprintf("%s(%s) OVER (%s)", n.Function, strings.Join(args, ", "), over.String()), nil
}

// ---- boolean expressions ----

func (e *emitter) boolExpr(n tqir.BoolExpr) (string, error) {
	switch node := n.(type) {
	case *tqir.Comparison:
		left, err := e.expr(node.Left)
		if err != nil {
			return "", err
		}
		right, err := e.expr(node.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", left, sqlOp(node.Op), right), nil

	case *tqir.Logical:
		left, err := e.boolExpr(node.Left)
		if err != nil {
			return "", err
		}
		right, err := e.boolExpr(node.Right)
		if err != nil {
			return "", err
		}
		op := "AND"
		if node.Op == "||" {
			op = "OR"
		}
		return fmt.Sprintf("(%s %s %s)", left, op, right), nil

	case *tqir.Not:
		inner, err := e.boolExpr(node.Expr)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("NOT (%s)", inner), nil

	case *tqir.In:
		value, err := e.expr(node.Value)
		if err != nil {
			return "", err
		}
		param, ok := node.List.(*tqir.Param)
		if !ok {
			return "", fmt.Errorf("tqemit: In list must reference a parameter")
		}
		name := paramRef(param.Name, param.Property)
		if !e.dialect.UsesNamedParams() {
			e.paramOrder = append(e.paramOrder, name)
		}
		return e.dialect.ArrayMembership(value, name), nil

	case *tqir.IsNull:
		inner, err := e.expr(node.Expr)
		if err != nil {
			return "", err
		}
		if node.Negated {
			return fmt.Sprintf("%s IS NOT NULL", inner), nil
		}
		return fmt.Sprintf("%s IS NULL", inner), nil

	case *tqir.BooleanColumn:
		return e.column(node.Name, node.Table), nil

	case *tqir.BooleanConstant:
		if node.Value {
			return "TRUE", nil
		}
		return "FALSE", nil

	case *tqir.BooleanParam:
		return e.param(paramRef(node.Name, node.Property))

	case *tqir.BooleanMethod:
		return e.booleanMethod(node)

	case *tqir.CaseInsensitiveFunction:
		return e.caseInsensitive(node)

	default:
		return "", fmt.Errorf("tqemit: unsupported predicate %T", n)
	}
}

func sqlOp(op string) string {
	switch op {
	case "==":
		return "="
	case "!=":
		return "<>"
	default:
		return op
	}
}

func (e *emitter) booleanMethod(n *tqir.BooleanMethod) (string, error) {
	obj, err := e.expr(n.Object)
	if err != nil {
		return "", err
	}
	if len(n.Args) != 1 {
		return "", fmt.Errorf("tqemit: %s requires exactly one argument", n.Method)
	}
	arg, err := e.expr(n.Args[0])
	if err != nil {
		return "", err
	}
	switch n.Method {
	case "startsWith":
		return fmt.Sprintf("%s LIKE %s || '%%'", obj, arg), nil
	case "endsWith":
		return fmt.Sprintf("%s LIKE '%%' || %s", obj, arg), nil
	case "includes":
		return fmt.Sprintf("%s LIKE '%%' || %s || '%%'", obj, arg), nil
	default:
		return "", fmt.Errorf("tqemit: unsupported string method %q", n.Method)
	}
}

func (e *emitter) caseInsensitive(n *tqir.CaseInsensitiveFunction) (string, error) {
	if n.Name != "iequals" {
		return "", fmt.Errorf("tqemit: unsupported helpers function %q", n.Name)
	}
	if len(n.Args) != 2 {
		return "", fmt.Errorf("tqemit: iequals requires exactly two arguments")
	}
	left, err := e.expr(n.Args[0])
	if err != nil {
		return "", err
	}
	right, err := e.expr(n.Args[1])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("LOWER(%s) = LOWER(%s)", left, right), nil
}
