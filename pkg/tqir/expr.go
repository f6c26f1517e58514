// Package tqir defines the closed intermediate representation Tinqer-Go
// compiles builder sources into: a scalar/boolean expression algebra
// (this file) and an operation-tree algebra (operation.go). Every variant
// carries enough provenance (table/column origin of auto-parameters,
// join aliases) for a dialect emitter to render correct, injection-safe
// SQL without re-inspecting the source AST.
//
// Follows an Expression/Value interface family (simple expressions,
// arithmetic expressions, literal values, parameter values), generalised
// from values a caller assembles by hand into nodes a visitor produces
// by walking an AST.
package tqir

// ValueType records the literal kind behind a Constant or auto-Param, so
// a dialect can coerce it (e.g. SQLite boolean-as-integer columns).
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeNumber  ValueType = "number"
	ValueTypeBoolean ValueType = "boolean"
	ValueTypeNull    ValueType = "null"
)

// Expr is implemented by every scalar/value expression node. The marker
// method keeps the sum type closed to this package.
type Expr interface{ exprNode() }

// BoolExpr is implemented by every boolean/predicate expression node.
type BoolExpr interface{ boolExprNode() }

// ---- Value expressions ----

// Column references a table column, optionally qualified by a JOIN alias.
type Column struct {
	Name  string
	Table string // "" unless the column comes from a joined source
}

func (*Column) exprNode() {}

// Constant is an inline literal never routed through auto-parameters.
// The expression visitor produces one only for NULL; every other
// literal becomes an auto-parameter.
type Constant struct {
	Value     any
	ValueType ValueType
}

func (*Constant) exprNode() {}

// Param references a caller-supplied parameter (Name is the query
// parameter, Property the field read from it, e.g. q.ids) or an
// auto-parameter the compiler minted for a literal (Name starts "__p",
// Property == "").
type Param struct {
	Name     string
	Property string
}

func (*Param) exprNode() {}

// Arithmetic is a binary +,-,*,/,% expression over two value expressions.
type Arithmetic struct {
	Op          string
	Left, Right Expr
}

func (*Arithmetic) exprNode() {}

// Concat is string concatenation, rendered through Dialect.Concat (||
// for Postgres/SQLite, CONCAT() for MySQL).
type Concat struct {
	Left, Right Expr
}

func (*Concat) exprNode() {}

// StringMethod is toLowerCase()/toUpperCase() called on a string-typed
// expression.
type StringMethod struct {
	Object Expr
	Method string // "toLowerCase" | "toUpperCase"
}

func (*StringMethod) exprNode() {}

// Coalesce renders COALESCE(e1, e2, ...), produced by the Coalesce(a, b)
// pseudo-function call (Go has no `??` operator).
type Coalesce struct {
	Expressions []Expr
}

func (*Coalesce) exprNode() {}

// CaseWhen is one branch of a Case expression.
type CaseWhen struct {
	When BoolExpr
	Then Expr
}

// Case renders CASE WHEN ... THEN ... [ELSE ...] END, produced by a
// ternary conditional expression in the builder source.
type Case struct {
	Conditions []CaseWhen
	Else       Expr // nil if no else branch
}

func (*Case) exprNode() {}

// Aggregate is a grouping-scoped aggregate call: count()/sum(fn)/
// average(fn)/min(fn)/max(fn). Expression is nil for Count.
type Aggregate struct {
	Function   string // "COUNT" | "SUM" | "AVG" | "MIN" | "MAX"
	Expression Expr
}

func (*Aggregate) exprNode() {}

// OrderKey is one key of a window function's ORDER BY clause.
type OrderKey struct {
	Key        Expr
	Descending bool
}

// WindowFunction renders an OVER(...) window expression. Alias is the
// SELECT projection property name, set by whoever constructs the node;
// the window-filter normalisation pass (tqnorm) matches later WHERE
// references against it. The expression and operation visitors do not
// produce WindowFunction nodes from builder source.
type WindowFunction struct {
	Function    string
	Arguments   []Expr
	PartitionBy []Expr
	OrderBy     []OrderKey
	Alias       string
}

func (*WindowFunction) exprNode() {}

// ObjectProp is one named property of a projection Object.
type ObjectProp struct {
	Name  string
	Value Expr
}

// Object is a SELECT/RETURNING projection built from an object literal;
// each property becomes `expr AS "name"`.
type Object struct {
	Properties []ObjectProp
}

func (*Object) exprNode() {}

// AllColumns represents an unqualified `SELECT *` projection.
type AllColumns struct{}

func (*AllColumns) exprNode() {}

// ---- Boolean expressions ----

// Comparison is a binary ==,!=,<,<=,>,>= comparison. The expression
// visitor rewrites any comparison against a NULL constant into IsNull
// before this node is ever constructed.
type Comparison struct {
	Op          string
	Left, Right Expr
}

func (*Comparison) boolExprNode() {}

// Logical is a binary &&/|| combination of two predicates.
type Logical struct {
	Op          string // "&&" | "||"
	Left, Right BoolExpr
}

func (*Logical) boolExprNode() {}

// Not negates a predicate.
type Not struct {
	Expr BoolExpr
}

func (*Not) boolExprNode() {}

// In renders `value = ANY(list)` (Postgres) or an expanded `value IN
// (...)` (SQLite), produced by `array.includes(x)`.
type In struct {
	Value Expr
	List  Expr // typically a Param referencing a caller array value
}

func (*In) boolExprNode() {}

// IsNull renders `expr IS [NOT] NULL`.
type IsNull struct {
	Expr     Expr
	Negated  bool
}

func (*IsNull) boolExprNode() {}

// BooleanColumn is a boolean-typed column used standalone as a predicate
// (e.g. `u => u.isActive`).
type BooleanColumn struct {
	Name  string
	Table string
}

func (*BooleanColumn) boolExprNode() {}

// BooleanConstant is a literal true/false used standalone as a predicate.
type BooleanConstant struct {
	Value bool
}

func (*BooleanConstant) boolExprNode() {}

// BooleanParam is a caller parameter used standalone as a boolean predicate.
type BooleanParam struct {
	Name     string
	Property string
}

func (*BooleanParam) boolExprNode() {}

// BooleanMethod is startsWith/endsWith/includes, rendered by the dialect
// as a LIKE with the correct wildcard anchoring.
type BooleanMethod struct {
	Object Expr
	Method string // "startsWith" | "endsWith" | "includes"
	Args   []Expr
}

func (*BooleanMethod) boolExprNode() {}

// CaseInsensitiveFunction is a helpers-parameter call such as
// `h.functions.iequals(a, b)`.
type CaseInsensitiveFunction struct {
	Name string
	Args []Expr
}

func (*CaseInsensitiveFunction) boolExprNode() {}
