package tqir

// Op is implemented by every node in the operation tree: the chain of
// from/where/join/groupBy/... calls a builder source makes, in source
// order, rooted at a From. Follows a fluent-interface
// vocabulary (Where/GroupBy/OrderBy/Join/...), replayed here as a tree
// an emitter walks once rather than a chain of mutating calls.
type Op interface{ opNode() }

// JoinKind distinguishes inner/left/full joins.
type JoinKind string

const (
	JoinInner JoinKind = "INNER"
	JoinLeft  JoinKind = "LEFT"
	JoinFull  JoinKind = "FULL"
)

// From is the root of every operation tree: a single table source.
type From struct {
	Table string
	Alias string // assigned by tqnorm once a join appears downstream
}

func (*From) opNode() {}

// Where filters Source's rows by Predicate.
type Where struct {
	Source    Op
	Predicate BoolExpr
}

func (*Where) opNode() {}

// Join adds a second table source to Source, matched on SourceKey =
// TargetKey.
type Join struct {
	Source     Op
	Kind       JoinKind
	Table      string
	Alias      string
	SourceKey  Expr
	TargetKey  Expr
}

func (*Join) opNode() {}

// GroupKey is one key of a GroupBy clause.
type GroupKey struct {
	Name string
	Key  Expr
}

// GroupBy groups Source's rows by Keys; Having (optional) filters groups.
type GroupBy struct {
	Source Op
	Keys   []GroupKey
	Having BoolExpr // nil if absent
}

func (*GroupBy) opNode() {}

// OrderBy orders Source's rows by Keys, in the order the builder chained
// orderBy/orderByDescending/thenBy/thenByDescending calls.
type OrderBy struct {
	Source Op
	Keys   []OrderKey
}

func (*OrderBy) opNode() {}

// Select projects Source's rows through Projection.
type Select struct {
	Source     Op
	Projection Expr // *Object or *AllColumns
}

func (*Select) opNode() {}

// Distinct deduplicates Source's rows.
type Distinct struct {
	Source Op
}

func (*Distinct) opNode() {}

// Take limits Source to the first Count rows.
type Take struct {
	Source Op
	Count  Expr
}

func (*Take) opNode() {}

// Skip skips the first Count rows of Source.
type Skip struct {
	Source Op
	Count  Expr
}

func (*Skip) opNode() {}

// Terminal marks a statement-ending call that collapses Source to a
// single scalar, row-limited, or existence result: count/sum/average/
// min/max (Selector holds the aggregate argument, nil for count),
// first/firstOrDefault/single/singleOrDefault/last/lastOrDefault
// (LIMIT 1 or 2, last additionally inverts ordering), any/all/contains
// (rendered as an EXISTS subquery), or toArray (no effect on SQL
// shape). Predicate, when set, is ANDed into Source's WHERE before the
// rest of the terminal's rendering runs.
type Terminal struct {
	Source    Op
	Kind      string
	Predicate BoolExpr // optional, for count/any/all
	Selector  Expr     // aggregate argument, for sum/average/min/max
	Value     Expr     // searched value, for contains
}

func (*Terminal) opNode() {}

// Reverse inverts Source's row order. With no OrderBy anywhere in
// Source, SQL has no implicit row order to invert, so Reverse alone is
// a no-op; it only has an effect stacked on top of an OrderBy.
type Reverse struct {
	Source Op
}

func (*Reverse) opNode() {}

// Union combines First and Second's row sets with SQL UNION, each side
// independently completed (default-projected) before combining.
type Union struct {
	First, Second Op
}

func (*Union) opNode() {}

// Insert is the root of an insert operation tree.
type Insert struct {
	Table     string
	Values    *Object
	Returning Expr // nil unless .returning(...) was chained
}

func (*Insert) opNode() {}

// Update is the root of an update operation tree.
type Update struct {
	Table     string
	Set       *Object
	Predicate BoolExpr // nil means unconditional, rejected by the compiler
	Returning Expr
}

func (*Update) opNode() {}

// Delete is the root of a delete operation tree.
type Delete struct {
	Table     string
	Predicate BoolExpr
	Returning Expr
}

func (*Delete) opNode() {}
