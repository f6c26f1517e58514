// Package tqdsl provides the phantom generic types a Tinqer-Go caller
// writes builder lambdas against, so their editor and the Go compiler
// type-check table/column/parameter access before the lambda's source
// text is ever handed to the compiler. The types here are never
// constructed or executed — tqast.Parse reads the lambda's *source*,
// not its compiled behaviour (see pkg/tqast's package doc for why).
package tqdsl

// Queryable is the root of a SELECT builder chain over rows of type T.
type Queryable[T any] struct{ _ [0]T }

// Table names the source table a Queryable reads from; From takes a
// table name as a string because Tinqer-Go has no schema/table registry
// of its own (schemas are opaque type witnesses, out of scope here).
func (Queryable[T]) From(table string) Queryable[T] { return Queryable[T]{} }

// Where filters rows by predicate.
func (q Queryable[T]) Where(predicate func(T) bool) Queryable[T] { return q }

// Select projects each row of type T to a result of type R.
func Select[T, R any](q Queryable[T], project func(T) R) Queryable[R] { return Queryable[R]{} }

// OrderBy/OrderByDescending/ThenBy/ThenByDescending order the result set
// by a scalar key extracted from each row.
func (q Queryable[T]) OrderBy(key func(T) any) Queryable[T]           { return q }
func (q Queryable[T]) OrderByDescending(key func(T) any) Queryable[T] { return q }
func (q Queryable[T]) ThenBy(key func(T) any) Queryable[T]            { return q }
func (q Queryable[T]) ThenByDescending(key func(T) any) Queryable[T]  { return q }

// Take/Skip implement row-count limiting/paging.
func (q Queryable[T]) Take(n int) Queryable[T] { return q }
func (q Queryable[T]) Skip(n int) Queryable[T] { return q }

// Distinct deduplicates the result set.
func (q Queryable[T]) Distinct() Queryable[T] { return q }

// Reverse inverts the result set's row order, relative to whatever
// OrderBy/ThenBy chain precedes it.
func (q Queryable[T]) Reverse() Queryable[T] { return q }

// Union combines q's rows with other's, duplicates removed.
func (q Queryable[T]) Union(other Queryable[T]) Queryable[T] { return q }

// Join/LeftJoin/FullJoin/GroupJoin match rows of type U from table
// against q by sourceKey/targetKey, projecting each matched pair
// through result. GroupJoin groups matches per left row; paired with
// a SelectMany(g => g.DefaultIfEmpty(), ...) flattening call it
// compiles to a LEFT JOIN rather than a true grouped join.
func Join[T, U, K comparable, R any](q Queryable[T], table string, sourceKey func(T) K, targetKey func(U) K, result func(T, U) R) Queryable[R] {
	return Queryable[R]{}
}
func LeftJoin[T, U, K comparable, R any](q Queryable[T], table string, sourceKey func(T) K, targetKey func(U) K, result func(T, U) R) Queryable[R] {
	return Queryable[R]{}
}
func FullJoin[T, U, K comparable, R any](q Queryable[T], table string, sourceKey func(T) K, targetKey func(U) K, result func(T, U) R) Queryable[R] {
	return Queryable[R]{}
}
func GroupJoin[T, U, K comparable, R any](q Queryable[T], table string, sourceKey func(T) K, targetKey func(U) K, result func(T, Queryable[U]) R) Queryable[R] {
	return Queryable[R]{}
}

// DefaultIfEmpty marks a grouped join-result sequence as left-joined:
// rows with no match still appear, with U fields defaulted. Only
// meaningful as the receiver of a SelectMany flattening call
// immediately after GroupJoin.
func (q Queryable[T]) DefaultIfEmpty() Queryable[T] { return q }

// SelectMany flattens a per-row collection selected by collection into
// the result set, projecting each (row, element) pair through result.
// The only supported collection shape is `g => g.DefaultIfEmpty()`
// immediately following GroupJoin, which flattens to a LEFT JOIN.
func SelectMany[T, U, R any](q Queryable[T], collection func(T) Queryable[U], result func(T, U) R) Queryable[R] {
	return Queryable[R]{}
}

// Count returns the row count, optionally matching predicate.
func Count[T any](q Queryable[T], predicate ...func(T) bool) int { return 0 }

// Any reports whether any row exists, optionally matching predicate.
func Any[T any](q Queryable[T], predicate ...func(T) bool) bool { return false }

// All reports whether every row matches predicate.
func All[T any](q Queryable[T], predicate func(T) bool) bool { return false }

// Contains reports whether q's single projected column equals value.
func Contains[T comparable](q Queryable[T], value T) bool { return false }

// Sum/Average/Min/Max reduce the result of selector over q's rows.
func Sum[T any, N int | float64](q Queryable[T], selector func(T) N) N     { var zero N; return zero }
func Average[T any, N int | float64](q Queryable[T], selector func(T) N) N { var zero N; return zero }
func Min[T any, N int | float64](q Queryable[T], selector func(T) N) N     { var zero N; return zero }
func Max[T any, N int | float64](q Queryable[T], selector func(T) N) N     { var zero N; return zero }

// First/FirstOrDefault/Single/SingleOrDefault/Last/LastOrDefault
// collapse q to at most one row. First/Single panic-equivalents are
// left to the execute layer; these DSL names only shape the SQL.
func (q Queryable[T]) First() Queryable[T]           { return q }
func (q Queryable[T]) FirstOrDefault() Queryable[T]  { return q }
func (q Queryable[T]) Single() Queryable[T]          { return q }
func (q Queryable[T]) SingleOrDefault() Queryable[T] { return q }
func (q Queryable[T]) Last() Queryable[T]            { return q }
func (q Queryable[T]) LastOrDefault() Queryable[T]   { return q }

// ToArray materializes the result set; it has no effect on the SQL
// shape and exists only to mark a builder chain's terminal call.
func (q Queryable[T]) ToArray() Queryable[T] { return q }

// Insertable/Updatable/Deletable are the DML analogues of Queryable,
// carried as distinct phantom types so a builder lambda's declared
// return type alone documents which statement kind it produces.
type Insertable[T any] struct{ _ [0]T }
type Updatable[T any] struct{ _ [0]T }
type Deletable[T any] struct{ _ [0]T }

func (Insertable[T]) Insert(table string, values map[string]any) Insertable[T] { return Insertable[T]{} }
func (Updatable[T]) Update(table string) Updatable[T]                         { return Updatable[T]{} }
func (q Updatable[T]) Set(values map[string]any) Updatable[T]                 { return q }
func (q Updatable[T]) Where(predicate func(T) bool) Updatable[T]              { return q }
func (Deletable[T]) Delete(table string) Deletable[T]                         { return Deletable[T]{} }
func (q Deletable[T]) Where(predicate func(T) bool) Deletable[T]              { return q }
