// Package tqnorm applies pure IR-level rewrites before emission:
// wrapping a window-function reference that appears in a later
// WHERE clause in a derived subquery (since SQL forbids filtering
// directly on a window function in the same SELECT level). JOIN alias
// assignment happens inline in tqctx/tqop instead (see DESIGN.md); this
// package holds the one rewrite that genuinely needs a post-build tree
// walk.
//
// Written in a plain, single-purpose-function style: small top-level
// helpers rather than a stateful rewriter object.
package tqnorm

import "github.com/fj1981/tinqer/pkg/tqir"

// Normalize walks op and returns a rewritten tree ready for emission.
// It is idempotent: normalizing an already-normalized tree is a no-op.
func Normalize(op tqir.Op) tqir.Op {
	op = wrapWindowFilters(op)
	return op
}

// wrapWindowFilters looks for a Where whose predicate
// references a column alias that a descendant Select introduced via a
// WindowFunction, and if found wraps the window-producing Select in a
// synthetic derived-table Select so the filter can reference the
// window's output column by name. SQL only allows filtering on a window
// function's output from an outer query level, never the level that
// produced it. A GroupBy's Having predicate is not checked.
func wrapWindowFilters(op tqir.Op) tqir.Op {
	switch node := op.(type) {
	case *tqir.Where:
		node.Source = wrapWindowFilters(node.Source)
		if aliases := windowAliasesIn(node.Source); len(aliases) > 0 && referencesAny(node.Predicate, aliases) {
			return &tqir.Where{Source: &tqir.Select{Source: node.Source, Projection: &tqir.AllColumns{}}, Predicate: node.Predicate}
		}
		return node
	case *tqir.Select:
		node.Source = wrapWindowFilters(node.Source)
		return node
	case *tqir.Join:
		node.Source = wrapWindowFilters(node.Source)
		return node
	case *tqir.GroupBy:
		node.Source = wrapWindowFilters(node.Source)
		return node
	case *tqir.OrderBy:
		node.Source = wrapWindowFilters(node.Source)
		return node
	case *tqir.Distinct:
		node.Source = wrapWindowFilters(node.Source)
		return node
	case *tqir.Take:
		node.Source = wrapWindowFilters(node.Source)
		return node
	case *tqir.Skip:
		node.Source = wrapWindowFilters(node.Source)
		return node
	case *tqir.Terminal:
		node.Source = wrapWindowFilters(node.Source)
		return node
	case *tqir.Reverse:
		node.Source = wrapWindowFilters(node.Source)
		return node
	case *tqir.Union:
		node.First = wrapWindowFilters(node.First)
		node.Second = wrapWindowFilters(node.Second)
		return node
	default:
		return op
	}
}

// windowAliasesIn collects the aliases of any WindowFunction projected
// by the nearest enclosing Select.
func windowAliasesIn(op tqir.Op) []string {
	sel, ok := op.(*tqir.Select)
	if !ok {
		return nil
	}
	obj, ok := sel.Projection.(*tqir.Object)
	if !ok {
		return nil
	}
	var aliases []string
	for _, p := range obj.Properties {
		if win, ok := p.Value.(*tqir.WindowFunction); ok {
			aliases = append(aliases, win.Alias)
			_ = win
		}
	}
	return aliases
}

func referencesAny(pred tqir.BoolExpr, aliases []string) bool {
	switch p := pred.(type) {
	case *tqir.Comparison:
		return exprReferencesAny(p.Left, aliases) || exprReferencesAny(p.Right, aliases)
	case *tqir.Logical:
		return referencesAny(p.Left, aliases) || referencesAny(p.Right, aliases)
	case *tqir.Not:
		return referencesAny(p.Expr, aliases)
	case *tqir.IsNull:
		return exprReferencesAny(p.Expr, aliases)
	default:
		return false
	}
}

func exprReferencesAny(e tqir.Expr, aliases []string) bool {
	col, ok := e.(*tqir.Column)
	if !ok {
		return false
	}
	for _, a := range aliases {
		if col.Name == a {
			return true
		}
	}
	return false
}
