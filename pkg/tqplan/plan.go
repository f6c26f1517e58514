// Package tqplan implements plan handles: a stateful wrapper over a
// cached compile result that lets a caller extend a query
// programmatically (chain another Where/OrderBy/...) without mutating
// the cached plan shared by every other caller of the same builder
// source.
//
// Follows a small-struct-wrapping-a-shared-resource pattern: enough
// local state to act on the resource independently, here specialised
// to "clone the context, and build new operation nodes over the cached
// tree instead of mutating it".
package tqplan

import (
	"github.com/fj1981/tinqer/pkg/tqctx"
	"github.com/fj1981/tinqer/pkg/tqir"
)

// Handle is a mutable, per-call view over a cached plan. Extend
// operations replace Op with a new node wrapping the previous one;
// Ctx is cloned from the cache entry so auto-parameter minting and
// alias assignment made while extending never leak back into the
// cached original.
type Handle struct {
	Op  tqir.Op
	Ctx *tqctx.Context
}

// New wraps op/ctx into a fresh Handle. Ctx is cloned so the caller can
// mutate it freely.
func New(op tqir.Op, ctx *tqctx.Context) *Handle {
	return &Handle{Op: op, Ctx: ctx.Clone()}
}

// Where further filters the plan by predicate, in addition to any
// filter already present.
func (h *Handle) Where(predicate tqir.BoolExpr) *Handle {
	h.Op = &tqir.Where{Source: h.Op, Predicate: predicate}
	return h
}

// OrderBy appends an ordering key to the plan.
func (h *Handle) OrderBy(key tqir.Expr, descending bool) *Handle {
	if existing, ok := h.Op.(*tqir.OrderBy); ok {
		// Copy rather than append in place: existing may be the cached
		// plan's node or shared with a Snapshot.
		keys := append(append([]tqir.OrderKey(nil), existing.Keys...), tqir.OrderKey{Key: key, Descending: descending})
		h.Op = &tqir.OrderBy{Source: existing.Source, Keys: keys}
		return h
	}
	h.Op = &tqir.OrderBy{Source: h.Op, Keys: []tqir.OrderKey{{Key: key, Descending: descending}}}
	return h
}

// Take wraps the plan in a row-count limit.
func (h *Handle) Take(count tqir.Expr) *Handle {
	h.Op = &tqir.Take{Source: h.Op, Count: count}
	return h
}

// Skip wraps the plan in a row-count offset.
func (h *Handle) Skip(count tqir.Expr) *Handle {
	h.Op = &tqir.Skip{Source: h.Op, Count: count}
	return h
}

// Snapshot returns an independent copy of the handle's current state,
// so a caller can branch two different extensions from the same point
// without either mutating the other.
func (h *Handle) Snapshot() *Handle {
	return &Handle{Op: h.Op, Ctx: h.Ctx.Clone()}
}
