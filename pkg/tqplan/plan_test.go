package tqplan_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fj1981/tinqer/pkg/tqctx"
	"github.com/fj1981/tinqer/pkg/tqir"
	"github.com/fj1981/tinqer/pkg/tqplan"
)

func TestHandle_WhereWrapsSource(t *testing.T) {
	ctx := tqctx.New()
	h := tqplan.New(&tqir.From{Table: "users"}, ctx)
	h.Where(&tqir.BooleanConstant{Value: true})

	where, ok := h.Op.(*tqir.Where)
	require.True(t, ok)
	_, ok = where.Source.(*tqir.From)
	require.True(t, ok)
}

func TestHandle_OrderByAppendsToExistingOrderBy(t *testing.T) {
	ctx := tqctx.New()
	h := tqplan.New(&tqir.From{Table: "users"}, ctx)
	h.OrderBy(&tqir.Column{Name: "Name"}, false)
	h.OrderBy(&tqir.Column{Name: "Age"}, true)

	orderBy, ok := h.Op.(*tqir.OrderBy)
	require.True(t, ok)
	require.Len(t, orderBy.Keys, 2)
	require.True(t, orderBy.Keys[1].Descending)
}

func TestHandle_SnapshotBranchesIndependently(t *testing.T) {
	ctx := tqctx.New()
	ctx.AssignAlias("users")
	base := tqplan.New(&tqir.From{Table: "users"}, ctx)

	branchA := base.Snapshot()
	branchA.Take(&tqir.Constant{Value: int64(10)})

	branchB := base.Snapshot()
	branchB.Skip(&tqir.Constant{Value: int64(5)})

	_, aIsTake := branchA.Op.(*tqir.Take)
	require.True(t, aIsTake)
	_, bIsSkip := branchB.Op.(*tqir.Skip)
	require.True(t, bIsSkip)
	_, baseUnchanged := base.Op.(*tqir.From)
	require.True(t, baseUnchanged, "Snapshot must not let a branch's extension mutate the original handle")
}

func TestNew_ClonesContext(t *testing.T) {
	ctx := tqctx.New()
	ctx.NewAutoParam("alice")
	h := tqplan.New(&tqir.From{Table: "users"}, ctx)
	h.Ctx.NewAutoParam("bob")

	require.Len(t, ctx.AutoParams(), 1, "tqplan.New must clone ctx so a handle's extensions never leak into the caller's context")
	require.Len(t, h.Ctx.AutoParams(), 2)
}
