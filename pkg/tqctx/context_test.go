package tqctx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fj1981/tinqer/pkg/tqctx"
)

func TestAssignAlias_MintsInEncounterOrder(t *testing.T) {
	ctx := tqctx.New()
	require.Equal(t, "t0", ctx.AssignAlias("users"))
	require.Equal(t, "t1", ctx.AssignAlias("orders"))
	require.Equal(t, "t0", ctx.AssignAlias("users"), "re-assigning a known table returns its existing alias")
	require.Equal(t, []string{"users", "orders"}, ctx.KnownTables())
}

func TestRequiresAlias_FalseForSingleTable(t *testing.T) {
	ctx := tqctx.New()
	ctx.AssignAlias("users")
	require.False(t, ctx.RequiresAlias())
}

func TestRequiresAlias_TrueForMultipleTables(t *testing.T) {
	ctx := tqctx.New()
	ctx.AssignAlias("users")
	ctx.AssignAlias("orders")
	require.True(t, ctx.RequiresAlias())
}

func TestNewAutoParam_MintsSequentialNames(t *testing.T) {
	ctx := tqctx.New()
	p1 := ctx.NewAutoParam("alice")
	p2 := ctx.NewAutoParam(42)
	require.Equal(t, "__p1", p1)
	require.Equal(t, "__p2", p2)
	require.Equal(t, []string{"__p1", "__p2"}, ctx.AutoParamNames())
	require.Equal(t, "alice", ctx.AutoParams()["__p1"])
}

func TestLookup_ReturnsMostRecentBindingForName(t *testing.T) {
	ctx := tqctx.New()
	ctx.PushBinding(tqctx.Binding{Name: "u", Origin: tqctx.OriginQuery})
	ctx.PushBinding(tqctx.Binding{Name: "u", Origin: tqctx.OriginTable})

	b, ok := ctx.Lookup("u")
	require.True(t, ok)
	require.Equal(t, tqctx.OriginTable, b.Origin)
}

func TestClone_IsIndependentOfOriginal(t *testing.T) {
	ctx := tqctx.New()
	ctx.AssignAlias("users")
	ctx.NewAutoParam("alice")

	clone := ctx.Clone()
	clone.AssignAlias("orders")
	clone.NewAutoParam("bob")

	require.Equal(t, []string{"users"}, ctx.KnownTables())
	require.Equal(t, []string{"users", "orders"}, clone.KnownTables())
	require.Len(t, ctx.AutoParams(), 1)
	require.Len(t, clone.AutoParams(), 2)
}

func TestDistinctTables(t *testing.T) {
	require.True(t, tqctx.DistinctTables([]string{"users", "orders"}))
	require.False(t, tqctx.DistinctTables([]string{"users", "users"}))
}
