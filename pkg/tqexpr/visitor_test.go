package tqexpr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fj1981/tinqer/pkg/tqast"
	"github.com/fj1981/tinqer/pkg/tqctx"
	"github.com/fj1981/tinqer/pkg/tqexpr"
	"github.com/fj1981/tinqer/pkg/tqir"
)

func parseBool(t *testing.T, src string) (tqir.BoolExpr, *tqctx.Context) {
	t.Helper()
	fn, err := tqast.Parse(src)
	require.NoError(t, err)
	ctx := tqctx.New()
	for _, p := range fn.Params {
		ctx.PushBinding(tqctx.Binding{Name: p, Origin: tqctx.OriginTable})
	}
	v := tqexpr.New(ctx)
	b, err := v.Bool(fn.Body)
	require.NoError(t, err)
	return b, ctx
}

func TestVisitor_ComparisonAgainstNullBecomesIsNull(t *testing.T) {
	b, _ := parseBool(t, `func(u User) bool { return u.DeletedAt == nil }`)
	isNull, ok := b.(*tqir.IsNull)
	require.True(t, ok)
	require.False(t, isNull.Negated)
}

func TestVisitor_NotEqualNullIsNegatedIsNull(t *testing.T) {
	b, _ := parseBool(t, `func(u User) bool { return u.DeletedAt != nil }`)
	isNull, ok := b.(*tqir.IsNull)
	require.True(t, ok)
	require.True(t, isNull.Negated)
}

func TestVisitor_StringLiteralMintsAutoParam(t *testing.T) {
	b, ctx := parseBool(t, `func(u User) bool { return u.Name == "alice" }`)
	cmp, ok := b.(*tqir.Comparison)
	require.True(t, ok)
	param, ok := cmp.Right.(*tqir.Param)
	require.True(t, ok)
	require.Equal(t, "__p1", param.Name)
	require.Equal(t, "alice", ctx.AutoParams()["__p1"])
}

func TestVisitor_IntegerLiteralMintsAutoParam(t *testing.T) {
	b, ctx := parseBool(t, `func(u User) bool { return u.Status == 1 }`)
	cmp, ok := b.(*tqir.Comparison)
	require.True(t, ok)
	param, ok := cmp.Right.(*tqir.Param)
	require.True(t, ok, "every literal in a comparison is auto-parameterized, including small integers")
	require.Equal(t, int64(1), ctx.AutoParams()[param.Name])
}

func TestVisitor_ArrayIncludesOnQueryParamBecomesIn(t *testing.T) {
	fn, err := tqast.Parse(`func(u User) bool { return q.ids.includes(u.ID) }`)
	require.NoError(t, err)
	ctx := tqctx.New()
	ctx.PushBinding(tqctx.Binding{Name: "q", Origin: tqctx.OriginQuery})
	ctx.PushBinding(tqctx.Binding{Name: "u", Origin: tqctx.OriginTable})
	v := tqexpr.New(ctx)
	b, err := v.Bool(fn.Body)
	require.NoError(t, err)
	in, ok := b.(*tqir.In)
	require.True(t, ok)
	param, ok := in.List.(*tqir.Param)
	require.True(t, ok)
	require.Equal(t, "ids", param.Property)
}

func TestVisitor_StartsWithBecomesBooleanMethod(t *testing.T) {
	b, _ := parseBool(t, `func(u User) bool { return u.Name.startsWith("A") }`)
	method, ok := b.(*tqir.BooleanMethod)
	require.True(t, ok)
	require.Equal(t, "startsWith", method.Method)
}

func TestVisitor_LogicalAndOfTwoComparisons(t *testing.T) {
	b, _ := parseBool(t, `func(u User) bool { return u.Age > 18 && u.Active }`)
	logical, ok := b.(*tqir.Logical)
	require.True(t, ok)
	require.Equal(t, "&&", logical.Op)
	_, ok = logical.Left.(*tqir.Comparison)
	require.True(t, ok)
	_, ok = logical.Right.(*tqir.BooleanColumn)
	require.True(t, ok)
}
