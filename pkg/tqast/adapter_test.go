package tqast_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fj1981/tinqer/pkg/tqast"
)

func TestParse_SimpleComparison(t *testing.T) {
	fn, err := tqast.Parse(`func(u User) bool { return u.Age > 18 }`)
	require.NoError(t, err)
	require.Equal(t, []string{"u"}, fn.Params)

	bin, ok := fn.Body.(*tqast.BinaryExpression)
	require.True(t, ok, "expected a BinaryExpression body")
	require.Equal(t, ">", bin.Operator)

	member, ok := bin.Left.(*tqast.MemberExpression)
	require.True(t, ok)
	require.Equal(t, "Age", member.Property)

	lit, ok := bin.Right.(*tqast.Literal)
	require.True(t, ok)
	require.Equal(t, "number", lit.Kind)
}

func TestParse_LogicalExpression(t *testing.T) {
	fn, err := tqast.Parse(`func(u User) bool { return u.Age > 18 && u.Active }`)
	require.NoError(t, err)

	logical, ok := fn.Body.(*tqast.LogicalExpression)
	require.True(t, ok)
	require.Equal(t, "&&", logical.Operator)
}

func TestParse_NullComparison(t *testing.T) {
	fn, err := tqast.Parse(`func(u User) bool { return u.DeletedAt == nil }`)
	require.NoError(t, err)

	bin, ok := fn.Body.(*tqast.BinaryExpression)
	require.True(t, ok)
	lit, ok := bin.Right.(*tqast.Literal)
	require.True(t, ok)
	require.Equal(t, "null", lit.Kind)
}

func TestParse_Cond(t *testing.T) {
	fn, err := tqast.Parse(`func(u User) string { return Cond(u.Active, "yes", "no") }`)
	require.NoError(t, err)

	cond, ok := fn.Body.(*tqast.ConditionalExpression)
	require.True(t, ok)
	require.NotNil(t, cond.Test)
	require.NotNil(t, cond.Consequent)
	require.NotNil(t, cond.Alternate)
}

func TestParse_ObjectLiteralProjection(t *testing.T) {
	fn, err := tqast.Parse(`func(u User) any { return map[string]any{"id": u.ID, "name": u.Name} }`)
	require.NoError(t, err)

	obj, ok := fn.Body.(*tqast.ObjectExpression)
	require.True(t, ok)
	require.Len(t, obj.Properties, 2)
	require.Equal(t, "id", obj.Properties[0].Key)
}

func TestParse_RejectsMultiStatementBody(t *testing.T) {
	_, err := tqast.Parse(`func(u User) bool { x := u.Age; return x > 18 }`)
	require.Error(t, err)
}

func TestParse_RejectsNonFunctionLiteral(t *testing.T) {
	_, err := tqast.Parse(`42`)
	require.Error(t, err)
}
