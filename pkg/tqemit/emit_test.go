package tqemit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fj1981/tinqer/pkg/tqctx"
	"github.com/fj1981/tinqer/pkg/tqemit"
	"github.com/fj1981/tinqer/pkg/tqemit/mysql"
	"github.com/fj1981/tinqer/pkg/tqemit/postgres"
	"github.com/fj1981/tinqer/pkg/tqemit/sqlite"
	"github.com/fj1981/tinqer/pkg/tqir"
)

func joinedOp() (tqir.Op, *tqctx.Context) {
	ctx := tqctx.New()
	ctx.AssignAlias("users")
	ctx.AssignAlias("orders")
	op := &tqir.Select{
		Source: &tqir.Join{
			Source:    &tqir.From{Table: "users", Alias: "t0"},
			Kind:      tqir.JoinInner,
			Table:     "orders",
			Alias:     "t1",
			SourceKey: &tqir.Column{Name: "ID", Table: "t0"},
			TargetKey: &tqir.Column{Name: "UserID", Table: "t1"},
		},
		Projection: &tqir.Object{Properties: []tqir.ObjectProp{
			{Name: "id", Value: &tqir.Column{Name: "ID", Table: "t0"}},
		}},
	}
	return op, ctx
}

func TestEmit_JoinPostgres(t *testing.T) {
	op, ctx := joinedOp()
	result, err := tqemit.Emit(postgres.New(), ctx, op)
	require.NoError(t, err)
	require.Equal(t,
		`SELECT "t0"."ID" AS "id" FROM "users" AS "t0" INNER JOIN "orders" AS "t1" ON "t0"."ID" = "t1"."UserID"`,
		result.SQL)
}

func TestEmit_TakeSkipPagination(t *testing.T) {
	ctx := tqctx.New()
	op := &tqir.Skip{
		Source: &tqir.Take{Source: &tqir.From{Table: "users"}, Count: &tqir.Constant{Value: int64(10)}},
		Count:  &tqir.Constant{Value: int64(5)},
	}

	pg, err := tqemit.Emit(postgres.New(), ctx, op)
	require.NoError(t, err)
	require.Equal(t, `SELECT * FROM "users" LIMIT 10 OFFSET 5`, pg.SQL)

	lite, err := tqemit.Emit(sqlite.New(), ctx, &tqir.Skip{Source: &tqir.From{Table: "users"}, Count: &tqir.Constant{Value: int64(5)}})
	require.NoError(t, err)
	require.Equal(t, `SELECT * FROM "users" LIMIT -1 OFFSET 5`, lite.SQL)

	my, err := tqemit.Emit(mysql.New(), ctx, &tqir.Skip{Source: &tqir.From{Table: "users"}, Count: &tqir.Constant{Value: int64(5)}})
	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM `users` LIMIT 18446744073709551615 OFFSET 5", my.SQL)
}

func TestEmit_DeleteWithoutPredicateErrors(t *testing.T) {
	ctx := tqctx.New()
	_, err := tqemit.Emit(postgres.New(), ctx, &tqir.Delete{Table: "users"})
	require.Error(t, err)
}

func TestEmit_BooleanMethods(t *testing.T) {
	ctx := tqctx.New()
	op := &tqir.Where{
		Source: &tqir.From{Table: "users"},
		Predicate: &tqir.BooleanMethod{
			Object: &tqir.Column{Name: "Name"},
			Method: "startsWith",
			Args:   []tqir.Expr{&tqir.Param{Name: "__p1"}},
		},
	}
	result, err := tqemit.Emit(postgres.New(), ctx, op)
	require.NoError(t, err)
	require.Equal(t, `SELECT * FROM "users" WHERE "Name" LIKE $(__p1) || '%'`, result.SQL)
}

func TestEmit_MySQLTracksParamOrder(t *testing.T) {
	ctx := tqctx.New()
	ctx.NewAutoParam("alice")
	ctx.NewAutoParam(int64(18))
	op := &tqir.Where{
		Source: &tqir.From{Table: "users"},
		Predicate: &tqir.Logical{
			Op:   "&&",
			Left: &tqir.Comparison{Op: "==", Left: &tqir.Column{Name: "Name"}, Right: &tqir.Param{Name: "__p1"}},
			Right: &tqir.Comparison{Op: ">", Left: &tqir.Column{Name: "Age"}, Right: &tqir.Param{Name: "__p2"}},
		},
	}
	result, err := tqemit.Emit(mysql.New(), ctx, op)
	require.NoError(t, err)
	require.Equal(t, []string{"__p1", "__p2"}, result.ParamOrder)
	require.Equal(t, "SELECT * FROM `users` WHERE (`Name` = ? AND `Age` > ?)", result.SQL)
}

func TestEmit_SQLiteArrayMembership(t *testing.T) {
	ctx := tqctx.New()
	op := &tqir.Where{
		Source:    &tqir.From{Table: "users"},
		Predicate: &tqir.In{Value: &tqir.Column{Name: "ID"}, List: &tqir.Param{Name: "__p1"}},
	}
	result, err := tqemit.Emit(sqlite.New(), ctx, op)
	require.NoError(t, err)
	require.Equal(t, `SELECT * FROM "users" WHERE "ID" IN (`+tqemit.ArraySentinel("__p1")+`)`, result.SQL)

	sql, params, _, err := tqemit.ExpandArrays(sqlite.New(), result.SQL, map[string]any{"__p1": []int64{1, 3, 5}}, nil)
	require.NoError(t, err)
	require.Equal(t, `SELECT * FROM "users" WHERE "ID" IN (@__p1_0, @__p1_1, @__p1_2)`, sql)
	require.Equal(t, map[string]any{"__p1_0": int64(1), "__p1_1": int64(3), "__p1_2": int64(5)}, params)
}

func TestEmit_MySQLArrayMembershipRewritesParamOrder(t *testing.T) {
	ctx := tqctx.New()
	op := &tqir.Where{
		Source:    &tqir.From{Table: "users"},
		Predicate: &tqir.In{Value: &tqir.Column{Name: "ID"}, List: &tqir.Param{Name: "__p1"}},
	}
	result, err := tqemit.Emit(mysql.New(), ctx, op)
	require.NoError(t, err)

	sql, _, order, err := tqemit.ExpandArrays(mysql.New(), result.SQL, map[string]any{"__p1": []int64{1, 3}}, result.ParamOrder)
	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM `users` WHERE `ID` IN (?, ?)", sql)
	require.Equal(t, []string{"__p1_0", "__p1_1"}, order)
}

func TestEmit_CountTerminal(t *testing.T) {
	ctx := tqctx.New()
	op := &tqir.Terminal{Source: &tqir.From{Table: "users"}, Kind: "Count"}
	result, err := tqemit.Emit(postgres.New(), ctx, op)
	require.NoError(t, err)
	require.Equal(t, `SELECT COUNT(*) FROM "users"`, result.SQL)
}

func TestEmit_SumTerminal(t *testing.T) {
	ctx := tqctx.New()
	op := &tqir.Terminal{Source: &tqir.From{Table: "orders"}, Kind: "Sum", Selector: &tqir.Column{Name: "Total"}}
	result, err := tqemit.Emit(postgres.New(), ctx, op)
	require.NoError(t, err)
	require.Equal(t, `SELECT SUM("Total") FROM "orders"`, result.SQL)
}

func TestEmit_FirstTerminalAppendsLimit(t *testing.T) {
	ctx := tqctx.New()
	op := &tqir.Terminal{Source: &tqir.From{Table: "users"}, Kind: "First"}
	result, err := tqemit.Emit(postgres.New(), ctx, op)
	require.NoError(t, err)
	require.Equal(t, `SELECT * FROM "users" LIMIT 1`, result.SQL)
}

func TestEmit_SingleTerminalAppendsLimitTwo(t *testing.T) {
	ctx := tqctx.New()
	op := &tqir.Terminal{Source: &tqir.From{Table: "users"}, Kind: "Single"}
	result, err := tqemit.Emit(postgres.New(), ctx, op)
	require.NoError(t, err)
	require.Equal(t, `SELECT * FROM "users" LIMIT 2`, result.SQL)
}

func TestEmit_LastTerminalInvertsOrderAndAppendsSentinel(t *testing.T) {
	ctx := tqctx.New()
	withOrder := &tqir.Terminal{
		Kind: "Last",
		Source: &tqir.OrderBy{
			Source: &tqir.From{Table: "users"},
			Keys:   []tqir.OrderKey{{Key: &tqir.Column{Name: "Name"}}},
		},
	}
	result, err := tqemit.Emit(postgres.New(), ctx, withOrder)
	require.NoError(t, err)
	require.Equal(t, `SELECT * FROM "users" ORDER BY "Name" DESC LIMIT 1`, result.SQL)

	withoutOrder := &tqir.Terminal{Kind: "Last", Source: &tqir.From{Table: "users"}}
	result, err = tqemit.Emit(postgres.New(), ctx, withoutOrder)
	require.NoError(t, err)
	require.Equal(t, `SELECT * FROM "users" ORDER BY 1 DESC LIMIT 1`, result.SQL)
}

func TestEmit_AnyTerminal(t *testing.T) {
	ctx := tqctx.New()
	op := &tqir.Terminal{
		Source: &tqir.From{Table: "users"},
		Kind:   "Any",
		Predicate: &tqir.Comparison{
			Op: "==", Left: &tqir.Column{Name: "Active"}, Right: &tqir.Param{Name: "__p1"},
		},
	}
	result, err := tqemit.Emit(postgres.New(), ctx, op)
	require.NoError(t, err)
	require.Equal(t, `SELECT CASE WHEN EXISTS (SELECT 1 FROM "users" WHERE "Active" = $(__p1)) THEN 1 ELSE 0 END`, result.SQL)
}

func TestEmit_AllTerminalNegatesPredicate(t *testing.T) {
	ctx := tqctx.New()
	op := &tqir.Terminal{
		Source: &tqir.From{Table: "users"},
		Kind:   "All",
		Predicate: &tqir.Comparison{
			Op: "==", Left: &tqir.Column{Name: "Active"}, Right: &tqir.Param{Name: "__p1"},
		},
	}
	result, err := tqemit.Emit(postgres.New(), ctx, op)
	require.NoError(t, err)
	require.Equal(t, `SELECT CASE WHEN NOT EXISTS (SELECT 1 FROM "users" WHERE NOT ("Active" = $(__p1))) THEN 1 ELSE 0 END`, result.SQL)
}

func TestEmit_UnionCombinesTwoCompleteStatements(t *testing.T) {
	ctx := tqctx.New()
	op := &tqir.Union{
		First:  &tqir.From{Table: "active_users"},
		Second: &tqir.From{Table: "archived_users"},
	}
	result, err := tqemit.Emit(postgres.New(), ctx, op)
	require.NoError(t, err)
	require.Equal(t, `SELECT * FROM "active_users" UNION SELECT * FROM "archived_users"`, result.SQL)
}

func TestEmit_GroupByDefaultProjection(t *testing.T) {
	ctx := tqctx.New()
	op := &tqir.GroupBy{
		Source: &tqir.From{Table: "orders"},
		Keys:   []tqir.GroupKey{{Name: "customerId", Key: &tqir.Column{Name: "CustomerID"}}},
	}
	result, err := tqemit.Emit(postgres.New(), ctx, op)
	require.NoError(t, err)
	require.Equal(t, `SELECT "CustomerID" AS "customerId" FROM "orders" GROUP BY "CustomerID"`, result.SQL)
}
