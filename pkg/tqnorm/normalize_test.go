package tqnorm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fj1981/tinqer/pkg/tqir"
	"github.com/fj1981/tinqer/pkg/tqnorm"
)

func windowSelect() *tqir.Select {
	return &tqir.Select{
		Source: &tqir.From{Table: "events"},
		Projection: &tqir.Object{Properties: []tqir.ObjectProp{
			{Name: "id", Value: &tqir.Column{Name: "id"}},
			{Name: "rn", Value: &tqir.WindowFunction{Function: "ROW_NUMBER", Alias: "rn"}},
		}},
	}
}

func TestNormalize_WrapsWhereFilteringOnWindowAlias(t *testing.T) {
	op := &tqir.Where{
		Source:    windowSelect(),
		Predicate: &tqir.Comparison{Op: "==", Left: &tqir.Column{Name: "rn"}, Right: &tqir.Constant{Value: int64(1)}},
	}

	normalized := tqnorm.Normalize(op)
	where, ok := normalized.(*tqir.Where)
	require.True(t, ok)
	outer, ok := where.Source.(*tqir.Select)
	require.True(t, ok)
	_, isAllColumns := outer.Projection.(*tqir.AllColumns)
	require.True(t, isAllColumns, "the synthetic outer Select wrapping the window source must project *")
	_, innerIsWindowSelect := outer.Source.(*tqir.Select)
	require.True(t, innerIsWindowSelect)
}

func TestNormalize_LeavesOrdinaryWhereUnwrapped(t *testing.T) {
	op := &tqir.Where{
		Source:    &tqir.From{Table: "users"},
		Predicate: &tqir.Comparison{Op: ">", Left: &tqir.Column{Name: "Age"}, Right: &tqir.Constant{Value: int64(1)}},
	}

	normalized := tqnorm.Normalize(op)
	where, ok := normalized.(*tqir.Where)
	require.True(t, ok)
	_, ok = where.Source.(*tqir.From)
	require.True(t, ok, "a predicate that doesn't reference a window alias must not be wrapped")
}

func TestNormalize_IsIdempotent(t *testing.T) {
	op := &tqir.Where{
		Source:    windowSelect(),
		Predicate: &tqir.Comparison{Op: "==", Left: &tqir.Column{Name: "rn"}, Right: &tqir.Constant{Value: int64(1)}},
	}

	once := tqnorm.Normalize(op)
	twice := tqnorm.Normalize(once)

	onceWhere := once.(*tqir.Where)
	twiceWhere := twice.(*tqir.Where)
	_, onceOuterIsAllColumns := onceWhere.Source.(*tqir.Select).Projection.(*tqir.AllColumns)
	_, twiceOuterIsAllColumns := twiceWhere.Source.(*tqir.Select).Projection.(*tqir.AllColumns)
	require.True(t, onceOuterIsAllColumns)
	require.True(t, twiceOuterIsAllColumns)
}
