// Package tqop turns the method-chain shape of a builder lambda's body
// (`q.From("users").Where(...).OrderBy(...).Select(...)`) into a
// tqir.Op tree, one function per DSL method.
//
// Follows a chained-mutation vocabulary (Where/GroupBy/OrderBy/Join/...)
// recognised here from an AST chain instead of invoked as direct Go
// method calls on a builder struct.
package tqop

import (
	"fmt"

	"github.com/fj1981/tinqer/pkg/tqast"
	"github.com/fj1981/tinqer/pkg/tqctx"
	"github.com/fj1981/tinqer/pkg/tqexpr"
	"github.com/fj1981/tinqer/pkg/tqir"
)

// Build walks a builder lambda's body chain into an operation tree. The
// lambda's single parameter is bound as the query root; From(table)
// must be the innermost call in the chain.
func Build(ctx *tqctx.Context, fn *tqast.ArrowFunction) (tqir.Op, error) {
	if len(fn.Params) != 1 {
		return nil, fmt.Errorf("tqop: query builder lambda must take exactly one parameter")
	}
	ctx.PushBinding(tqctx.Binding{Name: fn.Params[0], Origin: tqctx.OriginQuery})
	b := &builder{ctx: ctx, visitor: tqexpr.New(ctx)}
	return b.walk(fn.Body)
}

type builder struct {
	ctx     *tqctx.Context
	visitor *tqexpr.Visitor
}

func (b *builder) walk(n tqast.Node) (tqir.Op, error) {
	call, ok := n.(*tqast.CallExpression)
	if !ok {
		return nil, fmt.Errorf("tqop: expected a method call, got %T", n)
	}
	member, ok := call.Callee.(*tqast.MemberExpression)
	if !ok {
		return nil, fmt.Errorf("tqop: expected a method call on the query root")
	}

	switch member.Property {
	case "From":
		return b.from(call)
	case "Where":
		return b.where(call, member)
	case "Join", "LeftJoin", "FullJoin":
		return b.join(call, member)
	case "GroupBy":
		return b.groupBy(call, member)
	case "Having":
		return b.having(call, member)
	case "OrderBy", "OrderByDescending", "ThenBy", "ThenByDescending":
		return b.orderBy(call, member)
	case "Select":
		return b.selectOp(call, member)
	case "Distinct":
		source, err := b.walk(member.Object)
		if err != nil {
			return nil, err
		}
		return &tqir.Distinct{Source: source}, nil
	case "Take":
		return b.limit(call, member, true)
	case "Skip":
		return b.limit(call, member, false)
	case "First", "FirstOrDefault", "Single", "SingleOrDefault", "Last", "LastOrDefault", "ToArray":
		source, err := b.walk(member.Object)
		if err != nil {
			return nil, err
		}
		return &tqir.Terminal{Source: source, Kind: member.Property}, nil
	case "Count", "Any":
		return b.predicateTerminal(call, member, false)
	case "All":
		return b.predicateTerminal(call, member, true)
	case "Sum", "Average", "Min", "Max":
		return b.aggregateTerminal(call, member)
	case "Contains":
		return b.containsTerminal(call, member)
	case "Reverse":
		source, err := b.walk(member.Object)
		if err != nil {
			return nil, err
		}
		return &tqir.Reverse{Source: source}, nil
	case "Union":
		source, err := b.walk(member.Object)
		if err != nil {
			return nil, err
		}
		if len(call.Arguments) != 1 {
			return nil, fmt.Errorf("tqop: Union(other) requires exactly one argument")
		}
		other, err := b.walk(call.Arguments[0])
		if err != nil {
			return nil, err
		}
		return &tqir.Union{First: source, Second: other}, nil
	case "GroupJoin":
		return b.join(call, member)
	case "SelectMany":
		source, err := b.walk(member.Object)
		if err != nil {
			return nil, err
		}
		if _, ok := source.(*tqir.Join); !ok {
			return nil, fmt.Errorf("tqop: SelectMany is only supported immediately after GroupJoin, as the left-join flattening idiom")
		}
		return source, nil
	case "Insert":
		return b.insert(call)
	case "Update":
		return b.update(call, member)
	case "Set":
		return b.set(call, member)
	case "Delete":
		return b.deleteOp(call, member)
	case "Returning":
		return b.returning(call, member)
	default:
		return nil, fmt.Errorf("tqop: unsupported builder method %q", member.Property)
	}
}

func (b *builder) from(call *tqast.CallExpression) (tqir.Op, error) {
	if len(call.Arguments) != 1 {
		return nil, fmt.Errorf("tqop: From(table) takes exactly one argument")
	}
	table, err := stringLiteral(call.Arguments[0])
	if err != nil {
		return nil, err
	}
	b.ctx.AssignAlias(table)
	return &tqir.From{Table: table}, nil
}

func (b *builder) lambdaArg(call *tqast.CallExpression, idx int) (*tqast.ArrowFunction, error) {
	if idx >= len(call.Arguments) {
		return nil, fmt.Errorf("tqop: missing lambda argument at position %d", idx)
	}
	fn, ok := call.Arguments[idx].(*tqast.ArrowFunction)
	if !ok {
		return nil, fmt.Errorf("tqop: argument at position %d must be a lambda", idx)
	}
	return fn, nil
}

func (b *builder) pushTableBindings(fn *tqast.ArrowFunction) {
	for _, p := range fn.Params {
		b.ctx.PushBinding(tqctx.Binding{Name: p, Origin: tqctx.OriginTable})
	}
}

func (b *builder) where(call *tqast.CallExpression, member *tqast.MemberExpression) (tqir.Op, error) {
	source, err := b.walk(member.Object)
	if err != nil {
		return nil, err
	}
	fn, err := b.lambdaArg(call, 0)
	if err != nil {
		return nil, err
	}
	b.pushTableBindings(fn)
	pred, err := b.visitor.Bool(fn.Body)
	if err != nil {
		return nil, err
	}
	switch op := source.(type) {
	case *tqir.Delete:
		op.Predicate = pred
		return op, nil
	case *tqir.Update:
		op.Predicate = pred
		return op, nil
	default:
		return &tqir.Where{Source: source, Predicate: pred}, nil
	}
}

func (b *builder) join(call *tqast.CallExpression, member *tqast.MemberExpression) (tqir.Op, error) {
	source, err := b.walk(member.Object)
	if err != nil {
		return nil, err
	}
	if len(call.Arguments) < 1 {
		return nil, fmt.Errorf("tqop: %s(table, ...) requires a table argument", member.Property)
	}
	table, err := stringLiteral(call.Arguments[0])
	if err != nil {
		return nil, err
	}
	alias := b.ctx.AssignAlias(table)

	kind := tqir.JoinInner
	switch member.Property {
	case "LeftJoin", "GroupJoin":
		kind = tqir.JoinLeft
	case "FullJoin":
		kind = tqir.JoinFull
	}

	var sourceKey, targetKey tqir.Expr
	if len(call.Arguments) >= 3 {
		sourceFn, err := b.lambdaArg(call, 1)
		if err != nil {
			return nil, err
		}
		b.pushTableBindings(sourceFn)
		sourceKey, err = b.visitor.Expr(sourceFn.Body)
		if err != nil {
			return nil, err
		}
		targetFn, err := b.lambdaArg(call, 2)
		if err != nil {
			return nil, err
		}
		b.pushTableBindings(targetFn)
		targetKey, err = b.visitor.Expr(targetFn.Body)
		if err != nil {
			return nil, err
		}
	}
	return &tqir.Join{Source: source, Kind: kind, Table: table, Alias: alias, SourceKey: sourceKey, TargetKey: targetKey}, nil
}

func (b *builder) groupBy(call *tqast.CallExpression, member *tqast.MemberExpression) (tqir.Op, error) {
	source, err := b.walk(member.Object)
	if err != nil {
		return nil, err
	}
	fn, err := b.lambdaArg(call, 0)
	if err != nil {
		return nil, err
	}
	b.pushTableBindings(fn)
	obj, ok := fn.Body.(*tqast.ObjectExpression)
	if !ok {
		return nil, fmt.Errorf("tqop: GroupBy lambda must return an object literal of keys")
	}
	keys := make([]tqir.GroupKey, 0, len(obj.Properties))
	for _, p := range obj.Properties {
		e, err := b.visitor.Expr(p.Value)
		if err != nil {
			return nil, err
		}
		keys = append(keys, tqir.GroupKey{Name: p.Key, Key: e})
	}
	b.ctx.PushBinding(tqctx.Binding{Name: "__group", Origin: tqctx.OriginGrouping})
	return &tqir.GroupBy{Source: source, Keys: keys}, nil
}

func (b *builder) having(call *tqast.CallExpression, member *tqast.MemberExpression) (tqir.Op, error) {
	source, err := b.walk(member.Object)
	if err != nil {
		return nil, err
	}
	groupBy, ok := source.(*tqir.GroupBy)
	if !ok {
		return nil, fmt.Errorf("tqop: Having must immediately follow GroupBy")
	}
	fn, err := b.lambdaArg(call, 0)
	if err != nil {
		return nil, err
	}
	b.pushTableBindings(fn)
	pred, err := b.visitor.Bool(fn.Body)
	if err != nil {
		return nil, err
	}
	groupBy.Having = pred
	return groupBy, nil
}

func (b *builder) orderBy(call *tqast.CallExpression, member *tqast.MemberExpression) (tqir.Op, error) {
	source, err := b.walk(member.Object)
	if err != nil {
		return nil, err
	}
	fn, err := b.lambdaArg(call, 0)
	if err != nil {
		return nil, err
	}
	b.pushTableBindings(fn)
	keyExpr, err := b.visitor.Expr(fn.Body)
	if err != nil {
		return nil, err
	}
	desc := member.Property == "OrderByDescending" || member.Property == "ThenByDescending"
	key := tqir.OrderKey{Key: keyExpr, Descending: desc}

	if member.Property == "ThenBy" || member.Property == "ThenByDescending" {
		existing, ok := source.(*tqir.OrderBy)
		if !ok {
			return nil, fmt.Errorf("tqop: ThenBy/ThenByDescending must follow an OrderBy chain")
		}
		existing.Keys = append(existing.Keys, key)
		return existing, nil
	}
	return &tqir.OrderBy{Source: source, Keys: []tqir.OrderKey{key}}, nil
}

func (b *builder) selectOp(call *tqast.CallExpression, member *tqast.MemberExpression) (tqir.Op, error) {
	source, err := b.walk(member.Object)
	if err != nil {
		return nil, err
	}
	fn, err := b.lambdaArg(call, 0)
	if err != nil {
		return nil, err
	}
	b.pushTableBindings(fn)
	projection, err := b.visitor.Expr(fn.Body)
	if err != nil {
		return nil, err
	}
	return &tqir.Select{Source: source, Projection: projection}, nil
}

func (b *builder) limit(call *tqast.CallExpression, member *tqast.MemberExpression, isTake bool) (tqir.Op, error) {
	source, err := b.walk(member.Object)
	if err != nil {
		return nil, err
	}
	if len(call.Arguments) != 1 {
		return nil, fmt.Errorf("tqop: %s(n) requires exactly one argument", member.Property)
	}
	count, err := b.visitor.Expr(call.Arguments[0])
	if err != nil {
		return nil, err
	}
	if isTake {
		return &tqir.Take{Source: source, Count: count}, nil
	}
	return &tqir.Skip{Source: source, Count: count}, nil
}

// predicateTerminal builds Count/Any (optional predicate) or All
// (mandatory predicate) terminals. The predicate, if present, is
// carried on the Terminal rather than folded into a wrapping Where, so
// the emitter can AND it in at the point it assembles the terminal's
// own SQL shape.
func (b *builder) predicateTerminal(call *tqast.CallExpression, member *tqast.MemberExpression, predicateRequired bool) (tqir.Op, error) {
	source, err := b.walk(member.Object)
	if err != nil {
		return nil, err
	}
	if predicateRequired && len(call.Arguments) == 0 {
		return nil, fmt.Errorf("tqop: %s(predicate) requires a predicate argument", member.Property)
	}
	var pred tqir.BoolExpr
	if len(call.Arguments) > 0 {
		fn, err := b.lambdaArg(call, 0)
		if err != nil {
			return nil, err
		}
		b.pushTableBindings(fn)
		pred, err = b.visitor.Bool(fn.Body)
		if err != nil {
			return nil, err
		}
	}
	return &tqir.Terminal{Source: source, Kind: member.Property, Predicate: pred}, nil
}

// aggregateTerminal builds Sum/Average/Min/Max, each requiring a
// selector lambda naming the column to aggregate.
func (b *builder) aggregateTerminal(call *tqast.CallExpression, member *tqast.MemberExpression) (tqir.Op, error) {
	source, err := b.walk(member.Object)
	if err != nil {
		return nil, err
	}
	fn, err := b.lambdaArg(call, 0)
	if err != nil {
		return nil, err
	}
	b.pushTableBindings(fn)
	selector, err := b.visitor.Expr(fn.Body)
	if err != nil {
		return nil, err
	}
	return &tqir.Terminal{Source: source, Kind: member.Property, Selector: selector}, nil
}

// containsTerminal builds Contains(value): an existence check against
// the single column a preceding Select named. value is evaluated in
// the outer (query-parameter) scope, not per row.
func (b *builder) containsTerminal(call *tqast.CallExpression, member *tqast.MemberExpression) (tqir.Op, error) {
	source, err := b.walk(member.Object)
	if err != nil {
		return nil, err
	}
	if len(call.Arguments) != 1 {
		return nil, fmt.Errorf("tqop: Contains(value) requires exactly one argument")
	}
	value, err := b.visitor.Expr(call.Arguments[0])
	if err != nil {
		return nil, err
	}
	return &tqir.Terminal{Source: source, Kind: "Contains", Value: value}, nil
}

func stringLiteral(n tqast.Node) (string, error) {
	lit, ok := n.(*tqast.Literal)
	if !ok || lit.Kind != "string" {
		return "", fmt.Errorf("tqop: expected a string literal")
	}
	return lit.Value.(string), nil
}

func (b *builder) insert(call *tqast.CallExpression) (tqir.Op, error) {
	if len(call.Arguments) < 2 {
		return nil, fmt.Errorf("tqop: Insert(table, values) requires two arguments")
	}
	table, err := stringLiteral(call.Arguments[0])
	if err != nil {
		return nil, err
	}
	obj, ok := call.Arguments[1].(*tqast.ObjectExpression)
	if !ok {
		return nil, fmt.Errorf("tqop: Insert's values argument must be an object literal")
	}
	values, err := b.object(obj)
	if err != nil {
		return nil, err
	}
	return &tqir.Insert{Table: table, Values: values}, nil
}

func (b *builder) update(call *tqast.CallExpression, member *tqast.MemberExpression) (tqir.Op, error) {
	if len(call.Arguments) < 1 {
		return nil, fmt.Errorf("tqop: Update(table) requires a table argument")
	}
	table, err := stringLiteral(call.Arguments[0])
	if err != nil {
		return nil, err
	}
	return &tqir.Update{Table: table}, nil
}

func (b *builder) set(call *tqast.CallExpression, member *tqast.MemberExpression) (tqir.Op, error) {
	source, err := b.walk(member.Object)
	if err != nil {
		return nil, err
	}
	update, ok := source.(*tqir.Update)
	if !ok {
		return nil, fmt.Errorf("tqop: Set must follow Update")
	}
	if len(call.Arguments) != 1 {
		return nil, fmt.Errorf("tqop: Set(values) requires exactly one argument")
	}
	obj, ok := call.Arguments[0].(*tqast.ObjectExpression)
	if !ok {
		return nil, fmt.Errorf("tqop: Set's values argument must be an object literal")
	}
	values, err := b.object(obj)
	if err != nil {
		return nil, err
	}
	update.Set = values
	return update, nil
}

func (b *builder) deleteOp(call *tqast.CallExpression, member *tqast.MemberExpression) (tqir.Op, error) {
	if len(call.Arguments) < 1 {
		return nil, fmt.Errorf("tqop: Delete(table) requires a table argument")
	}
	table, err := stringLiteral(call.Arguments[0])
	if err != nil {
		return nil, err
	}
	return &tqir.Delete{Table: table}, nil
}

func (b *builder) returning(call *tqast.CallExpression, member *tqast.MemberExpression) (tqir.Op, error) {
	source, err := b.walk(member.Object)
	if err != nil {
		return nil, err
	}
	if len(call.Arguments) != 1 {
		return nil, fmt.Errorf("tqop: Returning(projection) requires exactly one argument")
	}
	fn, ok := call.Arguments[0].(*tqast.ArrowFunction)
	var projection tqir.Expr
	if ok {
		b.pushTableBindings(fn)
		projection, err = b.visitor.Expr(fn.Body)
	} else {
		projection = &tqir.AllColumns{}
	}
	if err != nil {
		return nil, err
	}
	switch op := source.(type) {
	case *tqir.Insert:
		op.Returning = projection
		return op, nil
	case *tqir.Update:
		op.Returning = projection
		return op, nil
	case *tqir.Delete:
		op.Returning = projection
		return op, nil
	default:
		return nil, fmt.Errorf("tqop: Returning must follow Insert, Update, or Delete")
	}
}

func (b *builder) object(obj *tqast.ObjectExpression) (*tqir.Object, error) {
	props := make([]tqir.ObjectProp, 0, len(obj.Properties))
	for _, p := range obj.Properties {
		e, err := b.visitor.Expr(p.Value)
		if err != nil {
			return nil, err
		}
		props = append(props, tqir.ObjectProp{Name: p.Key, Value: e})
	}
	return &tqir.Object{Properties: props}, nil
}
