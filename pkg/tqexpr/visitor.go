// Package tqexpr lowers tqast nodes into tqir's scalar (Expr) and
// boolean (BoolExpr) expression algebra, classifying every Identifier
// against the bindings pushed onto a tqctx.Context and minting
// auto-parameters for literals.
//
// Grounded on pkg/cydb/sqlbuilder.go's Expression construction helpers
// (NewSimpleExpr/NewArithExpr/NewLiteralValue), generalised from values
// a caller builds by hand into nodes produced by walking tqast.
package tqexpr

import (
	"fmt"

	"github.com/fj1981/tinqer/pkg/tqast"
	"github.com/fj1981/tinqer/pkg/tqctx"
	"github.com/fj1981/tinqer/pkg/tqir"
)

// Visitor walks tqast nodes for a single builder compile, using ctx to
// classify identifiers and mint auto-parameters.
type Visitor struct {
	ctx *tqctx.Context
}

func New(ctx *tqctx.Context) *Visitor {
	return &Visitor{ctx: ctx}
}

// Expr lowers a value-producing node (column reference, arithmetic,
// literal, parameter access, ...) to a tqir.Expr.
func (v *Visitor) Expr(n tqast.Node) (tqir.Expr, error) {
	switch node := n.(type) {
	case *tqast.ParenthesizedExpression:
		return v.Expr(node.Expression)

	case *tqast.Literal:
		return v.literal(node)

	case *tqast.MemberExpression:
		return v.member(node)

	case *tqast.Identifier:
		return nil, fmt.Errorf("tqexpr: bare identifier %q is not a value expression", node.Name)

	case *tqast.BinaryExpression:
		return v.binary(node)

	case *tqast.UnaryExpression:
		return v.unaryExpr(node)

	case *tqast.CallExpression:
		return v.call(node)

	case *tqast.ConditionalExpression:
		return v.conditional(node)

	case *tqast.ObjectExpression:
		return v.object(node)

	default:
		return nil, fmt.Errorf("tqexpr: unsupported node %T in value position", n)
	}
}

// autoParamType infers the ValueType for an auto-parameterized literal.
func autoParamType(lit *tqast.Literal) tqir.ValueType {
	switch lit.Kind {
	case "string":
		return tqir.ValueTypeString
	case "boolean":
		return tqir.ValueTypeBoolean
	case "null":
		return tqir.ValueTypeNull
	default:
		return tqir.ValueTypeNumber
	}
}

// literal decides between an inline Constant (NULL only) and an
// auto-parameterized Param routed through the dialect's placeholder
// syntax; every other literal value in a supported comparison becomes
// a bound parameter rather than inline SQL text.
func (v *Visitor) literal(lit *tqast.Literal) (tqir.Expr, error) {
	if lit.Kind == "null" {
		return &tqir.Constant{Value: nil, ValueType: tqir.ValueTypeNull}, nil
	}
	name := v.ctx.NewAutoParam(lit.Value)
	return &tqir.Param{Name: name}, nil
}

// member resolves `obj.Property` against the binding taxonomy: a table
// parameter yields a Column, a query/helpers parameter yields a Param,
// and a join-result parameter yields a Column qualified with the
// binding's JoinTable. Only single-level access is resolved: nested
// access such as `r.u.Name` is rejected, and a grouping parameter
// (e.g. `g.key`) has no resolvable origin and returns an error.
func (v *Visitor) member(n *tqast.MemberExpression) (tqir.Expr, error) {
	ident, ok := n.Object.(*tqast.Identifier)
	if !ok {
		return nil, fmt.Errorf("tqexpr: only single-level member access is supported")
	}
	binding, ok := v.ctx.Lookup(ident.Name)
	if !ok {
		return nil, fmt.Errorf("tqexpr: unbound identifier %q", ident.Name)
	}
	switch binding.Origin {
	case tqctx.OriginTable:
		return &tqir.Column{Name: n.Property}, nil
	case tqctx.OriginJoinResult:
		// A join-result binding names one joined table, so `u.Name` on
		// it is that table's column. Nested access (`r.u.Name`) never
		// reaches here: the Identifier check above rejects it.
		return &tqir.Column{Name: n.Property, Table: binding.JoinTable}, nil
	case tqctx.OriginQuery, tqctx.OriginHelpers:
		return &tqir.Param{Name: binding.Name, Property: n.Property}, nil
	default:
		return nil, fmt.Errorf("tqexpr: identifier %q has no resolvable origin", ident.Name)
	}
}

func (v *Visitor) binary(n *tqast.BinaryExpression) (tqir.Expr, error) {
	left, err := v.Expr(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := v.Expr(n.Right)
	if err != nil {
		return nil, err
	}
	if n.Operator == "+" {
		if isStringish(n.Left) || isStringish(n.Right) {
			return &tqir.Concat{Left: left, Right: right}, nil
		}
	}
	return &tqir.Arithmetic{Op: n.Operator, Left: left, Right: right}, nil
}

func isStringish(n tqast.Node) bool {
	lit, ok := n.(*tqast.Literal)
	return ok && lit.Kind == "string"
}

func (v *Visitor) unaryExpr(n *tqast.UnaryExpression) (tqir.Expr, error) {
	return nil, fmt.Errorf("tqexpr: unary operator %q is not valid in value position", n.Operator)
}

func (v *Visitor) call(n *tqast.CallExpression) (tqir.Expr, error) {
	switch callee := n.Callee.(type) {
	case *tqast.Identifier:
		if callee.Name == "Coalesce" {
			exprs := make([]tqir.Expr, 0, len(n.Arguments))
			for _, a := range n.Arguments {
				e, err := v.Expr(a)
				if err != nil {
					return nil, err
				}
				exprs = append(exprs, e)
			}
			return &tqir.Coalesce{Expressions: exprs}, nil
		}

	case *tqast.MemberExpression:
		switch callee.Property {
		case "toLowerCase", "toUpperCase":
			obj, err := v.Expr(callee.Object)
			if err != nil {
				return nil, err
			}
			return &tqir.StringMethod{Object: obj, Method: callee.Property}, nil
		}
	}
	return nil, fmt.Errorf("tqexpr: unsupported call expression in value position")
}

func (v *Visitor) conditional(n *tqast.ConditionalExpression) (tqir.Expr, error) {
	test, err := v.Bool(n.Test)
	if err != nil {
		return nil, err
	}
	then, err := v.Expr(n.Consequent)
	if err != nil {
		return nil, err
	}
	when := tqir.CaseWhen{When: test, Then: then}

	c := &tqir.Case{Conditions: []tqir.CaseWhen{when}}
	if n.Alternate != nil {
		if nested, ok := n.Alternate.(*tqast.ConditionalExpression); ok {
			elseExpr, err := v.conditional(nested)
			if err != nil {
				return nil, err
			}
			nestedCase, ok := elseExpr.(*tqir.Case)
			if ok {
				c.Conditions = append(c.Conditions, nestedCase.Conditions...)
				c.Else = nestedCase.Else
				return c, nil
			}
		}
		elseExpr, err := v.Expr(n.Alternate)
		if err != nil {
			return nil, err
		}
		c.Else = elseExpr
	}
	return c, nil
}

func (v *Visitor) object(n *tqast.ObjectExpression) (tqir.Expr, error) {
	props := make([]tqir.ObjectProp, 0, len(n.Properties))
	for _, p := range n.Properties {
		val, err := v.Expr(p.Value)
		if err != nil {
			return nil, err
		}
		props = append(props, tqir.ObjectProp{Name: p.Key, Value: val})
	}
	return &tqir.Object{Properties: props}, nil
}

// Bool lowers a predicate-producing node to a tqir.BoolExpr.
func (v *Visitor) Bool(n tqast.Node) (tqir.BoolExpr, error) {
	switch node := n.(type) {
	case *tqast.ParenthesizedExpression:
		return v.Bool(node.Expression)

	case *tqast.Literal:
		if node.Kind == "boolean" {
			return &tqir.BooleanConstant{Value: node.Value.(bool)}, nil
		}
		return nil, fmt.Errorf("tqexpr: non-boolean literal in predicate position")

	case *tqast.LogicalExpression:
		left, err := v.Bool(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := v.Bool(node.Right)
		if err != nil {
			return nil, err
		}
		return &tqir.Logical{Op: node.Operator, Left: left, Right: right}, nil

	case *tqast.UnaryExpression:
		if node.Operator != "!" {
			return nil, fmt.Errorf("tqexpr: unary operator %q is not valid in predicate position", node.Operator)
		}
		inner, err := v.Bool(node.Argument)
		if err != nil {
			return nil, err
		}
		return &tqir.Not{Expr: inner}, nil

	case *tqast.BinaryExpression:
		return v.comparison(node)

	case *tqast.MemberExpression:
		return v.boolMember(node)

	case *tqast.CallExpression:
		return v.boolCall(node)

	default:
		return nil, fmt.Errorf("tqexpr: unsupported node %T in predicate position", n)
	}
}

// comparison lowers a binary comparison, rewriting any comparison
// against NULL into IsNull.
func (v *Visitor) comparison(n *tqast.BinaryExpression) (tqir.BoolExpr, error) {
	if isNullLiteral(n.Right) {
		left, err := v.Expr(n.Left)
		if err != nil {
			return nil, err
		}
		return &tqir.IsNull{Expr: left, Negated: n.Operator == "!="}, nil
	}
	if isNullLiteral(n.Left) {
		right, err := v.Expr(n.Right)
		if err != nil {
			return nil, err
		}
		return &tqir.IsNull{Expr: right, Negated: n.Operator == "!="}, nil
	}

	left, err := v.Expr(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := v.Expr(n.Right)
	if err != nil {
		return nil, err
	}
	return &tqir.Comparison{Op: n.Operator, Left: left, Right: right}, nil
}

func isNullLiteral(n tqast.Node) bool {
	lit, ok := n.(*tqast.Literal)
	return ok && lit.Kind == "null"
}

func (v *Visitor) boolMember(n *tqast.MemberExpression) (tqir.BoolExpr, error) {
	ident, ok := n.Object.(*tqast.Identifier)
	if !ok {
		return nil, fmt.Errorf("tqexpr: only single-level member access is supported in predicate position")
	}
	binding, ok := v.ctx.Lookup(ident.Name)
	if !ok {
		return nil, fmt.Errorf("tqexpr: unbound identifier %q", ident.Name)
	}
	switch binding.Origin {
	case tqctx.OriginTable:
		return &tqir.BooleanColumn{Name: n.Property}, nil
	case tqctx.OriginQuery, tqctx.OriginHelpers:
		return &tqir.BooleanParam{Name: binding.Name, Property: n.Property}, nil
	default:
		return nil, fmt.Errorf("tqexpr: identifier %q has no resolvable origin in predicate position", ident.Name)
	}
}

func (v *Visitor) boolCall(n *tqast.CallExpression) (tqir.BoolExpr, error) {
	member, ok := n.Callee.(*tqast.MemberExpression)
	if !ok {
		return nil, fmt.Errorf("tqexpr: unsupported call expression in predicate position")
	}
	switch member.Property {
	case "startsWith", "endsWith", "includes":
		obj, err := v.Expr(member.Object)
		if err != nil {
			return nil, err
		}
		// `arr.includes(x)` where arr is itself a query/helpers
		// parameter (not a table column) names a caller-supplied array
		// to test membership against, rendered as In rather than the
		// LIKE-based string includes() below.
		if member.Property == "includes" {
			if param, ok := obj.(*tqir.Param); ok {
				if len(n.Arguments) != 1 {
					return nil, fmt.Errorf("tqexpr: includes(value) requires exactly one argument")
				}
				value, err := v.Expr(n.Arguments[0])
				if err != nil {
					return nil, err
				}
				return &tqir.In{Value: value, List: param}, nil
			}
		}
		args, err := v.exprList(n.Arguments)
		if err != nil {
			return nil, err
		}
		return &tqir.BooleanMethod{Object: obj, Method: member.Property, Args: args}, nil
	}

	if nested, ok := member.Object.(*tqast.MemberExpression); ok && nested.Property == "functions" {
		args, err := v.exprList(n.Arguments)
		if err != nil {
			return nil, err
		}
		return &tqir.CaseInsensitiveFunction{Name: member.Property, Args: args}, nil
	}

	return nil, fmt.Errorf("tqexpr: unsupported method %q in predicate position", member.Property)
}

func (v *Visitor) exprList(nodes []tqast.Node) ([]tqir.Expr, error) {
	out := make([]tqir.Expr, 0, len(nodes))
	for _, n := range nodes {
		e, err := v.Expr(n)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
