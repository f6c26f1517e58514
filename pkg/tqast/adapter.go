package tqast

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
)

// ParseError reports a builder source the adapter could not lower into
// the reduced node set, with the offending Go syntax's position so a
// caller can point back at their source. It fails the same way on a
// statement outside its recognised grammar rather than trying to guess
// intent.
type ParseError struct {
	Pos     token.Pos
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tqast: %s (at %v)", e.Message, e.Pos)
}

// Parse adapts a single Go function literal, given as source text, into
// an ArrowFunction. src must be a complete expression, e.g.:
//
//	func(u User) bool { return u.Age > 18 }
//
// It is wrapped in a throwaway package/var declaration so go/parser can
// accept a bare expression.
func Parse(src string) (*ArrowFunction, error) {
	wrapped := "package tqast_builder\nvar _ = " + strings.TrimSpace(src)
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "builder.go", wrapped, 0)
	if err != nil {
		return nil, fmt.Errorf("tqast: parsing builder source: %w", err)
	}
	var lit *ast.FuncLit
	ast.Inspect(file, func(n ast.Node) bool {
		if lit != nil {
			return false
		}
		if f, ok := n.(*ast.FuncLit); ok {
			lit = f
			return false
		}
		return true
	})
	if lit == nil {
		return nil, &ParseError{Message: "builder source is not a function literal"}
	}
	return adaptFuncLit(lit)
}

func adaptFuncLit(lit *ast.FuncLit) (*ArrowFunction, error) {
	params := make([]string, 0, len(lit.Type.Params.List))
	for _, field := range lit.Type.Params.List {
		if len(field.Names) == 0 {
			params = append(params, "_")
			continue
		}
		for _, name := range field.Names {
			params = append(params, name.Name)
		}
	}

	body, err := singleReturnExpr(lit.Body)
	if err != nil {
		return nil, err
	}
	node, err := adaptExpr(body)
	if err != nil {
		return nil, err
	}
	return &ArrowFunction{Params: params, Body: node}, nil
}

// singleReturnExpr enforces that a lambda body is exactly one `return
// <expr>` statement: Go function literals always have a block body, so
// this is the adapter's equivalent of an ESTree arrow function's
// implicit-return expression form.
func singleReturnExpr(body *ast.BlockStmt) (ast.Expr, error) {
	if len(body.List) != 1 {
		return nil, &ParseError{Pos: body.Pos(), Message: "builder lambda body must be exactly one return statement"}
	}
	ret, ok := body.List[0].(*ast.ReturnStmt)
	if !ok {
		return nil, &ParseError{Pos: body.List[0].Pos(), Message: "builder lambda body must be a return statement"}
	}
	if len(ret.Results) != 1 {
		return nil, &ParseError{Pos: ret.Pos(), Message: "builder lambda must return exactly one expression"}
	}
	return ret.Results[0], nil
}

func adaptExpr(e ast.Expr) (Node, error) {
	switch n := e.(type) {
	case *ast.ParenExpr:
		inner, err := adaptExpr(n.X)
		if err != nil {
			return nil, err
		}
		return &ParenthesizedExpression{Expression: inner}, nil

	case *ast.Ident:
		if n.Name == "nil" {
			return &Literal{Value: nil, Kind: "null"}, nil
		}
		if n.Name == "true" || n.Name == "false" {
			return &Literal{Value: n.Name == "true", Kind: "boolean"}, nil
		}
		return &Identifier{Name: n.Name}, nil

	case *ast.BasicLit:
		return adaptBasicLit(n)

	case *ast.SelectorExpr:
		obj, err := adaptExpr(n.X)
		if err != nil {
			return nil, err
		}
		return &MemberExpression{Object: obj, Property: n.Sel.Name}, nil

	case *ast.CallExpr:
		return adaptCallExpr(n)

	case *ast.BinaryExpr:
		return adaptBinaryExpr(n)

	case *ast.UnaryExpr:
		arg, err := adaptExpr(n.X)
		if err != nil {
			return nil, err
		}
		return &UnaryExpression{Operator: n.Op.String(), Argument: arg}, nil

	case *ast.CompositeLit:
		return adaptCompositeLit(n)

	case *ast.StarExpr:
		return adaptExpr(n.X)

	case *ast.FuncLit:
		return adaptFuncLit(n)

	default:
		return nil, &ParseError{Pos: e.Pos(), Message: fmt.Sprintf("unsupported syntax %T in builder lambda", e)}
	}
}

func adaptBasicLit(n *ast.BasicLit) (Node, error) {
	switch n.Kind {
	case token.STRING:
		v, err := strconv.Unquote(n.Value)
		if err != nil {
			return nil, &ParseError{Pos: n.Pos(), Message: "invalid string literal"}
		}
		return &Literal{Value: v, Kind: "string"}, nil
	case token.INT:
		v, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, &ParseError{Pos: n.Pos(), Message: "invalid integer literal"}
		}
		return &Literal{Value: v, Kind: "number"}, nil
	case token.FLOAT:
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, &ParseError{Pos: n.Pos(), Message: "invalid float literal"}
		}
		return &Literal{Value: v, Kind: "number"}, nil
	default:
		return nil, &ParseError{Pos: n.Pos(), Message: fmt.Sprintf("unsupported literal kind %v", n.Kind)}
	}
}

func adaptBinaryExpr(n *ast.BinaryExpr) (Node, error) {
	left, err := adaptExpr(n.X)
	if err != nil {
		return nil, err
	}
	right, err := adaptExpr(n.Y)
	if err != nil {
		return nil, err
	}
	op := n.Op.String()
	switch n.Op {
	case token.LAND, token.LOR:
		return &LogicalExpression{Operator: op, Left: left, Right: right}, nil
	default:
		return &BinaryExpression{Operator: op, Left: left, Right: right}, nil
	}
}

// adaptCallExpr recognises the two pseudo-functions that stand in for
// Go syntax the language lacks (ternary, null-coalescing) before
// falling back to a plain CallExpression.
func adaptCallExpr(n *ast.CallExpr) (Node, error) {
	if ident, ok := n.Fun.(*ast.Ident); ok {
		switch ident.Name {
		case "Cond":
			if len(n.Args) != 3 {
				return nil, &ParseError{Pos: n.Pos(), Message: "Cond(test, then, else) requires exactly 3 arguments"}
			}
			test, err := adaptExpr(n.Args[0])
			if err != nil {
				return nil, err
			}
			then, err := adaptExpr(n.Args[1])
			if err != nil {
				return nil, err
			}
			els, err := adaptExpr(n.Args[2])
			if err != nil {
				return nil, err
			}
			return &ConditionalExpression{Test: test, Consequent: then, Alternate: els}, nil

		case "Coalesce":
			args, err := adaptArgs(n.Args)
			if err != nil {
				return nil, err
			}
			return &CallExpression{Callee: &Identifier{Name: "Coalesce"}, Arguments: args}, nil
		}
	}

	callee, err := adaptExpr(n.Fun)
	if err != nil {
		return nil, err
	}
	args, err := adaptArgs(n.Args)
	if err != nil {
		return nil, err
	}
	return &CallExpression{Callee: callee, Arguments: args}, nil
}

func adaptArgs(exprs []ast.Expr) ([]Node, error) {
	out := make([]Node, 0, len(exprs))
	for _, a := range exprs {
		node, err := adaptExpr(a)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}

// adaptCompositeLit maps a map-typed composite literal to
// ObjectExpression (a projection shape) and a slice/array-typed one to
// ArrayExpression (an `in` list).
func adaptCompositeLit(n *ast.CompositeLit) (Node, error) {
	switch n.Type.(type) {
	case *ast.MapType, nil:
		return adaptObjectLit(n)
	case *ast.ArrayType:
		return adaptArrayLit(n)
	default:
		return adaptObjectLit(n)
	}
}

func adaptObjectLit(n *ast.CompositeLit) (Node, error) {
	props := make([]ObjectProperty, 0, len(n.Elts))
	for _, elt := range n.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			return nil, &ParseError{Pos: elt.Pos(), Message: "object literal elements must be key: value pairs"}
		}
		key, err := literalKey(kv.Key)
		if err != nil {
			return nil, err
		}
		value, err := adaptExpr(kv.Value)
		if err != nil {
			return nil, err
		}
		props = append(props, ObjectProperty{Key: key, Value: value})
	}
	return &ObjectExpression{Properties: props}, nil
}

func literalKey(e ast.Expr) (string, error) {
	switch k := e.(type) {
	case *ast.Ident:
		return k.Name, nil
	case *ast.BasicLit:
		if k.Kind == token.STRING {
			return strconv.Unquote(k.Value)
		}
	}
	return "", &ParseError{Pos: e.Pos(), Message: "object literal key must be an identifier or string"}
}

func adaptArrayLit(n *ast.CompositeLit) (Node, error) {
	elems := make([]Node, 0, len(n.Elts))
	for _, elt := range n.Elts {
		node, err := adaptExpr(elt)
		if err != nil {
			return nil, err
		}
		elems = append(elems, node)
	}
	return &ArrayExpression{Elements: elems}, nil
}
