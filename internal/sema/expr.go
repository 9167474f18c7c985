package sema

import (
	"math"

	"dmc/internal/ast"
	"dmc/internal/diag"
	"dmc/internal/source"
	"dmc/internal/types"
)

func (c *checker) span(id ast.ExprID) source.Span {
	return c.b.Exprs.Get(id).Span
}

// expr infers the type of an expression and records it.
func (c *checker) expr(scope ScopeID, id ast.ExprID) (types.TypeID, error) {
	t, err := c.exprKind(scope, id)
	if err != nil {
		return types.NoTypeID, err
	}
	c.result.ExprTypes[id] = t
	return t, nil
}

func (c *checker) exprKind(scope ScopeID, id ast.ExprID) (types.TypeID, error) {
	e := c.b.Exprs.Get(id)
	switch e.Kind {
	case ast.ExprIdent:
		return c.identExpr(scope, id)
	case ast.ExprLitInt:
		data, _ := c.b.Exprs.LitInt(id)
		return c.types.Integer(data.Value, data.Value), nil
	case ast.ExprLitString:
		return c.types.Builtins().String, nil
	case ast.ExprBinary:
		return c.binaryExpr(scope, e, id)
	case ast.ExprUnary:
		return c.unaryExpr(scope, id)
	case ast.ExprCall:
		return c.callExpr(scope, e, id)
	case ast.ExprIndex:
		return c.indexExpr(scope, e, id)
	case ast.ExprMember:
		data, _ := c.b.Exprs.Member(id)
		base, err := c.expr(scope, data.Base)
		if err != nil {
			return types.NoTypeID, err
		}
		name := c.b.Name(data.Member)
		t, found, err := c.types.Member(base, name)
		if err != nil {
			return types.NoTypeID, c.conversionErr(err, e.Span)
		}
		if !found {
			return types.NoTypeID, c.fail(diag.SemaUnknownMember, c.span(data.Member),
				"Unknown member '%s' of %s", name, c.label(base))
		}
		return t, nil
	case ast.ExprCast:
		data, _ := c.b.Exprs.Cast(id)
		value, err := c.expr(scope, data.Value)
		if err != nil {
			return types.NoTypeID, err
		}
		target, err := c.resolveType(scope, data.Type)
		if err != nil {
			return types.NoTypeID, err
		}
		ok, err := c.convertsTo(value, target, e.Span)
		if err != nil {
			return types.NoTypeID, err
		}
		if !ok {
			return types.NoTypeID, c.fail(diag.SemaTypeMismatch, e.Span, "Cannot convert %s to %s", c.label(value), c.label(target))
		}
		return target, nil
	case ast.ExprRootNamespace, ast.ExprPath, ast.ExprNew, ast.ExprSlice, ast.ExprReturnValue, ast.ExprSuperMethod:
		return types.NoTypeID, c.fail(diag.SemaNotImplemented, e.Span, "%s is not implemented", e.Kind)
	}
	panic("sema: unhandled expression " + e.Kind.String())
}

func (c *checker) identExpr(scope ScopeID, id ast.ExprID) (types.TypeID, error) {
	name := c.b.Name(id)
	v, fn := c.scopes.FindValue(scope, name)
	switch {
	case v != nil:
		return v.Type, nil
	case fn != nil:
		return types.NoTypeID, c.fail(diag.SemaNotImplemented, c.span(id), "Function %s used as a value is not implemented", name)
	}
	return types.NoTypeID, c.fail(diag.SemaUnknownIdent, c.span(id), "Unknown name '%s'", name)
}

func (c *checker) binaryExpr(scope ScopeID, e *ast.Expr, id ast.ExprID) (types.TypeID, error) {
	data, _ := c.b.Exprs.Binary(id)
	left, err := c.expr(scope, data.Left)
	if err != nil {
		return types.NoTypeID, err
	}
	right, err := c.expr(scope, data.Right)
	if err != nil {
		return types.NoTypeID, err
	}
	boolean := c.types.Builtins().Bool
	switch data.Op {
	case ast.ExprBinaryEq, ast.ExprBinaryNotEq:
		_, ok, err := c.types.CommonType(left, right)
		if err != nil {
			return types.NoTypeID, c.conversionErr(err, e.Span)
		}
		if !ok {
			return types.NoTypeID, c.fail(diag.SemaNoCommonType, e.Span,
				"No common type for %s and %s", c.label(left), c.label(right))
		}
		return boolean, nil
	case ast.ExprBinaryLogicalAnd, ast.ExprBinaryLogicalOr:
		if left != boolean || right != boolean {
			return types.NoTypeID, c.fail(diag.SemaTypeMismatch, e.Span,
				"Operator %s requires %s operands, got %s and %s", data.Op, c.label(boolean), c.label(left), c.label(right))
		}
		return boolean, nil
	case ast.ExprBinaryLess, ast.ExprBinaryLessEq, ast.ExprBinaryGreater, ast.ExprBinaryGreaterEq:
		if _, _, err := c.integers(e, data.Op, left, right); err != nil {
			return types.NoTypeID, err
		}
		return boolean, nil
	case ast.ExprBinaryAdd, ast.ExprBinarySub:
		l, r, err := c.integers(e, data.Op, left, right)
		if err != nil {
			return types.NoTypeID, err
		}
		if data.Op == ast.ExprBinaryAdd {
			return c.types.Integer(addSat(l.Min, r.Min), addSat(l.Max, r.Max)), nil
		}
		return c.types.Integer(subSat(l.Min, r.Max), subSat(l.Max, r.Min)), nil
	}
	return types.NoTypeID, c.fail(diag.SemaNotImplemented, e.Span, "Operator %s is not implemented", data.Op)
}

// integers checks that both operands are integer ranges, looking through
// named types such as U8.
func (c *checker) integers(e *ast.Expr, op ast.ExprBinaryOp, left, right types.TypeID) (types.Type, types.Type, error) {
	l := c.types.MustLookup(c.types.Resolve(left))
	r := c.types.MustLookup(c.types.Resolve(right))
	if l.Kind != types.KindInteger || r.Kind != types.KindInteger {
		return l, r, c.fail(diag.SemaTypeMismatch, e.Span,
			"Operator %s requires integer operands, got %s and %s", op, c.label(left), c.label(right))
	}
	return l, r, nil
}

func addSat(a, b int64) int64 {
	switch {
	case b > 0 && a > math.MaxInt64-b:
		return math.MaxInt64
	case b < 0 && a < math.MinInt64-b:
		return math.MinInt64
	}
	return a + b
}

func subSat(a, b int64) int64 {
	if b == math.MinInt64 {
		return addSat(addSat(a, math.MaxInt64), 1)
	}
	return addSat(a, -b)
}

func (c *checker) unaryExpr(scope ScopeID, id ast.ExprID) (types.TypeID, error) {
	data, _ := c.b.Exprs.Unary(id)
	operand, err := c.expr(scope, data.Operand)
	if err != nil {
		return types.NoTypeID, err
	}
	if data.Op == ast.ExprUnaryNot {
		if boolean := c.types.Builtins().Bool; operand != boolean {
			return types.NoTypeID, c.fail(diag.SemaTypeMismatch, c.span(id),
				"Operator ! requires a %s operand, got %s", c.label(boolean), c.label(operand))
		}
		return operand, nil
	}
	if !c.types.IsInteger(c.types.Resolve(operand)) {
		return types.NoTypeID, c.fail(diag.SemaTypeMismatch, c.span(id),
			"Operator %s requires an integer operand, got %s", data.Op, c.label(operand))
	}
	return operand, nil
}

// indexExpr: base[] is the whole-slice form; explicit indices are not yet supported.
func (c *checker) indexExpr(scope ScopeID, e *ast.Expr, id ast.ExprID) (types.TypeID, error) {
	data, _ := c.b.Exprs.Index(id)
	base, err := c.expr(scope, data.Base)
	if err != nil {
		return types.NoTypeID, err
	}
	item, size, ok := c.types.Items(base)
	if !ok {
		return types.NoTypeID, c.fail(diag.SemaTypeMismatch, e.Span, "Cannot index %s", c.label(base))
	}
	if data.Index.IsValid() {
		return types.NoTypeID, c.fail(diag.SemaNotImplemented, e.Span, "Indexing with an index is not implemented")
	}
	return c.types.Slice(item, size), nil
}

// callExpr checks arguments against the callee's input tuple. A single-item
// output tuple yields its item; otherwise the whole tuple.
func (c *checker) callExpr(scope ScopeID, e *ast.Expr, id ast.ExprID) (types.TypeID, error) {
	data, _ := c.b.Exprs.Call(id)
	callee := c.b.Exprs.Get(data.Callee)
	if callee.Kind != ast.ExprIdent {
		return types.NoTypeID, c.fail(diag.SemaNotCallable, callee.Span, "Expression is not callable")
	}
	name := c.b.Name(data.Callee)
	v, fn := c.scopes.FindValue(scope, name)
	switch {
	case v != nil:
		return types.NoTypeID, c.fail(diag.SemaNotCallable, callee.Span, "%s is not a function", name)
	case fn == nil:
		return types.NoTypeID, c.fail(diag.SemaUnknownIdent, callee.Span, "Unknown name '%s'", name)
	}
	params, _ := c.types.TupleItems(fn.Input)
	filled := make([]bool, len(params))
	if len(data.Args.Positional) > len(params) {
		return types.NoTypeID, c.fail(diag.SemaArgumentMismatch, e.Span,
			"Function %s expects %d arguments, got %d", name, len(params), len(data.Args.Positional))
	}
	for i, arg := range data.Args.Positional {
		if err := c.argument(scope, fn, params[i], arg); err != nil {
			return types.NoTypeID, err
		}
		filled[i] = true
	}
	for _, na := range data.Args.Named {
		argName := c.b.Name(na.Name)
		slot := -1
		for i, prm := range params {
			if prm.Name == argName {
				slot = i
				break
			}
		}
		switch {
		case slot < 0:
			return types.NoTypeID, c.fail(diag.SemaArgumentMismatch, na.Span, "Function %s has no parameter named %s", name, argName)
		case filled[slot]:
			return types.NoTypeID, c.fail(diag.SemaArgumentMismatch, na.Span, "Parameter %s is given twice", argName)
		}
		if err := c.argument(scope, fn, params[slot], na.Value); err != nil {
			return types.NoTypeID, err
		}
		filled[slot] = true
	}
	for i, ok := range filled {
		if !ok {
			return types.NoTypeID, c.fail(diag.SemaArgumentMismatch, e.Span,
				"Missing argument %d of function %s", i+1, name)
		}
	}
	if out, _ := c.types.TupleItems(fn.Output); len(out) == 1 {
		return out[0].Type, nil
	}
	return fn.Output, nil
}

func (c *checker) argument(scope ScopeID, fn *Function, param types.TupleItem, arg ast.ExprID) error {
	t, err := c.expr(scope, arg)
	if err != nil {
		return err
	}
	ok, err := c.convertsTo(t, param.Type, c.span(arg))
	if err != nil {
		return err
	}
	if !ok {
		return c.fail(diag.SemaTypeMismatch, c.span(arg), "Cannot pass %s as %s to function %s",
			c.label(t), c.label(param.Type), fn.Name)
	}
	return nil
}
