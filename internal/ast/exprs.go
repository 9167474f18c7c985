package ast

import (
	"fmt"

	"dmc/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena    *Arena[Expr]
	Idents   *Arena[ExprIdentData]
	Ints     *Arena[ExprLitIntData]
	Strings  *Arena[ExprLitStringData]
	Paths    *Arena[ExprPathData]
	Binaries *Arena[ExprBinaryData]
	Unaries  *Arena[ExprUnaryData]
	Calls    *Arena[ExprCallData]
	Indices  *Arena[ExprIndexData]
	Members  *Arena[ExprMemberData]
	News     *Arena[ExprNewData]
	Slices   *Arena[ExprSliceData]
	Casts    *Arena[ExprCastData]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Idents:   NewArena[ExprIdentData](capHint),
		Ints:     NewArena[ExprLitIntData](capHint >> 2),
		Strings:  NewArena[ExprLitStringData](capHint >> 2),
		Paths:    NewArena[ExprPathData](capHint >> 2),
		Binaries: NewArena[ExprBinaryData](capHint >> 1),
		Unaries:  NewArena[ExprUnaryData](capHint >> 2),
		Calls:    NewArena[ExprCallData](capHint >> 1),
		Indices:  NewArena[ExprIndexData](capHint >> 3),
		Members:  NewArena[ExprMemberData](capHint >> 2),
		News:     NewArena[ExprNewData](capHint >> 3),
		Slices:   NewArena[ExprSliceData](capHint >> 3),
		Casts:    NewArena[ExprCastData](capHint >> 3),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// requireKind enforces the child-variant discipline of the constructors.
func (e *Exprs) requireKind(what string, id ExprID, kinds ...ExprKind) {
	expr := e.Get(id)
	if expr == nil {
		panic(fmt.Sprintf("ast: %s: missing expression", what))
	}
	for _, k := range kinds {
		if expr.Kind == k {
			return
		}
	}
	panic(fmt.Sprintf("ast: %s: unexpected %s", what, expr.Kind))
}

func (e *Exprs) requireArgs(args ArgList) {
	for _, na := range args.Named {
		e.requireKind("named argument", na.Name, ExprIdent)
	}
}

func (e *Exprs) NewIdent(span source.Span, name source.StringID) ExprID {
	return e.new(ExprIdent, span, e.Idents.Allocate(ExprIdentData{Name: name}))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIdent {
		return nil, false
	}
	return e.Idents.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewLitInt(span source.Span, value int64) ExprID {
	return e.new(ExprLitInt, span, e.Ints.Allocate(ExprLitIntData{Value: value}))
}

func (e *Exprs) LitInt(id ExprID) (*ExprLitIntData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprLitInt {
		return nil, false
	}
	return e.Ints.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewLitString(span source.Span, value source.StringID, singleQuoted bool) ExprID {
	return e.new(ExprLitString, span, e.Strings.Allocate(ExprLitStringData{Value: value, SingleQuoted: singleQuoted}))
}

func (e *Exprs) LitString(id ExprID) (*ExprLitStringData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprLitString {
		return nil, false
	}
	return e.Strings.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewRootNamespace(span source.Span) ExprID {
	return e.new(ExprRootNamespace, span, 0)
}

func (e *Exprs) NewReturnValue(span source.Span) ExprID {
	return e.new(ExprReturnValue, span, 0)
}

func (e *Exprs) NewSuperMethod(span source.Span) ExprID {
	return e.new(ExprSuperMethod, span, 0)
}

func (e *Exprs) NewPath(span source.Span, namespace, member ExprID) ExprID {
	e.requireKind("path namespace", namespace, ExprRootNamespace, ExprPath, ExprIdent)
	e.requireKind("path member", member, ExprIdent)
	return e.new(ExprPath, span, e.Paths.Allocate(ExprPathData{Namespace: namespace, Member: member}))
}

func (e *Exprs) Path(id ExprID) (*ExprPathData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprPath {
		return nil, false
	}
	return e.Paths.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewBinary(span source.Span, op ExprBinaryOp, left, right ExprID) ExprID {
	e.requireKind("binary left", left, anyExpr...)
	e.requireKind("binary right", right, anyExpr...)
	return e.new(ExprBinary, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBinary {
		return nil, false
	}
	return e.Binaries.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewUnary(span source.Span, op ExprUnaryOp, operand ExprID) ExprID {
	e.requireKind("unary operand", operand, anyExpr...)
	return e.new(ExprUnary, span, e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand}))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprUnary {
		return nil, false
	}
	return e.Unaries.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewCall(span source.Span, callee ExprID, args ArgList) ExprID {
	e.requireKind("call callee", callee, anyExpr...)
	e.requireArgs(args)
	return e.new(ExprCall, span, e.Calls.Allocate(ExprCallData{Callee: callee, Args: args}))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(uint32(expr.Payload)), true
}

// NewIndex creates base[index]; index may be NoExprID.
func (e *Exprs) NewIndex(span source.Span, base, index ExprID) ExprID {
	e.requireKind("index base", base, anyExpr...)
	if index.IsValid() {
		e.requireKind("index", index, anyExpr...)
	}
	return e.new(ExprIndex, span, e.Indices.Allocate(ExprIndexData{Base: base, Index: index}))
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIndex {
		return nil, false
	}
	return e.Indices.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewMember(span source.Span, base, member ExprID) ExprID {
	e.requireKind("member base", base, anyExpr...)
	e.requireKind("member name", member, ExprIdent)
	return e.new(ExprMember, span, e.Members.Allocate(ExprMemberData{Base: base, Member: member}))
}

func (e *Exprs) Member(id ExprID) (*ExprMemberData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprMember {
		return nil, false
	}
	return e.Members.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewNew(span source.Span, class ExprID, args ArgList) ExprID {
	e.requireKind("new class", class, ExprRootNamespace, ExprPath, ExprIdent)
	e.requireArgs(args)
	return e.new(ExprNew, span, e.News.Allocate(ExprNewData{Class: class, Args: args}))
}

// NewData returns the payload of a new-expression.
func (e *Exprs) NewData(id ExprID) (*ExprNewData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprNew {
		return nil, false
	}
	return e.News.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewSlice(span source.Span, lo, hi ExprID) ExprID {
	e.requireKind("slice low", lo, anyExpr...)
	e.requireKind("slice high", hi, anyExpr...)
	return e.new(ExprSlice, span, e.Slices.Allocate(ExprSliceData{Lo: lo, Hi: hi}))
}

func (e *Exprs) Slice(id ExprID) (*ExprSliceData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprSlice {
		return nil, false
	}
	return e.Slices.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewCast(span source.Span, value ExprID, typ TypeID) ExprID {
	e.requireKind("cast value", value, anyExpr...)
	if !typ.IsValid() {
		panic("ast: cast without target type")
	}
	return e.new(ExprCast, span, e.Casts.Allocate(ExprCastData{Value: value, Type: typ}))
}

func (e *Exprs) Cast(id ExprID) (*ExprCastData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCast {
		return nil, false
	}
	return e.Casts.Get(uint32(expr.Payload)), true
}

var anyExpr = []ExprKind{
	ExprIdent, ExprLitInt, ExprLitString, ExprRootNamespace, ExprPath, ExprBinary, ExprUnary,
	ExprCall, ExprIndex, ExprMember, ExprNew, ExprSlice, ExprCast, ExprReturnValue, ExprSuperMethod,
}
