package ast

import (
	"dmc/internal/source"
)

type ExprKind uint8

const (
	ExprIdent ExprKind = iota
	ExprLitInt
	ExprLitString
	ExprRootNamespace
	ExprPath
	ExprBinary
	ExprUnary
	ExprCall
	ExprIndex
	ExprMember
	ExprNew
	ExprSlice
	ExprCast
	ExprReturnValue // '.'
	ExprSuperMethod // '..'
)

var exprKindNames = [...]string{
	ExprIdent:         "Ident",
	ExprLitInt:        "LiteralInteger",
	ExprLitString:     "LiteralString",
	ExprRootNamespace: "RootNamespace",
	ExprPath:          "Path",
	ExprBinary:        "BinaryExpression",
	ExprUnary:         "UnaryExpression",
	ExprCall:          "CallExpression",
	ExprIndex:         "IndexExpression",
	ExprMember:        "MemberExpression",
	ExprNew:           "NewExpression",
	ExprSlice:         "SliceExpression",
	ExprCast:          "TypeCastExpression",
	ExprReturnValue:   "ReturnValueExpression",
	ExprSuperMethod:   "SuperMethodExpression",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "InvalidExpr"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprBinaryOp uint8

const (
	ExprBinaryAdd ExprBinaryOp = iota
	ExprBinarySub
	ExprBinaryShl
	ExprBinaryEq
	ExprBinaryNotEq
	ExprBinaryLess
	ExprBinaryLessEq
	ExprBinaryGreater
	ExprBinaryGreaterEq
	ExprBinaryBitOr
	ExprBinaryLogicalAnd
	ExprBinaryLogicalOr
)

var binaryOpText = [...]string{
	ExprBinaryAdd:        "+",
	ExprBinarySub:        "-",
	ExprBinaryShl:        "<<",
	ExprBinaryEq:         "==",
	ExprBinaryNotEq:      "!=",
	ExprBinaryLess:       "<",
	ExprBinaryLessEq:     "<=",
	ExprBinaryGreater:    ">",
	ExprBinaryGreaterEq:  ">=",
	ExprBinaryBitOr:      "|",
	ExprBinaryLogicalAnd: "&&",
	ExprBinaryLogicalOr:  "||",
}

func (op ExprBinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

type ExprUnaryOp uint8

const (
	ExprUnaryNot ExprUnaryOp = iota
	ExprUnaryPostInc
	ExprUnaryPostDec
)

func (op ExprUnaryOp) String() string {
	switch op {
	case ExprUnaryNot:
		return "!"
	case ExprUnaryPostInc:
		return "++"
	case ExprUnaryPostDec:
		return "--"
	}
	return "?"
}

type ExprIdentData struct {
	Name source.StringID
}

type ExprLitIntData struct {
	Value int64
}

type ExprLitStringData struct {
	Value        source.StringID
	SingleQuoted bool
}

// ExprPathData is namespace/member; Namespace is RootNamespace, Path or Ident.
type ExprPathData struct {
	Namespace ExprID
	Member    ExprID
}

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

// NamedArg is name = value inside an argument list.
type NamedArg struct {
	Name  ExprID
	Value ExprID
	Span  source.Span
}

// ArgList keeps positional and named arguments in source order each.
type ArgList struct {
	Positional []ExprID
	Named      []NamedArg
}

type ExprCallData struct {
	Callee ExprID
	Args   ArgList
}

// ExprIndexData: Index is NoExprID for the whole-slice form base[].
type ExprIndexData struct {
	Base  ExprID
	Index ExprID
}

type ExprMemberData struct {
	Base   ExprID
	Member ExprID
}

type ExprNewData struct {
	Class ExprID
	Args  ArgList
}

type ExprSliceData struct {
	Lo ExprID
	Hi ExprID
}

type ExprCastData struct {
	Value ExprID
	Type  TypeID
}
