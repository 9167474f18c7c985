package parser

import (
	"dmc/internal/ast"
	"dmc/internal/token"
)

// Уровни бинарных операторов, от слабого к сильному. Каждый уровень
// левоассоциативен. Cast and slice sit between these and are handled apart.
var (
	opsLogicalOr  = map[token.Kind]ast.ExprBinaryOp{token.OrOr: ast.ExprBinaryLogicalOr}
	opsLogicalAnd = map[token.Kind]ast.ExprBinaryOp{token.AndAnd: ast.ExprBinaryLogicalAnd}
	opsBitwiseOr  = map[token.Kind]ast.ExprBinaryOp{token.Pipe: ast.ExprBinaryBitOr}
	opsEquality   = map[token.Kind]ast.ExprBinaryOp{
		token.EqEq:   ast.ExprBinaryEq,
		token.BangEq: ast.ExprBinaryNotEq,
	}
	opsRelational = map[token.Kind]ast.ExprBinaryOp{
		token.Lt:   ast.ExprBinaryLess,
		token.LtEq: ast.ExprBinaryLessEq,
		token.Gt:   ast.ExprBinaryGreater,
		token.GtEq: ast.ExprBinaryGreaterEq,
	}
	opsShift    = map[token.Kind]ast.ExprBinaryOp{token.Shl: ast.ExprBinaryShl}
	opsAdditive = map[token.Kind]ast.ExprBinaryOp{
		token.Plus:  ast.ExprBinaryAdd,
		token.Minus: ast.ExprBinarySub,
	}
)

var assignKinds = map[token.Kind]ast.StmtKind{
	token.Assign:      ast.StmtAssign,
	token.PlusAssign:  ast.StmtPlusAssign,
	token.MinusAssign: ast.StmtMinusAssign,
}
