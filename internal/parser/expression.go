package parser

import (
	"dmc/internal/ast"
	"dmc/internal/diag"
	"dmc/internal/source"
	"dmc/internal/token"
)

// parseExpr is the entry of the expression grammar. NoExprID with a nil
// error means no expression starts here.
func (p *Parser) parseExpr() (ast.ExprID, error) {
	return p.parseSliceExpr()
}

// parseSliceExpr: lo .. hi, non-associative.
func (p *Parser) parseSliceExpr() (ast.ExprID, error) {
	start := p.peek().Span
	lo, err := p.parseLogicalOr()
	if err != nil || !lo.IsValid() {
		return lo, err
	}
	if _, ok := p.accept(token.DotDot); !ok {
		return lo, nil
	}
	hi, err := p.expectExpr(p.parseLogicalOr)
	if err != nil {
		return ast.NoExprID, err
	}
	return p.arenas.Exprs.NewSlice(p.spanFrom(start), lo, hi), nil
}

func (p *Parser) parseLogicalOr() (ast.ExprID, error) {
	return p.parseBinary(p.parseLogicalAnd, opsLogicalOr)
}

func (p *Parser) parseLogicalAnd() (ast.ExprID, error) {
	return p.parseBinary(p.parseBitwiseOr, opsLogicalAnd)
}

func (p *Parser) parseBitwiseOr() (ast.ExprID, error) {
	return p.parseBinary(p.parseEquality, opsBitwiseOr)
}

func (p *Parser) parseEquality() (ast.ExprID, error) {
	return p.parseBinary(p.parseRelational, opsEquality)
}

func (p *Parser) parseRelational() (ast.ExprID, error) {
	return p.parseBinary(p.parseCast, opsRelational)
}

// parseCast: EXPR as TYPE, left-associative.
func (p *Parser) parseCast() (ast.ExprID, error) {
	start := p.peek().Span
	expr, err := p.parseShift()
	if err != nil || !expr.IsValid() {
		return expr, err
	}
	for p.at(token.KwAs) {
		p.advance()
		typ, err := p.expectType()
		if err != nil {
			return ast.NoExprID, err
		}
		expr = p.arenas.Exprs.NewCast(p.spanFrom(start), expr, typ)
	}
	return expr, nil
}

func (p *Parser) parseShift() (ast.ExprID, error) {
	return p.parseBinary(p.parseAdditive, opsShift)
}

func (p *Parser) parseAdditive() (ast.ExprID, error) {
	return p.parseBinary(p.parseUnary, opsAdditive)
}

// parseBinary handles one left-associative level.
func (p *Parser) parseBinary(next func() (ast.ExprID, error), ops map[token.Kind]ast.ExprBinaryOp) (ast.ExprID, error) {
	start := p.peek().Span
	left, err := next()
	if err != nil || !left.IsValid() {
		return left, err
	}
	for {
		op, ok := ops[p.peek().Kind]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := p.expectExpr(next)
		if err != nil {
			return ast.NoExprID, err
		}
		left = p.arenas.Exprs.NewBinary(p.spanFrom(start), op, left, right)
	}
}

func (p *Parser) parseUnary() (ast.ExprID, error) {
	if !p.at(token.Bang) {
		return p.parsePostfix()
	}
	bang := p.advance()
	operand, err := p.expectExpr(p.parseUnary)
	if err != nil {
		return ast.NoExprID, err
	}
	return p.arenas.Exprs.NewUnary(p.spanFrom(bang.Span), ast.ExprUnaryNot, operand), nil
}

func (p *Parser) parsePostfix() (ast.ExprID, error) {
	start := p.peek().Span
	expr, err := p.parseAtom()
	if err != nil || !expr.IsValid() {
		return expr, err
	}
	for {
		switch p.peek().Kind {
		case token.LParen:
			args, err := p.parseArgList()
			if err != nil {
				return ast.NoExprID, err
			}
			expr = p.arenas.Exprs.NewCall(p.spanFrom(start), expr, args)
		case token.Dot:
			p.advance()
			member, err := p.ident()
			if err != nil {
				return ast.NoExprID, err
			}
			expr = p.arenas.Exprs.NewMember(p.spanFrom(start), expr, member)
		case token.LBracket:
			p.advance()
			index, err := p.parseExpr()
			if err != nil {
				return ast.NoExprID, err
			}
			if _, err := p.expectToken(token.RBracket); err != nil {
				return ast.NoExprID, err
			}
			expr = p.arenas.Exprs.NewIndex(p.spanFrom(start), expr, index)
		case token.PlusPlus:
			p.advance()
			expr = p.arenas.Exprs.NewUnary(p.spanFrom(start), ast.ExprUnaryPostInc, expr)
		case token.MinusMinus:
			p.advance()
			expr = p.arenas.Exprs.NewUnary(p.spanFrom(start), ast.ExprUnaryPostDec, expr)
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseAtom() (ast.ExprID, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident, token.Slash:
		return p.parsePath()
	case token.Integer:
		p.advance()
		return p.arenas.Exprs.NewLitInt(tok.Span, tok.Int), nil
	case token.StringDQ, token.StringSQ:
		p.advance()
		value := p.arenas.Strings.Intern(tok.Text)
		return p.arenas.Exprs.NewLitString(tok.Span, value, tok.Kind == token.StringSQ), nil
	case token.LParen:
		p.advance()
		inner, err := p.expectExpr(p.parseExpr)
		if err != nil {
			return ast.NoExprID, err
		}
		if _, err := p.expectToken(token.RParen); err != nil {
			return ast.NoExprID, err
		}
		return inner, nil
	case token.KwNew:
		return p.parseNew()
	case token.Dot:
		p.advance()
		return p.arenas.Exprs.NewReturnValue(tok.Span), nil
	case token.DotDot:
		p.advance()
		return p.arenas.Exprs.NewSuperMethod(tok.Span), nil
	}
	return ast.NoExprID, nil
}

// parsePath: IDENT {/ IDENT} or / IDENT {/ IDENT}. A slash is always a path
// separator; there is no division operator.
func (p *Parser) parsePath() (ast.ExprID, error) {
	start := p.peek().Span
	var expr ast.ExprID
	switch {
	case p.at(token.Ident):
		expr = p.identFrom(p.advance())
	case p.at(token.Slash):
		expr = p.arenas.Exprs.NewRootNamespace(p.peek().Span)
		if err := p.pathMember(&expr, start); err != nil {
			return ast.NoExprID, err
		}
	default:
		return ast.NoExprID, nil
	}
	for p.at(token.Slash) && p.peekAt(1).Kind == token.Ident {
		if err := p.pathMember(&expr, start); err != nil {
			return ast.NoExprID, err
		}
	}
	return expr, nil
}

func (p *Parser) pathMember(ns *ast.ExprID, start source.Span) error {
	p.advance() // '/'
	member, err := p.ident()
	if err != nil {
		return err
	}
	*ns = p.arenas.Exprs.NewPath(p.spanFrom(start), *ns, member)
	return nil
}

// parseNew: new PATH [(ARGS)].
func (p *Parser) parseNew() (ast.ExprID, error) {
	kw := p.advance()
	class, err := p.parsePath()
	if err != nil {
		return ast.NoExprID, err
	}
	if !class.IsValid() {
		return ast.NoExprID, p.expected(diag.SynExpectIdentifier, "type path")
	}
	var args ast.ArgList
	if p.at(token.LParen) {
		if args, err = p.parseArgList(); err != nil {
			return ast.NoExprID, err
		}
	}
	return p.arenas.Exprs.NewNew(p.spanFrom(kw.Span), class, args), nil
}

// parseArgList: ( [ARG {, ARG}] ) where ARG is EXPR or IDENT = EXPR.
func (p *Parser) parseArgList() (ast.ArgList, error) {
	var args ast.ArgList
	if _, err := p.expectToken(token.LParen); err != nil {
		return args, err
	}
	for !p.at(token.RParen) {
		ctx := p.saveContext()
		named := false
		if p.at(token.Ident) {
			nameTok := p.advance()
			if _, ok := p.accept(token.Assign); ok {
				value, err := p.expectExpr(p.parseExpr)
				if err != nil {
					return args, err
				}
				args.Named = append(args.Named, ast.NamedArg{
					Name:  p.identFrom(nameTok),
					Value: value,
					Span:  p.spanFrom(nameTok.Span),
				})
				named = true
			} else {
				p.restoreContext(ctx)
			}
		}
		if !named {
			value, err := p.expectExpr(p.parseExpr)
			if err != nil {
				return args, err
			}
			args.Positional = append(args.Positional, value)
		}
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	_, err := p.expectToken(token.RParen)
	return args, err
}
