package parser

import (
	"fmt"
	"slices"

	"dmc/internal/ast"
	"dmc/internal/diag"
	"dmc/internal/source"
	"dmc/internal/token"
)

// context is a backtracking checkpoint.
type context struct {
	pos      int
	lastGood source.Span
}

func (p *Parser) saveContext() context {
	return context{pos: p.pos, lastGood: p.lastGood}
}

func (p *Parser) restoreContext(c context) {
	p.pos = c.pos
	p.lastGood = c.lastGood
}

func (p *Parser) eof() bool {
	return p.pos >= len(p.toks)
}

// peek returns the current token, or a spanless EOF past the end.
func (p *Parser) peek() token.Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return token.Synthetic(token.EOF)
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// advance съедает текущий токен и обновляет lastGood.
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.eof() {
		return tok
	}
	p.pos++
	if tok.HasSpan() {
		p.lastGood = tok.Span
	}
	return tok
}

func (p *Parser) accept(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) skipNewlines() {
	for p.at(token.Newline) {
		p.advance()
	}
}

// errSpan is the next token's span, or one column past the last consumed
// one when the next token is synthetic or missing.
func (p *Parser) errSpan() source.Span {
	if !p.eof() && p.toks[p.pos].HasSpan() {
		return p.toks[p.pos].Span
	}
	if p.lastGood.IsZero() {
		return source.PointSpan(source.Point{Unit: p.unit, Line: 1, Column: 1})
	}
	return p.lastGood.Past()
}

// spanFrom covers everything consumed since start.
func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.lastGood)
}

func (p *Parser) fail(code diag.Code, sp source.Span, msg string) error {
	return diag.Fail(p.opts.Reporter, code, sp, msg)
}

func (p *Parser) expected(code diag.Code, what string) error {
	return p.fail(code, p.errSpan(), "Expected "+what)
}

// expectToken consumes a token of kind k or fails.
func (p *Parser) expectToken(k token.Kind) (token.Token, error) {
	if p.at(k) {
		return p.advance(), nil
	}
	code := diag.SynUnexpectedToken
	if k == token.Ident {
		code = diag.SynExpectIdentifier
	}
	return token.Token{}, p.expected(code, token.Describe(k))
}

// expectExpr wraps an optional expression rule into a required one.
func (p *Parser) expectExpr(rule func() (ast.ExprID, error)) (ast.ExprID, error) {
	id, err := rule()
	if err != nil {
		return ast.NoExprID, err
	}
	if !id.IsValid() {
		return ast.NoExprID, p.expected(diag.SynExpectExpression, "expression")
	}
	return id, nil
}

func (p *Parser) expectType() (ast.TypeID, error) {
	id, err := p.parseType()
	if err != nil {
		return ast.NoTypeID, err
	}
	if !id.IsValid() {
		return ast.NoTypeID, p.expected(diag.SynExpectType, "type")
	}
	return id, nil
}

func (p *Parser) expectBlock() (ast.BlockID, error) {
	id, err := p.parseBlock()
	if err != nil {
		return ast.NoBlockID, err
	}
	if !id.IsValid() {
		return ast.NoBlockID, p.expected(diag.SynExpectBlock, "block")
	}
	return id, nil
}

func (p *Parser) expectStatement() (ast.StmtID, error) {
	id, err := p.parseStatement()
	if err != nil {
		return ast.NoStmtID, err
	}
	if !id.IsValid() {
		return ast.NoStmtID, p.expected(diag.SynExpectStatement, "statement")
	}
	return id, nil
}

// ident consumes an identifier token into an Ident expression.
func (p *Parser) ident() (ast.ExprID, error) {
	tok, err := p.expectToken(token.Ident)
	if err != nil {
		return ast.NoExprID, err
	}
	return p.identFrom(tok), nil
}

func (p *Parser) identFrom(tok token.Token) ast.ExprID {
	return p.arenas.Exprs.NewIdent(tok.Span, p.arenas.Strings.Intern(tok.Text))
}

// separator checks that a statement inside a block is properly terminated.
func (p *Parser) separator() error {
	if p.atOr(token.Newline, token.BlockEnd) {
		return nil
	}
	return p.fail(diag.SynExpectSeparator, p.errSpan(), fmt.Sprintf("Expected newline, got %s", token.Describe(p.peek().Kind)))
}
