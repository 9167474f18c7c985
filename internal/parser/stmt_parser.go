package parser

import (
	"dmc/internal/ast"
	"dmc/internal/diag"
	"dmc/internal/source"
	"dmc/internal/token"
)

// parseStatement returns NoStmtID when nothing statement-like starts here.
func (p *Parser) parseStatement() (ast.StmtID, error) {
	switch p.peek().Kind {
	case token.KwDel:
		return p.parseDelStmt()
	case token.KwFor:
		return p.parseForStmt()
	case token.KwFunc:
		return p.parseFuncStmt()
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwReturn:
		return p.parseReturnStmt()
	case token.KwSpawn:
		return p.parseSpawnStmt()
	case token.KwType:
		return p.parseTypeStmt()
	case token.KwVar:
		return p.parseVarStmt(true)
	}
	return p.parseExprStmt()
}

// parseExprStmt: EXPR [(= | += | -=) EXPR].
func (p *Parser) parseExprStmt() (ast.StmtID, error) {
	start := p.peek().Span
	expr, err := p.parseExpr()
	if err != nil || !expr.IsValid() {
		return ast.NoStmtID, err
	}
	kind, ok := assignKinds[p.peek().Kind]
	if !ok {
		return p.arenas.Stmts.NewExpr(p.spanFrom(start), expr), nil
	}
	p.advance()
	value, err := p.expectExpr(p.parseExpr)
	if err != nil {
		return ast.NoStmtID, err
	}
	return p.arenas.Stmts.NewAssign(p.spanFrom(start), kind, expr, value), nil
}

func (p *Parser) parseDelStmt() (ast.StmtID, error) {
	kw := p.advance()
	expr, err := p.expectExpr(p.parseExpr)
	if err != nil {
		return ast.NoStmtID, err
	}
	return p.arenas.Stmts.NewDel(p.spanFrom(kw.Span), expr), nil
}

func (p *Parser) parseReturnStmt() (ast.StmtID, error) {
	kw := p.advance()
	value, err := p.parseExpr()
	if err != nil {
		return ast.NoStmtID, err
	}
	return p.arenas.Stmts.NewReturn(p.spanFrom(kw.Span), value), nil
}

// parseVarStmt: var NAME = EXPR. The value is optional only for loop variables.
func (p *Parser) parseVarStmt(valueRequired bool) (ast.StmtID, error) {
	kw := p.advance()
	name, err := p.ident()
	if err != nil {
		return ast.NoStmtID, err
	}
	value := ast.NoExprID
	if valueRequired {
		if _, err := p.expectToken(token.Assign); err != nil {
			return ast.NoStmtID, err
		}
		if value, err = p.expectExpr(p.parseExpr); err != nil {
			return ast.NoStmtID, err
		}
	}
	return p.arenas.Stmts.NewVar(p.spanFrom(kw.Span), name, value, ast.NoExprID), nil
}

// parseTypeStmt: type NAME [= TYPE].
func (p *Parser) parseTypeStmt() (ast.StmtID, error) {
	kw := p.advance()
	nameTok, err := p.expectToken(token.Ident)
	if err != nil {
		return ast.NoStmtID, err
	}
	name := p.arenas.Types.NewName(nameTok.Span, p.arenas.Strings.Intern(nameTok.Text))
	def := ast.NoTypeID
	if _, ok := p.accept(token.Assign); ok {
		if def, err = p.expectType(); err != nil {
			return ast.NoStmtID, err
		}
	}
	return p.arenas.Stmts.NewTypeDecl(p.spanFrom(kw.Span), name, def), nil
}

// parseForStmt: for (var x | x in EXPR) BLOCK.
func (p *Parser) parseForStmt() (ast.StmtID, error) {
	kw := p.advance()
	if _, err := p.expectToken(token.LParen); err != nil {
		return ast.NoStmtID, err
	}
	var (
		decl  = ast.NoStmtID
		ident = ast.NoExprID
		err   error
	)
	if p.at(token.KwVar) {
		decl, err = p.parseVarStmt(false)
	} else {
		ident, err = p.ident()
	}
	if err != nil {
		return ast.NoStmtID, err
	}
	if _, err := p.expectToken(token.KwIn); err != nil {
		return ast.NoStmtID, err
	}
	iterable, err := p.expectExpr(p.parseExpr)
	if err != nil {
		return ast.NoStmtID, err
	}
	if _, err := p.expectToken(token.RParen); err != nil {
		return ast.NoStmtID, err
	}
	body, err := p.expectBlock()
	if err != nil {
		return ast.NoStmtID, err
	}
	return p.arenas.Stmts.NewForList(p.spanFrom(kw.Span), decl, ident, iterable, body), nil
}

func (p *Parser) parseSpawnStmt() (ast.StmtID, error) {
	kw := p.advance()
	if _, err := p.expectToken(token.LParen); err != nil {
		return ast.NoStmtID, err
	}
	delay, err := p.expectExpr(p.parseExpr)
	if err != nil {
		return ast.NoStmtID, err
	}
	if _, err := p.expectToken(token.RParen); err != nil {
		return ast.NoStmtID, err
	}
	body, err := p.expectBlock()
	if err != nil {
		return ast.NoStmtID, err
	}
	return p.arenas.Stmts.NewSpawn(p.spanFrom(kw.Span), delay, body), nil
}

// parseIfStmt: if EXPR [:] BLOCK [else [:] (BLOCK | STATEMENT)].
func (p *Parser) parseIfStmt() (ast.StmtID, error) {
	kw := p.advance()
	cond, err := p.expectExpr(p.parseExpr)
	if err != nil {
		return ast.NoStmtID, err
	}
	p.accept(token.Colon)
	then, err := p.expectBlock()
	if err != nil {
		return ast.NoStmtID, err
	}
	els := ast.NoBlockID
	ctx := p.saveContext()
	p.skipNewlines()
	if _, ok := p.accept(token.KwElse); ok {
		p.accept(token.Colon)
		if els, err = p.parseBlock(); err != nil {
			return ast.NoStmtID, err
		}
		if !els.IsValid() {
			stmt, err := p.expectStatement()
			if err != nil {
				return ast.NoStmtID, err
			}
			els = p.arenas.Blocks.New(p.arenas.Stmts.Get(stmt).Span, []ast.StmtID{stmt})
		}
	} else {
		p.restoreContext(ctx)
	}
	return p.arenas.Stmts.NewIf(p.spanFrom(kw.Span), cond, then, els), nil
}

// parseBlock: NEWLINE* BLOCK_BEGIN {STATEMENT NEWLINE} BLOCK_END.
func (p *Parser) parseBlock() (ast.BlockID, error) {
	ctx := p.saveContext()
	p.skipNewlines()
	if !p.at(token.BlockBegin) {
		p.restoreContext(ctx)
		return ast.NoBlockID, nil
	}
	begin := p.advance()
	var (
		stmts []ast.StmtID
		span  source.Span
	)
	if begin.HasSpan() {
		span = begin.Span
	}
	for {
		p.skipNewlines()
		if p.at(token.BlockEnd) {
			break
		}
		stmt, err := p.expectStatement()
		if err != nil {
			return ast.NoBlockID, err
		}
		stmts = append(stmts, stmt)
		span = span.Cover(p.arenas.Stmts.Get(stmt).Span)
		if err := p.separator(); err != nil {
			return ast.NoBlockID, err
		}
	}
	end := p.advance()
	if end.HasSpan() {
		span = span.Cover(end.Span)
	}
	return p.arenas.Blocks.New(span, stmts), nil
}

// parseFuncStmt: func NAME TUPLE -> TUPLE {@ATTR[(ARGS)]} [[:] BLOCK].
func (p *Parser) parseFuncStmt() (ast.StmtID, error) {
	kw := p.advance()
	var (
		data ast.StmtFuncData
		err  error
	)
	if data.Name, err = p.ident(); err != nil {
		return ast.NoStmtID, err
	}
	if data.Input, err = p.expectTuple("input tuple"); err != nil {
		return ast.NoStmtID, err
	}
	if _, err := p.expectToken(token.Arrow); err != nil {
		return ast.NoStmtID, err
	}
	if data.Output, err = p.expectTuple("output tuple"); err != nil {
		return ast.NoStmtID, err
	}
	for p.at(token.At) {
		at := p.advance()
		attr := ast.Attribute{}
		if attr.Name, err = p.ident(); err != nil {
			return ast.NoStmtID, err
		}
		if p.at(token.LParen) {
			if attr.Args, err = p.parseArgList(); err != nil {
				return ast.NoStmtID, err
			}
		}
		attr.Span = p.spanFrom(at.Span)
		data.Attrs = append(data.Attrs, attr)
	}
	if _, ok := p.accept(token.Colon); ok {
		data.Body, err = p.expectBlock()
	} else {
		data.Body, err = p.parseBlock()
	}
	if err != nil {
		return ast.NoStmtID, err
	}
	return p.arenas.Stmts.NewFunc(p.spanFrom(kw.Span), data), nil
}

func (p *Parser) expectTuple(what string) (ast.TypeID, error) {
	if !p.at(token.LParen) {
		return ast.NoTypeID, p.expected(diag.SynExpectType, what)
	}
	return p.parseTupleType()
}
