package parser

import (
	"dmc/internal/ast"
	"dmc/internal/diag"
	"dmc/internal/source"
	"dmc/internal/token"
)

// Object-tree dialect. A unit is a list of
//
//	/path = EXPR
//	/path
//		var/type/name = EXPR
//		proc/name(type/arg = EXPR)
//			BODY
//		name = EXPR
//		child
//			...
//
// where braces may replace indentation.

// parseObjectDecl parses one top-level declaration.
func (p *Parser) parseObjectDecl() (ast.StmtID, error) {
	start := p.peek().Span
	path, err := p.parsePath()
	if err != nil || !path.IsValid() {
		return ast.NoStmtID, err
	}
	if _, ok := p.accept(token.Assign); ok {
		value, err := p.expectExpr(p.parseExpr)
		if err != nil {
			return ast.NoStmtID, err
		}
		return p.arenas.Stmts.NewAssign(p.spanFrom(start), ast.StmtAssign, path, value), nil
	}
	return p.parseClassBody(start, path)
}

// parseClassBody parses the optional block after a class path.
func (p *Parser) parseClassBody(start source.Span, path ast.ExprID) (ast.StmtID, error) {
	data := ast.StmtClassData{Path: path}
	ctx := p.saveContext()
	p.skipNewlines()
	if !p.at(token.BlockBegin) {
		p.restoreContext(ctx)
		return p.arenas.Stmts.NewClass(p.spanFrom(start), data), nil
	}
	p.advance()
	for {
		p.skipNewlines()
		if p.at(token.BlockEnd) {
			break
		}
		if err := p.parseClassMember(&data); err != nil {
			return ast.NoStmtID, err
		}
		if err := p.separator(); err != nil {
			return ast.NoStmtID, err
		}
	}
	p.advance()
	return p.arenas.Stmts.NewClass(p.spanFrom(start), data), nil
}

func (p *Parser) parseClassMember(data *ast.StmtClassData) error {
	tok := p.peek()
	switch tok.Kind {
	case token.KwVar:
		p.advance()
		if p.at(token.Slash) {
			p.advance()
			v, err := p.parseObjectVar(tok.Span)
			if err != nil {
				return err
			}
			data.Vars = append(data.Vars, v)
			return nil
		}
		return p.parseSection(func() error {
			v, err := p.parseObjectVar(p.peek().Span)
			if err == nil {
				data.Vars = append(data.Vars, v)
			}
			return err
		})
	case token.KwProc, token.KwVerb:
		p.advance()
		verb := tok.Kind == token.KwVerb
		add := func(proc ast.StmtID, inBlock bool) {
			if verb {
				data.Verbs = append(data.Verbs, proc)
				return
			}
			data.Procs = append(data.Procs, ast.ProcRef{Proc: proc, InProcBlock: inBlock})
		}
		if p.at(token.Slash) {
			p.advance()
			proc, err := p.parseProcDef(tok.Span, verb)
			if err != nil {
				return err
			}
			add(proc, false)
			return nil
		}
		return p.parseSection(func() error {
			proc, err := p.parseProcDef(p.peek().Span, verb)
			if err == nil {
				add(proc, true)
			}
			return err
		})
	case token.Ident, token.Slash:
		return p.parseNamedMember(data)
	}
	return p.expected(diag.SynExpectStatement, "class member")
}

// parseNamedMember handles NAME = EXPR, NAME(PARAMS) BLOCK and nested classes.
func (p *Parser) parseNamedMember(data *ast.StmtClassData) error {
	start := p.peek().Span
	path, err := p.parsePath()
	if err != nil {
		return err
	}
	isIdent := p.arenas.Exprs.Get(path).Kind == ast.ExprIdent
	switch {
	case isIdent && p.at(token.Assign):
		p.advance()
		value, err := p.expectExpr(p.parseExpr)
		if err != nil {
			return err
		}
		data.Properties = append(data.Properties, ast.Property{Name: path, Value: value, Span: p.spanFrom(start)})
	case isIdent && p.at(token.LParen):
		proc, err := p.finishProcDef(start, path, false)
		if err != nil {
			return err
		}
		data.Procs = append(data.Procs, ast.ProcRef{Proc: proc})
	default:
		class, err := p.parseClassBody(start, path)
		if err != nil {
			return err
		}
		data.Classes = append(data.Classes, class)
	}
	return nil
}

// parseSection runs item for every line of an indented var/proc/verb section.
func (p *Parser) parseSection(item func() error) error {
	p.skipNewlines()
	if _, err := p.expectToken(token.BlockBegin); err != nil {
		return err
	}
	for {
		p.skipNewlines()
		if p.at(token.BlockEnd) {
			break
		}
		if err := item(); err != nil {
			return err
		}
		if err := p.separator(); err != nil {
			return err
		}
	}
	p.advance()
	return nil
}

// slashedNames reads NAME {/ NAME} and splits it into a type path and the
// final name.
func (p *Parser) slashedNames() (typePath, name ast.ExprID, err error) {
	start := p.peek().Span
	if name, err = p.ident(); err != nil {
		return ast.NoExprID, ast.NoExprID, err
	}
	for p.at(token.Slash) {
		p.advance()
		next, err := p.ident()
		if err != nil {
			return ast.NoExprID, ast.NoExprID, err
		}
		if !typePath.IsValid() {
			typePath = name
		} else {
			nameSpan := p.arenas.Exprs.Get(name).Span
			typePath = p.arenas.Exprs.NewPath(start.Cover(nameSpan), typePath, name)
		}
		name = next
	}
	return typePath, name, nil
}

// parseObjectVar: [TYPE/...]NAME [= EXPR].
func (p *Parser) parseObjectVar(start source.Span) (ast.StmtID, error) {
	typePath, name, err := p.slashedNames()
	if err != nil {
		return ast.NoStmtID, err
	}
	value := ast.NoExprID
	if _, ok := p.accept(token.Assign); ok {
		if value, err = p.expectExpr(p.parseExpr); err != nil {
			return ast.NoStmtID, err
		}
	}
	return p.arenas.Stmts.NewVar(p.spanFrom(start), name, value, typePath), nil
}

// parseProcDef: NAME(PARAMS) BLOCK.
func (p *Parser) parseProcDef(start source.Span, verb bool) (ast.StmtID, error) {
	name, err := p.ident()
	if err != nil {
		return ast.NoStmtID, err
	}
	return p.finishProcDef(start, name, verb)
}

func (p *Parser) finishProcDef(start source.Span, name ast.ExprID, verb bool) (ast.StmtID, error) {
	data := ast.StmtProcData{Name: name, Verb: verb}
	if _, err := p.expectToken(token.LParen); err != nil {
		return ast.NoStmtID, err
	}
	for !p.at(token.RParen) {
		prmStart := p.peek().Span
		typePath, prmName, err := p.slashedNames()
		if err != nil {
			return ast.NoStmtID, err
		}
		prm := ast.Param{Name: prmName, TypePath: typePath}
		if _, ok := p.accept(token.Assign); ok {
			if prm.Default, err = p.expectExpr(p.parseExpr); err != nil {
				return ast.NoStmtID, err
			}
		}
		prm.Span = p.spanFrom(prmStart)
		data.Params = append(data.Params, prm)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	if _, err := p.expectToken(token.RParen); err != nil {
		return ast.NoStmtID, err
	}
	body, err := p.expectBlock()
	if err != nil {
		return ast.NoStmtID, err
	}
	data.Body = body
	return p.arenas.Stmts.NewProc(p.spanFrom(start), data), nil
}
