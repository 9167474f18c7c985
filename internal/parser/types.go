package parser

import (
	"dmc/internal/ast"
	"dmc/internal/token"
)

// parseType: *TYPE | TUPLE | IDENT.
func (p *Parser) parseType() (ast.TypeID, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.Star:
		p.advance()
		elem, err := p.expectType()
		if err != nil {
			return ast.NoTypeID, err
		}
		return p.arenas.Types.NewPointer(p.spanFrom(tok.Span), elem), nil
	case token.LParen:
		return p.parseTupleType()
	case token.Ident:
		p.advance()
		return p.arenas.Types.NewName(tok.Span, p.arenas.Strings.Intern(tok.Text)), nil
	}
	return ast.NoTypeID, nil
}

// parseTupleType accepts the single-line form (a: T, U) and the multi-line
// form where a newline right after '(' opens an indented item list.
func (p *Parser) parseTupleType() (ast.TypeID, error) {
	open, err := p.expectToken(token.LParen)
	if err != nil {
		return ast.NoTypeID, err
	}
	var items []ast.TupleItem
	if p.at(token.Newline) {
		p.skipNewlines()
		if _, err := p.expectToken(token.BlockBegin); err != nil {
			return ast.NoTypeID, err
		}
		for {
			for p.atOr(token.Newline, token.Comma) {
				p.advance()
			}
			if p.at(token.BlockEnd) {
				break
			}
			item, err := p.parseTupleItem()
			if err != nil {
				return ast.NoTypeID, err
			}
			items = append(items, item)
		}
		p.advance() // BLOCK_END
		// the lexer follows every BLOCK_END with a NEWLINE
		p.accept(token.Newline)
	} else {
		for !p.at(token.RParen) {
			item, err := p.parseTupleItem()
			if err != nil {
				return ast.NoTypeID, err
			}
			items = append(items, item)
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
	}
	if _, err := p.expectToken(token.RParen); err != nil {
		return ast.NoTypeID, err
	}
	return p.arenas.Types.NewTuple(p.spanFrom(open.Span), items), nil
}

// parseTupleItem: [IDENT :] TYPE.
func (p *Parser) parseTupleItem() (ast.TupleItem, error) {
	start := p.peek().Span
	item := ast.TupleItem{}
	if p.at(token.Ident) {
		ctx := p.saveContext()
		nameTok := p.advance()
		if _, ok := p.accept(token.Colon); ok {
			item.Name = p.identFrom(nameTok)
		} else {
			p.restoreContext(ctx)
		}
	}
	typ, err := p.expectType()
	if err != nil {
		return item, err
	}
	item.Type = typ
	item.Span = p.spanFrom(start)
	return item, nil
}
