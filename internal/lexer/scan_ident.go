package lexer

import (
	"strings"

	"dmc/internal/token"
)

// scanIdentOrKeyword reads [A-Za-z0-9_]+ and resolves keywords.
func (lx *Lexer) scanIdentOrKeyword() {
	start := lx.cursor.Next()
	var name strings.Builder
	for isIdentContinue(lx.cursor.Peek()) {
		name.WriteRune(lx.cursor.Bump())
	}
	sp := lx.cursor.SpanFrom(start)
	text := name.String()
	if kw, ok := token.LookupKeyword(text); ok {
		lx.emit(token.Token{Kind: kw, Span: sp})
		return
	}
	lx.emit(token.Token{Kind: token.Ident, Span: sp, ValueKind: token.TextValue, Text: text})
}
