package lexer

import (
	"dmc/internal/token"
)

// scanOperator matches the longest operator at the cursor.
func (lx *Lexer) scanOperator() bool {
	start := lx.cursor.Next()
	for _, op := range token.Operators {
		if lx.cursor.EatPrefix(op.Text) {
			lx.emit(token.Token{Kind: op.Kind, Span: lx.cursor.SpanFrom(start)})
			return true
		}
	}
	return false
}
