package lexer

import (
	"strconv"
	"strings"

	"dmc/internal/diag"
	"dmc/internal/token"
)

// scanNumber reads a decimal integer. A '.' inside the digit run is an
// error unless it starts the '..' operator.
func (lx *Lexer) scanNumber() error {
	start := lx.cursor.Next()
	var digits strings.Builder
	for isDec(lx.cursor.Peek()) {
		digits.WriteRune(lx.cursor.Bump())
	}
	if lx.cursor.Peek() == '.' && lx.cursor.PeekAt(1) != '.' {
		lx.cursor.Bump()
		return lx.fail(diag.LexDecimalUnsupported, lx.cursor.SpanFrom(start), "Decimals are not yet supported")
	}
	sp := lx.cursor.SpanFrom(start)
	v, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return lx.fail(diag.LexIntegerOverflow, sp, "Integer literal out of range: "+digits.String())
	}
	lx.emit(token.Token{Kind: token.Integer, Span: sp, ValueKind: token.IntValue, Int: v})
	return nil
}
