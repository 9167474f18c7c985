package lexer

import (
	"strings"

	"dmc/internal/diag"
	"dmc/internal/token"
)

// scanBlockComment reads a nestable /* */ comment. Text keeps nested
// delimiters verbatim.
func (lx *Lexer) scanBlockComment() error {
	start := lx.cursor.Next()
	lx.cursor.EatPrefix("/*")
	var text strings.Builder
	depth := 1
	for {
		if lx.cursor.EOF() {
			return lx.fail(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "Unterminated block comment")
		}
		switch {
		case lx.cursor.EatPrefix("/*"):
			depth++
			text.WriteString("/*")
		case lx.cursor.EatPrefix("*/"):
			depth--
			if depth == 0 {
				lx.emit(token.Token{
					Kind:      token.Comment,
					Span:      lx.cursor.SpanFrom(start),
					ValueKind: token.TextValue,
					Text:      text.String(),
				})
				return nil
			}
			text.WriteString("*/")
		default:
			text.WriteRune(lx.cursor.Bump())
		}
	}
}

func (lx *Lexer) scanLineComment() {
	start := lx.cursor.Next()
	lx.cursor.EatPrefix("//")
	text := lx.cursor.RestOfLine()
	for lx.cursor.Peek() != '\n' && !lx.cursor.EOF() {
		lx.cursor.Bump()
	}
	lx.emit(token.Token{
		Kind:      token.Comment,
		Span:      lx.cursor.SpanFrom(start),
		ValueKind: token.TextValue,
		Text:      text,
	})
}
