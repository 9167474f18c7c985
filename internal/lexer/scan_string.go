package lexer

import (
	"strings"

	"dmc/internal/diag"
	"dmc/internal/token"
)

// scanString reads a "..." or '...' literal. \t and \n are translated, any
// other escaped rune passes through as itself. Newlines are allowed.
func (lx *Lexer) scanString() error {
	start := lx.cursor.Next()
	quote := lx.cursor.Bump()
	kind := token.StringDQ
	if quote == '\'' {
		kind = token.StringSQ
	}
	var text strings.Builder
	for {
		if lx.cursor.EOF() {
			return lx.fail(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "Unterminated string literal")
		}
		ch := lx.cursor.Bump()
		switch ch {
		case quote:
			lx.emit(token.Token{
				Kind:      kind,
				Span:      lx.cursor.SpanFrom(start),
				ValueKind: token.TextValue,
				Text:      text.String(),
			})
			return nil
		case '\\':
			if lx.cursor.EOF() {
				return lx.fail(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "Unterminated string literal")
			}
			switch esc := lx.cursor.Bump(); esc {
			case 't':
				text.WriteByte('\t')
			case 'n':
				text.WriteByte('\n')
			default:
				text.WriteRune(esc)
			}
		default:
			text.WriteRune(ch)
		}
	}
}
