package lexer

import (
	"dmc/internal/diag"
	"dmc/internal/token"
)

// emit queues a scanned token. The first significant token of a line
// compares the line's indent with lastIndent and synthesizes block tokens.
// Newlines and comments never trigger synthesis.
func (lx *Lexer) emit(tok token.Token) {
	switch tok.Kind {
	case token.Newline:
		coalesced := lx.opts.CoalesceNewlines && lx.lastWasNewline
		lx.lastWasNewline = true
		lx.atLineStart = false
		if !coalesced {
			lx.push(tok)
		}
		return
	case token.Comment:
		// the indent stays for the next token; later whitespace is not indent
		if lx.atLineStart {
			lx.indentClosed = true
		}
		lx.push(tok)
		return
	}

	lx.lastWasNewline = false
	if lx.atLineStart {
		tok.Indent = lx.indent
		tok.AtLineStart = true
		// внутри фигурных скобок отступы не значимы
		if lx.braceDepth == 0 {
			lx.syncIndent()
		}
		lx.atLineStart = false
	}
	lx.push(tok)

	switch tok.Kind {
	case token.BlockBegin:
		lx.braceDepth++
	case token.BlockEnd:
		if lx.braceDepth > 0 {
			lx.braceDepth--
		}
	}
}

func (lx *Lexer) syncIndent() {
	for lx.indent > lx.lastIndent {
		lx.push(token.Synthetic(token.BlockBegin))
		lx.lastIndent++
	}
	for lx.indent < lx.lastIndent {
		lx.push(token.Synthetic(token.BlockEnd))
		// the statement after a dedented block still needs its separator
		lx.push(token.Synthetic(token.Newline))
		lx.lastIndent--
	}
}

// scanIndent consumes one indent level at the start of a line.
// Whitespace-only lines are skipped whole: they never reach a token.
func (lx *Lexer) scanIndent() error {
	if lx.blankAfterWhitespace() {
		for lx.cursor.Peek() == ' ' || lx.cursor.Peek() == '\t' {
			lx.cursor.Bump()
		}
		return nil
	}

	start := lx.cursor.Next()
	ch := lx.cursor.Peek()
	if !lx.opts.AllowMixedIndentation {
		switch lx.indentChar {
		case 0:
			lx.indentChar = ch
		case ch:
		default:
			lx.cursor.Bump()
			return lx.fail(diag.LexMixedIndentation, lx.cursor.SpanFrom(start),
				"Mixing tabs and spaces in indentation")
		}
	}

	if ch == '\t' {
		lx.cursor.Bump()
		lx.indent++
		return nil
	}

	if lx.indentSpaces == 0 {
		// первая отступленная строка задаёт ширину уровня
		n := 0
		for lx.cursor.Eat(' ') {
			n++
		}
		lx.indentSpaces = n
		lx.indent++
		return nil
	}
	for range lx.indentSpaces {
		if !lx.cursor.Eat(' ') {
			return lx.fail(diag.LexInconsistentIndentation, lx.cursor.SpanFrom(start), "Inconsistent indentation")
		}
	}
	lx.indent++
	return nil
}

// blankAfterWhitespace reports whether only spaces/tabs remain before the
// end of the current line.
func (lx *Lexer) blankAfterWhitespace() bool {
	for _, r := range lx.cursor.RestOfLine() {
		if r != ' ' && r != '\t' && r != '\r' {
			return false
		}
	}
	return true
}
