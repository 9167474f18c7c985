package lexer

import (
	"fmt"

	"dmc/internal/diag"
	"dmc/internal/source"
	"dmc/internal/token"
)

// Lexer turns one unit into tokens. Scanning a single character may emit
// several tokens at once (synthetic block tokens), so output goes through a
// FIFO queue that Next drains before scanning further input.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options

	queue []token.Token
	head  int
	done  bool

	// indentation state
	indent         uint32 // depth measured on the current line
	atLineStart    bool   // no significant token emitted on this line yet
	indentClosed   bool   // a leading comment ended indent measurement
	lastIndent     uint32 // depth of the last structural line
	indentChar     rune   // ' ' or '\t' once pinned
	indentSpaces   int    // learned run length of one space level
	lastWasNewline bool
	braceDepth     int
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:        file,
		cursor:      NewCursor(file),
		opts:        opts,
		atLineStart: true,
	}
}

// Next returns the next token. After the last token it keeps returning EOF.
// A non-nil error is a *diag.Fatal that has already been reported.
func (lx *Lexer) Next() (token.Token, error) {
	for lx.head == len(lx.queue) {
		if lx.done {
			return token.Token{Kind: token.EOF}, nil
		}
		lx.queue = lx.queue[:0]
		lx.head = 0
		if err := lx.scan(); err != nil {
			lx.done = true
			return token.Token{Kind: token.Invalid}, err
		}
	}
	tok := lx.queue[lx.head]
	lx.head++
	return tok, nil
}

// Tokenize drains a new lexer over file. EOF is not included.
func Tokenize(file *source.File, opts Options) ([]token.Token, error) {
	lx := New(file, opts)
	var out []token.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return out, err
		}
		if tok.Kind == token.EOF {
			return out, nil
		}
		out = append(out, tok)
	}
}

// scan pushes at least one token onto the queue or marks the end of input.
func (lx *Lexer) scan() error {
	if err := lx.consumeLineMarkers(); err != nil {
		return err
	}
	for !lx.cursor.EOF() {
		start := lx.cursor.Next()
		switch ch := lx.cursor.Peek(); {
		case ch == '\n':
			lx.cursor.Bump()
			lx.emit(token.Token{Kind: token.Newline, Span: source.PointSpan(start)})
			lx.indent = 0
			lx.atLineStart = true
			lx.indentClosed = false
			return nil
		case lx.cursor.HasPrefix("/*"):
			return lx.scanBlockComment()
		case lx.cursor.HasPrefix("//"):
			lx.scanLineComment()
			return nil
		case ch == ' ' || ch == '\t':
			if !lx.atLineStart || lx.indentClosed {
				lx.cursor.Bump()
				continue
			}
			if err := lx.scanIndent(); err != nil {
				return err
			}
		case ch == '\r':
			lx.cursor.Bump()
		default:
			return lx.scanToken()
		}
	}
	lx.finish()
	return nil
}

func (lx *Lexer) scanToken() error {
	ch := lx.cursor.Peek()
	switch {
	case ch == '"' || ch == '\'':
		return lx.scanString()
	case isDec(ch):
		return lx.scanNumber()
	case isIdentStart(ch):
		lx.scanIdentOrKeyword()
		return nil
	}
	if lx.scanOperator() {
		return nil
	}
	start := lx.cursor.Next()
	lx.cursor.Bump()
	return lx.fail(diag.LexUnknownChar, lx.cursor.SpanFrom(start), fmt.Sprintf("Unexpected character %q", ch))
}

// finish closes every open indent level at end of input.
func (lx *Lexer) finish() {
	for lx.lastIndent > 0 {
		lx.push(token.Synthetic(token.BlockEnd))
		lx.lastIndent--
	}
	lx.done = true
}

func (lx *Lexer) push(tok token.Token) {
	lx.queue = append(lx.queue, tok)
}
