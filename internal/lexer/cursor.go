package lexer

import (
	"strings"
	"unicode/utf8"

	"dmc/internal/source"
)

// Cursor walks unit text rune by rune and tracks the source point of the
// next and of the last consumed rune. Line markers may reposition it.
type Cursor struct {
	src  string
	off  int
	next source.Point // позиция следующего символа
	last source.Point // позиция последнего прочитанного символа
}

// NewCursor creates a cursor at line 1, column 1 of f.
func NewCursor(f *source.File) Cursor {
	start := source.Point{Unit: f.Name, Line: 1, Column: 1}
	return Cursor{src: f.Content, next: start, last: start}
}

// EOF проверяет, достигнут ли конец текста
func (c *Cursor) EOF() bool {
	return c.off >= len(c.src)
}

// Peek returns the next rune without consuming it, 0 at EOF.
func (c *Cursor) Peek() rune {
	if c.EOF() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(c.src[c.off:])
	return r
}

// PeekAt returns the rune n positions ahead (0 is Peek), 0 past EOF.
func (c *Cursor) PeekAt(n int) rune {
	off := c.off
	for ; n > 0 && off < len(c.src); n-- {
		_, size := utf8.DecodeRuneInString(c.src[off:])
		off += size
	}
	if off >= len(c.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(c.src[off:])
	return r
}

// Bump consumes one rune and returns it.
func (c *Cursor) Bump() rune {
	if c.EOF() {
		return 0
	}
	r, size := utf8.DecodeRuneInString(c.src[c.off:])
	c.off += size
	c.last = c.next
	if r == '\n' {
		c.next.Line++
		c.next.Column = 1
	} else {
		c.next.Column++
	}
	return r
}

// Eat consumes r if it is next.
func (c *Cursor) Eat(r rune) bool {
	if c.Peek() == r && !c.EOF() {
		c.Bump()
		return true
	}
	return false
}

// HasPrefix reports whether the remaining text starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	return strings.HasPrefix(c.src[c.off:], s)
}

// EatPrefix consumes s if the remaining text starts with it.
func (c *Cursor) EatPrefix(s string) bool {
	if !c.HasPrefix(s) {
		return false
	}
	for range utf8.RuneCountInString(s) {
		c.Bump()
	}
	return true
}

// Next is the point of the rune Peek would return.
func (c *Cursor) Next() source.Point {
	return c.next
}

// Last is the point of the most recently consumed rune.
func (c *Cursor) Last() source.Point {
	return c.last
}

// SpanFrom covers start up to and including the last consumed rune.
func (c *Cursor) SpanFrom(start source.Point) source.Span {
	return source.Span{Start: start, End: c.last}
}

// RestOfLine returns the text up to, not including, the next '\n'.
func (c *Cursor) RestOfLine() string {
	rest := c.src[c.off:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		return rest[:i]
	}
	return rest
}

// SkipLine moves past the next '\n' without updating points; the caller
// repositions the cursor afterwards.
func (c *Cursor) SkipLine() {
	rest := c.src[c.off:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		c.off += i + 1
		return
	}
	c.off = len(c.src)
}

// Reposition makes p the point of the next rune.
func (c *Cursor) Reposition(p source.Point) {
	c.next = p
}

// Mark это метка, чтобы откатить курсор
type Mark struct {
	off        int
	next, last source.Point
}

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark{off: c.off, next: c.next, last: c.last}
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.off, c.next, c.last = m.off, m.next, m.last
}
