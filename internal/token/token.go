package token

import (
	"fmt"
	"strconv"

	"dmc/internal/source"
)

// ValueKind tells which literal payload a token carries.
type ValueKind uint8

const (
	NoValue ValueKind = iota
	TextValue
	IntValue
)

// Token is one lexical token. Span is zero for synthetic tokens.
type Token struct {
	Kind      Kind
	Span      source.Span
	ValueKind ValueKind
	Text      string // identifier name, unescaped string, comment body
	Int       int64
	// Indent is the leading indentation depth; valid only when AtLineStart.
	Indent      uint32
	AtLineStart bool
}

// Synthetic builds a token without a span.
func Synthetic(k Kind) Token {
	return Token{Kind: k}
}

// HasSpan reports whether the token maps back to source text.
func (t Token) HasSpan() bool {
	return !t.Span.IsZero()
}

// Value returns the literal payload as string or int64, or nil.
func (t Token) Value() any {
	switch t.ValueKind {
	case TextValue:
		return t.Text
	case IntValue:
		return t.Int
	default:
		return nil
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

func (t Token) String() string {
	switch t.ValueKind {
	case TextValue:
		return fmt.Sprintf("%s(%s)", t.Kind, strconv.Quote(t.Text))
	case IntValue:
		return fmt.Sprintf("%s(%d)", t.Kind, t.Int)
	default:
		return t.Kind.String()
	}
}
