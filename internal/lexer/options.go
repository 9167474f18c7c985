package lexer

import (
	"dmc/internal/diag"
	"dmc/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil
	// CoalesceNewlines merges runs of NEWLINE tokens into one.
	CoalesceNewlines bool
	// AllowMixedIndentation lets tabs and space runs both count as indent
	// levels within one unit. By default the first one used pins the style.
	AllowMixedIndentation bool
}

func (lx *Lexer) fail(code diag.Code, sp source.Span, msg string) error {
	return diag.Fail(lx.opts.Reporter, code, sp, msg)
}
