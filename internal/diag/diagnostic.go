package diag

import (
	"dmc/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one reported problem. A zero Primary span marks a global
// diagnostic (errorGlobal / warnGlobal).
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

// IsGlobal reports whether the diagnostic has no location.
func (d Diagnostic) IsGlobal() bool {
	return d.Primary.IsZero()
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
