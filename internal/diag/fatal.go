package diag

import (
	"errors"

	"dmc/internal/source"
)

// Fatal is the error a phase returns after reporting a unit-aborting
// diagnostic. The diagnostic has already reached the Reporter.
type Fatal struct {
	Diag Diagnostic
}

// NewFatal wraps an already reported diagnostic.
func NewFatal(d Diagnostic) *Fatal {
	return &Fatal{Diag: d}
}

func (f *Fatal) Error() string {
	if f.Diag.IsGlobal() {
		return f.Diag.Message
	}
	return f.Diag.Primary.Start.String() + ": " + f.Diag.Message
}

// Span is the primary location of the failure.
func (f *Fatal) Span() source.Span {
	return f.Diag.Primary
}

// AsFatal extracts a *Fatal from an error chain.
func AsFatal(err error) (*Fatal, bool) {
	var f *Fatal
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// Fail reports an error diagnostic and returns it as a *Fatal.
func Fail(r Reporter, code Code, primary source.Span, msg string, notes ...Note) *Fatal {
	d := New(SevError, code, primary, msg)
	d.Notes = notes
	if r != nil {
		r.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
	}
	return NewFatal(d)
}
