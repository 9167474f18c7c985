package diagfmt

import (
	"fmt"
	"io"
	"sync"

	"dmc/internal/diag"
	"dmc/internal/source"
)

// PrettyReporter prints every diagnostic as soon as it is reported.
// Write failures are kept and returned by Err.
type PrettyReporter struct {
	mu   sync.Mutex
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
	err  error
}

func NewPrettyReporter(w io.Writer, fs *source.FileSet, opts PrettyOpts) *PrettyReporter {
	return &PrettyReporter{w: w, fs: fs, opts: opts}
}

func (r *PrettyReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	d := diag.New(sev, code, primary, msg)
	d.Notes = notes
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := FormatDiagnostic(r.w, d, r.fs, r.opts); err != nil && r.err == nil {
		r.err = err
	}
}

// Err returns the first formatting error.
func (r *PrettyReporter) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// SinkLog records the sink calls in order, one line each:
//
//	error(msg, unit:1:2-1:4)
//	errorGlobal(msg)
//	warnGlobal(msg)
//
// Other global severities are recorded as infoGlobal.
type SinkLog struct {
	mu      sync.Mutex
	Entries []string
}

func (l *SinkLog) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	var entry string
	switch {
	case !primary.IsZero():
		entry = fmt.Sprintf("%s(%s, %s)", sev, msg, primary)
	case sev == diag.SevError:
		entry = fmt.Sprintf("errorGlobal(%s)", msg)
	case sev == diag.SevWarning:
		entry = fmt.Sprintf("warnGlobal(%s)", msg)
	default:
		entry = fmt.Sprintf("infoGlobal(%s)", msg)
	}
	l.mu.Lock()
	l.Entries = append(l.Entries, entry)
	l.mu.Unlock()
}
