package diagfmt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"dmc/internal/diag"
	"dmc/internal/source"
)

func span(unit string, l1, c1, l2, c2 uint32) source.Span {
	return source.Span{
		Start: source.Point{Unit: unit, Line: l1, Column: c1},
		End:   source.Point{Unit: unit, Line: l2, Column: c2},
	}
}

func TestPrettyPreview(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("u", "var x = 1\n\tfoo bar\nb = 2")

	tests := []struct {
		name string
		d    diag.Diagnostic
		want string
	}{
		{
			name: "single column",
			d:    diag.New(diag.SevError, diag.SemaUnknownIdent, span("u", 1, 5, 1, 5), "Unknown name 'x'"),
			want: "u:1:5: error: Unknown name 'x'\nvar x = 1\n    ^\n",
		},
		{
			name: "tab is kept",
			d:    diag.New(diag.SevError, diag.SemaUnknownIdent, span("u", 2, 6, 2, 8), "Unknown name 'bar'"),
			want: "u:2:6: error: Unknown name 'bar'\n\tfoo bar\n\t    ^^^\n",
		},
		{
			name: "multi-line span gets one caret",
			d:    diag.New(diag.SevError, diag.SemaTypeMismatch, span("u", 2, 2, 3, 1), "bad"),
			want: "u:2:2: error: bad\n\tfoo bar\n\t^\n",
		},
		{
			name: "global",
			d:    diag.New(diag.SevWarning, diag.SemaSkipped, source.Span{}, "skipped"),
			want: "warning: skipped\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := FormatDiagnostic(&buf, tt.d, fs, PrettyOpts{}); err != nil {
				t.Fatalf("FormatDiagnostic: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Fatalf("got:\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestPrettyShowCodeAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("u", "a\n")
	d := diag.New(diag.SevError, diag.SemaUnknownIdent, span("u", 1, 1, 1, 1), "Unknown name 'a'").
		WithNote(source.Span{}, "declared nowhere")
	var buf bytes.Buffer
	if err := FormatDiagnostic(&buf, d, fs, PrettyOpts{ShowCode: true, ShowNotes: true, NoPreview: true}); err != nil {
		t.Fatal(err)
	}
	want := "u:1:1: error[" + diag.SemaUnknownIdent.ID() + "]: Unknown name 'a'\nnote: declared nowhere\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestPrettyCacheMiss(t *testing.T) {
	fs := source.NewFileSet()
	d := diag.New(diag.SevError, diag.SemaUnknownIdent, span("never", 1, 1, 1, 1), "x")
	var buf bytes.Buffer
	err := Pretty(&buf, []diag.Diagnostic{d}, fs, PrettyOpts{})
	if !errors.Is(err, source.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestPrettyReporterKeepsFirstError(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("u", "abc\n")
	var buf bytes.Buffer
	r := NewPrettyReporter(&buf, fs, PrettyOpts{})
	r.Report(diag.SemaUnknownIdent, diag.SevError, span("u", 1, 2, 1, 3), "first", nil)
	r.Report(diag.SemaUnknownIdent, diag.SevError, span("gone", 1, 1, 1, 1), "second", nil)
	r.Report(diag.SemaUnknownIdent, diag.SevError, span("gone2", 1, 1, 1, 1), "third", nil)
	if !strings.HasPrefix(buf.String(), "u:1:2: error: first\nabc\n ^^\n") {
		t.Fatalf("unexpected output %q", buf.String())
	}
	if err := r.Err(); err == nil || !strings.Contains(err.Error(), "gone:1:1") {
		t.Fatalf("expected the first miss to be kept, got %v", err)
	}
}

func TestSinkLog(t *testing.T) {
	var log SinkLog
	diag.ErrorAt(&log, diag.SemaUnknownIdent, span("u", 1, 2, 1, 4), "Unknown name 'abc'")
	diag.ErrorGlobal(&log, diag.SemaInfo, "boom")
	diag.WarnGlobal(&log, diag.SemaSkipped, "careful")
	want := []string{
		"error(Unknown name 'abc', u:1:2-1:4)",
		"errorGlobal(boom)",
		"warnGlobal(careful)",
	}
	if strings.Join(log.Entries, "\n") != strings.Join(want, "\n") {
		t.Fatalf("entries = %q, want %q", log.Entries, want)
	}
}

func TestJSONMax(t *testing.T) {
	diags := []diag.Diagnostic{
		diag.New(diag.SevError, diag.SemaUnknownIdent, span("u", 1, 1, 1, 2), "a"),
		diag.New(diag.SevWarning, diag.SemaSkipped, source.Span{}, "b"),
	}
	out := BuildDiagnosticsOutput(diags, JSONOpts{Max: 1})
	if out.Count != 1 || out.Diagnostics[0].Location == nil || out.Diagnostics[0].Location.EndCol != 2 {
		t.Fatalf("unexpected output %+v", out)
	}
	all := BuildDiagnosticsOutput(diags, JSONOpts{})
	if all.Count != 2 || all.Diagnostics[1].Location != nil || all.Diagnostics[1].Severity != "warning" {
		t.Fatalf("unexpected output %+v", all)
	}
}
