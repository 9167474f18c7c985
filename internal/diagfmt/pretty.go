package diagfmt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"dmc/internal/diag"
	"dmc/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид:
//
//	<unit>:<line>:<col>: error: <message>
//	<source line>
//	<indent>^^^
//
// A unit that was never loaded into fs is an error, not an empty preview.
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) error {
	for _, d := range diags {
		if err := FormatDiagnostic(w, d, fs, opts); err != nil {
			return err
		}
	}
	return nil
}

type palette struct {
	sev   map[diag.Severity]*color.Color
	loc   *color.Color
	caret *color.Color
	note  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan, color.Bold),
		},
		loc:   color.New(color.Bold),
		caret: color.New(color.FgGreen, color.Bold),
		note:  color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.loc, p.caret, p.note, p.sev[diag.SevError], p.sev[diag.SevWarning], p.sev[diag.SevInfo]} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// FormatDiagnostic writes one diagnostic with its preview.
func FormatDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	sev := pal.sev[d.Severity].Sprint(d.Severity.String())
	if opts.ShowCode {
		sev += pal.sev[d.Severity].Sprintf("[%s]", d.Code.ID())
	}
	if d.IsGlobal() {
		_, err := fmt.Fprintf(w, "%s: %s\n", sev, d.Message)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s: %s: %s\n", pal.loc.Sprint(d.Primary.Start.String()), sev, d.Message); err != nil {
		return err
	}
	if !opts.NoPreview {
		if err := writePreview(w, d.Primary, fs, pal); err != nil {
			return err
		}
	}
	if !opts.ShowNotes {
		return nil
	}
	for _, n := range d.Notes {
		loc := ""
		if !n.Span.IsZero() {
			loc = pal.loc.Sprint(n.Span.Start.String()) + ": "
		}
		if _, err := fmt.Fprintf(w, "%s%s: %s\n", loc, pal.note.Sprint("note"), n.Msg); err != nil {
			return err
		}
	}
	return nil
}

// writePreview prints the line holding the span start and a caret line that
// repeats its leading whitespace.
func writePreview(w io.Writer, sp source.Span, fs *source.FileSet, pal palette) error {
	if fs == nil {
		return errors.New("diagfmt: no file cache for preview")
	}
	line, err := fs.Line(sp.Start.Unit, sp.Start.Line)
	if err != nil {
		return fmt.Errorf("preview of %s: %w", sp.Start, err)
	}
	_, err = fmt.Fprintf(w, "%s\n%s%s\n", line, caretIndent(line, sp.Start.Column), pal.caret.Sprint(strings.Repeat("^", int(sp.Width()))))
	return err
}

// caretIndent keeps tabs and replaces every other rune before column by as
// many spaces as it is wide.
func caretIndent(line string, column uint32) string {
	var sb strings.Builder
	col := uint32(1)
	for _, r := range line {
		if col >= column {
			break
		}
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteString(strings.Repeat(" ", max(runewidth.RuneWidth(r), 1)))
		}
		col++
	}
	return sb.String()
}
