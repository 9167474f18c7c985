package diag

import (
	"fmt"
	"strings"
)

// FormatGolden renders diagnostics one per line for golden comparisons:
//
//	error SEM3001 unit.dm:2:5 Redefinition of identifier x
//
// Notes follow their diagnostic when includeNotes is set.
func FormatGolden(diags []Diagnostic, includeNotes bool) string {
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, goldenLine(d.Severity.String(), d.Code, d.Primary.Start.String(), d.Message, d.IsGlobal()))
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			lines = append(lines, goldenLine("note", d.Code, n.Span.Start.String(), n.Msg, n.Span.IsZero()))
		}
	}
	return strings.Join(lines, "\n")
}

func goldenLine(sev string, code Code, loc, msg string, global bool) string {
	msg = strings.Join(strings.Fields(msg), " ")
	if global {
		return fmt.Sprintf("%s %s %s", sev, code.ID(), msg)
	}
	return fmt.Sprintf("%s %s %s %s", sev, code.ID(), loc, msg)
}
