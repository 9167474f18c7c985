package lexer

import (
	"regexp"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"dmc/internal/diag"
	"dmc/internal/source"
)

// # <line> "<unit>" <flags...>
var lineMarkerRE = regexp.MustCompile(`^# (\d+) "([^"]+)"((?: \d+)*)[ \t]*$`)

// consumeLineMarkers swallows preprocessor line markers at column 1 and
// re-attributes the following text. No token is emitted.
func (lx *Lexer) consumeLineMarkers() error {
	for !lx.cursor.EOF() && lx.cursor.Next().Column == 1 && lx.cursor.Peek() == '#' {
		start := lx.cursor.Next()
		line := strings.TrimSuffix(lx.cursor.RestOfLine(), "\r")
		m := lineMarkerRE.FindStringSubmatch(line)
		if m == nil {
			return lx.badMarker(start, line)
		}
		n, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil || n == 0 {
			return lx.badMarker(start, line)
		}
		ln, err := safecast.Conv[uint32](n)
		if err != nil {
			return lx.badMarker(start, line)
		}
		lx.cursor.SkipLine()
		lx.cursor.Reposition(source.Point{Unit: m[2], Line: ln, Column: 1})
	}
	return nil
}

func (lx *Lexer) badMarker(start source.Point, line string) error {
	end := start
	if w, err := safecast.Conv[uint32](len([]rune(line)) - 1); err == nil {
		end.Column += w
	}
	return lx.fail(diag.LexBadLineMarker, source.Span{Start: start, End: end}, "Malformed preprocessor line marker")
}
