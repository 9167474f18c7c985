package source

import (
	"fmt"
)

// Point is a location inside a unit. Line and Column are 1-based; the zero
// Point means "no location".
type Point struct {
	Unit   string
	Line   uint32
	Column uint32
}

// IsZero reports whether p carries no location.
func (p Point) IsZero() bool {
	return p.Line == 0
}

func (p Point) String() string {
	if p.IsZero() {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Unit, p.Line, p.Column)
}

// SameLine reports whether both points live on one line of one unit.
func (p Point) SameLine(other Point) bool {
	return p.Unit == other.Unit && p.Line == other.Line
}

// Before orders points of the same unit. Points of different units are
// compared by unit name so sorting stays deterministic.
func (p Point) Before(other Point) bool {
	if p.Unit != other.Unit {
		return p.Unit < other.Unit
	}
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// Span stores both inclusive endpoints produced by the scanner.
type Span struct {
	Start Point
	End   Point
}

// PointSpan is a one-character span at p.
func PointSpan(p Point) Span {
	return Span{Start: p, End: p}
}

// IsZero reports whether the span is absent (synthetic tokens, global diagnostics).
func (s Span) IsZero() bool {
	return s.Start.IsZero()
}

func (s Span) String() string {
	if s.IsZero() {
		return "<no span>"
	}
	if s.Start.Unit == s.End.Unit {
		return fmt.Sprintf("%s:%d:%d-%d:%d", s.Start.Unit, s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
	}
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// SingleLine reports whether start and end are on the same line of the same unit.
func (s Span) SingleLine() bool {
	return s.Start.SameLine(s.End)
}

// Width is the number of columns covered on a single-line span, 1 otherwise.
func (s Span) Width() uint32 {
	if !s.SingleLine() || s.End.Column < s.Start.Column {
		return 1
	}
	return s.End.Column - s.Start.Column + 1
}

// Cover extends s to include other. Zero spans are neutral.
func (s Span) Cover(other Span) Span {
	if s.IsZero() {
		return other
	}
	if other.IsZero() {
		return s
	}
	if other.Start.Before(s.Start) {
		s.Start = other.Start
	}
	if s.End.Before(other.End) {
		s.End = other.End
	}
	return s
}

// Past returns the point one column after the end of s.
func (s Span) Past() Span {
	p := s.End
	p.Column++
	return PointSpan(p)
}
