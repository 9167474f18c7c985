package diagfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"dmc/internal/source"
	"dmc/internal/token"
)

// ErrUnitSeparator is returned for unit names that cannot be written in the
// compact span format.
var ErrUnitSeparator = errors.New("unit name contains ';'")

// SpanWriter renders spans as "unit1;line;col;unit2;line;col". A unit is
// left empty when it repeats the last unit written.
type SpanWriter struct {
	last string
}

func (w *SpanWriter) unit(u string) (string, error) {
	if strings.Contains(u, ";") {
		return "", fmt.Errorf("%q: %w", u, ErrUnitSeparator)
	}
	if u == w.last {
		return "", nil
	}
	w.last = u
	return u, nil
}

// Format returns the compact form of sp. A zero span has no compact form
// and is reported by ok == false.
func (w *SpanWriter) Format(sp source.Span) (s string, ok bool, err error) {
	if sp.IsZero() {
		return "", false, nil
	}
	u1, err := w.unit(sp.Start.Unit)
	if err != nil {
		return "", false, err
	}
	u2, err := w.unit(sp.End.Unit)
	if err != nil {
		return "", false, err
	}
	return fmt.Sprintf("%s;%d;%d;%s;%d;%d", u1, sp.Start.Line, sp.Start.Column, u2, sp.End.Line, sp.End.Column), true, nil
}

// SpanReader is the inverse of SpanWriter; it must see spans in the order
// they were written.
type SpanReader struct {
	last string
}

func (r *SpanReader) point(unit, line, col string) (source.Point, error) {
	if unit == "" {
		unit = r.last
	} else {
		r.last = unit
	}
	l, err := parseField(line)
	if err != nil {
		return source.Point{}, fmt.Errorf("line %q: %w", line, err)
	}
	c, err := parseField(col)
	if err != nil {
		return source.Point{}, fmt.Errorf("column %q: %w", col, err)
	}
	return source.Point{Unit: unit, Line: l, Column: c}, nil
}

func parseField(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return safecast.Conv[uint32](n)
}

// Parse reads one compact span.
func (r *SpanReader) Parse(s string) (source.Span, error) {
	parts := strings.Split(s, ";")
	if len(parts) != 6 {
		return source.Span{}, fmt.Errorf("span %q: want 6 fields, got %d", s, len(parts))
	}
	start, err := r.point(parts[0], parts[1], parts[2])
	if err != nil {
		return source.Span{}, fmt.Errorf("span %q: %w", s, err)
	}
	end, err := r.point(parts[3], parts[4], parts[5])
	if err != nil {
		return source.Span{}, fmt.Errorf("span %q: %w", s, err)
	}
	return source.Span{Start: start, End: end}, nil
}

// TokenTriples converts toks into [kind, value, span] triples.
func TokenTriples(toks []token.Token) ([][3]any, error) {
	var sw SpanWriter
	out := make([][3]any, 0, len(toks))
	for i, tok := range toks {
		var span any
		s, ok, err := sw.Format(tok.Span)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}
		if ok {
			span = s
		}
		out = append(out, [3]any{tok.Kind.String(), tok.Value(), span})
	}
	return out, nil
}

// MarshalTokens writes the token stream as one JSON array of triples.
func MarshalTokens(w io.Writer, toks []token.Token) error {
	triples, err := TokenTriples(toks)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(triples)
}

// UnmarshalTokens reads a stream written by MarshalTokens.
func UnmarshalTokens(data []byte) ([]token.Token, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw [][3]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode tokens: %w", err)
	}
	var sr SpanReader
	toks := make([]token.Token, 0, len(raw))
	for i, triple := range raw {
		name, ok := triple[0].(string)
		if !ok {
			return nil, fmt.Errorf("token %d: kind is %T, want string", i, triple[0])
		}
		kind, ok := token.KindByName(name)
		if !ok {
			return nil, fmt.Errorf("token %d: unknown kind %q", i, name)
		}
		tok := token.Token{Kind: kind}
		switch v := triple[1].(type) {
		case nil:
		case string:
			tok.ValueKind, tok.Text = token.TextValue, v
		case json.Number:
			n, err := v.Int64()
			if err != nil {
				return nil, fmt.Errorf("token %d: %w", i, err)
			}
			tok.ValueKind, tok.Int = token.IntValue, n
		default:
			return nil, fmt.Errorf("token %d: unexpected value %T", i, v)
		}
		switch s := triple[2].(type) {
		case nil:
		case string:
			sp, err := sr.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("token %d: %w", i, err)
			}
			tok.Span = sp
		default:
			return nil, fmt.Errorf("token %d: span is %T, want string or null", i, s)
		}
		toks = append(toks, tok)
	}
	return toks, nil
}

// FormatTokens prints one token per line in a column layout:
//
//	1:1-1:3     IDENT        "foo"
func FormatTokens(w io.Writer, toks []token.Token) error {
	for _, tok := range toks {
		loc := "-"
		if tok.HasSpan() {
			loc = fmt.Sprintf("%d:%d-%d:%d", tok.Span.Start.Line, tok.Span.Start.Column, tok.Span.End.Line, tok.Span.End.Column)
		}
		val := ""
		switch tok.ValueKind {
		case token.TextValue:
			val = strconv.Quote(tok.Text)
		case token.IntValue:
			val = strconv.FormatInt(tok.Int, 10)
		}
		line := fmt.Sprintf("%-14s %-20s %s", loc, tok.Kind, val)
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}
