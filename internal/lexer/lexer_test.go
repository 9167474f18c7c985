package lexer_test

import (
	"strings"
	"testing"

	"dmc/internal/diag"
	"dmc/internal/lexer"
	"dmc/internal/source"
	"dmc/internal/token"
)

// lexAll токенизирует строку и собирает диагностики
func lexAll(t *testing.T, src string, opts lexer.Options) ([]token.Token, *diag.Bag, error) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.dm", src))
	bag := diag.NewBag(0)
	opts.Reporter = diag.BagReporter{Bag: bag}
	toks, err := lexer.Tokenize(file, opts)
	return toks, bag, err
}

func kinds(toks []token.Token) string {
	parts := make([]string, 0, len(toks))
	for _, tok := range toks {
		parts = append(parts, tok.Kind.String())
	}
	return strings.Join(parts, " ")
}

func mustLex(t *testing.T, src string, opts lexer.Options) []token.Token {
	t.Helper()
	toks, bag, err := lexAll(t, src, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v (%s)", err, diag.FormatGolden(bag.Items(), false))
	}
	return toks
}

func TestBlockSynthesis(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "nested tabs",
			src:  "a\n\tb\n\t\tc\nd\n",
			want: "IDENT NEWLINE BLOCK_BEGIN IDENT NEWLINE BLOCK_BEGIN IDENT NEWLINE " +
				"BLOCK_END NEWLINE BLOCK_END NEWLINE IDENT NEWLINE",
		},
		{
			name: "trailing block ends at eof",
			src:  "a\n\t\tb",
			want: "IDENT NEWLINE BLOCK_BEGIN BLOCK_BEGIN IDENT BLOCK_END BLOCK_END",
		},
		{
			name: "learned spaces",
			src:  "a\n  b\n    c\n",
			want: "IDENT NEWLINE BLOCK_BEGIN IDENT NEWLINE BLOCK_BEGIN IDENT NEWLINE BLOCK_END BLOCK_END",
		},
		{
			name: "comment line does not close block",
			src:  "if x:\n\ta\n// c\n\tb\n",
			want: "KEYWORD_IF IDENT SYMBOL_COLON NEWLINE BLOCK_BEGIN IDENT NEWLINE COMMENT NEWLINE IDENT NEWLINE BLOCK_END",
		},
		{
			name: "blank whitespace lines are ignored",
			src:  "a\n\tb\n \n\tc\n",
			want: "IDENT NEWLINE BLOCK_BEGIN IDENT NEWLINE NEWLINE IDENT NEWLINE BLOCK_END",
		},
		{
			name: "braces suppress indentation",
			src:  "a {\n\tb\n}\nc",
			want: "IDENT BLOCK_BEGIN NEWLINE IDENT NEWLINE BLOCK_END NEWLINE IDENT",
		},
		{
			name: "semicolon separates without resetting indent",
			src:  "a; b",
			want: "IDENT NEWLINE IDENT",
		},
		{
			name: "semicolon on an indented line",
			src:  "a\n\tb; c\nd\n",
			want: "IDENT NEWLINE BLOCK_BEGIN IDENT NEWLINE IDENT NEWLINE BLOCK_END NEWLINE IDENT NEWLINE",
		},
		{
			name: "leading comment keeps line at its indent",
			src:  "a()\n/* c */ b()\n",
			want: "IDENT SYMBOL_LPAREN SYMBOL_RPAREN NEWLINE COMMENT IDENT SYMBOL_LPAREN SYMBOL_RPAREN NEWLINE",
		},
		{
			name: "indented leading comment",
			src:  "a\n\t/* c */  b\nd\n",
			want: "IDENT NEWLINE COMMENT BLOCK_BEGIN IDENT NEWLINE BLOCK_END NEWLINE IDENT NEWLINE",
		},
		{
			name: "spaces after comment in tab-indented text",
			src:  "\ta\n/* c */ b\n",
			want: "BLOCK_BEGIN IDENT NEWLINE COMMENT BLOCK_END NEWLINE IDENT NEWLINE",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := kinds(mustLex(t, tt.src, lexer.Options{})); got != tt.want {
				t.Errorf("kinds mismatch\nwant: %s\ngot:  %s", tt.want, got)
			}
		})
	}
}

func TestBlockCountsMatchDepth(t *testing.T) {
	for depth := 1; depth <= 4; depth++ {
		src := "root\n" + strings.Repeat("\t", depth) + "leaf\n" + strings.Repeat("\t", depth) + "leaf2\nback\n"
		toks := mustLex(t, src, lexer.Options{})
		var begins, ends, newlineAfterEnd int
		for i, tok := range toks {
			switch tok.Kind {
			case token.BlockBegin:
				begins++
			case token.BlockEnd:
				ends++
				if i+1 < len(toks) && toks[i+1].Kind == token.Newline && !toks[i+1].HasSpan() {
					newlineAfterEnd++
				}
			}
		}
		if begins != depth || ends != depth || newlineAfterEnd != depth {
			t.Errorf("depth %d: begins=%d ends=%d synthetic newlines=%d", depth, begins, ends, newlineAfterEnd)
		}
	}
}

func TestIndentRecordedOnFirstToken(t *testing.T) {
	toks := mustLex(t, "a\n\t\tb c", lexer.Options{})
	var b, c token.Token
	for _, tok := range toks {
		switch tok.Text {
		case "b":
			b = tok
		case "c":
			c = tok
		}
	}
	if !b.AtLineStart || b.Indent != 2 {
		t.Errorf("b: AtLineStart=%v Indent=%d", b.AtLineStart, b.Indent)
	}
	if c.AtLineStart {
		t.Error("c is not the first token of its line")
	}
}

func TestIndentationErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		opts lexer.Options
	}{
		{"tabs then spaces", "a\n\tb\n  c\n", diag.LexMixedIndentation, lexer.Options{}},
		{"spaces then tabs", "a\n  b\n\tc\n", diag.LexMixedIndentation, lexer.Options{}},
		{"mixed on one line", "a\n\t b\n", diag.LexMixedIndentation, lexer.Options{}},
		{"inconsistent width", "a\n    b\n      c\n", diag.LexInconsistentIndentation, lexer.Options{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bag, err := lexAll(t, tt.src, tt.opts)
			f, ok := diag.AsFatal(err)
			if !ok {
				t.Fatalf("expected fatal error, got %v", err)
			}
			if f.Diag.Code != tt.code {
				t.Errorf("code = %s, want %s", f.Diag.Code.ID(), tt.code.ID())
			}
			if bag.Len() != 1 {
				t.Errorf("expected the error to be reported once, got %d", bag.Len())
			}
		})
	}
}

func TestAllowMixedIndentation(t *testing.T) {
	toks := mustLex(t, "a\n\tb\n\t  c\n", lexer.Options{AllowMixedIndentation: true})
	want := "IDENT NEWLINE BLOCK_BEGIN IDENT NEWLINE BLOCK_BEGIN IDENT NEWLINE BLOCK_END BLOCK_END"
	if got := kinds(toks); got != want {
		t.Errorf("want %s\ngot  %s", want, got)
	}
}

func TestCoalesceNewlines(t *testing.T) {
	src := "a\n\n\nb\n"
	if got := kinds(mustLex(t, src, lexer.Options{})); got != "IDENT NEWLINE NEWLINE NEWLINE IDENT NEWLINE" {
		t.Errorf("plain: %s", got)
	}
	if got := kinds(mustLex(t, src, lexer.Options{CoalesceNewlines: true})); got != "IDENT NEWLINE IDENT NEWLINE" {
		t.Errorf("coalesced: %s", got)
	}
}

func TestLineMarkers(t *testing.T) {
	toks := mustLex(t, "a\n# 10 \"inc.dm\" 1\nfoo\n# 3 \"test.dm\" 2\nbar", lexer.Options{})
	if got := kinds(toks); got != "IDENT NEWLINE IDENT NEWLINE IDENT" {
		t.Fatalf("kinds: %s", got)
	}
	foo, bar := toks[2], toks[4]
	if foo.Span.Start != (source.Point{Unit: "inc.dm", Line: 10, Column: 1}) {
		t.Errorf("foo start = %v", foo.Span.Start)
	}
	if bar.Span.End != (source.Point{Unit: "test.dm", Line: 3, Column: 3}) {
		t.Errorf("bar end = %v", bar.Span.End)
	}
}

func TestMalformedLineMarker(t *testing.T) {
	_, _, err := lexAll(t, "# nope\n", lexer.Options{})
	f, ok := diag.AsFatal(err)
	if !ok || f.Diag.Code != diag.LexBadLineMarker {
		t.Fatalf("expected malformed marker error, got %v", err)
	}
	if f.Span().Start.Line != 1 || f.Span().Start.Column != 1 {
		t.Errorf("span = %v", f.Span())
	}
}

func TestLiterals(t *testing.T) {
	toks := mustLex(t, `"x\ty\q" 'icon.dmi' 42 1..5 variable var`, lexer.Options{})
	want := "STRING_DQ STRING_SQ INTEGER INTEGER SYMBOL_DOT_DOT INTEGER IDENT KEYWORD_VAR"
	if got := kinds(toks); got != want {
		t.Fatalf("want %s\ngot  %s", want, got)
	}
	if toks[0].Text != "x\tyq" {
		t.Errorf("escaped text = %q", toks[0].Text)
	}
	if toks[1].Text != "icon.dmi" {
		t.Errorf("single quoted text = %q", toks[1].Text)
	}
	if toks[2].Int != 42 {
		t.Errorf("int = %d", toks[2].Int)
	}
	sp := toks[2].Span
	if sp.Start.Column != 21 || sp.End.Column != 22 {
		t.Errorf("integer span = %v", sp)
	}
}

func TestComments(t *testing.T) {
	toks := mustLex(t, "/* a /* b */ c */x // tail\ny", lexer.Options{})
	if got := kinds(toks); got != "COMMENT IDENT COMMENT NEWLINE IDENT" {
		t.Fatalf("kinds: %s", got)
	}
	if toks[0].Text != " a /* b */ c " {
		t.Errorf("block comment text = %q", toks[0].Text)
	}
	if toks[2].Text != " tail" {
		t.Errorf("line comment text = %q", toks[2].Text)
	}
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		col  uint32
	}{
		{"decimal", "x = 1.5", diag.LexDecimalUnsupported, 5},
		{"unterminated string", `x = "abc`, diag.LexUnterminatedString, 5},
		{"unterminated comment", "/* a /* b */", diag.LexUnterminatedBlockComment, 1},
		{"unknown character", "x = $", diag.LexUnknownChar, 5},
		{"overflow", "99999999999999999999", diag.LexIntegerOverflow, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := lexAll(t, tt.src, lexer.Options{})
			f, ok := diag.AsFatal(err)
			if !ok {
				t.Fatalf("expected fatal error, got %v", err)
			}
			if f.Diag.Code != tt.code {
				t.Errorf("code = %s, want %s", f.Diag.Code.ID(), tt.code.ID())
			}
			if f.Span().Start.Column != tt.col {
				t.Errorf("column = %d, want %d", f.Span().Start.Column, tt.col)
			}
		})
	}
}

func TestNextAfterEOF(t *testing.T) {
	fs := source.NewFileSet()
	lx := lexer.New(fs.Get(fs.AddVirtual("e.dm", "a")), lexer.Options{})
	for range 2 {
		if _, err := lx.Next(); err != nil {
			t.Fatal(err)
		}
	}
	for range 3 {
		tok, err := lx.Next()
		if err != nil || tok.Kind != token.EOF {
			t.Fatalf("expected EOF, got %v, %v", tok, err)
		}
	}
}
