package parser_test

import (
	"strings"
	"testing"

	"dmc/internal/ast"
	"dmc/internal/lexer"
	"dmc/internal/parser"
)

func TestStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"var", "var x = 1", "(var x 1)"},
		{"assignments", "x = 1\nx += 2\nx -= 3", "(= x 1)\n(+= x 2)\n(-= x 3)"},
		{"del", "del a.b", "(del (. a b))"},
		{"return empty", "return", "(return _)"},
		{"return value", "return a + 1", "(return (+ a 1))"},
		{"type forward", "type T", "(type T _)"},
		{"type alias", "type P = *T", "(type P *T)"},
		{"semicolon separates", "a(); b()", "(call a [])\n(call b [])"},
		{
			"if with dedent",
			"if (c)\n\ta()\nb()",
			"(if c (block (call a [])) _)\n(call b [])",
		},
		{
			"if colon and else block",
			"if a == b:\n\tx()\nelse\n\ty()\nz()",
			"(if (== a b) (block (call x [])) (block (call y [])))\n(call z [])",
		},
		{
			"else statement",
			"if a\n\tx()\nelse y()",
			"(if a (block (call x [])) (block (call y [])))",
		},
		{
			"else if chain",
			"if a\n\tx()\nelse if b\n\ty()\nelse\n\tz()",
			"(if a (block (call x [])) (block (if b (block (call y [])) (block (call z [])))))",
		},
		{
			"nested blocks",
			"if a\n\tif b\n\t\tx()\n\ty()\nz()",
			"(if a (block (if b (block (call x [])) _) (call y [])) _)\n(call z [])",
		},
		{
			"for with declaration",
			"for (var v in xs)\n\tuse(v)",
			"(for (var v _) xs (block (call use [v])))",
		},
		{
			"for with identifier",
			"for (v in xs)\n\tuse(v)",
			"(for v xs (block (call use [v])))",
		},
		{
			"spawn",
			"spawn (10)\n\ttick()",
			"(spawn 10 (block (call tick [])))",
		},
		{
			"braces",
			"if a { x(); y() }",
			"(if a (block (call x []) (call y [])) _)",
		},
		{
			"blank lines inside block",
			"if a\n\tx()\n\n\ty()\n",
			"(if a (block (call x []) (call y [])) _)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustParse(t, tt.input)
			got := strings.TrimSpace(res.sexpr())
			if got != tt.want {
				t.Fatalf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestFunctionStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"declaration only",
			"func f (a: Size) -> ()",
			"(func f (a:Size) () _)",
		},
		{
			"with body",
			"func f (a: Size, b: *U8) -> (Bool):\n\treturn true",
			"(func f (a:Size,b:*U8) (Bool) (block (return true)))",
		},
		{
			"multi-line input tuple",
			"func f (\n\ta: Size\n\tb: String\n) -> (Size)\n\treturn a",
			"(func f (a:Size,b:String) (Size) (block (return a)))",
		},
		{
			"attributes",
			"func f () -> () @inline @export(name = \"f\"):\n\tg()",
			"(func f () () (block (call g [])))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustParse(t, tt.input)
			got := strings.TrimSpace(res.sexpr())
			if got != tt.want {
				t.Fatalf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestFunctionAttributes(t *testing.T) {
	res := mustParse(t, "func f () -> () @inline @export(name = \"f\")")
	body := res.b.Blocks.Get(res.b.Units.Get(res.unit).Body)
	fn, ok := res.b.Stmts.Func(body.Stmts[0])
	if !ok {
		t.Fatalf("expected function statement")
	}
	if len(fn.Attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(fn.Attrs))
	}
	if got := res.b.Name(fn.Attrs[1].Name); got != "export" {
		t.Errorf("second attribute = %q", got)
	}
	if len(fn.Attrs[1].Args.Named) != 1 {
		t.Errorf("expected one named argument")
	}
	if fn.Body.IsValid() {
		t.Errorf("declaration must not have a body")
	}
}

func TestStatementSpans(t *testing.T) {
	res := mustParse(t, "var x = \"a\"\nvar x = \"b\"")
	body := res.b.Blocks.Get(res.b.Units.Get(res.unit).Body)
	if len(body.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(body.Stmts))
	}
	second, _ := res.b.Stmts.Var(body.Stmts[1])
	nameSpan := res.b.Exprs.Get(second.Name).Span
	if got := nameSpan.String(); got != "test.dms:2:5-2:5" {
		t.Errorf("name span = %s", got)
	}
	if got := res.b.Stmts.Get(body.Stmts[1]).Span.Start.Line; got != 2 {
		t.Errorf("statement line = %d", got)
	}
}

func TestStatementErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
		wantPos string
	}{
		{"var needs value", "var x", "Expected '='", "test.dms:1:6"},
		{"if needs block", "if a\nb()", "Expected block", "test.dms:1:5"},
		{"missing separator", "if a\n\tx() y()", "Expected newline, got identifier", "test.dms:2:6"},
		{"for needs in", "for (v xs)\n\tf()", "Expected 'in'", "test.dms:1:8"},
		{"func needs arrow", "func f () ()", "Expected '->'", "test.dms:1:11"},
		{"func needs input tuple", "func f -> ()", "Expected input tuple", "test.dms:1:8"},
		{"stray dedent target", "a\n\tb", "Unparsed tokens remaining", "test.dms:1:3"},
		{"missing close in tuple", "func f (a: T -> ()", "Expected ')'", "test.dms:1:14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parseSource(t, "test.dms", tt.input, lexer.Options{}, parser.Options{})
			if res.err == nil {
				t.Fatalf("expected error, got AST:\n%s", res.sexpr())
			}
			items := res.bag.Items()
			if len(items) != 1 {
				t.Fatalf("expected one diagnostic, got %s", diagnosticsSummary(res.bag))
			}
			if items[0].Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", items[0].Message, tt.wantMsg)
			}
			if got := items[0].Primary.Start.String(); got != tt.wantPos {
				t.Errorf("position = %s, want %s", got, tt.wantPos)
			}
		})
	}
}

func TestCoalescingKeepsAST(t *testing.T) {
	sources := []string{
		"var a = 1\n\nvar b = 2\n",
		"if a\n\tx()\n\n\ty()\n\nz()\n",
		"func f (\n\ta: Size\n\n\tb: Size\n) -> ()\n\n\treturn\n",
		"for (var v in xs)\n\n\tuse(v)\n\nq()",
	}
	for i, src := range sources {
		plain := parseSource(t, "u.dms", src, lexer.Options{}, parser.Options{})
		merged := parseSource(t, "u.dms", src, lexer.Options{CoalesceNewlines: true}, parser.Options{})
		if plain.err != nil || merged.err != nil {
			t.Fatalf("source %d: errors %v / %v", i, plain.err, merged.err)
		}
		if plain.sexpr() != merged.sexpr() {
			t.Errorf("source %d: coalescing changed the AST:\n%s\nvs\n%s", i, plain.sexpr(), merged.sexpr())
		}
	}
}

func TestFinalCheckAfterParseUnit(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{}, nil)
	p := parser.New("empty.dms", nil, b, parser.Options{})
	unit, err := p.ParseUnit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.FinalCheck(); err != nil {
		t.Fatalf("unexpected final check error: %v", err)
	}
	if n := len(b.Blocks.Get(b.Units.Get(unit).Body).Stmts); n != 0 {
		t.Fatalf("expected empty unit, got %d statements", n)
	}
}
