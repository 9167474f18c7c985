package preproc_test

import (
	"context"
	"testing"

	"dmc/internal/diag"
	"dmc/internal/lexer"
	"dmc/internal/preproc"
	"dmc/internal/source"
	"dmc/internal/token"
)

type setup struct {
	fs  *source.FileSet
	bag *diag.Bag
}

func newSetup(files map[string]string) setup {
	fs := source.NewFileSet()
	for name, content := range files {
		fs.AddVirtual(name, content)
	}
	return setup{fs: fs, bag: diag.NewBag(0)}
}

func (s setup) run(t *testing.T, unit string, opts preproc.Options) (string, error) {
	t.Helper()
	f, ok := s.fs.Lookup(unit)
	if !ok {
		t.Fatalf("unit %s not registered", unit)
	}
	opts.Reporter = diag.BagReporter{Bag: s.bag}
	return preproc.Preprocess(context.Background(), s.fs, f, opts)
}

func TestIncludeAndDefine(t *testing.T) {
	s := newSetup(map[string]string{
		"main.dms": "#define N 3\nvar x = N\n#include \"lib.dmi\"\nvar y = 'N' // N\n",
		"lib.dmi":  "var z = N\n",
	})
	got, err := s.run(t, "main.dms", preproc.Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := "# 1 \"main.dms\"\n" +
		"\n" +
		"var x = 3\n" +
		"# 1 \"lib.dmi\" 1\n" +
		"var z = 3\n" +
		"# 4 \"main.dms\" 2\n" +
		"var y = 'N' // N\n"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestConditionals(t *testing.T) {
	src := "#ifdef A\na\n#ifndef B\nab\n#else\nnotb\n#endif\n#else\nnota\n#endif\n#undef A\n#ifdef A\nstill\n#endif\n"
	tests := []struct {
		name    string
		defines map[string]string
		want    string
	}{
		{"none", nil, "# 1 \"c.dms\"\n\n\n\n\n\n\n\n\nnota\n\n\n\n\n\n"},
		{"A", map[string]string{"A": ""}, "# 1 \"c.dms\"\n\na\n\nab\n\n\n\n\n\n\n\n\n\n\n"},
		{"A and B", map[string]string{"A": "", "B": "1"}, "# 1 \"c.dms\"\n\na\n\n\n\nnotb\n\n\n\n\n\n\n\n\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSetup(map[string]string{"c.dms": src})
			got, err := s.run(t, "c.dms", preproc.Options{Defines: tt.defines})
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDirectiveErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		code  diag.Code
		msg   string
		at    string
	}{
		{"user error", map[string]string{"m": "x\n  #error stop here\n"}, diag.PreUserError, "stop here", "m:2:3-2:8"},
		{"missing include", map[string]string{"m": "#include \"nope.dmi\"\n"}, diag.PreIncludeNotFound, "Cannot find include file nope.dmi", "m:1:1-1:8"},
		{"cycle", map[string]string{"m": "#include \"a\"\n", "a": "#include \"m\"\n"}, diag.PreIncludeCycle, "Recursive include of m", "a:1:1-1:8"},
		{"unterminated", map[string]string{"m": "#ifdef X\n"}, diag.PreUnterminatedIf, "Unterminated #ifdef", "m:1:1-1:6"},
		{"stray endif", map[string]string{"m": "#endif\n"}, diag.PreMalformedDirective, "#endif without #ifdef", "m:1:1-1:6"},
		{"unknown", map[string]string{"m": "#pragma once\n"}, diag.PreUnknownDirective, "Unknown directive #pragma", "m:1:1-1:7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSetup(tt.files)
			_, err := s.run(t, "m", preproc.Options{})
			f, ok := diag.AsFatal(err)
			if !ok {
				t.Fatalf("expected a fatal diagnostic, got %v", err)
			}
			if f.Diag.Code != tt.code || f.Diag.Message != tt.msg || f.Span().String() != tt.at {
				t.Fatalf("got %s %q at %s", f.Diag.Code.ID(), f.Diag.Message, f.Span())
			}
			if s.bag.Len() != 1 {
				t.Fatalf("expected the failure to be reported once, got %d", s.bag.Len())
			}
		})
	}
}

func TestGlobalIncludeUsesIncludeDirs(t *testing.T) {
	s := newSetup(map[string]string{
		"src/m.dms": "#include <x.dmi>\n",
		"src/x.dmi": "local\n",
		"lib/x.dmi": "global\n",
	})
	got, err := s.run(t, "src/m.dms", preproc.Options{IncludeDirs: []string{"lib"}})
	if err != nil {
		t.Fatal(err)
	}
	want := "# 1 \"src/m.dms\"\n# 1 \"lib/x.dmi\" 1\nglobal\n# 2 \"src/m.dms\" 2\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWarnIsReportedAndContinues(t *testing.T) {
	s := newSetup(map[string]string{"m": "#warn careful\nx\n"})
	if _, err := s.run(t, "m", preproc.Options{}); err != nil {
		t.Fatal(err)
	}
	items := s.bag.Items()
	if len(items) != 1 || items[0].Severity != diag.SevWarning || items[0].Message != "careful" {
		t.Fatalf("unexpected diagnostics %+v", items)
	}
}

func TestLexerFollowsLineMarkers(t *testing.T) {
	s := newSetup(map[string]string{
		"main.dms": "a\n#include \"inc.dmi\"\nc\n",
		"inc.dmi":  "\nb\n",
	})
	out, err := s.run(t, "main.dms", preproc.Options{})
	if err != nil {
		t.Fatal(err)
	}
	file := s.fs.Get(s.fs.AddVirtual("main.dms.i", out))
	toks, err := lexer.Tokenize(file, lexer.Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"a": "main.dms:1:1", "b": "inc.dmi:2:1", "c": "main.dms:3:1"}
	seen := 0
	for _, tok := range toks {
		if tok.Kind != token.Ident {
			continue
		}
		seen++
		if got := tok.Span.Start.String(); got != want[tok.Text] {
			t.Errorf("%s at %s, want %s", tok.Text, got, want[tok.Text])
		}
	}
	if seen != 3 {
		t.Fatalf("saw %d identifiers", seen)
	}
}
