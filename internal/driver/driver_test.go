package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"dmc/internal/diag"
	"dmc/internal/source"
	"dmc/internal/types"
)

func writeUnit(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func defaultOptions() Options {
	return Options{Preprocess: true}
}

func TestCheckScriptUnit(t *testing.T) {
	path := writeUnit(t, t.TempDir(), "ok.dms", "#define ONE 1\nvar x = ONE\nvar y = x + 2\n")
	res, err := Check(context.Background(), source.NewFileSet(), path, defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed() {
		t.Fatalf("unexpected failure: %v", res.Err)
	}
	if res.Sema == nil {
		t.Fatal("sema result missing")
	}
	scope := res.Sema.Scopes.Get(res.Sema.Globals)
	y, ok := scope.Vars["y"]
	if !ok {
		t.Fatal("y not declared")
	}
	if got := types.Label(res.Sema.Types, y.Type); got != "Integer(3, 3)" {
		t.Errorf("y has type %s", got)
	}
	for _, tok := range res.Tokens {
		if tok.HasSpan() && tok.Span.Start.Unit != res.File.Name {
			t.Fatalf("token attributed to %q, want %q", tok.Span.Start.Unit, res.File.Name)
		}
	}
}

func TestCheckReportsFatal(t *testing.T) {
	path := writeUnit(t, t.TempDir(), "bad.dms", "var x = 1\nvar z = y\n")
	var log []string
	var mu sync.Mutex
	opts := defaultOptions()
	opts.Reporter = reporterFunc(func(d diag.Diagnostic) {
		mu.Lock()
		defer mu.Unlock()
		log = append(log, d.Message)
	})
	res, err := Check(context.Background(), source.NewFileSet(), path, opts)
	if err != nil {
		t.Fatal(err)
	}
	f, ok := diag.AsFatal(res.Err)
	if !ok {
		t.Fatalf("expected fatal, got %v", res.Err)
	}
	if f.Diag.Message != "Unknown name 'y'" || f.Span().Start.Line != 2 || f.Span().Start.Column != 9 {
		t.Errorf("unexpected fatal %s: %s", f.Span(), f.Diag.Message)
	}
	if len(log) != 1 || res.Bag.Len() != 1 {
		t.Errorf("reporter saw %v, bag has %d", log, res.Bag.Len())
	}
}

func TestObjectTreeSkipsSema(t *testing.T) {
	path := writeUnit(t, t.TempDir(), "world.dm", "/obj/item\n\tname = \"thing\"\n")
	res, err := Check(context.Background(), source.NewFileSet(), path, defaultOptions())
	if err != nil || res.Failed() {
		t.Fatalf("err=%v fatal=%v", err, res.Err)
	}
	if res.Sema != nil {
		t.Error("object-tree unit must not be checked")
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaSkipped || items[0].Severity != diag.SevWarning || !items[0].IsGlobal() {
		t.Fatalf("unexpected diagnostics %+v", items)
	}
}

func TestTokenizeAndParseStopEarly(t *testing.T) {
	path := writeUnit(t, t.TempDir(), "p.dms", "if x\n\tdel x\n")
	tok, err := Tokenize(context.Background(), source.NewFileSet(), path, Options{})
	if err != nil || tok.Failed() || len(tok.Tokens) == 0 || tok.Builder != nil {
		t.Fatalf("tokenize: %+v, %v", tok, err)
	}
	parsed, err := Parse(context.Background(), source.NewFileSet(), path, Options{})
	if err != nil || parsed.Failed() || parsed.Builder == nil || parsed.Sema != nil {
		t.Fatalf("parse: %+v, %v", parsed, err)
	}
	if parsed.Text != parsed.File {
		t.Error("without preprocessing the unit is lexed as loaded")
	}
}

func TestMissingUnit(t *testing.T) {
	res, err := Check(context.Background(), source.NewFileSet(), filepath.Join(t.TempDir(), "nope.dms"), Options{})
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if items := res.Bag.Items(); len(items) != 1 || items[0].Code != diag.IOLoadFileError {
		t.Fatalf("unexpected diagnostics %+v", items)
	}
}

func TestTimingsReport(t *testing.T) {
	path := writeUnit(t, t.TempDir(), "t.dms", "var a = 1\n")
	opts := defaultOptions()
	opts.Timings = true
	res, err := Check(context.Background(), source.NewFileSet(), path, opts)
	if err != nil || res.Failed() {
		t.Fatal(err, res.Err)
	}
	var timing *diag.Diagnostic
	for _, d := range res.Bag.Items() {
		if d.Code == diag.ObsTimings {
			timing = &d
		}
	}
	if timing == nil || len(timing.Notes) != 4 {
		t.Fatalf("expected a timing report with four phases, got %+v", timing)
	}
	if len(res.Timing.Phases) != 4 || res.Timing.Phases[3].Name != "sema" {
		t.Errorf("unexpected phases %+v", res.Timing.Phases)
	}
}

func TestDiskCacheReplay(t *testing.T) {
	dir := t.TempDir()
	path := writeUnit(t, dir, "world.dm", "/obj\n\tname = 1\n")
	cache, err := OpenDiskCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := defaultOptions()
	opts.Cache = cache

	first, err := Check(context.Background(), source.NewFileSet(), path, opts)
	if err != nil || first.Cached {
		t.Fatalf("first run: cached=%v err=%v", first.Cached, err)
	}
	second, err := Check(context.Background(), source.NewFileSet(), path, opts)
	if err != nil || !second.Cached || second.Builder != nil {
		t.Fatalf("second run: cached=%v err=%v", second.Cached, err)
	}
	var codes []diag.Code
	for _, d := range second.Bag.Items() {
		codes = append(codes, d.Code)
	}
	if len(codes) != 2 || codes[0] != diag.SemaSkipped || codes[1] != diag.ObsCacheHit {
		t.Fatalf("replayed codes %v", codes)
	}

	writeUnit(t, dir, "world.dm", "/obj\n\tname = 2\n")
	third, err := Check(context.Background(), source.NewFileSet(), path, opts)
	if err != nil || third.Cached {
		t.Fatalf("changed unit must miss: cached=%v err=%v", third.Cached, err)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	fourth, err := Check(context.Background(), source.NewFileSet(), path, opts)
	if err != nil || fourth.Cached {
		t.Fatalf("dropped cache must miss: cached=%v err=%v", fourth.Cached, err)
	}
}

func TestFailedUnitsAreNotCached(t *testing.T) {
	dir := t.TempDir()
	path := writeUnit(t, dir, "bad.dms", "return 1\n")
	cache, err := OpenDiskCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := defaultOptions()
	opts.Cache = cache
	for range 2 {
		res, err := Check(context.Background(), source.NewFileSet(), path, opts)
		if err != nil || res.Cached || !res.Failed() {
			t.Fatalf("cached=%v fatal=%v err=%v", res.Cached, res.Err, err)
		}
	}
}

func TestCheckUnitsKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "a.dms", "var a = 1\n")
	writeUnit(t, dir, "sub/b.dms", "var b = nope\n")
	writeUnit(t, dir, "sub/c.dm", "/obj\n")
	writeUnit(t, dir, "notes.txt", "ignored")

	paths, err := ExpandUnits([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 3 {
		t.Fatalf("expanded %v", paths)
	}

	events := make(chan Event, 64)
	opts := defaultOptions()
	opts.Progress = ChannelSink{Ch: events}
	opts.Jobs = 2
	_, results, err := CheckUnits(context.Background(), paths, opts)
	close(events)
	if err != nil {
		t.Fatal(err)
	}
	var failed []string
	for i, res := range results {
		if res.Path != paths[i] {
			t.Errorf("result %d is %s, want %s", i, res.Path, paths[i])
		}
		if res.Failed() {
			failed = append(failed, filepath.Base(res.Path))
		}
	}
	if strings.Join(failed, ",") != "b.dms" {
		t.Errorf("failed units %v", failed)
	}
	counts := map[Status]int{}
	for ev := range events {
		counts[ev.Status]++
	}
	if counts[StatusQueued] != 3 || counts[StatusDone] != 2 || counts[StatusError] != 1 {
		t.Errorf("event counts %v", counts)
	}
}

func TestCheckUnitsCancelled(t *testing.T) {
	path := writeUnit(t, t.TempDir(), "a.dms", "var a = 1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := CheckUnits(ctx, []string{path}, defaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

type reporterFunc func(diag.Diagnostic)

func (f reporterFunc) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	f(diag.Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes})
}
