package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetCachedAndShadowing(t *testing.T) {
	fs := NewFileSet()
	id1 := fs.AddVirtual("unit.dm", "var x = 1\n")
	id2 := fs.AddVirtual("unit.dm", "var y = 2\n")
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}
	text, err := fs.Cached("unit.dm")
	if err != nil {
		t.Fatalf("Cached: %v", err)
	}
	if text != "var y = 2\n" {
		t.Errorf("expected latest contents, got %q", text)
	}
	if got := fs.Get(id1).Content; got != "var x = 1\n" {
		t.Errorf("old version lost: %q", got)
	}
}

func TestFileSetCachedMissIsDistinct(t *testing.T) {
	fs := NewFileSet()
	_, err := fs.Cached("never.dm")
	if !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
	if _, err := fs.Line("never.dm", 1); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded from Line, got %v", err)
	}
}

func TestFileGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.dm", "first\n\tsecond\nthird"))
	tests := []struct {
		line uint32
		want string
		ok   bool
	}{
		{0, "", false},
		{1, "first", true},
		{2, "\tsecond", true},
		{3, "third", true},
		{4, "", false},
	}
	for _, tt := range tests {
		got, ok := f.GetLine(tt.line)
		if got != tt.want || ok != tt.ok {
			t.Errorf("GetLine(%d) = %q, %v; want %q, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFileSetNormalizesCRLF(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("crlf.dm", "a\r\nb\r\n"))
	if f.Content != "a\nb\n" {
		t.Errorf("expected CRLF normalized, got %q", f.Content)
	}
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Error("expected FileNormalizedCRLF flag")
	}
}

func TestFileSetLoadStripsBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.dm")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFvar x = 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if f.Content != "var x = 1\n" {
		t.Errorf("BOM not stripped: %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 {
		t.Error("expected FileHadBOM flag")
	}
}
