package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"dmc/internal/config"
	"dmc/internal/diag"
)

func TestProgressViewWanted(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"on", true, false},
		{"ALWAYS", true, false},
		{"off", false, false},
		{"never", false, false},
		{"sometimes", false, true},
	}
	for _, tt := range tests {
		got, err := progressViewWanted(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("progressViewWanted(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestColorEnabled(t *testing.T) {
	if on, err := colorEnabled("always", os.Stderr); err != nil || !on {
		t.Errorf("always: %v %v", on, err)
	}
	if on, err := colorEnabled("never", os.Stderr); err != nil || on {
		t.Errorf("never: %v %v", on, err)
	}
	if _, err := colorEnabled("rainbow", os.Stderr); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}

func flagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "dmc"}
	pf := root.PersistentFlags()
	pf.String("color", "auto", "")
	pf.Int("max-diagnostics", 100, "")
	pf.Bool("no-preprocess", false, "")
	pf.String("dialect", "", "")
	pf.StringArrayP("include", "I", nil, "")
	pf.StringArrayP("define", "D", nil, "")
	if err := pf.Parse(args); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestApplyFlagsOverridesConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Preprocessor.IncludeDirs = []string{"lib"}
	cmd := flagCommand(t, "--max-diagnostics=3", "--color=never", "--dialect=objtree", "-I", "extra", "-D", "DEBUG", "-D", "LEVEL=2", "--no-preprocess")
	if err := applyFlags(cmd, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Diagnostics.Max != 3 || cfg.Diagnostics.Color != "never" || cfg.Parser.Dialect != "objtree" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Preprocessor.Enabled {
		t.Error("--no-preprocess ignored")
	}
	if got := cfg.Preprocessor.IncludeDirs; len(got) != 2 || got[0] != "extra" || got[1] != "lib" {
		t.Errorf("include dirs %v", got)
	}
	if d := cfg.Preprocessor.Defines; d["DEBUG"] != "" || d["LEVEL"] != "2" || len(d) != 2 {
		t.Errorf("defines %v", d)
	}
}

func TestApplyFlagsKeepsConfigWhenUnset(t *testing.T) {
	cfg := config.Defaults()
	cfg.Diagnostics.Max = 7
	if err := applyFlags(flagCommand(t), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Diagnostics.Max != 7 || cfg.Parser.Dialect != "script" || !cfg.Preprocessor.Enabled {
		t.Errorf("config changed without flags: %+v", cfg)
	}
	if err := applyFlags(flagCommand(t, "--dialect=pascal"), &cfg); err == nil {
		t.Error("expected an error for an unknown dialect")
	}
}

func TestLoadConfigFromUnitDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "dmc.toml"), []byte("[diagnostics]\nmax = 5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig("", filepath.Join(dir, "unit.dms"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Diagnostics.Max != 5 || cfg.Path == "" {
		t.Errorf("config not discovered: %+v", cfg)
	}
}

func TestQuietKeepsErrorsAndTimings(t *testing.T) {
	s := &session{quiet: true}
	items := []diag.Diagnostic{
		{Severity: diag.SevWarning, Code: diag.SemaSkipped},
		{Severity: diag.SevInfo, Code: diag.ObsTimings},
		{Severity: diag.SevError, Code: diag.SemaUnknownIdent},
		{Severity: diag.SevInfo, Code: diag.ObsCacheHit},
	}
	got := s.visible(items)
	if len(got) != 2 || got[0].Code != diag.ObsTimings || got[1].Code != diag.SemaUnknownIdent {
		t.Errorf("visible = %+v", got)
	}
	if len(items) != 4 || items[0].Code != diag.SemaSkipped {
		t.Error("input was modified")
	}
}
