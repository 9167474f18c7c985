package version

import (
	"strings"
	"testing"
)

func TestColoredPlain(t *testing.T) {
	tests := []struct{ in, want string }{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3+build.7", "1.2.3+build.7"},
		{"weird", "weird"},
	}
	for _, tt := range tests {
		if got := Colored(tt.in, false); got != tt.want {
			t.Errorf("Colored(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColoredKeepsSuffixPlain(t *testing.T) {
	got := Colored("1.2.3-rc.1", true)
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected escape codes in %q", got)
	}
	if !strings.HasSuffix(got, "-rc.1") {
		t.Errorf("suffix must stay plain: %q", got)
	}
}

func TestBanner(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	Version, GitCommit, BuildDate = "1.2.3", "abc123", "2024-01-15"
	if got, want := Banner(false), "dmc 1.2.3 (abc123) built 2024-01-15"; got != want {
		t.Errorf("Banner = %q, want %q", got, want)
	}
	GitCommit, BuildDate = "", ""
	if got := Banner(false); got != "dmc 1.2.3" {
		t.Errorf("Banner = %q", got)
	}
	if info := Current(); info.Version != "1.2.3" || info.GitCommit != "" {
		t.Errorf("Current = %+v", info)
	}
}
