package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"dmc/internal/config"
	"dmc/internal/diag"
	"dmc/internal/diagfmt"
	"dmc/internal/driver"
	"dmc/internal/parser"
	"dmc/internal/prof"
	"dmc/internal/source"
	"dmc/internal/trace"
)

// session is the state shared by every subcommand: merged configuration,
// pipeline options and the tracer.
type session struct {
	ctx     context.Context
	cfg     config.Config
	opts    driver.Options
	color   bool
	quiet   bool
	noCache bool
	cleanup func()
	span    *trace.Span
	prof    *prof.Session
}

// newSession loads configuration for the first unit, applies flag
// overrides and starts tracing. The caller must call close.
func newSession(cmd *cobra.Command, firstUnit string) (*session, error) {
	flags := cmd.Root().PersistentFlags()

	cfg, err := loadConfig(flags.Lookup("config").Value.String(), firstUnit)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return nil, err
	}
	opts, err := driver.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, opts: opts}
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.opts.Timings, err = flags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.noCache, err = flags.GetBool("no-cache"); err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if s.color, err = colorEnabled(cfg.Diagnostics.Color, os.Stderr); err != nil {
		return nil, err
	}

	profCfg := prof.Config{
		CPU:   flags.Lookup("cpuprofile").Value.String(),
		Mem:   flags.Lookup("memprofile").Value.String(),
		Trace: flags.Lookup("exectrace").Value.String(),
	}
	if profCfg.Enabled() {
		if s.prof, err = prof.Start(profCfg); err != nil {
			return nil, err
		}
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		_ = s.prof.Stop()
		return nil, err
	}
	s.cleanup = cleanup
	tracer := trace.FromContext(cmd.Context())
	s.span = trace.Begin(tracer, trace.ScopeDriver, cmd.Name(), 0).WithExtra("config", cfg.Path)
	s.ctx = trace.WithParent(cmd.Context(), s.span)
	return s, nil
}

func (s *session) close() {
	s.span.End("")
	s.cleanup()
	if err := s.prof.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "dmc: %v\n", err)
	}
}

// openCache attaches the disk cache unless it is disabled. A cache that
// cannot be opened only costs speed, so it is reported and skipped.
func (s *session) openCache() {
	if s.noCache || !s.cfg.Cache.Enabled {
		return
	}
	dir, err := s.cfg.CacheDir()
	if err == nil {
		s.opts.Cache, err = driver.OpenDiskCache(dir)
	}
	if err != nil {
		trace.Error(trace.FromContext(s.ctx), trace.ScopeDriver, "cache", err, s.span.ID())
		if !s.quiet {
			fmt.Fprintf(os.Stderr, "dmc: cache disabled: %v\n", err)
		}
	}
}

func loadConfig(explicit, firstUnit string) (config.Config, error) {
	if explicit != "" {
		return config.Load(explicit)
	}
	dir := "."
	if firstUnit != "" {
		if info, err := os.Stat(firstUnit); err == nil && info.IsDir() {
			dir = firstUnit
		} else {
			dir = filepath.Dir(firstUnit)
		}
	}
	return config.Discover(dir)
}

// applyFlags lets explicitly set flags override the configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Root().PersistentFlags()
	if flags.Changed("max-diagnostics") {
		n, err := flags.GetInt("max-diagnostics")
		if err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
		cfg.Diagnostics.Max = n
	}
	if flags.Changed("color") {
		cfg.Diagnostics.Color = flags.Lookup("color").Value.String()
	}
	if flags.Changed("dialect") {
		name := flags.Lookup("dialect").Value.String()
		if _, ok := parser.ParseDialect(name); !ok {
			return fmt.Errorf("unknown dialect %q (expected script|objtree)", name)
		}
		cfg.Parser.Dialect = name
	}
	if noPP, err := flags.GetBool("no-preprocess"); err != nil {
		return fmt.Errorf("failed to get no-preprocess flag: %w", err)
	} else if noPP {
		cfg.Preprocessor.Enabled = false
	}
	includes, err := flags.GetStringArray("include")
	if err != nil {
		return fmt.Errorf("failed to get include flag: %w", err)
	}
	cfg.Preprocessor.IncludeDirs = append(includes, cfg.Preprocessor.IncludeDirs...)
	defines, err := flags.GetStringArray("define")
	if err != nil {
		return fmt.Errorf("failed to get define flag: %w", err)
	}
	if len(defines) > 0 && cfg.Preprocessor.Defines == nil {
		cfg.Preprocessor.Defines = make(map[string]string, len(defines))
	}
	for _, def := range defines {
		name, value, _ := strings.Cut(def, "=")
		if name == "" {
			return fmt.Errorf("invalid --define %q", def)
		}
		cfg.Preprocessor.Defines[name] = value
	}
	return cfg.Validate()
}

func colorEnabled(mode string, f *os.File) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return isTerminal(f), nil
	case "always", "on":
		return true, nil
	case "never", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid color mode %q (expected auto|always|never)", mode)
}

// visible drops what --quiet hides: everything below an error except an
// explicitly requested timing report.
func (s *session) visible(items []diag.Diagnostic) []diag.Diagnostic {
	if !s.quiet {
		return items
	}
	out := items[:0:0]
	for _, d := range items {
		if d.Severity >= diag.SevError || d.Code == diag.ObsTimings {
			out = append(out, d)
		}
	}
	return out
}

// printDiagnostics writes pretty diagnostics to stderr.
func (s *session) printDiagnostics(fs *source.FileSet, items []diag.Diagnostic) error {
	items = s.visible(items)
	if len(items) == 0 {
		return nil
	}
	return diagfmt.Pretty(os.Stderr, items, fs, diagfmt.PrettyOpts{
		Color:     s.color,
		ShowNotes: true,
	})
}

// reportSingle prints the diagnostics of one unit and maps its outcome to
// the command result.
func (s *session) reportSingle(res *driver.Result, err error) error {
	if res != nil && res.Bag != nil {
		if perr := s.printDiagnostics(res.FileSet, res.Bag.Items()); perr != nil {
			return perr
		}
	}
	if err != nil {
		if res != nil && res.Bag != nil && res.Bag.HasErrors() {
			return errFailed
		}
		return err
	}
	if res.Failed() {
		return errFailed
	}
	return nil
}
