package driver

import (
	"fmt"

	"dmc/internal/config"
	"dmc/internal/diag"
	"dmc/internal/lexer"
	"dmc/internal/parser"
	"dmc/internal/preproc"
)

// Options configure one pipeline run.
type Options struct {
	Lexer      lexer.Options
	Dialect    parser.Dialect
	Preprocess bool
	Preproc    preproc.Options
	// Reporter receives every diagnostic in addition to the per-unit bag.
	// CheckUnits serializes access to it.
	Reporter       diag.Reporter
	MaxDiagnostics int
	// Timings appends a timing report to each unit's diagnostics.
	Timings  bool
	Cache    *DiskCache
	Progress ProgressSink
	// Jobs bounds CheckUnits parallelism; GOMAXPROCS when <= 0.
	Jobs int
}

// OptionsFromConfig maps project configuration onto pipeline options.
func OptionsFromConfig(cfg config.Config) (Options, error) {
	dialect, ok := parser.ParseDialect(cfg.Parser.Dialect)
	if !ok {
		return Options{}, fmt.Errorf("unknown dialect %q", cfg.Parser.Dialect)
	}
	return Options{
		Lexer: lexer.Options{
			CoalesceNewlines:      cfg.Lexer.CoalesceNewlines,
			AllowMixedIndentation: cfg.Lexer.AllowMixedIndentation,
		},
		Dialect:    dialect,
		Preprocess: cfg.Preprocessor.Enabled,
		Preproc: preproc.Options{
			IncludeDirs: cfg.Preprocessor.IncludeDirs,
			Defines:     cfg.Preprocessor.Defines,
		},
		MaxDiagnostics: cfg.Diagnostics.Max,
	}, nil
}

// fingerprint is mixed into cache keys so outcomes produced under other
// settings are not replayed.
func (o Options) fingerprint() string {
	return fmt.Sprintf("coalesce=%t mixed=%t dialect=%s pp=%t",
		o.Lexer.CoalesceNewlines, o.Lexer.AllowMixedIndentation, o.Dialect, o.Preprocess)
}
