// Package diag defines the diagnostic model shared by the preprocessor,
// lexer, parser and semantic passes.
//
// Every phase reports through a Reporter (the diagnostics sink) and then,
// on a fatal problem, returns a *Fatal error that aborts the current unit.
// There is no recovery: one error per unit, warnings never abort.
//
// Rendering lives in internal/diagfmt; this package does no IO.
package diag
