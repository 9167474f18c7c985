// Package preproc expands includes, object-like macros and conditional
// sections, and annotates the output with GCC line markers so the lexer can
// attribute every token to the unit and line it came from.
package preproc

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"dmc/internal/diag"
	"dmc/internal/source"
)

// Loader resolves an include candidate to a loaded unit.
type Loader func(path string) (*source.File, error)

type Options struct {
	Reporter diag.Reporter
	// Signal starts a directive line; '#' when zero.
	Signal      rune
	IncludeDirs []string
	Defines     map[string]string
	// Loader defaults to FileSet lookup, then disk.
	Loader   Loader
	MaxDepth int
}

const defaultMaxDepth = 64

// ErrNotFound is wrapped by loaders when no candidate exists.
var ErrNotFound = errors.New("include not found")

type frame struct {
	active   bool // this branch emits
	parent   bool // enclosing section emits
	taken    bool // some branch already emitted
	seenElse bool
	start    source.Span
}

type preprocessor struct {
	ctx     context.Context
	fs      *source.FileSet
	opts    Options
	defines map[string]string
	stack   []string
	out     strings.Builder
}

// Preprocess expands file and returns the annotated text. Included units
// are registered in fs so previews of their diagnostics work.
func Preprocess(ctx context.Context, fs *source.FileSet, file *source.File, opts Options) (string, error) {
	if opts.Signal == 0 {
		opts.Signal = '#'
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	pp := &preprocessor{
		ctx:     ctx,
		fs:      fs,
		opts:    opts,
		defines: make(map[string]string, len(opts.Defines)),
	}
	if pp.opts.Loader == nil {
		pp.opts.Loader = pp.loadFromSet
	}
	for k, v := range opts.Defines {
		pp.defines[k] = v
	}
	fmt.Fprintf(&pp.out, "# 1 \"%s\"\n", file.Name)
	if err := pp.unit(file); err != nil {
		return "", err
	}
	return pp.out.String(), nil
}

func (pp *preprocessor) loadFromSet(path string) (*source.File, error) {
	if f, ok := pp.fs.Lookup(path); ok {
		return f, nil
	}
	id, err := pp.fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	}
	return pp.fs.Get(id), nil
}

func lineSpan(unit string, line uint32, col, width int) source.Span {
	start := source.Point{Unit: unit, Line: line, Column: uint32(col)}       //nolint:gosec // column of a directive line
	end := source.Point{Unit: unit, Line: line, Column: uint32(col + width)} //nolint:gosec // column of a directive line
	if width > 0 {
		end.Column--
	}
	return source.Span{Start: start, End: end}
}

func (pp *preprocessor) unit(file *source.File) error {
	if err := pp.ctx.Err(); err != nil {
		return err
	}
	pp.stack = append(pp.stack, file.Name)
	defer func() { pp.stack = pp.stack[:len(pp.stack)-1] }()

	var conds []frame
	emitting := func() bool { return len(conds) == 0 || conds[len(conds)-1].active }

	lines := strings.Split(file.Content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, text := range lines {
		lineNo := uint32(i + 1) //nolint:gosec // line count fits the line index
		d, ok := parseDirective(text, pp.opts.Signal)
		if !ok {
			if emitting() {
				pp.out.WriteString(pp.expand(text, nil))
			}
			pp.out.WriteByte('\n')
			continue
		}
		sp := lineSpan(file.Name, lineNo, d.col, len(d.name)+1)
		switch d.name {
		case "ifdef", "ifndef":
			name, err := pp.macroName(d, sp)
			if err != nil {
				return err
			}
			_, defined := pp.defines[name]
			cond := defined == (d.name == "ifdef")
			parent := emitting()
			conds = append(conds, frame{active: parent && cond, parent: parent, taken: cond, start: sp})
		case "else":
			if len(conds) == 0 {
				return diag.Fail(pp.opts.Reporter, diag.PreMalformedDirective, sp, "#else without #ifdef")
			}
			top := &conds[len(conds)-1]
			if top.seenElse {
				return diag.Fail(pp.opts.Reporter, diag.PreMalformedDirective, sp, "Duplicate #else")
			}
			top.seenElse = true
			top.active = top.parent && !top.taken
			top.taken = true
		case "endif":
			if len(conds) == 0 {
				return diag.Fail(pp.opts.Reporter, diag.PreMalformedDirective, sp, "#endif without #ifdef")
			}
			conds = conds[:len(conds)-1]
		default:
			if !emitting() {
				break
			}
			if err := pp.directive(file, lineNo, d, sp); err != nil {
				return err
			}
			if d.name == "include" {
				continue
			}
		}
		pp.out.WriteByte('\n')
	}
	if len(conds) > 0 {
		return diag.Fail(pp.opts.Reporter, diag.PreUnterminatedIf, conds[len(conds)-1].start, "Unterminated #ifdef")
	}
	return nil
}

func (pp *preprocessor) macroName(d directive, sp source.Span) (string, error) {
	name, _ := splitWord(d.rest)
	if !isIdent(name) {
		return "", diag.Fail(pp.opts.Reporter, diag.PreMalformedDirective, sp, fmt.Sprintf("#%s expects a macro name", d.name))
	}
	return name, nil
}

func (pp *preprocessor) directive(file *source.File, lineNo uint32, d directive, sp source.Span) error {
	switch d.name {
	case "define":
		name, value := splitWord(d.rest)
		if !isIdent(name) {
			return diag.Fail(pp.opts.Reporter, diag.PreMalformedDirective, sp, "#define expects a macro name")
		}
		pp.defines[name] = strings.TrimSpace(value)
	case "undef":
		name, err := pp.macroName(d, sp)
		if err != nil {
			return err
		}
		delete(pp.defines, name)
	case "warn":
		diag.ReportWarning(pp.opts.Reporter, diag.PreUserWarning, sp, strings.TrimSpace(d.rest)).Emit()
	case "error":
		return diag.Fail(pp.opts.Reporter, diag.PreUserError, sp, strings.TrimSpace(d.rest))
	case "include":
		return pp.include(file, lineNo, d, sp)
	default:
		return diag.Fail(pp.opts.Reporter, diag.PreUnknownDirective, sp, fmt.Sprintf("Unknown directive #%s", d.name))
	}
	return nil
}

func (pp *preprocessor) include(file *source.File, lineNo uint32, d directive, sp source.Span) error {
	path, global, ok := parseIncludeTarget(d.rest)
	if !ok {
		return diag.Fail(pp.opts.Reporter, diag.PreMalformedDirective, sp, `#include expects "file" or <file>`)
	}
	if len(pp.stack) >= pp.opts.MaxDepth {
		return diag.Fail(pp.opts.Reporter, diag.PreIncludeCycle, sp, fmt.Sprintf("Include depth limit %d exceeded", pp.opts.MaxDepth))
	}
	inc, err := pp.resolve(path, global, file.Name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return diag.Fail(pp.opts.Reporter, diag.PreIncludeNotFound, sp, fmt.Sprintf("Cannot find include file %s", path))
		}
		return err
	}
	for _, name := range pp.stack {
		if name == inc.Name {
			return diag.Fail(pp.opts.Reporter, diag.PreIncludeCycle, sp, fmt.Sprintf("Recursive include of %s", inc.Name))
		}
	}
	fmt.Fprintf(&pp.out, "# 1 \"%s\" 1\n", inc.Name)
	if err := pp.unit(inc); err != nil {
		return err
	}
	fmt.Fprintf(&pp.out, "# %d \"%s\" 2\n", lineNo+1, file.Name)
	return nil
}

// resolve tries the including unit's directory for quoted includes, then
// every include dir.
func (pp *preprocessor) resolve(path string, global bool, from string) (*source.File, error) {
	var candidates []string
	if filepath.IsAbs(path) {
		candidates = append(candidates, path)
	} else {
		if !global {
			candidates = append(candidates, filepath.Join(filepath.Dir(from), path))
		}
		for _, dir := range pp.opts.IncludeDirs {
			candidates = append(candidates, filepath.Join(dir, path))
		}
	}
	for _, c := range candidates {
		f, err := pp.opts.Loader(c)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}
