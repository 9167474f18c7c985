package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dmc/internal/ast"
	"dmc/internal/diag"
	"dmc/internal/lexer"
	"dmc/internal/observ"
	"dmc/internal/parser"
	"dmc/internal/preproc"
	"dmc/internal/sema"
	"dmc/internal/source"
	"dmc/internal/token"
	"dmc/internal/trace"
)

// Result is everything the pipeline produced for one unit. Later fields
// stay zero when an earlier stage failed or was not requested.
type Result struct {
	Path    string
	FileSet *source.FileSet
	File    *source.File
	// Text is the preprocessed unit; File itself when preprocessing is off.
	Text    *source.File
	Tokens  []token.Token
	Builder *ast.Builder
	Unit    ast.UnitID
	Sema    *sema.Result
	Bag     *diag.Bag
	Timing  *observ.Report
	Dialect parser.Dialect
	// Cached is set when the outcome was replayed from the disk cache.
	Cached bool
	// Err is the fatal diagnostic that stopped the unit, if any.
	Err error
}

// Failed reports whether a stage aborted the unit.
func (r *Result) Failed() bool { return r != nil && r.Err != nil }

type run struct {
	ctx    context.Context
	opts   Options
	res    *Result
	rep    diag.Reporter
	timer  *observ.Timer
	tracer trace.Tracer
	parent uint64
}

func newRun(ctx context.Context, fs *source.FileSet, path string, opts Options) *run {
	res := &Result{
		Path:    path,
		FileSet: fs,
		Bag:     diag.NewBag(opts.MaxDiagnostics),
		Dialect: parser.DialectFor(path, opts.Dialect),
	}
	return &run{
		ctx:    ctx,
		opts:   opts,
		res:    res,
		rep:    diag.MultiReporter{diag.BagReporter{Bag: res.Bag}, opts.Reporter},
		timer:  observ.NewTimer(),
		tracer: trace.FromContext(ctx),
		parent: trace.ParentFrom(ctx),
	}
}

// phase runs fn as one stage with timing, tracing and progress events.
func (r *run) phase(stage Stage, fn func() (string, error)) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	emit(r.opts.Progress, Event{Unit: r.res.Path, Stage: stage, Status: StatusWorking})
	span := trace.Begin(r.tracer, trace.ScopePass, string(stage), r.parent)
	idx := r.timer.Begin(string(stage))
	started := time.Now()

	note, err := fn()

	r.timer.End(idx, note)
	span.End(note)
	if err != nil {
		trace.Error(r.tracer, trace.ScopePass, string(stage), err, span.ID())
		emit(r.opts.Progress, Event{Unit: r.res.Path, Stage: stage, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		return err
	}
	return nil
}

func (r *run) load() error {
	if f, ok := r.res.FileSet.Lookup(r.res.Path); ok {
		r.res.File = f
		return nil
	}
	id, err := r.res.FileSet.Load(r.res.Path)
	if err != nil {
		diag.ErrorGlobal(r.rep, diag.IOLoadFileError, fmt.Sprintf("Cannot read %s: %v", r.res.Path, err))
		return fmt.Errorf("load %s: %w", r.res.Path, err)
	}
	r.res.File = r.res.FileSet.Get(id)
	return nil
}

func (r *run) preprocess() error {
	if !r.opts.Preprocess {
		r.res.Text = r.res.File
		return nil
	}
	return r.phase(StagePreprocess, func() (string, error) {
		opts := r.opts.Preproc
		opts.Reporter = r.rep
		text, err := preproc.Preprocess(r.ctx, r.res.FileSet, r.res.File, opts)
		if err != nil {
			return "", err
		}
		// the original stays registered under its name for previews
		id := r.res.FileSet.AddVirtual(r.res.File.Name+".i", text)
		r.res.Text = r.res.FileSet.Get(id)
		return "", nil
	})
}

func (r *run) tokenize() error {
	return r.phase(StageTokenize, func() (string, error) {
		lexOpts := r.opts.Lexer
		lexOpts.Reporter = r.rep
		toks, err := lexer.Tokenize(r.res.Text, lexOpts)
		if err != nil {
			return "", err
		}
		r.res.Tokens = toks
		return fmt.Sprintf("%d tokens", len(toks)), nil
	})
}

func (r *run) parse() error {
	return r.phase(StageParse, func() (string, error) {
		b := ast.NewBuilder(ast.Hints{Exprs: uint(len(r.res.Tokens)), Stmts: uint(len(r.res.Tokens) / 4)}, nil)
		p := parser.New(r.res.File.Name, r.res.Tokens, b, parser.Options{Reporter: r.rep, Dialect: r.res.Dialect})
		unit, err := p.ParseUnit()
		if err == nil {
			err = p.FinalCheck()
		}
		if err != nil {
			return "", err
		}
		r.res.Builder, r.res.Unit = b, unit
		return fmt.Sprintf("%d statements", b.Stmts.Arena.Len()), nil
	})
}

func (r *run) check() error {
	if r.res.Dialect == parser.DialectObjectTree {
		diag.WarnGlobal(r.rep, diag.SemaSkipped, fmt.Sprintf("Semantic analysis skipped for object-tree unit %s", r.res.Path))
		return nil
	}
	return r.phase(StageSema, func() (string, error) {
		res, err := sema.Check(r.res.Builder, r.res.Unit, sema.Options{Reporter: r.rep})
		r.res.Sema = &res
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d typed expressions", len(res.ExprTypes)), nil
	})
}

// finish records the outcome: fatal diagnostics end up in Err, anything
// else is returned.
func (r *run) finish(err error) (*Result, error) {
	if r.opts.Timings {
		r.timer.Emit(r.rep)
	}
	report := r.timer.Report()
	r.res.Timing = &report
	if err == nil {
		return r.res, nil
	}
	if _, ok := diag.AsFatal(err); ok {
		r.res.Err = err
		return r.res, nil
	}
	return r.res, err
}

func (r *run) steps(steps ...func() error) (*Result, error) {
	span := trace.Begin(r.tracer, trace.ScopeUnit, "unit:"+r.res.Path, r.parent)
	r.parent = span.ID()
	defer span.End("")
	for _, step := range steps {
		if err := step(); err != nil {
			return r.finish(err)
		}
	}
	return r.finish(nil)
}

// Tokenize loads and preprocesses path, then tokenizes it. A non-nil error
// is an I/O or cancellation failure; language errors are in Result.Err.
func Tokenize(ctx context.Context, fs *source.FileSet, path string, opts Options) (*Result, error) {
	r := newRun(ctx, fs, path, opts)
	return r.steps(r.load, r.preprocess, r.tokenize)
}

// Parse runs the pipeline up to and including the parser.
func Parse(ctx context.Context, fs *source.FileSet, path string, opts Options) (*Result, error) {
	r := newRun(ctx, fs, path, opts)
	return r.steps(r.load, r.preprocess, r.tokenize, r.parse)
}

// Check runs the full pipeline. Successful outcomes are stored in
// opts.Cache and replayed on the next run with identical input.
func Check(ctx context.Context, fs *source.FileSet, path string, opts Options) (*Result, error) {
	r := newRun(ctx, fs, path, opts)
	var key Digest
	lookup := func() error {
		if opts.Cache == nil {
			return nil
		}
		key = cacheKey(r.res.Text, opts)
		var payload Payload
		hit, err := opts.Cache.Get(key, &payload)
		if err != nil || !hit || payload.Schema != cacheSchemaVersion {
			return nil
		}
		r.res.Cached = true
		trace.Point(r.tracer, trace.ScopeUnit, "cache-hit", path, r.parent)
		for _, d := range payload.Diagnostics {
			r.rep.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
		}
		diag.ReportInfo(r.rep, diag.ObsCacheHit, source.Span{}, "cache hit for "+path).Emit()
		return errCached
	}
	store := func() error {
		if opts.Cache == nil || r.res.Bag.HasErrors() {
			return nil
		}
		payload := Payload{Schema: cacheSchemaVersion, Unit: path, Diagnostics: r.res.Bag.Items()}
		if err := opts.Cache.Put(key, &payload); err != nil {
			trace.Error(r.tracer, trace.ScopeUnit, "cache", err, r.parent)
		}
		return nil
	}
	res, err := r.steps(r.load, r.preprocess, lookup, r.tokenize, r.parse, r.check, store)
	if errors.Is(err, errCached) {
		res.Err = nil
		emit(opts.Progress, Event{Unit: path, Stage: StageSema, Status: StatusCached})
		return res, nil
	}
	if err == nil && !res.Failed() {
		emit(opts.Progress, Event{Unit: path, Stage: StageSema, Status: StatusDone})
	}
	return res, err
}
