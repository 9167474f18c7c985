package sema

import (
	"errors"
	"fmt"

	"dmc/internal/ast"
	"dmc/internal/diag"
	"dmc/internal/source"
	"dmc/internal/types"
)

// Options configure a semantic pass over a unit.
type Options struct {
	Reporter diag.Reporter
	Types    *types.Interner
}

// Result stores what the checker inferred.
type Result struct {
	Types     *types.Interner
	ExprTypes map[ast.ExprID]types.TypeID
	// Globals is the unit scope, a child of the superglobal scope.
	Globals ScopeID
	Scopes  *Scopes
}

// Check validates unit. A non-nil error is a *diag.Fatal that was already
// reported.
func Check(builder *ast.Builder, unit ast.UnitID, opts Options) (Result, error) {
	res := Result{
		Types:     opts.Types,
		ExprTypes: make(map[ast.ExprID]types.TypeID),
		Scopes:    NewScopes(),
	}
	if res.Types == nil {
		res.Types = types.NewInterner()
	}
	u := builder.Units.Get(unit)
	if u == nil {
		return res, nil
	}
	c := &checker{
		b:        builder,
		types:    res.Types,
		scopes:   res.Scopes,
		reporter: opts.Reporter,
		result:   &res,
	}
	super := c.superglobal()
	res.Globals = c.scopes.Push(super, nil)
	err := c.blockIn(res.Globals, u.Body)
	return res, err
}

type checker struct {
	b        *ast.Builder
	types    *types.Interner
	scopes   *Scopes
	reporter diag.Reporter
	result   *Result
}

// superglobal seeds the builtin types and values.
func (c *checker) superglobal() ScopeID {
	id := c.scopes.Push(NoScopeID, nil)
	sc := c.scopes.Get(id)
	bi := c.types.Builtins()
	sc.Types["Bool"] = bi.Bool
	sc.Types["Nullptr"] = bi.Nullptr
	sc.Types["U8"] = bi.U8
	sc.Types["Size"] = bi.Size
	sc.Types["String"] = bi.String
	sc.Vars["true"] = &Variable{Name: "true", Type: bi.Bool}
	sc.Vars["false"] = &Variable{Name: "false", Type: bi.Bool}
	sc.Vars["null"] = &Variable{Name: "null", Type: bi.Nullptr}
	return id
}

func (c *checker) fail(code diag.Code, sp source.Span, format string, args ...any) error {
	return diag.Fail(c.reporter, code, sp, fmt.Sprintf(format, args...))
}

func (c *checker) label(id types.TypeID) string {
	return types.Label(c.types, id)
}

// conversionErr turns a forward-declaration error into a diagnostic.
func (c *checker) conversionErr(err error, sp source.Span) error {
	var nd *types.NotDefinedError
	if errors.As(err, &nd) {
		return c.fail(diag.SemaNotFullyDefined, sp, "%s", nd.Error())
	}
	return err
}

func (c *checker) convertsTo(src, dst types.TypeID, sp source.Span) (bool, error) {
	ok, err := c.types.ConvertsTo(src, dst)
	if err != nil {
		return false, c.conversionErr(err, sp)
	}
	return ok, nil
}
