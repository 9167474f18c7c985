package sema

import (
	"dmc/internal/ast"
	"dmc/internal/diag"
	"dmc/internal/types"
)

// blockIn validates the statements of block directly in scope.
func (c *checker) blockIn(scope ScopeID, block ast.BlockID) error {
	b := c.b.Blocks.Get(block)
	if b == nil {
		return nil
	}
	for _, stmt := range b.Stmts {
		if err := c.stmt(scope, stmt); err != nil {
			return err
		}
	}
	return nil
}

// block opens a child scope for block.
func (c *checker) block(parent ScopeID, block ast.BlockID) error {
	return c.blockIn(c.scopes.Push(parent, nil), block)
}

func (c *checker) stmt(scope ScopeID, id ast.StmtID) error {
	st := c.b.Stmts.Get(id)
	switch st.Kind {
	case ast.StmtExpr, ast.StmtDel:
		data, _ := c.b.Stmts.Expr(id)
		_, err := c.expr(scope, data.Expr)
		return err
	case ast.StmtAssign, ast.StmtPlusAssign, ast.StmtMinusAssign:
		return c.assignStmt(scope, st, id)
	case ast.StmtVar:
		return c.varStmt(scope, st, id)
	case ast.StmtIf:
		return c.ifStmt(scope, id)
	case ast.StmtReturn:
		return c.returnStmt(scope, st, id)
	case ast.StmtForList:
		return c.forStmt(scope, id)
	case ast.StmtSpawn:
		data, _ := c.b.Stmts.Spawn(id)
		delay, err := c.expr(scope, data.Delay)
		if err != nil {
			return err
		}
		if !c.types.IsInteger(c.types.Resolve(delay)) {
			return c.fail(diag.SemaTypeMismatch, c.span(data.Delay), "Spawn delay must be an integer, got %s", c.label(delay))
		}
		return c.block(scope, data.Body)
	case ast.StmtFunc:
		return c.funcStmt(scope, id)
	case ast.StmtTypeDecl:
		data, _ := c.b.Stmts.TypeDecl(id)
		def := types.NoTypeID
		if data.Def.IsValid() {
			var err error
			if def, err = c.resolveType(scope, data.Def); err != nil {
				return err
			}
		}
		return c.insertType(scope, id, data, def)
	case ast.StmtClass, ast.StmtProc:
		return c.fail(diag.SemaNotImplemented, st.Span, "%s is not implemented", st.Kind)
	}
	panic("sema: unhandled statement " + st.Kind.String())
}

// assignStmt validates both sides. Literal types are singleton ranges, so
// no compatibility between target and value is demanded here.
func (c *checker) assignStmt(scope ScopeID, st *ast.Stmt, id ast.StmtID) error {
	data, _ := c.b.Stmts.Assign(id)
	target, err := c.expr(scope, data.Target)
	if err != nil {
		return err
	}
	value, err := c.expr(scope, data.Value)
	if err != nil {
		return err
	}
	if st.Kind == ast.StmtAssign {
		return nil
	}
	if !c.types.IsInteger(c.types.Resolve(target)) || !c.types.IsInteger(c.types.Resolve(value)) {
		return c.fail(diag.SemaTypeMismatch, st.Span, "Compound assignment requires integer operands, got %s and %s",
			c.label(target), c.label(value))
	}
	return nil
}

func (c *checker) varStmt(scope ScopeID, st *ast.Stmt, id ast.StmtID) error {
	data, _ := c.b.Stmts.Var(id)
	if !data.Value.IsValid() {
		return c.fail(diag.SemaNotImplemented, st.Span, "Variable %s has no value", c.b.Name(data.Name))
	}
	typ, err := c.expr(scope, data.Value)
	if err != nil {
		return err
	}
	return c.insertVariable(scope, data.Name, typ, id)
}

func (c *checker) ifStmt(scope ScopeID, id ast.StmtID) error {
	data, _ := c.b.Stmts.If(id)
	cond, err := c.expr(scope, data.Cond)
	if err != nil {
		return err
	}
	if want := c.types.Builtins().Bool; cond != want {
		return c.fail(diag.SemaTypeMismatch, c.span(data.Cond),
			"Condition must be of type %s, got %s", c.label(want), c.label(cond))
	}
	if err := c.block(scope, data.Then); err != nil {
		return err
	}
	if data.Else.IsValid() {
		return c.block(scope, data.Else)
	}
	return nil
}

func (c *checker) returnStmt(scope ScopeID, st *ast.Stmt, id ast.StmtID) error {
	data, _ := c.b.Stmts.Return(id)
	fn := c.scopes.InnermostFunction(scope)
	if fn == nil {
		return c.fail(diag.SemaNotInFunction, st.Span, "Not in a function")
	}
	value := c.types.Builtins().Void
	span := st.Span
	if data.Value.IsValid() {
		var err error
		if value, err = c.expr(scope, data.Value); err != nil {
			return err
		}
		span = c.span(data.Value)
	}
	ok, err := c.convertsTo(value, fn.Output, span)
	if err != nil {
		return err
	}
	if !ok {
		return c.fail(diag.SemaTypeMismatch, span, "Cannot return %s from function %s returning %s",
			c.label(value), fn.Name, c.label(fn.Output))
	}
	return nil
}

// forStmt: the loop variable lives in a scope around the body.
func (c *checker) forStmt(scope ScopeID, id ast.StmtID) error {
	data, _ := c.b.Stmts.ForList(id)
	iterable, err := c.expr(scope, data.Iterable)
	if err != nil {
		return err
	}
	item, _, ok := c.types.Items(iterable)
	if !ok {
		return c.fail(diag.SemaTypeMismatch, c.span(data.Iterable), "Cannot iterate over %s", c.label(iterable))
	}
	loop := c.scopes.Push(scope, nil)
	if data.VarDecl.IsValid() {
		decl, _ := c.b.Stmts.Var(data.VarDecl)
		if err := c.insertVariable(loop, decl.Name, item, data.VarDecl); err != nil {
			return err
		}
	} else if _, err := c.expr(loop, data.VarIdent); err != nil {
		return err
	}
	return c.block(loop, data.Body)
}

// funcStmt declares the function before its body so it can recurse.
func (c *checker) funcStmt(scope ScopeID, id ast.StmtID) error {
	data, _ := c.b.Stmts.Func(id)
	input, err := c.resolveType(scope, data.Input)
	if err != nil {
		return err
	}
	output, err := c.resolveType(scope, data.Output)
	if err != nil {
		return err
	}
	fn := &Function{Name: c.b.Name(data.Name), Input: input, Output: output, Decl: id}
	if err := c.declareFunction(scope, data.Name, fn); err != nil {
		return err
	}
	if !data.Body.IsValid() {
		return nil
	}
	body := c.scopes.Push(scope, fn)
	params, _ := c.b.Types.Tuple(data.Input)
	items, _ := c.types.TupleItems(input)
	for i, prm := range params.Items {
		if !prm.Name.IsValid() {
			continue
		}
		if err := c.insertVariable(body, prm.Name, items[i].Type, id); err != nil {
			return err
		}
	}
	return c.block(body, data.Body)
}
