package sema

import (
	"dmc/internal/ast"
	"dmc/internal/diag"
	"dmc/internal/types"
)

// insertVariable declares a value in scope. Shadowing an outer name is fine;
// functions and variables share one namespace.
func (c *checker) insertVariable(scope ScopeID, name ast.ExprID, typ types.TypeID, decl ast.StmtID) error {
	text := c.b.Name(name)
	if c.scopes.declaredHere(scope, text) {
		return c.fail(diag.SemaRedefinition, c.b.Exprs.Get(name).Span, "Redefinition of identifier %s", text)
	}
	c.scopes.Get(scope).Vars[text] = &Variable{Name: text, Type: typ, Decl: decl}
	return nil
}

func (c *checker) declareFunction(scope ScopeID, name ast.ExprID, fn *Function) error {
	if c.scopes.declaredHere(scope, fn.Name) {
		return c.fail(diag.SemaRedefinition, c.b.Exprs.Get(name).Span, "Redefinition of identifier %s", fn.Name)
	}
	c.scopes.Get(scope).Funcs[fn.Name] = fn
	return nil
}

// insertType registers or completes a named type. A repeated forward
// declaration is tolerated; a second definition is not.
func (c *checker) insertType(scope ScopeID, stmt ast.StmtID, data *ast.StmtTypeDeclData, def types.TypeID) error {
	name := c.b.TypeName(data.Name)
	span := c.b.Types.Get(data.Name).Span
	existing, owner, found := c.scopes.FindType(scope, name)
	if found {
		info, named := c.types.NamedInfo(existing)
		defined := !named || info.Def.IsValid()
		switch {
		case defined:
			return c.fail(diag.SemaTypeRedefinition, span, "Redefinition of type %s", name)
		case owner == scope:
			if def.IsValid() {
				c.types.Define(existing, def)
				info.Decl = stmt
			}
			return nil
		case !defined:
			return c.fail(diag.SemaTypeScopeMismatch, span, "Definition of type %s declared in another scope", name)
		}
	}
	named := c.types.NewNamed(name, stmt)
	if def.IsValid() {
		c.types.Define(named, def)
	}
	c.scopes.Get(scope).Types[name] = named
	return nil
}
