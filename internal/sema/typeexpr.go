package sema

import (
	"dmc/internal/ast"
	"dmc/internal/diag"
	"dmc/internal/types"
)

// resolveType turns a type expression into a type.
func (c *checker) resolveType(scope ScopeID, id ast.TypeID) (types.TypeID, error) {
	te := c.b.Types.Get(id)
	switch te.Kind {
	case ast.TypeExprName:
		name := c.b.TypeName(id)
		t, _, ok := c.scopes.FindType(scope, name)
		if !ok {
			return types.NoTypeID, c.fail(diag.SemaUnknownType, te.Span, "Unknown type name '%s'", name)
		}
		return t, nil
	case ast.TypeExprPointer:
		data, _ := c.b.Types.Pointer(id)
		elem, err := c.resolveType(scope, data.Elem)
		if err != nil {
			return types.NoTypeID, err
		}
		return c.types.Pointer(elem), nil
	case ast.TypeExprTuple:
		data, _ := c.b.Types.Tuple(id)
		items := make([]types.TupleItem, 0, len(data.Items))
		for _, it := range data.Items {
			t, err := c.resolveType(scope, it.Type)
			if err != nil {
				return types.NoTypeID, err
			}
			items = append(items, types.TupleItem{Name: c.b.Name(it.Name), Type: t})
		}
		return c.types.Tuple(items), nil
	}
	panic("sema: unhandled type expression " + te.Kind.String())
}
