package ast

import (
	"dmc/internal/source"
)

type Hints struct{ Units, Blocks, Stmts, Exprs, Types uint }

// Builder owns every arena of one parse. Nodes are immutable once built.
type Builder struct {
	Units   *Units
	Blocks  *Blocks
	Stmts   *Stmts
	Exprs   *Exprs
	Types   *TypeExprs
	Strings *source.Interner
}

// NewBuilder allocates arenas; strings may be shared between builders.
func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if hints.Units == 0 {
		hints.Units = 1
	}
	if hints.Blocks == 0 {
		hints.Blocks = 1 << 5
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	exprs := NewExprs(hints.Exprs)
	types := NewTypeExprs(hints.Types, exprs)
	return &Builder{
		Units:   NewUnits(hints.Units),
		Blocks:  NewBlocks(hints.Blocks),
		Stmts:   NewStmts(hints.Stmts, exprs, types),
		Exprs:   exprs,
		Types:   types,
		Strings: strings,
	}
}

// Name returns the text of an identifier expression, "" otherwise.
func (b *Builder) Name(id ExprID) string {
	data, ok := b.Exprs.Ident(id)
	if !ok {
		return ""
	}
	return b.Strings.MustLookup(data.Name)
}

// TypeName returns the text of a TypeName expression, "" otherwise.
func (b *Builder) TypeName(id TypeID) string {
	data, ok := b.Types.Name(id)
	if !ok {
		return ""
	}
	return b.Strings.MustLookup(data.Name)
}

// PathString renders a path or identifier as written: /a/b or a/b.
func (b *Builder) PathString(id ExprID) string {
	expr := b.Exprs.Get(id)
	if expr == nil {
		return ""
	}
	switch expr.Kind {
	case ExprRootNamespace:
		return ""
	case ExprIdent:
		return b.Name(id)
	case ExprPath:
		p, _ := b.Exprs.Path(id)
		return b.PathString(p.Namespace) + "/" + b.Name(p.Member)
	}
	return ""
}
