package ast

import (
	"fmt"

	"dmc/internal/source"
)

// TypeExprKind enumerates type expressions as written in source.
type TypeExprKind uint8

const (
	TypeExprName TypeExprKind = iota
	TypeExprPointer
	TypeExprTuple
)

func (k TypeExprKind) String() string {
	switch k {
	case TypeExprName:
		return "TypeName"
	case TypeExprPointer:
		return "PointerType"
	case TypeExprTuple:
		return "TupleType"
	}
	return "InvalidType"
}

type TypeExpr struct {
	Kind    TypeExprKind
	Span    source.Span
	Payload PayloadID
}

type TypeNameData struct {
	Name source.StringID
}

type TypePointerData struct {
	Elem TypeID
}

// TupleItem is one slot of a tuple type; Name is NoExprID for unnamed slots.
type TupleItem struct {
	Name ExprID
	Type TypeID
	Span source.Span
}

type TypeTupleData struct {
	Items []TupleItem
}

type TypeExprs struct {
	Arena    *Arena[TypeExpr]
	Names    *Arena[TypeNameData]
	Pointers *Arena[TypePointerData]
	Tuples   *Arena[TypeTupleData]
	exprs    *Exprs
}

func NewTypeExprs(capHint uint, exprs *Exprs) *TypeExprs {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &TypeExprs{
		Arena:    NewArena[TypeExpr](capHint),
		Names:    NewArena[TypeNameData](capHint),
		Pointers: NewArena[TypePointerData](capHint >> 2),
		Tuples:   NewArena[TypeTupleData](capHint >> 1),
		exprs:    exprs,
	}
}

func (t *TypeExprs) new(kind TypeExprKind, span source.Span, payload uint32) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (t *TypeExprs) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}

func (t *TypeExprs) requireValid(what string, id TypeID) {
	if t.Get(id) == nil {
		panic(fmt.Sprintf("ast: %s: missing type expression", what))
	}
}

func (t *TypeExprs) NewName(span source.Span, name source.StringID) TypeID {
	return t.new(TypeExprName, span, t.Names.Allocate(TypeNameData{Name: name}))
}

func (t *TypeExprs) Name(id TypeID) (*TypeNameData, bool) {
	te := t.Get(id)
	if te == nil || te.Kind != TypeExprName {
		return nil, false
	}
	return t.Names.Get(uint32(te.Payload)), true
}

func (t *TypeExprs) NewPointer(span source.Span, elem TypeID) TypeID {
	t.requireValid("pointer element", elem)
	return t.new(TypeExprPointer, span, t.Pointers.Allocate(TypePointerData{Elem: elem}))
}

func (t *TypeExprs) Pointer(id TypeID) (*TypePointerData, bool) {
	te := t.Get(id)
	if te == nil || te.Kind != TypeExprPointer {
		return nil, false
	}
	return t.Pointers.Get(uint32(te.Payload)), true
}

// NewTuple creates a tuple type; item names, when present, must be identifiers.
func (t *TypeExprs) NewTuple(span source.Span, items []TupleItem) TypeID {
	for _, it := range items {
		if it.Name.IsValid() {
			t.exprs.requireKind("tuple item name", it.Name, ExprIdent)
		}
		t.requireValid("tuple item", it.Type)
	}
	return t.new(TypeExprTuple, span, t.Tuples.Allocate(TypeTupleData{Items: items}))
}

func (t *TypeExprs) Tuple(id TypeID) (*TypeTupleData, bool) {
	te := t.Get(id)
	if te == nil || te.Kind != TypeExprTuple {
		return nil, false
	}
	return t.Tuples.Get(uint32(te.Payload)), true
}
