package ast

import (
	"dmc/internal/source"
)

// Block is an ordered statement list.
type Block struct {
	Span  source.Span
	Stmts []StmtID
}

type Blocks struct {
	Arena *Arena[Block]
}

func NewBlocks(capHint uint) *Blocks {
	return &Blocks{Arena: NewArena[Block](capHint)}
}

func (b *Blocks) New(span source.Span, stmts []StmtID) BlockID {
	return BlockID(b.Arena.Allocate(Block{Span: span, Stmts: stmts}))
}

func (b *Blocks) Get(id BlockID) *Block {
	return b.Arena.Get(uint32(id))
}

// Unit is the root of one parsed compilation unit.
type Unit struct {
	Name string
	Span source.Span
	Body BlockID
}

type Units struct {
	Arena *Arena[Unit]
}

func NewUnits(capHint uint) *Units {
	return &Units{Arena: NewArena[Unit](capHint)}
}

func (u *Units) New(name string, span source.Span, body BlockID) UnitID {
	return UnitID(u.Arena.Allocate(Unit{Name: name, Span: span, Body: body}))
}

func (u *Units) Get(id UnitID) *Unit {
	return u.Arena.Get(uint32(id))
}
