package ast

import (
	"fmt"

	"dmc/internal/source"
)

type Stmts struct {
	Arena   *Arena[Stmt]
	Assigns *Arena[StmtAssignData]
	Exprs   *Arena[StmtExprData]
	Fors    *Arena[StmtForListData]
	Ifs     *Arena[StmtIfData]
	Returns *Arena[StmtReturnData]
	Spawns  *Arena[StmtSpawnData]
	Funcs   *Arena[StmtFuncData]
	Types   *Arena[StmtTypeDeclData]
	Vars    *Arena[StmtVarData]
	Classes *Arena[StmtClassData]
	Procs   *Arena[StmtProcData]

	exprs *Exprs
	types *TypeExprs
}

func NewStmts(capHint uint, exprs *Exprs, types *TypeExprs) *Stmts {
	if capHint == 0 {
		capHint = 1 << 7
	}
	small := capHint >> 3
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		Assigns: NewArena[StmtAssignData](capHint >> 1),
		Exprs:   NewArena[StmtExprData](capHint >> 1),
		Fors:    NewArena[StmtForListData](small),
		Ifs:     NewArena[StmtIfData](small),
		Returns: NewArena[StmtReturnData](small),
		Spawns:  NewArena[StmtSpawnData](small),
		Funcs:   NewArena[StmtFuncData](small),
		Types:   NewArena[StmtTypeDeclData](small),
		Vars:    NewArena[StmtVarData](capHint >> 2),
		Classes: NewArena[StmtClassData](small),
		Procs:   NewArena[StmtProcData](small),
		exprs:   exprs,
		types:   types,
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) payload(id StmtID, kinds ...StmtKind) (uint32, bool) {
	st := s.Get(id)
	if st == nil {
		return 0, false
	}
	for _, k := range kinds {
		if st.Kind == k {
			return uint32(st.Payload), true
		}
	}
	return 0, false
}

func (s *Stmts) requireExpr(what string, id ExprID) {
	if s.exprs.Get(id) == nil {
		panic(fmt.Sprintf("ast: %s: missing expression", what))
	}
}

func (s *Stmts) requireTuple(what string, id TypeID) {
	te := s.types.Get(id)
	if te == nil || te.Kind != TypeExprTuple {
		panic(fmt.Sprintf("ast: %s: tuple type expected", what))
	}
}

// NewAssign creates =, += or -= depending on kind.
func (s *Stmts) NewAssign(span source.Span, kind StmtKind, target, value ExprID) StmtID {
	switch kind {
	case StmtAssign, StmtPlusAssign, StmtMinusAssign:
	default:
		panic(fmt.Sprintf("ast: %s is not an assignment", kind))
	}
	s.requireExpr("assignment target", target)
	s.requireExpr("assignment value", value)
	return s.new(kind, span, s.Assigns.Allocate(StmtAssignData{Target: target, Value: value}))
}

func (s *Stmts) Assign(id StmtID) (*StmtAssignData, bool) {
	p, ok := s.payload(id, StmtAssign, StmtPlusAssign, StmtMinusAssign)
	if !ok {
		return nil, false
	}
	return s.Assigns.Get(p), true
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	s.requireExpr("expression statement", expr)
	return s.new(StmtExpr, span, s.Exprs.Allocate(StmtExprData{Expr: expr}))
}

func (s *Stmts) NewDel(span source.Span, expr ExprID) StmtID {
	s.requireExpr("del", expr)
	return s.new(StmtDel, span, s.Exprs.Allocate(StmtExprData{Expr: expr}))
}

// Expr returns the payload of expression and del statements.
func (s *Stmts) Expr(id StmtID) (*StmtExprData, bool) {
	p, ok := s.payload(id, StmtExpr, StmtDel)
	if !ok {
		return nil, false
	}
	return s.Exprs.Get(p), true
}

func (s *Stmts) NewForList(span source.Span, varDecl StmtID, varIdent, iterable ExprID, body BlockID) StmtID {
	if varDecl.IsValid() == varIdent.IsValid() {
		panic("ast: for loop needs exactly one loop variable")
	}
	if varDecl.IsValid() {
		if st := s.Get(varDecl); st == nil || st.Kind != StmtVar {
			panic("ast: for loop declaration must be a var statement")
		}
	} else {
		s.exprs.requireKind("for loop variable", varIdent, ExprIdent)
	}
	s.requireExpr("for iterable", iterable)
	return s.new(StmtForList, span, s.Fors.Allocate(StmtForListData{
		VarDecl: varDecl, VarIdent: varIdent, Iterable: iterable, Body: body,
	}))
}

func (s *Stmts) ForList(id StmtID) (*StmtForListData, bool) {
	p, ok := s.payload(id, StmtForList)
	if !ok {
		return nil, false
	}
	return s.Fors.Get(p), true
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els BlockID) StmtID {
	s.requireExpr("if condition", cond)
	return s.new(StmtIf, span, s.Ifs.Allocate(StmtIfData{Cond: cond, Then: then, Else: els}))
}

func (s *Stmts) If(id StmtID) (*StmtIfData, bool) {
	p, ok := s.payload(id, StmtIf)
	if !ok {
		return nil, false
	}
	return s.Ifs.Get(p), true
}

// NewReturn creates a return; value may be NoExprID.
func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	return s.new(StmtReturn, span, s.Returns.Allocate(StmtReturnData{Value: value}))
}

func (s *Stmts) Return(id StmtID) (*StmtReturnData, bool) {
	p, ok := s.payload(id, StmtReturn)
	if !ok {
		return nil, false
	}
	return s.Returns.Get(p), true
}

func (s *Stmts) NewSpawn(span source.Span, delay ExprID, body BlockID) StmtID {
	s.requireExpr("spawn delay", delay)
	return s.new(StmtSpawn, span, s.Spawns.Allocate(StmtSpawnData{Delay: delay, Body: body}))
}

func (s *Stmts) Spawn(id StmtID) (*StmtSpawnData, bool) {
	p, ok := s.payload(id, StmtSpawn)
	if !ok {
		return nil, false
	}
	return s.Spawns.Get(p), true
}

func (s *Stmts) NewFunc(span source.Span, data StmtFuncData) StmtID {
	s.exprs.requireKind("function name", data.Name, ExprIdent)
	s.requireTuple("function input", data.Input)
	s.requireTuple("function output", data.Output)
	for _, a := range data.Attrs {
		s.exprs.requireKind("attribute name", a.Name, ExprIdent)
		s.exprs.requireArgs(a.Args)
	}
	return s.new(StmtFunc, span, s.Funcs.Allocate(data))
}

func (s *Stmts) Func(id StmtID) (*StmtFuncData, bool) {
	p, ok := s.payload(id, StmtFunc)
	if !ok {
		return nil, false
	}
	return s.Funcs.Get(p), true
}

func (s *Stmts) NewTypeDecl(span source.Span, name, def TypeID) StmtID {
	if te := s.types.Get(name); te == nil || te.Kind != TypeExprName {
		panic("ast: type declaration name must be a TypeName")
	}
	return s.new(StmtTypeDecl, span, s.Types.Allocate(StmtTypeDeclData{Name: name, Def: def}))
}

func (s *Stmts) TypeDecl(id StmtID) (*StmtTypeDeclData, bool) {
	p, ok := s.payload(id, StmtTypeDecl)
	if !ok {
		return nil, false
	}
	return s.Types.Get(p), true
}

func (s *Stmts) NewVar(span source.Span, name, value, typePath ExprID) StmtID {
	s.exprs.requireKind("var name", name, ExprIdent)
	if typePath.IsValid() {
		s.exprs.requireKind("var type path", typePath, ExprIdent, ExprPath)
	}
	return s.new(StmtVar, span, s.Vars.Allocate(StmtVarData{Name: name, Value: value, TypePath: typePath}))
}

func (s *Stmts) Var(id StmtID) (*StmtVarData, bool) {
	p, ok := s.payload(id, StmtVar)
	if !ok {
		return nil, false
	}
	return s.Vars.Get(p), true
}

func (s *Stmts) NewClass(span source.Span, data StmtClassData) StmtID {
	s.exprs.requireKind("class path", data.Path, ExprRootNamespace, ExprPath, ExprIdent)
	for _, p := range data.Properties {
		s.exprs.requireKind("property name", p.Name, ExprIdent)
	}
	return s.new(StmtClass, span, s.Classes.Allocate(data))
}

func (s *Stmts) Class(id StmtID) (*StmtClassData, bool) {
	p, ok := s.payload(id, StmtClass)
	if !ok {
		return nil, false
	}
	return s.Classes.Get(p), true
}

func (s *Stmts) NewProc(span source.Span, data StmtProcData) StmtID {
	s.exprs.requireKind("proc name", data.Name, ExprIdent)
	for _, prm := range data.Params {
		s.exprs.requireKind("proc parameter", prm.Name, ExprIdent)
	}
	return s.new(StmtProc, span, s.Procs.Allocate(data))
}

func (s *Stmts) Proc(id StmtID) (*StmtProcData, bool) {
	p, ok := s.payload(id, StmtProc)
	if !ok {
		return nil, false
	}
	return s.Procs.Get(p), true
}
