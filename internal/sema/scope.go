package sema

import (
	"dmc/internal/ast"
	"dmc/internal/types"
)

// ScopeID indexes the scope arena of one Check call. Parents are referenced
// by ID, so scopes never own each other.
type ScopeID uint32

const NoScopeID ScopeID = 0

type Variable struct {
	Name string
	Type types.TypeID
	Decl ast.StmtID
}

type Function struct {
	Name   string
	Input  types.TypeID
	Output types.TypeID
	Decl   ast.StmtID
}

type Scope struct {
	Parent ScopeID
	// Func is the function whose body opened this scope, nil otherwise.
	Func  *Function
	Vars  map[string]*Variable
	Types map[string]types.TypeID
	Funcs map[string]*Function
}

type Scopes struct {
	arena []Scope
}

func NewScopes() *Scopes {
	return &Scopes{arena: make([]Scope, 1, 16)}
}

// Push opens a child scope of parent.
func (s *Scopes) Push(parent ScopeID, fn *Function) ScopeID {
	s.arena = append(s.arena, Scope{
		Parent: parent,
		Func:   fn,
		Vars:   make(map[string]*Variable),
		Types:  make(map[string]types.TypeID),
		Funcs:  make(map[string]*Function),
	})
	return ScopeID(len(s.arena) - 1)
}

func (s *Scopes) Get(id ScopeID) *Scope {
	if id == NoScopeID || int(id) >= len(s.arena) {
		return nil
	}
	return &s.arena[id]
}

// FindValue walks outward and returns the variable or function named name.
func (s *Scopes) FindValue(id ScopeID, name string) (*Variable, *Function) {
	for sc := s.Get(id); sc != nil; sc = s.Get(sc.Parent) {
		if v, ok := sc.Vars[name]; ok {
			return v, nil
		}
		if fn, ok := sc.Funcs[name]; ok {
			return nil, fn
		}
	}
	return nil, nil
}

// FindType walks outward and also reports the scope that holds the entry.
func (s *Scopes) FindType(id ScopeID, name string) (types.TypeID, ScopeID, bool) {
	for cur := id; cur != NoScopeID; cur = s.Get(cur).Parent {
		if t, ok := s.Get(cur).Types[name]; ok {
			return t, cur, true
		}
	}
	return types.NoTypeID, NoScopeID, false
}

// InnermostFunction returns the function enclosing scope id.
func (s *Scopes) InnermostFunction(id ScopeID) *Function {
	for sc := s.Get(id); sc != nil; sc = s.Get(sc.Parent) {
		if sc.Func != nil {
			return sc.Func
		}
	}
	return nil
}

// declaredHere reports whether name is a value in exactly this scope.
func (s *Scopes) declaredHere(id ScopeID, name string) bool {
	sc := s.Get(id)
	_, isVar := sc.Vars[name]
	_, isFunc := sc.Funcs[name]
	return isVar || isFunc
}
