package ast

import (
	"dmc/internal/source"
)

type StmtKind uint8

const (
	StmtAssign StmtKind = iota
	StmtPlusAssign
	StmtMinusAssign
	StmtDel
	StmtExpr
	StmtForList
	StmtIf
	StmtReturn
	StmtSpawn
	StmtFunc
	StmtTypeDecl
	StmtVar
	// object-tree dialect
	StmtClass
	StmtProc
)

var stmtKindNames = [...]string{
	StmtAssign:      "AssignmentStatement",
	StmtPlusAssign:  "PlusAssignmentStatement",
	StmtMinusAssign: "MinusAssignmentStatement",
	StmtDel:         "DelStatement",
	StmtExpr:        "ExpressionStatement",
	StmtForList:     "ForListStatement",
	StmtIf:          "IfStatement",
	StmtReturn:      "ReturnStatement",
	StmtSpawn:       "SpawnStatement",
	StmtFunc:        "FunctionStatement",
	StmtTypeDecl:    "TypeDeclarationStatement",
	StmtVar:         "VarStatement",
	StmtClass:       "ClassDeclaration",
	StmtProc:        "ProcedureDeclaration",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "InvalidStmt"
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// StmtAssignData serves =, += and -=.
type StmtAssignData struct {
	Target ExprID
	Value  ExprID
}

// StmtExprData serves expression statements and del.
type StmtExprData struct {
	Expr ExprID
}

// StmtForListData: exactly one of VarDecl (a StmtVar) and VarIdent is set.
type StmtForListData struct {
	VarDecl  StmtID
	VarIdent ExprID
	Iterable ExprID
	Body     BlockID
}

type StmtIfData struct {
	Cond ExprID
	Then BlockID
	Else BlockID
}

type StmtReturnData struct {
	Value ExprID
}

type StmtSpawnData struct {
	Delay ExprID
	Body  BlockID
}

type Attribute struct {
	Name ExprID
	Args ArgList
	Span source.Span
}

// StmtFuncData: Input and Output are tuple type expressions; Body may be
// NoBlockID for a bodiless declaration.
type StmtFuncData struct {
	Name   ExprID
	Input  TypeID
	Output TypeID
	Attrs  []Attribute
	Body   BlockID
}

// StmtTypeDeclData: Name is a TypeName; Def is NoTypeID for a forward declaration.
type StmtTypeDeclData struct {
	Name TypeID
	Def  TypeID
}

// StmtVarData: Value is absent for loop variables and bare object-tree vars.
// TypePath holds the var/TYPE/.../ prefix of object-tree declarations.
type StmtVarData struct {
	Name     ExprID
	Value    ExprID
	TypePath ExprID
}

type ProcRef struct {
	Proc        StmtID
	InProcBlock bool
}

type Property struct {
	Name  ExprID
	Value ExprID
	Span  source.Span
}

type StmtClassData struct {
	Path       ExprID
	Classes    []StmtID
	Procs      []ProcRef
	Verbs      []StmtID
	Properties []Property
	Vars       []StmtID
}

// Param is TYPEPATH/NAME [= default].
type Param struct {
	Name     ExprID
	TypePath ExprID
	Default  ExprID
	Span     source.Span
}

type StmtProcData struct {
	Name   ExprID
	Params []Param
	Body   BlockID
	Verb   bool
}
