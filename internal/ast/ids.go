package ast

type (
	UnitID    uint32
	BlockID   uint32
	StmtID    uint32
	ExprID    uint32
	TypeID    uint32
	PayloadID uint32
)

const (
	NoUnitID    UnitID    = 0
	NoBlockID   BlockID   = 0
	NoStmtID    StmtID    = 0
	NoExprID    ExprID    = 0
	NoTypeID    TypeID    = 0
	NoPayloadID PayloadID = 0
)

func (id UnitID) IsValid() bool    { return id != NoUnitID }
func (id BlockID) IsValid() bool   { return id != NoBlockID }
func (id StmtID) IsValid() bool    { return id != NoStmtID }
func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id TypeID) IsValid() bool    { return id != NoTypeID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
