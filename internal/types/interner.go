package types

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"dmc/internal/ast"
)

// Builtins stores TypeIDs seeded into every interner.
type Builtins struct {
	Bool    TypeID
	Nullptr TypeID
	U8      TypeID
	Size    TypeID
	String  TypeID
	// Void is the zero-length tuple.
	Void TypeID
}

// NamedInfo backs a NamedType. Def stays NoTypeID while the type is only
// forward-declared.
type NamedInfo struct {
	Name string
	Def  TypeID
	Decl ast.StmtID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Named types are never deduplicated: each declaration is a new identity.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	tupleIdx map[string]TypeID
	tuples   [][]TupleItem
	named    []NamedInfo
	builtins Builtins
}

type typeKey struct {
	Kind Kind
	Min  int64
	Max  int64
	Elem TypeID
	Size TypeID
}

// NewInterner constructs an interner seeded with the builtin types.
func NewInterner() *Interner {
	in := &Interner{
		types:    []Type{{Kind: KindInvalid}},
		index:    make(map[typeKey]TypeID, 64),
		tupleIdx: make(map[string]TypeID, 16),
		tuples:   [][]TupleItem{nil},
		named:    []NamedInfo{{}},
	}
	in.builtins.Bool = in.NewNamed("Bool", ast.NoStmtID)
	in.Define(in.builtins.Bool, in.Intern(Type{Kind: KindBool}))
	in.builtins.Nullptr = in.NewNamed("Nullptr", ast.NoStmtID)
	in.Define(in.builtins.Nullptr, in.Intern(Type{Kind: KindNullptr}))
	in.builtins.U8 = in.NewNamed("U8", ast.NoStmtID)
	in.Define(in.builtins.U8, in.Integer(0, 255))
	in.builtins.Size = in.Integer(0, SizeMax)
	in.builtins.String = in.NewNamed("String", ast.NoStmtID)
	in.Define(in.builtins.String, in.Array(in.builtins.U8, in.builtins.Size))
	in.builtins.Void = in.Tuple(nil)
	return in
}

// Builtins returns TypeIDs for builtin types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided structural descriptor has a stable TypeID.
// Tuples and named types have dedicated constructors.
func (in *Interner) Intern(t Type) TypeID {
	switch t.Kind {
	case KindInvalid:
		return NoTypeID
	case KindTuple, KindNamed:
		panic(fmt.Sprintf("types: Intern does not handle %s", t.Kind))
	}
	key := typeKey{Kind: t.Kind, Min: t.Min, Max: t.Max, Elem: t.Elem, Size: t.Size}
	if id, ok := in.index[key]; ok {
		return id
	}
	id := in.internRaw(t)
	in.index[key] = id
	return id
}

func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	in.types = append(in.types, t)
	return TypeID(n)
}

func (in *Interner) Integer(min, max int64) TypeID { return in.Intern(MakeInteger(min, max)) }
func (in *Interner) Array(item, size TypeID) TypeID { return in.Intern(MakeArray(item, size)) }
func (in *Interner) Slice(item, size TypeID) TypeID { return in.Intern(MakeSlice(item, size)) }
func (in *Interner) Pointer(elem TypeID) TypeID     { return in.Intern(MakePointer(elem)) }

// Tuple creates or finds the tuple with exactly these items, names included.
func (in *Interner) Tuple(items []TupleItem) TypeID {
	var key strings.Builder
	for _, it := range items {
		fmt.Fprintf(&key, "%s:%d,", it.Name, it.Type)
	}
	if id, ok := in.tupleIdx[key.String()]; ok {
		return id
	}
	slot, err := safecast.Conv[uint32](len(in.tuples))
	if err != nil {
		panic(fmt.Errorf("tuple info overflow: %w", err))
	}
	in.tuples = append(in.tuples, append([]TupleItem(nil), items...))
	id := in.internRaw(Type{Kind: KindTuple, Payload: slot})
	in.tupleIdx[key.String()] = id
	return id
}

// NewNamed registers a forward-declared named type.
func (in *Interner) NewNamed(name string, decl ast.StmtID) TypeID {
	slot, err := safecast.Conv[uint32](len(in.named))
	if err != nil {
		panic(fmt.Errorf("named info overflow: %w", err))
	}
	in.named = append(in.named, NamedInfo{Name: name, Decl: decl})
	return in.internRaw(Type{Kind: KindNamed, Payload: slot})
}

// Define completes a named type in place.
func (in *Interner) Define(named, def TypeID) {
	info, ok := in.NamedInfo(named)
	if !ok {
		panic("types: Define on a non-named type")
	}
	info.Def = def
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// TupleItems returns the items of a tuple TypeID.
func (in *Interner) TupleItems(id TypeID) ([]TupleItem, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTuple {
		return nil, false
	}
	return in.tuples[tt.Payload], true
}

// NamedInfo returns the mutable info of a named TypeID.
func (in *Interner) NamedInfo(id TypeID) (*NamedInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindNamed {
		return nil, false
	}
	return &in.named[tt.Payload], true
}

// IsInteger reports whether id is an Integer range.
func (in *Interner) IsInteger(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == KindInteger
}
