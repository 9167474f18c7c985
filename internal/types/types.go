package types

import (
	"fmt"
	"math"
)

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

func (id TypeID) IsValid() bool { return id != NoTypeID }

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInteger
	KindArray
	KindSlice
	KindPointer
	KindTuple
	KindNamed
	// KindNullptr and KindBool are opaque definitions behind the builtin
	// Nullptr and Bool named types.
	KindNullptr
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindInteger:
		return "integer"
	case KindArray:
		return "array"
	case KindSlice:
		return "slice"
	case KindPointer:
		return "pointer"
	case KindTuple:
		return "tuple"
	case KindNamed:
		return "named"
	case KindNullptr:
		return "nullptr"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// SizeMax is the upper bound of the builtin Size range.
const SizeMax = math.MaxInt32

// Type is a compact descriptor. Structural kinds are deduplicated by the
// interner, so equal descriptors share a TypeID.
type Type struct {
	Kind Kind
	Min  int64  // integer
	Max  int64  // integer
	Elem TypeID // array/slice item, pointee
	Size TypeID // array/slice size type
	// Payload indexes tuple or named info.
	Payload uint32
}

// MakeInteger describes the closed range [min, max].
func MakeInteger(min, max int64) Type {
	return Type{Kind: KindInteger, Min: min, Max: max}
}

func MakeArray(item, size TypeID) Type {
	return Type{Kind: KindArray, Elem: item, Size: size}
}

// MakeSlice has the member shape of an array but a distinct identity.
func MakeSlice(item, size TypeID) Type {
	return Type{Kind: KindSlice, Elem: item, Size: size}
}

func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}

// TupleItem is one slot of a tuple; Name is empty for unnamed slots.
type TupleItem struct {
	Name string
	Type TypeID
}
