package types

import (
	"fmt"
)

// NotDefinedError is returned when a conversion has to look through a named
// type that is still only forward-declared.
type NotDefinedError struct {
	Name string
}

func (e *NotDefinedError) Error() string {
	return fmt.Sprintf("Type %s has not been fully defined", e.Name)
}

// ConvertsTo reports whether a value of type src implicitly converts to dst.
//
//	Integer(a,b) -> Integer(c,d)   iff c <= a && d >= b
//	Nullptr      -> *T
//	Named        -> itself, (Named), else whatever its definition converts to
//	(T1..Tn)     -> (U1..Un)       iff every Ti converts to Ui
//	T            -> (U)            iff T converts to U
func (in *Interner) ConvertsTo(src, dst TypeID) (bool, error) {
	if src == dst {
		return true, nil
	}
	s, ok := in.Lookup(src)
	if !ok {
		return false, nil
	}
	d, ok := in.Lookup(dst)
	if !ok {
		return false, nil
	}
	switch s.Kind {
	case KindInteger:
		if d.Kind == KindInteger && d.Min <= s.Min && d.Max >= s.Max {
			return true, nil
		}
	case KindNullptr:
		if d.Kind == KindPointer {
			return true, nil
		}
	case KindNamed:
		if in.wrapsExactly(dst, src) {
			return true, nil
		}
		info := in.named[s.Payload]
		if !info.Def.IsValid() {
			return false, &NotDefinedError{Name: info.Name}
		}
		return in.ConvertsTo(info.Def, dst)
	case KindTuple:
		if d.Kind != KindTuple {
			return false, nil
		}
		from, to := in.tuples[s.Payload], in.tuples[d.Payload]
		if len(from) != len(to) {
			return false, nil
		}
		for i := range from {
			ok, err := in.ConvertsTo(from[i].Type, to[i].Type)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
	if d.Kind == KindTuple {
		if items := in.tuples[d.Payload]; len(items) == 1 {
			return in.ConvertsTo(src, items[0].Type)
		}
	}
	return false, nil
}

// wrapsExactly reports whether tuple is a unary tuple holding exactly item.
func (in *Interner) wrapsExactly(tuple, item TypeID) bool {
	items, ok := in.TupleItems(tuple)
	return ok && len(items) == 1 && items[0].Type == item
}

// CommonType finds the type both operands convert to for a comparison.
// Named operands are compared by their definitions. ok is false when there
// is none.
func (in *Interner) CommonType(a, b TypeID) (TypeID, bool, error) {
	a, err := in.underlying(a)
	if err != nil {
		return NoTypeID, false, err
	}
	b, err = in.underlying(b)
	if err != nil {
		return NoTypeID, false, err
	}
	if yes, err := in.ConvertsTo(a, b); err != nil || yes {
		return b, yes, err
	}
	if yes, err := in.ConvertsTo(b, a); err != nil || yes {
		return a, yes, err
	}
	ta, _ := in.Lookup(a)
	tb, _ := in.Lookup(b)
	switch {
	case ta.Kind == KindInteger && tb.Kind == KindInteger:
		return in.Integer(min(ta.Min, tb.Min), max(ta.Max, tb.Max)), true, nil
	case ta.Kind == KindSlice && tb.Kind == KindSlice && ta.Elem == tb.Elem && ta.Size == tb.Size:
		return a, true, nil
	}
	return NoTypeID, false, nil
}

// Resolve looks through named types down to a structural definition. It
// stops at a forward declaration.
func (in *Interner) Resolve(id TypeID) TypeID {
	for range len(in.named) {
		info, ok := in.NamedInfo(id)
		if !ok || !info.Def.IsValid() {
			return id
		}
		id = info.Def
	}
	return id
}

// underlying resolves id like Resolve but fails on a forward declaration.
func (in *Interner) underlying(id TypeID) (TypeID, error) {
	id = in.Resolve(id)
	if info, ok := in.NamedInfo(id); ok && !info.Def.IsValid() {
		return id, &NotDefinedError{Name: info.Name}
	}
	return id, nil
}
