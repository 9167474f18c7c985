package types

// LengthMember is the size member of arrays and slices.
const LengthMember = "length"

// Member resolves base.name. Named types and pointers delegate to what they
// wrap. found is false for unknown members.
func (in *Interner) Member(base TypeID, name string) (TypeID, bool, error) {
	tt, ok := in.Lookup(base)
	if !ok {
		return NoTypeID, false, nil
	}
	switch tt.Kind {
	case KindArray, KindSlice:
		if name == LengthMember {
			return tt.Size, true, nil
		}
	case KindTuple:
		for _, it := range in.tuples[tt.Payload] {
			if it.Name != "" && it.Name == name {
				return it.Type, true, nil
			}
		}
	case KindNamed:
		info := in.named[tt.Payload]
		if !info.Def.IsValid() {
			return NoTypeID, false, &NotDefinedError{Name: info.Name}
		}
		return in.Member(info.Def, name)
	case KindPointer:
		return in.Member(tt.Elem, name)
	}
	return NoTypeID, false, nil
}

// Items returns the item and size types of an array or slice, looking
// through named types.
func (in *Interner) Items(id TypeID) (item, size TypeID, ok bool) {
	tt, found := in.Lookup(in.Resolve(id))
	if !found || (tt.Kind != KindArray && tt.Kind != KindSlice) {
		return NoTypeID, NoTypeID, false
	}
	return tt.Elem, tt.Size, true
}
