package types

import (
	"strconv"
	"strings"
)

// Label returns a user-friendly label for a TypeID.
func Label(typesIn *Interner, id TypeID) string {
	return labelDepth(typesIn, id, 0)
}

func labelDepth(typesIn *Interner, id TypeID, depth int) string {
	if id == NoTypeID || typesIn == nil {
		return "?"
	}
	if depth > 6 {
		return "..."
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindInteger:
		return "Integer(" + strconv.FormatInt(tt.Min, 10) + ", " + strconv.FormatInt(tt.Max, 10) + ")"
	case KindArray:
		return "Array(" + labelDepth(typesIn, tt.Elem, depth+1) + ", " + labelDepth(typesIn, tt.Size, depth+1) + ")"
	case KindSlice:
		return "Slice(" + labelDepth(typesIn, tt.Elem, depth+1) + ", " + labelDepth(typesIn, tt.Size, depth+1) + ")"
	case KindPointer:
		return "*" + labelDepth(typesIn, tt.Elem, depth+1)
	case KindTuple:
		items := typesIn.tuples[tt.Payload]
		parts := make([]string, 0, len(items))
		for _, it := range items {
			label := labelDepth(typesIn, it.Type, depth+1)
			if it.Name != "" {
				label = it.Name + ": " + label
			}
			parts = append(parts, label)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindNamed:
		return typesIn.named[tt.Payload].Name
	case KindNullptr:
		return "nullptr"
	case KindBool:
		return "bool"
	}
	return tt.Kind.String()
}
