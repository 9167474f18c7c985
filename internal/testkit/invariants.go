// Package testkit holds structural checks shared by parser and driver tests.
package testkit

import (
	"fmt"

	"dmc/internal/ast"
	"dmc/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed unit:
// 1) no located node ends before it starts
// 2) statements of every block reachable from the unit are in source order
// 3) every statement ID stored in a block resolves
//
// Endpoints in different units (a node split by a line marker) are not
// ordered and are skipped.
func CheckSpanInvariants(b *ast.Builder, unit ast.UnitID) error {
	if b == nil {
		return fmt.Errorf("nil builder")
	}
	u := b.Units.Get(unit)
	if u == nil {
		return fmt.Errorf("unit %d not found", unit)
	}

	for i, st := range b.Stmts.Arena.Slice() {
		if err := ordered(st.Span); err != nil {
			return fmt.Errorf("statement %d (%s): %w", i+1, st.Kind, err)
		}
	}
	for i, ex := range b.Exprs.Arena.Slice() {
		if err := ordered(ex.Span); err != nil {
			return fmt.Errorf("expression %d (%s): %w", i+1, ex.Kind, err)
		}
	}
	for i, blk := range b.Blocks.Arena.Slice() {
		var prev source.Span
		for _, id := range blk.Stmts {
			st := b.Stmts.Get(id)
			if st == nil {
				return fmt.Errorf("block %d: dangling statement %d", i+1, id)
			}
			if !prev.IsZero() && !st.Span.IsZero() && prev.Start.Unit == st.Span.Start.Unit && !prev.Start.Before(st.Span.Start) {
				return fmt.Errorf("block %d: statement at %s does not follow %s", i+1, st.Span, prev)
			}
			if !st.Span.IsZero() {
				prev = st.Span
			}
		}
	}
	return nil
}

func ordered(sp source.Span) error {
	if sp.IsZero() || sp.Start.Unit != sp.End.Unit {
		return nil
	}
	if sp.End.Before(sp.Start) {
		return fmt.Errorf("span %s ends before it starts", sp)
	}
	return nil
}
