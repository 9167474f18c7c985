package diag

import (
	"errors"
	"fmt"
	"testing"

	"dmc/internal/source"
)

func at(line, col uint32) source.Span {
	p := source.Point{Unit: "u.dm", Line: line, Column: col}
	return source.Span{Start: p, End: p}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(0)
	r := BagReporter{Bag: bag}
	r.Report(SemaUnknownIdent, SevError, at(3, 1), "Unknown name 'b'", nil)
	r.Report(SemaUnknownIdent, SevError, at(1, 5), "Unknown name 'a'", nil)
	WarnGlobal(r, PreUserWarning, "careful")
	r.Report(SemaUnknownIdent, SevError, at(1, 5), "Unknown name 'a'", nil)
	WarnGlobal(r, PreUserWarning, "very careful")
	WarnGlobal(r, PreUserWarning, "careful")

	bag.Sort()
	bag.Dedup()
	want := "warning PRE4103 careful\n" +
		"warning PRE4103 very careful\n" +
		"error SEM3004 u.dm:1:5 Unknown name 'a'\n" +
		"error SEM3004 u.dm:3:1 Unknown name 'b'"
	if got := FormatGolden(bag.Items(), false); got != want {
		t.Fatalf("unexpected diagnostics:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(1)
	if !bag.Add(New(SevError, UnknownCode, at(1, 1), "a")) {
		t.Fatal("first add must succeed")
	}
	if bag.Add(New(SevError, UnknownCode, at(1, 2), "b")) {
		t.Fatal("second add must hit the limit")
	}
	other := NewBag(0)
	other.Add(New(SevWarning, UnknownCode, at(2, 1), "c"))
	bag.Merge(other)
	if bag.Len() != 2 {
		t.Fatalf("merge must raise the limit, len=%d", bag.Len())
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Error("expected errors and warnings")
	}
}

func TestFailReportsThenReturnsFatal(t *testing.T) {
	bag := NewBag(0)
	err := error(Fail(BagReporter{Bag: bag}, LexUnknownChar, at(2, 7), "Unexpected character '$'"))
	wrapped := fmt.Errorf("tokenize: %w", err)

	f, ok := AsFatal(wrapped)
	if !ok {
		t.Fatalf("expected *Fatal in chain, got %v", wrapped)
	}
	if f.Span() != at(2, 7) {
		t.Errorf("span = %v", f.Span())
	}
	if bag.Len() != 1 || bag.Items()[0].Message != "Unexpected character '$'" {
		t.Errorf("diagnostic must be reported before returning: %+v", bag.Items())
	}
	if got := f.Error(); got != "u.dm:2:7: Unexpected character '$'" {
		t.Errorf("Error() = %q", got)
	}
	if errors.Is(wrapped, errors.New("other")) {
		t.Error("unrelated error matched")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(NewLockedReporter(BagReporter{Bag: bag}))
	for range 3 {
		ReportError(r, PreIncludeNotFound, at(1, 1), "include not found").WithNote(at(1, 1), "here").Emit()
	}
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Errorf("notes lost: %+v", bag.Items()[0])
	}
}
