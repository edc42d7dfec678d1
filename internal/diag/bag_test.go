package diag

import (
	"testing"

	"hidl/internal/source"
)

func TestBagLimitAndDropped(t *testing.T) {
	b := NewBag(2)
	for i := range 3 {
		b.Add(NewError(ResFileNotFound, source.Span{File: 0, Start: uint32(i)}, "missing"))
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", b.Len())
	}
	if b.Dropped() != 1 {
		t.Fatalf("expected 1 dropped, got %d", b.Dropped())
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Fatalf("expected errors and warnings to be reported")
	}
}

func TestBagZeroLimitMeansUnbounded(t *testing.T) {
	b := NewBag(0)
	for range 300 {
		b.Add(NewError(ResTypeNotFound, source.NoSpan, "x"))
	}
	if b.Len() != 300 || b.Dropped() != 0 {
		t.Fatalf("zero limit must not drop: len=%d dropped=%d", b.Len(), b.Dropped())
	}
}

func TestBagSortPutsLocationlessLast(t *testing.T) {
	b := NewBag(10)
	b.Add(NewError(ResNoPackageRoot, source.NoSpan, "no root"))
	b.Add(New(SevWarning, ResCircularImport, source.Span{File: 1, Start: 4, End: 8}, "cycle"))
	b.Add(NewError(ResPackageMismatch, source.Span{File: 1, Start: 4, End: 8}, "mismatch"))
	b.Add(NewError(SynExpectSemicolon, source.Span{File: 0, Start: 10, End: 11}, "semi"))
	b.Sort()

	got := make([]Code, 0, b.Len())
	for _, d := range b.Items() {
		got = append(got, d.Code)
	}
	want := []Code{SynExpectSemicolon, ResPackageMismatch, ResCircularImport, ResNoPackageRoot}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: want %s, got %s", i, want[i].ID(), got[i].ID())
		}
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:     "LEX1001",
		SynMissingPackage:  "SYN2004",
		ResPackageMismatch: "RES3001",
		ProjImportCycle:    "PRJ4002",
		UnknownCode:        "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d: want %s, got %s", code, want, got)
		}
	}
	if Code(3999).Title() != "Unknown error" {
		t.Errorf("unregistered code should fall back to unknown title")
	}
}

func TestDedupReporterAndBuilder(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{File: 0, Start: 0, End: 1}

	b := ReportError(r, ResInterfaceNameMismatch, sp, "wrong name").
		WithNote(source.Span{File: 0, Start: 5, End: 9}, "declared here")
	b.Emit()
	b.Emit()
	ReportError(r, ResInterfaceNameMismatch, sp, "wrong name").Emit()

	if bag.Len() != 1 {
		t.Fatalf("expected a single diagnostic, got %d", bag.Len())
	}
	if n := len(bag.Items()[0].Notes); n != 1 {
		t.Fatalf("expected 1 note, got %d", n)
	}
}
