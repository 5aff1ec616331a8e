package diag

import (
	"testing"

	"symtab/internal/source"
)

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(3)
	r := BagReporter{Bag: bag}

	ReportWarning(r, SemaShadowSymbol, source.Span{File: 0, Start: 40, End: 41}, "shadow").Emit()
	ReportError(r, SemaUnresolvedSymbol, source.Span{File: 0, Start: 10, End: 15}, "unresolved").
		WithNote(source.Span{File: 0, Start: 1, End: 2}, "scope opened here").
		Emit()
	ReportError(r, SemaUnresolvedSymbol, source.Span{File: 0, Start: 10, End: 15}, "unresolved").Emit()
	if bag.Add(Diagnostic{Code: SynSyntaxError}) {
		t.Fatalf("bag accepted a diagnostic past its limit")
	}

	bag.Sort()
	bag.Dedup()
	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2 after dedup", len(items))
	}
	if items[0].Code != SemaUnresolvedSymbol || len(items[0].Notes) != 1 {
		t.Fatalf("first item = %+v", items[0])
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("expected both errors and warnings")
	}
}

func TestBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	b := ReportError(BagReporter{Bag: bag}, SemaRedeclared, source.Span{}, "twice")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("Len = %d, want 1", bag.Len())
	}
	var nilBuilder *ReportBuilder = ReportError(nil, SemaRedeclared, source.Span{}, "dropped")
	nilBuilder.WithNote(source.Span{}, "ignored").Emit()
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		SynSyntaxError:       "SYN2001",
		SemaUnresolvedSymbol: "SEM3005",
		IOLoadFileError:      "IO4001",
		UnknownCode:          "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
}

func TestBagMergeGrowsLimit(t *testing.T) {
	dst := NewBag(1)
	dst.Add(Diagnostic{Code: SynSyntaxError})
	src := NewBag(5)
	src.Add(Diagnostic{Code: SemaUnresolvedSymbol})
	src.Add(Diagnostic{Code: SemaShadowSymbol})

	dst.Merge(src)
	dst.Merge(nil)
	if dst.Len() != 3 || dst.Cap() != 3 {
		t.Fatalf("len=%d cap=%d, want 3/3", dst.Len(), dst.Cap())
	}
	if dst.Items()[2].Code != SemaShadowSymbol {
		t.Fatalf("merged order lost: %+v", dst.Items())
	}
	if dst.Add(Diagnostic{}) {
		t.Fatalf("merged bag accepted past its grown limit")
	}
}
