package observ

import (
	"strings"
	"testing"
)

func TestNilTimerIsNoop(t *testing.T) {
	var timer *Timer
	idx := timer.Begin("analyze")
	timer.End(idx, "ignored")
	if got := timer.Report(); len(got.Phases) != 0 || got.TotalMS != 0 {
		t.Fatalf("nil timer reported %+v", got)
	}
}

func TestTimerSummary(t *testing.T) {
	timer := NewTimer()
	a := timer.Begin("analyze")
	timer.End(a, "3 scopes")
	v := timer.Begin("validate")
	timer.End(v, "")
	timer.End(42, "out of range")

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[0].Note != "3 scopes" {
		t.Fatalf("unexpected note %q", report.Phases[0].Note)
	}
	summary := timer.Summary()
	for _, want := range []string{"timings:", "analyze", "// 3 scopes", "validate", "total"} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary lacks %q:\n%s", want, summary)
		}
	}
}
