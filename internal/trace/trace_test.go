package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeTable, false},
		{LevelDetail, ScopeTable, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevelAndMode(t *testing.T) {
	if lvl, err := ParseLevel("DETAIL"); err != nil || lvl != LevelDetail {
		t.Fatalf("ParseLevel(DETAIL) = %v, %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if mode, err := ParseMode("both"); err != nil || mode != ModeBoth {
		t.Fatalf("ParseMode(both) = %v, %v", mode, err)
	}
	if _, err := ParseMode("tape"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	span := Begin(tr, ScopePass, "analyze", 0)
	Point(tr, ScopeTable, "scope.create", "main", "id", "2", "parent", "1")
	Point(tr, ScopeNode, "symbol.insert", "x") // filtered at detail
	span.WithExtra("scopes", "2").End("ok")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "scope.create (main) {id=2, parent=1}") {
		t.Fatalf("point line = %q", lines[1])
	}
	if !strings.Contains(lines[2], "analyze (ok) {scopes=2}") {
		t.Fatalf("end line = %q", lines[2])
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDebug, Mode: ModeStream, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Point(tr, ScopeNode, "symbol.lookup", "title")

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal %q: %v", buf.String(), err)
	}
	if decoded["name"] != "symbol.lookup" || decoded["scope"] != "node" || decoded["kind"] != "point" {
		t.Fatalf("decoded = %v", decoded)
	}
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeNode, name, "")
	}
	events := ring.Snapshot()
	if len(events) != 2 || events[0].Name != "b" || events[1].Name != "c" {
		t.Fatalf("snapshot = %+v", events)
	}
}

func TestMultiTracerFanOut(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDebug, Mode: ModeBoth, Output: &buf, RingSize: 8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Point(tr, ScopeDriver, "dump", "")
	multi, ok := tr.(*MultiTracer)
	if !ok {
		t.Fatalf("ModeBoth returned %T", tr)
	}
	ring, ok := multi.Ring()
	if !ok || len(ring.Snapshot()) != 1 {
		t.Fatalf("ring did not receive the event")
	}
	if !strings.Contains(buf.String(), "dump") {
		t.Fatalf("stream did not receive the event: %q", buf.String())
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("empty context must yield Nop")
	}
	ring := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatalf("tracer not propagated")
	}
	if off, err := New(Config{Level: LevelOff}); err != nil || off.Enabled() {
		t.Fatalf("LevelOff must produce a disabled tracer")
	}
}

func TestSpanContext(t *testing.T) {
	ring := NewRingTracer(4, LevelDebug)
	outer := Begin(ring, ScopeDriver, "dump", 0)
	ctx := WithSpan(context.Background(), outer)
	inner := Begin(ring, ScopePass, "analyze", CurrentSpan(ctx))
	inner.End("")
	outer.End("")

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("len = %d, want 4", len(events))
	}
	if events[1].ParentID != outer.ID() {
		t.Fatalf("inner parent = %d, want %d", events[1].ParentID, outer.ID())
	}
}

func TestRingModeKeepsTailForDump(t *testing.T) {
	tr, err := New(Config{Level: LevelDetail, Mode: ModeRing, RingSize: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ring, ok := tr.(*RingTracer)
	if !ok {
		t.Fatalf("ModeRing returned %T", tr)
	}
	for _, label := range []string{"global", "Library", "addBook", "block"} {
		Point(tr, ScopeTable, "scope.create", label)
	}
	Point(tr, ScopeNode, "symbol.insert", "title") // below LevelDetail

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("dumped %d events, want 3:\n%s", len(lines), buf.String())
	}
	var details []string
	for _, line := range lines {
		var ev struct {
			Name   string `json:"name"`
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("unmarshal %q: %v", line, err)
		}
		if ev.Name != "scope.create" {
			t.Fatalf("unexpected event %q", ev.Name)
		}
		details = append(details, ev.Detail)
	}
	if strings.Join(details, ",") != "Library,addBook,block" {
		t.Fatalf("ring kept %v", details)
	}
}
