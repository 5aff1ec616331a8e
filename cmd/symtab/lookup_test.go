package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"symtab/internal/javafront"
	"symtab/internal/source"
	"symtab/internal/symbols"
)

const lookupSource = `
class Library {
    int limit;
    void addBook(String title) {
        { int a = 1; }
        { int b = 2; }
    }
}`

func analyzeLookupSource(t *testing.T) *javafront.Result {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("Library.java", []byte(lookupSource))
	res, err := javafront.Analyze(context.Background(), symbols.NewTable(symbols.Options{}), fs.Get(id), javafront.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestResolveScopePath(t *testing.T) {
	res := analyzeLookupSource(t)
	table := res.Table

	tests := []struct {
		path  string
		label string
		local string // a name declared directly in the scope
	}{
		{"global", "global", "Library"},
		{"/global/Library/", "Library", "limit"},
		{"global/Library/addBook", "addBook", "title"},
		{"global/Library/addBook/block", "block", "b"},
		{"global/Library/addBook/block#1", "block", "a"},
		{"java.lang", "java.lang", "String"},
	}
	for _, tt := range tests {
		scope, err := resolveScopePath(table, res, tt.path)
		if err != nil {
			t.Fatalf("%s: %v", tt.path, err)
		}
		if got := table.Label(scope); got != tt.label {
			t.Fatalf("%s: label %q, want %q", tt.path, got, tt.label)
		}
		if _, ok := table.LookupLocal(scope, tt.local); !ok {
			t.Fatalf("%s: %q not declared locally", tt.path, tt.local)
		}
	}

	for _, bad := range []string{"", "Library", "global/Nope", "global/Library/addBook/block#2", "global/Library#x"} {
		if _, err := resolveScopePath(table, res, bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}

func TestWriteEntry(t *testing.T) {
	res := analyzeLookupSource(t)
	table := res.Table
	scope, err := resolveScopePath(table, res, "global/Library/addBook/block")
	if err != nil {
		t.Fatal(err)
	}
	id, ok := table.Lookup(scope, "limit")
	if !ok {
		t.Fatal("limit not visible")
	}
	var buf bytes.Buffer
	writeEntry(&buf, table, id)
	want := "limit [int] (Variable) in scope java.lang/global/Library\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderVersion(t *testing.T) {
	info := versionInfo{Version: "1.2.3", GitCommit: "abc123"}
	var buf bytes.Buffer
	renderVersionPretty(&buf, info, versionOptions{showHash: true, showDate: true}, false)
	got := buf.String()
	for _, want := range []string{"symtab 1.2.3", "commit: abc123", "built:  unknown"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output lacks %q:\n%s", want, got)
		}
	}

	buf.Reset()
	if err := renderVersionJSON(&buf, info, versionOptions{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"version": "1.2.3"`) || strings.Contains(buf.String(), "git_commit") {
		t.Fatalf("unexpected json %s", buf.String())
	}
}

func TestReadModes(t *testing.T) {
	if m, err := readColorMode("ALWAYS"); err != nil || m != colorOn {
		t.Fatalf("readColorMode = %v, %v", m, err)
	}
	if _, err := readColorMode("sometimes"); err == nil {
		t.Fatal("expected error")
	}
	if m, err := readUIMode(""); err != nil || m != uiModeAuto {
		t.Fatalf("readUIMode = %v, %v", m, err)
	}
	if shouldUseTUI(uiModeOff, 10, false) || !shouldUseTUI(uiModeOn, 1, true) {
		t.Fatal("explicit ui modes must win")
	}
	if shouldUseTUI(uiModeAuto, 1, false) {
		t.Fatal("a single file never needs the progress view")
	}
}
