package symbols

import (
	"strings"
	"testing"
)

func buildLibrary(t *testing.T) (*Table, ScopeID) {
	t.Helper()
	table := NewTable(Options{})
	global := table.CreateScope("global", NoScopeID)
	book := table.CreateScope("Book", global)
	getTitle := table.CreateScope("getTitle", book)
	library := table.CreateScope("Library", global)

	table.Insert(global, Decl{Name: "Book", Type: "class", Category: CategoryClass, Kind: ScopeGlobal, Defines: book})
	table.Insert(global, Decl{Name: "Library", Type: "class", Category: CategoryClass, Kind: ScopeGlobal, Defines: library})
	table.Insert(book, Decl{Name: "title", Type: "String", Category: CategoryVariable, Kind: ScopeClass})
	table.Insert(book, Decl{Name: "isAvailable", Type: "boolean", Category: CategoryVariable, Kind: ScopeClass})
	table.Insert(book, Decl{Name: "getTitle", Type: "String", Category: CategoryMethod, Kind: ScopeClass, Defines: getTitle})
	table.Insert(library, Decl{Name: "books", Type: "ArrayList<Book>", Category: CategoryVariable, Kind: ScopeClass})
	return table, global
}

func TestDumpStructure(t *testing.T) {
	table, global := buildLibrary(t)

	got := table.DumpString(global, DumpOptions{})
	want := `
SYMBOL TABLE HIERARCHY:
┌─────────────────────────────┐
├── Scope: global
│   ├── Library [class] (Class)
│   ├── Book [class] (Class)
│   ├── Scope: Library
│   │   ├── books [ArrayList<Book>] (Variable)
│   ├── Scope: Book
│   │   ├── getTitle [String] (Method)
│   │   ├── isAvailable [boolean] (Variable)
│   │   ├── title [String] (Variable)
│   │   ├── Scope: getTitle
└─────────────────────────────┘
`
	if got != want {
		t.Fatalf("dump mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestDumpAlignedASCII(t *testing.T) {
	table, global := buildLibrary(t)
	book, ok := table.FindChild(global, "Book")
	if !ok {
		t.Fatalf("Book scope missing")
	}

	got := table.DumpString(book, DumpOptions{Align: true, NoHeader: true, Glyphs: &ASCIIGlyphs})
	want := "" +
		"|-- Scope: Book\n" +
		"|   |-- getTitle    [String] (Method)\n" +
		"|   |-- isAvailable [boolean] (Variable)\n" +
		"|   |-- title       [String] (Variable)\n" +
		"|   |-- Scope: getTitle\n"
	if got != want {
		t.Fatalf("dump mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestDumpColorAndReadOnly(t *testing.T) {
	table, global := buildLibrary(t)
	before := table.Symbols.Len()

	colored := table.DumpString(global, DumpOptions{Color: true})
	if !strings.Contains(colored, "\x1b[") {
		t.Fatalf("colored dump has no escape sequences")
	}
	if table.Symbols.Len() != before {
		t.Fatalf("dump mutated the table")
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestDumpAfterDestroy(t *testing.T) {
	table, global := buildLibrary(t)
	book, _ := table.FindChild(global, "Book")
	table.Destroy(book)

	got := table.DumpString(global, DumpOptions{NoHeader: true})
	if strings.Contains(got, "Scope: Book") || strings.Contains(got, "getTitle") {
		t.Fatalf("destroyed subtree still dumped:\n%s", got)
	}
	if !strings.Contains(got, "Book [class] (Class)") {
		t.Fatalf("parent entries lost:\n%s", got)
	}
}
