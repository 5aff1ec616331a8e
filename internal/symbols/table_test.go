package symbols

import (
	"errors"
	"sync"
	"testing"

	"symtab/internal/trace"
)

func mustPanicHandle(t *testing.T, destroyed bool, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrInvalidHandle) {
			t.Fatalf("panic value %v is not an invalid-handle error", r)
		}
		var he *HandleError
		if !errors.As(err, &he) || he.Destroyed != destroyed {
			t.Fatalf("panic = %v, want destroyed=%v", err, destroyed)
		}
	}()
	fn()
}

func TestLookupShadowingExample(t *testing.T) {
	table := NewTable(Options{})
	global := table.CreateScope("global", NoScopeID)
	main := table.CreateScope("main", global)

	xInt := table.Insert(global, Decl{Name: "x", Type: "int", Category: CategoryVariable})
	xBool := table.Insert(main, Decl{Name: "x", Type: "bool", Category: CategoryVariable})

	if got, ok := table.Lookup(main, "x"); !ok || got != xBool {
		t.Fatalf("Lookup(main, x) = %d,%v want %d", got, ok, xBool)
	}
	if table.Symbol(xBool).Type != "bool" {
		t.Fatalf("inner x type = %q", table.Symbol(xBool).Type)
	}
	if got, ok := table.Lookup(global, "x"); !ok || got != xInt {
		t.Fatalf("Lookup(global, x) = %d,%v want %d", got, ok, xInt)
	}
	if got, ok := table.Lookup(main, "y"); ok || got != NoSymbolID {
		t.Fatalf("Lookup(main, y) = %d,%v want NotFound", got, ok)
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLookupLatestWinsInSameScope(t *testing.T) {
	table := NewTable(Options{})
	s := table.CreateScope("S", NoScopeID)
	table.Insert(s, Decl{Name: "f", Type: "int", Category: CategoryMethod})
	latest := table.Insert(s, Decl{Name: "f", Type: "string", Category: CategoryMethod})

	got, ok := table.Lookup(s, "f")
	if !ok || got != latest || table.Symbol(got).Type != "string" {
		t.Fatalf("Lookup(S, f) = %d,%v want the string entry %d", got, ok, latest)
	}
	if n := len(table.Scope(s).Symbols); n != 2 {
		t.Fatalf("redeclaration must keep both entries, have %d", n)
	}
}

func TestLookupVisibleFromDescendants(t *testing.T) {
	table := NewTable(Options{})
	root := table.CreateScope("global", NoScopeID)
	class := table.CreateScope("Library", root)
	method := table.CreateScope("addBook", class)
	block := table.CreateScope("block", method)

	books := table.Insert(class, Decl{Name: "books", Type: "ArrayList<Book>", Category: CategoryVariable, Kind: ScopeClass})

	for _, scope := range []ScopeID{class, method, block} {
		if got, ok := table.Lookup(scope, "books"); !ok || got != books {
			t.Fatalf("Lookup(%s, books) = %d,%v", table.Label(scope), got, ok)
		}
	}
	if _, ok := table.Lookup(root, "books"); ok {
		t.Fatalf("class member must not be visible from the enclosing scope")
	}
	if _, ok := table.Lookup(block, "never"); ok {
		t.Fatalf("undeclared name resolved")
	}
}

func TestLookupLocalAndAll(t *testing.T) {
	table := NewTable(Options{})
	outer := table.CreateScope("outer", NoScopeID)
	inner := table.CreateScope("inner", outer)
	a := table.Insert(outer, Decl{Name: "v", Type: "int", Category: CategoryVariable})
	b := table.Insert(inner, Decl{Name: "v", Type: "long", Category: CategoryVariable})
	c := table.Insert(inner, Decl{Name: "v", Type: "short", Category: CategoryParameter})

	if _, ok := table.LookupLocal(inner, "w"); ok {
		t.Fatalf("LookupLocal found an undeclared name")
	}
	if got, ok := table.LookupLocal(outer, "v"); !ok || got != a {
		t.Fatalf("LookupLocal(outer) = %d", got)
	}
	all := table.LookupAll(inner, "v")
	want := []SymbolID{c, b, a}
	if len(all) != len(want) {
		t.Fatalf("LookupAll = %v, want %v", all, want)
	}
	for i := range want {
		if all[i] != want[i] {
			t.Fatalf("LookupAll = %v, want %v", all, want)
		}
	}
}

func TestLookupCategory(t *testing.T) {
	table := NewTable(Options{})
	root := table.CreateScope("global", NoScopeID)
	inner := table.CreateScope("Book", root)
	class := table.Insert(root, Decl{Name: "Book", Type: "class", Category: CategoryClass})
	ctor := table.Insert(inner, Decl{Name: "Book", Type: "int", Category: CategoryMethod})

	if got, _ := table.Lookup(inner, "Book"); got != ctor {
		t.Fatalf("unfiltered lookup should find the constructor")
	}
	if got, ok := table.LookupCategory(inner, "Book", CategoryClass.Mask()); !ok || got != class {
		t.Fatalf("class-only lookup = %d,%v want %d", got, ok, class)
	}
	mask := CategoryVariable.Mask() | CategoryParameter.Mask()
	if _, ok := table.LookupCategory(inner, "Book", mask); ok {
		t.Fatalf("variable/parameter lookup must miss")
	}
	if _, ok := table.LookupCategory(inner, "Book", CategoryMaskNone); ok {
		t.Fatalf("empty mask must miss")
	}
}

func TestTreeShapeInvariant(t *testing.T) {
	table := NewTable(Options{Hints: Hints{Scopes: 4, Symbols: 4}})
	root := table.CreateScope("global", NoScopeID)
	a := table.CreateScope("a", root)
	b := table.CreateScope("b", root)
	a1 := table.CreateScope("a1", a)

	if got := table.Children(root); len(got) != 2 || got[0] != b || got[1] != a {
		t.Fatalf("Children(root) = %v, want newest first [%d %d]", got, b, a)
	}
	if got := table.Ancestors(a1); len(got) != 3 || got[0] != a1 || got[1] != a || got[2] != root {
		t.Fatalf("Ancestors(a1) = %v", got)
	}
	if table.Parent(root) != NoScopeID || table.Parent(a1) != a {
		t.Fatalf("parent links broken")
	}
	if id, ok := table.FindChild(root, "a"); !ok || id != a {
		t.Fatalf("FindChild(root, a) = %d,%v", id, ok)
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	table := NewTable(Options{})
	root := table.CreateScope("global", NoScopeID)
	child := table.CreateScope("child", root)
	table.Insert(child, Decl{Name: "x", Type: "int", Category: CategoryVariable})

	// simulate a broken backlink
	table.Scopes.data[root].Children = nil
	if err := table.Validate(); err == nil {
		t.Fatalf("expected validation error for missing backlink")
	}
}

func TestInsertRejectsBadInput(t *testing.T) {
	table := NewTable(Options{})
	s := table.CreateScope("S", NoScopeID)
	for name, decl := range map[string]Decl{
		"empty name":       {Type: "int", Category: CategoryVariable},
		"invalid category": {Name: "x", Type: "int"},
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("Insert accepted %+v", decl)
				}
			}()
			table.Insert(s, decl)
		})
	}
}

func TestUnknownHandlesPanic(t *testing.T) {
	table := NewTable(Options{})
	mustPanicHandle(t, false, func() { table.Lookup(ScopeID(7), "x") })
	mustPanicHandle(t, false, func() { table.CreateScope("orphan", ScopeID(3)) })
	mustPanicHandle(t, false, func() { table.Symbol(SymbolID(1)) })
	mustPanicHandle(t, false, func() { table.Scope(NoScopeID) })
}

func TestConcurrentLookups(t *testing.T) {
	table := NewTable(Options{})
	root := table.CreateScope("global", NoScopeID)
	leaf := root
	for i := range 50 {
		leaf = table.CreateScope("block", leaf)
		if i%10 == 0 {
			table.Insert(leaf, Decl{Name: "x", Type: "int", Category: CategoryVariable})
		}
	}
	want, _ := table.Lookup(leaf, "x")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				if got, ok := table.Lookup(leaf, "x"); !ok || got != want {
					t.Errorf("concurrent lookup = %d,%v", got, ok)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestDeepChainLookup(t *testing.T) {
	table := NewTable(Options{})
	root := table.CreateScope("global", NoScopeID)
	top := table.Insert(root, Decl{Name: "deep", Type: "int", Category: CategoryVariable})
	leaf := root
	for range 50_000 {
		leaf = table.CreateScope("block", leaf)
	}
	if got, ok := table.Lookup(leaf, "deep"); !ok || got != top {
		t.Fatalf("deep lookup = %d,%v", got, ok)
	}
	table.Destroy(root)
	if table.Scopes.Live() != 0 {
		t.Fatalf("live scopes after destroy = %d", table.Scopes.Live())
	}
}

func TestTableEmitsTraceEvents(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	table := NewTable(Options{Tracer: ring})
	root := table.CreateScope("global", NoScopeID)
	table.Insert(root, Decl{Name: "x", Type: "int", Category: CategoryVariable})
	table.Lookup(root, "x")
	table.Lookup(root, "y")
	table.Destroy(root)

	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Name)
	}
	want := []string{"scope.create", "symbol.insert", "symbol.lookup", "symbol.lookup", "scope.destroy", "subtree.destroyed"}
	if len(names) != len(want) {
		t.Fatalf("events = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("events = %v, want %v", names, want)
		}
	}
	if miss := ring.Snapshot()[3]; miss.Extra["found"] != "miss" {
		t.Fatalf("miss event extra = %v", miss.Extra)
	}
}
