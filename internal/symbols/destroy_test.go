package symbols

import "testing"

func TestDestroyInvalidatesSubtree(t *testing.T) {
	table := NewTable(Options{})
	global := table.CreateScope("global", NoScopeID)
	class := table.CreateScope("Book", global)
	method := table.CreateScope("getTitle", class)
	sibling := table.CreateScope("Library", global)

	keep := table.Insert(global, Decl{Name: "Book", Type: "class", Category: CategoryClass, Defines: class})
	field := table.Insert(class, Decl{Name: "title", Type: "String", Category: CategoryVariable})
	local := table.Insert(method, Decl{Name: "tmp", Type: "int", Category: CategoryVariable})

	table.Destroy(class)

	for _, id := range []ScopeID{class, method} {
		if table.IsLive(id) {
			t.Fatalf("scope %d still live after destroying its subtree", id)
		}
	}
	if !table.IsLive(global) || !table.IsLive(sibling) {
		t.Fatalf("destroy touched scopes outside the subtree")
	}
	if got := table.Children(global); len(got) != 1 || got[0] != sibling {
		t.Fatalf("Children(global) = %v, want [%d]", got, sibling)
	}
	if got, ok := table.Lookup(global, "Book"); !ok || got != keep {
		t.Fatalf("parent symbols must survive, got %d,%v", got, ok)
	}
	if table.Symbols.Live() != 1 || table.Scopes.Live() != 2 {
		t.Fatalf("live counts = %d symbols, %d scopes", table.Symbols.Live(), table.Scopes.Live())
	}

	mustPanicHandle(t, true, func() { table.Lookup(method, "tmp") })
	mustPanicHandle(t, true, func() { table.Insert(class, Decl{Name: "x", Type: "int", Category: CategoryVariable}) })
	mustPanicHandle(t, true, func() { table.CreateScope("late", method) })
	mustPanicHandle(t, true, func() { table.Destroy(class) })
	mustPanicHandle(t, true, func() { table.Symbol(field) })
	mustPanicHandle(t, true, func() { table.Symbol(local) })

	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestDestroyRootReleasesEverything(t *testing.T) {
	table := NewTable(Options{})
	root := table.CreateScope("global", NoScopeID)
	for i := range 5 {
		child := table.CreateScope("c", root)
		for range i {
			table.CreateScope("g", child)
		}
		table.Insert(child, Decl{Name: "v", Type: "int", Category: CategoryVariable})
	}
	table.Destroy(root)

	if table.Scopes.Live() != 0 || table.Symbols.Live() != 0 {
		t.Fatalf("live after destroy: %d scopes, %d symbols", table.Scopes.Live(), table.Symbols.Live())
	}
	if table.Scopes.Len() != 1+5+10 {
		t.Fatalf("arena len = %d; slots must not be reused", table.Scopes.Len())
	}
	// handles stay dead even after new allocations
	fresh := table.CreateScope("global", NoScopeID)
	if fresh == root {
		t.Fatalf("destroyed handle was reused")
	}
	mustPanicHandle(t, true, func() { table.Lookup(root, "v") })
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestIndependentRoots(t *testing.T) {
	table := NewTable(Options{})
	a := table.CreateScope("a.java", NoScopeID)
	b := table.CreateScope("b.java", NoScopeID)
	table.Insert(a, Decl{Name: "x", Type: "int", Category: CategoryVariable})

	if _, ok := table.Lookup(b, "x"); ok {
		t.Fatalf("roots must not see each other")
	}
	table.Destroy(a)
	if !table.IsLive(b) {
		t.Fatalf("destroying one root killed another")
	}
}
