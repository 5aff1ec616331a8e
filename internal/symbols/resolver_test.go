package symbols

import (
	"testing"

	"symtab/internal/diag"
	"symtab/internal/source"
)

func TestResolverLifecycle(t *testing.T) {
	table := NewTable(Options{})
	bag := diag.NewBag(10)
	res := NewResolver(table, NoScopeID, ResolverOptions{Reporter: diag.BagReporter{Bag: bag}})

	global := res.Enter("global", source.Span{})
	if _, ok := res.Declare(Decl{Name: "Book", Type: "class", Category: CategoryClass}); !ok {
		t.Fatalf("declare returned false")
	}
	method := res.Enter("getTitle", source.Span{Start: 10, End: 40})
	if res.Depth() != 2 || res.CurrentScope() != method {
		t.Fatalf("stack = depth %d top %d", res.Depth(), res.CurrentScope())
	}
	if _, ok := res.Resolve("Book", source.Span{}); !ok {
		t.Fatalf("outer class not visible from method")
	}
	if _, ok := res.Resolve("missing", source.Span{Start: 20, End: 27}); ok {
		t.Fatalf("undeclared name resolved")
	}

	res.Leave(method, true)
	if table.IsLive(method) {
		t.Fatalf("Leave(destroy=true) kept the scope alive")
	}
	res.Leave(global, false)
	if !table.IsLive(global) || res.CurrentScope() != NoScopeID {
		t.Fatalf("Leave(destroy=false) must only pop")
	}
	if _, ok := res.Declare(Decl{Name: "late", Type: "int", Category: CategoryVariable}); ok {
		t.Fatalf("declare with empty stack must fail")
	}

	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaUnresolvedSymbol {
		t.Fatalf("diagnostics = %+v", items)
	}
	if len(items[0].Notes) != 1 || items[0].Notes[0].Span.Start != 10 {
		t.Fatalf("unresolved diagnostic should point at the opening scope: %+v", items[0].Notes)
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestResolverWarnings(t *testing.T) {
	table := NewTable(Options{})
	bag := diag.NewBag(10)
	root := table.CreateScope("global", NoScopeID)
	res := NewResolver(table, root, ResolverOptions{
		Reporter:      diag.BagReporter{Bag: bag},
		WarnShadow:    true,
		WarnRedeclare: true,
	})

	res.Declare(Decl{Name: "title", Type: "String", Category: CategoryVariable, Span: source.Span{Start: 1, End: 6}})
	scope := res.Enter("Book", source.Span{})
	res.Declare(Decl{Name: "title", Type: "String", Category: CategoryParameter, Span: source.Span{Start: 30, End: 35}})
	second, _ := res.Declare(Decl{Name: "title", Type: "int", Category: CategoryVariable, Span: source.Span{Start: 50, End: 55}})
	res.Declare(Decl{Name: "_", Type: "int", Category: CategoryVariable})

	if got, _ := res.Resolve("title", source.Span{}); got != second {
		t.Fatalf("resolve picked %d, want latest %d", got, second)
	}
	res.Leave(scope, false)

	var shadow, redeclared int
	for _, d := range bag.Items() {
		switch d.Code {
		case diag.SemaShadowSymbol:
			shadow++
		case diag.SemaRedeclared:
			redeclared++
			if len(d.Notes) != 1 || d.Notes[0].Span.Start != 30 {
				t.Fatalf("redeclaration note = %+v", d.Notes)
			}
		}
	}
	// both inner declarations of title shadow the global one
	if shadow != 2 || redeclared != 1 {
		t.Fatalf("shadow=%d redeclared=%d, want 2 and 1", shadow, redeclared)
	}
}

func TestResolverScopeMismatch(t *testing.T) {
	table := NewTable(Options{})
	bag := diag.NewBag(10)
	res := NewResolver(table, NoScopeID, ResolverOptions{Reporter: diag.BagReporter{Bag: bag}})

	outer := res.Enter("outer", source.Span{Start: 1, End: 2})
	res.Enter("inner", source.Span{Start: 3, End: 4})
	res.Leave(outer, false) // pops inner, reports

	if res.CurrentScope() != outer {
		t.Fatalf("mismatched leave must still pop one scope")
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaScopeMismatch || items[0].Primary.Start != 3 {
		t.Fatalf("diagnostics = %+v", items)
	}
}

func TestResolverWithoutReporter(t *testing.T) {
	table := NewTable(Options{})
	res := NewResolver(table, NoScopeID, ResolverOptions{WarnShadow: true, WarnRedeclare: true})
	res.Enter("global", source.Span{})
	res.Declare(Decl{Name: "x", Type: "int", Category: CategoryVariable})
	res.Declare(Decl{Name: "x", Type: "int", Category: CategoryVariable})
	if _, ok := res.Resolve("y", source.Span{}); ok {
		t.Fatalf("y resolved")
	}
}

func TestResolverReenter(t *testing.T) {
	table := NewTable(Options{})
	root := table.CreateScope("global", NoScopeID)
	class := table.CreateScope("Book", root)
	method := table.CreateScope("getTitle", class)
	res := NewResolver(table, root, ResolverOptions{})

	if res.Reenter(method) {
		t.Fatalf("Reenter accepted a grandchild")
	}
	if !res.Reenter(class) || !res.Reenter(method) {
		t.Fatalf("Reenter rejected a direct child")
	}
	res.Declare(Decl{Name: "getTitle", Type: "String", Category: CategoryVariable})
	table.Insert(class, Decl{Name: "getTitle", Type: "String", Category: CategoryMethod})
	if got, ok := res.ResolveCategory("getTitle", CategoryMethod.Mask(), source.Span{}); !ok || table.Symbol(got).Category != CategoryMethod {
		t.Fatalf("ResolveCategory skipped the method binding")
	}
	res.Leave(method, false)
	res.Leave(class, false)
	if res.CurrentScope() != root {
		t.Fatalf("stack not restored")
	}
}

func TestResolverDestroyLeavesNoOpenedSpans(t *testing.T) {
	table := NewTable(Options{})
	res := NewResolver(table, NoScopeID, ResolverOptions{})
	global := res.Enter("global", source.Span{Start: 0, End: 50})
	method := res.Enter("method", source.Span{Start: 5, End: 40})
	block := res.Enter("block", source.Span{Start: 10, End: 30})
	res.Enter("for", source.Span{Start: 12, End: 20})

	res.Leave(NoScopeID, false)
	res.Leave(block, false)
	res.Leave(method, true)
	if len(res.opened) != 1 {
		t.Fatalf("opened spans = %v, want only the global scope", res.opened)
	}
	if _, ok := res.opened[global]; !ok {
		t.Fatalf("global span dropped")
	}
	if table.IsLive(block) {
		t.Fatalf("block survived destroying its method")
	}
	res.Leave(global, false)
	if len(res.opened) != 0 {
		t.Fatalf("opened spans = %v after leaving every scope", res.opened)
	}
}
