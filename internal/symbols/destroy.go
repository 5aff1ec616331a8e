package symbols

import (
	"slices"
	"strconv"

	"symtab/internal/trace"
)

// Destroy tears down scope and its whole subtree: descendants first, then the
// scope's own symbols, then the scope itself. Afterwards every handle into the
// subtree is invalid and panics when used. The scope is also unlinked from its
// parent, which stays live.
func (t *Table) Destroy(scope ScopeID) {
	root := t.mustScope(scope)

	// pre-order collection; releasing in reverse visits children before parents
	order := []ScopeID{scope}
	for i := 0; i < len(order); i++ {
		order = append(order, t.Scopes.data[order[i]].Children...)
	}

	if parent := t.Scopes.Get(root.Parent); parent != nil {
		if idx := slices.Index(parent.Children, scope); idx >= 0 {
			parent.Children = slices.Delete(parent.Children, idx, idx+1)
		}
	}

	var symbolsReleased int
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		for _, sym := range t.Scopes.data[id].Symbols {
			t.Symbols.release(sym)
			symbolsReleased++
		}
		if t.tracing(trace.ScopeTable) {
			trace.Point(t.tracer, trace.ScopeTable, "scope.destroy", t.Scopes.data[id].Label,
				"id", strconv.FormatUint(uint64(id), 10))
		}
		t.Scopes.release(id)
	}

	if t.tracing(trace.ScopeTable) {
		trace.Point(t.tracer, trace.ScopeTable, "subtree.destroyed", t.Scopes.data[scope].Label,
			"scopes", strconv.Itoa(len(order)),
			"symbols", strconv.Itoa(symbolsReleased))
	}
}
