package symbols

import (
	"symtab/internal/source"
	"symtab/internal/trace"
)

// Lookup resolves name starting at scope. Within a scope the most recently
// inserted binding wins; otherwise the search continues in the parent, and so
// on up to the root. (NoSymbolID, false) means the name is not visible.
func (t *Table) Lookup(scope ScopeID, name string) (SymbolID, bool) {
	return t.LookupCategory(scope, name, CategoryMaskAny)
}

// LookupCategory is Lookup restricted to bindings whose category is in mask.
func (t *Table) LookupCategory(scope ScopeID, name string, mask CategoryMask) (SymbolID, bool) {
	t.mustScope(scope)
	nameID, known := t.Strings.Find(name)
	var (
		id    SymbolID
		found bool
	)
	if known && mask != CategoryMaskNone {
		id, found = t.LookupID(scope, nameID, mask)
	}
	if t.tracing(trace.ScopeNode) {
		result := "miss"
		if found {
			result = t.Scopes.data[t.Symbols.data[id].Scope].Label
		}
		trace.Point(t.tracer, trace.ScopeNode, "symbol.lookup", name,
			"from", t.Scopes.data[scope].Label, "found", result)
	}
	return id, found
}

// LookupID walks the parent chain iteratively, so lookup depth is not
// bounded by the goroutine stack.
func (t *Table) LookupID(scope ScopeID, name source.StringID, mask CategoryMask) (SymbolID, bool) {
	if mask == CategoryMaskNone {
		return NoSymbolID, false
	}
	for scope.IsValid() {
		s := t.mustScope(scope)
		if id, ok := t.newestInScope(s, name, mask); ok {
			return id, true
		}
		scope = s.Parent
	}
	return NoSymbolID, false
}

// LookupLocal searches only the given scope.
func (t *Table) LookupLocal(scope ScopeID, name string) (SymbolID, bool) {
	s := t.mustScope(scope)
	nameID, ok := t.Strings.Find(name)
	if !ok {
		return NoSymbolID, false
	}
	return t.newestInScope(s, nameID, CategoryMaskAny)
}

// LookupAll collects every visible binding of name.
// Order: innermost scope first, and within the same scope newest declaration first.
func (t *Table) LookupAll(scope ScopeID, name string) []SymbolID {
	t.mustScope(scope)
	nameID, ok := t.Strings.Find(name)
	if !ok {
		return nil
	}
	var result []SymbolID
	for scope.IsValid() {
		s := t.mustScope(scope)
		ids := s.NameIndex[nameID]
		for i := len(ids) - 1; i >= 0; i-- {
			result = append(result, ids[i])
		}
		scope = s.Parent
	}
	return result
}

func (t *Table) newestInScope(s *Scope, name source.StringID, mask CategoryMask) (SymbolID, bool) {
	ids := s.NameIndex[name]
	for i := len(ids) - 1; i >= 0; i-- {
		if mask == CategoryMaskAny || mask.Has(t.Symbols.data[ids[i]].Category) {
			return ids[i], true
		}
	}
	return NoSymbolID, false
}
