package symbols

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"symtab/internal/source"
	"symtab/internal/trace"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Options configures NewTable.
type Options struct {
	Hints Hints
	// Strings is shared with the front end; nil allocates a fresh interner.
	Strings *source.Interner
	// Tracer receives scope and symbol events; nil disables tracing.
	Tracer trace.Tracer
}

// Table owns a forest of scopes and the symbols declared in them.
//
// A Table has a single writer. Lookups may run concurrently with each other
// but not with CreateScope, Insert or Destroy.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner
	tracer  trace.Tracer
}

// NewTable builds a fresh table.
func NewTable(opts Options) *Table {
	scopeCap, err := safecast.Conv[uint32](opts.Hints.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](opts.Hints.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	strings := opts.Strings
	if strings == nil {
		strings = source.NewInterner()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Table{
		Scopes:  NewScopes(scopeCap),
		Symbols: NewSymbols(symCap),
		Strings: strings,
		tracer:  tracer,
	}
}

// CreateScope allocates a scope labelled label. A NoScopeID parent makes a
// new root; any other parent must be live and gets the scope as its child.
func (t *Table) CreateScope(label string, parent ScopeID) ScopeID {
	if parent.IsValid() {
		t.mustScope(parent)
	}
	id := t.Scopes.New(label, parent)
	if t.tracing(trace.ScopeTable) {
		trace.Point(t.tracer, trace.ScopeTable, "scope.create", label,
			"id", strconv.FormatUint(uint64(id), 10),
			"parent", strconv.FormatUint(uint64(parent), 10))
	}
	return id
}

// Insert appends a binding to scope. Names are not checked for uniqueness:
// a second declaration of the same name simply shadows the first one.
func (t *Table) Insert(scope ScopeID, decl Decl) SymbolID {
	s := t.mustScope(scope)
	if decl.Name == "" {
		panic(fmt.Sprintf("symbols: empty name inserted into scope #%d", scope))
	}
	if !decl.Category.IsValid() {
		panic(fmt.Sprintf("symbols: invalid category %d for %q", decl.Category, decl.Name))
	}
	name := t.Strings.Intern(decl.Name)
	id := t.Symbols.New(&Symbol{
		Name:     name,
		Type:     decl.Type,
		Category: decl.Category,
		Kind:     decl.Kind,
		Scope:    scope,
		Defines:  decl.Defines,
		Span:     decl.Span,
	})
	s.Symbols = append(s.Symbols, id)
	s.NameIndex[name] = append(s.NameIndex[name], id)

	if t.tracing(trace.ScopeNode) {
		trace.Point(t.tracer, trace.ScopeNode, "symbol.insert", decl.Name,
			"scope", s.Label, "type", decl.Type, "category", decl.Category.String())
	}
	return id
}

// Scope returns the live scope for id. Unknown or destroyed IDs panic with a
// *HandleError.
func (t *Table) Scope(id ScopeID) *Scope {
	return t.mustScope(id)
}

// Symbol returns the live symbol for id, panicking like Scope on bad handles.
func (t *Table) Symbol(id SymbolID) *Symbol {
	sym := t.Symbols.Get(id)
	if sym == nil {
		panic(&HandleError{What: "symbol", ID: uint32(id), Destroyed: t.Symbols.Known(id)})
	}
	return sym
}

// IsLive reports whether id refers to a scope that has not been destroyed.
func (t *Table) IsLive(id ScopeID) bool {
	return t.Scopes.Get(id) != nil
}

// Name returns the identifier of a symbol.
func (t *Table) Name(id SymbolID) string {
	return t.Strings.MustLookup(t.Symbol(id).Name)
}

// Label returns the diagnostic label of a scope.
func (t *Table) Label(id ScopeID) string {
	return t.mustScope(id).Label
}

// Parent returns the enclosing scope, NoScopeID for roots.
func (t *Table) Parent(id ScopeID) ScopeID {
	return t.mustScope(id).Parent
}

// Children returns the child scopes, most recently created first.
func (t *Table) Children(id ScopeID) []ScopeID {
	children := t.mustScope(id).Children
	out := make([]ScopeID, len(children))
	for i, child := range children {
		out[len(children)-1-i] = child
	}
	return out
}

// Ancestors returns the lookup chain of id: id itself, then each parent up to
// the root.
func (t *Table) Ancestors(id ScopeID) []ScopeID {
	var chain []ScopeID
	for id.IsValid() {
		chain = append(chain, id)
		id = t.mustScope(id).Parent
	}
	return chain
}

// FindChild returns the most recently created live child labelled label.
func (t *Table) FindChild(parent ScopeID, label string) (ScopeID, bool) {
	children := t.mustScope(parent).Children
	for i := len(children) - 1; i >= 0; i-- {
		if t.Scopes.data[children[i]].Label == label {
			return children[i], true
		}
	}
	return NoScopeID, false
}

func (t *Table) mustScope(id ScopeID) *Scope {
	s := t.Scopes.Get(id)
	if s == nil {
		panic(&HandleError{What: "scope", ID: uint32(id), Destroyed: t.Scopes.Known(id)})
	}
	return s
}

func (t *Table) tracing(scope trace.Scope) bool {
	return t.tracer.Enabled() && t.tracer.Level().ShouldEmit(scope)
}
