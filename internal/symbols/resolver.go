package symbols

import (
	"fmt"

	"symtab/internal/diag"
	"symtab/internal/source"
)

// ResolverOptions configures resolver construction.
type ResolverOptions struct {
	Reporter diag.Reporter
	// WarnShadow reports declarations hiding a binding of an enclosing scope.
	WarnShadow bool
	// WarnRedeclare reports a second declaration of a name in the same scope.
	WarnRedeclare bool
}

// Resolver drives a single compilation pass over a Table: it keeps the stack
// of open scopes, declares into the innermost one and resolves names from it.
// The table itself stays silent; all diagnostics originate here.
type Resolver struct {
	table                 *Table
	reporter              diag.Reporter
	opts                  ResolverOptions
	stack                 []ScopeID
	opened                map[ScopeID]source.Span
	scopeMismatchReported map[ScopeID]bool
}

// NewResolver wires a resolver to table. If root is valid it becomes the
// current scope; otherwise the first Enter creates a root.
func NewResolver(table *Table, root ScopeID, opts ResolverOptions) *Resolver {
	r := &Resolver{
		table:                 table,
		reporter:              opts.Reporter,
		opts:                  opts,
		stack:                 make([]ScopeID, 0, 8),
		opened:                make(map[ScopeID]source.Span),
		scopeMismatchReported: make(map[ScopeID]bool),
	}
	if root.IsValid() {
		table.mustScope(root)
		r.stack = append(r.stack, root)
	}
	return r
}

// Table returns the table the resolver writes to.
func (r *Resolver) Table() *Table { return r.table }

// CurrentScope returns the scope at the top of the stack.
func (r *Resolver) CurrentScope() ScopeID {
	if len(r.stack) == 0 {
		return NoScopeID
	}
	return r.stack[len(r.stack)-1]
}

// Depth reports how many scopes are open.
func (r *Resolver) Depth() int { return len(r.stack) }

// Enter creates a child of the current scope, pushes it and returns its ID.
func (r *Resolver) Enter(label string, span source.Span) ScopeID {
	scope := r.table.CreateScope(label, r.CurrentScope())
	r.stack = append(r.stack, scope)
	if span != (source.Span{}) {
		r.opened[scope] = span
	}
	return scope
}

// Reenter pushes a scope created earlier as a child of the current scope,
// e.g. a method scope allocated while declaring class members. It returns
// false and leaves the stack untouched when scope is not such a child.
func (r *Resolver) Reenter(scope ScopeID) bool {
	if r.table.Parent(scope) != r.CurrentScope() {
		return false
	}
	r.stack = append(r.stack, scope)
	return true
}

// Leave pops the current scope, validating against the expected one, and
// destroys it when destroy is set. In debug builds a mismatch panics; release
// builds emit a warning diagnostic and pop anyway.
func (r *Resolver) Leave(expected ScopeID, destroy bool) {
	if len(r.stack) == 0 {
		return
	}
	top := r.stack[len(r.stack)-1]
	if expected.IsValid() && top != expected {
		debugScopeMismatch(expected, top)
		r.reportScopeMismatch(expected, top)
	}
	r.stack = r.stack[:len(r.stack)-1]
	delete(r.opened, top)
	if destroy {
		r.table.Destroy(top)
	}
}

// Declare inserts decl into the current scope. Returns false if no scope is
// open. Redeclaration never fails; it only warns when configured to.
func (r *Resolver) Declare(decl Decl) (SymbolID, bool) {
	scopeID := r.CurrentScope()
	if !scopeID.IsValid() {
		return NoSymbolID, false
	}
	if r.opts.WarnRedeclare {
		if prev, ok := r.table.LookupLocal(scopeID, decl.Name); ok {
			r.reportRedeclared(decl, prev)
		}
	}
	if r.opts.WarnShadow {
		if parent := r.table.Parent(scopeID); parent.IsValid() {
			if prev, ok := r.table.Lookup(parent, decl.Name); ok {
				r.reportShadowing(decl, prev)
			}
		}
	}
	return r.table.Insert(scopeID, decl), true
}

// Resolve looks name up from the current scope. A miss is reported as an
// unresolved identifier at span.
func (r *Resolver) Resolve(name string, span source.Span) (SymbolID, bool) {
	return r.ResolveCategory(name, CategoryMaskAny, span)
}

// ResolveCategory is Resolve restricted to the categories in mask.
func (r *Resolver) ResolveCategory(name string, mask CategoryMask, span source.Span) (SymbolID, bool) {
	scopeID := r.CurrentScope()
	if !scopeID.IsValid() {
		return NoSymbolID, false
	}
	id, ok := r.table.LookupCategory(scopeID, name, mask)
	if !ok {
		msg := fmt.Sprintf("cannot resolve '%s' in scope '%s'", name, r.table.Label(scopeID))
		builder := diag.ReportError(r.reporter, diag.SemaUnresolvedSymbol, span, msg)
		if opened, has := r.openedSpan(scopeID); has {
			builder.WithNote(opened, "innermost scope opened here")
		}
		builder.Emit()
	}
	return id, ok
}

func (r *Resolver) openedSpan(scopeID ScopeID) (source.Span, bool) {
	span, ok := r.opened[scopeID]
	return span, ok
}

func (r *Resolver) reportRedeclared(decl Decl, prev SymbolID) {
	msg := fmt.Sprintf("'%s' is declared again in scope '%s'; the new %s wins",
		decl.Name, r.table.Label(r.CurrentScope()), decl.Category)
	builder := diag.ReportWarning(r.reporter, diag.SemaRedeclared, decl.Span, msg)
	if prevSpan := r.table.Symbol(prev).Span; prevSpan != (source.Span{}) {
		builder.WithNote(prevSpan, "previous declaration here")
	}
	builder.Emit()
}

func (r *Resolver) reportShadowing(decl Decl, shadow SymbolID) {
	if decl.Name == "_" {
		return
	}
	prev := r.table.Symbol(shadow)
	msg := fmt.Sprintf("declaration of '%s' shadows the %s in scope '%s'",
		decl.Name, prev.Category, r.table.Label(prev.Scope))
	builder := diag.ReportWarning(r.reporter, diag.SemaShadowSymbol, decl.Span, msg)
	if prev.Span != (source.Span{}) {
		builder.WithNote(prev.Span, "previous declaration here")
	}
	builder.Emit()
}

func (r *Resolver) reportScopeMismatch(expected, actual ScopeID) {
	if r.scopeMismatchReported[actual] {
		return
	}
	r.scopeMismatchReported[actual] = true

	msg := fmt.Sprintf("scope stack mismatch: closing scope '%s' (#%d) while expecting #%d",
		r.table.Label(actual), actual, expected)
	primary, _ := r.openedSpan(actual)
	builder := diag.ReportWarning(r.reporter, diag.SemaScopeMismatch, primary, msg)
	if span, ok := r.openedSpan(expected); ok {
		builder.WithNote(span, "expected scope opened here")
	}
	builder.Emit()
}
