package symbols

import (
	"symtab/internal/source"
)

// ScopeKind tags a symbol with the kind of scope it belongs to or opens.
type ScopeKind uint8

const (
	ScopeKindNone ScopeKind = iota // not tracked
	ScopeGlobal
	ScopeLocal
	ScopeClass
	ScopeMethod
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeLocal:
		return "local"
	case ScopeClass:
		return "class"
	case ScopeMethod:
		return "method"
	default:
		return "none"
	}
}

// Scope models a lexical scope. Values returned by Table.Scope point into the
// arena and must be treated as read-only.
type Scope struct {
	// Label is for diagnostics only and never used as a lookup key.
	Label string
	// Parent is fixed at creation; NoScopeID for roots.
	Parent ScopeID
	// Symbols lists declarations in insertion order.
	Symbols []SymbolID
	// NameIndex buckets Symbols by name, each bucket in insertion order.
	NameIndex map[source.StringID][]SymbolID
	// Children lists child scopes in creation order.
	Children []ScopeID

	live bool
}

// Live reports whether the scope has not been destroyed.
func (s *Scope) Live() bool { return s != nil && s.live }
