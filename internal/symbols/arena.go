package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"symtab/internal/source"
)

// Scopes stores all allocated scopes in a compact slice-based arena. Slots are
// never reused, so a destroyed ScopeID can always be told apart from a live one.
type Scopes struct {
	data []Scope
	live int
}

// NewScopes creates an arena with optional capacity hint.
func NewScopes(capacity uint32) *Scopes {
	if capacity == 0 {
		capacity = 32
	}
	return &Scopes{
		data: make([]Scope, 1, capacity+1), // index 0 reserved for NoScopeID
	}
}

// New allocates a live scope and links it into parent's children.
func (s *Scopes) New(label string, parent ScopeID) ScopeID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("scopes arena overflow: %w", err))
	}
	id := ScopeID(value)
	s.data = append(s.data, Scope{
		Label:     label,
		Parent:    parent,
		NameIndex: make(map[source.StringID][]SymbolID),
		live:      true,
	})
	if parentScope := s.Get(parent); parentScope != nil {
		parentScope.Children = append(parentScope.Children, id)
	}
	s.live++
	return id
}

// Get returns the live scope or nil if the ID is unknown or destroyed.
func (s *Scopes) Get(id ScopeID) *Scope {
	if !s.Known(id) || !s.data[id].live {
		return nil
	}
	return &s.data[id]
}

// Known reports whether id was ever allocated by this arena.
func (s *Scopes) Known(id ScopeID) bool {
	return id.IsValid() && int(id) < len(s.data)
}

// release drops everything a scope owns and marks it dead.
func (s *Scopes) release(id ScopeID) {
	scope := &s.data[id]
	if !scope.live {
		return
	}
	*scope = Scope{Label: scope.Label, Parent: scope.Parent}
	s.live--
}

// Len reports total number of allocated scopes excluding the sentinel.
func (s *Scopes) Len() int { return len(s.data) - 1 }

// Live reports the number of scopes not yet destroyed.
func (s *Scopes) Live() int { return s.live }

// Symbols stores declared symbols in a compact arena.
type Symbols struct {
	data []Symbol
	live int
}

// NewSymbols creates a symbol arena with optional capacity hint.
func NewSymbols(capacity uint32) *Symbols {
	if capacity == 0 {
		capacity = 64
	}
	return &Symbols{
		data: make([]Symbol, 1, capacity+1), // index 0 reserved for NoSymbolID
	}
}

// New allocates a live copy of sym and returns its ID.
func (s *Symbols) New(sym *Symbol) SymbolID {
	if sym == nil {
		panic("symbols.New: nil symbol")
	}
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("symbols arena overflow: %w", err))
	}
	id := SymbolID(value)
	stored := *sym
	stored.live = true
	s.data = append(s.data, stored)
	s.live++
	return id
}

// Get returns a live symbol or nil.
func (s *Symbols) Get(id SymbolID) *Symbol {
	if !s.Known(id) || !s.data[id].live {
		return nil
	}
	return &s.data[id]
}

// Known reports whether id was ever allocated by this arena.
func (s *Symbols) Known(id SymbolID) bool {
	return id.IsValid() && int(id) < len(s.data)
}

func (s *Symbols) release(id SymbolID) {
	if !s.data[id].live {
		return
	}
	s.data[id] = Symbol{Scope: s.data[id].Scope}
	s.live--
}

// Len reports number of allocated symbols excluding the sentinel.
func (s *Symbols) Len() int { return len(s.data) - 1 }

// Live reports the number of symbols whose scope is still alive.
func (s *Symbols) Live() int { return s.live }
