package symbols

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// Validate walks internal arenas checking structural invariants. Returns nil if
// everything is consistent; otherwise aggregates all detected issues.
func (t *Table) Validate() error {
	var errs []error

	for idx := 1; idx < len(t.Scopes.data); idx++ {
		scopeID, err := toScopeID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scope := &t.Scopes.data[idx]
		if !scope.live {
			if len(scope.Symbols) > 0 || len(scope.Children) > 0 {
				errs = append(errs, fmt.Errorf("destroyed scope %d still owns data", scopeID))
			}
			continue
		}
		errs = append(errs, t.validateParent(scopeID, scope)...)
		errs = append(errs, t.validateChildren(scopeID, scope)...)
		errs = append(errs, t.validateIndex(scopeID, scope)...)
	}

	// Check symbols.
	for idx := 1; idx < len(t.Symbols.data); idx++ {
		symbolID, err := toSymbolID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		symbol := &t.Symbols.data[idx]
		if !symbol.live {
			continue
		}
		scope := t.Scopes.Get(symbol.Scope)
		if scope == nil {
			errs = append(errs, fmt.Errorf("symbol %d outlives scope %d", symbolID, symbol.Scope))
			continue
		}
		if !symbol.Category.IsValid() {
			errs = append(errs, fmt.Errorf("symbol %d has invalid category %d", symbolID, symbol.Category))
		}
		found := false
		for _, id := range scope.Symbols {
			if id == symbolID {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, fmt.Errorf("symbol %d is missing from scope %d list", symbolID, symbol.Scope))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

func (t *Table) validateParent(scopeID ScopeID, scope *Scope) []error {
	if !scope.Parent.IsValid() {
		return nil
	}
	if scope.Parent == scopeID || !t.Scopes.Known(scope.Parent) {
		return []error{fmt.Errorf("scope %d has invalid parent %d", scopeID, scope.Parent)}
	}
	parent := t.Scopes.Get(scope.Parent)
	if parent == nil {
		return []error{fmt.Errorf("scope %d outlives its parent %d", scopeID, scope.Parent)}
	}
	var errs []error
	links := 0
	for _, child := range parent.Children {
		if child == scopeID {
			links++
		}
	}
	if links != 1 {
		errs = append(errs, fmt.Errorf("scope %d appears %d times in parent %d children", scopeID, links, scope.Parent))
	}
	// ancestor walk bounded by the arena size catches cycles
	steps := 0
	for id := scope.Parent; id.IsValid(); id = t.Scopes.data[id].Parent {
		if id == scopeID || steps > len(t.Scopes.data) {
			errs = append(errs, fmt.Errorf("scope %d is its own ancestor", scopeID))
			break
		}
		steps++
	}
	return errs
}

func (t *Table) validateChildren(scopeID ScopeID, scope *Scope) []error {
	var errs []error
	for _, child := range scope.Children {
		if !t.Scopes.Known(child) || child == scopeID {
			errs = append(errs, fmt.Errorf("scope %d has invalid child %d", scopeID, child))
			continue
		}
		if !t.Scopes.data[child].live {
			errs = append(errs, fmt.Errorf("scope %d keeps destroyed child %d", scopeID, child))
			continue
		}
		if t.Scopes.data[child].Parent != scopeID {
			errs = append(errs, fmt.Errorf("scope %d child %d missing parent backlink", scopeID, child))
		}
	}
	return errs
}

func (t *Table) validateIndex(scopeID ScopeID, scope *Scope) []error {
	var errs []error
	symbolSet := make(map[SymbolID]struct{}, len(scope.Symbols))
	for _, id := range scope.Symbols {
		symbolSet[id] = struct{}{}
	}
	covered := make(map[SymbolID]struct{}, len(scope.Symbols))
	for name, bucket := range scope.NameIndex {
		for _, id := range bucket {
			if _, ok := symbolSet[id]; !ok {
				errs = append(errs, fmt.Errorf("scope %d name index %d references missing symbol %d", scopeID, name, id))
				continue
			}
			if t.Symbols.data[id].Name != name {
				errs = append(errs, fmt.Errorf("scope %d symbol %d filed under wrong name %d", scopeID, id, name))
			}
			covered[id] = struct{}{}
		}
	}
	for _, id := range scope.Symbols {
		if _, ok := covered[id]; !ok {
			errs = append(errs, fmt.Errorf("scope %d symbol %d missing in name index", scopeID, id))
		}
	}
	return errs
}

func toScopeID(idx int) (ScopeID, error) {
	value, err := safecast.Conv[uint32](idx)
	if err != nil {
		return NoScopeID, fmt.Errorf("scope index %d overflow: %w", idx, err)
	}
	return ScopeID(value), nil
}

func toSymbolID(idx int) (SymbolID, error) {
	value, err := safecast.Conv[uint32](idx)
	if err != nil {
		return NoSymbolID, fmt.Errorf("symbol index %d overflow: %w", idx, err)
	}
	return SymbolID(value), nil
}
