package testkit

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"symtab/internal/source"
	"symtab/internal/symbols"
)

// CheckSymbolSpans runs the span invariants for every live scope reachable
// from root in a table built from sf:
// 1) the table itself validates
// 2) every symbol span is ordered and within the file content
// 3) every span points at sf, except the empty spans of predeclared names
func CheckSymbolSpans(table *symbols.Table, root symbols.ScopeID, sf *source.File) error {
	if table == nil || sf == nil {
		return fmt.Errorf("nil table or file")
	}
	if err := table.Validate(); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var errs []error
	stack := []symbols.ScopeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		scope := table.Scope(id)
		if scope == nil {
			errs = append(errs, fmt.Errorf("scope %d is not live", id))
			continue
		}
		for _, symID := range scope.Symbols {
			sym := table.Symbol(symID)
			if sym.Span == (source.Span{}) {
				continue
			}
			name := table.Name(symID)
			switch {
			case sym.Span.File != sf.ID:
				errs = append(errs, fmt.Errorf("%s: span in file %d, want %d", name, sym.Span.File, sf.ID))
			case sym.Span.End < sym.Span.Start:
				errs = append(errs, fmt.Errorf("%s: inverted span %v", name, sym.Span))
			case sym.Span.End > lenContent:
				errs = append(errs, fmt.Errorf("%s: span end beyond content: %d > %d", name, sym.Span.End, lenContent))
			}
		}
		stack = append(stack, scope.Children...)
	}
	return errors.Join(errs...)
}
