package symbols

import (
	"strings"

	"symtab/internal/source"
)

// Category classifies what a binding names.
type Category uint8

const (
	CategoryInvalid Category = iota
	CategoryVariable
	CategoryMethod
	CategoryClass
	CategoryParameter
)

func (c Category) String() string {
	switch c {
	case CategoryVariable:
		return "Variable"
	case CategoryMethod:
		return "Method"
	case CategoryClass:
		return "Class"
	case CategoryParameter:
		return "Parameter"
	default:
		return "Invalid"
	}
}

// IsValid reports whether c is one of the four binding categories.
func (c Category) IsValid() bool {
	return c >= CategoryVariable && c <= CategoryParameter
}

// CategoryMask restricts lookup to specific categories.
type CategoryMask uint8

const (
	// CategoryMaskNone filters out everything.
	CategoryMaskNone CategoryMask = 0
	// CategoryMaskAny allows all categories.
	CategoryMaskAny CategoryMask = ^CategoryMask(0)
)

// Mask converts a category into a CategoryMask bit.
func (c Category) Mask() CategoryMask {
	return CategoryMask(1 << uint(c))
}

// Has reports whether the mask admits c.
func (m CategoryMask) Has(c Category) bool {
	return m == CategoryMaskAny || m&c.Mask() != 0
}

// ParseCategory accepts the category names printed by String, case-insensitively.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(s) {
	case "variable", "var":
		return CategoryVariable, true
	case "method":
		return CategoryMethod, true
	case "class":
		return CategoryClass, true
	case "parameter", "param":
		return CategoryParameter, true
	default:
		return CategoryInvalid, false
	}
}

// Decl is the input of Table.Insert.
type Decl struct {
	Name     string
	Type     string
	Category Category
	Kind     ScopeKind   // optional scope-kind tag
	Defines  ScopeID     // optional scope opened by this declaration
	Span     source.Span // optional declaration site
}

// Symbol is one immutable binding owned by exactly one scope.
type Symbol struct {
	Name     source.StringID
	Type     string
	Category Category
	Kind     ScopeKind
	Scope    ScopeID // owning scope
	Defines  ScopeID
	Span     source.Span

	live bool
}

// Live reports whether the owning scope is still alive.
func (s *Symbol) Live() bool { return s != nil && s.live }
