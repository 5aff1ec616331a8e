package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Front end (parse errors reported by the tree-sitter walker)
	SynInfo        Code = 2000
	SynSyntaxError Code = 2001
	SynMissingNode Code = 2002
	SynUnnamedDecl Code = 2003

	// Name resolution
	SemaInfo             Code = 3000
	SemaRedeclared       Code = 3002
	SemaScopeMismatch    Code = 3003
	SemaShadowSymbol     Code = 3004
	SemaUnresolvedSymbol Code = 3005

	// IO
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:          "Unknown error",
	SynInfo:              "Syntax information",
	SynSyntaxError:       "Syntax error",
	SynMissingNode:       "Missing syntax node",
	SynUnnamedDecl:       "Declaration without a name",
	SemaInfo:             "Name resolution information",
	SemaRedeclared:       "Name redeclared in the same scope",
	SemaScopeMismatch:    "Scope stack mismatch",
	SemaShadowSymbol:     "Declaration shadows an outer binding",
	SemaUnresolvedSymbol: "Unresolved identifier",
	IOLoadFileError:      "Failed to load file",
}

// ID returns the stable textual form, e.g. SEM3005.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
