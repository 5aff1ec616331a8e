package javafront

import (
	"golang.org/x/text/unicode/norm"
)

// normalizeIdent brings identifiers to NFC so that visually identical names
// written with combining marks bind to the same symbol.
func normalizeIdent(name string) string {
	if norm.NFC.IsNormalString(name) {
		return name
	}
	return norm.NFC.String(name)
}
