// Package diag defines the diagnostic model shared by the Java front end and
// the resolver.
//
// The symbol table itself never produces diagnostics: an unresolved name is a
// plain (NoSymbolID, false) result. Callers that want user-facing messages
// turn those results into Diagnostic records through a Reporter, collect them
// in a Bag and hand the Bag to internal/diagfmt for rendering.
//
// Codes are grouped by range: 2xxx syntax (tree-sitter errors), 3xxx name
// resolution, 4xxx IO. Code.ID gives the stable textual form used in output.
package diag
