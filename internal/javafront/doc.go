// Package javafront populates a symbols.Table from Java sources.
//
// Parsing is delegated to tree-sitter; this package only walks the syntax tree
// and drives a symbols.Resolver: one scope for the implicit java.lang
// prelude, one "global" scope per file, one per type declaration, one per
// method or constructor, and one per nested block, loop, catch clause, switch
// or lambda. Class members are declared before any method body is walked, so
// methods and fields may be used before their declaration, while locals are
// only visible after theirs.
//
// Identifiers are NFC-normalized before they reach the table. Type names are
// not resolved; type checking is left to later passes.
package javafront
