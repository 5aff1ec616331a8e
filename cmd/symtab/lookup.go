package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"symtab/internal/driver"
	"symtab/internal/javafront"
	"symtab/internal/symbols"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup FILE.java --scope PATH --name NAME",
	Short: "Resolve a name from a scope of a Java file",
	Long: `Resolve NAME starting at the scope addressed by PATH, a slash separated
list of scope labels such as global/Library/addBook. Sibling scopes with the
same label are addressed newest first; append #N to pick the N-th (0-based).
Exits with status 1 when the name is not visible.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().String("scope", "global", "label path of the starting scope")
	lookupCmd.Flags().String("name", "", "name to resolve")
	lookupCmd.Flags().String("category", "", "restrict to a category (variable|method|class|parameter)")
	lookupCmd.Flags().Bool("all", false, "list every visible binding, innermost first")
	lookupCmd.Flags().Bool("local", false, "search the starting scope only")
	_ = lookupCmd.MarkFlagRequired("name")
}

func runLookup(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	scopePath, err := flags.GetString("scope")
	if err != nil {
		return err
	}
	name, err := flags.GetString("name")
	if err != nil {
		return err
	}
	categoryName, err := flags.GetString("category")
	if err != nil {
		return err
	}
	all, err := flags.GetBool("all")
	if err != nil {
		return err
	}
	local, err := flags.GetBool("local")
	if err != nil {
		return err
	}
	mask := symbols.CategoryMaskAny
	if categoryName != "" {
		category, ok := symbols.ParseCategory(categoryName)
		if !ok {
			return fmt.Errorf("invalid --category value %q", categoryName)
		}
		mask = category.Mask()
	}

	opts, err := analysisOptions(cmd)
	if err != nil {
		return err
	}
	// block scopes must survive for their paths to resolve
	opts.Front.DestroyBlocks = false
	res, err := driver.AnalyzeFiles(contextOrBackground(cmd), args, opts)
	if err != nil {
		return err
	}
	fr := &res.Files[0]
	if fr.Result == nil {
		if err := reportDiagnostics(cmd, res, "pretty"); err != nil {
			return err
		}
		return errSilent
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return err
	}
	if !quiet {
		if err := reportDiagnostics(cmd, res, "pretty"); err != nil {
			return err
		}
	}

	table := fr.Result.Table
	scope, err := resolveScopePath(table, fr.Result, scopePath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var ids []symbols.SymbolID
	switch {
	case all:
		for _, id := range table.LookupAll(scope, name) {
			if mask.Has(table.Symbol(id).Category) {
				ids = append(ids, id)
			}
		}
	case local:
		if id, ok := table.LookupLocal(scope, name); ok && mask.Has(table.Symbol(id).Category) {
			ids = append(ids, id)
		}
	default:
		if id, ok := table.LookupCategory(scope, name, mask); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		fmt.Fprintf(out, "%s: not found from scope %s\n", name, scopePath)
		return errSilent
	}
	for _, id := range ids {
		writeEntry(out, table, id)
	}
	return nil
}

// resolveScopePath walks label segments from the file's global scope. The
// first segment may also name the prelude scope.
func resolveScopePath(table *symbols.Table, res *javafront.Result, path string) (symbols.ScopeID, error) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return symbols.NoScopeID, fmt.Errorf("empty scope path")
	}

	var cur symbols.ScopeID
	switch first := segments[0]; {
	case first == table.Label(res.Global):
		cur = res.Global
	case res.Prelude.IsValid() && first == table.Label(res.Prelude):
		cur = res.Prelude
	default:
		return symbols.NoScopeID, fmt.Errorf("scope path must start with %q, got %q", table.Label(res.Global), first)
	}

	for i, segment := range segments[1:] {
		label, nth, err := splitOrdinal(segment)
		if err != nil {
			return symbols.NoScopeID, err
		}
		next, ok := nthChild(table, cur, label, nth)
		if !ok {
			return symbols.NoScopeID, fmt.Errorf("no scope %q under %s", segment, strings.Join(segments[:i+1], "/"))
		}
		cur = next
	}
	return cur, nil
}

func splitOrdinal(segment string) (string, int, error) {
	label, ordinal, found := strings.Cut(segment, "#")
	if !found {
		return label, 0, nil
	}
	var n int
	if _, err := fmt.Sscanf(ordinal, "%d", &n); err != nil || n < 0 {
		return "", 0, fmt.Errorf("invalid scope ordinal in %q", segment)
	}
	return label, n, nil
}

// nthChild returns the nth child labelled label, newest first.
func nthChild(table *symbols.Table, parent symbols.ScopeID, label string, nth int) (symbols.ScopeID, bool) {
	for _, child := range table.Children(parent) {
		if table.Label(child) != label {
			continue
		}
		if nth == 0 {
			return child, true
		}
		nth--
	}
	return symbols.NoScopeID, false
}

func writeEntry(out io.Writer, table *symbols.Table, id symbols.SymbolID) {
	sym := table.Symbol(id)
	fmt.Fprintf(out, "%s [%s] (%s) in scope %s\n",
		table.Name(id), sym.Type, sym.Category, scopeLabelPath(table, sym.Scope))
}

func scopeLabelPath(table *symbols.Table, scope symbols.ScopeID) string {
	chain := table.Ancestors(scope)
	labels := make([]string, len(chain))
	for i, id := range chain {
		labels[len(chain)-1-i] = table.Label(id)
	}
	return strings.Join(labels, "/")
}
