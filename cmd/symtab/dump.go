package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"symtab/internal/driver"
	"symtab/internal/symbols"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] FILE.java|DIR...",
	Short: "Print the scope tree of Java sources",
	Long: `Analyze Java sources and print each file's symbol table hierarchy.
Directories are searched recursively for *.java files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().Bool("align", false, "align symbol names within a scope")
	dumpCmd.Flags().String("glyphs", "unicode", "tree drawing characters (unicode|ascii)")
	dumpCmd.Flags().Bool("no-header", false, "omit the table header box")
	dumpCmd.Flags().Bool("with-prelude", false, "start the dump at the java.lang prelude scope")
	dumpCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
}

func dumpOptions(cmd *cobra.Command) (symbols.DumpOptions, bool, error) {
	flags := cmd.Flags()
	opts := symbols.DumpOptions{Color: colorEnabled()}
	var err error
	if opts.Align, err = flags.GetBool("align"); err != nil {
		return opts, false, err
	}
	if opts.NoHeader, err = flags.GetBool("no-header"); err != nil {
		return opts, false, err
	}
	glyphs, err := flags.GetString("glyphs")
	if err != nil {
		return opts, false, err
	}
	switch strings.ToLower(glyphs) {
	case "", "unicode":
	case "ascii":
		opts.Glyphs = &symbols.ASCIIGlyphs
	default:
		return opts, false, fmt.Errorf("invalid --glyphs value %q (expected unicode|ascii)", glyphs)
	}
	withPrelude, err := flags.GetBool("with-prelude")
	if err != nil {
		return opts, false, err
	}
	return opts, withPrelude, nil
}

func runDump(cmd *cobra.Command, args []string) error {
	dumpOpts, withPrelude, err := dumpOptions(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	analyzeOpts, err := analysisOptions(cmd)
	if err != nil {
		return err
	}
	files, err := driver.ExpandPaths(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no Java files found in %s", strings.Join(args, ", "))
	}

	res, err := runAnalysis(cmd, files, analyzeOpts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i := range res.Files {
		if err := writeFileDump(out, &res.Files[i], len(res.Files) > 1, withPrelude, dumpOpts); err != nil {
			return err
		}
	}
	if err := reportDiagnostics(cmd, res, format); err != nil {
		return err
	}
	if res.HasErrors() {
		return errSilent
	}
	return nil
}

func writeFileDump(out io.Writer, fr *driver.FileResult, banner, withPrelude bool, opts symbols.DumpOptions) error {
	if fr.Result == nil {
		return nil
	}
	if banner {
		if _, err := fmt.Fprintf(out, "\n== %s ==", fr.Path); err != nil {
			return err
		}
		if opts.NoHeader {
			fmt.Fprintln(out)
		}
	}
	root := fr.Result.Global
	if withPrelude && fr.Result.Prelude.IsValid() {
		root = fr.Result.Prelude
	}
	return fr.Result.Table.Dump(out, root, opts)
}
