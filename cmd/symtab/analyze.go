package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"symtab/internal/diag"
	"symtab/internal/diagfmt"
	"symtab/internal/driver"
	"symtab/internal/javafront"
)

// analysisOptions collects the persistent flags shared by dump and lookup.
func analysisOptions(cmd *cobra.Command) (driver.Options, error) {
	flags := cmd.Flags()
	var (
		opts driver.Options
		err  error
	)
	if opts.Jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, err
	}
	if opts.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return opts, err
	}
	if opts.Timings, err = flags.GetBool("timings"); err != nil {
		return opts, err
	}
	front := javafront.Options{}
	if front.WarnShadow, err = flags.GetBool("warn-shadow"); err != nil {
		return opts, err
	}
	if front.WarnRedeclare, err = flags.GetBool("warn-redeclare"); err != nil {
		return opts, err
	}
	if front.DestroyBlocks, err = flags.GetBool("destroy-blocks"); err != nil {
		return opts, err
	}
	noPrelude, err := flags.GetBool("no-prelude")
	if err != nil {
		return opts, err
	}
	if noPrelude {
		front.Prelude = []string{}
	}
	opts.Front = front
	return opts, nil
}

// runAnalysis analyzes files, with the progress view when it is wanted.
func runAnalysis(cmd *cobra.Command, files []string, opts driver.Options) (*driver.Result, error) {
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return nil, err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return nil, err
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return nil, err
	}
	if shouldUseTUI(mode, len(files), quiet) {
		return runAnalyzeWithUI(cmd.Context(), "analyzing", files, opts)
	}
	return driver.AnalyzeFiles(contextOrBackground(cmd), files, opts)
}

func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// reportDiagnostics prints every file's diagnostics in the selected format and
// the per-file timings, if collected.
func reportDiagnostics(cmd *cobra.Command, res *driver.Result, format string) error {
	errOut := cmd.ErrOrStderr()
	pathModeValue, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return err
	}
	pathMode, ok := diagfmt.ParsePathMode(pathModeValue)
	if !ok {
		return fmt.Errorf("invalid --path-mode value %q", pathModeValue)
	}

	bags := make([]*diag.Bag, 0, len(res.Files))
	for i := range res.Files {
		res.Files[i].Bag.Sort()
		bags = append(bags, res.Files[i].Bag)
	}

	switch format {
	case "json":
		if err := diagfmt.JSON(cmd.OutOrStdout(), bags, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     true,
		}); err != nil {
			return err
		}
	case "pretty", "":
		opts := diagfmt.PrettyOpts{
			Color:      colorEnabled(),
			PathMode:   pathMode,
			ShowNotes:  true,
			ShowSource: true,
		}
		for _, bag := range bags {
			if err := diagfmt.Pretty(errOut, bag, res.FileSet, opts); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unsupported diagnostics format %q (must be pretty or json)", format)
	}

	printTimings(errOut, res)
	return nil
}

func printTimings(out io.Writer, res *driver.Result) {
	for _, fr := range res.Files {
		if fr.Timing != nil {
			fmt.Fprint(out, fr.Timing.Summary(fr.Path))
		}
	}
}
