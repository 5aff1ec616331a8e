package main

import (
	"github.com/spf13/cobra"

	"symtab/internal/prof"
)

// profiling is stopped by main after the command returns.
var profiling *prof.Session

func startProfiling(cmd *cobra.Command) error {
	flags := cmd.Flags()
	var (
		cfg prof.Config
		err error
	)
	if cfg.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return err
	}
	if cfg.Mem, err = flags.GetString("mem-profile"); err != nil {
		return err
	}
	if cfg.Trace, err = flags.GetString("exec-trace"); err != nil {
		return err
	}
	if !cfg.Enabled() {
		return nil
	}
	profiling, err = prof.Start(cfg)
	return err
}
