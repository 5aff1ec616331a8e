package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const configFileName = "symtab.toml"

// fileConfig mirrors symtab.toml. Every key maps onto a command line flag;
// flags given explicitly win over the file.
type fileConfig struct {
	Color string `toml:"color"`
	Dump  struct {
		Align       *bool  `toml:"align"`
		Glyphs      string `toml:"glyphs"`
		NoHeader    *bool  `toml:"no_header"`
		WithPrelude *bool  `toml:"with_prelude"`
	} `toml:"dump"`
	Trace struct {
		Level    string `toml:"level"`
		Mode     string `toml:"mode"`
		Output   string `toml:"output"`
		Format   string `toml:"format"`
		RingSize int    `toml:"ring_size"`
	} `toml:"trace"`
	Analyze struct {
		Jobs           int   `toml:"jobs"`
		MaxDiagnostics int   `toml:"max_diagnostics"`
		WarnShadow     *bool `toml:"warn_shadow"`
		WarnRedeclare  *bool `toml:"warn_redeclare"`
		NoPrelude      *bool `toml:"no_prelude"`
		DestroyBlocks  *bool `toml:"destroy_blocks"`
	} `toml:"analyze"`
}

// loadConfigFile decodes path and rejects unknown keys.
func loadConfigFile(path string) (*fileConfig, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// findConfig walks from dir to the filesystem root looking for symtab.toml.
func findConfig(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, configFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// applyConfig loads the config file, if any, and copies its values into the
// flags the user did not set.
func applyConfig(cmd *cobra.Command) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("working directory: %w", err)
		}
		found, ok := findConfig(cwd)
		if !ok {
			return nil
		}
		path = found
	} else if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config %s: %w", path, err)
	}
	cfg, err := loadConfigFile(path)
	if err != nil {
		return err
	}
	return cfg.apply(cmd.Flags())
}

func (cfg *fileConfig) apply(flags *pflag.FlagSet) error {
	var errs []error
	set := func(name, value string) {
		if value == "" {
			return
		}
		f := flags.Lookup(name)
		if f == nil || f.Changed {
			return
		}
		if err := f.Value.Set(value); err != nil {
			errs = append(errs, fmt.Errorf("config key for --%s: %w", name, err))
		}
	}
	setBool := func(name string, v *bool) {
		if v != nil {
			set(name, strconv.FormatBool(*v))
		}
	}
	setInt := func(name string, v int) {
		if v != 0 {
			set(name, strconv.Itoa(v))
		}
	}

	set("color", cfg.Color)

	setBool("align", cfg.Dump.Align)
	set("glyphs", cfg.Dump.Glyphs)
	setBool("no-header", cfg.Dump.NoHeader)
	setBool("with-prelude", cfg.Dump.WithPrelude)

	set("trace-level", cfg.Trace.Level)
	set("trace-mode", cfg.Trace.Mode)
	set("trace", cfg.Trace.Output)
	set("trace-format", cfg.Trace.Format)
	setInt("trace-ring-size", cfg.Trace.RingSize)

	setInt("jobs", cfg.Analyze.Jobs)
	setInt("max-diagnostics", cfg.Analyze.MaxDiagnostics)
	setBool("warn-shadow", cfg.Analyze.WarnShadow)
	setBool("warn-redeclare", cfg.Analyze.WarnRedeclare)
	setBool("no-prelude", cfg.Analyze.NoPrelude)
	setBool("destroy-blocks", cfg.Analyze.DestroyBlocks)

	return errors.Join(errs...)
}
