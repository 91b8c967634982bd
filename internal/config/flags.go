package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/burrow/burrow/internal/ignore"
)

// FlagValues collects the parsed global flag values from the CLI. It is
// populated by BindFlags and turned into the CLI layer of the resolution
// pipeline by CLILayer.
type FlagValues struct {
	Hidden      bool
	OnlyFolders bool
	Sizes       bool
	Gitignore   string
	Excludes    []string
	Pattern     string
	Height      int
	Print       bool
	Verbose     bool
	Quiet       bool
}

// BindFlags registers all global persistent flags on the given Cobra
// command and returns a FlagValues pointer populated at parse time.
func BindFlags(cmd *cobra.Command) *FlagValues {
	fv := &FlagValues{}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&fv.Hidden, "hidden", "H", false, "show hidden (dot) entries")
	pf.BoolVarP(&fv.OnlyFolders, "only-folders", "f", false, "show folders only")
	pf.BoolVarP(&fv.Sizes, "sizes", "s", false, "show file sizes (implies a complete first level)")
	pf.StringVar(&fv.Gitignore, "gitignore", "", "respect .gitignore rules: off, on, auto")
	pf.StringArrayVar(&fv.Excludes, "exclude", nil, "exclude entries by glob pattern (repeatable)")
	pf.StringVarP(&fv.Pattern, "pattern", "p", "", "search pattern for --print (the UI starts with an empty input)")
	pf.IntVar(&fv.Height, "height", 0, "tree height in lines for --print (default 24; the UI uses the terminal height)")
	pf.BoolVar(&fv.Print, "print", false, "print one tree to stdout instead of starting the UI")
	pf.BoolVarP(&fv.Verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&fv.Quiet, "quiet", "q", false, "suppress all output except errors")

	return fv
}

// ValidateFlags checks the parsed flag values for correctness and mutual
// exclusion. Call from PersistentPreRunE after Cobra has parsed the flags.
func ValidateFlags(fv *FlagValues, root string) error {
	if fv.Verbose && fv.Quiet {
		return fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}

	if fv.Gitignore != "" {
		if _, err := ignore.ParseMode(fv.Gitignore); err != nil {
			return fmt.Errorf("--gitignore: %w", err)
		}
	}

	if fv.Height < 0 {
		return fmt.Errorf("--height: must not be negative, got %d", fv.Height)
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %s is not a directory", root)
	}

	return nil
}

// CLILayer converts the explicitly-set flags into the flat map used as the
// highest-precedence resolution layer. cmd is consulted so only flags the
// user actually passed override lower layers.
func CLILayer(fv *FlagValues, cmd *cobra.Command) map[string]any {
	m := make(map[string]any)
	pf := cmd.PersistentFlags()

	if pf.Changed("hidden") {
		m["show_hidden"] = fv.Hidden
	}
	if pf.Changed("only-folders") {
		m["only_folders"] = fv.OnlyFolders
	}
	if pf.Changed("sizes") {
		m["show_sizes"] = fv.Sizes
	}
	if pf.Changed("gitignore") {
		m["respect_gitignore"] = fv.Gitignore
	}
	if pf.Changed("height") {
		m["height"] = fv.Height
	}
	if pf.Changed("exclude") {
		m["exclude"] = fv.Excludes
	}

	return m
}
