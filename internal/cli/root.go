// Package cli implements the Cobra command hierarchy for burrow. The root
// command is the navigator itself; it handles cross-cutting concerns like
// logging initialization, config resolution, and exit codes.
package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/burrow/burrow/internal/config"
	"github.com/burrow/burrow/internal/ignore"
	"github.com/burrow/burrow/internal/pattern"
	"github.com/burrow/burrow/internal/sizer"
	"github.com/burrow/burrow/internal/task"
	"github.com/burrow/burrow/internal/tree"
	"github.com/burrow/burrow/internal/ui"
)

// defaultHeight is the tree height used when neither the config nor the
// terminal provides one (non-interactive --print runs).
const defaultHeight = 24

// flagValues holds the parsed global flag values, populated by
// config.BindFlags during command initialization.
var flagValues *config.FlagValues

// startDir is the directory argument, resolved in PersistentPreRunE.
var startDir string

var rootCmd = &cobra.Command{
	Use:   "burrow [directory]",
	Short: "Navigate directories as a fuzzy-searchable tree.",
	Long: `Burrow shows a directory as a bounded-height tree you can search.

Type to fuzzy-filter the whole subtree: the best matches anywhere below
the root are surfaced together with their ancestors, and the tree never
grows past the screen. Type a space (or colon) after the pattern to
enter a verb: cd, open, quit, or one of the display toggles.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolving directory %s: %w", dir, err)
		}
		startDir = abs

		if err := config.ValidateFlags(flagValues, startDir); err != nil {
			return err
		}

		level := config.ResolveLogLevel(flagValues.Verbose, flagValues.Quiet)
		format := config.ResolveLogFormat()
		config.SetupLogging(level, format)

		slog.Debug("logging initialized", "level", level, "format", format)
		return nil
	},
}

func init() {
	rootCmd.RunE = runNavigator
	flagValues = config.BindFlags(rootCmd)
	rootCmd.AddCommand(versionCmd)
}

// runNavigator resolves configuration and either prints one tree or
// starts the interactive UI.
func runNavigator(cmd *cobra.Command, _ []string) error {
	resolved, err := config.Resolve(config.ResolveOptions{
		StartDir: startDir,
		CLIFlags: config.CLILayer(flagValues, rootCmd),
	})
	if err != nil {
		return err
	}
	cfg := resolved.Config

	mode, err := ignore.ParseMode(cfg.RespectGitignore)
	if err != nil {
		return fmt.Errorf("respect_gitignore: %w", err)
	}

	opts := tree.Options{
		ShowHidden:    cfg.ShowHidden,
		OnlyFolders:   cfg.OnlyFolders,
		ShowSizes:     cfg.ShowSizes,
		RespectIgnore: mode,
	}
	if globs := ignore.Globs(cfg.Exclude); globs != nil {
		opts.IgnoreFilter = globs
	}

	if flagValues.Print {
		return printTree(cmd, opts, cfg.Height)
	}
	return runUI(opts, cfg.Height)
}

// printTree runs one synchronous build and writes the plain rendering to
// stdout. Used for scripting and debugging.
func printTree(cmd *cobra.Command, opts tree.Options, height int) error {
	if height <= 0 {
		height = defaultHeight
	}
	if flagValues.Pattern != "" {
		opts.Pattern = pattern.NewFuzzy(flagValues.Pattern)
	}

	builder, err := tree.NewBuilder(startDir, opts, height)
	if err != nil {
		return err
	}
	lifetime := task.New()
	t := builder.Build(lifetime)
	if t == nil {
		return fmt.Errorf("build cancelled")
	}
	if opts.ShowSizes {
		if err := sizer.Populate(lifetime.Context(), t); err != nil {
			return fmt.Errorf("populating sizes: %w", err)
		}
	}

	fmt.Fprint(cmd.OutOrStdout(), ui.RenderPlain(t))
	return nil
}

// runUI starts the interactive bubbletea program. When the user exits via
// cd or open, the selected path is printed so a shell wrapper can use it.
func runUI(opts tree.Options, height int) error {
	if height <= 0 {
		height = defaultHeight
	}
	model := ui.New(startDir, opts, height)

	program := tea.NewProgram(model, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("running UI: %w", err)
	}

	if m, ok := final.(ui.Model); ok && m.ExitPath() != "" {
		fmt.Println(m.ExitPath())
	}
	return nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		return 1
	}
	return 0
}

// RootCmd returns the root cobra.Command for tests.
func RootCmd() *cobra.Command {
	return rootCmd
}
