package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentstation/flowcheck/internal/cmd/output"
	"github.com/agentstation/flowcheck/pkg/logging"
)

// Execute runs the flowcheck CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "flowcheck",
		Short:   "Consistency checker for conversational agent projects",
		Version: a.version,
		Long: `Flowcheck cross-checks the sources of truth of a conversational agent
project and reports where they disagree:

  - handler definitions in the application code (flows.yaml)
  - intent documents on disk
  - reference records in the document store (brands, models, categories)
  - translated entity documents

It only reports mismatches; nothing is changed.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	// Add global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.flags.configFile, "config", "", "config file (default is ./.flowcheck.yaml or $HOME/.flowcheck.yaml)")
	flags.StringVarP(&a.flags.projectDir, "project-dir", "C", "", "project directory (default is the working directory)")
	flags.BoolVarP(&a.flags.verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.flags.quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.BoolVar(&a.flags.noColor, "no-color", false, "disable colored output")
	flags.StringVarP(&a.flags.format, "format", "o", "", "output format: text, table, wide, json, yaml")
	flags.StringVar(&a.flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("flowcheck {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// An explicit config file replaces the configuration loaded at startup
	if a.flags.configFile != "" {
		config, err := loadConfig(viper.New(), a.flags.configFile)
		if err != nil {
			return err
		}
		a.config = config
	}
	if a.flags.projectDir != "" {
		a.config.ProjectDir = a.flags.projectDir
	}

	a.config.UpdateFromFlags(a.flags.verbose, a.flags.quiet, a.flags.noColor, a.flags.format, a.flags.logLevel)

	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(a.NewValidateCommand())
	rootCmd.AddCommand(a.NewInspectCommand())
	rootCmd.AddCommand(a.NewVersionCommand())
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
