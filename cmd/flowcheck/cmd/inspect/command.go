// Package inspect implements the inspect command, which prints the
// identifiers a single source contributes to the checks.
package inspect

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/flowcheck/cmd/application"
	"github.com/agentstation/flowcheck/internal/cmd/output"
	"github.com/agentstation/flowcheck/pkg/report"
)

// NewCommand creates the inspect command and its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inspect",
		GroupID: "core",
		Short:   "Show the identifiers one source contributes",
		Long: `Inspect prints what a single source of truth contains, in the form the
checks compare it. Use it to understand a discrepancy reported by validate.`,
		Example: `  flowcheck inspect handlers
  flowcheck inspect intents -o json
  flowcheck inspect values vehicles make
  flowcheck inspect keys brand.json`,
	}

	cmd.AddCommand(
		newHandlersCommand(app),
		newIntentsCommand(app),
		newValuesCommand(app),
		newKeysCommand(app),
	)
	return cmd
}

func newHandlersCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "handlers",
		Short: "List the handler identifiers defined by the code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			checker, err := app.Checker()
			if err != nil {
				return err
			}
			ids, issues, err := checker.CodeHandlers()
			if err != nil {
				return err
			}
			return writeHandlers(cmd, app, ids, issues)
		},
	}
}

func newIntentsCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "intents",
		Short: "List the handler identifiers targeted by the intent documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			checker, err := app.Checker()
			if err != nil {
				return err
			}
			ids, issues, err := checker.IntentHandlers(cmd.Context())
			if err != nil {
				return err
			}
			return writeHandlers(cmd, app, ids, issues)
		},
	}
}

func newValuesCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "values <collection> <field>",
		Short: "List the distinct values of a field in a store collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			checker, err := app.Checker()
			if err != nil {
				return err
			}
			values, err := checker.Values(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return writeList(cmd, app, args[1], values, nil)
		},
	}
}

func newKeysCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "keys <file>",
		Short: "List the top-level keys of an entity document",
		Long: `List the top-level keys of an entity document. A bare file name is
resolved against the entities directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checker, err := app.Checker()
			if err != nil {
				return err
			}
			keys, err := checker.Keys(args[0])
			if err != nil {
				return err
			}
			return writeList(cmd, app, "Key", keys, nil)
		},
	}
}

// writeList writes values to stdout and problems found while extracting them
// to stderr.
func writeList(cmd *cobra.Command, app application.Application, header string, values []string, issues []report.Entry) error {
	format := output.DetectFormat(app.OutputFormat())
	if err := output.FormatList(cmd.OutOrStdout(), header, values, format); err != nil {
		return err
	}
	return output.FormatEntries(cmd.ErrOrStderr(), issues, output.FormatText, app.NoColor())
}

func writeHandlers(cmd *cobra.Command, app application.Application, ids []string, issues []report.Entry) error {
	format := output.DetectFormat(app.OutputFormat())
	if err := output.FormatHandlers(cmd.OutOrStdout(), ids, format); err != nil {
		return err
	}
	return output.FormatEntries(cmd.ErrOrStderr(), issues, output.FormatText, app.NoColor())
}
