package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/flowcheck/cmd/flowcheck/cmd/inspect"
	"github.com/agentstation/flowcheck/cmd/flowcheck/cmd/validate"
)

// NewValidateCommand creates the validate command with app dependencies.
func (a *App) NewValidateCommand() *cobra.Command {
	return validate.NewCommand(a)
}

// NewInspectCommand creates the inspect command with app dependencies.
func (a *App) NewInspectCommand() *cobra.Command {
	return inspect.NewCommand(a)
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("flowcheck %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
				cmd.Printf("  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}
