// Package application provides the application interface for flowcheck commands.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            checker, err := app.Checker()
//	            if err != nil {
//	                return err
//	            }
//	            rep, err := checker.Run(cmd.Context())
//	            // ... render rep
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    CheckerFunc: func(opts ...flowcheck.Option) (*flowcheck.Checker, error) {
//	        return flowcheck.New(append(testOptions, opts...)...)
//	    },
//	}
//	cmd := validate.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/flowcheck"
)

// Application provides the application interface that commands need.
// The App struct from cmd/flowcheck/app implements this interface.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Checker returns a new checker configured from the application
	// configuration. Options are applied after the configured ones.
	Checker(opts ...flowcheck.Option) (*flowcheck.Checker, error)

	// WatchPaths returns the files and directories a run reads from disk.
	WatchPaths() []string

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (text, table, json, yaml).
	OutputFormat() string

	// NoColor reports whether colored output is disabled.
	NoColor() bool

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
