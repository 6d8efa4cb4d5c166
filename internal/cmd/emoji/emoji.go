// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across all command-line commands.
package emoji

// Symbol constants for CLI output.
const (
	// Success represents a section without discrepancies or a completed run.
	Success = "✓"

	// Error represents a section whose sources could not be read.
	Error = "✗"

	// Warning represents a discrepancy.
	Warning = "!"

	// Info represents informational entries.
	Info = "i"

	// Spinner marks progress entries (static).
	Spinner = "..."

	// Watch marks a rerun triggered by file changes.
	Watch = "↻"
)
