// Package validate implements the validate command, which runs every
// consistency check and prints the report.
package validate

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/flowcheck"
	"github.com/agentstation/flowcheck/cmd/application"
	"github.com/agentstation/flowcheck/internal/cmd/emoji"
	"github.com/agentstation/flowcheck/internal/cmd/filter"
	"github.com/agentstation/flowcheck/internal/cmd/output"
	"github.com/agentstation/flowcheck/internal/watch"
	"github.com/agentstation/flowcheck/pkg/errors"
	"github.com/agentstation/flowcheck/pkg/logging"
	"github.com/agentstation/flowcheck/pkg/metrics"
	"github.com/agentstation/flowcheck/pkg/report"
	"github.com/agentstation/flowcheck/pkg/sources"
)

// ErrIssuesFound is returned with --fail-on-issues when a run reports
// discrepancies or a failed section.
var ErrIssuesFound = errors.New("issues found")

// Flags holds the validate command flags.
type Flags struct {
	Watch           bool
	FailOnIssues    bool
	Parallel        bool
	LastContextOnly bool
	Languages       []string
	MetricsFile     string
	Sections        []string
	Search          string
}

// NewCommand creates the validate command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "validate",
		GroupID: "core",
		Short:   "Cross-check handlers, intents, store records and entities",
		Long: `Validate runs every consistency check and prints one section per check:

  Processing contexts
  Processing flows
  Processing brands
  Processing brandModels
  Processing categories
  Processing handlers
  Processing entities

A check that cannot read one of its sources reports the failure in its own
section; the remaining sections still run.`,
		Example: `  flowcheck validate
  flowcheck validate --languages en,nl --fail-on-issues
  flowcheck validate --watch
  flowcheck validate --section handlers --grep booking
  flowcheck validate -o json --metrics-file /var/lib/node_exporter/flowcheck.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.Watch, "watch", "w", false, "rerun when project files change")
	cmd.Flags().BoolVar(&flags.FailOnIssues, "fail-on-issues", false, "exit with an error when any discrepancy is found")
	cmd.Flags().BoolVar(&flags.Parallel, "parallel", false, "run the checks concurrently")
	cmd.Flags().BoolVar(&flags.LastContextOnly, "last-context-only", false, "only the last context of a multi-context intent contributes a handler")
	cmd.Flags().StringSliceVar(&flags.Languages, "languages", nil, "languages every entity must be translated into (overrides config)")
	cmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file after each run")
	cmd.Flags().StringSliceVar(&flags.Sections, "section", nil, "only print these sections (e.g. handlers,entities)")
	cmd.Flags().StringVar(&flags.Search, "grep", "", "only print lines containing this text")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, flags *Flags) error {
	checker, err := app.Checker(checkerOptions(cmd, flags)...)
	if err != nil {
		return err
	}

	format := output.DetectFormat(app.OutputFormat())
	r := &runner{
		checker:     checker,
		out:         cmd.OutOrStdout(),
		format:      format,
		noColor:     app.NoColor(),
		failOnIssue: flags.FailOnIssues,
		metricsFile: flags.MetricsFile,
		filter:      &filter.ReportFilter{Sections: flags.Sections, Search: flags.Search},
	}
	if flags.MetricsFile != "" {
		r.recorder = metrics.New()
	}

	ctx := logging.WithLogger(cmd.Context(), app.Logger())

	if !flags.Watch {
		return r.run(ctx)
	}

	paths := existing(app.WatchPaths())
	if len(paths) == 0 {
		return errors.NewConfigError("watch", "none of the project paths exist", nil)
	}
	return watch.Run(ctx, watch.Config{Paths: paths}, r.run)
}

func checkerOptions(cmd *cobra.Command, flags *Flags) []flowcheck.Option {
	var opts []flowcheck.Option
	if cmd.Flags().Changed("parallel") {
		opts = append(opts, flowcheck.WithParallel(flags.Parallel))
	}
	if flags.LastContextOnly {
		opts = append(opts, flowcheck.WithContextMode(sources.ContextModeLast))
	}
	if len(flags.Languages) > 0 {
		opts = append(opts, flowcheck.WithLanguages(flags.Languages...))
	}
	return opts
}

// runner renders one run of the checker.
type runner struct {
	checker     *flowcheck.Checker
	out         io.Writer
	format      output.Format
	noColor     bool
	failOnIssue bool
	metricsFile string
	recorder    *metrics.Recorder
	filter      *filter.ReportFilter
}

func (r *runner) run(ctx context.Context) error {
	full, err := r.checker.Run(ctx)
	if err != nil {
		return err
	}

	if r.recorder != nil {
		r.recorder.ObserveReport(full)
		if err := r.recorder.WriteTextfile(r.metricsFile); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("path", r.metricsFile).Msg("Failed to write metrics")
		}
	}

	rep := r.filter.Apply(full)
	if err := output.FormatReport(r.out, rep, r.format, r.noColor); err != nil {
		return err
	}
	if r.format == output.FormatText {
		printSummary(r.out, rep.Summary())
	}

	if r.failOnIssue && rep.HasIssues() {
		sum := rep.Summary()
		return fmt.Errorf("%w: %d discrepancies, %d failed sections", ErrIssuesFound, sum.Issues, sum.Failed)
	}
	return nil
}

func printSummary(w io.Writer, sum report.Summary) {
	switch {
	case sum.Issues == 0 && sum.Failed == 0:
		fmt.Fprintf(w, "\n%s No discrepancies found in %d sections\n", emoji.Success, sum.Sections)
	case sum.Failed == 0:
		fmt.Fprintf(w, "\n%s %d discrepancies found in %d sections\n", emoji.Warning, sum.Issues, sum.Sections)
	default:
		fmt.Fprintf(w, "\n%s %d discrepancies found, %d of %d sections failed\n", emoji.Error, sum.Issues, sum.Failed, sum.Sections)
	}
}

// existing drops paths that do not exist yet.
func existing(paths []string) []string {
	var out []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}
