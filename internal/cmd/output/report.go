package output

import (
	"fmt"
	"io"

	"github.com/agentstation/flowcheck/internal/cmd/table"
	"github.com/agentstation/flowcheck/pkg/report"
)

// FormatReport writes rep in the given format. Text output is colored by
// level unless noColor is set; the wide table adds a per-section summary.
func FormatReport(w io.Writer, rep *report.Report, format Format, noColor bool) error {
	switch format {
	case FormatText, "":
		return report.WriteText(w, rep, noColor)
	case FormatTable, FormatWide:
		formatter := NewFormatter(format)
		if err := formatter.Format(w, table.ReportToTableData(rep)); err != nil {
			return err
		}
		if format == FormatWide {
			return formatter.Format(w, table.SummaryToTableData(rep))
		}
		return nil
	default:
		return NewFormatter(format).Format(w, rep)
	}
}

// FormatList writes values under header. Text output prints one value per line.
func FormatList(w io.Writer, header string, values []string, format Format) error {
	switch format {
	case FormatText, "":
		for _, v := range values {
			if _, err := fmt.Fprintln(w, v); err != nil {
				return err
			}
		}
		return nil
	case FormatTable, FormatWide:
		return NewFormatter(format).Format(w, table.ListToTableData(header, values))
	default:
		if values == nil {
			values = []string{}
		}
		return NewFormatter(format).Format(w, values)
	}
}

// FormatHandlers writes handler identifiers. The wide table splits each
// identifier into its flow, context and method.
func FormatHandlers(w io.Writer, ids []string, format Format) error {
	if format == FormatWide {
		return NewFormatter(format).Format(w, table.HandlersToTableData(ids))
	}
	return FormatList(w, "Handler", ids, format)
}

// FormatEntries writes report entries, typically problems found while
// extracting identifiers.
func FormatEntries(w io.Writer, entries []report.Entry, format Format, noColor bool) error {
	if len(entries) == 0 {
		return nil
	}
	s := report.NewSection("issues")
	s.Add(entries...)
	switch format {
	case FormatText, "":
		return report.NewTextWriter(w, noColor).WriteSection(s)
	default:
		return NewFormatter(format).Format(w, entries)
	}
}
