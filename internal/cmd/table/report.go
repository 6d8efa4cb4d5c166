// Package table converts reports into rows for table output.
package table

import (
	"strconv"
	"strings"

	"github.com/agentstation/flowcheck/internal/cmd/emoji"
	"github.com/agentstation/flowcheck/pkg/identifier"
	"github.com/agentstation/flowcheck/pkg/report"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// ReportToTableData lists every entry of rep, one row per entry. Sections
// without entries get a single status row so every section is visible.
func ReportToTableData(rep *report.Report) Data {
	data := Data{
		Headers:         []string{"Section", "Level", "Message"},
		ColumnAlignment: []Align{AlignLeft, AlignCenter, AlignLeft},
	}

	for _, s := range rep.Sections {
		if s.Failed() {
			data.Rows = append(data.Rows, []string{s.Title, levelSymbol(report.LevelError), s.Error})
		}
		for _, e := range s.Entries {
			data.Rows = append(data.Rows, []string{s.Title, levelSymbol(e.Level), e.Message})
		}
		if !s.Failed() && len(s.Entries) == 0 {
			data.Rows = append(data.Rows, []string{s.Title, emoji.Success, "no discrepancies"})
		}
	}
	return data
}

// SummaryToTableData lists one row per section with its status and issue count.
func SummaryToTableData(rep *report.Report) Data {
	data := Data{
		Headers:         []string{"Section", "Status", "Issues"},
		ColumnAlignment: []Align{AlignLeft, AlignCenter, AlignRight},
	}

	for _, s := range rep.Sections {
		status := emoji.Success
		switch {
		case s.Failed():
			status = emoji.Error
		case s.Issues() > 0:
			status = emoji.Warning
		}
		data.Rows = append(data.Rows, []string{s.Title, status, strconv.Itoa(s.Issues())})
	}
	return data
}

// HandlersToTableData splits handler identifiers into flow, context and
// method columns. Context-less identifiers leave the context column empty.
func HandlersToTableData(ids []string) Data {
	data := Data{Headers: []string{"Flow", "Context", "Method"}}
	for _, id := range ids {
		parts := identifier.Split(id)
		var row []string
		switch len(parts) {
		case 0:
			continue
		case 1:
			row = []string{"", "", parts[0]}
		case 2:
			row = []string{parts[0], "", parts[1]}
		default:
			row = []string{parts[0], strings.Join(parts[1:len(parts)-1], identifier.Delimiter), parts[len(parts)-1]}
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// ListToTableData lists values under a single header.
func ListToTableData(header string, values []string) Data {
	data := Data{Headers: []string{header}}
	for _, v := range values {
		data.Rows = append(data.Rows, []string{v})
	}
	return data
}

func levelSymbol(level report.Level) string {
	switch level {
	case report.LevelError:
		return emoji.Error
	case report.LevelWarn:
		return emoji.Warning
	case report.LevelDebug:
		return emoji.Spinner
	default:
		return emoji.Info
	}
}
