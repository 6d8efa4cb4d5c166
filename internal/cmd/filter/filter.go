// Package filter narrows a report down to the sections and lines a user
// asked for on the command line.
package filter

import (
	"slices"
	"strings"

	"github.com/agentstation/flowcheck/pkg/report"
)

// ReportFilter applies filters to a report
type ReportFilter struct {
	Sections []string // Section titles to keep, case-insensitive
	Search   string   // Substring an entry must contain, case-insensitive
}

// Apply returns a filtered copy of rep. Sections keep their order and rep
// is not modified.
func (f *ReportFilter) Apply(rep *report.Report) *report.Report {
	if f == nil || f.isEmpty() || rep == nil {
		return rep
	}

	filtered := &report.Report{
		RunID:     rep.RunID,
		StartedAt: rep.StartedAt,
		Duration:  rep.Duration,
	}

	for _, s := range rep.Sections {
		if !f.matchesSection(s) {
			continue
		}
		filtered.Sections = append(filtered.Sections, f.filterEntries(s))
	}

	return filtered
}

func (f *ReportFilter) isEmpty() bool {
	return len(f.Sections) == 0 && f.Search == ""
}

func (f *ReportFilter) matchesSection(s *report.Section) bool {
	if len(f.Sections) == 0 {
		return true
	}
	return slices.ContainsFunc(f.Sections, func(title string) bool {
		return strings.EqualFold(strings.TrimSpace(title), s.Title)
	})
}

func (f *ReportFilter) filterEntries(s *report.Section) *report.Section {
	if f.Search == "" {
		return s
	}

	search := strings.ToLower(f.Search)
	out := report.NewSection(s.Title)
	out.Error = s.Error
	out.Err = s.Err
	for _, e := range s.Entries {
		if strings.Contains(strings.ToLower(e.Message), search) {
			out.Add(e)
		}
	}
	return out
}
