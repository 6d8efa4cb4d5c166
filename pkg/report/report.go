// Package report holds the structured result of a consistency run.
//
// Checks append Entry values to a Section instead of printing, so callers
// decide how to render them. A Section whose source could not be read
// carries the error in Err and is still part of the report.
package report

import (
	"fmt"
	"time"
)

// Level is the severity of a report entry.
type Level string

// Levels, from least to most severe.
const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// String returns the string representation of a level.
func (l Level) String() string {
	return string(l)
}

// Entry is one line of a report.
type Entry struct {
	Level   Level  `json:"level" yaml:"level"`
	Message string `json:"message" yaml:"message"`
}

// Warn creates a warning entry.
func Warn(msg string) Entry {
	return Entry{Level: LevelWarn, Message: msg}
}

// Warnf creates a formatted warning entry.
func Warnf(format string, args ...any) Entry {
	return Warn(fmt.Sprintf(format, args...))
}

// Info creates an informational entry.
func Info(msg string) Entry {
	return Entry{Level: LevelInfo, Message: msg}
}

// FromError creates a warning entry from a per-item error.
func FromError(err error) Entry {
	return Warn(err.Error())
}

// Section is the outcome of one check.
type Section struct {
	Title   string  `json:"title" yaml:"title"`
	Entries []Entry `json:"entries" yaml:"entries"`
	Error   string  `json:"error,omitempty" yaml:"error,omitempty"`
	Err     error   `json:"-" yaml:"-"`
}

// NewSection creates an empty section.
func NewSection(title string) *Section {
	return &Section{Title: title, Entries: []Entry{}}
}

// Add appends entries to the section.
func (s *Section) Add(entries ...Entry) {
	s.Entries = append(s.Entries, entries...)
}

// AddWarnings appends one warning per line.
func (s *Section) AddWarnings(lines ...string) {
	for _, line := range lines {
		s.Add(Warn(line))
	}
}

// Fail records a section-level failure.
func (s *Section) Fail(err error) {
	if err == nil {
		return
	}
	s.Err = err
	s.Error = err.Error()
}

// Failed reports whether the section could not complete.
func (s *Section) Failed() bool {
	return s.Error != ""
}

// Issues counts the entries at warn level or above.
func (s *Section) Issues() int {
	n := 0
	for _, e := range s.Entries {
		if e.Level == LevelWarn || e.Level == LevelError {
			n++
		}
	}
	return n
}

// Report is the complete result of one run.
type Report struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Sections  []*Section    `json:"sections" yaml:"sections"`
}

// Section returns the section with the given title.
func (r *Report) Section(title string) (*Section, bool) {
	for _, s := range r.Sections {
		if s.Title == title {
			return s, true
		}
	}
	return nil, false
}

// Summary aggregates counts across sections.
type Summary struct {
	Sections int `json:"sections" yaml:"sections"`
	Issues   int `json:"issues" yaml:"issues"`
	Failed   int `json:"failed" yaml:"failed"`
}

// Summary returns the counts for the report.
func (r *Report) Summary() Summary {
	sum := Summary{Sections: len(r.Sections)}
	for _, s := range r.Sections {
		sum.Issues += s.Issues()
		if s.Failed() {
			sum.Failed++
		}
	}
	return sum
}

// HasIssues reports whether any section has issues or failed.
func (r *Report) HasIssues() bool {
	sum := r.Summary()
	return sum.Issues > 0 || sum.Failed > 0
}
