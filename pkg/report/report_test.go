package report_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/flowcheck/pkg/report"
)

func TestSection(t *testing.T) {
	s := report.NewSection("brands")
	assert.Empty(t, s.Entries)
	assert.False(t, s.Failed())

	s.AddWarnings("brand 'volvo' is missing from local json (present in database)")
	s.Add(report.Info("checked 12 brands"), report.Warnf("%d duplicates", 2))
	assert.Equal(t, 2, s.Issues())

	s.Fail(nil)
	assert.False(t, s.Failed())

	s.Fail(errors.New("store offline"))
	assert.True(t, s.Failed())
	assert.Equal(t, "store offline", s.Error)
}

func TestReportSummary(t *testing.T) {
	ok := report.NewSection("contexts")
	warn := report.NewSection("flows")
	warn.Add(report.FromError(errors.New("Cannot find flow 'x'")))
	failed := report.NewSection("brands")
	failed.Fail(errors.New("offline"))

	r := &report.Report{Sections: []*report.Section{ok, warn, failed}}
	assert.Equal(t, report.Summary{Sections: 3, Issues: 1, Failed: 1}, r.Summary())
	assert.True(t, r.HasIssues())

	got, found := r.Section("flows")
	require.True(t, found)
	assert.Equal(t, report.LevelWarn, got.Entries[0].Level)

	_, found = r.Section("nope")
	assert.False(t, found)

	clean := &report.Report{Sections: []*report.Section{ok}}
	assert.False(t, clean.HasIssues())
}

func TestSectionJSON(t *testing.T) {
	s := report.NewSection("brands")
	s.Fail(errors.New("offline"))

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"brands","entries":[],"error":"offline"}`, string(data))
}
