package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/flowcheck/pkg/errors"
	"github.com/agentstation/flowcheck/pkg/report"
)

func testReport() *report.Report {
	brands := report.NewSection("brands")
	brands.AddWarnings("brand 'audi' is missing from local json (present in database)")
	brands.Add(report.Info("noted"))

	categories := report.NewSection("categories")
	categories.Fail(errors.New("connection refused"))

	return &report.Report{
		RunID:     "run-1",
		StartedAt: time.Unix(1700000000, 0),
		Duration:  1500 * time.Millisecond,
		Sections:  []*report.Section{brands, categories, report.NewSection("flows")},
	}
}

func TestObserveReport(t *testing.T) {
	r := New()
	r.ObserveReport(testReport())

	assert.Equal(t, 1.0, testutil.ToFloat64(r.issues.WithLabelValues("brands")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.issues.WithLabelValues("flows")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failed.WithLabelValues("categories")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.failed.WithLabelValues("brands")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs))
	assert.Equal(t, 1.5, testutil.ToFloat64(r.duration))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(r.lastRun))

	r.ObserveReport(&report.Report{StartedAt: time.Unix(1700000100, 0)})
	assert.Equal(t, 2.0, testutil.ToFloat64(r.runs))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.issues.WithLabelValues("brands")), "sections keep their last value")
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.ObserveReport(testReport())

	path := filepath.Join(t.TempDir(), "flowcheck.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `flowcheck_section_issues{section="brands"} 1`)
	assert.Contains(t, out, `flowcheck_section_failed{section="categories"} 1`)
	assert.Contains(t, out, "flowcheck_runs_total 1")

	err = r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "flowcheck.prom"))
	require.Error(t, err)
	assert.True(t, errors.As(err, new(*errors.IOError)))
}
