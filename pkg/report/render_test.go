package report_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/flowcheck/pkg/report"
)

func TestWriteText(t *testing.T) {
	contexts := report.NewSection("contexts")

	brands := report.NewSection("brands")
	brands.AddWarnings(
		"brand 'audi' is missing from local json (present in database)",
		"brand 'volvo' is missing from database (present in local json)",
	)

	categories := report.NewSection("categories")
	categories.Fail(errors.New("source database unavailable: connection refused"))

	rep := &report.Report{Sections: []*report.Section{contexts, brands, categories}}

	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf, rep, true))
	assert.Equal(t, "Processing contexts\n"+
		"Processing brands\n"+
		"brand 'audi' is missing from local json (present in database)\n"+
		"brand 'volvo' is missing from database (present in local json)\n"+
		"Processing categories\n"+
		"Error: source database unavailable: connection refused\n", buf.String())

	assert.Error(t, report.WriteText(&buf, nil, true))
}

func TestWriteTextColor(t *testing.T) {
	s := report.NewSection("flows")
	s.AddWarnings("flowName 'booking' is missing from code (present in intents)")

	var buf bytes.Buffer
	require.NoError(t, report.NewTextWriter(&buf, false).WriteSection(s))
	assert.Contains(t, buf.String(), "\x1b[33m")
	assert.Contains(t, buf.String(), "flowName 'booking' is missing from code (present in intents)")
}
