package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/flowcheck/pkg/report"
)

func testReport() *report.Report {
	brands := report.NewSection("brands")
	brands.AddWarnings("brand 'audi' is missing from local json (present in database)")
	return &report.Report{RunID: "run-1", Sections: []*report.Section{report.NewSection("contexts"), brands}}
}

func TestFormatReport(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, FormatReport(&buf, testReport(), FormatText, true))
		assert.Equal(t, "Processing contexts\nProcessing brands\n"+
			"brand 'audi' is missing from local json (present in database)\n", buf.String())
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, FormatReport(&buf, testReport(), FormatTable, true))
		out := buf.String()
		assert.Contains(t, out, "brand 'audi' is missing from local json")
		assert.Contains(t, out, "no discrepancies")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, FormatReport(&buf, testReport(), FormatJSON, true))

		var got report.Report
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "run-1", got.RunID)
		require.Len(t, got.Sections, 2)
		assert.Equal(t, "brands", got.Sections[1].Title)
		assert.Equal(t, report.LevelWarn, got.Sections[1].Entries[0].Level)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, FormatReport(&buf, testReport(), FormatYAML, true))
		assert.Contains(t, buf.String(), "run_id: run-1")
		assert.Contains(t, buf.String(), "title: brands")
	})
}

func TestFormatList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatList(&buf, "Handler", []string{"booking:confirmed:cancel", "login"}, FormatText))
	assert.Equal(t, "booking:confirmed:cancel\nlogin\n", buf.String())

	buf.Reset()
	require.NoError(t, FormatList(&buf, "Handler", nil, FormatJSON))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFormatHandlers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatHandlers(&buf, []string{"booking:confirmed:cancel"}, FormatText))
	assert.Equal(t, "booking:confirmed:cancel\n", buf.String())

	buf.Reset()
	require.NoError(t, FormatHandlers(&buf, []string{"booking:confirmed:cancel"}, FormatWide))
	out := strings.ToUpper(buf.String())
	assert.Contains(t, out, "FLOW")
	assert.Contains(t, out, "CONFIRMED")
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "TABLE", "json", "yaml", "wide", ""} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, map[string]int{"issues": 2}))
	assert.JSONEq(t, `{"issues": 2}`, buf.String())
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}
