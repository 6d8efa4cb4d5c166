package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/flowcheck/internal/cmd/emoji"
	"github.com/agentstation/flowcheck/pkg/report"
)

func testReport() *report.Report {
	contexts := report.NewSection("contexts")

	brands := report.NewSection("brands")
	brands.AddWarnings("brand 'audi' is missing from local json (present in database)")

	categories := report.NewSection("categories")
	categories.Fail(errors.New("store offline"))

	return &report.Report{Sections: []*report.Section{contexts, brands, categories}}
}

func TestReportToTableData(t *testing.T) {
	data := ReportToTableData(testReport())

	assert.Equal(t, []string{"Section", "Level", "Message"}, data.Headers)
	assert.Equal(t, [][]string{
		{"contexts", emoji.Success, "no discrepancies"},
		{"brands", emoji.Warning, "brand 'audi' is missing from local json (present in database)"},
		{"categories", emoji.Error, "store offline"},
	}, data.Rows)
}

func TestSummaryToTableData(t *testing.T) {
	data := SummaryToTableData(testReport())

	assert.Equal(t, [][]string{
		{"contexts", emoji.Success, "0"},
		{"brands", emoji.Warning, "1"},
		{"categories", emoji.Error, "0"},
	}, data.Rows)
}

func TestListToTableData(t *testing.T) {
	data := ListToTableData("Handler", []string{"booking:confirmed:cancel", "login"})
	assert.Equal(t, []string{"Handler"}, data.Headers)
	assert.Len(t, data.Rows, 2)
	assert.Empty(t, ListToTableData("Key", nil).Rows)
}

func TestHandlersToTableData(t *testing.T) {
	data := HandlersToTableData([]string{"booking:confirmed:cancel", "booking:cancel", "login", ""})
	assert.Equal(t, []string{"Flow", "Context", "Method"}, data.Headers)
	assert.Equal(t, [][]string{
		{"booking", "confirmed", "cancel"},
		{"booking", "", "cancel"},
		{"", "", "login"},
	}, data.Rows)
}
