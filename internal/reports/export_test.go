package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tool-advisor/internal/advisor"
)

func TestExportCSVComparisonThenRecommendations(t *testing.T) {
	report := Report{
		Comparison: &advisor.Comparison{
			Tools: []string{"Playwright", "Cypress"},
			Criteria: []advisor.CriterionRow{
				{Criterion: "Ease of use", Values: map[string]string{"Playwright": "Good", "Cypress": "Very good"}},
				{Criterion: "Licensing cost", Values: map[string]string{"Playwright": "Free, Apache-2.0"}},
			},
		},
		Recommendations: []advisor.Recommendation{
			{ToolName: "Playwright", Score: 92, Justification: `Fast, reliable "auto-wait"`},
			{ToolName: "Cypress", Score: 80, Justification: "Great DX"},
		},
	}

	data, err := ExportCSV(report)
	require.NoError(t, err)

	want := "Criterion,Playwright,Cypress\n" +
		"Ease of use,Good,Very good\n" +
		"Licensing cost,\"Free, Apache-2.0\",N/A\n" +
		"\n" +
		"Tool,Score,Justification\n" +
		"Playwright,92,\"Fast, reliable \"\"auto-wait\"\"\"\n" +
		"Cypress,80,Great DX\n"
	assert.Equal(t, want, string(data))
}

func TestExportCSVWithoutComparison(t *testing.T) {
	data, err := ExportCSV(Report{
		Recommendations: []advisor.Recommendation{{ToolName: "Selenium", Score: 70, Justification: "Mature"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Tool,Score,Justification\nSelenium,70,Mature\n", string(data))
}

func TestExportCSVNeutralizesFormulaCells(t *testing.T) {
	data, err := ExportCSV(Report{
		Comparison: &advisor.Comparison{
			Tools: []string{"=Tool", "Cypress"},
			Criteria: []advisor.CriterionRow{
				{Criterion: "@SUM(A1)", Values: map[string]string{"=Tool": "+1", "Cypress": "-2"}},
			},
		},
		Recommendations: []advisor.Recommendation{
			{ToolName: "=HYPERLINK(\"http://x\")", Score: 50, Justification: "@cmd"},
		},
	})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	want := "Criterion,'=Tool,Cypress\n" +
		"'@SUM(A1),'+1,'-2\n" +
		"\n" +
		"Tool,Score,Justification\n" +
		"\"'=HYPERLINK(\"\"http://x\"\")\",50,'@cmd\n"
	if got := string(data); got != want {
		t.Fatalf("csv mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}
}
