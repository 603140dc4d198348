package advisor

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRaw[T any](t *testing.T, payload string) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal([]byte(payload), &out))
	return out
}

func TestReshapeComparisonFillsMissingCells(t *testing.T) {
	tools := []string{"Playwright", "Cypress", "Selenium"}
	criteria := []string{"Ease of use", "Reporting", "Licensing cost"}
	raw := decodeRaw[rawComparison](t, `{
		"criteria": [
			{"criterion": "reporting", "values": [
				{"toolName": "PLAYWRIGHT", "value": "HTML reporter and traces"},
				{"toolName": "Cypress", "value": "  "},
				{"toolName": "Puppeteer", "value": "none"}
			]},
			{"criterion": "Ease of use", "values": [
				{"toolName": "cypress", "value": "Very easy"},
				{"toolName": "Selenium", "value": 3}
			]},
			{"criterion": "Performance", "values": [
				{"toolName": "Playwright", "value": "Fast"}
			]}
		],
		"overviews": [
			{"toolName": "selenium", "overview": "The WebDriver standard."},
			{"toolName": "Cypress", "overview": ""}
		]
	}`)

	got, err := reshapeComparison(tools, criteria, raw)
	require.NoError(t, err)

	want := Comparison{
		Tools: tools,
		Criteria: []CriterionRow{
			{Criterion: "Ease of use", Values: map[string]string{"Playwright": "N/A", "Cypress": "Very easy", "Selenium": "3"}},
			{Criterion: "Reporting", Values: map[string]string{"Playwright": "HTML reporter and traces", "Cypress": "N/A", "Selenium": "N/A"}},
			{Criterion: "Licensing cost", Values: map[string]string{"Playwright": "N/A", "Cypress": "N/A", "Selenium": "N/A"}},
		},
		Overviews: map[string]string{"Selenium": "The WebDriver standard."},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("comparison mismatch (-want +got):\n%s", diff)
	}
}

func TestReshapeComparisonEveryKeyPresent(t *testing.T) {
	tools := []string{"A", "B"}
	criteria := DefaultComparisonCriteria
	raw := decodeRaw[rawComparison](t, `{"criteria":[{"criterion":"Reporting","values":[{"toolName":"A","value":"good"}]}]}`)

	got, err := reshapeComparison(tools, criteria, raw)
	require.NoError(t, err)
	require.Len(t, got.Criteria, len(criteria))
	for i, row := range got.Criteria {
		assert.Equal(t, criteria[i], row.Criterion)
		for _, tool := range tools {
			assert.Contains(t, row.Values, tool)
			assert.NotEmpty(t, row.Values[tool])
		}
	}
	assert.Equal(t, "good", got.Cell("Reporting", "A"))
	assert.Equal(t, NotAvailable, got.Cell("Reporting", "B"))
	assert.Nil(t, got.Overviews)
}

func TestReshapeComparisonRejectsEmptyGrid(t *testing.T) {
	_, err := reshapeComparison([]string{"A", "B"}, []string{"X"}, rawComparison{})
	assert.ErrorIs(t, err, ErrInvalidModelOutput)
}

func TestRankRecommendations(t *testing.T) {
	got := RankRecommendations([]Recommendation{
		{ToolName: "Cypress", Score: 80, Justification: "js"},
		{ToolName: "playwright", Score: 70},
		{ToolName: "Playwright", Score: 150, Justification: "best"},
		{ToolName: "  ", Score: 99},
		{ToolName: "Selenium", Score: 80},
		{ToolName: "Appium", Score: -5},
	}, 3)

	want := []Recommendation{
		{ToolName: "Playwright", Score: 100, Justification: "best"},
		{ToolName: "Cypress", Score: 80, Justification: "js"},
		{ToolName: "Selenium", Score: 80},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ranking mismatch (-want +got):\n%s", diff)
	}
}

func TestRankRecommendationsDropsOverlongNames(t *testing.T) {
	got := RankRecommendations([]Recommendation{
		{ToolName: strings.Repeat("X", MaxToolNameLen+1), Score: 95},
		{ToolName: strings.Repeat("Z", MaxToolNameLen), Score: 60},
		{ToolName: "Cypress", Score: 80},
	}, 5)
	if len(got) != 2 {
		t.Fatalf("got %d recommendations, want 2: %+v", len(got), got)
	}
	if got[0].ToolName != "Cypress" || got[1].ToolName != strings.Repeat("Z", MaxToolNameLen) {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestReshapeRecommendationsAcceptsStringScores(t *testing.T) {
	raw := decodeRaw[rawRecommendations](t, `{"recommendations":[{"toolName":"Cypress","score":"85%","justification":"fits"}]}`)
	got, err := reshapeRecommendations(raw, 3)
	require.NoError(t, err)
	assert.Equal(t, 85, got[0].Score)

	_, err = reshapeRecommendations(rawRecommendations{}, 3)
	assert.ErrorIs(t, err, ErrInvalidModelOutput)
}

func TestReshapeEstimate(t *testing.T) {
	got, err := reshapeEstimate("Playwright", rawEstimate{MinDays: 30, MaxDays: -2, Explanation: " drivers ", Confidence: 140})
	require.NoError(t, err)
	assert.Equal(t, EffortEstimate{ToolName: "Playwright", MinDays: 0, MaxDays: 30, Explanation: "drivers", Confidence: 100}, got)

	_, err = reshapeEstimate("Playwright", rawEstimate{MinDays: 1, MaxDays: 2})
	assert.ErrorIs(t, err, ErrInvalidModelOutput)
}

func TestReshapeDetailsAndAnalysis(t *testing.T) {
	details, err := reshapeDetails("cypress", decodeRaw[rawDetails](t, `{"overview":"JS runner","details":[{"criterion":"Languages","value":"JavaScript"},{"criterion":"","value":"x"},{"criterion":"Browsers","value":""}]}`))
	require.NoError(t, err)
	assert.Equal(t, "cypress", details.Name)
	assert.Equal(t, []DetailRow{{Criterion: "Languages", Value: "JavaScript"}}, details.Details)

	_, err = reshapeDetails("x", rawDetails{})
	assert.ErrorIs(t, err, ErrInvalidModelOutput)

	analysis, err := reshapeAnalysis("Selenium", rawAnalysis{FitScore: 72.6, Summary: "ok", Strengths: []string{" grid ", ""}})
	require.NoError(t, err)
	assert.Equal(t, "Selenium", analysis.ToolName)
	assert.Equal(t, 73, analysis.FitScore)
	assert.Equal(t, []string{"grid"}, analysis.Strengths)
	assert.Empty(t, analysis.Weaknesses)
}
