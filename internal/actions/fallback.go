package actions

import (
	"fmt"
	"math"
	"strings"

	"tool-advisor/internal/advisor"
	"tool-advisor/internal/catalog"
)

const (
	simpleCaseDays  = 0.25
	mediumCaseDays  = 0.5
	complexCaseDays = 1.0

	noFrameworkFactor = 1.2
	withCIFactor      = 0.9

	fallbackConfidence = 30

	smallTeamMax = 5
	largeTeamMin = 20
)

// fitScore rates a catalog tool against the criteria on a 0..100 scale.
func fitScore(tool catalog.Tool, c advisor.Criteria) int {
	f := tool.Fit
	total := c.TotalTestCases()
	complexity := float64(f.Simple+f.Medium+f.Complex) / 3
	if total > 0 {
		complexity = float64(c.SimpleTestCases*f.Simple+c.MediumTestCases*f.Medium+c.ComplexTestCases*f.Complex) / float64(total)
	}

	ci := 5.0
	if c.UsesCICD {
		ci = float64(f.CI)
	}
	framework := float64(10 - f.Framework)
	if c.UsesFramework {
		framework = float64(f.Framework)
	}
	var team float64
	switch {
	case c.TeamSize <= smallTeamMax:
		team = float64(f.SmallTeam)
	case c.TeamSize >= largeTeamMin:
		team = float64(f.LargeTeam)
	default:
		team = float64(f.SmallTeam+f.LargeTeam) / 2
	}

	return advisor.ClampScore((complexity*0.4 + ci*0.2 + framework*0.2 + team*0.2) * 10)
}

func fallbackRecommendations(cat *catalog.Catalog, c advisor.Criteria) []advisor.Recommendation {
	tools := cat.List()
	recs := make([]advisor.Recommendation, 0, len(tools))
	for _, tool := range tools {
		recs = append(recs, advisor.Recommendation{
			ToolName:      tool.Name,
			Score:         fitScore(tool, c),
			Justification: referenceJustification(tool),
		})
	}
	limit := c.Limit
	if limit <= 0 {
		limit = advisor.DefaultLimit
	}
	return advisor.RankRecommendations(recs, limit)
}

func referenceJustification(tool catalog.Tool) string {
	if len(tool.Strengths) == 0 {
		return tool.Category
	}
	return fmt.Sprintf("%s. %s.", tool.Category, strings.TrimSuffix(tool.Strengths[0], "."))
}

func fallbackComparison(cat *catalog.Catalog, tools, criteria []string) advisor.Comparison {
	rows := append([]string(nil), criteria...)
	hasRow := func(name string) bool {
		for _, r := range rows {
			if strings.EqualFold(r, name) {
				return true
			}
		}
		return false
	}
	for _, extra := range []string{"Strengths", "Weaknesses"} {
		if !hasRow(extra) {
			rows = append(rows, extra)
		}
	}

	cmp := advisor.NewComparison(tools, rows)
	for i := range cmp.Criteria {
		row := &cmp.Criteria[i]
		for _, name := range tools {
			tool, ok := cat.Lookup(name)
			if !ok {
				continue
			}
			switch strings.ToLower(row.Criterion) {
			case "strengths":
				row.Values[name] = joinOrNA(tool.Strengths)
			case "weaknesses":
				row.Values[name] = joinOrNA(tool.Weaknesses)
			}
		}
	}
	for _, name := range tools {
		if tool, ok := cat.Lookup(name); ok {
			if cmp.Overviews == nil {
				cmp.Overviews = make(map[string]string, len(tools))
			}
			cmp.Overviews[name] = fmt.Sprintf("%s (%s). Documentation: %s", tool.Category, tool.License, tool.DocumentationURL)
		}
	}
	return cmp
}

func joinOrNA(items []string) string {
	if len(items) == 0 {
		return advisor.NotAvailable
	}
	return strings.Join(items, "; ")
}

// EstimateDays is the reference person-day heuristic used when the model is unavailable.
func EstimateDays(c advisor.Criteria) float64 {
	days := float64(c.SimpleTestCases)*simpleCaseDays +
		float64(c.MediumTestCases)*mediumCaseDays +
		float64(c.ComplexTestCases)*complexCaseDays
	if !c.UsesFramework {
		days *= noFrameworkFactor
	}
	if c.UsesCICD {
		days *= withCIFactor
	}
	team := c.TeamSize
	if team < 1 {
		team = 1
	}
	return days / math.Sqrt(float64(team))
}

func fallbackEstimate(c advisor.Criteria, tool string) advisor.EffortEstimate {
	days := EstimateDays(c)
	minDays := math.Round(days*0.8*10) / 10
	maxDays := math.Round(days*1.25*10) / 10
	if maxDays < 1 {
		minDays, maxDays = 0.5, 1
	}
	return advisor.EffortEstimate{
		ToolName: tool,
		MinDays:  minDays,
		MaxDays:  maxDays,
		Explanation: fmt.Sprintf(
			"Rough estimate from test case counts (simple %.2g, medium %.2g, complex %.2g days each), adjusted for framework and CI/CD usage and a team of %d.",
			simpleCaseDays, mediumCaseDays, complexCaseDays, c.TeamSize),
		Confidence: fallbackConfidence,
	}
}

func fallbackDetails(cat *catalog.Catalog, name string) advisor.ToolDetails {
	tool, ok := cat.Lookup(name)
	if !ok {
		return advisor.ToolDetails{
			Name:     name,
			Overview: fmt.Sprintf("No reference data is available for %s.", name),
			Details:  []advisor.DetailRow{},
		}
	}
	return advisor.ToolDetails{
		Name:     tool.Name,
		Overview: fmt.Sprintf("%s is a %s tool licensed under %s.", tool.Name, strings.ToLower(tool.Category), tool.License),
		Details: []advisor.DetailRow{
			{Criterion: "Category", Value: tool.Category},
			{Criterion: "Licensing", Value: tool.License},
			{Criterion: "Strengths", Value: joinOrNA(tool.Strengths)},
			{Criterion: "Weaknesses", Value: joinOrNA(tool.Weaknesses)},
			{Criterion: "Tags", Value: joinOrNA(tool.Tags)},
		},
		DocumentationURL: tool.DocumentationURL,
	}
}

func fallbackAnalysis(cat *catalog.Catalog, name string, c advisor.Criteria) advisor.ToolAnalysis {
	tool, ok := cat.Lookup(name)
	if !ok {
		return advisor.ToolAnalysis{
			ToolName:   name,
			Summary:    fmt.Sprintf("No reference data is available for %s.", name),
			Strengths:  []string{},
			Weaknesses: []string{},
		}
	}
	return advisor.ToolAnalysis{
		ToolName:   tool.Name,
		FitScore:   fitScore(tool, c),
		Summary:    referenceJustification(tool),
		Strengths:  append([]string(nil), tool.Strengths...),
		Weaknesses: append([]string(nil), tool.Weaknesses...),
	}
}

func fallbackChat(cat *catalog.Catalog, message string) advisor.ChatReply {
	lower := strings.ToLower(message)
	for _, tool := range cat.List() {
		if strings.Contains(lower, strings.ToLower(tool.Name)) {
			return advisor.ChatReply{Reply: fmt.Sprintf(
				"I can't reach the assistant right now. The %s documentation is a good place to start: %s",
				tool.Name, tool.DocumentationURL)}
		}
	}
	return advisor.ChatReply{Reply: "I can't reach the assistant right now. Please try again in a moment, " +
		"or browse the tool catalog for documentation links and release notes."}
}
