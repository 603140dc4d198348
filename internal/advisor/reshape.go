package advisor

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

func decodeOutput(op string, raw json.RawMessage, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidModelOutput, op, err)
	}
	return nil
}

func invalidOutput(op, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidModelOutput, op, reason)
}

// ClampScore rounds a score into 0..100.
func ClampScore(v float64) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(math.Round(v))
}

func roundDays(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return math.Round(v*10) / 10
}

func foldKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// RankRecommendations drops nameless or overlong entries, clamps scores, keeps the higher score
// of case-insensitive duplicates, sorts by score then name and truncates to limit.
func RankRecommendations(recs []Recommendation, limit int) []Recommendation {
	best := make(map[string]int, len(recs))
	out := make([]Recommendation, 0, len(recs))
	for _, r := range recs {
		r.ToolName = strings.Join(strings.Fields(r.ToolName), " ")
		r.Justification = strings.TrimSpace(r.Justification)
		if r.ToolName == "" || utf8.RuneCountInString(r.ToolName) > MaxToolNameLen {
			continue
		}
		r.Score = ClampScore(float64(r.Score))
		key := foldKey(r.ToolName)
		if i, ok := best[key]; ok {
			if r.Score > out[i].Score {
				out[i] = r
			}
			continue
		}
		best[key] = len(out)
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return foldKey(out[i].ToolName) < foldKey(out[j].ToolName)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func reshapeRecommendations(raw rawRecommendations, limit int) ([]Recommendation, error) {
	recs := make([]Recommendation, 0, len(raw.Recommendations))
	for _, r := range raw.Recommendations {
		recs = append(recs, Recommendation{
			ToolName:      r.ToolName,
			Score:         ClampScore(float64(r.Score)),
			Justification: r.Justification,
		})
	}
	ranked := RankRecommendations(recs, limit)
	if len(ranked) == 0 {
		return nil, invalidOutput(OpRecommendTools, "no recommendations")
	}
	return ranked, nil
}

// NewComparison returns a grid for tools x criteria with every cell set to NotAvailable.
func NewComparison(tools, criteria []string) Comparison {
	cmp := Comparison{
		Tools:    append([]string(nil), tools...),
		Criteria: make([]CriterionRow, 0, len(criteria)),
	}
	for _, criterion := range criteria {
		values := make(map[string]string, len(tools))
		for _, tool := range tools {
			values[tool] = NotAvailable
		}
		cmp.Criteria = append(cmp.Criteria, CriterionRow{Criterion: criterion, Values: values})
	}
	return cmp
}

func reshapeComparison(tools, criteria []string, raw rawComparison) (Comparison, error) {
	cmp := NewComparison(tools, criteria)

	toolByKey := make(map[string]string, len(tools))
	for _, tool := range tools {
		toolByKey[foldKey(tool)] = tool
	}
	rowByKey := make(map[string]int, len(criteria))
	for i, criterion := range criteria {
		rowByKey[foldKey(criterion)] = i
	}

	filled := 0
	for _, rc := range raw.Criteria {
		row, ok := rowByKey[foldKey(rc.Criterion)]
		if !ok {
			continue
		}
		values := cmp.Criteria[row].Values
		for _, v := range rc.Values {
			tool, ok := toolByKey[foldKey(v.ToolName)]
			if !ok {
				continue
			}
			text := strings.TrimSpace(string(v.Value))
			if text == "" || values[tool] != NotAvailable {
				continue
			}
			values[tool] = text
			filled++
		}
	}

	for _, o := range raw.Overviews {
		tool, ok := toolByKey[foldKey(o.ToolName)]
		text := strings.TrimSpace(o.Overview)
		if !ok || text == "" {
			continue
		}
		if cmp.Overviews == nil {
			cmp.Overviews = make(map[string]string, len(tools))
		}
		if _, exists := cmp.Overviews[tool]; !exists {
			cmp.Overviews[tool] = text
		}
	}

	if filled == 0 {
		return Comparison{}, invalidOutput(OpCompareTools, "no usable comparison cells")
	}
	return cmp, nil
}

func reshapeEstimate(tool string, raw rawEstimate) (EffortEstimate, error) {
	est := EffortEstimate{
		ToolName:    tool,
		MinDays:     roundDays(float64(raw.MinDays)),
		MaxDays:     roundDays(float64(raw.MaxDays)),
		Explanation: strings.TrimSpace(raw.Explanation),
		Confidence:  ClampScore(float64(raw.Confidence)),
	}
	if est.MinDays > est.MaxDays {
		est.MinDays, est.MaxDays = est.MaxDays, est.MinDays
	}
	if est.Explanation == "" {
		return EffortEstimate{}, invalidOutput(OpEstimateEffort, "empty explanation")
	}
	return est, nil
}

func reshapeDetails(tool string, raw rawDetails) (ToolDetails, error) {
	details := ToolDetails{
		Name:     strings.TrimSpace(raw.Name),
		Overview: strings.TrimSpace(raw.Overview),
		Details:  make([]DetailRow, 0, len(raw.Details)),
	}
	if details.Name == "" {
		details.Name = tool
	}
	for _, d := range raw.Details {
		criterion := strings.TrimSpace(d.Criterion)
		value := strings.TrimSpace(string(d.Value))
		if criterion == "" || value == "" {
			continue
		}
		details.Details = append(details.Details, DetailRow{Criterion: criterion, Value: value})
	}
	if details.Overview == "" && len(details.Details) == 0 {
		return ToolDetails{}, invalidOutput(OpGetToolDetails, "empty profile")
	}
	return details, nil
}

func reshapeAnalysis(tool string, raw rawAnalysis) (ToolAnalysis, error) {
	analysis := ToolAnalysis{
		ToolName:   strings.TrimSpace(raw.ToolName),
		FitScore:   ClampScore(float64(raw.FitScore)),
		Summary:    strings.TrimSpace(raw.Summary),
		Strengths:  trimList(raw.Strengths),
		Weaknesses: trimList(raw.Weaknesses),
	}
	if analysis.ToolName == "" {
		analysis.ToolName = tool
	}
	if analysis.Summary == "" && len(analysis.Strengths) == 0 && len(analysis.Weaknesses) == 0 {
		return ToolAnalysis{}, invalidOutput(OpAnalyzeTool, "empty analysis")
	}
	return analysis, nil
}

func trimList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
