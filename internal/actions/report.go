package actions

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"tool-advisor/internal/advisor"
	"tool-advisor/internal/llm"
	"tool-advisor/internal/shared/telemetry"
)

// Bundle is the combined result of the recommend-then-compare flow.
type Bundle struct {
	Criteria        advisor.Criteria
	Recommendations Result[[]advisor.Recommendation]
	Comparison      *Result[advisor.Comparison]
	Estimate        *Result[advisor.EffortEstimate]
	PromptHash      string
}

// Fallback reports whether any section was filled from reference data.
func (b Bundle) Fallback() bool {
	if b.Recommendations.Fallback {
		return true
	}
	if b.Comparison != nil && b.Comparison.Fallback {
		return true
	}
	return b.Estimate != nil && b.Estimate.Fallback
}

// BuildReport recommends tools, then compares the recommended tools and estimates
// effort for the top one concurrently. A failing section degrades on its own.
func (s *Service) BuildReport(ctx context.Context, c advisor.Criteria) (Bundle, error) {
	normalized, err := advisor.NormalizeCriteria(c)
	if err != nil {
		return Bundle{}, err
	}
	bundle := Bundle{Criteria: normalized}
	if req, err := advisor.RecommendRequest(normalized, toolNames(s)); err == nil {
		bundle.PromptHash = llm.PromptHash(req)
	}

	recs, err := s.Recommend(ctx, normalized)
	if err != nil {
		return Bundle{}, err
	}
	bundle.Recommendations = recs

	tools := reportTools(recs.Data)

	g, gctx := errgroup.WithContext(ctx)
	if len(tools) >= advisor.MinCompareTools {
		g.Go(func() error {
			cmp, err := s.Compare(gctx, tools, nil, &normalized)
			if err != nil {
				logSkippedSection(ctx, advisor.OpCompareTools, err)
				return nil
			}
			bundle.Comparison = &cmp
			return nil
		})
	}
	if len(tools) > 0 {
		g.Go(func() error {
			est, err := s.Estimate(gctx, normalized, tools[0])
			if err != nil {
				logSkippedSection(ctx, advisor.OpEstimateEffort, err)
				return nil
			}
			bundle.Estimate = &est
			return nil
		})
	}
	_ = g.Wait()
	return bundle, nil
}

// reportTools picks up to MaxCompareTools distinct, valid names from the ranked
// recommendations. Names come from the model, so invalid ones are skipped rather than
// reported as a user input error.
func reportTools(recs []advisor.Recommendation) []string {
	tools := make([]string, 0, advisor.MaxCompareTools)
	seen := make(map[string]bool, len(recs))
	for _, r := range recs {
		if len(tools) == advisor.MaxCompareTools {
			break
		}
		name, err := advisor.NormalizeToolName(r.ToolName)
		if err != nil {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		tools = append(tools, name)
	}
	return tools
}

func logSkippedSection(ctx context.Context, op string, err error) {
	telemetry.Warn("report.section_skipped", telemetry.ContextFields(ctx, map[string]any{
		"operation": op,
		"error":     err.Error(),
	}))
}

func toolNames(s *Service) []string {
	tools := s.Catalog.List()
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	return names
}
