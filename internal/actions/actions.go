package actions

import (
	"context"
	"errors"

	"tool-advisor/internal/advisor"
	"tool-advisor/internal/catalog"
	"tool-advisor/internal/llm"
	"tool-advisor/internal/shared/metrics"
	"tool-advisor/internal/shared/telemetry"
)

const (
	noticeNotConfigured = "The AI service is not configured. Showing reference data instead."
	noticeUnavailable   = "The AI service is unavailable right now. Showing reference data instead."
)

// Advisor is the set of prompt-backed operations the action layer wraps.
type Advisor interface {
	RecommendTools(ctx context.Context, c advisor.Criteria) ([]advisor.Recommendation, error)
	CompareTools(ctx context.Context, tools, criteria []string, filter *advisor.Criteria) (advisor.Comparison, error)
	EstimateEffort(ctx context.Context, c advisor.Criteria, tool string) (advisor.EffortEstimate, error)
	GetToolDetails(ctx context.Context, tool string) (advisor.ToolDetails, error)
	AnalyzeTool(ctx context.Context, tool string, c advisor.Criteria) (advisor.ToolAnalysis, error)
	Chat(ctx context.Context, history []advisor.ChatMessage, message string) (advisor.ChatReply, error)
}

// Result carries operation data and whether it came from reference data.
type Result[T any] struct {
	Data     T      `json:"data"`
	Fallback bool   `json:"fallback"`
	Notice   string `json:"notice,omitempty"`
}

// Service never fails on model errors: it substitutes catalog-based data instead.
// Input validation errors are returned unchanged.
type Service struct {
	Advisor Advisor
	Catalog *catalog.Catalog
}

func NewService(adv Advisor, cat *catalog.Catalog) *Service {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Service{Advisor: adv, Catalog: cat}
}

func run[T any](ctx context.Context, op string, call func(context.Context) (T, error), fallback func() T) (Result[T], error) {
	metrics.IncOperation(op)
	data, err := call(ctx)
	if err == nil {
		return Result[T]{Data: data}, nil
	}
	metrics.IncOperationFailed(op)
	if errors.Is(err, advisor.ErrInvalidInput) {
		return Result[T]{}, err
	}

	metrics.IncFallback(op)
	telemetry.Warn("action.fallback", telemetry.ContextFields(ctx, map[string]any{
		"operation": op,
		"error":     err.Error(),
	}))
	notice := noticeUnavailable
	if errors.Is(err, llm.ErrNotConfigured) {
		notice = noticeNotConfigured
	}
	return Result[T]{Data: fallback(), Fallback: true, Notice: notice}, nil
}

func (s *Service) Recommend(ctx context.Context, c advisor.Criteria) (Result[[]advisor.Recommendation], error) {
	return run(ctx, advisor.OpRecommendTools,
		func(ctx context.Context) ([]advisor.Recommendation, error) { return s.Advisor.RecommendTools(ctx, c) },
		func() []advisor.Recommendation {
			normalized, _ := advisor.NormalizeCriteria(c)
			return fallbackRecommendations(s.Catalog, normalized)
		})
}

func (s *Service) Compare(ctx context.Context, tools, criteria []string, filter *advisor.Criteria) (Result[advisor.Comparison], error) {
	return run(ctx, advisor.OpCompareTools,
		func(ctx context.Context) (advisor.Comparison, error) {
			return s.Advisor.CompareTools(ctx, tools, criteria, filter)
		},
		func() advisor.Comparison {
			normTools, normCriteria, _, _ := advisor.NormalizeComparison(tools, criteria, filter)
			return fallbackComparison(s.Catalog, normTools, normCriteria)
		})
}

func (s *Service) Estimate(ctx context.Context, c advisor.Criteria, tool string) (Result[advisor.EffortEstimate], error) {
	return run(ctx, advisor.OpEstimateEffort,
		func(ctx context.Context) (advisor.EffortEstimate, error) {
			return s.Advisor.EstimateEffort(ctx, c, tool)
		},
		func() advisor.EffortEstimate {
			normalized, _ := advisor.NormalizeCriteria(c)
			name, _ := advisor.NormalizeToolName(tool)
			return fallbackEstimate(normalized, name)
		})
}

func (s *Service) Details(ctx context.Context, tool string) (Result[advisor.ToolDetails], error) {
	return run(ctx, advisor.OpGetToolDetails,
		func(ctx context.Context) (advisor.ToolDetails, error) { return s.Advisor.GetToolDetails(ctx, tool) },
		func() advisor.ToolDetails {
			name, _ := advisor.NormalizeToolName(tool)
			return fallbackDetails(s.Catalog, name)
		})
}

func (s *Service) Analyze(ctx context.Context, tool string, c advisor.Criteria) (Result[advisor.ToolAnalysis], error) {
	return run(ctx, advisor.OpAnalyzeTool,
		func(ctx context.Context) (advisor.ToolAnalysis, error) { return s.Advisor.AnalyzeTool(ctx, tool, c) },
		func() advisor.ToolAnalysis {
			normalized, _ := advisor.NormalizeCriteria(c)
			name, _ := advisor.NormalizeToolName(tool)
			return fallbackAnalysis(s.Catalog, name, normalized)
		})
}

func (s *Service) Chat(ctx context.Context, history []advisor.ChatMessage, message string) (Result[advisor.ChatReply], error) {
	return run(ctx, advisor.OpChat,
		func(ctx context.Context) (advisor.ChatReply, error) { return s.Advisor.Chat(ctx, history, message) },
		func() advisor.ChatReply { return fallbackChat(s.Catalog, message) })
}
