package advisor

import (
	"context"
	"encoding/json"
	"fmt"

	"tool-advisor/internal/catalog"
	"tool-advisor/internal/llm"
	"tool-advisor/internal/shared/telemetry"
)

// Service runs the prompt-backed operations against a model client.
type Service struct {
	LLM     llm.Client
	Catalog *catalog.Catalog
}

func NewService(client llm.Client, cat *catalog.Catalog) *Service {
	if client == nil {
		client = llm.PlaceholderClient{}
	}
	if cat == nil {
		cat = catalog.Default()
	}
	return &Service{LLM: client, Catalog: cat}
}

func (s *Service) knownTools() []string {
	tools := s.Catalog.List()
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	return names
}

func (s *Service) call(ctx context.Context, req llm.Request, out any) error {
	telemetry.Debug("advisor.prompt", map[string]any{
		"operation":   req.Operation,
		"prompt_hash": llm.PromptHash(req),
		"history":     len(req.History),
	})
	raw, err := s.LLM.GenerateJSON(ctx, req)
	if err != nil {
		return fmt.Errorf("%s: %w", req.Operation, err)
	}
	return decodeOutput(req.Operation, raw, out)
}

// RecommendTools ranks tools for the given criteria.
func (s *Service) RecommendTools(ctx context.Context, c Criteria) ([]Recommendation, error) {
	c, err := NormalizeCriteria(c)
	if err != nil {
		return nil, err
	}
	req, err := RecommendRequest(c, s.knownTools())
	if err != nil {
		return nil, err
	}
	var raw rawRecommendations
	if err := s.call(ctx, req, &raw); err != nil {
		return nil, err
	}
	return reshapeRecommendations(raw, c.Limit)
}

// CompareTools builds a criteria x tools grid. filter is optional context.
func (s *Service) CompareTools(ctx context.Context, tools, criteria []string, filter *Criteria) (Comparison, error) {
	tools, criteria, filter, err := NormalizeComparison(tools, criteria, filter)
	if err != nil {
		return Comparison{}, err
	}
	req, err := compareRequest(tools, criteria, filter)
	if err != nil {
		return Comparison{}, err
	}
	var raw rawComparison
	if err := s.call(ctx, req, &raw); err != nil {
		return Comparison{}, err
	}
	return reshapeComparison(tools, criteria, raw)
}

// NormalizeComparison validates every input of a comparison request.
func NormalizeComparison(tools, criteria []string, filter *Criteria) ([]string, []string, *Criteria, error) {
	tools, err := NormalizeTools(tools)
	if err != nil {
		return nil, nil, nil, err
	}
	criteria, err = NormalizeCriterionNames(criteria)
	if err != nil {
		return nil, nil, nil, err
	}
	if filter != nil {
		normalized, err := NormalizeCriteria(*filter)
		if err != nil {
			return nil, nil, nil, err
		}
		filter = &normalized
	}
	return tools, criteria, filter, nil
}

// EstimateEffort estimates person-days to automate the suite with tool.
func (s *Service) EstimateEffort(ctx context.Context, c Criteria, tool string) (EffortEstimate, error) {
	c, tool, err := normalizeToolAndCriteria(c, tool)
	if err != nil {
		return EffortEstimate{}, err
	}
	req, err := estimateRequest(c, tool)
	if err != nil {
		return EffortEstimate{}, err
	}
	var raw rawEstimate
	if err := s.call(ctx, req, &raw); err != nil {
		return EffortEstimate{}, err
	}
	return reshapeEstimate(tool, raw)
}

// GetToolDetails returns a deep-dive profile of tool.
func (s *Service) GetToolDetails(ctx context.Context, tool string) (ToolDetails, error) {
	tool, err := NormalizeToolName(tool)
	if err != nil {
		return ToolDetails{}, err
	}
	req, err := detailsRequest(tool)
	if err != nil {
		return ToolDetails{}, err
	}
	var raw rawDetails
	if err := s.call(ctx, req, &raw); err != nil {
		return ToolDetails{}, err
	}
	details, err := reshapeDetails(tool, raw)
	if err != nil {
		return ToolDetails{}, err
	}
	details.DocumentationURL = s.Catalog.DocumentationURL(tool)
	if details.DocumentationURL == "" {
		details.DocumentationURL = s.Catalog.DocumentationURL(details.Name)
	}
	return details, nil
}

// AnalyzeTool scores a single tool against the criteria.
func (s *Service) AnalyzeTool(ctx context.Context, tool string, c Criteria) (ToolAnalysis, error) {
	c, tool, err := normalizeToolAndCriteria(c, tool)
	if err != nil {
		return ToolAnalysis{}, err
	}
	req, err := analyzeRequest(tool, c)
	if err != nil {
		return ToolAnalysis{}, err
	}
	var raw rawAnalysis
	if err := s.call(ctx, req, &raw); err != nil {
		return ToolAnalysis{}, err
	}
	return reshapeAnalysis(tool, raw)
}

// Chat forwards a support conversation turn.
func (s *Service) Chat(ctx context.Context, history []ChatMessage, message string) (ChatReply, error) {
	history, message, err := NormalizeChat(history, message)
	if err != nil {
		return ChatReply{}, err
	}
	req, err := chatRequest(history, message)
	if err != nil {
		return ChatReply{}, err
	}
	raw, err := s.LLM.GenerateJSON(ctx, req)
	if err != nil {
		return ChatReply{}, fmt.Errorf("%s: %w", OpChat, err)
	}
	reply, err := parseChatReply(raw)
	if err != nil {
		return ChatReply{}, err
	}
	return ChatReply{Reply: reply}, nil
}

func parseChatReply(raw json.RawMessage) (string, error) {
	var out rawChat
	if err := json.Unmarshal(raw, &out); err == nil && trimmed(out.Reply) != "" {
		return trimmed(out.Reply), nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil && trimmed(text) != "" {
		return trimmed(text), nil
	}
	return "", invalidOutput(OpChat, "empty reply")
}

func normalizeToolAndCriteria(c Criteria, tool string) (Criteria, string, error) {
	verr := &ValidationError{}
	name, err := NormalizeToolName(tool)
	verr.merge(err)
	normalized, err := NormalizeCriteria(c)
	verr.merge(err)
	if err := verr.orNil(); err != nil {
		return Criteria{}, "", err
	}
	return normalized, name, nil
}
