package actions

import (
	"context"
	"sync"

	"tool-advisor/internal/advisor"
)

// stubAdvisor validates like the real service, then answers from canned data or err.
type stubAdvisor struct {
	mu    sync.Mutex
	err   error
	recs  []advisor.Recommendation
	calls map[string]int
}

func (s *stubAdvisor) record(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[op]++
	return s.err
}

func (s *stubAdvisor) count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *stubAdvisor) RecommendTools(ctx context.Context, c advisor.Criteria) ([]advisor.Recommendation, error) {
	if _, err := advisor.NormalizeCriteria(c); err != nil {
		return nil, err
	}
	if err := s.record(advisor.OpRecommendTools); err != nil {
		return nil, err
	}
	return s.recs, nil
}

func (s *stubAdvisor) CompareTools(ctx context.Context, tools, criteria []string, filter *advisor.Criteria) (advisor.Comparison, error) {
	tools, criteria, _, err := advisor.NormalizeComparison(tools, criteria, filter)
	if err != nil {
		return advisor.Comparison{}, err
	}
	if err := s.record(advisor.OpCompareTools); err != nil {
		return advisor.Comparison{}, err
	}
	return advisor.NewComparison(tools, criteria), nil
}

func (s *stubAdvisor) EstimateEffort(ctx context.Context, c advisor.Criteria, tool string) (advisor.EffortEstimate, error) {
	if err := s.record(advisor.OpEstimateEffort); err != nil {
		return advisor.EffortEstimate{}, err
	}
	return advisor.EffortEstimate{ToolName: tool, MinDays: 5, MaxDays: 8, Explanation: "model", Confidence: 70}, nil
}

func (s *stubAdvisor) GetToolDetails(ctx context.Context, tool string) (advisor.ToolDetails, error) {
	if _, err := advisor.NormalizeToolName(tool); err != nil {
		return advisor.ToolDetails{}, err
	}
	if err := s.record(advisor.OpGetToolDetails); err != nil {
		return advisor.ToolDetails{}, err
	}
	return advisor.ToolDetails{Name: tool, Overview: "model"}, nil
}

func (s *stubAdvisor) AnalyzeTool(ctx context.Context, tool string, c advisor.Criteria) (advisor.ToolAnalysis, error) {
	if err := s.record(advisor.OpAnalyzeTool); err != nil {
		return advisor.ToolAnalysis{}, err
	}
	return advisor.ToolAnalysis{ToolName: tool, FitScore: 80, Summary: "model"}, nil
}

func (s *stubAdvisor) Chat(ctx context.Context, history []advisor.ChatMessage, message string) (advisor.ChatReply, error) {
	if _, _, err := advisor.NormalizeChat(history, message); err != nil {
		return advisor.ChatReply{}, err
	}
	if err := s.record(advisor.OpChat); err != nil {
		return advisor.ChatReply{}, err
	}
	return advisor.ChatReply{Reply: "model reply"}, nil
}

func sampleCriteria() advisor.Criteria {
	return advisor.Criteria{
		SimpleTestCases:  40,
		MediumTestCases:  20,
		ComplexTestCases: 8,
		UsesFramework:    true,
		UsesCICD:         true,
		TeamSize:         4,
	}
}
