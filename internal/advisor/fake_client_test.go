package advisor

import (
	"context"
	"encoding/json"

	"tool-advisor/internal/llm"
)

type fakeLLM struct {
	raw      string
	err      error
	requests []llm.Request
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, req llm.Request) (json.RawMessage, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.raw), nil
}

func (f *fakeLLM) Provider() string { return "fake" }
func (f *fakeLLM) Model() string    { return "fake-1" }

func validCriteria() Criteria {
	return Criteria{
		SimpleTestCases:  40,
		MediumTestCases:  20,
		ComplexTestCases: 5,
		UsesFramework:    true,
		UsesCICD:         true,
		TeamSize:         4,
		Description:      "React storefront with a REST backend",
	}
}
