package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tool-advisor/internal/shared/telemetry"
)

const repairSystemPrompt = "You are a JSON repair tool. Return only valid JSON that matches the schema exactly. No markdown."

type repairingClient struct {
	Client
}

// WithJSONRepair issues one repair request when the provider answers with text that is not JSON.
func WithJSONRepair(base Client) Client {
	if base == nil {
		return nil
	}
	return repairingClient{Client: base}
}

func (r repairingClient) GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	resp, err := r.Client.GenerateJSON(ctx, req)
	var invalid *InvalidJSONError
	if err == nil || !errors.As(err, &invalid) {
		return resp, err
	}

	telemetry.Warn("llm.repair", map[string]any{
		"operation": req.Operation,
		"provider":  r.Provider(),
		"raw_len":   len(invalid.Raw),
	})
	return r.Client.GenerateJSON(ctx, Request{
		Operation: req.Operation + "_repair",
		System:    repairSystemPrompt,
		Prompt:    fmt.Sprintf("Fix this JSON to match the schema exactly. Output JSON only:\n%s", invalid.Raw),
		Schema:    req.Schema,
	})
}
