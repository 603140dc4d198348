package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"tool-advisor/internal/llm"
	"tool-advisor/internal/shared/metrics"
	"tool-advisor/internal/shared/telemetry"
)

const (
	providerName = "gemini"
	defaultModel = "gemini-2.0-flash"
)

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements llm.Client on the Gemini API.
type Client struct {
	models      generator
	model       string
	temperature float32
	timeout     time.Duration
}

// Options configures a Gemini client.
type Options struct {
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// NewClient constructs a Gemini-backed client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newWithGenerator(client.Models, opts), nil
}

func newWithGenerator(models generator, opts Options) *Client {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	return &Client{
		models:      models,
		model:       model,
		temperature: float32(opts.Temperature),
		timeout:     opts.Timeout,
	}
}

// Provider returns "gemini".
func (c *Client) Provider() string { return providerName }

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// GenerateJSON sends the request and returns the JSON payload of the first candidate.
func (c *Client) GenerateJSON(ctx context.Context, req llm.Request) (json.RawMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	temp := c.temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenaiSchema(req.Schema),
	}
	if strings.TrimSpace(req.System) != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, buildContents(req), cfg)
	metrics.ObserveLLMDuration(time.Since(start))
	if err != nil {
		return nil, wrapError(err)
	}

	text := responseText(resp)
	logUsage(req.Operation, c.model, resp, time.Since(start))
	if strings.TrimSpace(text) == "" {
		return nil, llm.ErrEmptyResponse
	}
	raw, err := llm.ExtractJSON(text)
	if err != nil {
		return nil, &llm.InvalidJSONError{Raw: text, Err: err}
	}
	return raw, nil
}

func buildContents(req llm.Request) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, m := range req.History {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		role := "user"
		if m.Role == llm.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []*genai.Part{{Text: m.Content}}})
	}
	contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: req.Prompt}}})
	return contents
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

func toGenaiSchema(s *llm.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
		out.PropertyOrdering = s.Order
	}
	if s.Items != nil {
		out.Items = toGenaiSchema(s.Items)
	}
	return out
}

func genaiType(t llm.SchemaType) genai.Type {
	switch t {
	case llm.TypeObject:
		return genai.TypeObject
	case llm.TypeArray:
		return genai.TypeArray
	case llm.TypeNumber:
		return genai.TypeNumber
	case llm.TypeInteger:
		return genai.TypeInteger
	case llm.TypeBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

func wrapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &llm.StatusError{Provider: providerName, StatusCode: apiErr.Code, Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &llm.StatusError{Provider: providerName, StatusCode: apiErrPtr.Code, Err: err}
	}
	return fmt.Errorf("gemini generate: %w", err)
}

func logUsage(operation, model string, resp *genai.GenerateContentResponse, elapsed time.Duration) {
	fields := map[string]any{
		"provider":    providerName,
		"model":       model,
		"operation":   operation,
		"duration_ms": elapsed.Milliseconds(),
	}
	if resp != nil && resp.UsageMetadata != nil {
		fields["prompt_tokens"] = resp.UsageMetadata.PromptTokenCount
		fields["completion_tokens"] = resp.UsageMetadata.CandidatesTokenCount
		fields["total_tokens"] = resp.UsageMetadata.TotalTokenCount
	}
	telemetry.Info("llm.call", fields)
}

var _ llm.Client = (*Client)(nil)
