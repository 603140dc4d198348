package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"tool-advisor/internal/llm"
	"tool-advisor/internal/shared/metrics"
	"tool-advisor/internal/shared/telemetry"
)

const (
	providerName = "openai"
	defaultModel = "gpt-4o-mini"
)

var schemaNamePattern = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Options configures an OpenAI client.
type Options struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
}

// Client implements llm.Client using OpenAI Chat Completions.
type Client struct {
	api         *goopenai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// NewClient constructs a new OpenAI client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	cfg := goopenai.DefaultConfig(opts.APIKey)
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}
	return &Client{
		api:         goopenai.NewClientWithConfig(cfg),
		model:       model,
		temperature: float32(opts.Temperature),
		timeout:     opts.Timeout,
	}, nil
}

// Provider returns "openai".
func (c *Client) Provider() string { return providerName }

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// GenerateJSON sends a chat completion constrained to the request schema.
func (c *Client) GenerateJSON(ctx context.Context, req llm.Request) (json.RawMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	chatReq := goopenai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    buildMessages(req),
		Temperature: c.temperature,
	}
	if req.Schema != nil {
		chatReq.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &goopenai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName(req.Operation),
				Schema: req.Schema,
				Strict: false,
			},
		}
	} else {
		chatReq.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, chatReq)
	metrics.ObserveLLMDuration(time.Since(start))
	if err != nil {
		return nil, wrapError(err)
	}
	logUsage(req.Operation, c.model, resp, time.Since(start))

	if len(resp.Choices) == 0 {
		return nil, llm.ErrEmptyResponse
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, llm.ErrEmptyResponse
	}
	raw, err := llm.ExtractJSON(content)
	if err != nil {
		return nil, &llm.InvalidJSONError{Raw: content, Err: err}
	}
	return raw, nil
}

func buildMessages(req llm.Request) []goopenai.ChatCompletionMessage {
	messages := make([]goopenai.ChatCompletionMessage, 0, len(req.History)+2)
	if strings.TrimSpace(req.System) != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleSystem, Content: req.System})
	}
	for _, m := range req.History {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		role := goopenai.ChatMessageRoleUser
		if m.Role == llm.RoleAssistant {
			role = goopenai.ChatMessageRoleAssistant
		}
		messages = append(messages, goopenai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, Content: req.Prompt})
}

func schemaName(operation string) string {
	name := schemaNamePattern.ReplaceAllString(operation, "_")
	if name == "" {
		return "response"
	}
	return name
}

func wrapError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &llm.StatusError{Provider: providerName, StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &llm.StatusError{Provider: providerName, StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return fmt.Errorf("openai request: %w", err)
}

func logUsage(operation, model string, resp goopenai.ChatCompletionResponse, elapsed time.Duration) {
	telemetry.Info("llm.call", map[string]any{
		"provider":          providerName,
		"model":             model,
		"operation":         operation,
		"duration_ms":       elapsed.Milliseconds(),
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"total_tokens":      resp.Usage.TotalTokens,
	})
}

var _ llm.Client = (*Client)(nil)
