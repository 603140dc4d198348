package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Chat roles understood by every provider.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	// ErrNotConfigured is returned by the placeholder client when no provider is wired.
	ErrNotConfigured = errors.New("llm provider not configured")
	// ErrEmptyResponse is returned when a provider answers without content.
	ErrEmptyResponse = errors.New("llm returned empty response")
)

// Message is one prior chat turn.
type Message struct {
	Role    string
	Content string
}

// Request is a single structured-output call.
type Request struct {
	// Operation names the prompt-backed operation for logs, metrics and schema naming.
	Operation string
	System    string
	Prompt    string
	History   []Message
	Schema    *Schema
}

// Client abstracts hosted model providers that can answer with JSON.
type Client interface {
	GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error)
	Provider() string
	Model() string
}

// InvalidJSONError carries the raw provider text that could not be parsed as JSON.
type InvalidJSONError struct {
	Raw string
	Err error
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("invalid json from model: %v", e.Err)
}

func (e *InvalidJSONError) Unwrap() error { return e.Err }

// StatusError wraps a provider failure that carried an HTTP status.
type StatusError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s http status %d: %v", e.Provider, e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

// PlaceholderClient answers every request with ErrNotConfigured.
type PlaceholderClient struct{}

// GenerateJSON returns ErrNotConfigured.
func (PlaceholderClient) GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	return nil, ErrNotConfigured
}

// Provider returns "none".
func (PlaceholderClient) Provider() string { return "none" }

// Model returns an empty model name.
func (PlaceholderClient) Model() string { return "" }

var _ Client = PlaceholderClient{}
