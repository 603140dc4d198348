package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedClient struct {
	mu       sync.Mutex
	answers  []scriptedAnswer
	requests []Request
}

type scriptedAnswer struct {
	raw string
	err error
}

func (s *scriptedClient) GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if len(s.answers) == 0 {
		return nil, errors.New("no scripted answer")
	}
	next := s.answers[0]
	s.answers = s.answers[1:]
	if next.err != nil {
		return nil, next.err
	}
	return json.RawMessage(next.raw), nil
}

func (s *scriptedClient) Provider() string { return "scripted" }
func (s *scriptedClient) Model() string    { return "scripted-1" }

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "clean object", input: `{"reply":"hi"}`, want: `{"reply":"hi"}`},
		{name: "whitespace", input: "  \n{\"a\":1}\n ", want: `{"a":1}`},
		{name: "markdown fence", input: "```json\n{\"a\":true}\n```", want: `{"a":true}`},
		{name: "generic fence", input: "```\n{\"a\":true}\n```", want: `{"a":true}`},
		{name: "preamble", input: "Here you go:\n{\"a\":2}", want: `{"a":2}`},
		{name: "postamble", input: "{\"a\":3}\nHope this helps!", want: `{"a":3}`},
		{name: "array payload", input: "Result: [{\"a\":1},{\"a\":2}] done", want: `[{"a":1},{"a":2}]`},
		{name: "bracketed label before object", input: `Result [v2]: {"a":1}`, want: `{"a":1}`},
		{name: "label before nested arrays", input: "[draft] {\"items\":[1,2]}", want: `{"items":[1,2]}`},
		{name: "braces in string", input: `{"reasoning":"uses {braces}","ok":true}`, want: `{"reasoning":"uses {braces}","ok":true}`},
		{name: "empty", input: "   ", wantErr: true},
		{name: "no json", input: "I cannot help with that.", wantErr: true},
		{name: "broken json", input: "{\"a\": }", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestSchemaJSONSchema(t *testing.T) {
	s := Object("recommendations",
		Prop("recommendations", Array("ranked tools", Object("",
			Prop("toolName", String("tool name")),
			Prop("score", Number("0-100")),
			OptionalProp("justification", String("")),
		))),
	)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type":"object",
		"description":"recommendations",
		"required":["recommendations"],
		"properties":{
			"recommendations":{
				"type":"array",
				"description":"ranked tools",
				"items":{
					"type":"object",
					"required":["toolName","score"],
					"properties":{
						"toolName":{"type":"string","description":"tool name"},
						"score":{"type":"number","description":"0-100"},
						"justification":{"type":"string"}
					}
				}
			}
		}
	}`, string(raw))
	assert.Equal(t, []string{"recommendations"}, s.Order)
}

func TestPromptHashDeterministic(t *testing.T) {
	req := Request{System: "sys", Prompt: "compare Playwright and Cypress"}
	assert.Equal(t, PromptHash(req), PromptHash(req))

	alt := req
	alt.Prompt = "compare Selenium and Cypress"
	assert.NotEqual(t, PromptHash(req), PromptHash(alt))

	withHistory := req
	withHistory.History = []Message{{Role: RoleUser, Content: "hello"}}
	assert.NotEqual(t, PromptHash(req), PromptHash(withHistory))
}

func TestRetryRetriesTransientFailureOnce(t *testing.T) {
	base := &scriptedClient{answers: []scriptedAnswer{
		{err: &StatusError{Provider: "scripted", StatusCode: 503, Err: errors.New("unavailable")}},
		{raw: `{"ok":true}`},
	}}
	client := WithRetry(base, time.Millisecond)

	got, err := client.GenerateJSON(context.Background(), Request{Operation: "chat"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(got))
	assert.Len(t, base.requests, 2)
	assert.Equal(t, "scripted", client.Provider())
}

func TestRetrySkipsPermanentFailure(t *testing.T) {
	base := &scriptedClient{answers: []scriptedAnswer{
		{err: &StatusError{Provider: "scripted", StatusCode: 400, Err: errors.New("bad request")}},
	}}
	_, err := WithRetry(base, time.Millisecond).GenerateJSON(context.Background(), Request{})
	require.Error(t, err)
	assert.Len(t, base.requests, 1)
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	base := &scriptedClient{answers: []scriptedAnswer{
		{err: fmt.Errorf("call: %w", context.DeadlineExceeded)},
		{raw: `{}`},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(base, time.Hour).GenerateJSON(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, base.requests, 1)
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "rate limited", err: &StatusError{StatusCode: 429, Err: errors.New("slow down")}, want: true},
		{name: "server error", err: &StatusError{StatusCode: 500, Err: errors.New("boom")}, want: true},
		{name: "client error", err: &StatusError{StatusCode: 401, Err: errors.New("key")}, want: false},
		{name: "connection reset", err: errors.New("read tcp: connection reset by peer"), want: true},
		{name: "not configured", err: ErrNotConfigured, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldRetry(tt.err))
		})
	}
}

func TestRepairIssuesOneFixRequest(t *testing.T) {
	base := &scriptedClient{answers: []scriptedAnswer{
		{err: &InvalidJSONError{Raw: "{reply: hi", Err: errors.New("bad")}},
		{raw: `{"reply":"hi"}`},
	}}
	schema := Object("", Prop("reply", String("")))

	got, err := WithJSONRepair(base).GenerateJSON(context.Background(), Request{Operation: "chat", Schema: schema})
	require.NoError(t, err)
	assert.JSONEq(t, `{"reply":"hi"}`, string(got))
	require.Len(t, base.requests, 2)
	assert.Equal(t, "chat_repair", base.requests[1].Operation)
	assert.Contains(t, base.requests[1].Prompt, "{reply: hi")
	assert.Same(t, schema, base.requests[1].Schema)
}

func TestPlaceholderClient(t *testing.T) {
	_, err := PlaceholderClient{}.GenerateJSON(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, "none", PlaceholderClient{}.Provider())
}
