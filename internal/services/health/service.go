package health

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	DB            Pinger
	Provider      string
	Model         string
	LLMConfigured bool
}

// NewService constructs a new health service. db may be nil when reports live in memory.
func NewService(db Pinger, provider, model string, llmConfigured bool) *Service {
	return &Service{DB: db, Provider: provider, Model: model, LLMConfigured: llmConfigured}
}

// Status describes the service and its dependencies.
type Status struct {
	OK            bool   `json:"ok"`
	Provider      string `json:"provider"`
	Model         string `json:"model,omitempty"`
	LLMConfigured bool   `json:"llmConfigured"`
	Database      string `json:"database"`
}

// Status reports liveness. A missing model provider is not a failure: actions fall back.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{
		OK:            true,
		Provider:      s.Provider,
		Model:         s.Model,
		LLMConfigured: s.LLMConfigured,
		Database:      "memory",
	}
	if s.DB == nil {
		return st
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		st.OK = false
		st.Database = "unavailable"
		return st
	}
	st.Database = "ok"
	return st
}
