package reports

import (
	"errors"
	"time"

	"tool-advisor/internal/advisor"
)

var (
	ErrNotFound  = errors.New("report not found")
	ErrForbidden = errors.New("forbidden")
)

// Report is a saved snapshot of a recommend-compare-estimate run.
type Report struct {
	ID              string                   `json:"id"`
	SessionID       string                   `json:"-"`
	Criteria        advisor.Criteria         `json:"criteria"`
	Recommendations []advisor.Recommendation `json:"recommendations"`
	Comparison      *advisor.Comparison      `json:"comparison,omitempty"`
	Estimate        *advisor.EffortEstimate  `json:"estimate,omitempty"`
	Fallback        bool                     `json:"fallback"`
	Notices         []string                 `json:"notices,omitempty"`
	PromptHash      string                   `json:"promptHash"`
	Provider        string                   `json:"provider"`
	Model           string                   `json:"model"`
	ExportKey       string                   `json:"-"`
	CreatedAt       time.Time                `json:"createdAt"`
}

// payload is the JSONB document persisted next to the indexed columns.
type payload struct {
	Recommendations []advisor.Recommendation `json:"recommendations"`
	Comparison      *advisor.Comparison      `json:"comparison,omitempty"`
	Estimate        *advisor.EffortEstimate  `json:"estimate,omitempty"`
	Notices         []string                 `json:"notices,omitempty"`
}
