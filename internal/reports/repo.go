package reports

import "context"

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Repo persists reports.
type Repo interface {
	Create(ctx context.Context, report Report) error
	GetByID(ctx context.Context, sessionID, reportID string) (Report, error)
	ListBySession(ctx context.Context, sessionID string, limit int) ([]Report, error)
	SetExportKey(ctx context.Context, reportID, key string) error
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
