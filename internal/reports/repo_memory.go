package reports

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	reports map[string]Report
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{reports: make(map[string]Report)}
}

func (r *MemoryRepo) Create(ctx context.Context, report Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[report.ID] = report
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, sessionID, reportID string) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[reportID]
	if !ok {
		return Report{}, ErrNotFound
	}
	if report.SessionID != sessionID {
		return Report{}, ErrForbidden
	}
	return report, nil
}

func (r *MemoryRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Report, 0)
	for _, report := range r.reports {
		if report.SessionID == sessionID {
			out = append(out, report)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit = clampLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) SetExportKey(ctx context.Context, reportID, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[reportID]
	if !ok {
		return ErrNotFound
	}
	report.ExportKey = key
	r.reports[reportID] = report
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
