package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"tool-advisor/internal/actions"
	"tool-advisor/internal/advisor"
	"tool-advisor/internal/shared/storage/object"
	"tool-advisor/internal/shared/telemetry"
)

const csvContentType = "text/csv; charset=utf-8"

// Builder runs the recommend-then-compare flow.
type Builder interface {
	BuildReport(ctx context.Context, c advisor.Criteria) (actions.Bundle, error)
}

type Service struct {
	Builder  Builder
	Repo     Repo
	Store    object.ObjectStore
	Provider string
	Model    string
	now      func() time.Time
}

func NewService(builder Builder, repo Repo, store object.ObjectStore, provider, model string) *Service {
	return &Service{
		Builder:  builder,
		Repo:     repo,
		Store:    store,
		Provider: provider,
		Model:    model,
		now:      time.Now,
	}
}

// Create builds a new report for the session and saves it.
func (s *Service) Create(ctx context.Context, sessionID string, c advisor.Criteria) (Report, error) {
	bundle, err := s.Builder.BuildReport(ctx, c)
	if err != nil {
		return Report{}, err
	}
	report := Report{
		ID:              uuid.NewString(),
		SessionID:       sessionID,
		Criteria:        bundle.Criteria,
		Recommendations: bundle.Recommendations.Data,
		Fallback:        bundle.Fallback(),
		PromptHash:      bundle.PromptHash,
		Provider:        s.Provider,
		Model:           s.Model,
		CreatedAt:       s.now().UTC(),
	}
	addNotice(&report, bundle.Recommendations.Notice)
	if bundle.Comparison != nil {
		cmp := bundle.Comparison.Data
		report.Comparison = &cmp
		addNotice(&report, bundle.Comparison.Notice)
	}
	if bundle.Estimate != nil {
		est := bundle.Estimate.Data
		report.Estimate = &est
		addNotice(&report, bundle.Estimate.Notice)
	}

	if err := s.Repo.Create(ctx, report); err != nil {
		return Report{}, fmt.Errorf("save report: %w", err)
	}
	telemetry.Info("report.created", telemetry.ContextFields(ctx, map[string]any{
		"report_id":   report.ID,
		"fallback":    report.Fallback,
		"prompt_hash": report.PromptHash,
	}))
	return report, nil
}

func addNotice(r *Report, notice string) {
	if notice == "" {
		return
	}
	for _, existing := range r.Notices {
		if existing == notice {
			return
		}
	}
	r.Notices = append(r.Notices, notice)
}

func (s *Service) Get(ctx context.Context, sessionID, reportID string) (Report, error) {
	if _, err := uuid.Parse(reportID); err != nil {
		return Report{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, sessionID, reportID)
}

func (s *Service) List(ctx context.Context, sessionID string, limit int) ([]Report, error) {
	return s.Repo.ListBySession(ctx, sessionID, limit)
}

// Export returns the stored CSV for a report, rendering and storing it on first use.
func (s *Service) Export(ctx context.Context, sessionID, reportID string) (io.ReadCloser, error) {
	report, err := s.Get(ctx, sessionID, reportID)
	if err != nil {
		return nil, err
	}
	if report.ExportKey != "" {
		rc, err := s.Store.Open(ctx, report.ExportKey)
		if err == nil {
			return rc, nil
		}
		if errors.Is(err, object.ErrInvalidKey) {
			return nil, err
		}
		telemetry.Warn("report.export_missing", telemetry.ContextFields(ctx, map[string]any{
			"report_id": report.ID,
			"error":     err.Error(),
		}))
	}

	data, err := ExportCSV(report)
	if err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}
	obj, err := s.Store.Save(ctx, sessionID, ExportFileName(report), csvContentType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("store csv: %w", err)
	}
	if err := s.Repo.SetExportKey(ctx, report.ID, obj.Key); err != nil {
		return nil, fmt.Errorf("save export key: %w", err)
	}
	telemetry.Info("report.exported", telemetry.ContextFields(ctx, map[string]any{
		"report_id":  report.ID,
		"key":        obj.Key,
		"size_bytes": obj.SizeBytes,
	}))
	return io.NopCloser(bytes.NewReader(data)), nil
}

// ExportFileName is the download name of a report export.
func ExportFileName(r Report) string {
	return "tool-report-" + r.CreatedAt.UTC().Format("20060102-150405") + ".csv"
}
