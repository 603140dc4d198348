package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, report Report) error {
	criteria, err := json.Marshal(report.Criteria)
	if err != nil {
		return fmt.Errorf("marshal criteria: %w", err)
	}
	body, err := json.Marshal(payload{
		Recommendations: report.Recommendations,
		Comparison:      report.Comparison,
		Estimate:        report.Estimate,
		Notices:         report.Notices,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	const query = `
INSERT INTO reports (id, session_id, criteria, payload, fallback, prompt_hash, provider, model, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.DB.ExecContext(ctx, query,
		report.ID,
		report.SessionID,
		criteria,
		body,
		report.Fallback,
		report.PromptHash,
		report.Provider,
		report.Model,
		report.CreatedAt,
	)
	return err
}

const selectColumns = `id, session_id, criteria, payload, fallback, prompt_hash, provider, model, export_key, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (Report, error) {
	var (
		report    Report
		criteria  []byte
		body      []byte
		exportKey sql.NullString
	)
	if err := row.Scan(
		&report.ID,
		&report.SessionID,
		&criteria,
		&body,
		&report.Fallback,
		&report.PromptHash,
		&report.Provider,
		&report.Model,
		&exportKey,
		&report.CreatedAt,
	); err != nil {
		return Report{}, err
	}
	if err := json.Unmarshal(criteria, &report.Criteria); err != nil {
		return Report{}, fmt.Errorf("decode criteria: %w", err)
	}
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Report{}, fmt.Errorf("decode payload: %w", err)
	}
	report.Recommendations = p.Recommendations
	report.Comparison = p.Comparison
	report.Estimate = p.Estimate
	report.Notices = p.Notices
	if exportKey.Valid {
		report.ExportKey = exportKey.String
	}
	return report, nil
}

func (r *PGRepo) GetByID(ctx context.Context, sessionID, reportID string) (Report, error) {
	query := `SELECT ` + selectColumns + ` FROM reports WHERE id = $1 LIMIT 1`
	report, err := scanReport(r.DB.QueryRowContext(ctx, query, reportID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, ErrNotFound
		}
		return Report{}, err
	}
	if report.SessionID != sessionID {
		return Report{}, ErrForbidden
	}
	return report, nil
}

func (r *PGRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]Report, error) {
	query := `SELECT ` + selectColumns + ` FROM reports WHERE session_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, sessionID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

func (r *PGRepo) SetExportKey(ctx context.Context, reportID, key string) error {
	const query = `UPDATE reports SET export_key = $2 WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, reportID, key)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
