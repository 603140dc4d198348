package reports

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tool-advisor/internal/actions"
	"tool-advisor/internal/advisor"
	localstore "tool-advisor/internal/shared/storage/object/local"
	"tool-advisor/internal/shared/telemetry"
)

type fakeBuilder struct {
	bundle actions.Bundle
	err    error
	calls  int
}

func (f *fakeBuilder) BuildReport(ctx context.Context, c advisor.Criteria) (actions.Bundle, error) {
	f.calls++
	if f.err != nil {
		return actions.Bundle{}, f.err
	}
	b := f.bundle
	b.Criteria = c
	return b, nil
}

func sampleBundle() actions.Bundle {
	cmp := advisor.NewComparison([]string{"Playwright", "Cypress"}, []string{"Ease of use"})
	cmp.Criteria[0].Values["Playwright"] = "Good"
	return actions.Bundle{
		Recommendations: actions.Result[[]advisor.Recommendation]{
			Data: []advisor.Recommendation{
				{ToolName: "Playwright", Score: 90, Justification: "fast"},
				{ToolName: "Cypress", Score: 82, Justification: "dx"},
			},
		},
		Comparison: &actions.Result[advisor.Comparison]{Data: cmp, Fallback: true, Notice: "served from reference data"},
		Estimate:   &actions.Result[advisor.EffortEstimate]{Data: advisor.EffortEstimate{ToolName: "Playwright", MinDays: 3, MaxDays: 5}, Fallback: true, Notice: "served from reference data"},
		PromptHash: "abc123",
	}
}

func newTestService(t *testing.T, builder Builder) *Service {
	t.Helper()
	telemetry.SetOutput(io.Discard)
	t.Cleanup(func() { telemetry.SetOutput(os.Stdout) })
	svc := NewService(builder, NewMemoryRepo(), localstore.New(t.TempDir()), "gemini", "gemini-2.0-flash")
	svc.now = func() time.Time { return time.Date(2026, time.May, 4, 9, 30, 15, 0, time.UTC) }
	return svc
}

func TestCreateSavesSnapshot(t *testing.T) {
	svc := newTestService(t, &fakeBuilder{bundle: sampleBundle()})
	ctx := context.Background()

	report, err := svc.Create(ctx, "session-1", advisor.Criteria{SimpleTestCases: 4, TeamSize: 2})
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.True(t, report.Fallback)
	assert.Equal(t, []string{"served from reference data"}, report.Notices)
	assert.Equal(t, "abc123", report.PromptHash)
	require.NotNil(t, report.Comparison)
	require.NotNil(t, report.Estimate)
	assert.Equal(t, "gemini", report.Provider)

	got, err := svc.Get(ctx, "session-1", report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Recommendations, got.Recommendations)

	_, err = svc.Get(ctx, "session-2", report.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Get(ctx, "session-1", "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := svc.List(ctx, "session-1", 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreatePropagatesBuilderError(t *testing.T) {
	boom := errors.New("boom")
	svc := newTestService(t, &fakeBuilder{err: boom})
	_, err := svc.Create(context.Background(), "session-1", advisor.Criteria{})
	assert.ErrorIs(t, err, boom)
}

func TestExportStoresOnceThenReadsStoredCopy(t *testing.T) {
	svc := newTestService(t, &fakeBuilder{bundle: sampleBundle()})
	ctx := context.Background()
	report, err := svc.Create(ctx, "session-1", advisor.Criteria{SimpleTestCases: 1})
	require.NoError(t, err)

	first, err := svc.Export(ctx, "session-1", report.ID)
	require.NoError(t, err)
	firstBody, err := io.ReadAll(first)
	require.NoError(t, err)
	require.NoError(t, first.Close())
	assert.Contains(t, string(firstBody), "Criterion,Playwright,Cypress\nEase of use,Good,N/A\n")

	stored, err := svc.Repo.GetByID(ctx, "session-1", report.ID)
	require.NoError(t, err)
	require.NotEmpty(t, stored.ExportKey)

	second, err := svc.Export(ctx, "session-1", report.ID)
	require.NoError(t, err)
	secondBody, err := io.ReadAll(second)
	require.NoError(t, err)
	require.NoError(t, second.Close())
	assert.Equal(t, string(firstBody), string(secondBody))

	after, err := svc.Repo.GetByID(ctx, "session-1", report.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.ExportKey, after.ExportKey)
}

func TestExportFileName(t *testing.T) {
	r := Report{CreatedAt: time.Date(2026, time.May, 4, 9, 30, 15, 0, time.UTC)}
	assert.Equal(t, "tool-report-20260504-093015.csv", ExportFileName(r))
}
