package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/printhub/reporthub/models"
)

type fakeReportStore struct {
	report       *models.Report
	savedContent string
	statusWrites []models.ReportStatus
	saveErr      error
}

func (f *fakeReportStore) GetReportByID(_ context.Context, _ string) (*models.Report, error) {
	if f.report == nil {
		return nil, errors.New("report not found")
	}
	cp := *f.report
	return &cp, nil
}

func (f *fakeReportStore) SaveGeneratedContent(_ context.Context, _, content, _ string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedContent = content
	return nil
}

func (f *fakeReportStore) UpdateReportStatus(_ context.Context, _ string, status models.ReportStatus) error {
	f.statusWrites = append(f.statusWrites, status)
	return nil
}

type fakeGenerator struct {
	content string
	err     error
}

func (f *fakeGenerator) Generate(_ context.Context, _ *models.Report) (string, error) {
	return f.content, f.err
}

func TestProcessSuccess(t *testing.T) {
	store := &fakeReportStore{report: testReport()}
	p := NewProcessor(store, &fakeGenerator{content: "generated body"})

	report, err := p.Process(context.Background(), store.report.ID)
	require.NoError(t, err)

	assert.Equal(t, models.ReportStatusCompleted, report.Status)
	require.NotNil(t, report.GeneratedContent)
	assert.Equal(t, "generated body", *report.GeneratedContent)
	assert.Equal(t, "generated body", store.savedContent)
	assert.Empty(t, store.statusWrites)
}

func TestProcessGenerationFailureMarksFailed(t *testing.T) {
	store := &fakeReportStore{report: testReport()}
	p := NewProcessor(store, &fakeGenerator{err: errors.New("api down")})

	_, err := p.Process(context.Background(), store.report.ID)
	require.Error(t, err)
	assert.Equal(t, []models.ReportStatus{models.ReportStatusFailed}, store.statusWrites)
}

func TestProcessSaveFailureMarksFailed(t *testing.T) {
	store := &fakeReportStore{report: testReport(), saveErr: errors.New("db down")}
	p := NewProcessor(store, &fakeGenerator{content: "body"})

	_, err := p.Process(context.Background(), store.report.ID)
	require.Error(t, err)
	assert.Equal(t, []models.ReportStatus{models.ReportStatusFailed}, store.statusWrites)
}

func TestProcessMissingReport(t *testing.T) {
	store := &fakeReportStore{}
	p := NewProcessor(store, &fakeGenerator{content: "body"})

	_, err := p.Process(context.Background(), "22222222-2222-2222-2222-222222222222")
	require.Error(t, err)
	// No status write: the report could not even be loaded.
	assert.Empty(t, store.statusWrites)
}
