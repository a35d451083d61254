package generation

import (
	"context"
	"fmt"
	"log"

	"github.com/printhub/reporthub/models"
)

// ReportStore is the slice of the datastore the processor needs.
type ReportStore interface {
	GetReportByID(ctx context.Context, reportID string) (*models.Report, error)
	SaveGeneratedContent(ctx context.Context, reportID, content, fileURL string) error
	UpdateReportStatus(ctx context.Context, reportID string, status models.ReportStatus) error
}

// ContentGenerator produces the document text for a report.
type ContentGenerator interface {
	Generate(ctx context.Context, report *models.Report) (string, error)
}

// Processor runs report generation end to end. A report that fails anywhere
// in the pipeline is left in the failed status, never stuck in generating.
type Processor struct {
	reports   ReportStore
	generator ContentGenerator
}

func NewProcessor(reports ReportStore, generator ContentGenerator) *Processor {
	return &Processor{reports: reports, generator: generator}
}

// Process generates content for the report and persists the outcome. On
// success the report is returned with completed status and content attached.
func (p *Processor) Process(ctx context.Context, reportID string) (*models.Report, error) {
	report, err := p.reports.GetReportByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to load report %s: %w", reportID, err)
	}

	content, err := p.generator.Generate(ctx, report)
	if err != nil {
		p.markFailed(ctx, reportID)
		return nil, fmt.Errorf("generation failed for report %s: %w", reportID, err)
	}

	if err := p.reports.SaveGeneratedContent(ctx, reportID, content, ""); err != nil {
		p.markFailed(ctx, reportID)
		return nil, fmt.Errorf("failed to store content for report %s: %w", reportID, err)
	}

	report.Status = models.ReportStatusCompleted
	report.GeneratedContent = &content
	return report, nil
}

func (p *Processor) markFailed(ctx context.Context, reportID string) {
	if err := p.reports.UpdateReportStatus(ctx, reportID, models.ReportStatusFailed); err != nil {
		log.Printf("ERROR (Processor): Failed to mark report %s failed: %v", reportID, err)
	}
}
