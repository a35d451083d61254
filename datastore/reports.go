package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/printhub/reporthub/models"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `
	id, user_id, title, topic, pages, format, print_side, binding, cover,
	additional_instructions, status, generated_content, file_url, price, created_at
`

func (r *ReportRepository) CreateReport(ctx context.Context, report *models.Report) error {
	if _, err := uuid.Parse(report.ID); err != nil {
		return fmt.Errorf("invalid report ID format: %w", err)
	}
	if _, err := uuid.Parse(report.UserID); err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}

	query := `
		INSERT INTO reports (
			id, user_id, title, topic, pages, format, print_side, binding, cover,
			additional_instructions, status, generated_content, file_url, price, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.UserID, report.Title, report.Topic, report.Pages,
		report.Format, string(report.PrintSide), report.Binding, report.Cover,
		report.AdditionalInstructions, string(report.Status),
		report.GeneratedContent, report.FileURL, report.Price, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

func (r *ReportRepository) GetReportByID(ctx context.Context, reportID string) (*models.Report, error) {
	if _, err := uuid.Parse(reportID); err != nil {
		return nil, fmt.Errorf("invalid report ID format: %w", err)
	}

	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, reportID)
	report, err := scanReport(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("report not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get report by ID: %w", err)
	}
	return report, nil
}

func (r *ReportRepository) GetReportsByUserID(ctx context.Context, userID string) ([]models.Report, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}

	query := `SELECT ` + reportColumns + ` FROM reports WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports for user %s: %w", userID, err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating report rows: %w", err)
	}
	return reports, nil
}

func (r *ReportRepository) UpdateReportStatus(ctx context.Context, reportID string, status models.ReportStatus) error {
	if _, err := uuid.Parse(reportID); err != nil {
		return fmt.Errorf("invalid report ID format: %w", err)
	}

	query := `UPDATE reports SET status = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, reportID, string(status))
	if err != nil {
		return fmt.Errorf("failed to update report status for ID %s: %w", reportID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("WARN: Could not get rows affected for report status update %s: %v", reportID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("report not found for status update: %w", sql.ErrNoRows)
	}
	return nil
}

// SaveGeneratedContent stores the generated document and marks the report
// completed in a single write.
func (r *ReportRepository) SaveGeneratedContent(ctx context.Context, reportID, content, fileURL string) error {
	if _, err := uuid.Parse(reportID); err != nil {
		return fmt.Errorf("invalid report ID format: %w", err)
	}

	query := `
		UPDATE reports
		SET status = $2, generated_content = $3, file_url = NULLIF($4, '')
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, reportID, string(models.ReportStatusCompleted), content, fileURL)
	if err != nil {
		return fmt.Errorf("failed to save generated content for report %s: %w", reportID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("WARN: Could not get rows affected for report content update %s: %v", reportID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("report not found for content update: %w", sql.ErrNoRows)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*models.Report, error) {
	var report models.Report
	var printSideStr, statusStr string

	err := row.Scan(
		&report.ID, &report.UserID, &report.Title, &report.Topic, &report.Pages,
		&report.Format, &printSideStr, &report.Binding, &report.Cover,
		&report.AdditionalInstructions, &statusStr,
		&report.GeneratedContent, &report.FileURL, &report.Price, &report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	report.PrintSide = models.PrintSide(printSideStr)
	report.Status = models.ReportStatus(statusStr)
	return &report, nil
}
