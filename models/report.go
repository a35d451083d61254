package models

import (
	"strings"
	"time"
)

// ReportStatus defines the set of allowed lifecycle statuses for a Report.
type ReportStatus string

const (
	ReportStatusGenerating ReportStatus = "generating"
	ReportStatusCompleted  ReportStatus = "completed"
	ReportStatusFailed     ReportStatus = "failed"
	ReportStatusDelivered  ReportStatus = "delivered"
)

// PrintSide selects single- or double-sided printing for a report.
type PrintSide string

const (
	PrintSideSingle PrintSide = "single"
	PrintSideDouble PrintSide = "double"
)

// IsValidPrintSide checks if the provided string is a valid PrintSide.
func IsValidPrintSide(s string) (PrintSide, bool) {
	side := PrintSide(strings.ToLower(s))
	switch side {
	case PrintSideSingle, PrintSideDouble:
		return side, true
	default:
		return "", false
	}
}

// Report is a user-owned, AI-generated document together with its print
// configuration. Topic, page count, format and print options are immutable
// after creation; status, content and file URL change over the lifecycle.
type Report struct {
	ID                     string       `json:"id"`
	UserID                 string       `json:"user_id"`
	Title                  string       `json:"title"`
	Topic                  string       `json:"topic"`
	Pages                  int          `json:"pages"`
	Format                 string       `json:"format"`
	PrintSide              PrintSide    `json:"print_side"`
	Binding                bool         `json:"binding"`
	Cover                  bool         `json:"cover"`
	AdditionalInstructions string       `json:"additional_instructions,omitempty"`
	Status                 ReportStatus `json:"status"`
	GeneratedContent       *string      `json:"generated_content,omitempty"`
	FileURL                *string      `json:"file_url,omitempty"`
	Price                  float64      `json:"price"`
	CreatedAt              time.Time    `json:"created_at"`
}
