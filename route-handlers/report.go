package routehandlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/printhub/reporthub/datastore"
	"github.com/printhub/reporthub/generation"
	"github.com/printhub/reporthub/models"
	"github.com/printhub/reporthub/pricing"
	"github.com/printhub/reporthub/webutil"
)

type ReportHandler struct {
	Repo      *datastore.ReportRepository
	Processor *generation.Processor
}

func NewReportHandler(repo *datastore.ReportRepository, processor *generation.Processor) *ReportHandler {
	return &ReportHandler{Repo: repo, Processor: processor}
}

type createReportRequest struct {
	UserID                 string `json:"user_id"`
	Title                  string `json:"title"`
	Topic                  string `json:"topic"`
	Pages                  int    `json:"pages"`
	Format                 string `json:"format"`
	PrintSide              string `json:"print_side"`
	Binding                bool   `json:"binding"`
	Cover                  bool   `json:"cover"`
	AdditionalInstructions string `json:"additional_instructions,omitempty"`
}

// HandleCreateReport creates a report in generating status, priced by the
// quote engine from its print configuration.
func (h *ReportHandler) HandleCreateReport(w http.ResponseWriter, r *http.Request) error {
	var req createReportRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.UserID == "" || req.Title == "" || req.Topic == "" {
		return webutil.ErrBadRequest("Missing required fields (user_id, title, topic)")
	}
	if _, err := uuid.Parse(req.UserID); err != nil {
		return webutil.ErrBadRequest("Invalid user_id format")
	}

	// The pricing engine expects a positive page count; the form boundary
	// enforces it.
	if req.Pages < 1 {
		return webutil.ErrBadRequest("pages must be a positive integer")
	}

	printSide, ok := models.IsValidPrintSide(req.PrintSide)
	if !ok {
		return webutil.ErrBadRequest(fmt.Sprintf("Invalid print_side value. Must be one of: %s, %s",
			models.PrintSideSingle, models.PrintSideDouble))
	}

	format := req.Format
	if format == "" {
		format = "A4"
	}

	quote := pricing.Calculate(pricing.PrintConfig{
		Pages:     req.Pages,
		PrintSide: printSide,
		Binding:   req.Binding,
		Cover:     req.Cover,
	})

	newReport := models.Report{
		ID:                     uuid.NewString(),
		UserID:                 req.UserID,
		Title:                  req.Title,
		Topic:                  req.Topic,
		Pages:                  req.Pages,
		Format:                 format,
		PrintSide:              printSide,
		Binding:                req.Binding,
		Cover:                  req.Cover,
		AdditionalInstructions: req.AdditionalInstructions,
		Status:                 models.ReportStatusGenerating,
		Price:                  quote.Total,
		CreatedAt:              time.Now().UTC(),
	}

	if err := h.Repo.CreateReport(r.Context(), &newReport); err != nil {
		return fmt.Errorf("failed to create report for user %s: %w", req.UserID, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, newReport)
	return nil
}

func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) error {
	reportID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(reportID); err != nil {
		return webutil.ErrBadRequest("Invalid report ID format")
	}

	report, err := h.Repo.GetReportByID(r.Context(), reportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Report not found")
		}
		return fmt.Errorf("failed to retrieve report %s: %w", reportID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, report)
	return nil
}

// HandleGetReports lists reports for the user given by the user_id query
// parameter, newest first.
func (h *ReportHandler) HandleGetReports(w http.ResponseWriter, r *http.Request) error {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		return webutil.ErrBadRequest("Missing required query parameter: user_id")
	}
	if _, err := uuid.Parse(userID); err != nil {
		return webutil.ErrBadRequest("Invalid user_id format")
	}

	reports, err := h.Repo.GetReportsByUserID(r.Context(), userID)
	if err != nil {
		return fmt.Errorf("failed to retrieve reports for user %s: %w", userID, err)
	}
	if reports == nil {
		reports = []models.Report{}
	}

	webutil.RespondWithJSON(w, http.StatusOK, reports)
	return nil
}

// HandleGenerateReport runs content generation for the report. The processor
// leaves the report completed or failed; a report is never stuck generating.
func (h *ReportHandler) HandleGenerateReport(w http.ResponseWriter, r *http.Request) error {
	reportID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(reportID); err != nil {
		return webutil.ErrBadRequest("Invalid report ID format")
	}

	report, err := h.Processor.Process(r.Context(), reportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Report not found")
		}
		return webutil.ErrInternalServerWrap(fmt.Sprintf("Report generation failed for %s", reportID), err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, report)
	return nil
}
