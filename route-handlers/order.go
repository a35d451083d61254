package routehandlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/printhub/reporthub/datastore"
	"github.com/printhub/reporthub/models"
	"github.com/printhub/reporthub/orders"
	"github.com/printhub/reporthub/pricing"
	"github.com/printhub/reporthub/tracking"
	"github.com/printhub/reporthub/webutil"
)

type OrderHandler struct {
	Repo       *datastore.OrderRepository
	ReportRepo *datastore.ReportRepository
	Service    *orders.Service
}

func NewOrderHandler(repo *datastore.OrderRepository, reportRepo *datastore.ReportRepository, service *orders.Service) *OrderHandler {
	return &OrderHandler{Repo: repo, ReportRepo: reportRepo, Service: service}
}

type createOrderRequest struct {
	UserID       string             `json:"user_id"`
	ReportID     string             `json:"report_id"`
	Address      string             `json:"address"`
	Coordinates  models.Coordinates `json:"coordinates"`
	ContactInfo  models.ContactInfo `json:"contact_info"`
	Instructions string             `json:"instructions,omitempty"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// updateOrderStatusResponse reports the stored order alongside whether the
// requested transition was applied; invalid transitions are a silent no-op.
type updateOrderStatusResponse struct {
	Order   *models.Order `json:"order"`
	Applied bool          `json:"applied"`
}

type trackingResponse struct {
	Status         models.DeliveryStatus `json:"status"`
	StatusLabel    string                `json:"status_label"`
	LegacyStatus   string                `json:"legacy_status"`
	TrackingNumber *string               `json:"tracking_number,omitempty"`
	Steps          []tracking.Step       `json:"steps"`
}

// HandleCreateOrder places a print order for a generated report. The total
// is the report's quoted price plus the flat order delivery charge, and the
// delivery address snapshot is stored verbatim on the order.
func (h *OrderHandler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) error {
	var req createOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.UserID == "" || req.ReportID == "" {
		return webutil.ErrBadRequest("Missing required fields (user_id, report_id)")
	}
	if _, err := uuid.Parse(req.UserID); err != nil {
		return webutil.ErrBadRequest("Invalid user_id format")
	}
	if _, err := uuid.Parse(req.ReportID); err != nil {
		return webutil.ErrBadRequest("Invalid report_id format")
	}
	if req.Address == "" || req.ContactInfo.FullName == "" || req.ContactInfo.Phone == "" {
		return webutil.ErrBadRequest("Missing required fields (address, contact_info.fullName, contact_info.phone)")
	}
	if req.Coordinates.Lat == 0 && req.Coordinates.Lng == 0 {
		return webutil.ErrBadRequest("Missing delivery coordinates")
	}

	report, err := h.ReportRepo.GetReportByID(r.Context(), req.ReportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Report not found")
		}
		return fmt.Errorf("failed to retrieve report %s: %w", req.ReportID, err)
	}
	if report.UserID != req.UserID {
		return webutil.ErrForbidden("Report does not belong to this user")
	}

	addressSnapshot, err := json.Marshal(models.DeliveryAddress{
		Address:      req.Address,
		Coordinates:  req.Coordinates,
		ContactInfo:  req.ContactInfo,
		Instructions: req.Instructions,
	})
	if err != nil {
		return fmt.Errorf("failed to encode delivery address: %w", err)
	}

	now := time.Now().UTC()
	trackingNumber := newTrackingNumber()
	newOrder := models.Order{
		ID:              uuid.NewString(),
		UserID:          req.UserID,
		ReportID:        req.ReportID,
		DeliveryAddress: string(addressSnapshot),
		TotalAmount:     pricing.OrderTotal(report.Price),
		DeliveryStatus:  models.DeliveryStatusPending,
		TrackingNumber:  &trackingNumber,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := h.Repo.CreateOrder(r.Context(), &newOrder); err != nil {
		return fmt.Errorf("failed to create order for report %s: %w", req.ReportID, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, newOrder)
	return nil
}

func (h *OrderHandler) HandleGetOrder(w http.ResponseWriter, r *http.Request) error {
	orderID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(orderID); err != nil {
		return webutil.ErrBadRequest("Invalid order ID format")
	}

	order, err := h.Repo.GetOrderByID(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Order not found")
		}
		return fmt.Errorf("failed to retrieve order %s: %w", orderID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, order)
	return nil
}

func (h *OrderHandler) HandleGetOrders(w http.ResponseWriter, r *http.Request) error {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		return webutil.ErrBadRequest("Missing required query parameter: user_id")
	}
	if _, err := uuid.Parse(userID); err != nil {
		return webutil.ErrBadRequest("Invalid user_id format")
	}

	userOrders, err := h.Repo.GetOrdersByUserID(r.Context(), userID)
	if err != nil {
		return fmt.Errorf("failed to retrieve orders for user %s: %w", userID, err)
	}
	if userOrders == nil {
		userOrders = []models.Order{}
	}

	webutil.RespondWithJSON(w, http.StatusOK, userOrders)
	return nil
}

// HandleUpdateOrderStatus applies a delivery status transition through the
// order service. The response carries the stored order and whether the
// transition was applied.
func (h *OrderHandler) HandleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) error {
	orderID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(orderID); err != nil {
		return webutil.ErrBadRequest("Invalid order ID format")
	}

	var req updateOrderStatusRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	status, ok := models.IsValidDeliveryStatus(req.Status)
	if !ok {
		return webutil.ErrBadRequest(fmt.Sprintf(
			"Invalid status value. Must be one of: %s, %s, %s, %s, %s, %s",
			models.DeliveryStatusPending, models.DeliveryStatusConfirmed,
			models.DeliveryStatusPrinting, models.DeliveryStatusOutForDelivery,
			models.DeliveryStatusDelivered, models.DeliveryStatusCancelled))
	}

	order, applied, err := h.Service.Advance(r.Context(), orderID, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Order not found for status update")
		}
		return fmt.Errorf("failed to update status for order %s: %w", orderID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, updateOrderStatusResponse{Order: order, Applied: applied})
	return nil
}

// HandleGetTracking renders the tracking timeline for the order, derived
// from its current status alone.
func (h *OrderHandler) HandleGetTracking(w http.ResponseWriter, r *http.Request) error {
	orderID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(orderID); err != nil {
		return webutil.ErrBadRequest("Invalid order ID format")
	}

	order, err := h.Repo.GetOrderByID(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Order not found")
		}
		return fmt.Errorf("failed to retrieve order %s: %w", orderID, err)
	}

	resp := trackingResponse{
		Status:         order.DeliveryStatus,
		StatusLabel:    tracking.BadgeLabel(order.DeliveryStatus),
		LegacyStatus:   tracking.LegacyName(order.DeliveryStatus),
		TrackingNumber: order.TrackingNumber,
		Steps:          tracking.DeriveSteps(order.DeliveryStatus),
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp)
	return nil
}

// HandleGetPosition returns the simulated vehicle position for an order that
// is out for delivery.
func (h *OrderHandler) HandleGetPosition(w http.ResponseWriter, r *http.Request) error {
	orderID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(orderID); err != nil {
		return webutil.ErrBadRequest("Invalid order ID format")
	}

	snapshot, err := h.Service.TrackPosition(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, orders.ErrNotOutForDelivery) {
			return webutil.ErrConflict("Order is not out for delivery")
		}
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Order not found")
		}
		return fmt.Errorf("failed to track order %s: %w", orderID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, snapshot)
	return nil
}

// newTrackingNumber builds a short human-readable tracking reference.
func newTrackingNumber() string {
	ref := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "RPT-" + ref[:10]
}
