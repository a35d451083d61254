// Package orders orchestrates the delivery lifecycle of print orders: status
// transitions, the coupling back to the owning report, event publication, and
// the simulated vehicle tracking exposed while an order is out for delivery.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/printhub/reporthub/models"
	"github.com/printhub/reporthub/tracking"
)

// ErrNotOutForDelivery is returned when position tracking is requested for an
// order in any other status.
var ErrNotOutForDelivery = errors.New("order is not out for delivery")

// OrderStore is the slice of the datastore the service needs for orders.
type OrderStore interface {
	GetOrderByID(ctx context.Context, orderID string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status models.DeliveryStatus, updatedAt time.Time) error
}

// ReportStore is the slice of the datastore the service needs for the
// cross-entity transition on delivery.
type ReportStore interface {
	GetReportByID(ctx context.Context, reportID string) (*models.Report, error)
	UpdateReportStatus(ctx context.Context, reportID string, status models.ReportStatus) error
}

// EventPublisher emits order lifecycle events. May be absent.
type EventPublisher interface {
	PublishStatusChange(ctx context.Context, order *models.Order, previous models.DeliveryStatus) error
}

// Mailer sends the delivery notification. May be absent.
type Mailer interface {
	Send(ctx context.Context, toEmail, subject, body string) error
}

type deliveredMessageFunc func(reportTitle, trackingNumber string) (subject, body string)

// Service applies delivery status transitions and their side effects.
type Service struct {
	orders    OrderStore
	reports   ReportStore
	publisher EventPublisher
	mailer    Mailer
	simulator *tracking.Simulator

	deliveredMessage deliveredMessageFunc
}

func NewService(
	orders OrderStore,
	reports ReportStore,
	publisher EventPublisher,
	mailer Mailer,
	simulator *tracking.Simulator,
	deliveredMessage func(reportTitle, trackingNumber string) (string, string),
) *Service {
	return &Service{
		orders:           orders,
		reports:          reports,
		publisher:        publisher,
		mailer:           mailer,
		simulator:        simulator,
		deliveredMessage: deliveredMessage,
	}
}

// Advance applies a requested status transition. Backward, repeated, and
// post-terminal requests are rejected silently: the stored order is returned
// unchanged and applied is false, so callers compare applied-vs-requested if
// they need confirmation. On entering delivered, the owning report moves to
// delivered as well.
func (s *Service) Advance(ctx context.Context, orderID string, requested models.DeliveryStatus) (*models.Order, bool, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}

	next, applied := tracking.Advance(order.DeliveryStatus, requested)
	if !applied {
		return order, false, nil
	}

	now := time.Now().UTC()
	if err := s.orders.UpdateOrderStatus(ctx, orderID, next, now); err != nil {
		return nil, false, fmt.Errorf("failed to persist status for order %s: %w", orderID, err)
	}

	previous := order.DeliveryStatus
	order.DeliveryStatus = next
	order.UpdatedAt = now

	// The position simulator only runs while the order is out for delivery.
	if s.simulator != nil && next != models.DeliveryStatusOutForDelivery {
		s.simulator.Stop(orderID)
	}

	if next == models.DeliveryStatusDelivered {
		s.completeDelivery(ctx, order)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishStatusChange(ctx, order, previous); err != nil {
			log.Printf("WARN (OrderService): Failed to publish status change for order %s: %v", order.ID, err)
		}
	}

	return order, true, nil
}

// completeDelivery runs the delivered side effects: the owning report's
// status moves to delivered and the contact is notified.
func (s *Service) completeDelivery(ctx context.Context, order *models.Order) {
	if err := s.reports.UpdateReportStatus(ctx, order.ReportID, models.ReportStatusDelivered); err != nil {
		log.Printf("ERROR (OrderService): Failed to mark report %s delivered for order %s: %v",
			order.ReportID, order.ID, err)
	}

	if s.mailer == nil || s.deliveredMessage == nil {
		return
	}

	addr, err := order.Address()
	if err != nil || addr.ContactInfo.Email == "" {
		return
	}

	title := ""
	if report, err := s.reports.GetReportByID(ctx, order.ReportID); err == nil {
		title = report.Title
	}

	trackingNumber := ""
	if order.TrackingNumber != nil {
		trackingNumber = *order.TrackingNumber
	}

	subject, body := s.deliveredMessage(title, trackingNumber)
	if err := s.mailer.Send(ctx, addr.ContactInfo.Email, subject, body); err != nil {
		log.Printf("WARN (OrderService): Failed to send delivery notification for order %s: %v", order.ID, err)
	}
}

// TrackPosition returns the simulated vehicle position for an order that is
// out for delivery, starting the simulation on first request.
func (s *Service) TrackPosition(ctx context.Context, orderID string) (tracking.Snapshot, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return tracking.Snapshot{}, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}

	if order.DeliveryStatus != models.DeliveryStatusOutForDelivery {
		s.simulator.Stop(orderID)
		return tracking.Snapshot{}, ErrNotOutForDelivery
	}

	addr, err := order.Address()
	if err != nil {
		return tracking.Snapshot{}, err
	}

	dest := tracking.Position{Lat: addr.Coordinates.Lat, Lng: addr.Coordinates.Lng}
	return s.simulator.Track(orderID, dest), nil
}
