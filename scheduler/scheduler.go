// Package scheduler drives print orders through the delivery lifecycle.
// Status changes are system-driven in production; this scheduler stands in
// for the print shop's updates by advancing each active order one stage per
// due tick.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/printhub/reporthub/models"
	"github.com/printhub/reporthub/orders"
	"github.com/printhub/reporthub/tracking"
)

// DefaultStageDwell is how long an order stays in a stage before the next
// tick may advance it.
const DefaultStageDwell = 5 * time.Minute

// OrderSource lists the orders still moving through the lifecycle.
type OrderSource interface {
	GetActiveOrders(ctx context.Context) ([]models.Order, error)
}

// Scheduler advances active orders along the canonical delivery path. All
// transitions go through the order service so the delivered side effects
// (report coupling, events, notification) apply exactly as for manual
// updates.
type Scheduler struct {
	orderSource  OrderSource
	orderService *orders.Service
	stageDwell   time.Duration
}

// New creates a Scheduler with all required dependencies.
func New(orderSource OrderSource, orderService *orders.Service, stageDwell time.Duration) *Scheduler {
	if stageDwell <= 0 {
		stageDwell = DefaultStageDwell
	}
	return &Scheduler{
		orderSource:  orderSource,
		orderService: orderService,
		stageDwell:   stageDwell,
	}
}

// HandleTick is an HTTP handler that triggers a scheduler tick. Used by a
// cron service or manual curl requests.
func (s *Scheduler) HandleTick(w http.ResponseWriter, r *http.Request) {
	log.Println("INFO (Scheduler): Tick triggered via HTTP")

	advanced, err := s.Tick(r.Context())
	if err != nil {
		log.Printf("ERROR (Scheduler): Tick failed: %v", err)
		http.Error(w, "scheduler tick failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK: advanced %d orders", advanced)
}

// Tick runs a single scheduler cycle: every active order that has dwelt in
// its stage long enough moves to the next one. Returns the number of orders
// advanced.
func (s *Scheduler) Tick(ctx context.Context) (int, error) {
	activeOrders, err := s.orderSource.GetActiveOrders(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch active orders: %w", err)
	}

	advanced := 0
	now := time.Now().UTC()
	for i := range activeOrders {
		if s.processOrder(ctx, &activeOrders[i], now) {
			advanced++
		}
	}
	return advanced, nil
}

// processOrder advances a single order if it is due. Returns true when a
// transition was applied.
func (s *Scheduler) processOrder(ctx context.Context, order *models.Order, now time.Time) bool {
	if now.Sub(order.UpdatedAt) < s.stageDwell {
		return false
	}

	next, ok := tracking.Next(order.DeliveryStatus)
	if !ok {
		return false
	}

	_, applied, err := s.orderService.Advance(ctx, order.ID, next)
	if err != nil {
		log.Printf("ERROR (Scheduler): Failed to advance order %s to %s: %v", order.ID, next, err)
		return false
	}
	if applied {
		log.Printf("INFO (Scheduler): Advanced order %s from %s to %s", order.ID, order.DeliveryStatus, next)
	}
	return applied
}
