// Package tracking implements the delivery lifecycle of a print order: the
// status machine the order advances through, the rendering of that status as
// discrete tracking steps, and the simulated vehicle position shown while an
// order is out for delivery.
package tracking

import "github.com/printhub/reporthub/models"

// statusSequence is the canonical forward path from placement to delivery.
// Cancellation sits outside the sequence and is reachable from any
// non-terminal status.
var statusSequence = []models.DeliveryStatus{
	models.DeliveryStatusPending,
	models.DeliveryStatusConfirmed,
	models.DeliveryStatusPrinting,
	models.DeliveryStatusOutForDelivery,
	models.DeliveryStatusDelivered,
}

// Ordinal returns the position of s on the canonical path. Cancelled and
// unknown statuses have no ordinal.
func Ordinal(s models.DeliveryStatus) (int, bool) {
	for i, status := range statusSequence {
		if status == s {
			return i, true
		}
	}
	return 0, false
}

// Advance validates a requested status transition. Forward moves along the
// canonical path and cancellation from any non-terminal status are applied;
// everything else, including backward and repeated transitions, is rejected
// and the current status is returned unchanged.
func Advance(current, requested models.DeliveryStatus) (models.DeliveryStatus, bool) {
	if current.IsTerminal() {
		return current, false
	}
	if requested == models.DeliveryStatusCancelled {
		return requested, true
	}

	curOrd, ok := Ordinal(current)
	if !ok {
		return current, false
	}
	reqOrd, ok := Ordinal(requested)
	if !ok || reqOrd <= curOrd {
		return current, false
	}
	return requested, true
}

// Next returns the status immediately after current on the canonical path.
func Next(current models.DeliveryStatus) (models.DeliveryStatus, bool) {
	ord, ok := Ordinal(current)
	if !ok || ord == len(statusSequence)-1 {
		return current, false
	}
	return statusSequence[ord+1], true
}

// Step is one entry of the rendered tracking timeline.
type Step struct {
	Status      models.DeliveryStatus `json:"status"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Completed   bool                  `json:"completed"`
	Current     bool                  `json:"current"`
}

var stepTitles = map[models.DeliveryStatus]string{
	models.DeliveryStatusPending:        "Order Placed",
	models.DeliveryStatusConfirmed:      "Order Confirmed",
	models.DeliveryStatusPrinting:       "Printing in Progress",
	models.DeliveryStatusOutForDelivery: "Out for Delivery",
	models.DeliveryStatusDelivered:      "Delivered",
}

var stepDescriptions = map[models.DeliveryStatus]string{
	models.DeliveryStatusPending:        "Your order has been received and is awaiting confirmation",
	models.DeliveryStatusConfirmed:      "Your order has been accepted and queued for printing",
	models.DeliveryStatusPrinting:       "Your report is being printed with premium quality",
	models.DeliveryStatusOutForDelivery: "Your report is on the way to your address",
	models.DeliveryStatusDelivered:      "Successfully delivered to your address",
}

// legacyNames maps each canonical status to the vocabulary older tracking
// clients expect. It is a pure relabeling per ordinal slot, never a second
// state machine.
var legacyNames = map[models.DeliveryStatus]string{
	models.DeliveryStatusPending:        "pending",
	models.DeliveryStatusConfirmed:      "printing",
	models.DeliveryStatusPrinting:       "printed",
	models.DeliveryStatusOutForDelivery: "shipped",
	models.DeliveryStatusDelivered:      "delivered",
	models.DeliveryStatusCancelled:      "cancelled",
}

// LegacyName returns the tracking view's name for s.
func LegacyName(s models.DeliveryStatus) string {
	if name, ok := legacyNames[s]; ok {
		return name
	}
	return "unknown"
}

var badgeLabels = map[models.DeliveryStatus]string{
	models.DeliveryStatusPending:        "Processing",
	models.DeliveryStatusConfirmed:      "Confirmed",
	models.DeliveryStatusPrinting:       "Printing",
	models.DeliveryStatusOutForDelivery: "Out for Delivery",
	models.DeliveryStatusDelivered:      "Delivered",
	models.DeliveryStatusCancelled:      "Cancelled",
}

// BadgeLabel returns the short display label for s.
func BadgeLabel(s models.DeliveryStatus) string {
	if label, ok := badgeLabels[s]; ok {
		return label
	}
	return "Unknown"
}

// DeriveSteps renders the tracking timeline for the given status. A step is
// completed when its ordinal lies at or before the current status's ordinal;
// exactly the step equal to the current status is flagged current. The result
// is recomputable from the status alone; no step history is persisted.
func DeriveSteps(current models.DeliveryStatus) []Step {
	curOrd, known := Ordinal(current)

	steps := make([]Step, 0, len(statusSequence))
	for i, status := range statusSequence {
		steps = append(steps, Step{
			Status:      status,
			Title:       stepTitles[status],
			Description: stepDescriptions[status],
			Completed:   known && i <= curOrd,
			Current:     known && i == curOrd,
		})
	}
	return steps
}
