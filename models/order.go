package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DeliveryStatus defines the canonical set of delivery lifecycle statuses for
// an Order. The five non-terminal-to-terminal stages form a total order;
// cancelled is a separate terminal state.
type DeliveryStatus string

const (
	DeliveryStatusPending        DeliveryStatus = "pending"
	DeliveryStatusConfirmed      DeliveryStatus = "confirmed"
	DeliveryStatusPrinting       DeliveryStatus = "printing"
	DeliveryStatusOutForDelivery DeliveryStatus = "out_for_delivery"
	DeliveryStatusDelivered      DeliveryStatus = "delivered"
	DeliveryStatusCancelled      DeliveryStatus = "cancelled"
)

// IsValidDeliveryStatus checks if the provided status string is a valid DeliveryStatus.
func IsValidDeliveryStatus(statusStr string) (DeliveryStatus, bool) {
	ds := DeliveryStatus(strings.ToLower(statusStr))
	switch ds {
	case DeliveryStatusPending, DeliveryStatusConfirmed, DeliveryStatusPrinting,
		DeliveryStatusOutForDelivery, DeliveryStatusDelivered, DeliveryStatusCancelled:
		return ds, true
	default:
		return "", false
	}
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s DeliveryStatus) IsTerminal() bool {
	return s == DeliveryStatusDelivered || s == DeliveryStatusCancelled
}

// Order is a commitment to print and deliver a specific Report. It snapshots
// the delivery address and contact info at placement time and carries its own
// computed total and delivery status.
type Order struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	ReportID        string         `json:"report_id"`
	DeliveryAddress string         `json:"delivery_address"` // JSON-encoded DeliveryAddress snapshot
	TotalAmount     float64        `json:"total_amount"`
	DeliveryStatus  DeliveryStatus `json:"delivery_status"`
	TrackingNumber  *string        `json:"tracking_number,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Coordinates is a geographic point in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ContactInfo holds the recipient details captured on the order form.
type ContactInfo struct {
	FullName       string `json:"fullName"`
	Phone          string `json:"phone"`
	Email          string `json:"email,omitempty"`
	AlternatePhone string `json:"alternatePhone,omitempty"`
	PreferredTime  string `json:"preferredTime,omitempty"`
}

// DeliveryAddress is the decoded form of Order.DeliveryAddress.
type DeliveryAddress struct {
	Address      string      `json:"address"`
	Coordinates  Coordinates `json:"coordinates"`
	ContactInfo  ContactInfo `json:"contactInfo"`
	Instructions string      `json:"instructions,omitempty"`
}

// Address decodes the delivery address snapshot stored on the order.
func (o *Order) Address() (DeliveryAddress, error) {
	var addr DeliveryAddress
	if err := json.Unmarshal([]byte(o.DeliveryAddress), &addr); err != nil {
		return DeliveryAddress{}, fmt.Errorf("failed to decode delivery address for order %s: %w", o.ID, err)
	}
	return addr, nil
}
