package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/printhub/reporthub/models"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `
	id, user_id, report_id, delivery_address, total_amount, delivery_status,
	tracking_number, created_at, updated_at
`

func (r *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	if _, err := uuid.Parse(order.ID); err != nil {
		return fmt.Errorf("invalid order ID format: %w", err)
	}
	if _, err := uuid.Parse(order.UserID); err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}
	if _, err := uuid.Parse(order.ReportID); err != nil {
		return fmt.Errorf("invalid report ID format: %w", err)
	}

	query := `
		INSERT INTO orders (
			id, user_id, report_id, delivery_address, total_amount,
			delivery_status, tracking_number, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		order.ID, order.UserID, order.ReportID, order.DeliveryAddress,
		order.TotalAmount, string(order.DeliveryStatus), order.TrackingNumber,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, fmt.Errorf("invalid order ID format: %w", err)
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, orderID)
	order, err := scanOrder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("order not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get order by ID: %w", err)
	}
	return order, nil
}

func (r *OrderRepository) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders for user %s: %w", userID, err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// GetActiveOrders returns every order still moving through the delivery
// lifecycle, oldest first. Used by the lifecycle scheduler.
func (r *OrderRepository) GetActiveOrders(ctx context.Context) ([]models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE delivery_status NOT IN ($1, $2)
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query,
		string(models.DeliveryStatusDelivered), string(models.DeliveryStatusCancelled))
	if err != nil {
		return nil, fmt.Errorf("failed to query active orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, status models.DeliveryStatus, updatedAt time.Time) error {
	if _, err := uuid.Parse(orderID); err != nil {
		return fmt.Errorf("invalid order ID format: %w", err)
	}

	query := `UPDATE orders SET delivery_status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, orderID, string(status), updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update order status for ID %s: %w", orderID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("WARN: Could not get rows affected for order status update %s: %v", orderID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("order not found for status update: %w", sql.ErrNoRows)
	}
	return nil
}

func collectOrders(rows *sql.Rows) ([]models.Order, error) {
	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating order rows: %w", err)
	}
	return orders, nil
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var order models.Order
	var statusStr string

	err := row.Scan(
		&order.ID, &order.UserID, &order.ReportID, &order.DeliveryAddress,
		&order.TotalAmount, &statusStr, &order.TrackingNumber,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.DeliveryStatus = models.DeliveryStatus(statusStr)
	return &order, nil
}
