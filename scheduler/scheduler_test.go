package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/printhub/reporthub/models"
	"github.com/printhub/reporthub/orders"
)

type fakeOrderStore struct {
	orders map[string]*models.Order
}

func (f *fakeOrderStore) GetActiveOrders(_ context.Context) ([]models.Order, error) {
	var active []models.Order
	for _, o := range f.orders {
		if !o.DeliveryStatus.IsTerminal() {
			active = append(active, *o)
		}
	}
	return active, nil
}

func (f *fakeOrderStore) GetOrderByID(_ context.Context, orderID string) (*models.Order, error) {
	cp := *f.orders[orderID]
	return &cp, nil
}

func (f *fakeOrderStore) UpdateOrderStatus(_ context.Context, orderID string, status models.DeliveryStatus, updatedAt time.Time) error {
	f.orders[orderID].DeliveryStatus = status
	f.orders[orderID].UpdatedAt = updatedAt
	return nil
}

type fakeReportStore struct {
	statusWrites []models.ReportStatus
}

func (f *fakeReportStore) GetReportByID(_ context.Context, reportID string) (*models.Report, error) {
	return &models.Report{ID: reportID, Title: "Quarterly Review"}, nil
}

func (f *fakeReportStore) UpdateReportStatus(_ context.Context, _ string, status models.ReportStatus) error {
	f.statusWrites = append(f.statusWrites, status)
	return nil
}

func newTestOrder(id string, status models.DeliveryStatus, updatedAt time.Time) *models.Order {
	return &models.Order{
		ID:             id,
		ReportID:       "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb",
		UserID:         "cccccccc-cccc-cccc-cccc-cccccccccccc",
		DeliveryStatus: status,
		UpdatedAt:      updatedAt,
	}
}

func newTestScheduler(store *fakeOrderStore, reports *fakeReportStore, dwell time.Duration) *Scheduler {
	svc := orders.NewService(store, reports, nil, nil, nil, nil)
	return New(store, svc, dwell)
}

func TestTickAdvancesDueOrders(t *testing.T) {
	stale := time.Now().UTC().Add(-time.Hour)
	store := &fakeOrderStore{orders: map[string]*models.Order{
		"order-1": newTestOrder("order-1", models.DeliveryStatusPending, stale),
		"order-2": newTestOrder("order-2", models.DeliveryStatusPrinting, stale),
	}}
	s := newTestScheduler(store, &fakeReportStore{}, 5*time.Minute)

	advanced, err := s.Tick(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, advanced)
	assert.Equal(t, models.DeliveryStatusConfirmed, store.orders["order-1"].DeliveryStatus)
	assert.Equal(t, models.DeliveryStatusOutForDelivery, store.orders["order-2"].DeliveryStatus)
}

func TestTickSkipsOrdersStillDwelling(t *testing.T) {
	store := &fakeOrderStore{orders: map[string]*models.Order{
		"order-1": newTestOrder("order-1", models.DeliveryStatusPending, time.Now().UTC()),
	}}
	s := newTestScheduler(store, &fakeReportStore{}, 5*time.Minute)

	advanced, err := s.Tick(context.Background())

	require.NoError(t, err)
	assert.Zero(t, advanced)
	assert.Equal(t, models.DeliveryStatusPending, store.orders["order-1"].DeliveryStatus)
}

func TestTickIgnoresTerminalOrders(t *testing.T) {
	stale := time.Now().UTC().Add(-time.Hour)
	store := &fakeOrderStore{orders: map[string]*models.Order{
		"order-1": newTestOrder("order-1", models.DeliveryStatusDelivered, stale),
		"order-2": newTestOrder("order-2", models.DeliveryStatusCancelled, stale),
	}}
	s := newTestScheduler(store, &fakeReportStore{}, 5*time.Minute)

	advanced, err := s.Tick(context.Background())

	require.NoError(t, err)
	assert.Zero(t, advanced)
}

func TestTickDeliveryCouplesReport(t *testing.T) {
	stale := time.Now().UTC().Add(-time.Hour)
	store := &fakeOrderStore{orders: map[string]*models.Order{
		"order-1": newTestOrder("order-1", models.DeliveryStatusOutForDelivery, stale),
	}}
	reports := &fakeReportStore{}
	s := newTestScheduler(store, reports, 5*time.Minute)

	advanced, err := s.Tick(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, advanced)
	assert.Equal(t, models.DeliveryStatusDelivered, store.orders["order-1"].DeliveryStatus)
	assert.Equal(t, []models.ReportStatus{models.ReportStatusDelivered}, reports.statusWrites)
}

func TestTickAdvancesOneStagePerCycle(t *testing.T) {
	stale := time.Now().UTC().Add(-time.Hour)
	store := &fakeOrderStore{orders: map[string]*models.Order{
		"order-1": newTestOrder("order-1", models.DeliveryStatusPending, stale),
	}}
	s := newTestScheduler(store, &fakeReportStore{}, 5*time.Minute)

	_, err := s.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusConfirmed, store.orders["order-1"].DeliveryStatus)

	// The next tick finds the order freshly updated and leaves it alone.
	_, err = s.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusConfirmed, store.orders["order-1"].DeliveryStatus)
}
