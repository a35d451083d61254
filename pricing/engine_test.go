package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/printhub/reporthub/models"
)

func TestCalculateScenarios(t *testing.T) {
	tests := []struct {
		name string
		cfg  PrintConfig
		want Quote
	}{
		{
			name: "double sided with both add-ons",
			cfg:  PrintConfig{Pages: 30, PrintSide: models.PrintSideDouble, Binding: true, Cover: true},
			want: Quote{PrintingCost: 30, AddOnsCost: 8, Subtotal: 38, DeliveryCharge: 15, Total: 53},
		},
		{
			name: "single sided small without add-ons",
			cfg:  PrintConfig{Pages: 10, PrintSide: models.PrintSideSingle},
			want: Quote{PrintingCost: 20, AddOnsCost: 0, Subtotal: 20, DeliveryCharge: 15, Total: 35},
		},
		{
			name: "single sided bulk earns free delivery",
			cfg:  PrintConfig{Pages: 40, PrintSide: models.PrintSideSingle, Binding: true, Cover: true},
			want: Quote{PrintingCost: 60, AddOnsCost: 8, Subtotal: 68, DeliveryCharge: 0, Total: 68},
		},
		{
			name: "single page double sided",
			cfg:  PrintConfig{Pages: 1, PrintSide: models.PrintSideDouble},
			want: Quote{PrintingCost: 1, AddOnsCost: 0, Subtotal: 1, DeliveryCharge: 15, Total: 16},
		},
		{
			name: "single sided at bulk threshold",
			cfg:  PrintConfig{Pages: 20, PrintSide: models.PrintSideSingle},
			want: Quote{PrintingCost: 40, AddOnsCost: 0, Subtotal: 40, DeliveryCharge: 15, Total: 55},
		},
		{
			name: "single sided just past bulk threshold",
			cfg:  PrintConfig{Pages: 21, PrintSide: models.PrintSideSingle},
			want: Quote{PrintingCost: 31.5, AddOnsCost: 0, Subtotal: 31.5, DeliveryCharge: 15, Total: 46.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Calculate(tt.cfg))
		})
	}
}

func TestPrintingCostRates(t *testing.T) {
	for pages := 1; pages <= 100; pages++ {
		double := Calculate(PrintConfig{Pages: pages, PrintSide: models.PrintSideDouble})
		assert.Equal(t, float64(pages), double.PrintingCost, "double-sided pages=%d", pages)

		single := Calculate(PrintConfig{Pages: pages, PrintSide: models.PrintSideSingle})
		if pages <= 20 {
			assert.Equal(t, float64(pages)*2, single.PrintingCost, "single-sided pages=%d", pages)
		} else {
			assert.Equal(t, float64(pages)*1.5, single.PrintingCost, "single-sided pages=%d", pages)
		}
	}
}

func TestAddOnsCost(t *testing.T) {
	tests := []struct {
		binding bool
		cover   bool
		want    float64
	}{
		{false, false, 0},
		{false, true, 3},
		{true, false, 5},
		{true, true, 8},
	}

	for _, tt := range tests {
		q := Calculate(PrintConfig{Pages: 1, PrintSide: models.PrintSideDouble, Binding: tt.binding, Cover: tt.cover})
		assert.Equal(t, tt.want, q.AddOnsCost, "binding=%v cover=%v", tt.binding, tt.cover)
	}
}

func TestDeliveryChargeThreshold(t *testing.T) {
	// The threshold is evaluated against the pre-delivery subtotal, never the
	// final total.
	for pages := 1; pages <= 100; pages++ {
		q := Calculate(PrintConfig{Pages: pages, PrintSide: models.PrintSideDouble, Binding: true, Cover: true})
		if q.Subtotal > 50 {
			assert.Zero(t, q.DeliveryCharge, "pages=%d", pages)
		} else {
			assert.Equal(t, 15.0, q.DeliveryCharge, "pages=%d", pages)
		}
		assert.Equal(t, q.Subtotal+q.DeliveryCharge, q.Total, "pages=%d", pages)
	}
}

func TestEngineNotifiesCallback(t *testing.T) {
	var got []float64
	engine := &Engine{OnPriceChange: func(total float64) { got = append(got, total) }}

	q := engine.Quote(PrintConfig{Pages: 30, PrintSide: models.PrintSideDouble, Binding: true, Cover: true})
	engine.Quote(PrintConfig{Pages: 10, PrintSide: models.PrintSideSingle})

	assert.Equal(t, 53.0, q.Total)
	assert.Equal(t, []float64{53, 35}, got)
}

func TestEngineWithoutCallback(t *testing.T) {
	engine := &Engine{}
	assert.NotPanics(t, func() { engine.Quote(PrintConfig{Pages: 5, PrintSide: models.PrintSideDouble}) })
}

func TestOrderTotal(t *testing.T) {
	// The order-level delivery charge is flat, unrelated to the quote-stage
	// free-delivery threshold.
	assert.Equal(t, 103.0, OrderTotal(53))
	assert.Equal(t, 118.0, OrderTotal(68))
	assert.Equal(t, 50.0, OrderTotal(0))
}
