// Package pricing converts a report's print configuration into an itemized,
// deterministic price. All amounts are rupees.
package pricing

import "github.com/printhub/reporthub/models"

const (
	doubleSidedRate          = 1.0
	singleSidedRate          = 2.0
	singleSidedBulkRate      = 1.5
	singleSidedBulkThreshold = 20

	bindingCharge = 5.0
	coverCharge   = 3.0

	// Quote-stage delivery is free once the pre-delivery subtotal exceeds
	// the threshold. This rule applies to report quotes only: a placed print
	// order always pays OrderDeliveryCharge.
	freeDeliveryThreshold = 50.0
	quoteDeliveryCharge   = 15.0
)

// OrderDeliveryCharge is the flat charge applied when converting a generated
// report into a physical delivery, regardless of the report's price.
const OrderDeliveryCharge = 50.0

// PrintConfig holds the pricing inputs for a report quote. Pages must be a
// positive integer; validating that is the caller's responsibility at the
// form boundary.
type PrintConfig struct {
	Pages     int
	PrintSide models.PrintSide
	Binding   bool
	Cover     bool
}

// Quote is the itemized price breakdown for a print configuration.
type Quote struct {
	PrintingCost   float64 `json:"printing_cost"`
	AddOnsCost     float64 `json:"add_ons_cost"`
	Subtotal       float64 `json:"subtotal"`
	DeliveryCharge float64 `json:"delivery_charge"`
	Total          float64 `json:"total"`
}

// Calculate computes the itemized quote for cfg. It is a pure function of its
// inputs: the delivery charge is evaluated against the pre-delivery subtotal,
// then added to produce the total.
func Calculate(cfg PrintConfig) Quote {
	printing := printingCost(cfg.Pages, cfg.PrintSide)
	addOns := addOnsCost(cfg.Binding, cfg.Cover)
	subtotal := printing + addOns

	delivery := quoteDeliveryCharge
	if subtotal > freeDeliveryThreshold {
		delivery = 0
	}

	return Quote{
		PrintingCost:   printing,
		AddOnsCost:     addOns,
		Subtotal:       subtotal,
		DeliveryCharge: delivery,
		Total:          subtotal + delivery,
	}
}

// Engine recomputes quotes on demand and reports each computed total to an
// optional callback. Recomputation is cheap, so callers invoke Quote after
// every input change instead of caching.
type Engine struct {
	OnPriceChange func(total float64)
}

// Quote calculates the quote for cfg and notifies the callback, if any.
func (e *Engine) Quote(cfg PrintConfig) Quote {
	q := Calculate(cfg)
	if e.OnPriceChange != nil {
		e.OnPriceChange(q.Total)
	}
	return q
}

// OrderTotal is the amount charged for a print order placed on a report that
// was priced at reportPrice.
func OrderTotal(reportPrice float64) float64 {
	return reportPrice + OrderDeliveryCharge
}

func printingCost(pages int, side models.PrintSide) float64 {
	if side == models.PrintSideDouble {
		return float64(pages) * doubleSidedRate
	}
	if pages <= singleSidedBulkThreshold {
		return float64(pages) * singleSidedRate
	}
	return float64(pages) * singleSidedBulkRate
}

func addOnsCost(binding, cover bool) float64 {
	var cost float64
	if binding {
		cost += bindingCharge
	}
	if cover {
		cost += coverCharge
	}
	return cost
}
