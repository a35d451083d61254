package routehandlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/printhub/reporthub/pricing"
	"github.com/printhub/reporthub/webutil"
)

func postQuote(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/quotes", strings.NewReader(body))
	rec := httptest.NewRecorder()
	webutil.MakeHandler(NewQuoteHandler(&pricing.Engine{}).HandleQuote).ServeHTTP(rec, req)
	return rec
}

func TestHandleQuoteReturnsItemizedBreakdown(t *testing.T) {
	rec := postQuote(t, `{"pages": 30, "print_side": "double", "binding": true, "cover": true}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var quote pricing.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, 30.0, quote.PrintingCost)
	assert.Equal(t, 8.0, quote.AddOnsCost)
	assert.Equal(t, 15.0, quote.DeliveryCharge)
	assert.Equal(t, 53.0, quote.Total)
}

func TestHandleQuoteFreeDeliveryOverThreshold(t *testing.T) {
	rec := postQuote(t, `{"pages": 40, "print_side": "single", "binding": true, "cover": true}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var quote pricing.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Zero(t, quote.DeliveryCharge)
	assert.Equal(t, 68.0, quote.Total)
}

func TestHandleQuoteRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero pages", `{"pages": 0, "print_side": "single"}`},
		{"negative pages", `{"pages": -3, "print_side": "double"}`},
		{"unknown print side", `{"pages": 10, "print_side": "triple"}`},
		{"unknown field", `{"pages": 10, "print_side": "single", "color": true}`},
		{"malformed json", `{"pages": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postQuote(t, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
