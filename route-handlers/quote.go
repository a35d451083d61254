package routehandlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/printhub/reporthub/models"
	"github.com/printhub/reporthub/pricing"
	"github.com/printhub/reporthub/webutil"
)

// QuoteHandler serves live price quotes for the report-creation form. The
// form calls it after every input change; the calculation is cheap enough
// that nothing is cached.
type QuoteHandler struct {
	Engine *pricing.Engine
}

func NewQuoteHandler(engine *pricing.Engine) *QuoteHandler {
	return &QuoteHandler{Engine: engine}
}

type quoteRequest struct {
	Pages     int    `json:"pages"`
	PrintSide string `json:"print_side"`
	Binding   bool   `json:"binding"`
	Cover     bool   `json:"cover"`
}

func (h *QuoteHandler) HandleQuote(w http.ResponseWriter, r *http.Request) error {
	var req quoteRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.Pages < 1 {
		return webutil.ErrBadRequest("pages must be a positive integer")
	}

	printSide, ok := models.IsValidPrintSide(req.PrintSide)
	if !ok {
		return webutil.ErrBadRequest(fmt.Sprintf("Invalid print_side value. Must be one of: %s, %s",
			models.PrintSideSingle, models.PrintSideDouble))
	}

	quote := h.Engine.Quote(pricing.PrintConfig{
		Pages:     req.Pages,
		PrintSide: printSide,
		Binding:   req.Binding,
		Cover:     req.Cover,
	})

	webutil.RespondWithJSON(w, http.StatusOK, quote)
	return nil
}
