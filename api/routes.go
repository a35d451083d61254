package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	rh "github.com/printhub/reporthub/route-handlers"
	"github.com/printhub/reporthub/webutil"
)

const (
	apiBasePath     = "/api"
	usersBasePath   = "/users"
	authBasePath    = "/auth"
	reportsBasePath = "/reports"
	ordersBasePath  = "/orders"
	quotesBasePath  = "/quotes"
)

const (
	statusSubPath   = "/status"
	generateSubPath = "/generate"
	trackingSubPath = "/tracking"
	positionSubPath = "/position"
)

const (
	paramID = "id" // General parameter name for resource IDs
)

// SetupRoutes wires every resource router under /api and attaches the shared
// middleware stack.
func SetupRoutes(
	userHandler *rh.UserHandler,
	authHandler *rh.AuthHandler,
	reportHandler *rh.ReportHandler,
	quoteHandler *rh.QuoteHandler,
	orderHandler *rh.OrderHandler,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware(allowedOrigins))
	r.Use(SetHeader(webutil.HeaderContentType, webutil.ContentTypeJSONUTF8))

	r.Route(apiBasePath, func(r chi.Router) {
		configureUserRoutes(r, userHandler)
		configureAuthRoutes(r, authHandler)
		configureReportRoutes(r, reportHandler)
		configureQuoteRoutes(r, quoteHandler)
		configureOrderRoutes(r, orderHandler)
	})

	// Health check endpoint
	r.Get("/healthz", handleHealthCheck)

	return r
}

// Helper for constructing paths with a parameter
func pathWithParam(basePath string, paramName string) string {
	if basePath == "" {
		return "/{" + paramName + "}"
	}
	return basePath + "/{" + paramName + "}"
}

func configureUserRoutes(r chi.Router, handler *rh.UserHandler) {
	userSpecificPath := pathWithParam("", paramID)

	r.Route(usersBasePath, func(r chi.Router) {
		r.Post("/", webutil.MakeHandler(handler.HandleCreateUser))
		r.Get(userSpecificPath, webutil.MakeHandler(handler.HandleGetUser))
	})
}

func configureAuthRoutes(r chi.Router, handler *rh.AuthHandler) {
	r.Route(authBasePath, func(r chi.Router) {
		r.Post("/send-otp", webutil.MakeHandler(handler.HandleSendOTP))
		r.Post("/verify-otp", webutil.MakeHandler(handler.HandleVerifyOTP))
	})
}

func configureReportRoutes(r chi.Router, handler *rh.ReportHandler) {
	specificReportPath := pathWithParam("", paramID)

	r.Route(reportsBasePath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleGetReports)) // Query param for user_id
		r.Post("/", webutil.MakeHandler(handler.HandleCreateReport))
		r.Route(specificReportPath, func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(handler.HandleGetReport))
			r.Post(generateSubPath, webutil.MakeHandler(handler.HandleGenerateReport)) // POST /reports/{id}/generate
		})
	})
}

func configureQuoteRoutes(r chi.Router, handler *rh.QuoteHandler) {
	r.Post(quotesBasePath, webutil.MakeHandler(handler.HandleQuote))
}

func configureOrderRoutes(r chi.Router, handler *rh.OrderHandler) {
	specificOrderPath := pathWithParam("", paramID)

	r.Route(ordersBasePath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleGetOrders)) // Query param for user_id
		r.Post("/", webutil.MakeHandler(handler.HandleCreateOrder))
		r.Route(specificOrderPath, func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(handler.HandleGetOrder))
			r.Patch(statusSubPath, webutil.MakeHandler(handler.HandleUpdateOrderStatus)) // PATCH /orders/{id}/status
			r.Get(trackingSubPath, webutil.MakeHandler(handler.HandleGetTracking))       // GET /orders/{id}/tracking
			r.Get(positionSubPath, webutil.MakeHandler(handler.HandleGetPosition))       // GET /orders/{id}/position
		})
	})
}

// handleHealthCheck responds to a health check request.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeTextPlainUTF8)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// corsMiddleware allows the browser frontend to call the API.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{webutil.HeaderContentType, webutil.HeaderAuthorization},
	})
	return c.Handler
}

// SetHeader is a middleware to set a response header.
func SetHeader(key, value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(key, value)
			next.ServeHTTP(w, r)
		})
	}
}
