package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/printhub/reporthub/api"
	"github.com/printhub/reporthub/datastore"
	"github.com/printhub/reporthub/events"
	"github.com/printhub/reporthub/generation"
	"github.com/printhub/reporthub/mailer"
	"github.com/printhub/reporthub/orders"
	"github.com/printhub/reporthub/pricing"
	rh "github.com/printhub/reporthub/route-handlers"
	"github.com/printhub/reporthub/scheduler"
	"github.com/printhub/reporthub/tracking"
)

const (
	defaultPort         = "8080"
	defaultDatabaseURL  = "user=postgres password=password dbname=reporthub host=localhost port=5432 sslmode=disable"
	defaultSendGridFrom = "hello@reporthub.dev"
	defaultSendGridName = "Report Hub"
	defaultExchange     = "reporthub.events"
	dbPingTimeout       = 5 * time.Second
	shutdownTimeout     = 15 * time.Second
	dbMaxOpenConns      = 25
	dbMaxIdleConns      = 25
	dbConnMaxLifetime   = 5 * time.Minute
)

type config struct {
	port              string
	databaseURL       string
	baseURL           string
	sendGridAPIKey    string
	sendGridFromEmail string
	sendGridFromName  string
	openAIAPIKey      string
	openAIModel       string
	rabbitURL         string
	rabbitExchange    string
	allowedOrigins    []string
	stageDwell        time.Duration
}

func main() {
	cfg := loadConfig()

	db, err := setupDatabase(cfg.databaseURL)
	if err != nil {
		log.Fatalf("Database setup failed: %v", err)
	}
	defer db.Close()

	userRepo := datastore.NewUserRepository(db)
	reportRepo := datastore.NewReportRepository(db)
	orderRepo := datastore.NewOrderRepository(db)
	otpRepo := datastore.NewOTPRepository(db)

	// Outbound mail
	mailProvider := mailer.NewSendGridProvider(cfg.sendGridAPIKey, cfg.sendGridFromEmail, cfg.sendGridFromName)

	// Report content generation
	generator := generation.NewGenerator(cfg.openAIAPIKey, cfg.openAIModel)
	processor := generation.NewProcessor(reportRepo, generator)

	// Optional order event publishing
	var publisher orders.EventPublisher
	var eventPublisher *events.Publisher
	if cfg.rabbitURL != "" {
		eventPublisher, err = events.NewPublisher(cfg.rabbitURL, cfg.rabbitExchange)
		if err != nil {
			log.Fatalf("Event publisher setup failed: %v", err)
		}
		defer eventPublisher.Close()
		publisher = eventPublisher
	} else {
		log.Println("WARNING: RABBIT_URL not set. Order events will not be published.")
	}

	// Delivery tracking simulation
	simulator := tracking.NewSimulator(tracking.DefaultTickInterval)
	defer simulator.StopAll()

	orderService := orders.NewService(orderRepo, reportRepo, publisher, mailProvider, simulator, mailer.OrderDeliveredMessage)

	userHandler := rh.NewUserHandler(userRepo)
	authHandler := rh.NewAuthHandler(otpRepo, userRepo, mailProvider, cfg.baseURL)
	reportHandler := rh.NewReportHandler(reportRepo, processor)
	quoteEngine := &pricing.Engine{
		OnPriceChange: func(total float64) {
			slog.Debug("Quote calculated", "total", total)
		},
	}
	quoteHandler := rh.NewQuoteHandler(quoteEngine)
	orderHandler := rh.NewOrderHandler(orderRepo, reportRepo, orderService)

	apiRouter := api.SetupRoutes(
		userHandler,
		authHandler,
		reportHandler,
		quoteHandler,
		orderHandler,
		cfg.allowedOrigins,
	)

	// Order lifecycle scheduler
	orderScheduler := scheduler.New(orderRepo, orderService, cfg.stageDwell)

	mainRouter := chi.NewRouter()
	mainRouter.Mount("/", apiRouter)
	mainRouter.Post("/scheduler/tick", orderScheduler.HandleTick)

	startServer(cfg.port, mainRouter)
}

func loadConfig() config {
	if err := godotenv.Load(); err != nil {
		log.Println("INFO: No .env file found, relying on environment.")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		dbURL = defaultDatabaseURL
		log.Println("WARNING: DB_CONNECTION_STRING not set, using default local connection string.")
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	sendGridAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sendGridAPIKey == "" {
		log.Println("WARNING: SENDGRID_API_KEY not set. Email delivery will fail at runtime.")
	}

	sendGridFrom := os.Getenv("SENDGRID_FROM_EMAIL")
	if sendGridFrom == "" {
		sendGridFrom = defaultSendGridFrom
	}

	sendGridName := os.Getenv("SENDGRID_FROM_NAME")
	if sendGridName == "" {
		sendGridName = defaultSendGridName
	}

	openAIAPIKey := os.Getenv("OPENAI_API_KEY")
	if openAIAPIKey == "" {
		log.Println("WARNING: OPENAI_API_KEY not set. Report generation will fail at runtime.")
	}

	rabbitExchange := os.Getenv("RABBIT_EXCHANGE")
	if rabbitExchange == "" {
		rabbitExchange = defaultExchange
	}

	var allowedOrigins []string
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowedOrigins = append(allowedOrigins, origin)
			}
		}
	}

	stageDwell := scheduler.DefaultStageDwell
	if raw := os.Getenv("STAGE_DWELL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("WARNING: Invalid STAGE_DWELL %q, using default: %v", raw, err)
		} else {
			stageDwell = parsed
		}
	}

	return config{
		port:              port,
		databaseURL:       dbURL,
		baseURL:           baseURL,
		sendGridAPIKey:    sendGridAPIKey,
		sendGridFromEmail: sendGridFrom,
		sendGridFromName:  sendGridName,
		openAIAPIKey:      openAIAPIKey,
		openAIModel:       os.Getenv("OPENAI_MODEL"),
		rabbitURL:         os.Getenv("RABBIT_URL"),
		rabbitExchange:    rabbitExchange,
		allowedOrigins:    allowedOrigins,
		stageDwell:        stageDwell,
	}
}

func setupDatabase(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close() // Close unusable connection pool
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection successful")
	return db, nil
}

func startServer(port string, router http.Handler) {
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownSignal // Block until signal received
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server gracefully stopped")
}
