package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/tzinegf/AG-TUR/internal/app"
	"github.com/tzinegf/AG-TUR/internal/config"
	"github.com/tzinegf/AG-TUR/internal/handler"
	internalRedis "github.com/tzinegf/AG-TUR/internal/redis"
	"github.com/tzinegf/AG-TUR/internal/repository/postgres"
	"github.com/tzinegf/AG-TUR/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation. Redis is optional:
	// without it the service runs with no seat holds, route cache, or
	// idempotency replay.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Printf("redis unavailable, continuing without it: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Println("Connected to Redis")
	}

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	var seatLocks internalRedis.SeatLockStoreInterface
	var cacheStore *internalRedis.CacheStore
	if redisClient != nil {
		seatLocks = internalRedis.NewSeatLockStore(redisClient)
		cacheStore = internalRedis.NewCacheStore(redisClient)
	}

	// Initialize repositories.
	routeRepo := postgres.NewRouteRepository(db)
	seatRepo := postgres.NewSeatRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	busRepo := postgres.NewBusRepository(db)
	stripeCustomerRepo := postgres.NewStripeCustomerRepository(db)

	// Initialize services.
	notificationService := service.NewNotificationService()
	availabilityService := service.NewAvailabilityService(seatRepo)
	routeService := service.NewRouteService(routeRepo, cacheStore)
	bookingService := service.NewBookingService(bookingRepo, seatRepo, paymentRepo, routeRepo, availabilityService, seatLocks, notificationService)
	ticketService := service.NewTicketService(routeRepo, seatRepo)
	webhookService := service.NewWebhookService(paymentRepo, bookingRepo, notificationService)

	// Stripe is optional: without a secret key the gateway routes are not
	// registered and bookings stay in the pending payment state.
	var stripeHandler *handler.StripeHandler
	var webhookHandler *handler.WebhookHandler
	if cfg.Stripe.SecretKey != "" {
		stripeService, err := service.NewStripeService(cfg.Stripe.SecretKey, stripeCustomerRepo, profileRepo)
		if err != nil {
			log.Printf("stripe disabled: %v", err)
		} else {
			stripeHandler = handler.NewStripeHandler(stripeService)
			if cfg.Stripe.WebhookSecret != "" {
				webhookHandler = handler.NewWebhookHandler(webhookService, cfg.Stripe.WebhookSecret)
			}
		}
	}

	// Initialize handlers.
	routeHandler := handler.NewRouteHandler(routeService, availabilityService)
	bookingHandler := handler.NewBookingHandler(bookingService, ticketService, profileRepo)
	busHandler := handler.NewBusHandler(busRepo)
	profileHandler := handler.NewProfileHandler(profileRepo)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		AuthConfig:     cfg.Auth,
		RouteHandler:   routeHandler,
		BookingHandler: bookingHandler,
		BusHandler:     busHandler,
		ProfileHandler: profileHandler,
		StripeHandler:  stripeHandler,
		WebhookHandler: webhookHandler,
		ProfileRepo:    profileRepo,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
