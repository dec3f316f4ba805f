package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"lnmbpay/internal/app"
	"lnmbpay/internal/config"
	"lnmbpay/internal/gateway"
	"lnmbpay/internal/handler"
	"lnmbpay/internal/idempotency"
	"lnmbpay/internal/repository/postgres"
	"lnmbpay/internal/service"
	"lnmbpay/internal/signature"
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

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

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
	// Outbound signing key. Callback verification works without it, so a
	// missing key only disables the initiate flow.
	var signer *signature.Signer
	key, err := signature.LoadPrivateKey(cfg.Payment)
	switch {
	case err == nil:
		signer = signature.NewSigner(key)
	case errors.Is(err, signature.ErrNoKeySource):
		log.Println("WARN: no signing key configured, outbound payment initiation disabled")
	default:
		log.Fatalf("failed to load signing key: %v", err)
	}

	// Initialize repositories and the idempotency guard.
	paymentRepo := postgres.NewPaymentRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	guard := idempotency.NewRedisGuard(redisClient)

	// Initialize services.
	gatewayClient := gateway.NewClient(cfg.Payment, signer)
	paymentService := service.NewPaymentService(paymentRepo, gatewayClient, cfg.Payment)
	callbackService := service.NewCallbackService(paymentRepo, orderRepo, guard, cfg.Payment)
	reconciler := service.NewReconciliationService(paymentRepo, orderRepo)

	// Initialize handlers.
	paymentHandler := handler.NewPaymentHandler(paymentService, callbackService, reconciler, cfg.Payment)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		PaymentHandler: paymentHandler,
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
