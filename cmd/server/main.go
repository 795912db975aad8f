package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"chargenow/internal/app"
	"chargenow/internal/config"
	"chargenow/internal/handler"
	"chargenow/internal/logger"
	internalRedis "chargenow/internal/redis"
	"chargenow/internal/repository/postgres"
	"chargenow/internal/service"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.Log)

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// New Relic comes first so the database and Redis clients get instrumented.
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		var err error
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.WithError(err).Warn("failed to initialize New Relic")
		} else {
			log.WithField("app", cfg.NewRelic.AppName).Info("New Relic enabled")
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()
	log.Info("connected to PostgreSQL")

	// Redis is optional: without it decisions rely on the conditional update,
	// operator tracking reads the database and idempotency replay is off.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, continuing without it")
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Info("connected to Redis")
		}
	}

	server := wireServer(db, redisClient, nrApp, cfg)

	go func() {
		log.WithField("port", cfg.Server.Port).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Interface values stay nil without Redis so services take their
	// database-only paths.
	var (
		lockStore  internalRedis.LockStoreInterface
		cacheStore internalRedis.OperatorCacheInterface
	)
	if redisClient != nil {
		lockStore = internalRedis.NewLockStore(redisClient)
		cacheStore = internalRedis.NewCacheStore(redisClient)
	}

	// Repositories.
	requestRepo := postgres.NewRequestRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	feedbackRepo := postgres.NewFeedbackRepository(db)
	operatorRepo := postgres.NewOperatorRepository(db)
	vanRepo := postgres.NewVanRepository(db)
	riderRepo := postgres.NewRiderRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	transactor := postgres.NewTransactor(db)

	// Services.
	requestService := service.NewRequestService(requestRepo, vehicleRepo, operatorRepo)
	bookingService := service.NewBookingService(transactor, requestRepo, bookingRepo, lockStore)
	paymentService := service.NewPaymentService(paymentRepo, bookingRepo)
	feedbackService := service.NewFeedbackService(feedbackRepo, operatorRepo, requestRepo)
	fleetService := service.NewFleetService(operatorRepo, vanRepo, cacheStore)
	profileService := service.NewProfileService(riderRepo, operatorRepo, vehicleRepo)

	router := app.NewRouter(app.RouterDeps{
		RequestHandler:  handler.NewRequestHandler(requestService, bookingService),
		BookingHandler:  handler.NewBookingHandler(bookingService),
		PaymentHandler:  handler.NewPaymentHandler(paymentService),
		FeedbackHandler: handler.NewFeedbackHandler(feedbackService),
		FleetHandler:    handler.NewFleetHandler(fleetService),
		ProfileHandler:  handler.NewProfileHandler(profileService),
		JWTSecret:       []byte(cfg.Auth.JWTSecret),
		RedisClient:     redisClient,
		NewRelicApp:     nrApp,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
