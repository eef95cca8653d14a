package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stablebook-service/internal/infrastructure/config"
	"stablebook-service/internal/infrastructure/persistence"
	"stablebook-service/internal/interface/events"
	"stablebook-service/internal/interface/httpapi"
	bookingRepo "stablebook-service/internal/interface/repository"
	"stablebook-service/internal/usecase"
	"stablebook-service/pkg/logger"
	"stablebook-service/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Stablebook Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid booking time zone", "timezone", cfg.TimeZone, "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection for slot documents
	log.Info("Connecting to MongoDB")
	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	db := persistence.GetDatabase(mongoClient, cfg.MongoDB)

	// Set up PostgreSQL for facility configuration
	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}
	if err := gormDB.AutoMigrate(&bookingRepo.Facilities{}); err != nil {
		log.Fatal("Failed to migrate facilities table", "error", err)
	}

	// Redis cache is optional; a nil client falls back to Postgres reads
	redisClient := persistence.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if redisClient == nil {
		log.Warn("Redis unavailable, facility cache disabled")
	}

	// Set up repositories
	slotRepository := bookingRepo.NewMongoSlotRepository(mongoClient, db, loc)
	facilityRepository := bookingRepo.NewCachedFacilityRepository(
		bookingRepo.NewGormFacilityRepository(gormDB),
		redisClient,
		cfg.FacilityTTL,
		log,
	)

	// Booking events; the service degrades to log-only when the broker is down
	publisher, err := events.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
	if err != nil {
		log.Warn("RabbitMQ unavailable, booking events disabled", "error", err)
		publisher = nil
	} else {
		defer publisher.Close()
	}

	m := metrics.NewMetrics("stablebook")
	bookingUsecase := usecase.NewBookingUsecase(slotRepository, facilityRepository, publisher, m, log, loc, cfg.MaxSuggestions)

	// Set up HTTP server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	handler := httpapi.NewBookingHandler(bookingUsecase, facilityRepository, log, loc)
	httpapi.RegisterRoutes(e, handler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Stablebook Service stopped")
}
