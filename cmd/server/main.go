package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carpool-service/internal/domain/repository"
	"carpool-service/internal/infrastructure/config"
	"carpool-service/internal/infrastructure/persistence"
	httpapi "carpool-service/internal/interface/http"
	mongoRepo "carpool-service/internal/interface/repository"
	"carpool-service/internal/usecase"
	"carpool-service/pkg/logger"
	"carpool-service/pkg/metrics"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Carpool Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	db := persistence.GetDatabase(mongoClient, cfg.MongoDB)

	// Audit trail is optional; without a DSN the services skip it.
	var eventRepo repository.RideEventRepository
	if cfg.PostgresURI != "" {
		gormDB, err := persistence.NewPostgres(cfg.PostgresURI)
		if err != nil {
			log.Error("Audit database unavailable, continuing without audit trail", "error", err)
		} else {
			eventRepo = mongoRepo.NewGormRideEventRepository(gormDB)
		}
	}

	// Set up repositories
	userRepo := mongoRepo.NewMongoUserRepository(db)
	rideRepo := mongoRepo.NewMongoRideRepository(db)

	// Set up metrics
	m := metrics.NewMetrics(cfg.MetricsNamespace)

	// Set up services
	userService := usecase.NewUserService(userRepo, log)
	rideService := usecase.NewRideService(rideRepo, userRepo, eventRepo, m, cfg.DefaultRadiusKm, log)
	notificationService := usecase.NewNotificationService(userRepo, rideRepo, eventRepo, m, log)

	// Set up HTTP server
	handler := httpapi.NewHandler(userService, rideService, notificationService, log)
	router := httpapi.NewRouter(handler, log, m)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
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

	log.Info("Carpool Service stopped")
}
