package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trainmate/internal/api"
	"trainmate/internal/cache"
	"trainmate/internal/config"
	"trainmate/internal/functions"
	"trainmate/internal/notify"
	"trainmate/internal/repository/postgres"
	"trainmate/internal/service"
	"trainmate/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting TrainMate server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	db, err := postgres.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("FATAL: Could not run migrations: %v", err)
	}
	log.Println("Database connection established.")

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	userRepo := postgres.NewUserRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	planRepo := postgres.NewTrainingPlanRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	anthroRepo := postgres.NewAnthropometricRepository(db)
	documentRepo := postgres.NewDocumentRepository(db)
	alertRepo := postgres.NewAlertRepository(db)

	// --- Query Cache and Notifications ---
	queryCache := cache.New()
	notifier := notify.NewService(notify.LogSink())

	// --- Initialize Services ---
	log.Println("Initializing services...")
	fns := functions.NewClient(cfg.Functions)
	svcs := api.Services{
		Auth:         service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration),
		TrainingPlan: service.NewTrainingPlanService(planRepo, queryCache, notifier),
		Client: service.NewClientService(
			clientRepo, planRepo, appointmentRepo, anthroRepo, documentRepo, alertRepo,
			queryCache, notifier,
		),
		Appointment:    service.NewAppointmentService(appointmentRepo, queryCache, notifier),
		Anthropometric: service.NewAnthropometricService(anthroRepo),
		Document:       service.NewDocumentService(documentRepo, fileStorage),
		Alert:          service.NewAlertService(alertRepo, queryCache),
		Sharing:        service.NewSharingService(planRepo, clientRepo, fns, notifier),
	}

	// --- Initialize Gin Engine and Routes ---
	router := gin.Default()
	api.SetupRoutes(router, cfg.Server.AllowedOrigins, svcs)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}
	log.Println("Server exited.")
}
