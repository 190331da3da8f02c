package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-scheduling/config"
	deliveryHttp "clinic-scheduling/internal/delivery/http"
	"clinic-scheduling/internal/delivery/http/handler"
	"clinic-scheduling/internal/delivery/http/middleware"
	"clinic-scheduling/internal/infrastructure/cache"
	"clinic-scheduling/internal/infrastructure/database"
	"clinic-scheduling/internal/repository"
	"clinic-scheduling/internal/service"
	"clinic-scheduling/internal/usecase"
	"clinic-scheduling/pkg/jwt"
	"clinic-scheduling/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Apply schema migrations before opening the gorm connection
	if err := database.RunMigrations(cfg.DB); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	server := initializeServer(cfg, db, redisClient)
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	facilityRepo := repository.NewFacilityRepository()
	userRepo := repository.NewUserRepository()
	patientRepo := repository.NewPatientRepository()
	resourceRepo := repository.NewResourceRepository()
	scheduleRepo := repository.NewScheduleRepository()
	availabilityRepo := repository.NewAvailabilityRepository()
	exceptionRepo := repository.NewExceptionRepository()
	slotRepo := repository.NewSlotRepository()
	bookingRepo := repository.NewBookingRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	queueRepo := repository.NewTokenQueueRepository()
	subQueueRepo := repository.NewTokenSubQueueRepository()
	categoryRepo := repository.NewTokenCategoryRepository()
	tokenRepo := repository.NewTokenRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize services
	lockService := service.NewRedisLockService(redisClient, log, cfg.Booking)
	expander := service.NewSlotExpander(cfg.Booking.MaxSlotsPerAvailability)
	registry := service.NewResourceRegistry(log, redisClient, resourceRepo, userRepo)
	auditService := service.NewAuditService(log, auditLogRepo)

	// Initialize usecases
	slotUsecase := usecase.NewSlotUsecase(db, log, cfg.Booking, expander, registry, lockService, facilityRepo, scheduleRepo, availabilityRepo, exceptionRepo, slotRepo)
	bookingUsecase := usecase.NewBookingUsecase(db, log, cfg.Booking, lockService, auditService, bookingRepo, slotRepo, patientRepo)
	scheduleUsecase := usecase.NewScheduleUsecase(db, log, lockService, registry, auditService, facilityRepo, resourceRepo, scheduleRepo, availabilityRepo, slotRepo)
	exceptionUsecase := usecase.NewExceptionUsecase(db, log, lockService, registry, auditService, facilityRepo, exceptionRepo, slotRepo)
	queueUsecase := usecase.NewQueueUsecase(db, log, registry, facilityRepo, queueRepo, subQueueRepo, categoryRepo, tokenRepo)
	tokenUsecase := usecase.NewTokenUsecase(db, log, lockService, registry, auditService, facilityRepo, patientRepo, queueRepo, subQueueRepo, categoryRepo, tokenRepo)

	// Initialize handlers
	slotHandler := handler.NewSlotHandler(slotUsecase, customValidator)
	bookingHandler := handler.NewBookingHandler(bookingUsecase, customValidator)
	scheduleHandler := handler.NewScheduleHandler(scheduleUsecase, customValidator)
	exceptionHandler := handler.NewExceptionHandler(exceptionUsecase, customValidator)
	queueHandler := handler.NewQueueHandler(queueUsecase, customValidator)
	tokenHandler := handler.NewTokenHandler(tokenUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(slotHandler, bookingHandler, scheduleHandler, exceptionHandler, queueHandler, tokenHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
