package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medical-tourism-concierge/config"
	deliveryHttp "medical-tourism-concierge/internal/delivery/http"
	"medical-tourism-concierge/internal/delivery/http/handler"
	"medical-tourism-concierge/internal/delivery/http/middleware"
	"medical-tourism-concierge/internal/infrastructure/cache"
	"medical-tourism-concierge/internal/infrastructure/database"
	"medical-tourism-concierge/internal/repository"
	"medical-tourism-concierge/internal/service"
	"medical-tourism-concierge/internal/usecase"
	"medical-tourism-concierge/migrations"
	"medical-tourism-concierge/pkg/jwt"
	"medical-tourism-concierge/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Hub         *service.NotificationHub
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New(configPath string) (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	app.Log = newLogger(cfg.App)
	app.Log.Info("Configuration loaded successfully")

	if cfg.DB.AutoMigrate {
		if err := runMigrations(cfg.DB, app.Log, func(m *database.Migrator) error { return m.Up() }); err != nil {
			return nil, err
		}
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, app.Log, cfg.App.IsDevelopment())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	app.Log.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, app.Log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	if err := app.initializeServer(); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

func newLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	if cfg.IsDevelopment() {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

// initializeServer wires every layer and creates the HTTP server
func (app *App) initializeServer() error {
	cfg, db, redisClient, log := app.Config, app.DB, app.RedisClient, app.Log

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	hospitalRepo := repository.NewHospitalRepository()
	feeRepo := repository.NewFeeRepository()
	promotionRepo := repository.NewPromotionRepository()
	interpreterRepo := repository.NewInterpreterRepository()
	reservationRepo := repository.NewReservationRepository()
	reviewRepo := repository.NewReviewRepository()
	favoriteRepo := repository.NewFavoriteRepository()
	notificationRepo := repository.NewNotificationRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	tokens := service.NewTokenRegistry(redisClient, log)
	hub := service.NewNotificationHub(redisClient, log)
	idempotencyStore := service.NewIdempotencyStore(redisClient, cfg.Idempotency.TTL)
	app.Hub = hub

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, interpreterRepo, jwtService, tokens)
	userUsecase := usecase.NewUserUsecase(db, log, userRepo, interpreterRepo, auditService, tokens)
	hospitalUsecase := usecase.NewHospitalUsecase(db, log, hospitalRepo, auditService)
	feeUsecase := usecase.NewFeeUsecase(db, log, feeRepo, hospitalRepo, promotionRepo, auditService)
	promotionUsecase := usecase.NewPromotionUsecase(db, log, promotionRepo, hospitalRepo, auditService)
	interpreterUsecase := usecase.NewInterpreterUsecase(db, log, interpreterRepo, notificationRepo, auditService, hub)
	reservationUsecase := usecase.NewReservationUsecase(db, log, reservationRepo, hospitalRepo, interpreterRepo, userRepo, notificationRepo, auditService, hub)
	reviewUsecase := usecase.NewReviewUsecase(db, log, reviewRepo, hospitalRepo)
	favoriteUsecase := usecase.NewFavoriteUsecase(db, log, favoriteRepo, hospitalRepo)
	notificationUsecase := usecase.NewNotificationUsecase(db, log, notificationRepo, hub)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Health:       handler.NewHealthHandler(db, redisClient),
		Auth:         handler.NewAuthHandler(authUsecase, customValidator),
		User:         handler.NewUserHandler(userUsecase, customValidator),
		Hospital:     handler.NewHospitalHandler(hospitalUsecase, customValidator),
		Fee:          handler.NewFeeHandler(feeUsecase, customValidator),
		Promotion:    handler.NewPromotionHandler(promotionUsecase, customValidator),
		Interpreter:  handler.NewInterpreterHandler(interpreterUsecase, customValidator),
		Reservation:  handler.NewReservationHandler(reservationUsecase, customValidator),
		Review:       handler.NewReviewHandler(reviewUsecase, customValidator),
		Favorite:     handler.NewFavoriteHandler(favoriteUsecase),
		Notification: handler.NewNotificationHandler(notificationUsecase, log),
		AuditLog:     handler.NewAuditLogHandler(auditLogUsecase),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokens)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)
	rateLimitMiddleware, err := middleware.NewRateLimitMiddleware(redisClient, cfg.RateLimit.Rate)
	if err != nil {
		return fmt.Errorf("failed to create rate limiter: %w", err)
	}
	idempotencyMiddleware := middleware.NewIdempotencyMiddleware(idempotencyStore, log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		handlers,
		authMiddleware,
		corsMiddleware,
		loggingMiddleware,
		rateLimitMiddleware,
		idempotencyMiddleware,
		interpreterUsecase,
	)

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the HTTP server and blocks until it stops. A SIGINT or SIGTERM
// triggers a graceful shutdown.
func (app *App) Run() error {
	errChan := make(chan error, 1)
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errChan:
		app.Close()
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-quit:
	}

	app.Log.Info("Shutting down server...")

	// Open notification streams would otherwise hold Shutdown until timeout.
	app.Hub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
	return nil
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.Hub != nil {
		app.Hub.Stop()
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}

// Migrate loads the configuration at configPath and runs fn against the
// schema migrator.
func Migrate(configPath string, fn func(m *database.Migrator) error) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return runMigrations(cfg.DB, newLogger(cfg.App), fn)
}

func runMigrations(cfg config.DBConfig, log *logrus.Logger, fn func(m *database.Migrator) error) error {
	m, err := database.NewMigrator(cfg, migrations.FS, log)
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}
	defer m.Close()

	if err := fn(m); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
