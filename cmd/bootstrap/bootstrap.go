package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-backoffice/config"
	"clinic-backoffice/internal/authz"
	deliveryHttp "clinic-backoffice/internal/delivery/http"
	"clinic-backoffice/internal/delivery/http/handler"
	"clinic-backoffice/internal/delivery/http/middleware"
	"clinic-backoffice/internal/events"
	"clinic-backoffice/internal/infrastructure/cache"
	"clinic-backoffice/internal/infrastructure/database"
	"clinic-backoffice/internal/job"
	"clinic-backoffice/internal/pricing"
	"clinic-backoffice/internal/realtime"
	"clinic-backoffice/internal/repository"
	"clinic-backoffice/internal/service"
	"clinic-backoffice/internal/usecase"
	"clinic-backoffice/pkg/jwt"
	"clinic-backoffice/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Scheduler   *job.Scheduler
	Bus         *events.Bus
	Hub         *realtime.Hub
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	setupLogger(cfg.Log)
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	if err := app.initialize(cfg, db, redisClient); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// setupLogger configures the logrus logger. A configured log file is
// written alongside stdout and rotated by size.
func setupLogger(cfg config.LogConfig) {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
	}
	logrus.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// initialize wires repositories, usecases, handlers and background workers
func (app *App) initialize(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) error {
	log := logrus.StandardLogger()
	catalog := authz.DefaultCatalog

	// Initialize JWT service and token store
	jwtService := jwt.NewJWTService(cfg.JWT)
	tokenStore := cache.NewTokenStore(redisClient)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	productRepo := repository.NewProductRepository()
	saleRepo := repository.NewSaleRepository()
	patientRepo := repository.NewPatientRepository()
	salesAgentRepo := repository.NewSalesAgentRepository()
	expenseRepo := repository.NewExpenseRepository()
	settingRepo := repository.NewSettingRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	if err := database.SeedAdmin(context.Background(), db, roleRepo, userRepo, cfg.Admin); err != nil {
		return err
	}

	// Events and realtime fan-out
	bus := events.NewBus(log)
	hub := realtime.NewHub(log)
	if err := hub.Attach(bus); err != nil {
		return fmt.Errorf("failed to attach realtime hub: %w", err)
	}
	app.Bus = bus
	app.Hub = hub

	// Initialize services
	auditService := service.NewAuditService(db, log, auditLogRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, catalog, userRepo, jwtService, tokenStore, auditService)
	userUsecase := usecase.NewUserUsecase(db, log, userRepo, roleRepo, tokenStore, auditService)
	roleUsecase := usecase.NewRoleUsecase(db, log, catalog, roleRepo, userRepo, auditService)
	productUsecase := usecase.NewProductUsecase(db, log, productRepo, auditService, bus)
	saleUsecase := usecase.NewSaleUsecase(db, log, pricing.ParsePolicy(cfg.Sale.NegativeTotal),
		saleRepo, productRepo, patientRepo, salesAgentRepo, userRepo, auditService, bus)
	patientUsecase := usecase.NewPatientUsecase(db, log, patientRepo, auditService, bus)
	salesAgentUsecase := usecase.NewSalesAgentUsecase(db, log, salesAgentRepo, auditService)
	expenseUsecase := usecase.NewExpenseUsecase(db, log, expenseRepo, auditService, bus)
	settingUsecase := usecase.NewSettingUsecase(db, log, settingRepo, auditService, bus)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)
	reportUsecase := usecase.NewReportUsecase(db, log, saleRepo, expenseRepo)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore)
	permissionMiddleware := middleware.NewPermissionMiddleware(catalog, usecase.NewRoleGrantSource(db, userRepo), log)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:       handler.NewAuthHandler(authUsecase, customValidator),
		User:       handler.NewUserHandler(userUsecase, customValidator),
		Role:       handler.NewRoleHandler(roleUsecase, customValidator),
		Product:    handler.NewProductHandler(productUsecase, customValidator),
		Sale:       handler.NewSaleHandler(saleUsecase, customValidator),
		Patient:    handler.NewPatientHandler(patientUsecase, customValidator),
		SalesAgent: handler.NewSalesAgentHandler(salesAgentUsecase, customValidator),
		Expense:    handler.NewExpenseHandler(expenseUsecase, customValidator),
		Setting:    handler.NewSettingHandler(settingUsecase, customValidator),
		AuditLog:   handler.NewAuditLogHandler(auditLogUsecase),
		Report:     handler.NewReportHandler(reportUsecase),
		WS:         handler.NewWSHandler(hub, authMiddleware, log),
	}

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, authMiddleware, permissionMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Background jobs
	scheduler := job.NewScheduler(log)
	if err := job.NewAuditRetention(log, settingUsecase, auditLogUsecase).Schedule(scheduler, cfg.Audit.RetentionSchedule); err != nil {
		return fmt.Errorf("failed to schedule audit retention: %w", err)
	}
	app.Scheduler = scheduler

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	app.Server = &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	app.Scheduler.Start()

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

// Close stops background workers and closes all connections
func (app *App) Close() {
	if app.Scheduler != nil {
		app.Scheduler.Stop()
	}

	// Hijacked websocket connections are not closed by Server.Shutdown
	if app.Hub != nil {
		app.Hub.Close()
	}
	if app.Bus != nil {
		app.Bus.Wait()
	}

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
