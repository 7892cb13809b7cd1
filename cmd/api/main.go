package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/docs"
	"github.com/buildmart-as/inventory-api/internal/auth"
	"github.com/buildmart-as/inventory-api/internal/cache"
	"github.com/buildmart-as/inventory-api/internal/config"
	"github.com/buildmart-as/inventory-api/internal/http/handler"
	"github.com/buildmart-as/inventory-api/internal/http/middleware"
	"github.com/buildmart-as/inventory-api/internal/http/router"
	"github.com/buildmart-as/inventory-api/internal/jobs"
	"github.com/buildmart-as/inventory-api/internal/logger"
	"github.com/buildmart-as/inventory-api/internal/queue"
	"github.com/buildmart-as/inventory-api/internal/reports"
	"github.com/buildmart-as/inventory-api/internal/storage"
	"github.com/buildmart-as/inventory-api/internal/store"
	"github.com/buildmart-as/inventory-api/internal/syncer"
	"github.com/buildmart-as/inventory-api/internal/warehouse"
)

// @title BuildMart Inventory API
// @version 1.0
// @description Inventory, sales and purchasing API for construction materials trading
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@buildmart.no

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token
// @Security BearerAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "inventory-staging.buildmart.no"
	case "production":
		docs.SwaggerInfo.Host = "inventory.buildmart.no"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Open the local cache (sqlite file by default, postgres for shared
	// deployments)
	db, err := cache.NewDatabase(&cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}
	cacheStore := cache.NewStore(db, log)
	actionQueue := queue.New(db, log)

	log.Info("Cache opened", zap.String("driver", cfg.Cache.Driver))

	// Initialize document storage
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Remote sync client (optional). With sync disabled every action stays
	// in the durable queue until an operator drains it manually.
	var syncClient *syncer.Client
	if cfg.RemoteSync.Enabled {
		syncClient = syncer.NewClient(&cfg.RemoteSync, log)
		log.Info("Remote sync enabled", zap.String("base_url", cfg.RemoteSync.BaseURL))
	} else {
		log.Info("Remote sync disabled, actions accumulate in the local queue")
	}

	// Build the state manager and hydrate it from the cache
	storeOpts := []store.Option{
		store.WithDefaults(store.Defaults{
			LowStockThreshold: cfg.Inventory.DefaultLowStockThreshold,
			DefaultCurrency:   cfg.Inventory.DefaultCurrency,
		}),
	}
	if syncClient != nil {
		storeOpts = append(storeOpts, store.WithDispatch(syncClient.PushAction))
	}
	st := store.New(cacheStore, actionQueue, log, storeOpts...)
	if err := st.Load(ctx); err != nil {
		return fmt.Errorf("failed to load state from cache: %w", err)
	}

	// Initialize warehouse connection (optional - for historical reports)
	// This connection is read-only and the app continues without it
	var whClient *warehouse.Client
	if cfg.Warehouse.Enabled {
		whClient, err = warehouse.NewClient(&cfg.Warehouse, log)
		if err != nil {
			// Log error but don't fail - the warehouse is optional
			log.Warn("Warehouse connection failed, continuing without it",
				zap.Error(err),
			)
		} else if whClient != nil {
			log.Info("Warehouse connected successfully",
				zap.Int("max_open_conns", cfg.Warehouse.MaxOpenConns),
				zap.Int("query_timeout_seconds", cfg.Warehouse.QueryTimeout),
			)
		}
	} else {
		log.Info("Warehouse not configured, skipping",
			zap.Bool("enabled", cfg.Warehouse.Enabled),
		)
	}

	reportService := reports.NewService(st, whClient, log)

	// Initialize middleware
	tokenService := auth.NewTokenService(&cfg.Auth)
	authMiddleware := auth.NewMiddleware(tokenService, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	auditMiddleware := middleware.NewAuditMiddleware(st, nil, log)

	// Background jobs
	scheduler := jobs.NewScheduler(log)

	var syncJob *jobs.SyncJob
	if syncClient != nil {
		syncJob = jobs.NewSyncJob(actionQueue, syncClient, log, cfg.RemoteSync.DrainTimeoutDuration())
		if err := jobs.RegisterSyncJob(scheduler, syncJob, cfg.RemoteSync.DrainCron); err != nil {
			log.Error("Failed to register queue drain job", zap.Error(err))
		}
	}

	reminderJob := jobs.NewReminderJob(st, log)
	// Scan for overdue reminders at the top of every hour
	if err := jobs.RegisterReminderJob(scheduler, reminderJob, "0 0 * * * *"); err != nil {
		log.Error("Failed to register reminder scan job", zap.Error(err))
	}

	scheduler.Start()
	log.Info("Scheduler started", zap.Strings("jobs", scheduler.GetJobNames()))

	// Initialize handlers
	authHandler := handler.NewAuthHandler(st, tokenService, log)
	productHandler := handler.NewProductHandler(st, log)
	salesOrderHandler := handler.NewSalesOrderHandler(st, log)
	purchaseOrderHandler := handler.NewPurchaseOrderHandler(st, log)
	documentHandler := handler.NewDocumentHandler(st, fileStorage, log)
	supplierHandler := handler.NewSupplierHandler(st, log)
	userHandler := handler.NewUserHandler(st, log)
	gatePassHandler := handler.NewGatePassHandler(st, log)
	reminderHandler := handler.NewReminderHandler(st, log)
	categoryHandler := handler.NewCategoryHandler(st, log)
	settingsHandler := handler.NewSettingsHandler(st, log)
	reportHandler := handler.NewReportHandler(reportService, log)
	exportHandler := handler.NewExportHandler(st, log)
	auditHandler := handler.NewAuditHandler(st, log)
	syncHandler := handler.NewSyncHandler(st, syncClient, syncJob, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		cacheStore,
		whClient,
		authMiddleware,
		rateLimiter,
		auditMiddleware,
		authHandler,
		productHandler,
		salesOrderHandler,
		purchaseOrderHandler,
		documentHandler,
		supplierHandler,
		userHandler,
		gatePassHandler,
		reminderHandler,
		categoryHandler,
		settingsHandler,
		reportHandler,
		exportHandler,
		auditHandler,
		syncHandler,
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler and wait for running jobs
		stopCtx := scheduler.Stop()
		<-stopCtx.Done()
		log.Info("Scheduler stopped")

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// Close warehouse connection if initialized
		if whClient != nil {
			if err := whClient.Close(); err != nil {
				log.Warn("Error closing warehouse connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
