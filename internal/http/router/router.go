package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/internal/auth"
	"github.com/buildmart-as/inventory-api/internal/cache"
	"github.com/buildmart-as/inventory-api/internal/config"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/buildmart-as/inventory-api/internal/http/handler"
	"github.com/buildmart-as/inventory-api/internal/http/middleware"
	"github.com/buildmart-as/inventory-api/internal/warehouse"

	_ "github.com/buildmart-as/inventory-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg             *config.Config
	logger          *zap.Logger
	cacheStore      *cache.Store
	warehouseClient *warehouse.Client
	authMiddleware  *auth.Middleware
	rateLimiter     *middleware.RateLimiter
	auditMiddleware *middleware.AuditMiddleware

	authHandler          *handler.AuthHandler
	productHandler       *handler.ProductHandler
	salesOrderHandler    *handler.SalesOrderHandler
	purchaseOrderHandler *handler.PurchaseOrderHandler
	documentHandler      *handler.DocumentHandler
	supplierHandler      *handler.SupplierHandler
	userHandler          *handler.UserHandler
	gatePassHandler      *handler.GatePassHandler
	reminderHandler      *handler.ReminderHandler
	categoryHandler      *handler.CategoryHandler
	settingsHandler      *handler.SettingsHandler
	reportHandler        *handler.ReportHandler
	exportHandler        *handler.ExportHandler
	auditHandler         *handler.AuditHandler
	syncHandler          *handler.SyncHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	cacheStore *cache.Store,
	warehouseClient *warehouse.Client,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	auditMiddleware *middleware.AuditMiddleware,
	authHandler *handler.AuthHandler,
	productHandler *handler.ProductHandler,
	salesOrderHandler *handler.SalesOrderHandler,
	purchaseOrderHandler *handler.PurchaseOrderHandler,
	documentHandler *handler.DocumentHandler,
	supplierHandler *handler.SupplierHandler,
	userHandler *handler.UserHandler,
	gatePassHandler *handler.GatePassHandler,
	reminderHandler *handler.ReminderHandler,
	categoryHandler *handler.CategoryHandler,
	settingsHandler *handler.SettingsHandler,
	reportHandler *handler.ReportHandler,
	exportHandler *handler.ExportHandler,
	auditHandler *handler.AuditHandler,
	syncHandler *handler.SyncHandler,
) *Router {
	return &Router{
		cfg:                  cfg,
		logger:               logger,
		cacheStore:           cacheStore,
		warehouseClient:      warehouseClient,
		authMiddleware:       authMiddleware,
		rateLimiter:          rateLimiter,
		auditMiddleware:      auditMiddleware,
		authHandler:          authHandler,
		productHandler:       productHandler,
		salesOrderHandler:    salesOrderHandler,
		purchaseOrderHandler: purchaseOrderHandler,
		documentHandler:      documentHandler,
		supplierHandler:      supplierHandler,
		userHandler:          userHandler,
		gatePassHandler:      gatePassHandler,
		reminderHandler:      reminderHandler,
		categoryHandler:      categoryHandler,
		settingsHandler:      settingsHandler,
		reportHandler:        reportHandler,
		exportHandler:        exportHandler,
		auditHandler:         auditHandler,
		syncHandler:          syncHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Cache health check
	r.Get("/health/cache", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := rt.cacheStore.HealthCheck(r.Context()); err != nil {
			rt.logger.Error("Cache health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "cache",
			})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "cache",
		})
	})

	// Combined readiness check. The warehouse is optional, so its state is
	// reported but never fails readiness.
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := rt.cacheStore.HealthCheck(r.Context()); err != nil {
			checks["cache"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["cache"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		checks["warehouse"] = rt.warehouseClient.HealthCheck(r.Context())

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		if !allHealthy {
			status = "unhealthy"
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/login", rt.authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.auditMiddleware.Audit)

			// Products
			r.Route("/products", func(r chi.Router) {
				r.Get("/", rt.productHandler.List)
				r.Post("/", rt.productHandler.Create)
				r.Post("/bulk-delete", rt.productHandler.BulkDelete)
				r.Post("/bulk-status", rt.productHandler.BulkStatusOverride)
				r.Get("/{id}", rt.productHandler.GetByID)
				r.Put("/{id}", rt.productHandler.Update)
				r.Post("/{id}/adjust-stock", rt.productHandler.AdjustStock)
			})

			// Sales orders and their documents
			r.Route("/sales-orders", func(r chi.Router) {
				r.Get("/", rt.salesOrderHandler.List)
				r.Post("/", rt.salesOrderHandler.Create)
				r.Get("/{id}", rt.salesOrderHandler.GetByID)
				r.Put("/{id}/status", rt.salesOrderHandler.UpdateStatus)
				r.Get("/{id}/packing-slips", rt.documentHandler.ListPackingSlips)
				r.Post("/{id}/packing-slips", rt.documentHandler.IssuePackingSlip)
				r.Get("/{id}/shipping-labels", rt.documentHandler.ListShippingLabels)
				r.Post("/{id}/shipping-labels", rt.documentHandler.IssueShippingLabel)
			})

			// Purchase orders
			r.Route("/purchase-orders", func(r chi.Router) {
				r.Get("/", rt.purchaseOrderHandler.List)
				r.Post("/", rt.purchaseOrderHandler.Create)
				r.Get("/{id}", rt.purchaseOrderHandler.GetByID)
				r.Put("/{id}/status", rt.purchaseOrderHandler.UpdateStatus)
				r.Put("/{id}/tracking", rt.purchaseOrderHandler.UpdateTracking)
			})

			// Suppliers
			r.Route("/suppliers", func(r chi.Router) {
				r.Get("/", rt.supplierHandler.List)
				r.Post("/", rt.supplierHandler.Create)
				r.Get("/{id}", rt.supplierHandler.GetByID)
				r.Put("/{id}", rt.supplierHandler.Update)
				r.Delete("/{id}", rt.supplierHandler.Delete)
			})

			// Gate passes
			r.Route("/gate-passes", func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireRole(domain.RoleGate, domain.RoleWarehouse))
				r.Get("/", rt.gatePassHandler.List)
				r.Post("/", rt.gatePassHandler.Create)
				r.Post("/{id}/clear", rt.gatePassHandler.Clear)
			})

			// Reminders
			r.Route("/reminders", func(r chi.Router) {
				r.Get("/", rt.reminderHandler.List)
				r.Post("/", rt.reminderHandler.Create)
				r.Post("/{id}/complete", rt.reminderHandler.Complete)
				r.Delete("/{id}", rt.reminderHandler.Delete)
			})

			// Categories (keyed by name)
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", rt.categoryHandler.List)
				r.Post("/", rt.categoryHandler.Create)
				r.Put("/{name}", rt.categoryHandler.Rename)
				r.Delete("/{name}", rt.categoryHandler.Delete)
			})

			// Settings (admin only)
			r.Route("/settings", func(r chi.Router) {
				r.Get("/", rt.settingsHandler.Get)
				r.With(rt.authMiddleware.RequireAdmin).Put("/", rt.settingsHandler.Update)
			})

			// Reports
			r.Route("/reports", func(r chi.Router) {
				r.Get("/inventory", rt.reportHandler.Inventory)
				r.Get("/sales", rt.reportHandler.Sales)
				r.Get("/purchasing", rt.reportHandler.Purchasing)
			})

			// Exports
			r.Route("/export", func(r chi.Router) {
				r.Get("/products", rt.exportHandler.Products)
				r.Get("/sales-orders", rt.exportHandler.SalesOrders)
				r.Get("/purchase-orders", rt.exportHandler.PurchaseOrders)
			})

			// Audit trail (admin only)
			r.With(rt.authMiddleware.RequireAdmin).Get("/audit", rt.auditHandler.List)

			// Offline sync
			r.Route("/sync", func(r chi.Router) {
				r.Get("/status", rt.syncHandler.Status)
				r.Post("/drain", rt.syncHandler.Drain)
			})

			// User management (admin only)
			r.Route("/users", func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireAdmin)
				r.Get("/", rt.userHandler.List)
				r.Post("/", rt.userHandler.Create)
				r.Put("/{id}", rt.userHandler.Update)
				r.Delete("/{id}", rt.userHandler.Delete)
			})
		})
	})

	return r
}
