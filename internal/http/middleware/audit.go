package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/internal/auth"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/buildmart-as/inventory-api/internal/store"
)

// AuditConfig holds configuration for audit middleware
type AuditConfig struct {
	// SkipPaths contains path prefixes that should not be audited
	SkipPaths []string
	// SkipMethods contains HTTP methods that should not be audited
	SkipMethods []string
}

// DefaultAuditConfig returns default audit configuration
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		SkipPaths: []string{
			"/health",
			"/swagger",
			"/api/v1/auth/login",
		},
		SkipMethods: []string{
			http.MethodGet,
			http.MethodOptions,
			http.MethodHead,
		},
	}
}

// AuditMiddleware records successful write requests in the audit trail.
// Domain-level entries (stock adjustments, status changes, logins) are
// recorded by the store itself; this layer adds the coarse API-call trail.
type AuditMiddleware struct {
	store  *store.Store
	config *AuditConfig
	logger *zap.Logger
}

// NewAuditMiddleware creates a new audit middleware
func NewAuditMiddleware(st *store.Store, config *AuditConfig, logger *zap.Logger) *AuditMiddleware {
	if config == nil {
		config = DefaultAuditConfig()
	}
	return &AuditMiddleware{
		store:  st,
		config: config,
		logger: logger,
	}
}

// Audit returns middleware that logs modifications to the audit trail
func (m *AuditMiddleware) Audit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.shouldAudit(r) {
			next.ServeHTTP(w, r)
			return
		}

		rw := &responseCapture{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		// Only successful modifications reach the trail
		if rw.statusCode < 200 || rw.statusCode >= 300 {
			return
		}

		action := methodToAction(r.Method)
		if action == "" {
			return
		}

		user := auth.UsernameFromContext(r.Context())
		entityType := entityTypeFromPath(routePattern(r))
		if entityType == "sync" {
			// A manual drain is a push to the remote backend, not a create
			action = domain.AuditActionSync
		}
		detail := fmt.Sprintf("%s %s", r.Method, r.URL.Path)

		m.store.RecordAPIAudit(r.Context(), user, action, entityType, detail,
			clientIP(r), RequestIDFromContext(r.Context()))
	})
}

func (m *AuditMiddleware) shouldAudit(r *http.Request) bool {
	for _, method := range m.config.SkipMethods {
		if r.Method == method {
			return false
		}
	}
	for _, skipPath := range m.config.SkipPaths {
		if strings.HasPrefix(r.URL.Path, skipPath) {
			return false
		}
	}
	return true
}

// methodToAction converts HTTP method to audit action
func methodToAction(method string) domain.AuditAction {
	switch method {
	case http.MethodPost:
		return domain.AuditActionCreate
	case http.MethodPut, http.MethodPatch:
		return domain.AuditActionUpdate
	case http.MethodDelete:
		return domain.AuditActionDelete
	default:
		return ""
	}
}

// routePattern returns the chi route pattern when available, falling back
// to the raw path.
func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// entityTypeFromPath extracts entity type from a URL path
func entityTypeFromPath(path string) string {
	// Same vocabulary the store uses for its domain-level entries, so one
	// entityType filter spans both trails.
	entityMap := map[string]string{
		"products":        "product",
		"sales-orders":    "sales_order",
		"purchase-orders": "purchase_order",
		"suppliers":       "supplier",
		"users":           "user",
		"gate-passes":     "gate_pass",
		"reminders":       "reminder",
		"categories":      "category",
		"packing-slips":   "packing_slip",
		"shipping-labels": "shipping_label",
		"settings":        "settings",
		"sync":            "sync",
	}

	// Deepest segment wins, so a packing slip issued under a sales order
	// path is recorded against the slip, not the order
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if entityType, ok := entityMap[parts[i]]; ok {
			return entityType
		}
	}

	return "unknown"
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	return r.RemoteAddr
}

// responseCapture wraps ResponseWriter to capture the status code
type responseCapture struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseCapture) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
