package handler

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/buildmart-as/inventory-api/internal/store"
)

// AuditHandler handles HTTP requests for the audit trail
type AuditHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewAuditHandler creates a new audit handler instance
func NewAuditHandler(st *store.Store, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		store:  st,
		logger: logger,
	}
}

// List godoc
// @Summary List audit entries
// @Description Get audit entries newest first, optionally filtered
// @Tags Audit
// @Produce json
// @Param user query string false "Filter by username"
// @Param action query string false "Filter by action" Enums(create, update, delete, status_change, stock_adjust, login, export, sync, api_call)
// @Param entityType query string false "Filter by entity type"
// @Param limit query int false "Maximum entries" default(200)
// @Success 200 {object} domain.ListResponse{data=[]domain.AuditLog}
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /audit [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.AuditFilter{
		User:       r.URL.Query().Get("user"),
		Action:     domain.AuditAction(r.URL.Query().Get("action")),
		EntityType: r.URL.Query().Get("entityType"),
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		filter.Limit = limit
	}

	entries := h.store.AuditLogs(filter)
	respondJSON(w, http.StatusOK, domain.ListResponse{Data: entries, Total: len(entries)})
}
