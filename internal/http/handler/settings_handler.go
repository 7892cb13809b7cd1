package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/internal/auth"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/buildmart-as/inventory-api/internal/store"
)

// SettingsHandler handles HTTP requests for application settings
type SettingsHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewSettingsHandler creates a new settings handler instance
func NewSettingsHandler(st *store.Store, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		store:  st,
		logger: logger,
	}
}

// Get godoc
// @Summary Get settings
// @Tags Settings
// @Produce json
// @Success 200 {object} domain.Settings
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /settings [get]
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Settings())
}

// Update godoc
// @Summary Update settings
// @Description Update the low-stock threshold and default currency. Existing product statuses are not recomputed.
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body domain.UpdateSettingsRequest true "Settings"
// @Success 200 {object} domain.Settings
// @Failure 400 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /settings [put]
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateSettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	settings, err := h.store.UpdateSettings(r.Context(), req, auth.UsernameFromContext(r.Context()))
	if err != nil {
		h.logger.Error("failed to update settings", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	respondJSON(w, http.StatusOK, settings)
}
