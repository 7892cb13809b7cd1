package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/internal/auth"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/buildmart-as/inventory-api/internal/store"
)

// GatePassHandler handles HTTP requests for gate pass operations
type GatePassHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewGatePassHandler creates a new gate pass handler instance
func NewGatePassHandler(st *store.Store, logger *zap.Logger) *GatePassHandler {
	return &GatePassHandler{
		store:  st,
		logger: logger,
	}
}

// List godoc
// @Summary List gate passes
// @Tags GatePasses
// @Produce json
// @Success 200 {object} domain.ListResponse{data=[]domain.GatePass}
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /gate-passes [get]
func (h *GatePassHandler) List(w http.ResponseWriter, r *http.Request) {
	passes := h.store.GatePasses()
	respondJSON(w, http.StatusOK, domain.ListResponse{Data: passes, Total: len(passes)})
}

// Create godoc
// @Summary Issue gate pass
// @Description Issue a gate pass for an existing sales order
// @Tags GatePasses
// @Accept json
// @Produce json
// @Param request body domain.CreateGatePassRequest true "Gate pass data"
// @Success 201 {object} domain.GatePass
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse "Sales order not found"
// @Security BearerAuth
// @Router /gate-passes [post]
func (h *GatePassHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateGatePassRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	pass, err := h.store.AddGatePass(r.Context(), req, auth.UsernameFromContext(r.Context()))
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to issue gate pass", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to issue gate pass")
		return
	}

	respondJSON(w, http.StatusCreated, pass)
}

// Clear godoc
// @Summary Clear gate pass
// @Description Mark a gate pass as exited and record the clearance on the linked order
// @Tags GatePasses
// @Accept json
// @Produce json
// @Param id path string true "Gate pass ID" format(uuid)
// @Param request body domain.ClearGatePassRequest true "Clearance data"
// @Success 200 {object} domain.GatePass
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Gate pass already exited"
// @Security BearerAuth
// @Router /gate-passes/{id}/clear [post]
func (h *GatePassHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid gate pass ID format")
		return
	}

	var req domain.ClearGatePassRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	pass, err := h.store.ClearGatePass(r.Context(), id, req.ClearedBy, auth.UsernameFromContext(r.Context()))
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to clear gate pass", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to clear gate pass")
		return
	}

	respondJSON(w, http.StatusOK, pass)
}
