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

// ReminderHandler handles HTTP requests for reminder operations
type ReminderHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewReminderHandler creates a new reminder handler instance
func NewReminderHandler(st *store.Store, logger *zap.Logger) *ReminderHandler {
	return &ReminderHandler{
		store:  st,
		logger: logger,
	}
}

// List godoc
// @Summary List reminders
// @Tags Reminders
// @Produce json
// @Success 200 {object} domain.ListResponse{data=[]domain.Reminder}
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /reminders [get]
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	reminders := h.store.Reminders()
	respondJSON(w, http.StatusOK, domain.ListResponse{Data: reminders, Total: len(reminders)})
}

// Create godoc
// @Summary Create reminder
// @Tags Reminders
// @Accept json
// @Produce json
// @Param request body domain.CreateReminderRequest true "Reminder data"
// @Success 201 {object} domain.Reminder
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /reminders [post]
func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateReminderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	reminder, err := h.store.AddReminder(r.Context(), req, auth.UsernameFromContext(r.Context()))
	if err != nil {
		h.logger.Error("failed to create reminder", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create reminder")
		return
	}

	respondJSON(w, http.StatusCreated, reminder)
}

// Complete godoc
// @Summary Complete reminder
// @Tags Reminders
// @Produce json
// @Param id path string true "Reminder ID" format(uuid)
// @Success 200 {object} domain.Reminder
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Reminder already completed"
// @Security BearerAuth
// @Router /reminders/{id}/complete [post]
func (h *ReminderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid reminder ID format")
		return
	}

	reminder, err := h.store.CompleteReminder(r.Context(), id, auth.UsernameFromContext(r.Context()))
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to complete reminder", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to complete reminder")
		return
	}

	respondJSON(w, http.StatusOK, reminder)
}

// Delete godoc
// @Summary Delete reminder
// @Tags Reminders
// @Param id path string true "Reminder ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /reminders/{id} [delete]
func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid reminder ID format")
		return
	}

	if err := h.store.DeleteReminder(r.Context(), id, auth.UsernameFromContext(r.Context())); err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to delete reminder", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete reminder")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
