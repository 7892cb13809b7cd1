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

// UserHandler handles HTTP requests for user management. All routes are
// admin-gated in the router.
type UserHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(st *store.Store, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		store:  st,
		logger: logger,
	}
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {object} domain.ListResponse{data=[]domain.User}
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users := h.store.Users()
	respondJSON(w, http.StatusOK, domain.ListResponse{Data: users, Total: len(users)})
}

// Create godoc
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Param request body domain.CreateUserRequest true "User data"
// @Success 201 {object} domain.User
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Username already taken"
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}
	for _, role := range req.Roles {
		if !role.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Unknown role: "+string(role))
			return
		}
	}

	user, err := h.store.AddUser(r.Context(), req, auth.UsernameFromContext(r.Context()))
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to create user", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	w.Header().Set("Location", "/api/v1/users/"+user.ID.String())
	respondJSON(w, http.StatusCreated, user)
}

// Update godoc
// @Summary Update user
// @Description Update display name, roles, status, and optionally the password. An empty password keeps the current one.
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID" format(uuid)
// @Param request body domain.UpdateUserRequest true "User data"
// @Success 200 {object} domain.User
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req domain.UpdateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}
	for _, role := range req.Roles {
		if !role.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Unknown role: "+string(role))
			return
		}
	}

	user, err := h.store.UpdateUser(r.Context(), id, req, auth.UsernameFromContext(r.Context()))
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to update user", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// Delete godoc
// @Summary Delete user
// @Tags Users
// @Param id path string true "User ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if err := h.store.DeleteUser(r.Context(), id, auth.UsernameFromContext(r.Context())); err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to delete user", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
