package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/internal/auth"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/buildmart-as/inventory-api/internal/store"
)

// CategoryHandler handles HTTP requests for category operations.
// Categories are keyed by name, not ID.
type CategoryHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCategoryHandler creates a new category handler instance
func NewCategoryHandler(st *store.Store, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		store:  st,
		logger: logger,
	}
}

// List godoc
// @Summary List categories
// @Tags Categories
// @Produce json
// @Success 200 {object} domain.ListResponse{data=[]domain.Category}
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /categories [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories := h.store.Categories()
	respondJSON(w, http.StatusOK, domain.ListResponse{Data: categories, Total: len(categories)})
}

// Create godoc
// @Summary Create category
// @Tags Categories
// @Accept json
// @Produce json
// @Param request body domain.CategoryRequest true "Category name"
// @Success 201 {object} domain.Category
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Category already exists"
// @Security BearerAuth
// @Router /categories [post]
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	category, err := h.store.AddCategory(r.Context(), req.Name, auth.UsernameFromContext(r.Context()))
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to create category", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	respondJSON(w, http.StatusCreated, category)
}

// Rename godoc
// @Summary Rename category
// @Description Rename a category and retag every product carrying the old name. The Uncategorized sentinel cannot be renamed.
// @Tags Categories
// @Accept json
// @Produce json
// @Param name path string true "Current category name"
// @Param request body domain.RenameCategoryRequest true "New name"
// @Success 200 {object} domain.Category
// @Failure 400 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse "Protected category"
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "New name already taken"
// @Security BearerAuth
// @Router /categories/{name} [put]
func (h *CategoryHandler) Rename(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req domain.RenameCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	category, err := h.store.RenameCategory(r.Context(), name, req.NewName, auth.UsernameFromContext(r.Context()))
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to rename category", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to rename category")
		return
	}

	respondJSON(w, http.StatusOK, category)
}

// Delete godoc
// @Summary Delete category
// @Description Delete a category. Products carrying it are retagged to Uncategorized.
// @Tags Categories
// @Param name path string true "Category name"
// @Success 204 "No Content"
// @Failure 403 {object} domain.ErrorResponse "Protected category"
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /categories/{name} [delete]
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.store.DeleteCategory(r.Context(), name, auth.UsernameFromContext(r.Context())); err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to delete category", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
