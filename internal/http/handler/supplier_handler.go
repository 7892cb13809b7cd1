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

// SupplierHandler handles HTTP requests for supplier operations
type SupplierHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewSupplierHandler creates a new supplier handler instance
func NewSupplierHandler(st *store.Store, logger *zap.Logger) *SupplierHandler {
	return &SupplierHandler{
		store:  st,
		logger: logger,
	}
}

// List godoc
// @Summary List suppliers
// @Tags Suppliers
// @Produce json
// @Success 200 {object} domain.ListResponse{data=[]domain.Supplier}
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /suppliers [get]
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	suppliers := h.store.Suppliers()
	respondJSON(w, http.StatusOK, domain.ListResponse{Data: suppliers, Total: len(suppliers)})
}

// GetByID godoc
// @Summary Get supplier by ID
// @Tags Suppliers
// @Produce json
// @Param id path string true "Supplier ID" format(uuid)
// @Success 200 {object} domain.Supplier
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /suppliers/{id} [get]
func (h *SupplierHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid supplier ID format")
		return
	}

	supplier, err := h.store.Supplier(id)
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to get supplier", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get supplier")
		return
	}

	respondJSON(w, http.StatusOK, supplier)
}

// Create godoc
// @Summary Create supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param request body domain.CreateSupplierRequest true "Supplier data"
// @Success 201 {object} domain.Supplier
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /suppliers [post]
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSupplierRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	supplier, err := h.store.AddSupplier(r.Context(), req, auth.UsernameFromContext(r.Context()))
	if err != nil {
		h.logger.Error("failed to create supplier", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create supplier")
		return
	}

	w.Header().Set("Location", "/api/v1/suppliers/"+supplier.ID.String())
	respondJSON(w, http.StatusCreated, supplier)
}

// Update godoc
// @Summary Update supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param id path string true "Supplier ID" format(uuid)
// @Param request body domain.CreateSupplierRequest true "Supplier data"
// @Success 200 {object} domain.Supplier
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /suppliers/{id} [put]
func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid supplier ID format")
		return
	}

	var req domain.CreateSupplierRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	supplier, err := h.store.UpdateSupplier(r.Context(), id, req, auth.UsernameFromContext(r.Context()))
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to update supplier", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update supplier")
		return
	}

	respondJSON(w, http.StatusOK, supplier)
}

// Delete godoc
// @Summary Delete supplier
// @Tags Suppliers
// @Param id path string true "Supplier ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /suppliers/{id} [delete]
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid supplier ID format")
		return
	}

	if err := h.store.DeleteSupplier(r.Context(), id, auth.UsernameFromContext(r.Context())); err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to delete supplier", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete supplier")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
