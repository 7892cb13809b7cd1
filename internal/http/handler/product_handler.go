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

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewProductHandler creates a new product handler instance
func NewProductHandler(st *store.Store, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		store:  st,
		logger: logger,
	}
}

// List godoc
// @Summary List products
// @Description Get all products, newest first
// @Tags Products
// @Produce json
// @Success 200 {object} domain.ListResponse{data=[]domain.Product}
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products := h.store.Products()
	respondJSON(w, http.StatusOK, domain.ListResponse{Data: products, Total: len(products)})
}

// GetByID godoc
// @Summary Get product by ID
// @Tags Products
// @Produce json
// @Param id path string true "Product ID" format(uuid)
// @Success 200 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	product, err := h.store.Product(id)
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to get product", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// Create godoc
// @Summary Create product
// @Description Create a new product with derived stock status and empty history
// @Tags Products
// @Accept json
// @Produce json
// @Param request body domain.CreateProductRequest true "Product data"
// @Success 201 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	product, err := h.store.AddProduct(r.Context(), req, auth.UsernameFromContext(r.Context()))
	if err != nil {
		h.logger.Error("failed to create product", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	w.Header().Set("Location", "/api/v1/products/"+product.ID.String())
	respondJSON(w, http.StatusCreated, product)
}

// Update godoc
// @Summary Update product
// @Description Update product fields. A stock change is recorded in the product history.
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID" format(uuid)
// @Param request body domain.UpdateProductRequest true "Product data"
// @Success 200 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /products/{id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var req domain.UpdateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	product, err := h.store.UpdateProduct(r.Context(), id, req, auth.UsernameFromContext(r.Context()))
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to update product", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// AdjustStock godoc
// @Summary Adjust product stock
// @Description Apply a signed stock delta with a reason. Stock clamps at zero; the requested delta is what lands in history.
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID" format(uuid)
// @Param request body domain.AdjustStockRequest true "Delta and reason"
// @Success 200 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /products/{id}/adjust-stock [post]
func (h *ProductHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var req domain.AdjustStockRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	product, err := h.store.AdjustStock(r.Context(), id, req.Delta, req.Reason, auth.UsernameFromContext(r.Context()))
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to adjust stock", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to adjust stock")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// BulkDelete godoc
// @Summary Delete products
// @Description Delete products by ID. Unknown IDs are skipped; the response reports how many were removed.
// @Tags Products
// @Accept json
// @Produce json
// @Param request body domain.BulkIDsRequest true "Product IDs"
// @Success 200 {object} map[string]int
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /products/bulk-delete [post]
func (h *ProductHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req domain.BulkIDsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	removed, err := h.store.DeleteProducts(r.Context(), req.IDs, auth.UsernameFromContext(r.Context()))
	if err != nil {
		h.logger.Error("failed to delete products", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete products")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// BulkStatusOverride godoc
// @Summary Override stock status
// @Description Force a stock status onto products, bypassing derivation until the next stock change
// @Tags Products
// @Accept json
// @Produce json
// @Param request body domain.BulkStatusOverrideRequest true "Product IDs and status"
// @Success 200 {object} map[string]int
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /products/bulk-status [post]
func (h *ProductHandler) BulkStatusOverride(w http.ResponseWriter, r *http.Request) {
	var req domain.BulkStatusOverrideRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	updated, err := h.store.OverrideStatus(r.Context(), req.IDs, req.Status, auth.UsernameFromContext(r.Context()))
	if err != nil {
		h.logger.Error("failed to override status", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to override status")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"updated": updated})
}
