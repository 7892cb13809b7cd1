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

// SalesOrderHandler handles HTTP requests for sales order operations
type SalesOrderHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewSalesOrderHandler creates a new sales order handler instance
func NewSalesOrderHandler(st *store.Store, logger *zap.Logger) *SalesOrderHandler {
	return &SalesOrderHandler{
		store:  st,
		logger: logger,
	}
}

// List godoc
// @Summary List sales orders
// @Tags SalesOrders
// @Produce json
// @Success 200 {object} domain.ListResponse{data=[]domain.SalesOrder}
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /sales-orders [get]
func (h *SalesOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders := h.store.SalesOrders()
	respondJSON(w, http.StatusOK, domain.ListResponse{Data: orders, Total: len(orders)})
}

// GetByID godoc
// @Summary Get sales order by ID
// @Tags SalesOrders
// @Produce json
// @Param id path string true "Order ID" format(uuid)
// @Success 200 {object} domain.SalesOrder
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /sales-orders/{id} [get]
func (h *SalesOrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	order, err := h.store.SalesOrder(id)
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to get sales order", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get sales order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// Create godoc
// @Summary Create sales order
// @Description Create a sales order in Pending status. Stock is deducted for each line referencing a known product.
// @Tags SalesOrders
// @Accept json
// @Produce json
// @Param request body domain.CreateSalesOrderRequest true "Order data"
// @Success 201 {object} domain.SalesOrder
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /sales-orders [post]
func (h *SalesOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSalesOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.store.AddSalesOrder(r.Context(), req, auth.UsernameFromContext(r.Context()))
	if err != nil {
		h.logger.Error("failed to create sales order", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create sales order")
		return
	}

	w.Header().Set("Location", "/api/v1/sales-orders/"+order.ID.String())
	respondJSON(w, http.StatusCreated, order)
}

// UpdateStatus godoc
// @Summary Update sales order status
// @Description Move an order to a new status. Cancelling returns stock; reinstating a cancelled order deducts it again.
// @Tags SalesOrders
// @Accept json
// @Produce json
// @Param id path string true "Order ID" format(uuid)
// @Param request body domain.UpdateSalesOrderStatusRequest true "New status"
// @Success 200 {object} domain.SalesOrder
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Order is already in the requested status"
// @Security BearerAuth
// @Router /sales-orders/{id}/status [put]
func (h *SalesOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var req domain.UpdateSalesOrderStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.store.UpdateSalesOrderStatus(r.Context(), id, req.Status, auth.UsernameFromContext(r.Context()))
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to update sales order status", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update sales order status")
		return
	}

	respondJSON(w, http.StatusOK, order)
}
