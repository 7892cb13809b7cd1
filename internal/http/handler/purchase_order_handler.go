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

// PurchaseOrderHandler handles HTTP requests for purchase order operations
type PurchaseOrderHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewPurchaseOrderHandler creates a new purchase order handler instance
func NewPurchaseOrderHandler(st *store.Store, logger *zap.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		store:  st,
		logger: logger,
	}
}

// List godoc
// @Summary List purchase orders
// @Tags PurchaseOrders
// @Produce json
// @Success 200 {object} domain.ListResponse{data=[]domain.PurchaseOrder}
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /purchase-orders [get]
func (h *PurchaseOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders := h.store.PurchaseOrders()
	respondJSON(w, http.StatusOK, domain.ListResponse{Data: orders, Total: len(orders)})
}

// GetByID godoc
// @Summary Get purchase order by ID
// @Tags PurchaseOrders
// @Produce json
// @Param id path string true "Order ID" format(uuid)
// @Success 200 {object} domain.PurchaseOrder
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	order, err := h.store.PurchaseOrder(id)
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to get purchase order", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get purchase order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// Create godoc
// @Summary Create purchase order
// @Description Create a purchase order in Pending status. Stock is not affected until the order is received.
// @Tags PurchaseOrders
// @Accept json
// @Produce json
// @Param request body domain.CreatePurchaseOrderRequest true "Order data"
// @Success 201 {object} domain.PurchaseOrder
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePurchaseOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.store.AddPurchaseOrder(r.Context(), req, auth.UsernameFromContext(r.Context()))
	if err != nil {
		h.logger.Error("failed to create purchase order", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create purchase order")
		return
	}

	w.Header().Set("Location", "/api/v1/purchase-orders/"+order.ID.String())
	respondJSON(w, http.StatusCreated, order)
}

// UpdateStatus godoc
// @Summary Update purchase order status
// @Description Move an order to a new status. Entering Received adds stock; leaving Received reverses the receipt.
// @Tags PurchaseOrders
// @Accept json
// @Produce json
// @Param id path string true "Order ID" format(uuid)
// @Param request body domain.UpdatePurchaseOrderStatusRequest true "New status"
// @Success 200 {object} domain.PurchaseOrder
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Order is already in the requested status"
// @Security BearerAuth
// @Router /purchase-orders/{id}/status [put]
func (h *PurchaseOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var req domain.UpdatePurchaseOrderStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.store.UpdatePurchaseOrderStatus(r.Context(), id, req.Status, auth.UsernameFromContext(r.Context()))
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to update purchase order status", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update purchase order status")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// UpdateTracking godoc
// @Summary Update tracking number
// @Tags PurchaseOrders
// @Accept json
// @Produce json
// @Param id path string true "Order ID" format(uuid)
// @Param request body domain.UpdateTrackingNumberRequest true "Tracking number"
// @Success 200 {object} domain.PurchaseOrder
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /purchase-orders/{id}/tracking [put]
func (h *PurchaseOrderHandler) UpdateTracking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var req domain.UpdateTrackingNumberRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.store.UpdateTrackingNumber(r.Context(), id, req.TrackingNumber, auth.UsernameFromContext(r.Context()))
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to update tracking number", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update tracking number")
		return
	}

	respondJSON(w, http.StatusOK, order)
}
