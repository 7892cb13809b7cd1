package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/internal/auth"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/buildmart-as/inventory-api/internal/export"
	"github.com/buildmart-as/inventory-api/internal/storage"
	"github.com/buildmart-as/inventory-api/internal/store"
)

// DocumentHandler issues packing slips and shipping labels for sales
// orders. Documents are rendered as standalone HTML, uploaded to storage,
// and recorded append-only on the order.
type DocumentHandler struct {
	store   *store.Store
	storage storage.Storage
	logger  *zap.Logger
}

// NewDocumentHandler creates a new document handler instance
func NewDocumentHandler(st *store.Store, stg storage.Storage, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		store:   st,
		storage: stg,
		logger:  logger,
	}
}

// ListPackingSlips godoc
// @Summary List packing slips for a sales order
// @Tags Documents
// @Produce json
// @Param id path string true "Order ID" format(uuid)
// @Success 200 {object} domain.ListResponse{data=[]domain.PackingSlip}
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /sales-orders/{id}/packing-slips [get]
func (h *DocumentHandler) ListPackingSlips(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	slips := h.store.PackingSlips(id)
	respondJSON(w, http.StatusOK, domain.ListResponse{Data: slips, Total: len(slips)})
}

// ListShippingLabels godoc
// @Summary List shipping labels for a sales order
// @Tags Documents
// @Produce json
// @Param id path string true "Order ID" format(uuid)
// @Success 200 {object} domain.ListResponse{data=[]domain.ShippingLabel}
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /sales-orders/{id}/shipping-labels [get]
func (h *DocumentHandler) ListShippingLabels(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	labels := h.store.ShippingLabels(id)
	respondJSON(w, http.StatusOK, domain.ListResponse{Data: labels, Total: len(labels)})
}

// IssuePackingSlip godoc
// @Summary Issue a packing slip
// @Description Render a packing slip for the order, store the document, and record it. Re-issuing appends a new slip; existing slips are never replaced.
// @Tags Documents
// @Produce json
// @Param id path string true "Order ID" format(uuid)
// @Success 201 {object} domain.PackingSlip
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /sales-orders/{id}/packing-slips [post]
func (h *DocumentHandler) IssuePackingSlip(w http.ResponseWriter, r *http.Request) {
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
		respondWithError(w, http.StatusInternalServerError, "Failed to get sales order")
		return
	}

	title := fmt.Sprintf("Packing Slip - Order %s - %s", order.ID, order.Customer.Name)
	storagePath := h.renderAndStore(r, title, order, "packing-slip")

	slip, err := h.store.IssuePackingSlip(r.Context(), id, auth.UsernameFromContext(r.Context()), storagePath)
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to issue packing slip", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to issue packing slip")
		return
	}

	respondJSON(w, http.StatusCreated, slip)
}

// IssueShippingLabel godoc
// @Summary Issue a shipping label
// @Description Render a shipping label for the order, store the document, and record it append-only.
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path string true "Order ID" format(uuid)
// @Param request body domain.IssueDocumentRequest false "Carrier"
// @Success 201 {object} domain.ShippingLabel
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /sales-orders/{id}/shipping-labels [post]
func (h *DocumentHandler) IssueShippingLabel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	// Body is optional; an empty carrier is fine
	var req domain.IssueDocumentRequest
	if r.ContentLength > 0 {
		if !decodeBody(w, r, &req) {
			return
		}
		if err := validate.Struct(req); err != nil {
			respondValidationError(w, err)
			return
		}
	}

	order, err := h.store.SalesOrder(id)
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to get sales order")
		return
	}

	title := fmt.Sprintf("Shipping Label - Order %s - %s", order.ID, order.Customer.Name)
	storagePath := h.renderAndStore(r, title, order, "shipping-label")

	label, err := h.store.IssueShippingLabel(r.Context(), id, req.Carrier, auth.UsernameFromContext(r.Context()), storagePath)
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("failed to issue shipping label", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to issue shipping label")
		return
	}

	respondJSON(w, http.StatusCreated, label)
}

// renderAndStore renders the order lines as an HTML document and uploads
// it. A storage failure is not fatal: the document record is still
// created, just without a stored copy.
func (h *DocumentHandler) renderAndStore(r *http.Request, title string, order domain.SalesOrder, kind string) string {
	doc, err := export.HTMLTable(title, order.Items, export.OrderItemColumns())
	if err != nil {
		h.logger.Warn("failed to render document", zap.String("kind", kind), zap.Error(err))
		return ""
	}

	filename := fmt.Sprintf("%s-%s.html", kind, order.ID)
	storagePath, _, err := h.storage.Upload(r.Context(), filename, "text/html", bytes.NewReader(doc))
	if err != nil {
		h.logger.Warn("failed to store document", zap.String("kind", kind), zap.Error(err))
		return ""
	}
	return storagePath
}
