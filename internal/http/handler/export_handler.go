package handler

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/internal/auth"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/buildmart-as/inventory-api/internal/export"
	"github.com/buildmart-as/inventory-api/internal/store"
)

// ExportHandler serves collection downloads. Two formats are offered:
// "csv" for spreadsheets and "doc", which is an HTML document served with
// a .doc filename so Word opens it directly.
type ExportHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewExportHandler creates a new export handler instance
func NewExportHandler(st *store.Store, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		store:  st,
		logger: logger,
	}
}

// Products godoc
// @Summary Export products
// @Tags Export
// @Produce text/csv
// @Param format query string false "Export format" Enums(csv, doc) default(csv)
// @Success 200 {string} string "File download"
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /export/products [get]
func (h *ExportHandler) Products(w http.ResponseWriter, r *http.Request) {
	serveExport(h, w, r, "products", h.store.Products(), export.ProductColumns())
}

// SalesOrders godoc
// @Summary Export sales orders
// @Tags Export
// @Produce text/csv
// @Param format query string false "Export format" Enums(csv, doc) default(csv)
// @Success 200 {string} string "File download"
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /export/sales-orders [get]
func (h *ExportHandler) SalesOrders(w http.ResponseWriter, r *http.Request) {
	serveExport(h, w, r, "sales-orders", h.store.SalesOrders(), export.SalesOrderColumns())
}

// PurchaseOrders godoc
// @Summary Export purchase orders
// @Tags Export
// @Produce text/csv
// @Param format query string false "Export format" Enums(csv, doc) default(csv)
// @Success 200 {string} string "File download"
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /export/purchase-orders [get]
func (h *ExportHandler) PurchaseOrders(w http.ResponseWriter, r *http.Request) {
	serveExport(h, w, r, "purchase-orders", h.store.PurchaseOrders(), export.PurchaseOrderColumns())
}

func serveExport[T any](h *ExportHandler, w http.ResponseWriter, r *http.Request, name string, rows []T, columns []export.Column[T]) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	var (
		data        []byte
		contentType string
		ext         string
		err         error
	)
	switch format {
	case "csv":
		data, err = export.CSV(rows, columns)
		contentType = "text/csv; charset=utf-8"
		ext = "csv"
	case "doc":
		data, err = export.HTMLTable(exportTitle(name), rows, columns)
		contentType = "application/msword"
		ext = "doc"
	default:
		respondWithError(w, http.StatusBadRequest, "Unknown export format: "+format)
		return
	}
	if err != nil {
		h.logger.Error("export failed", zap.String("collection", name), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Export failed")
		return
	}

	user := auth.UsernameFromContext(r.Context())
	h.store.RecordAPIAudit(r.Context(), user, domain.AuditActionExport, exportEntity(name),
		fmt.Sprintf("exported %d rows as %s", len(rows), format), r.RemoteAddr, "")

	filename := fmt.Sprintf("%s-%s.%s", name, time.Now().Format("2006-01-02"), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// exportEntity maps a collection name to the entity type vocabulary the
// audit trail uses everywhere else
func exportEntity(name string) string {
	switch name {
	case "products":
		return "product"
	case "sales-orders":
		return "sales_order"
	case "purchase-orders":
		return "purchase_order"
	}
	return name
}

func exportTitle(name string) string {
	switch name {
	case "products":
		return "Products"
	case "sales-orders":
		return "Sales Orders"
	case "purchase-orders":
		return "Purchase Orders"
	}
	return name
}
