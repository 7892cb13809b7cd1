package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/internal/reports"
)

// ReportHandler handles HTTP requests for dashboard reports
type ReportHandler struct {
	reports *reports.Service
	logger  *zap.Logger
}

// NewReportHandler creates a new report handler instance
func NewReportHandler(svc *reports.Service, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reports: svc,
		logger:  logger,
	}
}

// Inventory godoc
// @Summary Inventory report
// @Description Stock counts per status and total stock value at unit cost
// @Tags Reports
// @Produce json
// @Success 200 {object} domain.InventoryReport
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /reports/inventory [get]
func (h *ReportHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.reports.Inventory(r.Context()))
}

// Sales godoc
// @Summary Sales report
// @Description Sales order totals by status, with historical monthly figures from the reporting warehouse when configured
// @Tags Reports
// @Produce json
// @Success 200 {object} domain.OrderReport
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /reports/sales [get]
func (h *ReportHandler) Sales(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.reports.Sales(r.Context()))
}

// Purchasing godoc
// @Summary Purchasing report
// @Tags Reports
// @Produce json
// @Success 200 {object} domain.OrderReport
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /reports/purchasing [get]
func (h *ReportHandler) Purchasing(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.reports.Purchasing(r.Context()))
}
