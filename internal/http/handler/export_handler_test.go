package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/buildmart-as/inventory-api/internal/store"
)

func TestExportHandler_Products(t *testing.T) {
	s := newHandlerTestStore(t)
	h := NewExportHandler(s, zap.NewNop())

	_, err := s.AddProduct(testUserContext(), domain.CreateProductRequest{
		SKU: "REB-12", Name: "Rebar 12mm", Unit: domain.UnitPiece, Stock: 500,
	}, "olav")
	require.NoError(t, err)

	t.Run("defaults to csv", func(t *testing.T) {
		req := newTestRequest(t, http.MethodGet, "/export/products", nil)
		rr := httptest.NewRecorder()
		h.Products(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")
		assert.Contains(t, rr.Header().Get("Content-Disposition"), ".csv")
		assert.Contains(t, rr.Body.String(), "Rebar 12mm")
	})

	t.Run("doc format is html served for word", func(t *testing.T) {
		req := newTestRequest(t, http.MethodGet, "/export/products?format=doc", nil)
		rr := httptest.NewRecorder()
		h.Products(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/msword", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Header().Get("Content-Disposition"), ".doc")
		assert.True(t, strings.Contains(rr.Body.String(), "<table"))
		assert.Contains(t, rr.Body.String(), "Rebar 12mm")
	})

	t.Run("unknown format", func(t *testing.T) {
		req := newTestRequest(t, http.MethodGet, "/export/products?format=xlsx", nil)
		rr := httptest.NewRecorder()
		h.Products(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("exports land in the audit trail", func(t *testing.T) {
		entries := s.AuditLogs(store.AuditFilter{Action: domain.AuditActionExport})
		require.NotEmpty(t, entries)
		assert.Equal(t, "product", entries[0].EntityType)
		assert.Equal(t, "olav", entries[0].UserName)
	})
}
