package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/internal/domain"
)

func TestProductHandler_Create(t *testing.T) {
	s := newHandlerTestStore(t)
	h := NewProductHandler(s, zap.NewNop())

	t.Run("creates product and sets location", func(t *testing.T) {
		req := newTestRequest(t, http.MethodPost, "/products", domain.CreateProductRequest{
			SKU:   "REB-12",
			Name:  "Rebar 12mm",
			Unit:  domain.UnitPiece,
			Stock: 5000,
		})
		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var product domain.Product
		decodeResponse(t, rr, &product)
		assert.Equal(t, "Rebar 12mm", product.Name)
		assert.Equal(t, domain.StockStatusInStock, product.Status)
		assert.Equal(t, domain.UncategorizedCategory, product.Category)
		assert.Equal(t, "/api/v1/products/"+product.ID.String(), rr.Header().Get("Location"))
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		req := newTestRequest(t, http.MethodPost, "/products", domain.CreateProductRequest{
			Name: "No SKU",
		})
		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var apiErr domain.APIError
		decodeResponse(t, rr, &apiErr)
		assert.Equal(t, domain.ErrorTypeValidation, apiErr.Type)
		// Errors key on the json names clients sent, not Go field names
		assert.Contains(t, apiErr.Errors, "sku")
		assert.Equal(t, "sku is required", apiErr.Errors["sku"])
		assert.Contains(t, apiErr.Errors, "unit")
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/products", nil)
		req = req.WithContext(testUserContext())
		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestProductHandler_GetByID(t *testing.T) {
	s := newHandlerTestStore(t)
	h := NewProductHandler(s, zap.NewNop())

	p, err := s.AddProduct(testUserContext(), domain.CreateProductRequest{
		SKU: "CEM-25", Name: "Cement 25kg", Unit: domain.UnitBag, Stock: 100,
	}, "olav")
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		req := withURLParam(newTestRequest(t, http.MethodGet, "/products/"+p.ID.String(), nil), "id", p.ID.String())
		rr := httptest.NewRecorder()
		h.GetByID(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got domain.Product
		decodeResponse(t, rr, &got)
		assert.Equal(t, p.ID, got.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		id := uuid.New().String()
		req := withURLParam(newTestRequest(t, http.MethodGet, "/products/"+id, nil), "id", id)
		rr := httptest.NewRecorder()
		h.GetByID(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		req := withURLParam(newTestRequest(t, http.MethodGet, "/products/nope", nil), "id", "nope")
		rr := httptest.NewRecorder()
		h.GetByID(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestProductHandler_AdjustStock(t *testing.T) {
	s := newHandlerTestStore(t)
	h := NewProductHandler(s, zap.NewNop())

	p, err := s.AddProduct(testUserContext(), domain.CreateProductRequest{
		SKU: "GRV-01", Name: "Gravel", Unit: domain.UnitTonne, Stock: 50,
	}, "olav")
	require.NoError(t, err)

	req := withURLParam(newTestRequest(t, http.MethodPost, "/products/"+p.ID.String()+"/adjust-stock",
		domain.AdjustStockRequest{Delta: -80, Reason: "Spillage"}), "id", p.ID.String())
	rr := httptest.NewRecorder()
	h.AdjustStock(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got domain.Product
	decodeResponse(t, rr, &got)
	// Stock clamps at zero instead of going negative
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, domain.StockStatusOutOfStock, got.Status)
}

func TestProductHandler_BulkDelete(t *testing.T) {
	s := newHandlerTestStore(t)
	h := NewProductHandler(s, zap.NewNop())

	p1, err := s.AddProduct(testUserContext(), domain.CreateProductRequest{
		SKU: "A-1", Name: "A", Unit: domain.UnitPiece,
	}, "olav")
	require.NoError(t, err)
	p2, err := s.AddProduct(testUserContext(), domain.CreateProductRequest{
		SKU: "B-1", Name: "B", Unit: domain.UnitPiece,
	}, "olav")
	require.NoError(t, err)

	// One known id, one unknown: only the known one counts
	req := newTestRequest(t, http.MethodPost, "/products/bulk-delete", domain.BulkIDsRequest{
		IDs: []uuid.UUID{p1.ID, uuid.New()},
	})
	rr := httptest.NewRecorder()
	h.BulkDelete(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var result map[string]int
	decodeResponse(t, rr, &result)
	assert.Equal(t, 1, result["removed"])

	_, err = s.Product(p2.ID)
	assert.NoError(t, err)
}

func TestProductHandler_List(t *testing.T) {
	s := newHandlerTestStore(t)
	h := NewProductHandler(s, zap.NewNop())

	for _, name := range []string{"First", "Second", "Third"} {
		_, err := s.AddProduct(testUserContext(), domain.CreateProductRequest{
			SKU: name, Name: name, Unit: domain.UnitPiece,
		}, "olav")
		require.NoError(t, err)
	}

	req := newTestRequest(t, http.MethodGet, "/products", nil)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var result struct {
		Data  []domain.Product `json:"data"`
		Total int              `json:"total"`
	}
	decodeResponse(t, rr, &result)
	require.Equal(t, 3, result.Total)
	// Newest first
	assert.Equal(t, "Third", result.Data[0].Name)
}
