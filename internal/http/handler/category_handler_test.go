package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/internal/domain"
)

func TestCategoryHandler_Create(t *testing.T) {
	s := newHandlerTestStore(t)
	h := NewCategoryHandler(s, zap.NewNop())

	t.Run("creates category", func(t *testing.T) {
		req := newTestRequest(t, http.MethodPost, "/categories", domain.CategoryRequest{Name: "Betong"})
		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		req := newTestRequest(t, http.MethodPost, "/categories", domain.CategoryRequest{Name: "Betong"})
		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestCategoryHandler_Rename(t *testing.T) {
	s := newHandlerTestStore(t)
	h := NewCategoryHandler(s, zap.NewNop())

	_, err := s.AddCategory(testUserContext(), "Trelast", "olav")
	require.NoError(t, err)
	p, err := s.AddProduct(testUserContext(), domain.CreateProductRequest{
		SKU: "PLK-01", Name: "Planks", Unit: domain.UnitMeter, Category: "Trelast",
	}, "olav")
	require.NoError(t, err)

	t.Run("renames and retags products", func(t *testing.T) {
		req := withURLParam(newTestRequest(t, http.MethodPut, "/categories/Trelast",
			domain.RenameCategoryRequest{NewName: "Tre og plater"}), "name", "Trelast")
		rr := httptest.NewRecorder()
		h.Rename(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		got, err := s.Product(p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tre og plater", got.Category)
	})

	t.Run("uncategorized sentinel is protected", func(t *testing.T) {
		req := withURLParam(newTestRequest(t, http.MethodPut, "/categories/"+domain.UncategorizedCategory,
			domain.RenameCategoryRequest{NewName: "Misc"}), "name", domain.UncategorizedCategory)
		rr := httptest.NewRecorder()
		h.Rename(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestCategoryHandler_Delete(t *testing.T) {
	s := newHandlerTestStore(t)
	h := NewCategoryHandler(s, zap.NewNop())

	_, err := s.AddCategory(testUserContext(), "Maling", "olav")
	require.NoError(t, err)
	p, err := s.AddProduct(testUserContext(), domain.CreateProductRequest{
		SKU: "MAL-01", Name: "Paint", Unit: domain.UnitLitre, Category: "Maling",
	}, "olav")
	require.NoError(t, err)

	t.Run("deletes and reassigns products to the sentinel", func(t *testing.T) {
		req := withURLParam(newTestRequest(t, http.MethodDelete, "/categories/Maling", nil), "name", "Maling")
		rr := httptest.NewRecorder()
		h.Delete(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)

		got, err := s.Product(p.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.UncategorizedCategory, got.Category)
	})

	t.Run("unknown category is not found", func(t *testing.T) {
		req := withURLParam(newTestRequest(t, http.MethodDelete, "/categories/Verktoy", nil), "name", "Verktoy")
		rr := httptest.NewRecorder()
		h.Delete(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
