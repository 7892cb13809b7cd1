package store

import (
	"context"
	"strings"
	"testing"

	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCategory_Duplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddCategory(ctx, "Steel", "olav")
	require.NoError(t, err)

	_, err = s.AddCategory(ctx, "Steel", "olav")
	assert.ErrorIs(t, err, ErrCategoryExists)

	_, err = s.AddCategory(ctx, domain.UncategorizedCategory, "olav")
	assert.ErrorIs(t, err, ErrCategoryExists, "sentinel is seeded at load")
}

func TestDeleteCategory_RetagsProducts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddCategory(ctx, "Steel", "olav")
	require.NoError(t, err)

	p, err := s.AddProduct(ctx, domain.CreateProductRequest{
		SKU: "REB-12", Name: "Rebar", Category: "Steel", Unit: domain.UnitPiece, Stock: 10,
	}, "olav")
	require.NoError(t, err)

	other, err := s.AddProduct(ctx, domain.CreateProductRequest{
		SKU: "CEM-25", Name: "Cement", Category: "Concrete", Unit: domain.UnitBag, Stock: 10,
	}, "olav")
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory(ctx, "Steel", "olav"))

	got, err := s.Product(p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UncategorizedCategory, got.Category)

	// Unrelated categories are untouched
	gotOther, err := s.Product(other.ID)
	require.NoError(t, err)
	assert.Equal(t, "Concrete", gotOther.Category)
}

func TestDeleteCategory_SentinelProtected(t *testing.T) {
	s := newTestStore(t)

	err := s.DeleteCategory(context.Background(), domain.UncategorizedCategory, "olav")
	assert.ErrorIs(t, err, ErrProtectedCategory)

	// The sentinel is still in the list
	found := false
	for _, c := range s.Categories() {
		if c.Name == domain.UncategorizedCategory {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDeleteCategory_Missing(t *testing.T) {
	s := newTestStore(t)
	err := s.DeleteCategory(context.Background(), "Ghost", "olav")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenameCategory_RetagsProducts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddCategory(ctx, "Lumber", "olav")
	require.NoError(t, err)

	p, err := s.AddProduct(ctx, domain.CreateProductRequest{
		SKU: "TMB-48", Name: "Timber", Category: "Lumber", Unit: domain.UnitMeter, Stock: 10,
	}, "olav")
	require.NoError(t, err)

	renamed, err := s.RenameCategory(ctx, "Lumber", "Wood", "olav")
	require.NoError(t, err)
	assert.Equal(t, "Wood", renamed.Name)

	got, err := s.Product(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wood", got.Category)
}

func TestRenameCategory_Guards(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddCategory(ctx, "Steel", "olav")
	require.NoError(t, err)
	_, err = s.AddCategory(ctx, "Concrete", "olav")
	require.NoError(t, err)

	_, err = s.RenameCategory(ctx, domain.UncategorizedCategory, "Misc", "olav")
	assert.ErrorIs(t, err, ErrProtectedCategory)

	_, err = s.RenameCategory(ctx, "Ghost", "X", "olav")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.RenameCategory(ctx, "Steel", "Concrete", "olav")
	assert.ErrorIs(t, err, ErrCategoryExists)
}

func TestAddCategory_LongNameSurvivesRestart(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Category names double as cache record keys; the longest name the
	// API accepts must fit the key column
	name := strings.Repeat("Byggevarer-", 9) + "X"
	require.Len(t, name, 100)

	s1 := newStoreOnDB(t, db)
	_, err := s1.AddCategory(ctx, name, "olav")
	require.NoError(t, err)

	s2 := newStoreOnDB(t, db)
	require.Len(t, s2.Categories(), 2)
	assert.Equal(t, name, s2.Categories()[0].Name)
}
