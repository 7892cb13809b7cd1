package store

import (
	"context"
	"testing"

	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uuidMust() uuid.UUID {
	return uuid.New()
}

func TestAddProduct_DerivesStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		stock int
		want  domain.StockStatus
	}{
		{"above threshold", 1500, domain.StockStatusInStock},
		{"at threshold", 1000, domain.StockStatusInStock},
		{"below threshold", 800, domain.StockStatusLowStock},
		{"zero", 0, domain.StockStatusOutOfStock},
		{"negative input", -5, domain.StockStatusOutOfStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := s.AddProduct(ctx, domain.CreateProductRequest{
				SKU: "SKU-" + tt.name, Name: tt.name, Unit: domain.UnitPiece, Stock: tt.stock,
			}, "olav")
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Status)
			assert.Empty(t, p.History, "history starts empty")
		})
	}
}

func TestAddProduct_DefaultsCurrencyAndCategory(t *testing.T) {
	s := newTestStore(t)

	p, err := s.AddProduct(context.Background(), domain.CreateProductRequest{
		SKU: "GRV-01", Name: "Gravel", Unit: domain.UnitTonne, Stock: 10,
	}, "olav")
	require.NoError(t, err)
	assert.Equal(t, "NOK", p.Currency)
	assert.Equal(t, domain.UncategorizedCategory, p.Category)
}

func TestAdjustStock_Scenario(t *testing.T) {
	// Add product with stock=1500, threshold=1000, reduce by 700:
	// stock=800, status Low Stock, one history entry with the signed delta.
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.AddProduct(ctx, domain.CreateProductRequest{
		SKU: "REB-12", Name: "Rebar 12mm", Unit: domain.UnitPiece, Stock: 1500,
	}, "olav")
	require.NoError(t, err)
	require.Equal(t, domain.StockStatusInStock, p.Status)

	got, err := s.AdjustStock(ctx, p.ID, -700, "Damaged", "olav")
	require.NoError(t, err)

	assert.Equal(t, 800, got.Stock)
	assert.Equal(t, domain.StockStatusLowStock, got.Status)
	require.Len(t, got.History, 1)
	assert.Equal(t, "-700 units. Reason: Damaged", got.History[0].Action)
	assert.Equal(t, "olav", got.History[0].User)
}

func TestAdjustStock_ClampsAtZero(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.AddProduct(ctx, domain.CreateProductRequest{
		SKU: "CEM-25", Name: "Cement", Unit: domain.UnitBag, Stock: 50,
	}, "olav")
	require.NoError(t, err)

	got, err := s.AdjustStock(ctx, p.ID, -200, "Shrinkage", "olav")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, domain.StockStatusOutOfStock, got.Status)
	// History records the requested delta, not the clamped one
	assert.Equal(t, "-200 units. Reason: Shrinkage", got.History[0].Action)
}

func TestAdjustStock_HistoryNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.AddProduct(ctx, domain.CreateProductRequest{
		SKU: "SND-01", Name: "Sand", Unit: domain.UnitTonne, Stock: 100,
	}, "olav")
	require.NoError(t, err)

	for i, delta := range []int{-10, +5, -20} {
		_, err := s.AdjustStock(ctx, p.ID, delta, "Cycle count", "olav")
		require.NoError(t, err, "adjustment %d", i)
	}

	got, err := s.Product(p.ID)
	require.NoError(t, err)
	require.Len(t, got.History, 3, "length equals number of stock mutations")
	assert.Equal(t, "-20 units. Reason: Cycle count", got.History[0].Action)
	assert.Equal(t, "+5 units. Reason: Cycle count", got.History[1].Action)
	assert.Equal(t, "-10 units. Reason: Cycle count", got.History[2].Action)
	assert.Equal(t, 75, got.Stock)
	assert.Equal(t, domain.DeriveStockStatus(75, 1000), got.Status)
}

func TestAdjustStock_MissingProduct(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AdjustStock(context.Background(), uuidMust(), -1, "x", "olav")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProduct_StockChangeRecordsDelta(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.AddProduct(ctx, domain.CreateProductRequest{
		SKU: "ISO-50", Name: "Insulation", Unit: domain.UnitSqm, Stock: 100,
	}, "olav")
	require.NoError(t, err)

	got, err := s.UpdateProduct(ctx, p.ID, domain.UpdateProductRequest{
		SKU: "ISO-50", Name: "Insulation 50mm", Unit: domain.UnitSqm, Stock: 130,
		Price: decimal.NewFromInt(249),
	}, "kari")
	require.NoError(t, err)

	assert.Equal(t, "Insulation 50mm", got.Name)
	assert.Equal(t, 130, got.Stock)
	require.Len(t, got.History, 1)
	assert.Contains(t, got.History[0].Action, "+30 units")
	assert.Equal(t, "kari", got.History[0].User)

	// Unchanged stock adds no history entry
	got, err = s.UpdateProduct(ctx, p.ID, domain.UpdateProductRequest{
		SKU: "ISO-50", Name: "Insulation 50mm", Unit: domain.UnitSqm, Stock: 130,
	}, "kari")
	require.NoError(t, err)
	assert.Len(t, got.History, 1)
}

func TestDeleteProducts_Bulk(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p1, err := s.AddProduct(ctx, domain.CreateProductRequest{SKU: "A", Name: "A", Unit: domain.UnitPiece}, "olav")
	require.NoError(t, err)
	p2, err := s.AddProduct(ctx, domain.CreateProductRequest{SKU: "B", Name: "B", Unit: domain.UnitPiece}, "olav")
	require.NoError(t, err)
	_, err = s.AddProduct(ctx, domain.CreateProductRequest{SKU: "C", Name: "C", Unit: domain.UnitPiece}, "olav")
	require.NoError(t, err)

	// Missing ids in the batch are tolerated
	removed, err := s.DeleteProducts(ctx, []uuid.UUID{p1.ID, p2.ID, uuidMust()}, "olav")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Len(t, s.Products(), 1)
}

func TestOverrideStatus_BypassesDerivation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.AddProduct(ctx, domain.CreateProductRequest{
		SKU: "TMB-48", Name: "Timber", Unit: domain.UnitMeter, Stock: 5000,
	}, "olav")
	require.NoError(t, err)
	require.Equal(t, domain.StockStatusInStock, p.Status)

	n, err := s.OverrideStatus(ctx, []uuid.UUID{p.ID}, domain.StockStatusOutOfStock, "olav")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.Product(p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StockStatusOutOfStock, got.Status, "override sticks despite stock")
	assert.Equal(t, 5000, got.Stock)

	// The next stock mutation re-derives
	got, err = s.AdjustStock(ctx, p.ID, -1, "Sold", "olav")
	require.NoError(t, err)
	assert.Equal(t, domain.StockStatusInStock, got.Status)
}

func TestProducts_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, sku := range []string{"first", "second", "third"} {
		_, err := s.AddProduct(ctx, domain.CreateProductRequest{
			SKU: sku, Name: sku, Unit: domain.UnitPiece,
		}, "olav")
		require.NoError(t, err)
	}

	products := s.Products()
	require.Len(t, products, 3)
	assert.Equal(t, "third", products[0].SKU)
	assert.Equal(t, "first", products[2].SKU)
}
