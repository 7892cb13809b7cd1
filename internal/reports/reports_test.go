package reports

import (
	"context"
	"testing"

	"github.com/buildmart-as/inventory-api/internal/cache"
	"github.com/buildmart-as/inventory-api/internal/config"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/buildmart-as/inventory-api/internal/queue"
	"github.com/buildmart-as/inventory-api/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()

	db, err := cache.NewDatabase(&config.CacheConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)

	logger := zap.NewNop()
	s := store.New(cache.NewStore(db, logger), queue.New(db, logger), logger,
		store.WithDefaults(store.Defaults{LowStockThreshold: 100, DefaultCurrency: "NOK"}))
	require.NoError(t, s.Load(context.Background()))

	return NewService(s, nil, logger), s
}

func TestInventoryReport(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()

	add := func(sku string, stock int, cost int64) {
		_, err := s.AddProduct(ctx, domain.CreateProductRequest{
			SKU: sku, Name: sku, Unit: domain.UnitPiece, Stock: stock,
			UnitCost: decimal.NewFromInt(cost),
		}, "olav")
		require.NoError(t, err)
	}
	add("full", 200, 10) // In Stock, value 2000
	add("low", 50, 4)    // Low Stock, value 200
	add("out", 0, 99)    // Out of Stock, value 0

	report := svc.Inventory(ctx)
	assert.Equal(t, 3, report.TotalProducts)
	assert.Equal(t, 1, report.InStock)
	assert.Equal(t, 1, report.LowStock)
	assert.Equal(t, 1, report.OutOfStock)
	assert.True(t, report.TotalStockValue.Equal(decimal.NewFromInt(2200)),
		"stock value = %s", report.TotalStockValue)
	assert.Len(t, report.LowStockItems, 2, "low and out-of-stock items both need attention")
}

func TestSalesReport(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()

	o1, err := s.AddSalesOrder(ctx, domain.CreateSalesOrderRequest{
		Customer: domain.PartyRequest{Name: "A"},
		Items:    []domain.OrderItemRequest{{ProductName: "x", Quantity: 2, UnitPrice: decimal.NewFromInt(50)}},
	}, "olav")
	require.NoError(t, err)
	_, err = s.AddSalesOrder(ctx, domain.CreateSalesOrderRequest{
		Customer: domain.PartyRequest{Name: "B"},
		Items:    []domain.OrderItemRequest{{ProductName: "y", Quantity: 1, UnitPrice: decimal.NewFromInt(30)}},
	}, "olav")
	require.NoError(t, err)

	_, err = s.UpdateSalesOrderStatus(ctx, o1.ID, domain.SalesOrderFulfilled, "olav")
	require.NoError(t, err)

	report := svc.Sales(ctx)
	assert.Equal(t, 2, report.TotalOrders)
	assert.True(t, report.TotalValue.Equal(decimal.NewFromInt(130)))
	assert.Equal(t, 1, report.CountByStatus["Fulfilled"])
	assert.Equal(t, 1, report.CountByStatus["Pending"])
	assert.True(t, report.ValueByStatus["Fulfilled"].Equal(decimal.NewFromInt(100)))
	assert.Empty(t, report.HistoricalRows, "no warehouse configured")
}

func TestPurchasingReport(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()

	_, err := s.AddPurchaseOrder(ctx, domain.CreatePurchaseOrderRequest{
		Vendor: domain.PartyRequest{Name: "V"},
		Items:  []domain.OrderItemRequest{{ProductName: "x", Quantity: 10, UnitPrice: decimal.NewFromInt(7)}},
	}, "olav")
	require.NoError(t, err)

	report := svc.Purchasing(ctx)
	assert.Equal(t, 1, report.TotalOrders)
	assert.True(t, report.TotalValue.Equal(decimal.NewFromInt(70)))
	assert.Equal(t, 1, report.CountByStatus["Pending"])
}
