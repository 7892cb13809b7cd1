// Package reports builds dashboard summaries over the live state, merged
// with historical figures from the reporting warehouse when it is
// configured.
package reports

import (
	"context"

	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/buildmart-as/inventory-api/internal/store"
	"github.com/buildmart-as/inventory-api/internal/warehouse"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service computes reports. The warehouse client may be nil; reports then
// cover live data only.
type Service struct {
	store     *store.Store
	warehouse *warehouse.Client
	logger    *zap.Logger
}

// NewService creates a reports service
func NewService(s *store.Store, w *warehouse.Client, logger *zap.Logger) *Service {
	return &Service{store: s, warehouse: w, logger: logger}
}

// Inventory summarizes the product collection: counts per status and the
// total stock value (stock times unit cost)
func (s *Service) Inventory(ctx context.Context) domain.InventoryReport {
	products := s.store.Products()

	report := domain.InventoryReport{
		TotalProducts:   len(products),
		TotalStockValue: decimal.Zero,
	}
	for _, p := range products {
		report.TotalStockValue = report.TotalStockValue.Add(
			p.UnitCost.Mul(decimal.NewFromInt(int64(p.Stock))))

		switch p.Status {
		case domain.StockStatusInStock:
			report.InStock++
		case domain.StockStatusLowStock:
			report.LowStock++
			report.LowStockItems = append(report.LowStockItems, p)
		case domain.StockStatusOutOfStock:
			report.OutOfStock++
			report.LowStockItems = append(report.LowStockItems, p)
		}
	}
	report.TotalStockValue = report.TotalStockValue.Round(2)
	return report
}

// Sales summarizes sales orders by status, enriched with warehouse history
// when available
func (s *Service) Sales(ctx context.Context) domain.OrderReport {
	orders := s.store.SalesOrders()

	report := domain.OrderReport{
		TotalOrders:   len(orders),
		TotalValue:    decimal.Zero,
		CountByStatus: map[string]int{},
		ValueByStatus: map[string]decimal.Decimal{},
	}
	for _, o := range orders {
		status := string(o.Status)
		report.TotalValue = report.TotalValue.Add(o.Total)
		report.CountByStatus[status]++
		report.ValueByStatus[status] = report.ValueByStatus[status].Add(o.Total)
	}
	report.TotalValue = report.TotalValue.Round(2)

	if s.warehouse.IsEnabled() {
		rows, err := s.warehouse.MonthlySales(ctx, 12)
		if err != nil {
			s.logger.Warn("Failed to load historical sales from warehouse", zap.Error(err))
		} else {
			report.HistoricalRows = rows
		}
	}
	return report
}

// Purchasing summarizes purchase orders by status
func (s *Service) Purchasing(ctx context.Context) domain.OrderReport {
	orders := s.store.PurchaseOrders()

	report := domain.OrderReport{
		TotalOrders:   len(orders),
		TotalValue:    decimal.Zero,
		CountByStatus: map[string]int{},
		ValueByStatus: map[string]decimal.Decimal{},
	}
	for _, o := range orders {
		status := string(o.Status)
		report.TotalValue = report.TotalValue.Add(o.Total)
		report.CountByStatus[status]++
		report.ValueByStatus[status] = report.ValueByStatus[status].Add(o.Total)
	}
	report.TotalValue = report.TotalValue.Round(2)
	return report
}
