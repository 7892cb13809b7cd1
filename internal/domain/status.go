package domain

// DeriveStockStatus maps a stock level and the configured low-stock
// threshold to a stock status. It is the only normal source of a product's
// Status field and must be re-evaluated after every stock-affecting
// mutation.
func DeriveStockStatus(stock, threshold int) StockStatus {
	switch {
	case stock <= 0:
		return StockStatusOutOfStock
	case stock < threshold:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}
