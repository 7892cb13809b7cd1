package store

import (
	"context"
	"fmt"

	"github.com/buildmart-as/inventory-api/internal/cache"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Products returns a snapshot of the product collection, newest first
func (s *Store) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Product, len(s.products))
	for i, p := range s.products {
		out[i] = *p
	}
	return out
}

// Product returns one product by id
func (s *Store) Product(id uuid.UUID) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProduct(id)
	if p == nil {
		return domain.Product{}, ErrNotFound
	}
	return *p, nil
}

// findProduct must be called with the lock held
func (s *Store) findProduct(id uuid.UUID) *domain.Product {
	for _, p := range s.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// AddProduct inserts a new product at the head of the collection. The
// status is derived from stock and the current threshold; the history
// starts empty.
func (s *Store) AddProduct(ctx context.Context, req domain.CreateProductRequest, user string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	currency := req.Currency
	if currency == "" {
		currency = s.settings.DefaultCurrency
	}
	category := req.Category
	if category == "" {
		category = domain.UncategorizedCategory
	}

	product := &domain.Product{
		ID:          s.idFunc(),
		SKU:         req.SKU,
		Name:        req.Name,
		Category:    category,
		Unit:        req.Unit,
		Supplier:    req.Supplier,
		BatchNumber: req.BatchNumber,
		Warehouse:   req.Warehouse,
		Stock:       req.Stock,
		Price:       req.Price,
		UnitCost:    req.UnitCost,
		Currency:    currency,
		Status:      domain.DeriveStockStatus(req.Stock, s.settings.LowStockThreshold),
		History:     []domain.HistoryEntry{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.products = append([]*domain.Product{product}, s.products...)
	s.persistProducts(ctx)

	s.emit(ctx, domain.ActionAddProduct, product)
	s.recordAudit(ctx, user, domain.AuditActionCreate, "product", &product.ID, product.Name)

	s.logger.Info("Product added",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
		zap.Int("stock", product.Stock),
	)
	return *product, nil
}

// UpdateProduct replaces a product's attributes. If the stock level changed
// a history entry records the signed delta; the status is recomputed either
// way.
func (s *Store) UpdateProduct(ctx context.Context, id uuid.UUID, req domain.UpdateProductRequest, user string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := s.findProduct(id)
	if product == nil {
		return domain.Product{}, ErrNotFound
	}

	if req.Stock != product.Stock {
		delta := req.Stock - product.Stock
		product.History = prependHistory(product.History,
			s.historyEntry(fmt.Sprintf("%+d units. Reason: Manual update", delta), user))
	}

	product.SKU = req.SKU
	product.Name = req.Name
	if req.Category != "" {
		product.Category = req.Category
	}
	product.Unit = req.Unit
	product.Supplier = req.Supplier
	product.BatchNumber = req.BatchNumber
	product.Warehouse = req.Warehouse
	product.Stock = req.Stock
	product.Price = req.Price
	product.UnitCost = req.UnitCost
	if req.Currency != "" {
		product.Currency = req.Currency
	}
	product.Status = domain.DeriveStockStatus(product.Stock, s.settings.LowStockThreshold)
	product.UpdatedAt = s.nowFunc()

	s.persistProducts(ctx)
	s.emit(ctx, domain.ActionUpdateProduct, product)
	s.recordAudit(ctx, user, domain.AuditActionUpdate, "product", &product.ID, product.Name)

	return *product, nil
}

// AdjustStock applies a signed delta to a product's stock. The result
// clamps at zero; a reduction past zero is truncated, not rejected. The
// history entry records the requested delta and the reason.
func (s *Store) AdjustStock(ctx context.Context, id uuid.UUID, delta int, reason, user string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := s.findProduct(id)
	if product == nil {
		return domain.Product{}, ErrNotFound
	}

	s.applyStockDelta(product, delta, reason, user)
	s.persistProducts(ctx)

	s.emit(ctx, domain.ActionAdjustProductStock, map[string]any{
		"productId": product.ID,
		"delta":     delta,
		"reason":    reason,
	})
	s.recordAudit(ctx, user, domain.AuditActionStockAdjust, "product", &product.ID,
		fmt.Sprintf("%+d units (%s)", delta, reason))

	return *product, nil
}

// applyStockDelta mutates one product's stock, history and status. Must be
// called with the lock held; the caller owns the write-through.
func (s *Store) applyStockDelta(product *domain.Product, delta int, reason, user string) {
	stock := product.Stock + delta
	if stock < 0 {
		stock = 0
	}
	product.Stock = stock
	product.Status = domain.DeriveStockStatus(stock, s.settings.LowStockThreshold)
	product.History = prependHistory(product.History,
		s.historyEntry(fmt.Sprintf("%+d units. Reason: %s", delta, reason), user))
	product.UpdatedAt = s.nowFunc()
}

// adjustStockForItems applies one order's line-item deltas. Line items with
// a missing or stale product reference are skipped; order mutations never
// fail because a referenced product is gone. Must be called with the lock
// held; the caller owns the write-through.
func (s *Store) adjustStockForItems(items []domain.OrderItem, sign int, reason, user string) bool {
	touched := false
	for _, item := range items {
		if item.ProductID == nil {
			continue
		}
		product := s.findProduct(*item.ProductID)
		if product == nil {
			s.logger.Warn("Order line references missing product, skipping stock adjustment",
				zap.String("product_id", item.ProductID.String()),
				zap.String("product_name", item.ProductName),
			)
			continue
		}
		s.applyStockDelta(product, sign*item.Quantity, reason, user)
		touched = true
	}
	return touched
}

// DeleteProducts removes every listed product in one pass. Missing ids are
// tolerated; the operation reports how many were actually removed.
func (s *Store) DeleteProducts(ctx context.Context, ids []uuid.UUID, user string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := s.products[:0]
	removed := 0
	for _, p := range s.products {
		if drop[p.ID] {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	s.products = kept

	if removed == 0 {
		return 0, nil
	}

	s.persistProducts(ctx)
	s.emit(ctx, domain.ActionDeleteProducts, map[string]any{"ids": ids})
	s.recordAudit(ctx, user, domain.AuditActionDelete, "product", nil,
		fmt.Sprintf("%d products deleted", removed))

	return removed, nil
}

// OverrideStatus bulk-sets product statuses directly, bypassing derivation.
// This is the one sanctioned way a status diverges from the stock level; it
// lasts until the product's next stock-affecting mutation.
func (s *Store) OverrideStatus(ctx context.Context, ids []uuid.UUID, status domain.StockStatus, user string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for _, id := range ids {
		product := s.findProduct(id)
		if product == nil {
			continue
		}
		product.Status = status
		product.UpdatedAt = s.nowFunc()
		updated++
	}

	if updated == 0 {
		return 0, nil
	}

	s.persistProducts(ctx)
	s.emit(ctx, domain.ActionOverrideStatus, map[string]any{
		"ids":    ids,
		"status": status,
	})
	s.recordAudit(ctx, user, domain.AuditActionStatusChange, "product", nil,
		fmt.Sprintf("%d products overridden to %s", updated, status))

	return updated, nil
}

func (s *Store) persistProducts(ctx context.Context) {
	records := make([]cache.Record, 0, len(s.products))
	for _, p := range s.products {
		if r, ok := s.snapshotRecord(p.ID.String(), p); ok {
			records = append(records, r)
		}
	}
	s.writeThrough(ctx, cache.TableProducts, records)
}
