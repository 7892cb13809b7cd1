package store

import (
	"context"
	"fmt"

	"github.com/buildmart-as/inventory-api/internal/cache"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SalesOrders returns a snapshot of the sales order collection, newest first
func (s *Store) SalesOrders() []domain.SalesOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.SalesOrder, len(s.salesOrders))
	for i, o := range s.salesOrders {
		out[i] = *o
	}
	return out
}

// SalesOrder returns one sales order by id
func (s *Store) SalesOrder(id uuid.UUID) (domain.SalesOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.findSalesOrder(id)
	if o == nil {
		return domain.SalesOrder{}, ErrNotFound
	}
	return *o, nil
}

// findSalesOrder must be called with the lock held
func (s *Store) findSalesOrder(id uuid.UUID) *domain.SalesOrder {
	for _, o := range s.salesOrders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// orderItems converts request line items, snapshotting the product name
func orderItems(reqs []domain.OrderItemRequest) []domain.OrderItem {
	items := make([]domain.OrderItem, len(reqs))
	for i, r := range reqs {
		items[i] = domain.OrderItem{
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
		}
	}
	return items
}

// orderTotal sums quantity times unit price across the line items, rounded
// to two decimal places
func orderTotal(items []domain.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total.Round(2)
}

// AddSalesOrder creates a sales order in Pending with a total frozen at
// creation, then deducts each resolvable line item's quantity from stock.
// The deduction is unconditional; stock availability is not checked, the
// clamp in the stock adjustment absorbs overshoot.
func (s *Store) AddSalesOrder(ctx context.Context, req domain.CreateSalesOrderRequest, user string) (domain.SalesOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	date := now
	if req.Date != nil {
		date = *req.Date
	}
	currency := req.Currency
	if currency == "" {
		currency = s.settings.DefaultCurrency
	}

	items := orderItems(req.Items)
	order := &domain.SalesOrder{
		ID: s.idFunc(),
		Customer: domain.Party{
			Name:    req.Customer.Name,
			Email:   req.Customer.Email,
			Phone:   req.Customer.Phone,
			Address: req.Customer.Address,
		},
		Date:      date,
		Currency:  currency,
		Items:     items,
		Total:     orderTotal(items),
		Status:    domain.SalesOrderPending,
		History:   []domain.HistoryEntry{s.historyEntry("Order Created", user)},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.salesOrders = append([]*domain.SalesOrder{order}, s.salesOrders...)
	s.persistSalesOrders(ctx)

	reason := fmt.Sprintf("Created Sales Order %s", order.ID)
	if s.adjustStockForItems(order.Items, -1, reason, user) {
		s.persistProducts(ctx)
	}

	s.emit(ctx, domain.ActionAddSalesOrder, order)
	s.recordAudit(ctx, user, domain.AuditActionCreate, "sales_order", &order.ID, order.Customer.Name)

	s.logger.Info("Sales order created",
		zap.String("order_id", order.ID.String()),
		zap.String("total", order.Total.String()),
		zap.Int("items", len(order.Items)),
	)
	return *order, nil
}

// UpdateSalesOrderStatus applies the sales order state machine. Entering
// Cancelled returns each line item's quantity to stock, leaving Cancelled
// re-deducts it; every other transition has no stock effect. Any
// cross-state transition is accepted; only a same-state transition is
// rejected.
func (s *Store) UpdateSalesOrderStatus(ctx context.Context, id uuid.UUID, newStatus domain.SalesOrderStatus, user string) (domain.SalesOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := s.findSalesOrder(id)
	if order == nil {
		return domain.SalesOrder{}, ErrNotFound
	}
	if order.Status == newStatus {
		return *order, ErrSameStatus
	}

	oldStatus := order.Status
	touched := false
	switch {
	case newStatus == domain.SalesOrderCancelled:
		touched = s.adjustStockForItems(order.Items, +1,
			fmt.Sprintf("Cancelled Sales Order %s", order.ID), user)
	case oldStatus == domain.SalesOrderCancelled:
		touched = s.adjustStockForItems(order.Items, -1,
			fmt.Sprintf("Reinstated Sales Order %s", order.ID), user)
	}

	order.Status = newStatus
	order.History = prependHistory(order.History,
		s.historyEntry(fmt.Sprintf("Status changed from %s to %s", oldStatus, newStatus), user))
	order.UpdatedAt = s.nowFunc()

	s.persistSalesOrders(ctx)
	if touched {
		s.persistProducts(ctx)
	}

	s.emit(ctx, domain.ActionSalesOrderStatus, map[string]any{
		"orderId": order.ID,
		"status":  newStatus,
	})
	s.recordAudit(ctx, user, domain.AuditActionStatusChange, "sales_order", &order.ID,
		fmt.Sprintf("%s -> %s", oldStatus, newStatus))

	return *order, nil
}

func (s *Store) persistSalesOrders(ctx context.Context) {
	records := make([]cache.Record, 0, len(s.salesOrders))
	for _, o := range s.salesOrders {
		if r, ok := s.snapshotRecord(o.ID.String(), o); ok {
			records = append(records, r)
		}
	}
	s.writeThrough(ctx, cache.TableSalesOrders, records)
}
