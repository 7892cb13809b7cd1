package store

import (
	"context"
	"fmt"

	"github.com/buildmart-as/inventory-api/internal/cache"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseOrders returns a snapshot of the purchase order collection,
// newest first
func (s *Store) PurchaseOrders() []domain.PurchaseOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.PurchaseOrder, len(s.purchaseOrders))
	for i, o := range s.purchaseOrders {
		out[i] = *o
	}
	return out
}

// PurchaseOrder returns one purchase order by id
func (s *Store) PurchaseOrder(id uuid.UUID) (domain.PurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.findPurchaseOrder(id)
	if o == nil {
		return domain.PurchaseOrder{}, ErrNotFound
	}
	return *o, nil
}

// findPurchaseOrder must be called with the lock held
func (s *Store) findPurchaseOrder(id uuid.UUID) *domain.PurchaseOrder {
	for _, o := range s.purchaseOrders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// AddPurchaseOrder creates a purchase order in Pending with a total frozen
// at creation. Stock is untouched until the order transitions to Received.
func (s *Store) AddPurchaseOrder(ctx context.Context, req domain.CreatePurchaseOrderRequest, user string) (domain.PurchaseOrder, error) {
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
	order := &domain.PurchaseOrder{
		ID: s.idFunc(),
		Vendor: domain.Party{
			Name:    req.Vendor.Name,
			Email:   req.Vendor.Email,
			Phone:   req.Vendor.Phone,
			Address: req.Vendor.Address,
		},
		Date:      date,
		Currency:  currency,
		Items:     items,
		Total:     orderTotal(items),
		Status:    domain.PurchaseOrderPending,
		History:   []domain.HistoryEntry{s.historyEntry("Order Created", user)},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.purchaseOrders = append([]*domain.PurchaseOrder{order}, s.purchaseOrders...)
	s.persistPurchaseOrders(ctx)

	s.emit(ctx, domain.ActionAddPurchaseOrder, order)
	s.recordAudit(ctx, user, domain.AuditActionCreate, "purchase_order", &order.ID, order.Vendor.Name)

	s.logger.Info("Purchase order created",
		zap.String("order_id", order.ID.String()),
		zap.String("total", order.Total.String()),
		zap.Int("items", len(order.Items)),
	)
	return *order, nil
}

// UpdatePurchaseOrderStatus applies the purchase order state machine.
// Entering Received adds each line item's quantity to stock, leaving
// Received reverses the receipt; all other transitions have no stock
// effect. Any cross-state transition is accepted; only a same-state
// transition is rejected.
func (s *Store) UpdatePurchaseOrderStatus(ctx context.Context, id uuid.UUID, newStatus domain.PurchaseOrderStatus, user string) (domain.PurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := s.findPurchaseOrder(id)
	if order == nil {
		return domain.PurchaseOrder{}, ErrNotFound
	}
	if order.Status == newStatus {
		return *order, ErrSameStatus
	}

	oldStatus := order.Status
	touched := false
	switch {
	case newStatus == domain.PurchaseOrderReceived:
		touched = s.adjustStockForItems(order.Items, +1,
			fmt.Sprintf("Received Purchase Order %s", order.ID), user)
	case oldStatus == domain.PurchaseOrderReceived:
		touched = s.adjustStockForItems(order.Items, -1,
			fmt.Sprintf("Reversed receipt of Purchase Order %s", order.ID), user)
	}

	order.Status = newStatus
	order.History = prependHistory(order.History,
		s.historyEntry(fmt.Sprintf("Status changed from %s to %s", oldStatus, newStatus), user))
	order.UpdatedAt = s.nowFunc()

	s.persistPurchaseOrders(ctx)
	if touched {
		s.persistProducts(ctx)
	}

	s.emit(ctx, domain.ActionPurchaseOrderStatus, map[string]any{
		"orderId": order.ID,
		"status":  newStatus,
	})
	s.recordAudit(ctx, user, domain.AuditActionStatusChange, "purchase_order", &order.ID,
		fmt.Sprintf("%s -> %s", oldStatus, newStatus))

	return *order, nil
}

// UpdateTrackingNumber sets a purchase order's tracking number. The number
// itself is not validated; only the history records that it changed.
func (s *Store) UpdateTrackingNumber(ctx context.Context, id uuid.UUID, trackingNumber, user string) (domain.PurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := s.findPurchaseOrder(id)
	if order == nil {
		return domain.PurchaseOrder{}, ErrNotFound
	}

	order.TrackingNumber = trackingNumber
	order.History = prependHistory(order.History, s.historyEntry("Tracking number updated", user))
	order.UpdatedAt = s.nowFunc()

	s.persistPurchaseOrders(ctx)
	s.emit(ctx, domain.ActionPurchaseOrderTrack, map[string]any{
		"orderId":        order.ID,
		"trackingNumber": trackingNumber,
	})
	s.recordAudit(ctx, user, domain.AuditActionUpdate, "purchase_order", &order.ID, "tracking number updated")

	s.logger.Debug("Tracking number updated", zap.String("order_id", order.ID.String()))
	return *order, nil
}

func (s *Store) persistPurchaseOrders(ctx context.Context) {
	records := make([]cache.Record, 0, len(s.purchaseOrders))
	for _, o := range s.purchaseOrders {
		if r, ok := s.snapshotRecord(o.ID.String(), o); ok {
			records = append(records, r)
		}
	}
	s.writeThrough(ctx, cache.TablePurchaseOrders, records)
}
