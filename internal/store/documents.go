package store

import (
	"context"
	"fmt"

	"github.com/buildmart-as/inventory-api/internal/cache"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/google/uuid"
)

// PackingSlips returns every packing slip, newest first. With a zero order
// id the full collection is returned; otherwise only that order's slips.
func (s *Store) PackingSlips(orderID uuid.UUID) []domain.PackingSlip {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.PackingSlip
	for _, p := range s.packingSlips {
		if orderID == uuid.Nil || p.OrderID == orderID {
			out = append(out, *p)
		}
	}
	return out
}

// ShippingLabels returns shipping labels, newest first, optionally
// filtered by order id
func (s *Store) ShippingLabels(orderID uuid.UUID) []domain.ShippingLabel {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.ShippingLabel
	for _, l := range s.shippingLabels {
		if orderID == uuid.Nil || l.OrderID == orderID {
			out = append(out, *l)
		}
	}
	return out
}

// IssuePackingSlip records a packing slip for a sales order. Documents are
// append-only; issuing again produces a new slip rather than replacing the
// old one. storagePath points at the rendered document, empty if rendering
// was skipped.
func (s *Store) IssuePackingSlip(ctx context.Context, orderID uuid.UUID, user, storagePath string) (domain.PackingSlip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findSalesOrder(orderID) == nil {
		return domain.PackingSlip{}, ErrNotFound
	}

	now := s.nowFunc()
	slip := &domain.PackingSlip{
		ID:          s.idFunc(),
		OrderID:     orderID,
		SlipNumber:  fmt.Sprintf("PS-%s-%04d", now.Format("20060102"), len(s.packingSlips)+1),
		IssuedAt:    now,
		IssuedBy:    user,
		StoragePath: storagePath,
	}

	s.packingSlips = append([]*domain.PackingSlip{slip}, s.packingSlips...)
	s.persistPackingSlips(ctx)

	s.emit(ctx, domain.ActionIssuePackingSlip, slip)
	s.recordAudit(ctx, user, domain.AuditActionCreate, "packing_slip", &slip.ID, slip.SlipNumber)

	return *slip, nil
}

// IssueShippingLabel records a shipping label for a sales order. Same
// append-only shape as packing slips.
func (s *Store) IssueShippingLabel(ctx context.Context, orderID uuid.UUID, carrier, user, storagePath string) (domain.ShippingLabel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findSalesOrder(orderID) == nil {
		return domain.ShippingLabel{}, ErrNotFound
	}

	now := s.nowFunc()
	label := &domain.ShippingLabel{
		ID:          s.idFunc(),
		OrderID:     orderID,
		LabelNumber: fmt.Sprintf("SL-%s-%04d", now.Format("20060102"), len(s.shippingLabels)+1),
		Carrier:     carrier,
		IssuedAt:    now,
		IssuedBy:    user,
		StoragePath: storagePath,
	}

	s.shippingLabels = append([]*domain.ShippingLabel{label}, s.shippingLabels...)
	s.persistShippingLabels(ctx)

	s.emit(ctx, domain.ActionIssueShippingLabel, label)
	s.recordAudit(ctx, user, domain.AuditActionCreate, "shipping_label", &label.ID, label.LabelNumber)

	return *label, nil
}

func (s *Store) persistPackingSlips(ctx context.Context) {
	records := make([]cache.Record, 0, len(s.packingSlips))
	for _, p := range s.packingSlips {
		if r, ok := s.snapshotRecord(p.ID.String(), p); ok {
			records = append(records, r)
		}
	}
	s.writeThrough(ctx, cache.TablePackingSlips, records)
}

func (s *Store) persistShippingLabels(ctx context.Context) {
	records := make([]cache.Record, 0, len(s.shippingLabels))
	for _, l := range s.shippingLabels {
		if r, ok := s.snapshotRecord(l.ID.String(), l); ok {
			records = append(records, r)
		}
	}
	s.writeThrough(ctx, cache.TableShippingLabels, records)
}
