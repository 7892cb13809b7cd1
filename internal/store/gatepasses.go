package store

import (
	"context"
	"fmt"

	"github.com/buildmart-as/inventory-api/internal/cache"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GatePasses returns a snapshot of the gate pass collection, newest first
func (s *Store) GatePasses() []domain.GatePass {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.GatePass, len(s.gatePasses))
	for i, g := range s.gatePasses {
		out[i] = *g
	}
	return out
}

// findGatePass must be called with the lock held
func (s *Store) findGatePass(id uuid.UUID) *domain.GatePass {
	for _, g := range s.gatePasses {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// AddGatePass issues a gate pass for a sales order. The linked order must
// exist; a pass for a vanished order would be unusable at the gate.
func (s *Store) AddGatePass(ctx context.Context, req domain.CreateGatePassRequest, user string) (domain.GatePass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findSalesOrder(req.OrderID) == nil {
		return domain.GatePass{}, ErrNotFound
	}

	pass := &domain.GatePass{
		ID:            s.idFunc(),
		OrderID:       req.OrderID,
		DriverName:    req.DriverName,
		VehicleNumber: req.VehicleNumber,
		Status:        domain.GatePassIssued,
		IssuedAt:      s.nowFunc(),
	}

	s.gatePasses = append([]*domain.GatePass{pass}, s.gatePasses...)
	s.persistGatePasses(ctx)

	s.emit(ctx, domain.ActionAddGatePass, pass)
	s.recordAudit(ctx, user, domain.AuditActionCreate, "gate_pass", &pass.ID, pass.VehicleNumber)

	s.logger.Info("Gate pass issued",
		zap.String("gate_pass_id", pass.ID.String()),
		zap.String("order_id", pass.OrderID.String()),
	)
	return *pass, nil
}

// ClearGatePass transitions a pass to Exited, stamping the clearing user
// and the exit time, and appends a history entry on the linked sales order.
// This is the one place gate-pass state feeds back into order history; a
// vanished order is tolerated.
func (s *Store) ClearGatePass(ctx context.Context, id uuid.UUID, clearedBy, user string) (domain.GatePass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pass := s.findGatePass(id)
	if pass == nil {
		return domain.GatePass{}, ErrNotFound
	}
	if pass.Status == domain.GatePassExited {
		return *pass, ErrGatePassExited
	}

	now := s.nowFunc()
	pass.Status = domain.GatePassExited
	pass.ClearedBy = clearedBy
	pass.ExitedAt = &now

	s.persistGatePasses(ctx)

	if order := s.findSalesOrder(pass.OrderID); order != nil {
		order.History = prependHistory(order.History,
			s.historyEntry(fmt.Sprintf("Vehicle %s cleared at gate by %s", pass.VehicleNumber, clearedBy), user))
		order.UpdatedAt = now
		s.persistSalesOrders(ctx)
	}

	s.emit(ctx, domain.ActionGatePassStatus, map[string]any{
		"id":        pass.ID,
		"status":    pass.Status,
		"clearedBy": clearedBy,
	})
	s.recordAudit(ctx, user, domain.AuditActionStatusChange, "gate_pass", &pass.ID,
		fmt.Sprintf("cleared by %s", clearedBy))

	return *pass, nil
}

func (s *Store) persistGatePasses(ctx context.Context) {
	records := make([]cache.Record, 0, len(s.gatePasses))
	for _, g := range s.gatePasses {
		if r, ok := s.snapshotRecord(g.ID.String(), g); ok {
			records = append(records, r)
		}
	}
	s.writeThrough(ctx, cache.TableGatePasses, records)
}
