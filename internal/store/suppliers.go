package store

import (
	"context"

	"github.com/buildmart-as/inventory-api/internal/cache"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/google/uuid"
)

// Suppliers returns a snapshot of the supplier collection, newest first
func (s *Store) Suppliers() []domain.Supplier {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Supplier, len(s.suppliers))
	for i, sp := range s.suppliers {
		out[i] = *sp
	}
	return out
}

// Supplier returns one supplier by id
func (s *Store) Supplier(id uuid.UUID) (domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp := s.findSupplier(id)
	if sp == nil {
		return domain.Supplier{}, ErrNotFound
	}
	return *sp, nil
}

// findSupplier must be called with the lock held
func (s *Store) findSupplier(id uuid.UUID) *domain.Supplier {
	for _, sp := range s.suppliers {
		if sp.ID == id {
			return sp
		}
	}
	return nil
}

// AddSupplier registers a new materials vendor
func (s *Store) AddSupplier(ctx context.Context, req domain.CreateSupplierRequest, user string) (domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	supplier := &domain.Supplier{
		ID:            s.idFunc(),
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Materials:     req.Materials,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	s.suppliers = append([]*domain.Supplier{supplier}, s.suppliers...)
	s.persistSuppliers(ctx)

	s.emit(ctx, domain.ActionAddSupplier, supplier)
	s.recordAudit(ctx, user, domain.AuditActionCreate, "supplier", &supplier.ID, supplier.Name)

	return *supplier, nil
}

// UpdateSupplier replaces a supplier's attributes
func (s *Store) UpdateSupplier(ctx context.Context, id uuid.UUID, req domain.CreateSupplierRequest, user string) (domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	supplier := s.findSupplier(id)
	if supplier == nil {
		return domain.Supplier{}, ErrNotFound
	}

	supplier.Name = req.Name
	supplier.ContactPerson = req.ContactPerson
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	supplier.Materials = req.Materials
	supplier.UpdatedAt = s.nowFunc()

	s.persistSuppliers(ctx)
	s.emit(ctx, domain.ActionUpdateSupplier, supplier)
	s.recordAudit(ctx, user, domain.AuditActionUpdate, "supplier", &supplier.ID, supplier.Name)

	return *supplier, nil
}

// DeleteSupplier removes a supplier. Products referencing the supplier by
// name keep the stale name; the reference is descriptive, not relational.
func (s *Store) DeleteSupplier(ctx context.Context, id uuid.UUID, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	kept := s.suppliers[:0]
	for _, sp := range s.suppliers {
		if sp.ID == id {
			found = true
			continue
		}
		kept = append(kept, sp)
	}
	if !found {
		return ErrNotFound
	}
	s.suppliers = kept

	s.persistSuppliers(ctx)
	s.emit(ctx, domain.ActionDeleteSupplier, map[string]any{"id": id})
	s.recordAudit(ctx, user, domain.AuditActionDelete, "supplier", &id, "supplier deleted")

	return nil
}

func (s *Store) persistSuppliers(ctx context.Context) {
	records := make([]cache.Record, 0, len(s.suppliers))
	for _, sp := range s.suppliers {
		if r, ok := s.snapshotRecord(sp.ID.String(), sp); ok {
			records = append(records, r)
		}
	}
	s.writeThrough(ctx, cache.TableSuppliers, records)
}
