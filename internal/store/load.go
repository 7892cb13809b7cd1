package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/buildmart-as/inventory-api/internal/cache"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"go.uber.org/zap"
)

// Load initializes the cache schema and the queue table, then hydrates
// every in-memory collection from the cache snapshots. On a fresh cache it
// seeds the Uncategorized category, the default settings and a bootstrap
// admin user. Load must complete before the store serves any operation.
func (s *Store) Load(ctx context.Context) error {
	if err := s.cache.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	if err := s.queue.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize action queue: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := loadTable(ctx, s, cache.TableProducts, &s.products,
		func(p *domain.Product) time.Time { return p.CreatedAt }); err != nil {
		return err
	}
	if err := loadTable(ctx, s, cache.TableCategories, &s.categories,
		func(c *domain.Category) time.Time { return c.CreatedAt }); err != nil {
		return err
	}
	if err := loadTable(ctx, s, cache.TableSalesOrders, &s.salesOrders,
		func(o *domain.SalesOrder) time.Time { return o.CreatedAt }); err != nil {
		return err
	}
	if err := loadTable(ctx, s, cache.TablePurchaseOrders, &s.purchaseOrders,
		func(o *domain.PurchaseOrder) time.Time { return o.CreatedAt }); err != nil {
		return err
	}
	if err := loadTable(ctx, s, cache.TableSuppliers, &s.suppliers,
		func(sp *domain.Supplier) time.Time { return sp.CreatedAt }); err != nil {
		return err
	}
	if err := loadTable(ctx, s, cache.TableGatePasses, &s.gatePasses,
		func(g *domain.GatePass) time.Time { return g.IssuedAt }); err != nil {
		return err
	}
	if err := loadTable(ctx, s, cache.TableReminders, &s.reminders,
		func(r *domain.Reminder) time.Time { return r.CreatedAt }); err != nil {
		return err
	}
	if err := loadTable(ctx, s, cache.TablePackingSlips, &s.packingSlips,
		func(p *domain.PackingSlip) time.Time { return p.IssuedAt }); err != nil {
		return err
	}
	if err := loadTable(ctx, s, cache.TableShippingLabels, &s.shippingLabels,
		func(l *domain.ShippingLabel) time.Time { return l.IssuedAt }); err != nil {
		return err
	}
	if err := loadTable(ctx, s, cache.TableAuditLogs, &s.auditLogs,
		func(a *domain.AuditLog) time.Time { return a.PerformedAt }); err != nil {
		return err
	}
	if err := s.loadUsers(ctx); err != nil {
		return err
	}
	if err := s.loadSettings(ctx); err != nil {
		return err
	}

	s.seedDefaults(ctx)

	pending, err := s.queue.Len(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect action queue: %w", err)
	}

	s.logger.Info("State loaded from cache",
		zap.Int("products", len(s.products)),
		zap.Int("sales_orders", len(s.salesOrders)),
		zap.Int("purchase_orders", len(s.purchaseOrders)),
		zap.Int("users", len(s.users)),
		zap.Int64("pending_actions", pending),
	)
	return nil
}

// loadTable hydrates one collection from its snapshot table. Corrupt
// records are skipped with a log, never fatal; losing one cached row beats
// refusing to start. Snapshot rows carry no ordering of their own, so the
// collection is re-sorted newest first by the entity's timestamp to match
// the in-memory invariant.
func loadTable[T any](ctx context.Context, s *Store, table string, into *[]*T, at func(*T) time.Time) error {
	records, err := s.cache.LoadAll(ctx, table)
	if err != nil {
		return fmt.Errorf("failed to load %s from cache: %w", table, err)
	}

	items := make([]*T, 0, len(records))
	for _, r := range records {
		item := new(T)
		if err := json.Unmarshal(r.Payload, item); err != nil {
			s.logger.Warn("Skipping corrupt cache record",
				zap.String("table", table),
				zap.String("record_id", r.ID),
				zap.Error(err),
			)
			continue
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return at(items[i]).After(at(items[j]))
	})
	*into = items
	return nil
}

func (s *Store) loadUsers(ctx context.Context) error {
	records, err := s.cache.LoadAll(ctx, cache.TableUsers)
	if err != nil {
		return fmt.Errorf("failed to load users from cache: %w", err)
	}

	users := make([]*domain.User, 0, len(records))
	for _, r := range records {
		var cu cachedUser
		if err := json.Unmarshal(r.Payload, &cu); err != nil {
			s.logger.Warn("Skipping corrupt cache record",
				zap.String("table", cache.TableUsers),
				zap.String("record_id", r.ID),
				zap.Error(err),
			)
			continue
		}
		users = append(users, &domain.User{
			ID:          cu.ID,
			Username:    cu.Username,
			Password:    cu.Password,
			DisplayName: cu.DisplayName,
			Roles:       cu.Roles,
			Status:      cu.Status,
			CreatedAt:   cu.CreatedAt,
			UpdatedAt:   cu.UpdatedAt,
		})
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	s.users = users
	return nil
}

func (s *Store) loadSettings(ctx context.Context) error {
	records, err := s.cache.LoadAll(ctx, cache.TableSettings)
	if err != nil {
		return fmt.Errorf("failed to load settings from cache: %w", err)
	}
	for _, r := range records {
		if r.ID != settingsRecordID {
			continue
		}
		if err := json.Unmarshal(r.Payload, &s.settings); err != nil {
			s.logger.Warn("Corrupt settings record, falling back to defaults", zap.Error(err))
		}
		break
	}
	return nil
}

// seedDefaults fills in whatever a fresh cache is missing. Seeding writes
// straight through to the cache but emits no actions; bootstrap state is
// not a user mutation.
func (s *Store) seedDefaults(ctx context.Context) {
	if s.settings.LowStockThreshold <= 0 {
		s.settings.LowStockThreshold = s.defaults.LowStockThreshold
		s.settings.DefaultCurrency = s.defaults.DefaultCurrency
		s.settings.UpdatedAt = s.nowFunc()
		s.persistSettings(ctx)
	}

	if s.findCategory(domain.UncategorizedCategory) == nil {
		s.ensureUncategorized()
		s.persistCategories(ctx)
	}

	if len(s.users) == 0 {
		now := s.nowFunc()
		admin := &domain.User{
			ID:          s.idFunc(),
			Username:    "admin",
			Password:    "admin",
			DisplayName: "Administrator",
			Roles:       []domain.UserRole{domain.RoleAdmin},
			Status:      domain.UserStatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		s.users = []*domain.User{admin}
		s.persistUsers(ctx)
		s.logger.Warn("No users in cache, seeded bootstrap admin account; change its password")
	}
}
