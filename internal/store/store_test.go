package store

import (
	"context"
	"testing"
	"time"

	"github.com/buildmart-as/inventory-api/internal/cache"
	"github.com/buildmart-as/inventory-api/internal/config"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/buildmart-as/inventory-api/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := cache.NewDatabase(&config.CacheConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	return db
}

func newStoreOnDB(t *testing.T, db *gorm.DB) *Store {
	t.Helper()
	logger := zap.NewNop()
	s := New(
		cache.NewStore(db, logger),
		queue.New(db, logger),
		logger,
		WithDefaults(Defaults{LowStockThreshold: 1000, DefaultCurrency: "NOK"}),
	)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return newStoreOnDB(t, newTestDB(t))
}

func TestLoad_SeedsDefaults(t *testing.T) {
	s := newTestStore(t)

	settings := s.Settings()
	assert.Equal(t, 1000, settings.LowStockThreshold)
	assert.Equal(t, "NOK", settings.DefaultCurrency)

	categories := s.Categories()
	require.Len(t, categories, 1)
	assert.Equal(t, domain.UncategorizedCategory, categories[0].Name)

	users := s.Users()
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Username)
}

func TestLoad_SurvivesRestart(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	s1 := newStoreOnDB(t, db)
	p, err := s1.AddProduct(ctx, domain.CreateProductRequest{
		SKU: "REB-12", Name: "Rebar 12mm", Unit: domain.UnitPiece, Stock: 500,
	}, "olav")
	require.NoError(t, err)
	_, err = s1.AddSupplier(ctx, domain.CreateSupplierRequest{Name: "Norsk Stål"}, "olav")
	require.NoError(t, err)

	// A second store over the same cache database simulates a restart
	s2 := newStoreOnDB(t, db)

	products := s2.Products()
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)
	assert.Equal(t, 500, products[0].Stock)
	assert.Equal(t, domain.StockStatusLowStock, products[0].Status)

	require.Len(t, s2.Suppliers(), 1)

	// Queued actions survive too: one per mutation above
	pending, err := s2.PendingActions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)
}

func TestLoad_RestoresNewestFirstOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// A ticking clock gives every entity a distinct timestamp, so the
	// ordering after reload is unambiguous
	clock := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	tick := func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	logger := zap.NewNop()
	s1 := New(
		cache.NewStore(db, logger),
		queue.New(db, logger),
		logger,
		WithDefaults(Defaults{LowStockThreshold: 1000, DefaultCurrency: "NOK"}),
		WithNowFunc(tick),
	)
	require.NoError(t, s1.Load(ctx))

	for _, sku := range []string{"REB-08", "REB-10", "REB-12"} {
		_, err := s1.AddProduct(ctx, domain.CreateProductRequest{
			SKU: sku, Name: "Rebar " + sku, Unit: domain.UnitPiece, Stock: 100,
		}, "olav")
		require.NoError(t, err)
	}

	before := make([]string, 0, 3)
	for _, p := range s1.Products() {
		before = append(before, p.SKU)
	}
	require.Equal(t, []string{"REB-12", "REB-10", "REB-08"}, before)

	// Snapshot rows come back in whatever order the cache returns them;
	// hydration must restore newest first regardless
	s2 := newStoreOnDB(t, db)

	after := make([]string, 0, 3)
	for _, p := range s2.Products() {
		after = append(after, p.SKU)
	}
	assert.Equal(t, before, after)

	// The audit trail is ordered the same way, so truncation at the cap
	// drops the oldest entries, never arbitrary ones
	logs := s2.AuditLogs(AuditFilter{EntityType: "product"})
	require.Len(t, logs, 3)
	assert.True(t, logs[0].PerformedAt.After(logs[1].PerformedAt))
	assert.True(t, logs[1].PerformedAt.After(logs[2].PerformedAt))
}

func TestEveryMutationEmitsExactlyOneAction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.AddProduct(ctx, domain.CreateProductRequest{
		SKU: "CEM-25", Name: "Cement 25kg", Unit: domain.UnitBag, Stock: 2000,
	}, "olav")
	require.NoError(t, err)

	_, err = s.AdjustStock(ctx, p.ID, -100, "Breakage", "olav")
	require.NoError(t, err)

	_, err = s.UpdateSettings(ctx, domain.UpdateSettingsRequest{LowStockThreshold: 500}, "olav")
	require.NoError(t, err)

	pending, err := s.PendingActions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pending)
}

func TestAuthenticate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddUser(ctx, domain.CreateUserRequest{
		Username: "kari", Password: "hunter2", DisplayName: "Kari",
		Roles: []domain.UserRole{domain.RoleSales},
	}, "admin")
	require.NoError(t, err)

	u, err := s.Authenticate(ctx, "kari", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "kari", u.Username)
	assert.True(t, u.HasRole(domain.RoleSales))

	_, err = s.Authenticate(ctx, "kari", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Authenticate(ctx, "nobody", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_BlockedUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.AddUser(ctx, domain.CreateUserRequest{
		Username: "per", Password: "pw", DisplayName: "Per",
		Roles: []domain.UserRole{domain.RoleWarehouse},
	}, "admin")
	require.NoError(t, err)

	_, err = s.UpdateUser(ctx, u.ID, domain.UpdateUserRequest{
		DisplayName: "Per", Roles: u.Roles, Status: domain.UserStatusBlocked,
	}, "admin")
	require.NoError(t, err)

	_, err = s.Authenticate(ctx, "per", "pw")
	assert.ErrorIs(t, err, ErrUserBlocked)
}

func TestAddUser_DuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddUser(ctx, domain.CreateUserRequest{
		Username: "admin", Password: "x", DisplayName: "X",
		Roles: []domain.UserRole{domain.RoleViewer},
	}, "admin")
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestThresholdChangeDoesNotRecomputeUntilNextMutation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.AddProduct(ctx, domain.CreateProductRequest{
		SKU: "PLY-18", Name: "Plywood 18mm", Unit: domain.UnitSqm, Stock: 800,
	}, "olav")
	require.NoError(t, err)
	assert.Equal(t, domain.StockStatusLowStock, p.Status)

	// Lower the threshold so 800 would now derive In Stock
	_, err = s.UpdateSettings(ctx, domain.UpdateSettingsRequest{LowStockThreshold: 500}, "olav")
	require.NoError(t, err)

	got, err := s.Product(p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StockStatusLowStock, got.Status, "status stays stale until the product mutates")

	got, err = s.AdjustStock(ctx, p.ID, 0, "Recount", "olav")
	require.NoError(t, err)
	assert.Equal(t, domain.StockStatusInStock, got.Status)
}

func TestOverdueReminders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	order, err := s.AddSalesOrder(ctx, domain.CreateSalesOrderRequest{
		Customer: domain.PartyRequest{Name: "Bygg AS"},
		Items:    []domain.OrderItemRequest{{ProductName: "Gravel", Quantity: 1}},
	}, "olav")
	require.NoError(t, err)

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	_, err = s.AddReminder(ctx, domain.CreateReminderRequest{
		OrderID: order.ID, Task: "Call customer", DueAt: past,
	}, "olav")
	require.NoError(t, err)
	done, err := s.AddReminder(ctx, domain.CreateReminderRequest{
		OrderID: order.ID, Task: "Send invoice", DueAt: past,
	}, "olav")
	require.NoError(t, err)
	_, err = s.AddReminder(ctx, domain.CreateReminderRequest{
		OrderID: order.ID, Task: "Follow up", DueAt: future,
	}, "olav")
	require.NoError(t, err)

	_, err = s.CompleteReminder(ctx, done.ID, "olav")
	require.NoError(t, err)

	overdue := s.OverdueReminders(time.Now().UTC())
	require.Len(t, overdue, 1)
	assert.Equal(t, "Call customer", overdue[0].Task)
}

func TestGatePass_ClearAppendsOrderHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	order, err := s.AddSalesOrder(ctx, domain.CreateSalesOrderRequest{
		Customer: domain.PartyRequest{Name: "Bygg AS"},
		Items:    []domain.OrderItemRequest{{ProductName: "Sand", Quantity: 3}},
	}, "olav")
	require.NoError(t, err)

	pass, err := s.AddGatePass(ctx, domain.CreateGatePassRequest{
		OrderID: order.ID, DriverName: "Nils", VehicleNumber: "AB 12345",
	}, "olav")
	require.NoError(t, err)
	assert.Equal(t, domain.GatePassIssued, pass.Status)
	assert.Empty(t, pass.ClearedBy)
	assert.Nil(t, pass.ExitedAt)

	cleared, err := s.ClearGatePass(ctx, pass.ID, "vakt", "olav")
	require.NoError(t, err)
	assert.Equal(t, domain.GatePassExited, cleared.Status)
	assert.Equal(t, "vakt", cleared.ClearedBy)
	require.NotNil(t, cleared.ExitedAt)

	got, err := s.SalesOrder(order.ID)
	require.NoError(t, err)
	require.NotEmpty(t, got.History)
	assert.Contains(t, got.History[0].Action, "AB 12345")

	// A second clear is rejected
	_, err = s.ClearGatePass(ctx, pass.ID, "vakt", "olav")
	assert.ErrorIs(t, err, ErrGatePassExited)
}

func TestGatePass_RequiresExistingOrder(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddGatePass(context.Background(), domain.CreateGatePassRequest{
		OrderID: uuidMust(), DriverName: "Nils", VehicleNumber: "AB 12345",
	}, "olav")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueDocuments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	order, err := s.AddSalesOrder(ctx, domain.CreateSalesOrderRequest{
		Customer: domain.PartyRequest{Name: "Bygg AS"},
		Items:    []domain.OrderItemRequest{{ProductName: "Bricks", Quantity: 100}},
	}, "olav")
	require.NoError(t, err)

	slip, err := s.IssuePackingSlip(ctx, order.ID, "olav", "documents/ps-1.html")
	require.NoError(t, err)
	assert.Contains(t, slip.SlipNumber, "PS-")

	// Documents are append-only: a second issue adds, never replaces
	_, err = s.IssuePackingSlip(ctx, order.ID, "olav", "documents/ps-2.html")
	require.NoError(t, err)
	assert.Len(t, s.PackingSlips(order.ID), 2)

	label, err := s.IssueShippingLabel(ctx, order.ID, "Bring", "olav", "")
	require.NoError(t, err)
	assert.Contains(t, label.LabelNumber, "SL-")
	assert.Equal(t, "Bring", label.Carrier)

	_, err = s.IssuePackingSlip(ctx, uuidMust(), "olav", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuditLogFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddProduct(ctx, domain.CreateProductRequest{
		SKU: "A", Name: "A", Unit: domain.UnitPiece,
	}, "olav")
	require.NoError(t, err)
	_, err = s.AddSupplier(ctx, domain.CreateSupplierRequest{Name: "S"}, "kari")
	require.NoError(t, err)

	all := s.AuditLogs(AuditFilter{})
	assert.GreaterOrEqual(t, len(all), 2)

	byUser := s.AuditLogs(AuditFilter{User: "kari"})
	require.Len(t, byUser, 1)
	assert.Equal(t, "supplier", byUser[0].EntityType)

	byType := s.AuditLogs(AuditFilter{EntityType: "product"})
	require.Len(t, byType, 1)
	assert.Equal(t, "olav", byType[0].UserName)
}
