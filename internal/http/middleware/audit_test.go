package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/internal/auth"
	"github.com/buildmart-as/inventory-api/internal/cache"
	"github.com/buildmart-as/inventory-api/internal/config"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/buildmart-as/inventory-api/internal/queue"
	"github.com/buildmart-as/inventory-api/internal/store"
)

func newAuditTestStore(t *testing.T) *store.Store {
	t.Helper()
	logger := zap.NewNop()
	db, err := cache.NewDatabase(&config.CacheConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)

	s := store.New(cache.NewStore(db, logger), queue.New(db, logger), logger)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func auditServe(t *testing.T, s *store.Store, method, path string, status int) {
	t.Helper()
	m := NewAuditMiddleware(s, nil, zap.NewNop())
	handler := m.Audit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	req := httptest.NewRequest(method, path, nil)
	req = req.WithContext(auth.WithUserContext(req.Context(), &auth.UserContext{
		UserID:   uuid.New(),
		Username: "olav",
		Roles:    []domain.UserRole{domain.RoleAdmin},
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func apiCallEntries(s *store.Store) []domain.AuditLog {
	return s.AuditLogs(store.AuditFilter{Action: domain.AuditActionCreate})
}

func TestAudit_RecordsSuccessfulWrites(t *testing.T) {
	s := newAuditTestStore(t)
	auditServe(t, s, http.MethodPost, "/api/v1/products", http.StatusCreated)

	entries := apiCallEntries(s)
	require.Len(t, entries, 1)
	assert.Equal(t, "olav", entries[0].UserName)
	assert.Equal(t, "product", entries[0].EntityType)
	assert.Contains(t, entries[0].Detail, "POST /api/v1/products")
}

func TestAudit_SkipsReads(t *testing.T) {
	s := newAuditTestStore(t)
	auditServe(t, s, http.MethodGet, "/api/v1/products", http.StatusOK)

	assert.Empty(t, apiCallEntries(s))
}

func TestAudit_SkipsFailures(t *testing.T) {
	s := newAuditTestStore(t)
	auditServe(t, s, http.MethodPost, "/api/v1/products", http.StatusBadRequest)

	assert.Empty(t, apiCallEntries(s))
}

func TestAudit_SkipsLogin(t *testing.T) {
	s := newAuditTestStore(t)
	auditServe(t, s, http.MethodPost, "/api/v1/auth/login", http.StatusOK)

	assert.Empty(t, apiCallEntries(s))
}

func TestAudit_NestedDocumentPath(t *testing.T) {
	s := newAuditTestStore(t)
	orderID := uuid.New().String()
	auditServe(t, s, http.MethodPost, "/api/v1/sales-orders/"+orderID+"/packing-slips", http.StatusCreated)

	entries := apiCallEntries(s)
	require.Len(t, entries, 1)
	assert.Equal(t, "packing_slip", entries[0].EntityType)
}

func TestAudit_ManualDrainRecordsSyncAction(t *testing.T) {
	s := newAuditTestStore(t)
	auditServe(t, s, http.MethodPost, "/api/v1/sync/drain", http.StatusOK)

	entries := s.AuditLogs(store.AuditFilter{Action: domain.AuditActionSync})
	require.Len(t, entries, 1)
	assert.Equal(t, "sync", entries[0].EntityType)
	assert.Equal(t, "olav", entries[0].UserName)

	// The drain is not recorded a second time as a create
	assert.Empty(t, apiCallEntries(s))
}
