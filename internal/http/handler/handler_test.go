package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/internal/auth"
	"github.com/buildmart-as/inventory-api/internal/cache"
	"github.com/buildmart-as/inventory-api/internal/config"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/buildmart-as/inventory-api/internal/queue"
	"github.com/buildmart-as/inventory-api/internal/store"
)

func newHandlerTestStore(t *testing.T) *store.Store {
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

func testUserContext() context.Context {
	userCtx := &auth.UserContext{
		UserID:      uuid.New(),
		Username:    "olav",
		DisplayName: "Olav Test",
		Roles:       []domain.UserRole{domain.RoleAdmin},
	}
	return auth.WithUserContext(context.Background(), userCtx)
}

// newTestRequest builds a request carrying an authenticated user context
// and an optional JSON body.
func newTestRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	return req.WithContext(testUserContext())
}

// withURLParam injects a chi route parameter so handlers can be exercised
// without mounting a full router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), target))
}
