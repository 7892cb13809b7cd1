package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/internal/config"
	"github.com/buildmart-as/inventory-api/internal/domain"
)

func newTestTokenService() *TokenService {
	return NewTokenService(&config.AuthConfig{
		JWTSecret:     "test-secret",
		TokenTTLHours: 1,
		Issuer:        "inventory-api-test",
	})
}

func testUser() *domain.User {
	return &domain.User{
		ID:          uuid.New(),
		Username:    "kari",
		DisplayName: "Kari Nordmann",
		Roles:       []domain.UserRole{domain.RoleManager, domain.RoleSales},
		Status:      domain.UserStatusActive,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService()
	user := testUser()

	token, expiresAt, err := svc.Issue(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	userCtx, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)
	assert.Equal(t, "kari", userCtx.Username)
	assert.Equal(t, "Kari Nordmann", userCtx.DisplayName)
	assert.Equal(t, []domain.UserRole{domain.RoleManager, domain.RoleSales}, userCtx.Roles)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	svc := newTestTokenService()
	token, _, err := svc.Issue(testUser())
	require.NoError(t, err)

	other := NewTokenService(&config.AuthConfig{
		JWTSecret:     "different-secret",
		TokenTTLHours: 1,
		Issuer:        "inventory-api-test",
	})
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	issuer := NewTokenService(&config.AuthConfig{
		JWTSecret:     "test-secret",
		TokenTTLHours: 1,
		Issuer:        "some-other-service",
	})
	token, _, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = newTestTokenService().Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := newTestTokenService().Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateMiddleware(t *testing.T) {
	svc := newTestTokenService()
	mw := NewMiddleware(svc, zap.NewNop())

	var captured *UserContext
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, _, err := svc.Issue(testUser())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured)
		assert.Equal(t, "kari", captured.Username)
	})
}

func TestRequireRole(t *testing.T) {
	svc := newTestTokenService()
	mw := NewMiddleware(svc, zap.NewNop())

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	serve := func(handler http.Handler, user *UserContext) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/gate-passes", nil)
		if user != nil {
			req = req.WithContext(WithUserContext(req.Context(), user))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	gate := mw.RequireRole(domain.RoleGate)(ok)

	assert.Equal(t, http.StatusForbidden, serve(gate, nil))
	assert.Equal(t, http.StatusForbidden, serve(gate, &UserContext{Roles: []domain.UserRole{domain.RoleViewer}}))
	assert.Equal(t, http.StatusOK, serve(gate, &UserContext{Roles: []domain.UserRole{domain.RoleGate}}))
	// admins pass every gate
	assert.Equal(t, http.StatusOK, serve(gate, &UserContext{Roles: []domain.UserRole{domain.RoleAdmin}}))

	admin := mw.RequireAdmin(ok)
	assert.Equal(t, http.StatusForbidden, serve(admin, &UserContext{Roles: []domain.UserRole{domain.RoleManager}}))
	assert.Equal(t, http.StatusOK, serve(admin, &UserContext{Roles: []domain.UserRole{domain.RoleAdmin}}))
}

func TestUsernameFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "anonymous", UsernameFromContext(req.Context()))

	ctx := WithUserContext(req.Context(), &UserContext{Username: "ola"})
	assert.Equal(t, "ola", UsernameFromContext(ctx))
}
