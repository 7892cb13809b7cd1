package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/internal/auth"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/buildmart-as/inventory-api/internal/store"
)

// AuthHandler handles login requests for dashboard users
type AuthHandler struct {
	store  *store.Store
	tokens *auth.TokenService
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(st *store.Store, tokens *auth.TokenService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		store:  st,
		tokens: tokens,
		logger: logger,
	}
}

// Login godoc
// @Summary Log in
// @Description Authenticate with username and password and receive a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := h.store.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if respondStoreError(w, err) {
			return
		}
		h.logger.Error("login failed", zap.String("username", req.Username), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	token, expiresAt, err := h.tokens.Issue(&user)
	if err != nil {
		h.logger.Error("failed to issue token", zap.String("username", req.Username), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	respondJSON(w, http.StatusOK, domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}
