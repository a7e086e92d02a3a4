package handler

import (
	"net/http"
	"time"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/auth"
)

// TokenHandler issues operator tokens. Routes using it must be restricted
// to administrators.
type TokenHandler struct {
	jwtManager *auth.JWTManager
	ttl        time.Duration
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(jwtManager *auth.JWTManager, ttl time.Duration) *TokenHandler {
	return &TokenHandler{jwtManager: jwtManager, ttl: ttl}
}

// Issue signs a token for the requested operator.
func (h *TokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTokenRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	token, err := h.jwtManager.Generate(&domain.Operator{
		ID:    req.OperatorID,
		Email: req.Email,
		Role:  domain.Role(req.Role),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.ttl).UTC(),
	})
}
