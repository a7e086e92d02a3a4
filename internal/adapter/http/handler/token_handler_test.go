package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/auth"
)

func TestTokenHandler_Issue(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	h := NewTokenHandler(manager, time.Hour)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/token",
		strings.NewReader(`{"operator_id":"op-1","email":"teller@bank.test","role":"teller"}`))
	h.Issue(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp dto.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	claims, err := manager.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "op-1", claims.OperatorID)
	assert.Equal(t, domain.RoleTeller, claims.Role)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
}

func TestTokenHandler_Issue_UnknownRole(t *testing.T) {
	h := NewTokenHandler(auth.NewJWTManager("test-secret", time.Hour), time.Hour)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/token",
		strings.NewReader(`{"operator_id":"op-1","email":"x@bank.test","role":"root"}`))
	h.Issue(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
