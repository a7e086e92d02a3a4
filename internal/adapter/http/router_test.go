package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/adapter/http/handler"
	apimiddleware "github.com/iho/bankledger/internal/adapter/http/middleware"
	"github.com/iho/bankledger/internal/adapter/repository/memory"
	"github.com/iho/bankledger/internal/app"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/auth"
	"github.com/iho/bankledger/internal/infrastructure/config"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
	"github.com/iho/bankledger/internal/usecase/mocks"
)

type testServer struct {
	router   http.Handler
	registry *prometheus.Registry
}

func newTestServer(t *testing.T, opts ...func(*RouterConfig)) *testServer {
	t.Helper()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	store := memory.NewStore()

	a := app.New(app.Deps{
		Repos:   app.MemoryRepositories(store),
		Metrics: m,
		Logger:  zerolog.Nop(),
	}, &config.Config{PINHashCost: 4, TransactionTimeout: 5 * time.Second})

	cfg := RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(a.Transactions),
		AccountHandler:     handler.NewAccountHandler(a.Accounts),
		CustomerHandler:    handler.NewCustomerHandler(a.Customers, a.Accounts),
		EntryHandler:       handler.NewEntryHandler(a.Entries),
		LedgerHandler:      handler.NewLedgerHandler(a.Ledger),
		HealthHandler:      handler.NewHealthHandler(map[string]handler.Pinger{"store": store}),
		Metrics:            m,
		Gatherer:           registry,
		Logger:             zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &testServer{router: NewRouter(cfg), registry: registry}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) seedAccount(t *testing.T, number, email, opening string) {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/v1/customers", dto.CreateCustomerRequest{Name: "Holder", Email: email, PIN: "1234"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var customer dto.CustomerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customer))

	rec = s.do(t, http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{
		AccountNumber:  number,
		CustomerID:     customer.ID,
		OpeningBalance: opening,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/ready", nil).Code)
}

func TestNewRouter_TransactionFlow(t *testing.T) {
	s := newTestServer(t)
	s.seedAccount(t, "ACC001", "a@bank.test", "1000")
	s.seedAccount(t, "ACC002", "b@bank.test", "0")

	rec := s.do(t, http.MethodPost, "/api/v1/transactions/deposit", dto.DepositRequest{
		AccountNumber: "ACC001", Amount: "500", Mode: "CASH",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/transactions/withdraw", dto.WithdrawRequest{
		AccountNumber: "ACC001", PIN: "0000", Amount: "100", Mode: "ATM",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/transactions/withdraw", dto.WithdrawRequest{
		AccountNumber: "ACC001", PIN: "1234", Amount: "5000", Mode: "ATM",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/transactions/transfer", dto.TransferRequest{
		SenderAccountNumber: "ACC001", ReceiverAccountNumber: "ACC002", PIN: "1234", Amount: "250", Mode: "UPI",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var transfer dto.TransferResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &transfer))
	assert.Equal(t, "1250", transfer.Debit.BalanceAfter)
	assert.Equal(t, "250", transfer.Credit.BalanceAfter)

	rec = s.do(t, http.MethodGet, "/api/v1/transactions/"+transfer.Debit.UTR, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/accounts/ACC001/transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []dto.TransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history, 2)

	rec = s.do(t, http.MethodGet, "/api/v1/ledger/consistency", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bankledger_http_requests_total")
	assert.Contains(t, rec.Body.String(), `path="/api/v1/accounts/:number/transactions"`)
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	s := newTestServer(t, func(cfg *RouterConfig) {
		cfg.RateLimiter = apimiddleware.NewRateLimiter(1, 1, cfg.Metrics)
	})

	first := httptest.NewRequest(http.MethodGet, "/health", nil)
	first.RemoteAddr = "1.2.3.4:1234"
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	second := httptest.NewRequest(http.MethodGet, "/health", nil)
	second.RemoteAddr = "1.2.3.4:1234"
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestNewRouter_IdempotentDepositIsAppliedOnce(t *testing.T) {
	s := newTestServer(t, func(cfg *RouterConfig) {
		cfg.IdempotencyStore = mocks.NewMockIdempotencyStore()
	})
	s.seedAccount(t, "ACC010", "idem@bank.test", "0")

	req := dto.DepositRequest{AccountNumber: "ACC010", Amount: "75", Mode: "CASH"}
	first := s.do(t, http.MethodPost, "/api/v1/transactions/deposit", req, apimiddleware.IdempotencyKeyHeader, "dep-1")
	second := s.do(t, http.MethodPost, "/api/v1/transactions/deposit", req, apimiddleware.IdempotencyKeyHeader, "dep-1")

	require.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(apimiddleware.IdempotencyReplayHeader))
	assert.Equal(t, first.Body.String(), second.Body.String())

	rec := s.do(t, http.MethodGet, "/api/v1/accounts/ACC010", nil)
	var account dto.AccountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	assert.Equal(t, "75", account.Balance)
}

func TestNewRouter_AuthenticationAndRoles(t *testing.T) {
	manager := auth.NewJWTManager("router-secret", time.Hour)
	s := newTestServer(t, func(cfg *RouterConfig) {
		cfg.TokenVerifier = manager
		cfg.TokenHandler = handler.NewTokenHandler(manager, time.Hour)
	})

	token := func(role domain.Role) string {
		tok, err := manager.Generate(&domain.Operator{ID: "op-" + string(role), Role: role})
		require.NoError(t, err)
		return "Bearer " + tok
	}

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/accounts", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/accounts", nil, "Authorization", token(domain.RoleAuditor)).Code)

	deposit := dto.DepositRequest{AccountNumber: "ACC001", Amount: "1", Mode: "CASH"}
	rec := s.do(t, http.MethodPost, "/api/v1/transactions/deposit", deposit, "Authorization", token(domain.RoleAuditor))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/token",
		dto.CreateTokenRequest{OperatorID: "t1", Email: "t1@bank.test", Role: "teller"},
		"Authorization", token(domain.RoleTeller))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/token",
		dto.CreateTokenRequest{OperatorID: "t1", Email: "t1@bank.test", Role: "teller"},
		"Authorization", token(domain.RoleAdmin))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	s := newTestServer(t, func(cfg *RouterConfig) {
		cfg.CORSAllowedOrigins = []string{"https://teller.bank.test"}
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/accounts", strings.NewReader(""))
	req.Header.Set("Origin", "https://teller.bank.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, "https://teller.bank.test", rec.Header().Get("Access-Control-Allow-Origin"))
}
