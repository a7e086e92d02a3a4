package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

type accountServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn    func(ctx context.Context, number string) (*domain.Account, error)
	listFn   func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	statusFn func(ctx context.Context, number string, status domain.AccountStatus) (*domain.Account, error)
	deleteFn func(ctx context.Context, number string) error
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	return s.getFn(ctx, number)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	return s.listFn(ctx, input)
}

func (s *accountServiceStub) UpdateStatus(ctx context.Context, number string, status domain.AccountStatus) (*domain.Account, error) {
	return s.statusFn(ctx, number, status)
}

func (s *accountServiceStub) DeleteAccount(ctx context.Context, number string) error {
	return s.deleteFn(ctx, number)
}

func accountRoutes(h *AccountHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/accounts", h.Create)
	r.Get("/accounts", h.List)
	r.Get("/accounts/{number}", h.Get)
	r.Put("/accounts/{number}/status", h.UpdateStatus)
	r.Delete("/accounts/{number}", h.Delete)
	return r
}

func TestAccountHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateAccountInput
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			captured = input
			return &domain.Account{
				ID:            "acc-1",
				AccountNumber: input.AccountNumber,
				CustomerID:    input.CustomerID,
				Balance:       input.OpeningBalance,
				Status:        domain.AccountStatusActive,
			}, nil
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{
		AccountNumber:  "ACC001",
		CustomerID:     "cust-1",
		OpeningBalance: "100.50",
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	accountRoutes(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.AccountNumber != "ACC001" || !captured.OpeningBalance.Equal(decimal.RequireFromString("100.50")) {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" || resp.Balance != "100.5" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAccountHandler_Create_DuplicateNumber(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			return nil, domain.ErrAccountNumberTaken
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(`{"account_number":"ACC001","customer_id":"c1"}`))
	rec := httptest.NewRecorder()
	accountRoutes(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAccountHandler_Get(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, number string) (*domain.Account, error) {
			if number == "ACC404" {
				return nil, domain.ErrAccountNotFound
			}
			return &domain.Account{ID: "acc-1", AccountNumber: number, Balance: decimal.NewFromInt(7)}, nil
		},
	})

	rec := httptest.NewRecorder()
	accountRoutes(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/ACC001", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	accountRoutes(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/ACC404", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_List_PassesPagination(t *testing.T) {
	var captured usecase.ListAccountsInput
	handler := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
			captured = input
			return []*domain.Account{{ID: "a"}, {ID: "b"}}, nil
		},
	})

	rec := httptest.NewRecorder()
	accountRoutes(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts?limit=5&offset=10", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Limit != 5 || captured.Offset != 10 {
		t.Fatalf("unexpected pagination %+v", captured)
	}

	var resp dto.ListAccountsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("expected total 2, got %d", resp.Total)
	}
}

func TestAccountHandler_UpdateStatus(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		statusFn: func(ctx context.Context, number string, status domain.AccountStatus) (*domain.Account, error) {
			return &domain.Account{AccountNumber: number, Status: status}, nil
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/accounts/ACC001/status", strings.NewReader(`{"status":"INACTIVE"}`))
	accountRoutes(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/accounts/ACC001/status", strings.NewReader(`{"status":"FROZEN"}`))
	accountRoutes(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
	}
}

func TestAccountHandler_Delete(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		deleteFn: func(ctx context.Context, number string) error {
			if number == "ACC002" {
				return domain.ErrAccountInUse
			}
			return nil
		},
	})

	rec := httptest.NewRecorder()
	accountRoutes(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/accounts/ACC001", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	accountRoutes(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/accounts/ACC002", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
