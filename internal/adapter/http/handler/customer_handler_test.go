package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

type customerServiceStub struct {
	createFn       func(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error)
	getFn          func(ctx context.Context, id string) (*domain.Customer, error)
	listFn         func(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
	listAccountsFn func(ctx context.Context, customerID string) ([]*domain.Account, error)
	updateFn       func(ctx context.Context, id string, input usecase.UpdateCustomerInput) (*domain.Customer, error)
	deleteFn       func(ctx context.Context, id string) error
}

func (s *customerServiceStub) CreateCustomer(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error) {
	return s.createFn(ctx, input)
}

func (s *customerServiceStub) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.getFn(ctx, id)
}

func (s *customerServiceStub) ListCustomers(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *customerServiceStub) UpdateCustomer(ctx context.Context, id string, input usecase.UpdateCustomerInput) (*domain.Customer, error) {
	return s.updateFn(ctx, id, input)
}

func (s *customerServiceStub) DeleteCustomer(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *customerServiceStub) ListCustomerAccounts(ctx context.Context, customerID string) ([]*domain.Account, error) {
	return s.listAccountsFn(ctx, customerID)
}

func customerRoutes(h *CustomerHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/customers", h.Create)
	r.Get("/customers", h.List)
	r.Get("/customers/{id}", h.Get)
	r.Put("/customers/{id}", h.Update)
	r.Delete("/customers/{id}", h.Delete)
	r.Get("/customers/{id}/accounts", h.ListAccounts)
	return r
}

func TestCustomerHandler_Create(t *testing.T) {
	stub := &customerServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error) {
			if input.PIN != "1234" {
				t.Fatalf("expected PIN to be passed through")
			}
			return &domain.Customer{ID: "c1", Name: input.Name, Email: input.Email, PINHash: "hash"}, nil
		},
	}
	h := NewCustomerHandler(stub, stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/customers",
		strings.NewReader(`{"name":"Alice","email":"alice@example.com","pin":"1234"}`))
	customerRoutes(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "hash") || strings.Contains(rec.Body.String(), "1234") {
		t.Fatalf("response leaks credential: %s", rec.Body.String())
	}
}

func TestCustomerHandler_CreateInvalidPIN(t *testing.T) {
	stub := &customerServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error) {
			return nil, domain.ErrInvalidPIN
		},
	}
	h := NewCustomerHandler(stub, stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/customers",
		strings.NewReader(`{"name":"Alice","email":"alice@example.com","pin":"12"}`))
	customerRoutes(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCustomerHandler_GetAndAccounts(t *testing.T) {
	stub := &customerServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Customer, error) {
			return nil, domain.ErrCustomerNotFound
		},
		listAccountsFn: func(ctx context.Context, customerID string) ([]*domain.Account, error) {
			return []*domain.Account{{AccountNumber: "ACC001"}}, nil
		},
	}
	h := NewCustomerHandler(stub, stub)

	rec := httptest.NewRecorder()
	customerRoutes(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/c9", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	customerRoutes(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/c1/accounts", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ACC001") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestCustomerHandler_Update(t *testing.T) {
	stub := &customerServiceStub{
		updateFn: func(ctx context.Context, id string, input usecase.UpdateCustomerInput) (*domain.Customer, error) {
			if id != "c1" {
				t.Fatalf("expected id c1, got %s", id)
			}
			if input.Name != nil {
				t.Fatalf("expected name to be left unset")
			}
			if input.Email == nil || *input.Email != "new@example.com" {
				t.Fatalf("expected email to be passed through")
			}
			if input.PIN == nil || *input.PIN != "5678" {
				t.Fatalf("expected PIN to be passed through")
			}
			return &domain.Customer{ID: id, Name: "Alice", Email: *input.Email, PINHash: "hash"}, nil
		},
	}
	h := NewCustomerHandler(stub, stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/customers/c1",
		strings.NewReader(`{"email":"new@example.com","pin":"5678"}`))
	customerRoutes(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "new@example.com") || strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestCustomerHandler_UpdateEmailTaken(t *testing.T) {
	stub := &customerServiceStub{
		updateFn: func(ctx context.Context, id string, input usecase.UpdateCustomerInput) (*domain.Customer, error) {
			return nil, domain.ErrCustomerEmailTaken
		},
	}
	h := NewCustomerHandler(stub, stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/customers/c1", strings.NewReader(`{"email":"bob@example.com"}`))
	customerRoutes(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestCustomerHandler_Delete(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "deleted", want: http.StatusNoContent},
		{name: "owns accounts", err: domain.ErrCustomerInUse, want: http.StatusConflict},
		{name: "unknown", err: domain.ErrCustomerNotFound, want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &customerServiceStub{
				deleteFn: func(ctx context.Context, id string) error { return tt.err },
			}
			h := NewCustomerHandler(stub, stub)

			rec := httptest.NewRecorder()
			customerRoutes(h).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/customers/c1", nil))

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
