package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// CustomerService defines the behavior needed by CustomerHandler.
type CustomerService interface {
	CreateCustomer(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id string, input usecase.UpdateCustomerInput) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
}

// CustomerAccountLister lists the accounts a customer owns.
type CustomerAccountLister interface {
	ListCustomerAccounts(ctx context.Context, customerID string) ([]*domain.Account, error)
}

// CustomerHandler handles customer-related HTTP requests.
type CustomerHandler struct {
	customerUC CustomerService
	accounts   CustomerAccountLister
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerUC CustomerService, accounts CustomerAccountLister) *CustomerHandler {
	return &CustomerHandler{customerUC: customerUC, accounts: accounts}
}

// Create registers a customer.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCustomerRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	customer, err := h.customerUC.CreateCustomer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create customer", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CustomerFromDomain(customer))
}

// Get retrieves a customer by ID.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customerUC.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get customer", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(customer))
}

// List lists customers.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customerUC.ListCustomers(r.Context(), parseIntQuery(r, "limit", 50), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list customers", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomersFromDomain(customers))
}

// ListAccounts lists the customer's accounts.
func (h *CustomerHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.ListCustomerAccounts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// Update changes a customer's profile or PIN.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCustomerRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	customer, err := h.customerUC.UpdateCustomer(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to update customer", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(customer))
}

// Delete removes a customer without accounts.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.customerUC.DeleteCustomer(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "failed to delete customer", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
