package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error)
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	UpdateStatus(ctx context.Context, number string, status domain.AccountStatus) (*domain.Account, error)
	DeleteAccount(ctx context.Context, number string) error
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create opens a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid opening balance", err)
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to create account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by number.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if number == "" {
		writeError(w, http.StatusBadRequest, "missing account number", "")
		return
	}

	account, err := h.accountUC.GetAccountByNumber(r.Context(), number)
	if err != nil {
		writeDomainError(w, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	accounts, err := h.accountUC.ListAccounts(r.Context(), usecase.ListAccountsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeDomainError(w, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// UpdateStatus activates or deactivates an account.
func (h *AccountHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	var req dto.UpdateAccountStatusRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	account, err := h.accountUC.UpdateStatus(r.Context(), number, domain.AccountStatus(req.Status))
	if err != nil {
		writeDomainError(w, "failed to update account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Delete removes an account without transaction records.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	if err := h.accountUC.DeleteAccount(r.Context(), number); err != nil {
		writeDomainError(w, "failed to delete account", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
