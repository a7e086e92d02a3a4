package handler

import (
	"context"
	"net/http"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	Deposit(ctx context.Context, input usecase.DepositInput) (*domain.Entry, error)
	Withdraw(ctx context.Context, input usecase.WithdrawInput) (*domain.Entry, error)
	Transfer(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error)
}

// TransactionHandler posts deposits, withdrawals and transfers.
type TransactionHandler struct {
	txUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txUC TransactionService) *TransactionHandler {
	return &TransactionHandler{txUC: txUC}
}

// Deposit credits an account.
func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid amount", err)
		return
	}

	entry, err := h.txUC.Deposit(r.Context(), input)
	if err != nil {
		writeDomainError(w, "deposit failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(entry))
}

// Withdraw debits an account after checking the PIN.
func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.WithdrawRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid amount", err)
		return
	}

	entry, err := h.txUC.Withdraw(r.Context(), input)
	if err != nil {
		writeDomainError(w, "withdrawal failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(entry))
}

// Transfer moves funds between two accounts.
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid amount", err)
		return
	}

	result, err := h.txUC.Transfer(r.Context(), input)
	if err != nil {
		writeDomainError(w, "transfer failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromResult(result))
}
