package handler

import (
	"context"
	"net/http"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error)
}

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// CheckConsistency reports whether balances agree with their records.
// An inconsistent ledger is reported with 409.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		writeDomainError(w, "failed to check consistency", err)
		return
	}

	status := http.StatusOK
	if !report.Consistent() {
		status = http.StatusConflict
	}

	writeJSON(w, status, dto.ConsistencyFromDomain(report))
}
