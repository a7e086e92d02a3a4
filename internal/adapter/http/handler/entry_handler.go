package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/adapter/http/export"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	GetByUTR(ctx context.Context, utr string) (*domain.Entry, error)
	History(ctx context.Context, input usecase.HistoryInput) ([]*domain.Entry, error)
	Statement(ctx context.Context, accountNumber string) (*domain.Account, []*domain.Entry, error)
}

// EntryHandler serves transaction history.
type EntryHandler struct {
	entryUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// GetByUTR retrieves one transaction record.
func (h *EntryHandler) GetByUTR(w http.ResponseWriter, r *http.Request) {
	utr := chi.URLParam(r, "utr")
	if utr == "" {
		writeError(w, http.StatusBadRequest, "missing utr", "")
		return
	}

	entry, err := h.entryUC.GetByUTR(r.Context(), utr)
	if err != nil {
		writeDomainError(w, "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(entry))
}

// History lists an account's records, newest first.
func (h *EntryHandler) History(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	entries, err := h.entryUC.History(r.Context(), usecase.HistoryInput{
		AccountNumber: number,
		Limit:         parseIntQuery(r, "limit", 20),
		Offset:        parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(entries))
}

// Statement downloads the account's records as an XLSX workbook.
func (h *EntryHandler) Statement(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	account, entries, err := h.entryUC.Statement(r.Context(), number)
	if err != nil {
		writeDomainError(w, "failed to build statement", err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteStatement(&buf, account, entries); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render statement", err.Error())
		return
	}

	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="statement-%s.xlsx"`, account.AccountNumber))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
