package postgres

import (
	"context"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/postgres/generated"
	"github.com/iho/bankledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository over the
// transactions table.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{queries: generated.New(db)}
}

// Create inserts a record. The UTR unique constraint rejects duplicates.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	if !entry.Type.Valid() {
		return domain.ErrInvalidEntryType
	}

	err = r.queries.WithTx(pgxTx).CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:                        entry.ID,
		UtrNumber:                 entry.UTR,
		AccountID:                 entry.AccountID,
		Type:                      string(entry.Type),
		Mode:                      entry.Mode,
		CounterpartyAccountNumber: entry.CounterpartyAccountNumber,
		Description:               entry.Description,
		Amount:                    decimalToNumeric(entry.Amount),
		BalanceAfter:              decimalToNumeric(entry.BalanceAfter),
		CreatedAt:                 timeToPgTimestamptz(entry.CreatedAt),
	})

	return translateError("insert transaction record", err, domain.ErrAccountNotFound)
}

// GetByUTR retrieves a record by its UTR.
func (r *EntryRepository) GetByUTR(ctx context.Context, utr string) (*domain.Entry, error) {
	row, err := r.queries.GetTransactionByUTR(ctx, utr)
	if err != nil {
		return nil, notFound("get transaction record", err, domain.ErrTransactionNotFound)
	}

	return rowToEntry(row), nil
}

// ListByAccount lists an account's records, newest first.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	rows, err := r.queries.ListTransactionsByAccount(ctx, generated.ListTransactionsByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, translateError("list transaction records", err, nil)
	}

	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}

func rowToEntry(row generated.Transaction) *domain.Entry {
	return &domain.Entry{
		ID:                        row.ID,
		UTR:                       row.UtrNumber,
		AccountID:                 row.AccountID,
		Type:                      domain.EntryType(row.Type),
		Mode:                      row.Mode,
		CounterpartyAccountNumber: row.CounterpartyAccountNumber,
		Description:               row.Description,
		Amount:                    numericToDecimal(row.Amount),
		BalanceAfter:              numericToDecimal(row.BalanceAfter),
		CreatedAt:                 row.CreatedAt.Time,
	}
}
