package postgres

import (
	"context"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// ListBalanceSnapshots pairs each account's balance with its latest record.
func (r *LedgerRepository) ListBalanceSnapshots(ctx context.Context) ([]domain.BalanceSnapshot, error) {
	rows, err := r.queries.ListBalanceSnapshots(ctx)
	if err != nil {
		return nil, translateError("list balance snapshots", err, nil)
	}

	snapshots := make([]domain.BalanceSnapshot, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, domain.BalanceSnapshot{
			AccountID:          row.ID,
			AccountNumber:      row.AccountNumber,
			Balance:            numericToDecimal(row.Balance),
			LatestBalanceAfter: numericToDecimal(row.LatestBalanceAfter),
			EntryCount:         row.EntryCount,
		})
	}

	return snapshots, nil
}
