package usecase

import (
	"context"
	"time"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
)

const (
	reasonNegativeBalance = "negative balance"
	reasonBalanceMismatch = "balance differs from latest record"
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
	metrics    *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository, m *metrics.Metrics) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
		metrics:    m,
	}
}

// CheckConsistency verifies that no balance is negative and that every
// account with records holds the balance written on its latest record.
// Accounts without records only carry their opening balance and are
// checked for sign alone.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error) {
	snapshots, err := uc.ledgerRepo.ListBalanceSnapshots(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.ConsistencyReport{
		CheckedAt:       time.Now().UTC(),
		AccountsChecked: len(snapshots),
	}

	for _, s := range snapshots {
		if s.Balance.IsNegative() {
			report.Issues = append(report.Issues, domain.ConsistencyIssue{
				AccountNumber: s.AccountNumber,
				Reason:        reasonNegativeBalance,
				Balance:       s.Balance,
			})
		}

		if s.EntryCount > 0 && !s.Balance.Equal(s.LatestBalanceAfter) {
			report.Issues = append(report.Issues, domain.ConsistencyIssue{
				AccountNumber: s.AccountNumber,
				Reason:        reasonBalanceMismatch,
				Balance:       s.Balance,
				Expected:      s.LatestBalanceAfter,
			})
		}
	}

	if uc.metrics != nil {
		uc.metrics.ConsistencyIssues.Set(float64(len(report.Issues)))
	}

	return report, nil
}
