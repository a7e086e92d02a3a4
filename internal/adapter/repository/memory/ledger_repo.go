package memory

import (
	"context"
	"sort"

	"github.com/iho/bankledger/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// ListBalanceSnapshots summarizes every account against its records.
func (r *LedgerRepository) ListBalanceSnapshots(ctx context.Context) ([]domain.BalanceSnapshot, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := make(map[string]*domain.BalanceSnapshot, len(s.accounts))
	for id, acc := range s.accounts {
		byID[id] = &domain.BalanceSnapshot{
			AccountID:     id,
			AccountNumber: acc.AccountNumber,
			Balance:       acc.Balance,
		}
	}

	for _, e := range s.entries {
		snap, ok := byID[e.AccountID]
		if !ok {
			continue
		}
		snap.EntryCount++
		snap.LatestBalanceAfter = e.BalanceAfter
	}

	snapshots := make([]domain.BalanceSnapshot, 0, len(byID))
	for _, snap := range byID {
		snapshots = append(snapshots, *snap)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].AccountNumber < snapshots[j].AccountNumber
	})

	return snapshots, nil
}
