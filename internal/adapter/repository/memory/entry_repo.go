package memory

import (
	"context"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	store *Store
}

// Create stages an entry in tx and reserves its UTR.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	if !entry.Type.Valid() {
		return domain.ErrInvalidEntryType
	}

	s := r.store
	s.mu.Lock()
	if _, taken := s.utrs[entry.UTR]; taken {
		s.mu.Unlock()
		return domain.ErrDuplicateUTR
	}
	if _, ok := s.accounts[entry.AccountID]; !ok {
		s.mu.Unlock()
		return domain.ErrAccountNotFound
	}
	s.utrs[entry.UTR] = struct{}{}
	s.mu.Unlock()

	cp := *entry

	t.mu.Lock()
	t.entries = append(t.entries, &cp)
	t.mu.Unlock()

	return nil
}

// GetByUTR retrieves a committed record.
func (r *EntryRepository) GetByUTR(ctx context.Context, utr string) (*domain.Entry, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.byUTR[utr]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}

	cp := *e
	return &cp, nil
}

// ListByAccount lists an account's records, newest first.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []*domain.Entry
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].AccountID == accountID {
			cp := *s.entries[i]
			entries = append(entries, &cp)
		}
	}

	return page(entries, limit, offset), nil
}
