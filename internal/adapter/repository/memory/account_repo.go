package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// Create inserts an account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[account.CustomerID]; !ok {
		return domain.ErrCustomerNotFound
	}

	if _, ok := s.numbers[account.AccountNumber]; ok {
		return domain.ErrAccountNumberTaken
	}

	cp := *account
	s.accounts[account.ID] = &cp
	s.numbers[account.AccountNumber] = account.ID

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	cp := *acc
	return &cp, nil
}

// GetByNumber retrieves an account by its external number.
func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.numbers[number]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	cp := *s.accounts[id]
	return &cp, nil
}

// GetByIDsForUpdate locks the accounts for the rest of tx.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	t, err := txFrom(tx)
	if err != nil {
		return nil, err
	}

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	accounts := make([]*domain.Account, 0, len(sorted))
	for _, id := range sorted {
		if err := t.lock(ctx, id); err != nil {
			return nil, err
		}

		acc, err := r.current(t, id)
		if err != nil {
			continue
		}
		accounts = append(accounts, acc)
	}

	return accounts, nil
}

// ApplyDelta adds delta to the balance if the result stays non-negative.
func (r *AccountRepository) ApplyDelta(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error) {
	t, err := txFrom(tx)
	if err != nil {
		return decimal.Zero, err
	}

	if err := t.lock(ctx, id); err != nil {
		return decimal.Zero, err
	}

	acc, err := r.current(t, id)
	if err != nil {
		return decimal.Zero, err
	}

	next := acc.Balance.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, domain.ErrBalanceNotApplied
	}

	acc.Balance = next
	acc.UpdatedAt = updatedAt

	t.mu.Lock()
	t.updated[id] = acc
	t.mu.Unlock()

	return next, nil
}

// current returns the account as tx sees it.
func (r *AccountRepository) current(t *Tx, id string) (*domain.Account, error) {
	t.mu.Lock()
	pending, ok := t.updated[id]
	t.mu.Unlock()

	if ok {
		cp := *pending
		return &cp, nil
	}

	return r.GetByID(context.Background(), id)
}

// UpdateStatus sets an account's status.
func (r *AccountRepository) UpdateStatus(ctx context.Context, id string, status domain.AccountStatus, updatedAt time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}

	acc.Status = status
	acc.UpdatedAt = updatedAt

	return nil
}

// Delete removes an account that no record references. It waits for any
// transaction holding the account lock, as a row lock would.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	s := r.store

	lock := s.accountLock(id)
	select {
	case lock <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-lock }()

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}

	for _, e := range s.entries {
		if e.AccountID == id {
			return domain.ErrAccountInUse
		}
	}

	delete(s.accounts, id)
	delete(s.numbers, acc.AccountNumber)

	return nil
}

// List lists accounts in creation order.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	return page(r.sorted(func(*domain.Account) bool { return true }), limit, offset), nil
}

// ListByCustomer lists a customer's accounts in creation order.
func (r *AccountRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Account, error) {
	return r.sorted(func(a *domain.Account) bool { return a.CustomerID == customerID }), nil
}

func (r *AccountRepository) sorted(keep func(*domain.Account) bool) []*domain.Account {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		if keep(acc) {
			cp := *acc
			accounts = append(accounts, &cp)
		}
	}

	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].ID < accounts[j].ID
		}
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})

	return accounts
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}

	end := offset + limit
	if end > len(items) {
		end = len(items)
	}

	return items[offset:end]
}
