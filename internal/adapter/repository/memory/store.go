// Package memory keeps the ledger in process memory. It backs the server
// when no database is configured and serves as a realistic fake in tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

var errForeignTransaction = errors.New("memory: transaction was not started by this store")

// Store holds accounts, customers and records. Writes made through a Tx
// become visible only when it commits.
type Store struct {
	mu        sync.RWMutex
	accounts  map[string]*domain.Account
	numbers   map[string]string
	customers map[string]*domain.Customer
	emails    map[string]string
	entries   []*domain.Entry
	byUTR     map[string]*domain.Entry
	// utrs holds committed UTRs and those reserved by open transactions.
	utrs map[string]struct{}

	lockMu sync.Mutex
	locks  map[string]chan struct{}
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:  make(map[string]*domain.Account),
		numbers:   make(map[string]string),
		customers: make(map[string]*domain.Customer),
		emails:    make(map[string]string),
		byUTR:     make(map[string]*domain.Entry),
		utrs:      make(map[string]struct{}),
		locks:     make(map[string]chan struct{}),
	}
}

// TxManager returns a usecase.TransactionManager over s.
func (s *Store) TxManager() *TxManager { return &TxManager{store: s} }

// Accounts returns a usecase.AccountRepository over s.
func (s *Store) Accounts() *AccountRepository { return &AccountRepository{store: s} }

// Entries returns a usecase.EntryRepository over s.
func (s *Store) Entries() *EntryRepository { return &EntryRepository{store: s} }

// Customers returns a usecase.CustomerRepository over s. It also serves
// PIN hashes as a usecase.CredentialRepository.
func (s *Store) Customers() *CustomerRepository { return &CustomerRepository{store: s} }

// Ledger returns a usecase.LedgerRepository over s.
func (s *Store) Ledger() *LedgerRepository { return &LedgerRepository{store: s} }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) accountLock(id string) chan struct{} {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	ch, ok := s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}

	return ch
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Tx{
		store:    m.store,
		held:     make(map[string]chan struct{}),
		balances: make(map[string]decimal.Decimal),
		updated:  make(map[string]*domain.Account),
	}, nil
}

// Tx buffers writes and holds account locks until Commit or Rollback.
type Tx struct {
	store    *Store
	mu       sync.Mutex
	held     map[string]chan struct{}
	balances map[string]decimal.Decimal
	updated  map[string]*domain.Account
	entries  []*domain.Entry
	done     bool
}

func txFrom(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t == nil {
		return nil, errForeignTransaction
	}

	return t, nil
}

// lock acquires the account lock unless t already holds it.
func (t *Tx) lock(ctx context.Context, id string) error {
	t.mu.Lock()
	_, held := t.held[id]
	t.mu.Unlock()

	if held {
		return nil
	}

	ch := t.store.accountLock(id)
	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	t.mu.Lock()
	t.held[id] = ch
	t.mu.Unlock()

	return nil
}

// Commit publishes buffered writes atomically and releases locks.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return errors.New("memory: transaction already finished")
	}

	s := t.store
	s.mu.Lock()
	if err := t.checkAccounts(); err != nil {
		t.release()
		s.mu.Unlock()
		t.finish()

		return err
	}
	for id, acc := range t.updated {
		stored := s.accounts[id]
		stored.Balance = acc.Balance
		stored.UpdatedAt = acc.UpdatedAt
	}
	for _, e := range t.entries {
		s.entries = append(s.entries, e)
		s.byUTR[e.UTR] = e
	}
	s.mu.Unlock()

	t.finish()

	return nil
}

// Rollback discards buffered writes. It is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return nil
	}

	s := t.store
	s.mu.Lock()
	t.release()
	s.mu.Unlock()

	t.finish()

	return nil
}

// checkAccounts fails if an account written by t no longer exists.
// Callers hold t.mu and the store lock.
func (t *Tx) checkAccounts() error {
	for id := range t.updated {
		if _, ok := t.store.accounts[id]; !ok {
			return fmt.Errorf("memory: account %s was removed: %w", id, domain.ErrAccountNotFound)
		}
	}
	for _, e := range t.entries {
		if _, ok := t.store.accounts[e.AccountID]; !ok {
			return fmt.Errorf("memory: record %s references removed account %s: %w", e.UTR, e.AccountID, domain.ErrAccountNotFound)
		}
	}

	return nil
}

// release drops the UTRs reserved by t. Callers hold the store lock.
func (t *Tx) release() {
	for _, e := range t.entries {
		delete(t.store.utrs, e.UTR)
	}
}

// finish releases held locks. Callers hold t.mu.
func (t *Tx) finish() {
	for id, ch := range t.held {
		<-ch
		delete(t.held, id)
	}

	t.done = true
}
