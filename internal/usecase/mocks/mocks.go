package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc            func(ctx context.Context, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Account, error)
	GetByNumberFunc       func(ctx context.Context, number string) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	ApplyDeltaFunc        func(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error)
	UpdateStatusFunc      func(ctx context.Context, id string, status domain.AccountStatus, updatedAt time.Time) error
	DeleteFunc            func(ctx context.Context, id string) error
	ListFunc              func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListByCustomerFunc    func(ctx context.Context, customerID string) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Put seeds an account.
func (m *MockAccountRepository) Put(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.AccountNumber == account.AccountNumber {
			return domain.ErrAccountNumberTaken
		}
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		cp := *acc
		return &cp, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, number)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.AccountNumber == number {
			cp := *acc
			return &cp, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			cp := *acc
			accounts = append(accounts, &cp)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) ApplyDelta(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error) {
	if m.ApplyDeltaFunc != nil {
		return m.ApplyDeltaFunc(ctx, tx, id, delta, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	next := acc.Balance.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, domain.ErrBalanceNotApplied
	}
	acc.Balance = next
	acc.UpdatedAt = updatedAt
	return next, nil
}

func (m *MockAccountRepository) UpdateStatus(ctx context.Context, id string, status domain.AccountStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Status = status
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(m.accounts, id)
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	if offset >= len(accounts) {
		return []*domain.Account{}, nil
	}
	end := offset + limit
	if end > len(accounts) {
		end = len(accounts)
	}
	return accounts[offset:end], nil
}

func (m *MockAccountRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Account, error) {
	if m.ListByCustomerFunc != nil {
		return m.ListByCustomerFunc(ctx, customerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if acc.CustomerID == customerID {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.Entry

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	GetByUTRFunc      func(ctx context.Context, utr string) (*domain.Entry, error)
	ListByAccountFunc func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.UTR == entry.UTR {
			return domain.ErrDuplicateUTR
		}
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockEntryRepository) GetByUTR(ctx context.Context, utr string) (*domain.Entry, error) {
	if m.GetByUTRFunc != nil {
		return m.GetByUTRFunc(ctx, utr)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.UTR == utr {
			return e, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockEntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Entry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].AccountID == accountID {
			result = append(result, m.entries[i])
		}
	}
	if offset >= len(result) {
		return []*domain.Entry{}, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}

// MockCustomerRepository is a mock implementation of CustomerRepository.
type MockCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer

	CreateFunc             func(ctx context.Context, customer *domain.Customer) error
	GetByIDFunc            func(ctx context.Context, id string) (*domain.Customer, error)
	GetByAccountNumberFunc func(ctx context.Context, accountNumber string) (*domain.Customer, error)
	ListFunc               func(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
	UpdateFunc             func(ctx context.Context, customer *domain.Customer) error
	DeleteFunc             func(ctx context.Context, id string) error
}

func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		customers: make(map[string]*domain.Customer),
	}
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, customer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.Email == customer.Email {
			return domain.ErrCustomerEmailTaken
		}
	}
	m.customers[customer.ID] = customer
	return nil
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.customers[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCustomerNotFound
}

func (m *MockCustomerRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Customer, error) {
	if m.GetByAccountNumberFunc != nil {
		return m.GetByAccountNumberFunc(ctx, accountNumber)
	}
	return nil, domain.ErrCustomerNotFound
}

func (m *MockCustomerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	customers := make([]*domain.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		customers = append(customers, c)
	}
	return customers, nil
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, customer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[customer.ID]; !ok {
		return domain.ErrCustomerNotFound
	}
	for id, c := range m.customers {
		if id != customer.ID && c.Email == customer.Email {
			return domain.ErrCustomerEmailTaken
		}
	}
	m.customers[customer.ID] = customer
	return nil
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(m.customers, id)
	return nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	ListBalanceSnapshotsFunc func(ctx context.Context) ([]domain.BalanceSnapshot, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

func (m *MockLedgerRepository) ListBalanceSnapshots(ctx context.Context) ([]domain.BalanceSnapshot, error) {
	if m.ListBalanceSnapshotsFunc != nil {
		return m.ListBalanceSnapshotsFunc(ctx)
	}
	return nil, nil
}

// MockCredentialRepository is a mock implementation of CredentialRepository.
type MockCredentialRepository struct {
	Hashes map[string]string

	GetCredentialFunc func(ctx context.Context, accountNumber string) (string, error)
}

func NewMockCredentialRepository() *MockCredentialRepository {
	return &MockCredentialRepository{Hashes: make(map[string]string)}
}

func (m *MockCredentialRepository) GetCredential(ctx context.Context, accountNumber string) (string, error) {
	if m.GetCredentialFunc != nil {
		return m.GetCredentialFunc(ctx, accountNumber)
	}
	hash, ok := m.Hashes[accountNumber]
	if !ok {
		return "", domain.ErrAccountNotFound
	}
	return hash, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockUTRGenerator is a mock implementation of UTRGenerator.
type MockUTRGenerator struct {
	NewUTRFunc func() string
	counter    int
	mu         sync.Mutex
}

func NewMockUTRGenerator() *MockUTRGenerator {
	return &MockUTRGenerator{}
}

func (m *MockUTRGenerator) NewUTR() string {
	if m.NewUTRFunc != nil {
		return m.NewUTRFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("UTRMOCK%06d", m.counter)
}

// MockAuthorizer is a mock implementation of Authorizer.
type MockAuthorizer struct {
	AuthorizeFunc func(ctx context.Context, accountNumber, pin string) error
}

func NewMockAuthorizer() *MockAuthorizer {
	return &MockAuthorizer{}
}

func (m *MockAuthorizer) Authorize(ctx context.Context, accountNumber, pin string) error {
	if m.AuthorizeFunc != nil {
		return m.AuthorizeFunc(ctx, accountNumber, pin)
	}
	return nil
}

// MockAccountCache is a mock implementation of AccountCache.
type MockAccountCache struct {
	mu  sync.Mutex
	ids map[string]string

	GetAccountIDFunc    func(ctx context.Context, accountNumber string) (string, bool, error)
	SetAccountIDFunc    func(ctx context.Context, accountNumber, id string, ttl time.Duration) error
	DeleteAccountIDFunc func(ctx context.Context, accountNumber string) error
}

func NewMockAccountCache() *MockAccountCache {
	return &MockAccountCache{ids: make(map[string]string)}
}

func (m *MockAccountCache) GetAccountID(ctx context.Context, accountNumber string) (string, bool, error) {
	if m.GetAccountIDFunc != nil {
		return m.GetAccountIDFunc(ctx, accountNumber)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.ids[accountNumber]
	return id, ok, nil
}

func (m *MockAccountCache) SetAccountID(ctx context.Context, accountNumber, id string, ttl time.Duration) error {
	if m.SetAccountIDFunc != nil {
		return m.SetAccountIDFunc(ctx, accountNumber, id, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[accountNumber] = id
	return nil
}

func (m *MockAccountCache) DeleteAccountID(ctx context.Context, accountNumber string) error {
	if m.DeleteAccountIDFunc != nil {
		return m.DeleteAccountIDFunc(ctx, accountNumber)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ids, accountNumber)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
