package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)
	// GetByIDsForUpdate locks the given accounts for the rest of tx, in
	// ascending id order. Missing ids are omitted from the result.
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	// ApplyDelta adds delta to the balance only if the result stays
	// non-negative and returns the new balance. A rejected update returns
	// domain.ErrBalanceNotApplied.
	ApplyDelta(ctx context.Context, tx Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error)
	UpdateStatus(ctx context.Context, id string, status domain.AccountStatus, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.Account, error)
}

// EntryRepository defines data access for transaction records.
type EntryRepository interface {
	// Create inserts an entry. A UTR collision returns domain.ErrDuplicateUTR.
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByUTR(ctx context.Context, utr string) (*domain.Entry, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
}

// CustomerRepository defines data access for customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	// Delete fails with domain.ErrCustomerInUse while accounts reference the customer.
	Delete(ctx context.Context, id string) error
}

// CredentialRepository returns the stored PIN hash of an account's owner.
type CredentialRepository interface {
	// GetCredential returns domain.ErrAccountNotFound for unknown accounts.
	GetCredential(ctx context.Context, accountNumber string) (string, error)
}

// LedgerRepository defines data access for ledger-wide checks.
type LedgerRepository interface {
	ListBalanceSnapshots(ctx context.Context) ([]domain.BalanceSnapshot, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// UTRGenerator generates unique transaction references.
type UTRGenerator interface {
	NewUTR() string
}

// Authorizer verifies that pin belongs to the owner of accountNumber.
type Authorizer interface {
	Authorize(ctx context.Context, accountNumber, pin string) error
}

// AccountResolver maps an external account number to its internal id.
type AccountResolver interface {
	ResolveID(ctx context.Context, accountNumber string) (string, error)
}

// AccountCache caches account number to id lookups.
type AccountCache interface {
	GetAccountID(ctx context.Context, accountNumber string) (string, bool, error)
	SetAccountID(ctx context.Context, accountNumber, id string, ttl time.Duration) error
	DeleteAccountID(ctx context.Context, accountNumber string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error
}
