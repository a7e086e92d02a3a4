package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/postgres/generated"
	"github.com/iho/bankledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	err := r.queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:            account.ID,
		AccountNumber: account.AccountNumber,
		CustomerID:    account.CustomerID,
		Balance:       decimalToNumeric(account.Balance),
		Status:        string(account.Status),
		CreatedAt:     timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:     timeToPgTimestamptz(account.UpdatedAt),
	})

	return translateError("create account", err, domain.ErrCustomerNotFound)
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		return nil, notFound("get account", err, domain.ErrAccountNotFound)
	}

	return rowToAccount(row), nil
}

// GetByNumber retrieves an account by its external number.
func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByNumber(ctx, number)
	if err != nil {
		return nil, notFound("get account", err, domain.ErrAccountNotFound)
	}

	return rowToAccount(row), nil
}

// GetByIDsForUpdate retrieves multiple accounts by IDs with FOR UPDATE locks.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return nil, err
	}

	rows, err := r.queries.WithTx(pgxTx).GetAccountsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, translateError("lock accounts", err, nil)
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// ApplyDelta adds delta to the balance in a single conditional update.
func (r *AccountRepository) ApplyDelta(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error) {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return decimal.Zero, err
	}

	balance, err := r.queries.WithTx(pgxTx).ApplyAccountDelta(ctx, generated.ApplyAccountDeltaParams{
		ID:        id,
		Delta:     decimalToNumeric(delta),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrBalanceNotApplied
		}

		return decimal.Zero, translateError("apply balance", err, nil)
	}

	return numericToDecimal(balance), nil
}

// UpdateStatus sets an account's status.
func (r *AccountRepository) UpdateStatus(ctx context.Context, id string, status domain.AccountStatus, updatedAt time.Time) error {
	n, err := r.queries.UpdateAccountStatus(ctx, generated.UpdateAccountStatusParams{
		ID:        id,
		Status:    string(status),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return translateError("update account status", err, nil)
	}

	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// Delete removes an account. Records referencing it block the delete.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteAccount(ctx, id)
	if err != nil {
		return translateError("delete account", err, domain.ErrAccountInUse)
	}

	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List lists accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, translateError("list accounts", err, nil)
	}

	return rowsToAccounts(rows), nil
}

// ListByCustomer lists a customer's accounts.
func (r *AccountRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccountsByCustomer(ctx, customerID)
	if err != nil {
		return nil, translateError("list accounts", err, nil)
	}

	return rowsToAccounts(rows), nil
}

func rowsToAccounts(rows []generated.Account) []*domain.Account {
	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:            row.ID,
		AccountNumber: row.AccountNumber,
		CustomerID:    row.CustomerID,
		Balance:       numericToDecimal(row.Balance),
		Status:        domain.AccountStatus(row.Status),
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}
