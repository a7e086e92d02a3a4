package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountRepo  AccountRepository
	customerRepo CustomerRepository
	cache        AccountCache
	idGen        IDGenerator
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewAccountUseCase creates a new AccountUseCase. cache and m may be nil.
func NewAccountUseCase(
	accountRepo AccountRepository,
	customerRepo CustomerRepository,
	cache AccountCache,
	idGen IDGenerator,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *AccountUseCase {
	return &AccountUseCase{
		accountRepo:  accountRepo,
		customerRepo: customerRepo,
		cache:        cache,
		idGen:        idGen,
		metrics:      m,
		logger:       logger,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	AccountNumber  string
	CustomerID     string
	OpeningBalance decimal.Decimal
}

// CreateAccount opens an account for an existing customer. The opening
// balance is stored directly and produces no transaction record.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountNumber(input.AccountNumber); err != nil {
		return nil, err
	}

	if err := domain.ValidateOpeningBalance(input.OpeningBalance); err != nil {
		return nil, err
	}

	if _, err := uc.customerRepo.GetByID(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:            uc.idGen.Generate(),
		AccountNumber: input.AccountNumber,
		CustomerID:    input.CustomerID,
		Balance:       input.OpeningBalance,
		Status:        domain.AccountStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	uc.logger.Info().
		Str("account_id", account.ID).
		Str("account_number", account.AccountNumber).
		Str("customer_id", account.CustomerID).
		Msg("account opened")

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// GetAccountByNumber retrieves an account by its external number.
func (uc *AccountUseCase) GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	return uc.accountRepo.GetByNumber(ctx, number)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return uc.accountRepo.List(ctx, input.Limit, input.Offset)
}

// ListCustomerAccounts lists every account owned by a customer.
func (uc *AccountUseCase) ListCustomerAccounts(ctx context.Context, customerID string) ([]*domain.Account, error) {
	if _, err := uc.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}

	return uc.accountRepo.ListByCustomer(ctx, customerID)
}

// UpdateStatus activates or deactivates an account.
func (uc *AccountUseCase) UpdateStatus(ctx context.Context, number string, status domain.AccountStatus) (*domain.Account, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidAccountStatus
	}

	account, err := uc.accountRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := uc.accountRepo.UpdateStatus(ctx, account.ID, status, now); err != nil {
		return nil, err
	}

	account.Status = status
	account.UpdatedAt = now

	return account, nil
}

// DeleteAccount removes an account that has no transaction records.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, number string) error {
	account, err := uc.accountRepo.GetByNumber(ctx, number)
	if err != nil {
		return err
	}

	if err := uc.accountRepo.Delete(ctx, account.ID); err != nil {
		return err
	}

	if uc.cache != nil {
		if err := uc.cache.DeleteAccountID(ctx, number); err != nil {
			uc.logger.Warn().Err(err).Str("account_number", number).Msg("account cache delete failed")
		}
	}

	uc.logger.Info().Str("account_number", number).Msg("account deleted")

	return nil
}
