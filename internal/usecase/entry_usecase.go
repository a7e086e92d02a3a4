package usecase

import (
	"context"

	"github.com/iho/bankledger/internal/domain"
)

// statementPageSize bounds each repository read while building a statement.
const statementPageSize = 500

// EntryUseCase serves transaction history.
type EntryUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(accountRepo AccountRepository, entryRepo EntryRepository) *EntryUseCase {
	return &EntryUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
	}
}

// GetByUTR retrieves a single transaction record.
func (uc *EntryUseCase) GetByUTR(ctx context.Context, utr string) (*domain.Entry, error) {
	return uc.entryRepo.GetByUTR(ctx, utr)
}

// HistoryInput represents input for listing an account's records.
type HistoryInput struct {
	AccountNumber string
	Limit         int
	Offset        int
}

// History lists an account's records, newest first.
func (uc *EntryUseCase) History(ctx context.Context, input HistoryInput) ([]*domain.Entry, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	account, err := uc.accountRepo.GetByNumber(ctx, input.AccountNumber)
	if err != nil {
		return nil, err
	}

	return uc.entryRepo.ListByAccount(ctx, account.ID, input.Limit, input.Offset)
}

// Statement returns the account and every record it has, newest first.
func (uc *EntryUseCase) Statement(ctx context.Context, accountNumber string) (*domain.Account, []*domain.Entry, error) {
	account, err := uc.accountRepo.GetByNumber(ctx, accountNumber)
	if err != nil {
		return nil, nil, err
	}

	var entries []*domain.Entry
	for offset := 0; ; offset += statementPageSize {
		page, err := uc.entryRepo.ListByAccount(ctx, account.ID, statementPageSize, offset)
		if err != nil {
			return nil, nil, err
		}

		entries = append(entries, page...)

		if len(page) < statementPageSize {
			break
		}
	}

	return account, entries, nil
}
