package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
)

// TransactionUseCase posts deposits, withdrawals and transfers.
type TransactionUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	resolver    AccountResolver
	authorizer  Authorizer
	notifier    Notifier
	idGen       IDGenerator
	utrGen      UTRGenerator
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	txTimeout   time.Duration
	now         func() time.Time
}

// TransactionOption configures a TransactionUseCase.
type TransactionOption func(*TransactionUseCase)

// WithMetrics records operation metrics.
func WithMetrics(m *metrics.Metrics) TransactionOption {
	return func(uc *TransactionUseCase) { uc.metrics = m }
}

// WithLogger sets the operation logger.
func WithLogger(logger zerolog.Logger) TransactionOption {
	return func(uc *TransactionUseCase) { uc.logger = logger }
}

// WithTransactionTimeout bounds how long a single operation may hold locks.
func WithTransactionTimeout(d time.Duration) TransactionOption {
	return func(uc *TransactionUseCase) {
		if d > 0 {
			uc.txTimeout = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) TransactionOption {
	return func(uc *TransactionUseCase) { uc.now = now }
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	resolver AccountResolver,
	authorizer Authorizer,
	notifier Notifier,
	idGen IDGenerator,
	utrGen UTRGenerator,
	opts ...TransactionOption,
) *TransactionUseCase {
	if notifier == nil {
		notifier = NopNotifier{}
	}

	uc := &TransactionUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		resolver:    resolver,
		authorizer:  authorizer,
		notifier:    notifier,
		idGen:       idGen,
		utrGen:      utrGen,
		logger:      zerolog.Nop(),
		txTimeout:   DefaultTransactionTimeout,
		now:         func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// DepositInput represents input for a deposit.
type DepositInput struct {
	AccountNumber string
	Mode          string
	Description   string
	UTR           string
	Amount        decimal.Decimal
}

// WithdrawInput represents input for a withdrawal.
type WithdrawInput struct {
	AccountNumber string
	PIN           string
	Mode          string
	Description   string
	UTR           string
	Amount        decimal.Decimal
}

// TransferInput represents input for a transfer. When UTR is set the legs
// are recorded as UTR-DR and UTR-CR so a resubmission is rejected.
type TransferInput struct {
	SenderAccountNumber   string
	ReceiverAccountNumber string
	PIN                   string
	Mode                  string
	Description           string
	UTR                   string
	Amount                decimal.Decimal
}

// TransferResult holds both legs of a committed transfer.
type TransferResult struct {
	Debit  *domain.Entry
	Credit *domain.Entry
}

// Deposit credits an account. No PIN is required.
func (uc *TransactionUseCase) Deposit(ctx context.Context, input DepositInput) (*domain.Entry, error) {
	op := domain.NewOperation(domain.OperationDeposit, uc.now())

	if err := uc.validate(input.Amount, input.Mode, input.Description, input.UTR); err != nil {
		return nil, uc.fail(op, input.AccountNumber, err)
	}
	uc.advance(op, domain.StageValidated)

	accountID, err := uc.resolver.ResolveID(ctx, input.AccountNumber)
	if err != nil {
		return nil, uc.fail(op, input.AccountNumber, err)
	}

	utr := uc.utrOrGenerate(input.UTR, "")

	var entry *domain.Entry
	err = uc.inTransaction(ctx, func(txCtx context.Context, tx Transaction) error {
		accounts, err := uc.lockAccounts(txCtx, tx, accountID)
		if err != nil {
			return err
		}

		if err := accounts[accountID].ValidateCredit(); err != nil {
			return err
		}

		entry, err = uc.post(txCtx, tx, postParams{
			accountID:   accountID,
			utr:         utr,
			entryType:   domain.EntryTypeDeposit,
			mode:        input.Mode,
			amount:      input.Amount,
			description: input.Description,
		})

		return err
	})
	if err != nil {
		return nil, uc.fail(op, input.AccountNumber, err)
	}

	uc.advance(op, domain.StageCommitted)
	uc.succeed(ctx, op, input.Amount, domain.NewNotification(input.AccountNumber, entry))

	return entry, nil
}

// Withdraw debits an account after verifying the owner's PIN.
func (uc *TransactionUseCase) Withdraw(ctx context.Context, input WithdrawInput) (*domain.Entry, error) {
	op := domain.NewOperation(domain.OperationWithdraw, uc.now())

	if err := uc.validate(input.Amount, input.Mode, input.Description, input.UTR); err != nil {
		return nil, uc.fail(op, input.AccountNumber, err)
	}
	uc.advance(op, domain.StageValidated)

	if err := uc.authorizer.Authorize(ctx, input.AccountNumber, input.PIN); err != nil {
		return nil, uc.fail(op, input.AccountNumber, err)
	}
	uc.advance(op, domain.StageAuthorized)

	accountID, err := uc.resolver.ResolveID(ctx, input.AccountNumber)
	if err != nil {
		return nil, uc.fail(op, input.AccountNumber, err)
	}

	utr := uc.utrOrGenerate(input.UTR, "")

	var entry *domain.Entry
	err = uc.inTransaction(ctx, func(txCtx context.Context, tx Transaction) error {
		accounts, err := uc.lockAccounts(txCtx, tx, accountID)
		if err != nil {
			return err
		}

		if err := accounts[accountID].ValidateDebit(input.Amount); err != nil {
			return err
		}
		uc.advance(op, domain.StageFundsChecked)

		entry, err = uc.post(txCtx, tx, postParams{
			accountID:   accountID,
			utr:         utr,
			entryType:   domain.EntryTypeWithdrawal,
			mode:        input.Mode,
			amount:      input.Amount,
			description: input.Description,
		})

		return err
	})
	if err != nil {
		return nil, uc.fail(op, input.AccountNumber, err)
	}

	uc.advance(op, domain.StageCommitted)
	uc.succeed(ctx, op, input.Amount, domain.NewNotification(input.AccountNumber, entry))

	return entry, nil
}

// Transfer moves funds between two accounts as one atomic unit.
func (uc *TransactionUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	op := domain.NewOperation(domain.OperationTransfer, uc.now())
	sender, receiver := input.SenderAccountNumber, input.ReceiverAccountNumber

	if err := uc.validate(input.Amount, input.Mode, input.Description, input.UTR); err != nil {
		return nil, uc.fail(op, sender, err)
	}
	uc.advance(op, domain.StageValidated)

	if err := uc.authorizer.Authorize(ctx, sender, input.PIN); err != nil {
		return nil, uc.fail(op, sender, err)
	}
	uc.advance(op, domain.StageAuthorized)

	senderID, err := uc.resolver.ResolveID(ctx, sender)
	if err != nil {
		return nil, uc.fail(op, sender, err)
	}

	receiverID, err := uc.resolver.ResolveID(ctx, receiver)
	if err != nil {
		return nil, uc.fail(op, sender, err)
	}

	if senderID == receiverID {
		return nil, uc.fail(op, sender, domain.ErrSameAccount)
	}

	debitUTR := uc.utrOrGenerate(input.UTR, transferDebitSuffix)
	creditUTR := uc.utrOrGenerate(input.UTR, transferCreditSuffix)

	debitDescription, creditDescription := input.Description, input.Description
	if strings.TrimSpace(input.Description) == "" {
		debitDescription = "Transfer to account " + receiver
		creditDescription = "Transfer from account " + sender
	}

	result := &TransferResult{}
	err = uc.inTransaction(ctx, func(txCtx context.Context, tx Transaction) error {
		accounts, err := uc.lockAccounts(txCtx, tx, senderID, receiverID)
		if err != nil {
			return err
		}

		if err := accounts[senderID].ValidateDebit(input.Amount); err != nil {
			return err
		}

		if err := accounts[receiverID].ValidateCredit(); err != nil {
			return err
		}
		uc.advance(op, domain.StageFundsChecked)

		result.Debit, err = uc.post(txCtx, tx, postParams{
			accountID:    senderID,
			utr:          debitUTR,
			entryType:    domain.EntryTypeTransferDebit,
			mode:         input.Mode,
			amount:       input.Amount,
			counterparty: receiver,
			description:  debitDescription,
		})
		if err != nil {
			return err
		}

		result.Credit, err = uc.post(txCtx, tx, postParams{
			accountID:    receiverID,
			utr:          creditUTR,
			entryType:    domain.EntryTypeTransferCredit,
			mode:         input.Mode,
			amount:       input.Amount,
			counterparty: sender,
			description:  creditDescription,
		})

		return err
	})
	if err != nil {
		return nil, uc.fail(op, sender, err)
	}

	uc.advance(op, domain.StageCommitted)
	uc.succeed(ctx, op, input.Amount,
		domain.NewNotification(sender, result.Debit),
		domain.NewNotification(receiver, result.Credit),
	)

	return result, nil
}

type postParams struct {
	accountID    string
	utr          string
	entryType    domain.EntryType
	mode         string
	counterparty string
	description  string
	amount       decimal.Decimal
}

// post applies one balance change and records it. The caller holds the
// account lock for the duration of tx.
func (uc *TransactionUseCase) post(ctx context.Context, tx Transaction, p postParams) (*domain.Entry, error) {
	delta := p.amount
	if p.entryType.IsDebit() {
		delta = p.amount.Neg()
	}

	now := uc.now()

	balance, err := uc.accountRepo.ApplyDelta(ctx, tx, p.accountID, delta, now)
	if err != nil {
		return nil, err
	}

	entry := &domain.Entry{
		ID:                        uc.idGen.Generate(),
		UTR:                       p.utr,
		AccountID:                 p.accountID,
		Type:                      p.entryType,
		Mode:                      strings.TrimSpace(p.mode),
		CounterpartyAccountNumber: p.counterparty,
		Description:               p.description,
		Amount:                    p.amount,
		BalanceAfter:              balance,
		CreatedAt:                 now,
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// lockAccounts locks ids in ascending order so concurrent transfers over the
// same pair cannot deadlock.
func (uc *TransactionUseCase) lockAccounts(ctx context.Context, tx Transaction, ids ...string) (map[string]*domain.Account, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, sorted)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	// Resolved accounts that vanished before the lock are a storage fault.
	for _, id := range ids {
		if byID[id] == nil {
			return nil, domain.NewPersistenceError("lock accounts", domain.ErrAccountNotFound)
		}
	}

	return byID, nil
}

// inTransaction runs fn in a database transaction bounded by the
// configured timeout. Untyped errors surface as persistence errors.
func (uc *TransactionUseCase) inTransaction(ctx context.Context, fn func(context.Context, Transaction) error) error {
	txCtx, cancel := context.WithTimeout(ctx, uc.txTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return domain.NewPersistenceError("begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback(context.WithoutCancel(txCtx))
	}()

	if err := fn(txCtx, tx); err != nil {
		var derr *domain.Error
		if errors.As(err, &derr) {
			return err
		}

		return domain.NewPersistenceError("ledger write", err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return domain.NewPersistenceError("commit", err)
	}

	return nil
}

func (uc *TransactionUseCase) validate(amount decimal.Decimal, mode, description, utr string) error {
	if err := domain.ValidateTransaction(amount, mode); err != nil {
		return err
	}

	if err := domain.ValidateDescription(description); err != nil {
		return err
	}

	if utr != "" {
		return domain.ValidateUTR(utr)
	}

	return nil
}

func (uc *TransactionUseCase) utrOrGenerate(utr, suffix string) string {
	if utr == "" {
		return uc.utrGen.NewUTR()
	}

	return utr + suffix
}

func (uc *TransactionUseCase) advance(op *domain.Operation, stage domain.Stage) {
	if err := op.Advance(stage); err != nil {
		uc.logger.Error().Err(err).Str("operation", string(op.Kind)).Msg("stage tracking out of order")
	}
}

func (uc *TransactionUseCase) fail(op *domain.Operation, accountNumber string, err error) error {
	kind := domain.KindOf(err)
	if kind == "" {
		kind = domain.KindPersistence
		err = domain.NewPersistenceError(string(op.Kind), err)
	}

	event := uc.logger.Warn()
	if kind == domain.KindPersistence {
		event = uc.logger.Error()
	}

	event.Err(err).
		Str("operation", string(op.Kind)).
		Str("account_number", accountNumber).
		Str("stage", string(op.Stage)).
		Str("kind", string(kind)).
		Msg("ledger operation rejected")

	if uc.metrics != nil {
		uc.metrics.Transactions.WithLabelValues(string(op.Kind), string(kind)).Inc()
		uc.metrics.TransactionFailures.WithLabelValues(string(op.Kind), string(kind), string(op.Stage)).Inc()
		uc.metrics.TransactionDuration.WithLabelValues(string(op.Kind)).Observe(time.Since(op.StartedAt).Seconds())
	}

	return err
}

// succeed records a committed operation and hands notifications to the
// notifier. A misbehaving notifier cannot change the outcome.
func (uc *TransactionUseCase) succeed(ctx context.Context, op *domain.Operation, amount decimal.Decimal, notes ...domain.Notification) {
	for _, n := range notes {
		uc.logger.Info().
			Str("operation", string(op.Kind)).
			Str("utr", n.UTR).
			Str("account_number", n.AccountNumber).
			Str("amount", n.Amount.String()).
			Str("balance_after", n.BalanceAfter.String()).
			Msg("ledger operation committed")
	}

	if uc.metrics != nil {
		uc.metrics.Transactions.WithLabelValues(string(op.Kind), "success").Inc()
		uc.metrics.TransactionDuration.WithLabelValues(string(op.Kind)).Observe(time.Since(op.StartedAt).Seconds())
		uc.metrics.TransactionAmount.WithLabelValues(string(op.Kind)).Observe(amount.InexactFloat64())
	}

	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error().Interface("panic", r).Str("operation", string(op.Kind)).Msg("notifier panicked")
		}
	}()

	for _, n := range notes {
		uc.notifier.Notify(context.WithoutCancel(ctx), n)
	}

	uc.advance(op, domain.StageNotified)
}
