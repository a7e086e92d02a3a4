package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bankledger/internal/adapter/repository/memory"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/config"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
	"github.com/iho/bankledger/internal/usecase"
)

type capturingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (n *capturingNotifier) Notify(_ context.Context, notification domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
}

func newMemoryApp(t *testing.T, notifier usecase.Notifier) *App {
	t.Helper()

	return New(Deps{
		Repos:    MemoryRepositories(memory.NewStore()),
		Notifier: notifier,
		Metrics:  metrics.New(prometheus.NewRegistry()),
		Logger:   zerolog.Nop(),
	}, &config.Config{
		TransactionTimeout: 5 * time.Second,
		PINHashCost:        4,
		AccountCacheTTL:    time.Minute,
	})
}

func openAccount(t *testing.T, a *App, number, email string, opening int64) {
	t.Helper()
	ctx := context.Background()

	customer, err := a.Customers.CreateCustomer(ctx, usecase.CreateCustomerInput{
		Name:  "Customer " + number,
		Email: email,
		PIN:   "1234",
	})
	require.NoError(t, err)

	_, err = a.Accounts.CreateAccount(ctx, usecase.CreateAccountInput{
		AccountNumber:  number,
		CustomerID:     customer.ID,
		OpeningBalance: decimal.NewFromInt(opening),
	})
	require.NoError(t, err)
}

func TestApp_TransactionLifecycle(t *testing.T) {
	ctx := context.Background()
	notifier := &capturingNotifier{}
	a := newMemoryApp(t, notifier)

	openAccount(t, a, "ACC001", "one@bank.test", 1000)
	openAccount(t, a, "ACC002", "two@bank.test", 0)

	deposit, err := a.Transactions.Deposit(ctx, usecase.DepositInput{
		AccountNumber: "ACC001",
		Mode:          "CASH",
		Amount:        decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assert.True(t, deposit.BalanceAfter.Equal(decimal.NewFromInt(1500)))

	_, err = a.Transactions.Withdraw(ctx, usecase.WithdrawInput{
		AccountNumber: "ACC001",
		PIN:           "9999",
		Mode:          "ATM",
		Amount:        decimal.NewFromInt(100),
	})
	assert.True(t, errors.Is(err, domain.ErrAuth))

	result, err := a.Transactions.Transfer(ctx, usecase.TransferInput{
		SenderAccountNumber:   "ACC001",
		ReceiverAccountNumber: "ACC002",
		PIN:                   "1234",
		Mode:                  "UPI",
		Amount:                decimal.NewFromInt(300),
	})
	require.NoError(t, err)
	assert.True(t, result.Debit.BalanceAfter.Equal(decimal.NewFromInt(1200)))
	assert.True(t, result.Credit.BalanceAfter.Equal(decimal.NewFromInt(300)))

	history, err := a.Entries.History(ctx, usecase.HistoryInput{AccountNumber: "ACC001"})
	require.NoError(t, err)
	assert.Len(t, history, 2)

	report, err := a.Ledger.CheckConsistency(ctx)
	require.NoError(t, err)
	assert.True(t, report.Consistent())
	assert.Equal(t, 2, report.AccountsChecked)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Len(t, notifier.sent, 3)
}

func TestApp_ConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	a := newMemoryApp(t, nil)
	openAccount(t, a, "ACC100", "race@bank.test", 1000)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.Transactions.Withdraw(ctx, usecase.WithdrawInput{
				AccountNumber: "ACC100",
				PIN:           "1234",
				Mode:          "ATM",
				Amount:        decimal.NewFromInt(100),
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, domain.ErrInsufficientFunds), "unexpected error: %v", err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)

	account, err := a.Accounts.GetAccountByNumber(ctx, "ACC100")
	require.NoError(t, err)
	assert.True(t, account.Balance.IsZero())
}
