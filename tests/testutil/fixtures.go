// Package testutil provides a Postgres-backed harness for integration tests.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/iho/bankledger/internal/app"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/config"
	"github.com/iho/bankledger/internal/infrastructure/postgres"
	"github.com/iho/bankledger/internal/usecase"
)

// DefaultPIN is the PIN given to every customer created by CreateAccount.
const DefaultPIN = "1234"

// TestDB wraps a migrated database for integration tests.
type TestDB struct {
	Pool *pgxpool.Pool
	URL  string
	t    *testing.T
}

// NewTestDB connects to DATABASE_URL when set, otherwise starts a throwaway
// Postgres container. The schema is migrated and all tables are emptied.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = startContainer(ctx, t)
	}

	if err := postgres.RunMigrations(dbURL, "", zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dbURL, 20, 2)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	db := &TestDB{Pool: pool, URL: dbURL, t: t}
	db.TruncateAll(ctx)

	return db
}

func startContainer(ctx context.Context, t *testing.T) string {
	t.Helper()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("bankledger_test"),
		tcpostgres.WithUsername("ledger"),
		tcpostgres.WithPassword("ledger"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := ctr.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	dbURL, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	return dbURL
}

// Cleanup empties the tables and closes the pool.
func (db *TestDB) Cleanup() {
	db.TruncateAll(context.Background())
	db.Pool.Close()
}

// TruncateAll removes every row.
func (db *TestDB) TruncateAll(ctx context.Context) {
	_, err := db.Pool.Exec(ctx, "TRUNCATE transactions, accounts, customers CASCADE")
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// NewApp builds the use cases on top of the database.
func (db *TestDB) NewApp(notifier usecase.Notifier) *app.App {
	return app.New(app.Deps{
		Repos:    app.PostgresRepositories(db.Pool),
		Notifier: notifier,
		Logger:   zerolog.Nop(),
	}, &config.Config{
		TransactionTimeout: 10 * time.Second,
		PINHashCost:        4,
		AccountCacheTTL:    time.Minute,
	})
}

// CreateAccount registers a customer with DefaultPIN and opens an account
// for them holding balance.
func CreateAccount(t *testing.T, a *app.App, number, balance string) *domain.Account {
	t.Helper()

	ctx := context.Background()

	customer, err := a.Customers.CreateCustomer(ctx, usecase.CreateCustomerInput{
		Name:  "Holder " + number,
		Email: number + "@example.com",
		PIN:   DefaultPIN,
	})
	if err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}

	account, err := a.Accounts.CreateAccount(ctx, usecase.CreateAccountInput{
		AccountNumber:  number,
		CustomerID:     customer.ID,
		OpeningBalance: decimal.RequireFromString(balance),
	})
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	return account
}

// Balance reads the current balance of an account.
func Balance(t *testing.T, a *app.App, number string) decimal.Decimal {
	t.Helper()

	account, err := a.Accounts.GetAccountByNumber(context.Background(), number)
	if err != nil {
		t.Fatalf("failed to get account %s: %v", number, err)
	}

	return account.Balance
}
