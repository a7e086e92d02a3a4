// Package app wires repositories, caches and notifiers into the ledger use cases.
package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/bankledger/internal/adapter/repository/postgres"
	"github.com/iho/bankledger/internal/infrastructure/config"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
	"github.com/iho/bankledger/internal/usecase"
)

// Repositories groups one storage backend's implementations.
type Repositories struct {
	TxManager   usecase.TransactionManager
	Accounts    usecase.AccountRepository
	Entries     usecase.EntryRepository
	Customers   usecase.CustomerRepository
	Credentials usecase.CredentialRepository
	Ledger      usecase.LedgerRepository
}

// MemoryRepositories backs every repository with s.
func MemoryRepositories(s *memory.Store) Repositories {
	customers := s.Customers()

	return Repositories{
		TxManager:   s.TxManager(),
		Accounts:    s.Accounts(),
		Entries:     s.Entries(),
		Customers:   customers,
		Credentials: customers,
		Ledger:      s.Ledger(),
	}
}

// PostgresRepositories backs every repository with pool.
func PostgresRepositories(pool *pgxpool.Pool) Repositories {
	customers := postgresRepo.NewCustomerRepository(pool)

	return Repositories{
		TxManager:   postgresRepo.NewTxManager(pool),
		Accounts:    postgresRepo.NewAccountRepository(pool),
		Entries:     postgresRepo.NewEntryRepository(pool),
		Customers:   customers,
		Credentials: customers,
		Ledger:      postgresRepo.NewLedgerRepository(pool),
	}
}

// Deps contains everything New needs besides configuration.
type Deps struct {
	Repos Repositories
	// Cache may be nil. Pass an untyped nil, not a nil pointer.
	Cache    usecase.AccountCache
	Notifier usecase.Notifier
	IDGen    usecase.IDGenerator
	UTRGen   usecase.UTRGenerator
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger
}

// App holds the use cases served by the HTTP API and the CLI.
type App struct {
	Transactions *usecase.TransactionUseCase
	Accounts     *usecase.AccountUseCase
	Customers    *usecase.CustomerUseCase
	Entries      *usecase.EntryUseCase
	Ledger       *usecase.LedgerUseCase
}

// New builds the use cases. Missing generators default to ULIDs.
func New(deps Deps, cfg *config.Config) *App {
	if deps.IDGen == nil {
		deps.IDGen = postgresRepo.NewULIDGenerator()
	}
	if deps.UTRGen == nil {
		deps.UTRGen = postgresRepo.NewUTRGenerator()
	}

	repos := deps.Repos
	resolver := usecase.NewCachedAccountResolver(repos.Accounts, deps.Cache, cfg.AccountCacheTTL, deps.Metrics, deps.Logger)

	return &App{
		Transactions: usecase.NewTransactionUseCase(
			repos.TxManager,
			repos.Accounts,
			repos.Entries,
			resolver,
			usecase.NewPINAuthorizer(repos.Credentials),
			deps.Notifier,
			deps.IDGen,
			deps.UTRGen,
			usecase.WithMetrics(deps.Metrics),
			usecase.WithLogger(deps.Logger),
			usecase.WithTransactionTimeout(cfg.TransactionTimeout),
		),
		Accounts:  usecase.NewAccountUseCase(repos.Accounts, repos.Customers, deps.Cache, deps.IDGen, deps.Metrics, deps.Logger),
		Customers: usecase.NewCustomerUseCase(repos.Customers, deps.IDGen, cfg.PINHashCost, deps.Metrics),
		Entries:   usecase.NewEntryUseCase(repos.Accounts, repos.Entries),
		Ledger:    usecase.NewLedgerUseCase(repos.Ledger, deps.Metrics),
	}
}
