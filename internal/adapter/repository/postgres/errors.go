package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// PostgreSQL error codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// Constraint names from the migrations.
const (
	constraintUTRUnique           = "transactions_utr_number_key"
	constraintAccountNumberUnique = "accounts_account_number_key"
	constraintCustomerEmailUnique = "customers_email_key"
	constraintBalanceNonNegative  = "accounts_balance_non_negative"
)

var errForeignTransaction = errors.New("postgres: transaction was not started by this package")

// translateError maps driver errors onto domain errors. fkErr is returned
// for foreign key violations, whose meaning depends on the statement.
func translateError(op string, err error, fkErr error) error {
	if err == nil {
		return nil
	}

	var derr *domain.Error
	if errors.As(err, &derr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			switch pgErr.ConstraintName {
			case constraintUTRUnique:
				return domain.ErrDuplicateUTR
			case constraintAccountNumberUnique:
				return domain.ErrAccountNumberTaken
			case constraintCustomerEmailUnique:
				return domain.ErrCustomerEmailTaken
			}
			return &domain.Error{Kind: domain.KindConflict, Message: "unique constraint violated", Err: err}
		case pgForeignKeyViolation:
			if fkErr != nil {
				return fkErr
			}
			return &domain.Error{Kind: domain.KindConflict, Message: "foreign key violated", Err: err}
		case pgCheckViolation:
			if pgErr.ConstraintName == constraintBalanceNonNegative {
				return domain.ErrBalanceNotApplied
			}
		}
	}

	return domain.NewPersistenceError(op, err)
}

// notFound maps pgx.ErrNoRows to notFoundErr and everything else through
// translateError.
func notFound(op string, err error, notFoundErr error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFoundErr
	}

	return translateError(op, err, nil)
}

func pgxTxFrom(tx usecase.Transaction) (pgx.Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t == nil {
		return nil, errForeignTransaction
	}

	return t.PgxTx(), nil
}
