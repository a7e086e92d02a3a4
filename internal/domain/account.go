package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
)

// Valid reports whether s is a known status.
func (s AccountStatus) Valid() bool {
	return s == AccountStatusActive || s == AccountStatusInactive
}

// Account is a customer account holding a balance.
type Account struct {
	ID            string
	AccountNumber string
	CustomerID    string
	Balance       decimal.Decimal
	Status        AccountStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive reports whether the account accepts transactions.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// ValidateDebit checks if account can be debited by amount.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if !a.IsActive() {
		return ErrAccountInactive
	}

	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}

	return nil
}

// ValidateCredit checks if account can be credited.
func (a *Account) ValidateCredit() error {
	if !a.IsActive() {
		return ErrAccountInactive
	}

	return nil
}
