package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the closed set of transaction record types.
type EntryType string

const (
	EntryTypeDeposit        EntryType = "DEPOSIT"
	EntryTypeWithdrawal     EntryType = "WITHDRAWAL"
	EntryTypeTransferDebit  EntryType = "TRANSFER-DEBIT"
	EntryTypeTransferCredit EntryType = "TRANSFER-CREDIT"
)

// Valid reports whether t is one of the known entry types.
func (t EntryType) Valid() bool {
	switch t {
	case EntryTypeDeposit, EntryTypeWithdrawal, EntryTypeTransferDebit, EntryTypeTransferCredit:
		return true
	}

	return false
}

// IsDebit reports whether the entry reduced the account balance.
func (t EntryType) IsDebit() bool {
	return t == EntryTypeWithdrawal || t == EntryTypeTransferDebit
}

// Entry is an immutable record of one balance change on one account.
// CounterpartyAccountNumber is empty for deposits and withdrawals.
type Entry struct {
	CreatedAt                 time.Time
	ID                        string
	UTR                       string
	AccountID                 string
	Type                      EntryType
	Mode                      string
	CounterpartyAccountNumber string
	Description               string
	Amount                    decimal.Decimal
	BalanceAfter              decimal.Decimal
}

// SignedAmount returns the amount with the sign of its effect on the balance.
func (e *Entry) SignedAmount() decimal.Decimal {
	if e.Type.IsDebit() {
		return e.Amount.Neg()
	}

	return e.Amount
}

// BalanceBefore returns the balance the account held before this entry.
func (e *Entry) BalanceBefore() decimal.Decimal {
	return e.BalanceAfter.Sub(e.SignedAmount())
}
