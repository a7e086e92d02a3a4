package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSnapshot pairs an account's stored balance with the balance
// recorded on its most recent entry.
type BalanceSnapshot struct {
	AccountID          string
	AccountNumber      string
	Balance            decimal.Decimal
	LatestBalanceAfter decimal.Decimal
	EntryCount         int64
}

// ConsistencyIssue describes one account that fails a ledger check.
type ConsistencyIssue struct {
	AccountNumber string
	Reason        string
	Balance       decimal.Decimal
	Expected      decimal.Decimal
}

// ConsistencyReport is the result of a ledger-wide consistency check.
type ConsistencyReport struct {
	CheckedAt       time.Time
	Issues          []ConsistencyIssue
	AccountsChecked int
}

// Consistent reports whether no issues were found.
func (r *ConsistencyReport) Consistent() bool {
	return len(r.Issues) == 0
}
