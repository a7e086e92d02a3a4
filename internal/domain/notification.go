package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotificationType identifies which party-facing message to send.
type NotificationType string

const (
	NotificationDeposit          NotificationType = "deposit.credited"
	NotificationWithdrawal       NotificationType = "withdrawal.debited"
	NotificationTransferSent     NotificationType = "transfer.sent"
	NotificationTransferReceived NotificationType = "transfer.received"
)

// Notification is emitted after a committed transaction, once per affected party.
type Notification struct {
	OccurredAt                time.Time
	Type                      NotificationType
	UTR                       string
	AccountNumber             string
	CounterpartyAccountNumber string
	Mode                      string
	Amount                    decimal.Decimal
	BalanceAfter              decimal.Decimal
}

// NewNotification builds the notification for a committed entry on accountNumber.
func NewNotification(accountNumber string, entry *Entry) Notification {
	n := Notification{
		OccurredAt:                entry.CreatedAt,
		UTR:                       entry.UTR,
		AccountNumber:             accountNumber,
		CounterpartyAccountNumber: entry.CounterpartyAccountNumber,
		Mode:                      entry.Mode,
		Amount:                    entry.Amount,
		BalanceAfter:              entry.BalanceAfter,
	}

	switch entry.Type {
	case EntryTypeDeposit:
		n.Type = NotificationDeposit
	case EntryTypeWithdrawal:
		n.Type = NotificationWithdrawal
	case EntryTypeTransferDebit:
		n.Type = NotificationTransferSent
	case EntryTypeTransferCredit:
		n.Type = NotificationTransferReceived
	}

	return n
}
