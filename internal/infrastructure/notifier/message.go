package notifier

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// message is the wire form shared by the stream and Kafka publishers.
type message struct {
	Type                      string          `json:"type"`
	UTR                       string          `json:"utr"`
	AccountNumber             string          `json:"account_number"`
	CounterpartyAccountNumber string          `json:"counterparty_account_number,omitempty"`
	Mode                      string          `json:"mode,omitempty"`
	Amount                    decimal.Decimal `json:"amount"`
	BalanceAfter              decimal.Decimal `json:"balance_after"`
	OccurredAt                time.Time       `json:"occurred_at"`
}

func encode(n domain.Notification) ([]byte, error) {
	return json.Marshal(message{
		Type:                      string(n.Type),
		UTR:                       n.UTR,
		AccountNumber:             n.AccountNumber,
		CounterpartyAccountNumber: n.CounterpartyAccountNumber,
		Mode:                      n.Mode,
		Amount:                    n.Amount,
		BalanceAfter:              n.BalanceAfter,
		OccurredAt:                n.OccurredAt.UTC(),
	})
}

const emailSignature = "\n\nThank you for banking with us!\n\n- %s"

// composeEmail renders the subject and plain-text body sent to the
// customer named name.
func composeEmail(n domain.Notification, name, bank string) (string, string, error) {
	amount := n.Amount.StringFixed(2)

	var subject, text string

	switch n.Type {
	case domain.NotificationDeposit:
		subject = "Deposit Successful - Account " + n.AccountNumber
		text = fmt.Sprintf("Your account %s has been credited with %s.", n.AccountNumber, amount)
	case domain.NotificationWithdrawal:
		subject = "Withdrawal Successful - Account " + n.AccountNumber
		text = fmt.Sprintf("Your account %s has been debited with %s.", n.AccountNumber, amount)
	case domain.NotificationTransferSent:
		subject = "Amount Transferred - Account " + n.AccountNumber
		text = fmt.Sprintf("You have successfully transferred %s to account %s.", amount, n.CounterpartyAccountNumber)
	case domain.NotificationTransferReceived:
		subject = "Amount Received - Account " + n.AccountNumber
		text = fmt.Sprintf("Your account %s has been credited with %s from account %s.",
			n.AccountNumber, amount, n.CounterpartyAccountNumber)
	default:
		return "", "", fmt.Errorf("unknown notification type %q", n.Type)
	}

	body := fmt.Sprintf("Dear %s,\n\n%s"+emailSignature, name, text, bank)

	return subject, body, nil
}
