package notifier

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

func TestComposeEmail(t *testing.T) {
	base := testNotification("UTR1")
	base.Amount = decimal.RequireFromString("250.5")
	base.CounterpartyAccountNumber = "ACC002"

	tests := []struct {
		name        string
		typ         domain.NotificationType
		wantSubject string
		wantLine    string
	}{
		{
			name:        "deposit",
			typ:         domain.NotificationDeposit,
			wantSubject: "Deposit Successful - Account ACC001",
			wantLine:    "Your account ACC001 has been credited with 250.50.",
		},
		{
			name:        "withdrawal",
			typ:         domain.NotificationWithdrawal,
			wantSubject: "Withdrawal Successful - Account ACC001",
			wantLine:    "Your account ACC001 has been debited with 250.50.",
		},
		{
			name:        "transfer sent",
			typ:         domain.NotificationTransferSent,
			wantSubject: "Amount Transferred - Account ACC001",
			wantLine:    "You have successfully transferred 250.50 to account ACC002.",
		},
		{
			name:        "transfer received",
			typ:         domain.NotificationTransferReceived,
			wantSubject: "Amount Received - Account ACC001",
			wantLine:    "Your account ACC001 has been credited with 250.50 from account ACC002.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := base
			n.Type = tt.typ

			subject, body, err := composeEmail(n, "Alice", "MyBank")
			if err != nil {
				t.Fatalf("composeEmail() error = %v", err)
			}

			if subject != tt.wantSubject {
				t.Errorf("subject = %q, want %q", subject, tt.wantSubject)
			}

			want := "Dear Alice,\n\n" + tt.wantLine + "\n\nThank you for banking with us!\n\n- MyBank"
			if body != want {
				t.Errorf("body = %q, want %q", body, want)
			}
		})
	}
}

func TestComposeEmailUnknownType(t *testing.T) {
	n := testNotification("UTR1")
	n.Type = "refund"

	if _, _, err := composeEmail(n, "Alice", "MyBank"); err == nil {
		t.Error("expected error for unknown notification type")
	}
}
