package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccount_ValidateDebit(t *testing.T) {
	tests := []struct {
		name        string
		balance     decimal.Decimal
		debitAmount decimal.Decimal
		status      AccountStatus
		wantErr     error
	}{
		{
			name:        "debit more than balance",
			balance:     decimal.NewFromInt(100),
			debitAmount: decimal.NewFromInt(150),
			status:      AccountStatusActive,
			wantErr:     ErrInsufficientFunds,
		},
		{
			name:        "debit exact balance",
			balance:     decimal.NewFromInt(100),
			debitAmount: decimal.NewFromInt(100),
			status:      AccountStatusActive,
		},
		{
			name:        "debit less than balance",
			balance:     decimal.NewFromInt(100),
			debitAmount: decimal.NewFromInt(50),
			status:      AccountStatusActive,
		},
		{
			name:        "inactive account",
			balance:     decimal.NewFromInt(100),
			debitAmount: decimal.NewFromInt(50),
			status:      AccountStatusInactive,
			wantErr:     ErrAccountInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{Balance: tt.balance, Status: tt.status}

			err := acc.ValidateDebit(tt.debitAmount)

			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAccount_ValidateCredit(t *testing.T) {
	active := &Account{Status: AccountStatusActive}
	if err := active.ValidateCredit(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	inactive := &Account{Status: AccountStatusInactive}
	if err := inactive.ValidateCredit(); !errors.Is(err, ErrAccountInactive) {
		t.Errorf("expected ErrAccountInactive, got %v", err)
	}
}

func TestAccountStatus_Valid(t *testing.T) {
	if !AccountStatusActive.Valid() || !AccountStatusInactive.Valid() {
		t.Fatal("expected known statuses to be valid")
	}

	if AccountStatus("FROZEN").Valid() {
		t.Fatal("expected unknown status to be invalid")
	}
}
