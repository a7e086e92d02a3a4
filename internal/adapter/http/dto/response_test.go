package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

func TestAccountFromDomain(t *testing.T) {
	now := time.Now()
	account := &domain.Account{
		ID:            "acc-1",
		AccountNumber: "ACC001",
		CustomerID:    "cust-1",
		Balance:       decimal.RequireFromString("123.45"),
		Status:        domain.AccountStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	resp := AccountFromDomain(account)
	if resp.ID != account.ID || resp.Balance != "123.45" || resp.Status != "ACTIVE" {
		t.Fatalf("unexpected account response: %+v", resp)
	}

	list := AccountsFromDomain([]*domain.Account{account})
	if len(list) != 1 || list[0].AccountNumber != "ACC001" {
		t.Fatalf("AccountsFromDomain returned %+v", list)
	}
}

func TestTransferFromResult(t *testing.T) {
	now := time.Now()
	result := &usecase.TransferResult{
		Debit: &domain.Entry{
			ID: "e1", UTR: "UTR1", Type: domain.EntryTypeTransferDebit,
			Amount: decimal.NewFromInt(1000), BalanceAfter: decimal.NewFromInt(2000),
			CounterpartyAccountNumber: "ACC002", CreatedAt: now,
		},
		Credit: &domain.Entry{
			ID: "e2", UTR: "UTR2", Type: domain.EntryTypeTransferCredit,
			Amount: decimal.NewFromInt(1000), BalanceAfter: decimal.NewFromInt(2000),
			CounterpartyAccountNumber: "ACC001", CreatedAt: now,
		},
	}

	resp := TransferFromResult(result)
	if resp.Debit.Type != "TRANSFER-DEBIT" || resp.Credit.Type != "TRANSFER-CREDIT" {
		t.Fatalf("unexpected leg types: %+v / %+v", resp.Debit, resp.Credit)
	}
	if resp.Debit.Amount != "1000" || resp.Credit.CounterpartyAccountNumber != "ACC001" {
		t.Fatalf("unexpected transfer response: %+v", resp)
	}
}

func TestCustomerFromDomainOmitsPIN(t *testing.T) {
	c := &domain.Customer{ID: "c1", Name: "Alice", Email: "alice@example.com", PINHash: "$2a$10$secret"}

	resp := CustomerFromDomain(c)
	if resp.ID != "c1" || resp.Name != "Alice" || resp.Email != "alice@example.com" {
		t.Fatalf("unexpected customer response: %+v", resp)
	}
}

func TestConsistencyFromDomain(t *testing.T) {
	report := &domain.ConsistencyReport{
		AccountsChecked: 3,
		Issues: []domain.ConsistencyIssue{
			{AccountNumber: "ACC009", Reason: "balance differs from latest record",
				Balance: decimal.NewFromInt(10), Expected: decimal.NewFromInt(20)},
		},
	}

	resp := ConsistencyFromDomain(report)
	if resp.Consistent || resp.AccountsChecked != 3 || len(resp.Issues) != 1 {
		t.Fatalf("unexpected consistency response: %+v", resp)
	}
	if resp.Issues[0].Expected != "20" {
		t.Fatalf("expected 20, got %s", resp.Issues[0].Expected)
	}

	clean := ConsistencyFromDomain(&domain.ConsistencyReport{AccountsChecked: 1})
	if !clean.Consistent || clean.Issues == nil {
		t.Fatalf("expected consistent report with empty issue list, got %+v", clean)
	}
}
