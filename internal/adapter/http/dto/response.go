package dto

import (
	"time"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID            string    `json:"id"`
	AccountNumber string    `json:"account_number"`
	CustomerID    string    `json:"customer_id"`
	Balance       string    `json:"balance"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		AccountNumber: a.AccountNumber,
		CustomerID:    a.CustomerID,
		Balance:       a.Balance.String(),
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// CustomerResponse represents a customer. The PIN hash is never exposed.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerFromDomain converts domain customer to response.
func CustomerFromDomain(c *domain.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

// CustomersFromDomain converts domain customers to responses.
func CustomersFromDomain(customers []*domain.Customer) []*CustomerResponse {
	result := make([]*CustomerResponse, len(customers))
	for i, c := range customers {
		result[i] = CustomerFromDomain(c)
	}
	return result
}

// TransactionResponse represents one transaction record.
type TransactionResponse struct {
	ID                        string    `json:"id"`
	UTR                       string    `json:"utr"`
	AccountID                 string    `json:"account_id"`
	Type                      string    `json:"type"`
	Mode                      string    `json:"mode"`
	Amount                    string    `json:"amount"`
	BalanceAfter              string    `json:"balance_after"`
	CounterpartyAccountNumber string    `json:"counterparty_account_number,omitempty"`
	Description               string    `json:"description,omitempty"`
	CreatedAt                 time.Time `json:"created_at"`
}

// TransactionFromDomain converts a domain entry to response.
func TransactionFromDomain(e *domain.Entry) *TransactionResponse {
	return &TransactionResponse{
		ID:                        e.ID,
		UTR:                       e.UTR,
		AccountID:                 e.AccountID,
		Type:                      string(e.Type),
		Mode:                      e.Mode,
		Amount:                    e.Amount.String(),
		BalanceAfter:              e.BalanceAfter.String(),
		CounterpartyAccountNumber: e.CounterpartyAccountNumber,
		Description:               e.Description,
		CreatedAt:                 e.CreatedAt,
	}
}

// TransactionsFromDomain converts domain entries to responses.
func TransactionsFromDomain(entries []*domain.Entry) []*TransactionResponse {
	result := make([]*TransactionResponse, len(entries))
	for i, e := range entries {
		result[i] = TransactionFromDomain(e)
	}
	return result
}

// TransferResponse holds both legs of a transfer.
type TransferResponse struct {
	Debit  *TransactionResponse `json:"debit"`
	Credit *TransactionResponse `json:"credit"`
}

// TransferFromResult converts a transfer result to response.
func TransferFromResult(r *usecase.TransferResult) *TransferResponse {
	return &TransferResponse{
		Debit:  TransactionFromDomain(r.Debit),
		Credit: TransactionFromDomain(r.Credit),
	}
}

// ConsistencyIssueResponse describes one failing account.
type ConsistencyIssueResponse struct {
	AccountNumber string `json:"account_number"`
	Reason        string `json:"reason"`
	Balance       string `json:"balance"`
	Expected      string `json:"expected"`
}

// ConsistencyResponse reports the outcome of a ledger check.
type ConsistencyResponse struct {
	Consistent      bool                        `json:"consistent"`
	AccountsChecked int                         `json:"accounts_checked"`
	Issues          []*ConsistencyIssueResponse `json:"issues"`
	CheckedAt       time.Time                   `json:"checked_at"`
}

// ConsistencyFromDomain converts a consistency report to response.
func ConsistencyFromDomain(r *domain.ConsistencyReport) *ConsistencyResponse {
	issues := make([]*ConsistencyIssueResponse, len(r.Issues))
	for i, issue := range r.Issues {
		issues[i] = &ConsistencyIssueResponse{
			AccountNumber: issue.AccountNumber,
			Reason:        issue.Reason,
			Balance:       issue.Balance.String(),
			Expected:      issue.Expected.String(),
		}
	}

	return &ConsistencyResponse{
		Consistent:      r.Consistent(),
		AccountsChecked: r.AccountsChecked,
		Issues:          issues,
		CheckedAt:       r.CheckedAt,
	}
}

// TokenResponse carries a signed operator token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}
