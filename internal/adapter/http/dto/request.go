package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// DepositRequest represents a request to credit an account.
type DepositRequest struct {
	AccountNumber string `json:"account_number" validate:"required,max=20"`
	Amount        string `json:"amount"         validate:"required"`
	Mode          string `json:"mode"           validate:"required,max=32"`
	Description   string `json:"description"    validate:"max=255"`
	UTR           string `json:"utr,omitempty"  validate:"max=64"`
}

// ToUseCaseInput converts to use case input.
func (r *DepositRequest) ToUseCaseInput() (usecase.DepositInput, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return usecase.DepositInput{}, err
	}

	return usecase.DepositInput{
		AccountNumber: r.AccountNumber,
		Amount:        amount,
		Mode:          r.Mode,
		Description:   r.Description,
		UTR:           r.UTR,
	}, nil
}

// WithdrawRequest represents a PIN-authorized debit.
type WithdrawRequest struct {
	AccountNumber string `json:"account_number" validate:"required,max=20"`
	PIN           string `json:"pin"            validate:"required"`
	Amount        string `json:"amount"         validate:"required"`
	Mode          string `json:"mode"           validate:"required,max=32"`
	Description   string `json:"description"    validate:"max=255"`
	UTR           string `json:"utr,omitempty"  validate:"max=64"`
}

// ToUseCaseInput converts to use case input.
func (r *WithdrawRequest) ToUseCaseInput() (usecase.WithdrawInput, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return usecase.WithdrawInput{}, err
	}

	return usecase.WithdrawInput{
		AccountNumber: r.AccountNumber,
		PIN:           r.PIN,
		Amount:        amount,
		Mode:          r.Mode,
		Description:   r.Description,
		UTR:           r.UTR,
	}, nil
}

// TransferRequest represents a PIN-authorized transfer between two accounts.
type TransferRequest struct {
	SenderAccountNumber   string `json:"sender_account_number"   validate:"required,max=20"`
	ReceiverAccountNumber string `json:"receiver_account_number" validate:"required,max=20"`
	PIN                   string `json:"pin"                     validate:"required"`
	Amount                string `json:"amount"                  validate:"required"`
	Mode                  string `json:"mode"                    validate:"required,max=32"`
	Description           string `json:"description"             validate:"max=255"`
	UTR                   string `json:"utr,omitempty"           validate:"max=60"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput() (usecase.TransferInput, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return usecase.TransferInput{}, err
	}

	return usecase.TransferInput{
		SenderAccountNumber:   r.SenderAccountNumber,
		ReceiverAccountNumber: r.ReceiverAccountNumber,
		PIN:                   r.PIN,
		Amount:                amount,
		Mode:                  r.Mode,
		Description:           r.Description,
		UTR:                   r.UTR,
	}, nil
}

// CreateAccountRequest represents a request to open an account.
type CreateAccountRequest struct {
	AccountNumber  string `json:"account_number"  validate:"required,max=20"`
	CustomerID     string `json:"customer_id"     validate:"required"`
	OpeningBalance string `json:"opening_balance"`
}

// ToUseCaseInput converts to use case input. An empty opening balance is zero.
func (r *CreateAccountRequest) ToUseCaseInput() (usecase.CreateAccountInput, error) {
	balance := decimal.Zero
	if r.OpeningBalance != "" {
		var err error
		balance, err = decimal.NewFromString(r.OpeningBalance)
		if err != nil {
			return usecase.CreateAccountInput{}, domain.ErrInvalidOpeningBalance
		}
	}

	return usecase.CreateAccountInput{
		AccountNumber:  r.AccountNumber,
		CustomerID:     r.CustomerID,
		OpeningBalance: balance,
	}, nil
}

// UpdateAccountStatusRequest activates or deactivates an account.
type UpdateAccountStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

// CreateCustomerRequest represents a request to register a customer.
type CreateCustomerRequest struct {
	Name  string `json:"name"  validate:"required,max=100"`
	Email string `json:"email" validate:"required"`
	Phone string `json:"phone" validate:"max=20"`
	PIN   string `json:"pin"   validate:"required"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCustomerRequest) ToUseCaseInput() usecase.CreateCustomerInput {
	return usecase.CreateCustomerInput{
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
		PIN:   r.PIN,
	}
}

// UpdateCustomerRequest changes a customer. Omitted fields stay unchanged.
type UpdateCustomerRequest struct {
	Name  *string `json:"name,omitempty"  validate:"omitempty,max=100"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	PIN   *string `json:"pin,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateCustomerRequest) ToUseCaseInput() usecase.UpdateCustomerInput {
	return usecase.UpdateCustomerInput{
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
		PIN:   r.PIN,
	}
}

// CreateTokenRequest asks for an operator token.
type CreateTokenRequest struct {
	OperatorID string `json:"operator_id" validate:"required"`
	Email      string `json:"email"`
	Role       string `json:"role"        validate:"required,oneof=admin teller auditor"`
}
