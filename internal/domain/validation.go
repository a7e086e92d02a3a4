package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxTransactionAmount  = "1000000000000" // 1 trillion
	MaxModeLength         = 32
	MaxDescriptionLength  = 255
	MaxCustomerNameLength = 100
	MaxUTRLength          = 64
)

var (
	accountNumberRegex = regexp.MustCompile(`^[A-Z0-9]{4,20}$`)
	emailRegex         = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	pinRegex           = regexp.MustCompile(`^[0-9]{4,6}$`)
	utrRegex           = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
)

var maxTransactionAmount = decimal.RequireFromString(MaxTransactionAmount)

// ValidateTransaction checks the caller-supplied fields shared by deposits,
// withdrawals and transfers.
func ValidateTransaction(amount decimal.Decimal, mode string) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if amount.GreaterThan(maxTransactionAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxTransactionAmount)
	}

	mode = strings.TrimSpace(mode)
	if mode == "" {
		return ErrModeRequired
	}

	if len(mode) > MaxModeLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrInvalidMode, MaxModeLength)
	}

	return nil
}

// ValidateDescription limits free-text descriptions.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrDescriptionTooLong, MaxDescriptionLength)
	}

	return nil
}

// ValidateUTR validates a caller-supplied unique transaction reference.
func ValidateUTR(utr string) error {
	if len(utr) > MaxUTRLength || !utrRegex.MatchString(utr) {
		return ErrInvalidUTR
	}

	return nil
}

// ValidateAccountNumber validates the external account number format.
func ValidateAccountNumber(number string) error {
	if !accountNumberRegex.MatchString(number) {
		return fmt.Errorf("%w: expected 4-20 uppercase letters or digits", ErrInvalidAccountNumber)
	}

	return nil
}

// ValidateCustomerName validates customer name
func ValidateCustomerName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidCustomerName)
	}

	if len(name) > MaxCustomerNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidCustomerName, MaxCustomerNameLength)
	}

	return nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePIN checks the PIN shape before it is hashed.
func ValidatePIN(pin string) error {
	if !pinRegex.MatchString(pin) {
		return ErrInvalidPIN
	}

	return nil
}

// ValidateOpeningBalance rejects negative opening balances.
func ValidateOpeningBalance(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return ErrInvalidOpeningBalance
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
