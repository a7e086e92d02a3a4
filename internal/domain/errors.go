package domain

import "errors"

// ErrorKind classifies a ledger failure.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindAuth              ErrorKind = "auth"
	KindInsufficientFunds ErrorKind = "insufficient_funds"
	KindNotFound          ErrorKind = "not_found"
	KindDuplicateUTR      ErrorKind = "duplicate_utr"
	KindConflict          ErrorKind = "conflict"
	KindPersistence       ErrorKind = "persistence"
)

// Error is the typed error returned by every ledger operation.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}

	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target has the same kind. A target without a message
// matches every error of its kind, so errors.Is(err, ErrValidation) holds
// for any validation failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	if t.Kind != e.Kind {
		return false
	}

	return t.Message == "" || t.Message == e.Message
}

// Kind sentinels, matched by errors.Is regardless of message.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrAuth         = &Error{Kind: KindAuth}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrPersistence  = &Error{Kind: KindPersistence}
	ErrDuplicateUTR = &Error{Kind: KindDuplicateUTR, Message: "duplicate utr"}

	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds, Message: "insufficient funds"}
)

// Validation errors
var (
	ErrInvalidAmount         = NewValidationError("amount must be positive")
	ErrAmountTooLarge        = NewValidationError("amount exceeds maximum allowed")
	ErrModeRequired          = NewValidationError("mode required")
	ErrInvalidMode           = NewValidationError("mode too long")
	ErrSameAccount           = NewValidationError("sender and receiver must differ")
	ErrAccountInactive       = NewValidationError("account is not active")
	ErrInvalidAccountNumber  = NewValidationError("invalid account number")
	ErrInvalidCustomerName   = NewValidationError("invalid customer name")
	ErrInvalidEmail          = NewValidationError("invalid email format")
	ErrInvalidPIN            = NewValidationError("pin must be 4 to 6 digits")
	ErrInvalidOpeningBalance = NewValidationError("opening balance must not be negative")
	ErrInvalidAccountStatus  = NewValidationError("invalid account status")
	ErrDescriptionTooLong    = NewValidationError("description too long")
	ErrInvalidUTR            = NewValidationError("invalid utr")
	ErrInvalidEntryType      = NewValidationError("unknown transaction type")
)

// Auth errors
var (
	ErrAuthAccountNotFound = &Error{Kind: KindAuth, Message: "account not found"}
	ErrInvalidCredential   = &Error{Kind: KindAuth, Message: "invalid credential"}
	ErrInvalidToken        = &Error{Kind: KindAuth, Message: "invalid token"}
	ErrExpiredToken        = &Error{Kind: KindAuth, Message: "token has expired"}
)

// Lookup errors
var (
	ErrAccountNotFound     = &Error{Kind: KindNotFound, Message: "account not found"}
	ErrCustomerNotFound    = &Error{Kind: KindNotFound, Message: "customer not found"}
	ErrTransactionNotFound = &Error{Kind: KindNotFound, Message: "transaction not found"}
)

// Conflict errors
var (
	ErrAccountInUse       = &Error{Kind: KindConflict, Message: "account has transaction records"}
	ErrAccountNumberTaken = &Error{Kind: KindConflict, Message: "account number already exists"}
	ErrCustomerEmailTaken = &Error{Kind: KindConflict, Message: "customer email already exists"}
	ErrCustomerInUse      = &Error{Kind: KindConflict, Message: "customer has accounts"}
)

var (
	// ErrBalanceNotApplied means the conditional balance update matched no row.
	ErrBalanceNotApplied = &Error{Kind: KindPersistence, Message: "balance update not applied"}

	ErrInvalidStageProgress = errors.New("invalid operation stage transition")
)

// NewValidationError returns a validation error with the given message.
func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NewPersistenceError wraps a storage failure that happened during op.
func NewPersistenceError(op string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: op + " failed", Err: err}
}

// KindOf returns the kind of err, or the empty kind for untyped errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return ""
}
