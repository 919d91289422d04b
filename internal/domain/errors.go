package domain

import "errors"

// Ledger errors. Operations wrap these with context, so callers match with errors.Is.
var (
	// ErrNotFound is returned when an account number is unknown to the registry
	ErrNotFound = errors.New("account not found")

	// ErrDestinationNotFound is returned when the target of a transfer does not exist
	ErrDestinationNotFound = errors.New("destination account not found")

	// ErrInactive is returned when an operation is attempted on a closed account
	ErrInactive = errors.New("account is inactive")

	// ErrInvalidAmount is returned for zero or negative amounts
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds is returned when an operation would breach the minimum balance
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrMaturityLocked is returned when a fixed deposit is debited before maturity
	ErrMaturityLocked = errors.New("fixed deposit has not matured")

	// ErrValidation is returned for construction-time violations
	ErrValidation = errors.New("validation failed")

	// ErrNonZeroBalance is returned when deleting an account that still holds money
	ErrNonZeroBalance = errors.New("account balance is not zero")

	// ErrSameAccount is returned when source and destination of a transfer are the same
	ErrSameAccount = errors.New("source and destination are the same account")

	// ErrDuplicateAccount is returned when an account number is already registered
	ErrDuplicateAccount = errors.New("account number already exists")
)

// ClassifyError returns a stable label for an error, used as a metrics and log dimension.
func ClassifyError(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrDestinationNotFound):
		return "destination_not_found"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInactive):
		return "inactive"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrMaturityLocked):
		return "maturity_locked"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNonZeroBalance):
		return "non_zero_balance"
	case errors.Is(err, ErrSameAccount):
		return "same_account"
	case errors.Is(err, ErrDuplicateAccount):
		return "duplicate_account"
	default:
		return "internal"
	}
}
