package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind represents the kind of balance-affecting event
type TransactionKind string

const (
	KindDeposit     TransactionKind = "DEPOSIT"
	KindWithdrawal  TransactionKind = "WITHDRAWAL"
	KindTransferOut TransactionKind = "TRANSFER_OUT"
	KindTransferIn  TransactionKind = "TRANSFER_IN"
	KindInterest    TransactionKind = "INTEREST"
)

// TransactionRecord is one immutable entry in an account's transaction log.
// Records are passed around by value; the log itself is only ever appended to.
type TransactionRecord struct {
	ID           string
	Kind         TransactionKind
	Amount       decimal.Decimal // ABSOLUTE VALUE (Never Negative)
	Description  string
	Timestamp    time.Time
	Counterparty string          // Other account of a transfer, empty otherwise
	BalanceAfter decimal.Decimal // Account balance right after this record was applied
}

// Credits reports whether the record increased the balance
func (r TransactionRecord) Credits() bool {
	switch r.Kind {
	case KindDeposit, KindTransferIn, KindInterest:
		return true
	default:
		return false
	}
}

// Validate ensures the record adheres to domain rules
func (r TransactionRecord) Validate() error {
	if r.ID == "" {
		return errors.New("transaction id cannot be empty")
	}

	switch r.Kind {
	case KindDeposit, KindWithdrawal, KindTransferOut, KindTransferIn, KindInterest:
	default:
		return errors.New("transaction kind must be DEPOSIT, WITHDRAWAL, TRANSFER_OUT, TRANSFER_IN or INTEREST")
	}

	if r.Amount.IsNegative() {
		return errors.New("transaction amount cannot be negative")
	}

	// Transfers always reference the other leg
	if (r.Kind == KindTransferOut || r.Kind == KindTransferIn) && r.Counterparty == "" {
		return errors.New("transfer record must reference a counterparty account")
	}

	if r.Timestamp.IsZero() {
		return errors.New("transaction timestamp must be set")
	}

	return nil
}
