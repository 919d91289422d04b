package domain

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Account represents a ledger account in the domain layer.
// Identity fields are immutable after construction; everything below mu is guarded by it.
// Variant-specific rules (rate, minimum balance, withdraw lock) dispatch on the variant tag.
type Account struct {
	number       string
	holderName   string
	variant      Variant
	createdAt    time.Time
	tenureMonths int       // FIXED_DEPOSIT only
	maturityDate time.Time // FIXED_DEPOSIT only

	clock Clock
	ids   IDGenerator

	mu             sync.Mutex
	balance        decimal.Decimal
	active         bool
	retired        bool
	overdraftLimit decimal.Decimal // CURRENT only
	matured        bool            // FIXED_DEPOSIT only
	log            []TransactionRecord
}

// AccountDetails is a point-in-time copy of an account's metadata and state
type AccountDetails struct {
	Number           string
	HolderName       string
	Variant          Variant
	CreatedAt        time.Time
	Balance          decimal.Decimal
	MinimumBalance   decimal.Decimal
	InterestRate     decimal.Decimal
	Active           bool
	OverdraftLimit   decimal.Decimal
	TenureMonths     int
	MaturityDate     time.Time
	Matured          bool
	TransactionCount int
}

// AccountSummary is the row shown when listing accounts
type AccountSummary struct {
	Number     string
	HolderName string
	Variant    Variant
	Balance    decimal.Decimal
	Active     bool
}

// Option configures an Account at construction
type Option func(*Account)

// WithClock sets the clock used for timestamps and maturity checks
func WithClock(c Clock) Option {
	return func(a *Account) {
		if c != nil {
			a.clock = c
		}
	}
}

// WithIDGenerator sets the generator used for transaction record ids
func WithIDGenerator(g IDGenerator) Option {
	return func(a *Account) {
		if g != nil {
			a.ids = g
		}
	}
}

// NewAccount opens an account. The initial deposit is recorded only when positive.
func NewAccount(number string, variant Variant, holderName string, initialDeposit decimal.Decimal, params VariantParams, opts ...Option) (*Account, error) {
	if number == "" {
		return nil, fmt.Errorf("%w: account number cannot be empty", ErrValidation)
	}
	if err := ValidateOpening(variant, holderName, initialDeposit, params); err != nil {
		return nil, err
	}

	a := &Account{
		number:     number,
		holderName: holderName,
		variant:    variant,
		clock:      SystemClock{},
		ids:        UUIDGenerator{},
		balance:    initialDeposit,
		active:     true,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.createdAt = a.clock.Now()

	switch variant {
	case VariantCurrent:
		a.overdraftLimit = params.OverdraftLimit
	case VariantFixedDeposit:
		a.tenureMonths = params.TenureMonths
		a.maturityDate = a.createdAt.AddDate(0, params.TenureMonths, 0)
	}

	if initialDeposit.IsPositive() {
		a.appendLocked(KindDeposit, initialDeposit, "Initial deposit", "", a.createdAt)
	}

	return a, nil
}

// Number returns the account number
func (a *Account) Number() string { return a.number }

// HolderName returns the account holder name
func (a *Account) HolderName() string { return a.holderName }

// Variant returns the account variant
func (a *Account) Variant() Variant { return a.variant }

// CreatedAt returns the opening instant
func (a *Account) CreatedAt() time.Time { return a.createdAt }

// MaturityDate returns the fixed deposit maturity date (zero for other variants)
func (a *Account) MaturityDate() time.Time { return a.maturityDate }

// InterestRate returns the variant's interest rate in percent
func (a *Account) InterestRate() decimal.Decimal {
	switch a.variant {
	case VariantSavings:
		return SavingsInterestRate
	case VariantFixedDeposit:
		return FixedDepositRate(a.tenureMonths)
	default:
		return decimal.Zero
	}
}

// MinimumBalance returns the floor the balance may not cross (negative means overdraft)
func (a *Account) MinimumBalance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.minimumBalanceLocked()
}

// Balance returns the current balance
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// IsActive reports whether the account accepts operations
func (a *Account) IsActive() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// IsMatured reports whether a fixed deposit has matured
func (a *Account) IsMatured() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.matured
}

// History returns a copy of the transaction log in causal order
func (a *Account) History() []TransactionRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]TransactionRecord, len(a.log))
	copy(out, a.log)
	return out
}

// Details returns a consistent snapshot of the account
func (a *Account) Details() AccountDetails {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AccountDetails{
		Number:           a.number,
		HolderName:       a.holderName,
		Variant:          a.variant,
		CreatedAt:        a.createdAt,
		Balance:          a.balance,
		MinimumBalance:   a.minimumBalanceLocked(),
		InterestRate:     a.InterestRate(),
		Active:           a.active,
		OverdraftLimit:   a.overdraftLimit,
		TenureMonths:     a.tenureMonths,
		MaturityDate:     a.maturityDate,
		Matured:          a.matured,
		TransactionCount: len(a.log),
	}
}

// Summary returns the listing row for the account
func (a *Account) Summary() AccountSummary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AccountSummary{
		Number:     a.number,
		HolderName: a.holderName,
		Variant:    a.variant,
		Balance:    a.balance,
		Active:     a.active,
	}
}

// Deposit credits amount to the account and returns the new balance
func (a *Account) Deposit(amount decimal.Decimal) (decimal.Decimal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.retired {
		return a.balance, fmt.Errorf("%w: %s", ErrNotFound, a.number)
	}
	if !a.active {
		return a.balance, fmt.Errorf("%w: %s", ErrInactive, a.number)
	}
	if !amount.IsPositive() {
		return a.balance, fmt.Errorf("%w: deposit amount must be positive", ErrInvalidAmount)
	}

	a.balance = a.balance.Add(amount)
	a.appendLocked(KindDeposit, amount, "Deposit to account", "", a.clock.Now())
	return a.balance, nil
}

// Withdraw debits amount from the account and returns the new balance.
// Fixed deposits are locked until maturity regardless of balance.
func (a *Account) Withdraw(amount decimal.Decimal) (decimal.Decimal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.clock.Now()
	if err := a.checkDebitLocked(amount, now); err != nil {
		return a.balance, err
	}

	a.balance = a.balance.Sub(amount)
	a.appendLocked(KindWithdrawal, amount, "Withdrawal from account", "", now)
	return a.balance, nil
}

// TransferTo moves amount from this account to target.
// Both accounts are locked in account-number order so opposite transfers cannot deadlock,
// and the debit, credit and both log appends happen while both locks are held.
func (a *Account) TransferTo(target *Account, amount decimal.Decimal) error {
	if target == nil {
		return ErrDestinationNotFound
	}
	if target == a || target.number == a.number {
		return fmt.Errorf("%w: %s", ErrSameAccount, a.number)
	}

	first, second := a, target
	if target.number < a.number {
		first, second = target, a
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	now := a.clock.Now()
	if err := a.checkDebitLocked(amount, now); err != nil {
		return err
	}
	if target.retired {
		return fmt.Errorf("%w: %s", ErrDestinationNotFound, target.number)
	}

	a.balance = a.balance.Sub(amount)
	target.balance = target.balance.Add(amount)

	a.appendLocked(KindTransferOut, amount, "Transfer to "+target.number, target.number, now)
	target.appendLocked(KindTransferIn, amount, "Transfer from "+a.number, a.number, now)
	return nil
}

// CalculateInterest credits balance * rate / 100 when positive.
// It returns the credited interest (zero when nothing was credited) and the new balance.
func (a *Account) CalculateInterest() (interest, balance decimal.Decimal, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.retired {
		return decimal.Zero, a.balance, fmt.Errorf("%w: %s", ErrNotFound, a.number)
	}
	interest = a.creditInterestLocked(a.clock.Now())
	return interest, a.balance, nil
}

// CheckMaturity marks a fixed deposit as matured once its maturity date has passed,
// crediting interest in the same step. It reports whether the account matured now
// and the interest credited on maturity. Other variants never mature.
func (a *Account) CheckMaturity() (matured bool, interest decimal.Decimal, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.retired {
		return false, decimal.Zero, fmt.Errorf("%w: %s", ErrNotFound, a.number)
	}
	if a.variant != VariantFixedDeposit || a.matured {
		return false, decimal.Zero, nil
	}

	now := a.clock.Now()
	if !now.After(a.maturityDate) {
		return false, decimal.Zero, nil
	}

	a.matured = true
	return true, a.creditInterestLocked(now), nil
}

// Close deactivates the account; balance and history are kept
func (a *Account) Close() error {
	return a.setActive(false)
}

// Reactivate re-opens a closed account
func (a *Account) Reactivate() error {
	return a.setActive(true)
}

// SetOverdraftLimit changes the overdraft allowance of a current account.
// A limit that would leave the current balance below the new floor is rejected.
func (a *Account) SetOverdraftLimit(limit decimal.Decimal) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.retired {
		return fmt.Errorf("%w: %s", ErrNotFound, a.number)
	}
	if a.variant != VariantCurrent {
		return fmt.Errorf("%w: overdraft applies to current accounts only", ErrValidation)
	}
	if limit.IsNegative() {
		return fmt.Errorf("%w: overdraft limit cannot be negative", ErrValidation)
	}
	if a.balance.LessThan(limit.Neg()) {
		return fmt.Errorf("%w: balance %s is below the new overdraft floor %s",
			ErrValidation, a.balance.StringFixed(2), limit.Neg().StringFixed(2))
	}

	a.overdraftLimit = limit
	return nil
}

// Retire marks the account as deleted. It fails unless the balance is exactly zero.
// Operations on a retired account fail with ErrNotFound. Only the registry calls this,
// while holding the store's write lock.
func (a *Account) Retire() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.retired {
		return fmt.Errorf("%w: %s", ErrNotFound, a.number)
	}
	if !a.balance.IsZero() {
		return fmt.Errorf("%w: balance is %s", ErrNonZeroBalance, a.balance.StringFixed(2))
	}

	a.retired = true
	return nil
}

func (a *Account) setActive(active bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.retired {
		return fmt.Errorf("%w: %s", ErrNotFound, a.number)
	}
	a.active = active
	return nil
}

// checkDebitLocked applies the withdraw rules in order:
// maturity lock (fixed deposit), active flag, amount sign, minimum balance.
func (a *Account) checkDebitLocked(amount decimal.Decimal, now time.Time) error {
	if a.retired {
		return fmt.Errorf("%w: %s", ErrNotFound, a.number)
	}
	if a.variant == VariantFixedDeposit && !a.matured && now.Before(a.maturityDate) {
		return fmt.Errorf("%w: maturity date is %s", ErrMaturityLocked, a.maturityDate.Format("2006-01-02"))
	}
	if !a.active {
		return fmt.Errorf("%w: %s", ErrInactive, a.number)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount %s", ErrInvalidAmount, amount.String())
	}

	minimum := a.minimumBalanceLocked()
	if a.balance.Sub(amount).LessThan(minimum) {
		return fmt.Errorf("%w: minimum balance is %s", ErrInsufficientFunds, minimum.StringFixed(2))
	}
	return nil
}

func (a *Account) minimumBalanceLocked() decimal.Decimal {
	switch a.variant {
	case VariantSavings:
		return SavingsMinimumBalance
	case VariantCurrent:
		return a.overdraftLimit.Neg()
	case VariantFixedDeposit:
		return FixedDepositMinimumBalance
	default:
		return decimal.Zero
	}
}

// creditInterestLocked credits interest rounded to cents; nothing is recorded when it is not positive
func (a *Account) creditInterestLocked(now time.Time) decimal.Decimal {
	interest := a.balance.Mul(a.InterestRate()).Div(hundred).Round(2)
	if !interest.IsPositive() {
		return decimal.Zero
	}

	a.balance = a.balance.Add(interest)
	a.appendLocked(KindInterest, interest, "Interest credit", "", now)
	return interest
}

func (a *Account) appendLocked(kind TransactionKind, amount decimal.Decimal, description, counterparty string, now time.Time) {
	a.log = append(a.log, TransactionRecord{
		ID:           a.ids.NewID(),
		Kind:         kind,
		Amount:       amount,
		Description:  description,
		Timestamp:    now,
		Counterparty: counterparty,
		BalanceAfter: a.balance,
	})
}
