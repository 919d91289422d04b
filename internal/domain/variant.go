package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Variant represents the type of account in the system
type Variant string

const (
	VariantSavings      Variant = "SAVINGS"
	VariantCurrent      Variant = "CURRENT"
	VariantFixedDeposit Variant = "FIXED_DEPOSIT"
)

// Variants lists every supported variant in display order
var Variants = []Variant{VariantSavings, VariantCurrent, VariantFixedDeposit}

var (
	SavingsInterestRate        = decimal.RequireFromString("4.5")
	SavingsMinimumBalance      = decimal.NewFromInt(1000)
	FixedDepositMinimumBalance = decimal.NewFromInt(10000)
)

// VariantParams carries the variant-specific opening parameters
type VariantParams struct {
	OverdraftLimit decimal.Decimal // CURRENT only
	TenureMonths   int             // FIXED_DEPOSIT only
}

// ParseVariant converts user input ("savings", "SAV", "fixed_deposit", "FD", ...) into a Variant
func ParseVariant(s string) (Variant, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SAVINGS", "SAV":
		return VariantSavings, nil
	case "CURRENT", "CUR":
		return VariantCurrent, nil
	case "FIXED_DEPOSIT", "FIXEDDEPOSIT", "FD":
		return VariantFixedDeposit, nil
	default:
		return "", fmt.Errorf("%w: unknown account variant %q", ErrValidation, s)
	}
}

// Validate ensures the variant is one of the supported variants
func (v Variant) Validate() error {
	switch v {
	case VariantSavings, VariantCurrent, VariantFixedDeposit:
		return nil
	default:
		return fmt.Errorf("%w: unknown account variant %q", ErrValidation, string(v))
	}
}

// Prefix returns the account number prefix minted for this variant
func (v Variant) Prefix() string {
	switch v {
	case VariantSavings:
		return "SAV"
	case VariantCurrent:
		return "CUR"
	case VariantFixedDeposit:
		return "FD"
	default:
		return ""
	}
}

// DisplayName returns the human readable variant name
func (v Variant) DisplayName() string {
	switch v {
	case VariantSavings:
		return "Savings Account"
	case VariantCurrent:
		return "Current Account"
	case VariantFixedDeposit:
		return "Fixed Deposit Account"
	default:
		return "Unknown Account"
	}
}

// FixedDepositRate returns the tiered fixed deposit rate for a tenure
func FixedDepositRate(tenureMonths int) decimal.Decimal {
	switch {
	case tenureMonths <= 6:
		return decimal.RequireFromString("6.0")
	case tenureMonths <= 12:
		return decimal.RequireFromString("6.5")
	case tenureMonths <= 24:
		return decimal.RequireFromString("7.0")
	default:
		return decimal.RequireFromString("7.5")
	}
}

// ValidateOpening checks the inputs for a new account before a number is minted.
// Logic:
//  1. Variant must be known and the holder name non-blank
//  2. Initial deposit must be non-negative
//  3. CURRENT: overdraft limit must be non-negative
//  4. FIXED_DEPOSIT: tenure >= 1 month and deposit >= the 10000 floor
func ValidateOpening(variant Variant, holderName string, initialDeposit decimal.Decimal, params VariantParams) error {
	if err := variant.Validate(); err != nil {
		return err
	}

	if strings.TrimSpace(holderName) == "" {
		return fmt.Errorf("%w: holder name cannot be empty", ErrValidation)
	}

	if initialDeposit.IsNegative() {
		return fmt.Errorf("%w: initial balance cannot be negative", ErrValidation)
	}

	switch variant {
	case VariantCurrent:
		if params.OverdraftLimit.IsNegative() {
			return fmt.Errorf("%w: overdraft limit cannot be negative", ErrValidation)
		}
	case VariantFixedDeposit:
		if params.TenureMonths < 1 {
			return fmt.Errorf("%w: tenure must be at least 1 month", ErrValidation)
		}
		if initialDeposit.LessThan(FixedDepositMinimumBalance) {
			return fmt.Errorf("%w: minimum fixed deposit amount is %s",
				ErrValidation, FixedDepositMinimumBalance.StringFixed(2))
		}
	}

	return nil
}
