package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/ledger-backend/internal/domain"
)

// BankReport represents the aggregate state of the ledger
type BankReport struct {
	TotalAccounts   int
	ActiveAccounts  int
	TotalBalance    decimal.Decimal
	CountsByVariant map[domain.Variant]int
}

// ReportService handles ledger-wide aggregation
type ReportService struct {
	AccountRepo domain.AccountRepository
}

// NewReportService creates a new ReportService instance
func NewReportService(accountRepo domain.AccountRepository) *ReportService {
	return &ReportService{AccountRepo: accountRepo}
}

// GetReport aggregates every account
// Logic:
//   - Accounts: one snapshot of the store (accounts opened afterwards are not counted)
//   - TotalBalance: sum of balances, each read under its account lock
//   - CountsByVariant: every variant present, zero when no account of it exists
func (s *ReportService) GetReport(ctx context.Context) (*BankReport, error) {
	// 1. Snapshot the store
	accounts, err := s.AccountRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	report := &BankReport{
		TotalAccounts:   len(accounts),
		TotalBalance:    decimal.Zero,
		CountsByVariant: make(map[domain.Variant]int, len(domain.Variants)),
	}
	for _, variant := range domain.Variants {
		report.CountsByVariant[variant] = 0
	}

	// 2. Aggregate
	for _, account := range accounts {
		summary := account.Summary()
		if summary.Active {
			report.ActiveAccounts++
		}
		report.TotalBalance = report.TotalBalance.Add(summary.Balance)
		report.CountsByVariant[summary.Variant]++
	}

	return report, nil
}
