package teller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/ledger-backend/internal/domain"
	"github.com/simaogato/ledger-backend/internal/metrics"
	"github.com/simaogato/ledger-backend/internal/pkg/logging"
)

// TransferInput represents the input for moving money between two accounts
type TransferInput struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// TellerService runs money operations on accounts addressed by number
type TellerService struct {
	AccountRepo domain.AccountRepository
	Metrics     metrics.Collector
	Logger      *zap.Logger
}

// NewTellerService creates a new TellerService instance
func NewTellerService(accountRepo domain.AccountRepository, collector metrics.Collector, logger *zap.Logger) *TellerService {
	return &TellerService{
		AccountRepo: accountRepo,
		Metrics:     metrics.OrNoOp(collector),
		Logger:      logging.OrNop(logger).Named("teller"),
	}
}

// Deposit credits amount to the account and returns the new balance
func (s *TellerService) Deposit(ctx context.Context, number string, amount decimal.Decimal) (decimal.Decimal, error) {
	start := time.Now()

	balance, err := s.withAccount(ctx, number, func(account *domain.Account) (decimal.Decimal, error) {
		return account.Deposit(amount)
	})
	s.observe("deposit", number, start, err)
	if err != nil {
		return decimal.Zero, err
	}

	s.Logger.Info("deposit applied",
		zap.String("account", number),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("balance", balance.StringFixed(2)))
	return balance, nil
}

// Withdraw debits amount from the account and returns the new balance
func (s *TellerService) Withdraw(ctx context.Context, number string, amount decimal.Decimal) (decimal.Decimal, error) {
	start := time.Now()

	balance, err := s.withAccount(ctx, number, func(account *domain.Account) (decimal.Decimal, error) {
		return account.Withdraw(amount)
	})
	s.observe("withdraw", number, start, err)
	if err != nil {
		return decimal.Zero, err
	}

	s.Logger.Info("withdrawal applied",
		zap.String("account", number),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("balance", balance.StringFixed(2)))
	return balance, nil
}

// Transfer moves money between two accounts atomically
// Logic:
//  1. Reject source == destination before any lookup
//  2. Resolve the source (NotFound) and the destination (DestinationNotFound)
//  3. Debit and credit under both account locks
func (s *TellerService) Transfer(ctx context.Context, input TransferInput) error {
	start := time.Now()
	err := s.transfer(ctx, input)
	s.observe("transfer", input.From, start, err)
	if err != nil {
		return err
	}

	s.Logger.Info("transfer applied",
		zap.String("from", input.From),
		zap.String("to", input.To),
		zap.String("amount", input.Amount.StringFixed(2)))
	return nil
}

func (s *TellerService) transfer(ctx context.Context, input TransferInput) error {
	// 1. Same account
	if input.From == input.To {
		return fmt.Errorf("%w: %s", domain.ErrSameAccount, input.From)
	}

	// 2. Resolve both ends
	source, err := s.AccountRepo.GetByNumber(ctx, input.From)
	if err != nil {
		return err
	}
	target, err := s.AccountRepo.GetByNumber(ctx, input.To)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: %s", domain.ErrDestinationNotFound, input.To)
		}
		return err
	}

	// 3. Move the money
	return source.TransferTo(target, input.Amount)
}

// Balance returns the current balance of the account
func (s *TellerService) Balance(ctx context.Context, number string) (decimal.Decimal, error) {
	account, err := s.AccountRepo.GetByNumber(ctx, number)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance(), nil
}

// Details returns a snapshot of the account's metadata and state
func (s *TellerService) Details(ctx context.Context, number string) (*domain.AccountDetails, error) {
	account, err := s.AccountRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	details := account.Details()
	return &details, nil
}

// History returns a copy of the account's transaction log, oldest first
func (s *TellerService) History(ctx context.Context, number string) ([]domain.TransactionRecord, error) {
	account, err := s.AccountRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return account.History(), nil
}

// CalculateInterest credits interest on the account and returns the new balance
func (s *TellerService) CalculateInterest(ctx context.Context, number string) (decimal.Decimal, error) {
	start := time.Now()

	var (
		variant  domain.Variant
		interest decimal.Decimal
	)
	balance, err := s.withAccount(ctx, number, func(account *domain.Account) (decimal.Decimal, error) {
		variant = account.Variant()
		credited, balance, err := account.CalculateInterest()
		interest = credited
		return balance, err
	})
	s.observe("calculate_interest", number, start, err)
	if err != nil {
		return decimal.Zero, err
	}

	s.recordInterest(variant, interest)
	s.Logger.Info("interest calculated",
		zap.String("account", number),
		zap.String("interest", interest.StringFixed(2)),
		zap.String("balance", balance.StringFixed(2)))
	return balance, nil
}

// CheckMaturity matures a fixed deposit whose maturity date has passed.
// It reports whether the account matured during this call.
func (s *TellerService) CheckMaturity(ctx context.Context, number string) (bool, error) {
	start := time.Now()

	account, err := s.AccountRepo.GetByNumber(ctx, number)
	var (
		matured  bool
		interest decimal.Decimal
	)
	if err == nil {
		matured, interest, err = account.CheckMaturity()
	}
	s.observe("check_maturity", number, start, err)
	if err != nil {
		return false, err
	}

	if matured {
		s.recordInterest(account.Variant(), interest)
		s.Logger.Info("fixed deposit matured",
			zap.String("account", number),
			zap.String("interest", interest.StringFixed(2)))
	}
	return matured, nil
}

// CloseAccount deactivates the account; balance and history are kept
func (s *TellerService) CloseAccount(ctx context.Context, number string) error {
	return s.toggle(ctx, "close_account", number, (*domain.Account).Close)
}

// ReactivateAccount re-opens a closed account
func (s *TellerService) ReactivateAccount(ctx context.Context, number string) error {
	return s.toggle(ctx, "reactivate_account", number, (*domain.Account).Reactivate)
}

// SetOverdraftLimit changes the overdraft allowance of a current account
func (s *TellerService) SetOverdraftLimit(ctx context.Context, number string, limit decimal.Decimal) error {
	start := time.Now()

	account, err := s.AccountRepo.GetByNumber(ctx, number)
	if err == nil {
		err = account.SetOverdraftLimit(limit)
	}
	s.observe("set_overdraft_limit", number, start, err)
	if err != nil {
		return err
	}

	s.Logger.Info("overdraft limit changed",
		zap.String("account", number),
		zap.String("limit", limit.StringFixed(2)))
	return nil
}

func (s *TellerService) toggle(ctx context.Context, operation, number string, apply func(*domain.Account) error) error {
	start := time.Now()

	account, err := s.AccountRepo.GetByNumber(ctx, number)
	if err == nil {
		err = apply(account)
	}
	s.observe(operation, number, start, err)
	if err != nil {
		return err
	}

	s.Logger.Info("account status changed",
		zap.String("account", number),
		zap.String("operation", operation))
	return nil
}

func (s *TellerService) withAccount(ctx context.Context, number string, apply func(*domain.Account) (decimal.Decimal, error)) (decimal.Decimal, error) {
	account, err := s.AccountRepo.GetByNumber(ctx, number)
	if err != nil {
		return decimal.Zero, err
	}
	return apply(account)
}

func (s *TellerService) observe(operation, number string, start time.Time, err error) {
	outcome := domain.ClassifyError(err)
	s.Metrics.RecordOperation(operation, outcome, time.Since(start))
	if err != nil {
		s.Logger.Debug("operation rejected",
			zap.String("operation", operation),
			zap.String("account", number),
			zap.String("outcome", outcome),
			zap.Error(err))
	}
}

func (s *TellerService) recordInterest(variant domain.Variant, interest decimal.Decimal) {
	if !interest.IsPositive() {
		return
	}
	s.Metrics.RecordInterest(string(variant), interest.InexactFloat64())
}
