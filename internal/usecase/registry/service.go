package registry

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/ledger-backend/internal/domain"
	"github.com/simaogato/ledger-backend/internal/metrics"
	"github.com/simaogato/ledger-backend/internal/pkg/logging"
)

// firstAccountSequence is the counter value before the first minted number (SAV1001, CUR1001, ...)
const firstAccountSequence = 1000

// CreateAccountInput represents the input for opening an account
type CreateAccountInput struct {
	Variant        domain.Variant
	HolderName     string
	InitialDeposit decimal.Decimal
	OverdraftLimit decimal.Decimal // CURRENT only
	TenureMonths   int             // FIXED_DEPOSIT only
}

// RegistryService owns the set of accounts: it mints numbers, opens, looks up and deletes accounts
type RegistryService struct {
	AccountRepo domain.AccountRepository
	Metrics     metrics.Collector
	Logger      *zap.Logger

	accountOpts []domain.Option
	sequence    atomic.Int64
}

// NewRegistryService creates a new RegistryService instance.
// opts are applied to every account it opens (clock, id generator).
func NewRegistryService(accountRepo domain.AccountRepository, collector metrics.Collector, logger *zap.Logger, opts ...domain.Option) *RegistryService {
	s := &RegistryService{
		AccountRepo: accountRepo,
		Metrics:     metrics.OrNoOp(collector),
		Logger:      logging.OrNop(logger).Named("registry"),
		accountOpts: opts,
	}
	s.sequence.Store(firstAccountSequence)
	return s
}

// CreateAccount opens an account and returns its number
// Logic:
//  1. Validate the opening inputs (nothing is minted for invalid input)
//  2. Mint "<PREFIX><counter>" with an atomic increment
//  3. Construct the account (records the initial deposit when positive)
//  4. Insert into the store
func (s *RegistryService) CreateAccount(ctx context.Context, input CreateAccountInput) (string, error) {
	start := time.Now()
	number, err := s.createAccount(ctx, input)
	s.Metrics.RecordOperation("create_account", domain.ClassifyError(err), time.Since(start))
	if err != nil {
		s.Logger.Debug("create account rejected",
			zap.String("variant", string(input.Variant)),
			zap.Error(err))
		return "", err
	}

	s.Metrics.RecordAccountDelta(string(input.Variant), 1)
	s.Logger.Info("account created",
		zap.String("account", number),
		zap.String("variant", string(input.Variant)),
		zap.String("initial_deposit", input.InitialDeposit.StringFixed(2)))
	return number, nil
}

func (s *RegistryService) createAccount(ctx context.Context, input CreateAccountInput) (string, error) {
	params := domain.VariantParams{
		OverdraftLimit: input.OverdraftLimit,
		TenureMonths:   input.TenureMonths,
	}

	// 1. Validate before minting
	if err := domain.ValidateOpening(input.Variant, input.HolderName, input.InitialDeposit, params); err != nil {
		return "", err
	}

	// 2. Mint a number
	number := s.mintNumber(input.Variant)

	// 3. Construct
	account, err := domain.NewAccount(number, input.Variant, input.HolderName, input.InitialDeposit, params, s.accountOpts...)
	if err != nil {
		return "", err
	}

	// 4. Insert
	if err := s.AccountRepo.Insert(ctx, account); err != nil {
		return "", fmt.Errorf("failed to register account %s: %w", number, err)
	}

	return number, nil
}

// GetAccount returns the account with the given number, or ErrNotFound
func (s *RegistryService) GetAccount(ctx context.Context, number string) (*domain.Account, error) {
	return s.AccountRepo.GetByNumber(ctx, number)
}

// DeleteAccount removes an account whose balance is exactly zero.
// The account is retired under its own lock while the store is locked, so a concurrent
// deposit either lands before the check (and blocks the delete) or fails with ErrNotFound.
func (s *RegistryService) DeleteAccount(ctx context.Context, number string) error {
	start := time.Now()

	var variant domain.Variant
	err := s.AccountRepo.Delete(ctx, number, func(account *domain.Account) error {
		variant = account.Variant()
		return account.Retire()
	})
	s.Metrics.RecordOperation("delete_account", domain.ClassifyError(err), time.Since(start))
	if err != nil {
		s.Logger.Debug("delete account rejected", zap.String("account", number), zap.Error(err))
		return err
	}

	s.Metrics.RecordAccountDelta(string(variant), -1)
	s.Logger.Info("account deleted", zap.String("account", number))
	return nil
}

// ListAccounts returns a summary of every account, sorted by account number
func (s *RegistryService) ListAccounts(ctx context.Context) ([]domain.AccountSummary, error) {
	accounts, err := s.AccountRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	summaries := make([]domain.AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		summaries = append(summaries, account.Summary())
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Number < summaries[j].Number
	})

	return summaries, nil
}

func (s *RegistryService) mintNumber(variant domain.Variant) string {
	return fmt.Sprintf("%s%d", variant.Prefix(), s.sequence.Add(1))
}
