package accrual

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/simaogato/ledger-backend/internal/domain"
	"github.com/simaogato/ledger-backend/internal/metrics"
	"github.com/simaogato/ledger-backend/internal/pkg/logging"
)

// DefaultConcurrency bounds how many accounts are processed at once
const DefaultConcurrency = 8

// Result summarizes one accrual run
type Result struct {
	AccountsCredited int
	AccountsMatured  int
	TotalInterest    decimal.Decimal
}

// AccrualService credits interest and matures fixed deposits across the whole ledger
type AccrualService struct {
	AccountRepo domain.AccountRepository
	Metrics     metrics.Collector
	Logger      *zap.Logger
	Concurrency int

	runs singleflight.Group
}

// NewAccrualService creates a new AccrualService instance
func NewAccrualService(accountRepo domain.AccountRepository, collector metrics.Collector, logger *zap.Logger, concurrency int) *AccrualService {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &AccrualService{
		AccountRepo: accountRepo,
		Metrics:     metrics.OrNoOp(collector),
		Logger:      logging.OrNop(logger).Named("accrual"),
		Concurrency: concurrency,
	}
}

// ApplyInterest credits interest on every active savings and current account and
// runs the maturity check on every fixed deposit.
// Concurrent calls share a single run.
func (s *AccrualService) ApplyInterest(ctx context.Context) (*Result, error) {
	return s.run(ctx, "apply_interest", true)
}

// SweepMaturity runs the maturity check on every fixed deposit
func (s *AccrualService) SweepMaturity(ctx context.Context) (*Result, error) {
	return s.run(ctx, "sweep_maturity", false)
}

func (s *AccrualService) run(ctx context.Context, operation string, credit bool) (*Result, error) {
	start := time.Now()

	v, err, shared := s.runs.Do(operation, func() (interface{}, error) {
		return s.accrue(ctx, credit)
	})
	if shared {
		s.Logger.Debug("joined running accrual", zap.String("operation", operation))
	}
	s.Metrics.RecordOperation(operation, domain.ClassifyError(err), time.Since(start))
	if err != nil {
		s.Logger.Warn("accrual failed", zap.String("operation", operation), zap.Error(err))
		return nil, err
	}

	result := v.(*Result)
	s.Logger.Info("accrual finished",
		zap.String("operation", operation),
		zap.Int("credited", result.AccountsCredited),
		zap.Int("matured", result.AccountsMatured),
		zap.String("interest", result.TotalInterest.StringFixed(2)),
		zap.Duration("duration", time.Since(start)))
	return result, nil
}

// accrue fans out over one snapshot of the store
// Logic:
//  1. Snapshot the accounts
//  2. Process each account under its own lock, at most Concurrency at a time
//  3. Accounts deleted after the snapshot are skipped
func (s *AccrualService) accrue(ctx context.Context, credit bool) (*Result, error) {
	// 1. Snapshot
	accounts, err := s.AccountRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	var (
		mu     sync.Mutex
		result = &Result{TotalInterest: decimal.Zero}
	)

	// 2. Fan out
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Concurrency)
	for _, account := range accounts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			matured, interest, err := s.accrueAccount(account, credit)
			if err != nil {
				// 3. Deleted since the snapshot
				if errors.Is(err, domain.ErrNotFound) {
					return nil
				}
				return fmt.Errorf("failed to accrue %s: %w", account.Number(), err)
			}

			if interest.IsPositive() {
				s.Metrics.RecordInterest(string(account.Variant()), interest.InexactFloat64())
			}

			mu.Lock()
			defer mu.Unlock()
			if matured {
				result.AccountsMatured++
			} else if interest.IsPositive() {
				result.AccountsCredited++
			}
			result.TotalInterest = result.TotalInterest.Add(interest)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *AccrualService) accrueAccount(account *domain.Account, credit bool) (bool, decimal.Decimal, error) {
	if account.Variant() == domain.VariantFixedDeposit {
		return account.CheckMaturity()
	}
	if !credit || !account.IsActive() {
		return false, decimal.Zero, nil
	}

	interest, _, err := account.CalculateInterest()
	return false, interest, err
}
