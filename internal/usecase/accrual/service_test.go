package accrual

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/ledger-backend/internal/adapter/repository/memory"
	"github.com/simaogato/ledger-backend/internal/domain"
	metricsmemory "github.com/simaogato/ledger-backend/internal/metrics/memory"
)

var opened = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

// MockAccountRepository is a mock implementation of AccountRepository for testing
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Insert(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) Delete(ctx context.Context, number string, guard func(*domain.Account) error) error {
	args := m.Called(ctx, number, guard)
	return args.Error(0)
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

type seeded struct {
	repo  domain.AccountRepository
	clock *domain.FixedClock
	byNum map[string]*domain.Account
}

func seed(t *testing.T) *seeded {
	t.Helper()

	ctx := context.Background()
	clock := domain.NewFixedClock(opened)
	s := &seeded{repo: memory.NewAccountRepository(), clock: clock, byNum: make(map[string]*domain.Account)}

	add := func(number string, variant domain.Variant, deposit string, params domain.VariantParams) {
		account, err := domain.NewAccount(number, variant, "Holder", decimal.RequireFromString(deposit), params, domain.WithClock(clock))
		require.NoError(t, err)
		require.NoError(t, s.repo.Insert(ctx, account))
		s.byNum[number] = account
	}

	add("SAV1001", domain.VariantSavings, "2000", domain.VariantParams{})
	add("SAV1002", domain.VariantSavings, "1000", domain.VariantParams{})
	add("CUR1003", domain.VariantCurrent, "500", domain.VariantParams{})
	add("FD1004", domain.VariantFixedDeposit, "10000", domain.VariantParams{TenureMonths: 12})
	return s
}

func TestApplyInterest(t *testing.T) {
	ctx := context.Background()
	s := seed(t)
	require.NoError(t, s.byNum["SAV1002"].Close())

	collector := metricsmemory.NewCollector()
	service := NewAccrualService(s.repo, collector, nil, 2)

	result, err := service.ApplyInterest(ctx)

	require.NoError(t, err)
	// SAV1001: 2000 * 4.5% = 90; SAV1002 is closed; current accounts earn nothing; FD not matured
	assert.Equal(t, 1, result.AccountsCredited)
	assert.Equal(t, 0, result.AccountsMatured)
	assert.Equal(t, "90.00", result.TotalInterest.StringFixed(2))
	assert.Equal(t, "2090.00", s.byNum["SAV1001"].Balance().StringFixed(2))
	assert.Equal(t, "1000.00", s.byNum["SAV1002"].Balance().StringFixed(2))
	assert.Equal(t, 1, collector.Operations("apply_interest", "ok"))
	assert.Equal(t, 90.0, collector.Interest(string(domain.VariantSavings)))
}

func TestApplyInterest_MaturesFixedDeposits(t *testing.T) {
	ctx := context.Background()
	s := seed(t)
	s.clock.Set(opened.AddDate(1, 0, 1))

	service := NewAccrualService(s.repo, nil, nil, 0)

	result, err := service.ApplyInterest(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, result.AccountsMatured)
	assert.Equal(t, 2, result.AccountsCredited)
	// 90 + 45 savings, 650 fixed deposit (10000 * 6.5%)
	assert.Equal(t, "785.00", result.TotalInterest.StringFixed(2))
	assert.True(t, s.byNum["FD1004"].IsMatured())
}

func TestSweepMaturity(t *testing.T) {
	ctx := context.Background()
	s := seed(t)
	service := NewAccrualService(s.repo, nil, nil, 4)

	t.Run("before maturity", func(t *testing.T) {
		result, err := service.SweepMaturity(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, result.AccountsMatured)
		assert.True(t, result.TotalInterest.IsZero())
	})

	t.Run("after maturity", func(t *testing.T) {
		s.clock.Set(opened.AddDate(1, 0, 0).Add(time.Minute))

		result, err := service.SweepMaturity(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.AccountsMatured)
		assert.Equal(t, 0, result.AccountsCredited)
		assert.Equal(t, "2000.00", s.byNum["SAV1001"].Balance().StringFixed(2), "savings are not credited by a sweep")
	})

	t.Run("matures once", func(t *testing.T) {
		result, err := service.SweepMaturity(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, result.AccountsMatured)
	})
}

func TestApplyInterest_ConcurrentCallsLeaveConsistentBalances(t *testing.T) {
	ctx := context.Background()
	s := seed(t)
	service := NewAccrualService(s.repo, nil, nil, 4)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total = decimal.Zero
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := service.ApplyInterest(ctx)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			total = total.Add(result.TotalInterest)
			mu.Unlock()
		}()
	}
	wg.Wait()

	// Every credit shows up in the history, whether calls shared a run or not
	account := s.byNum["SAV1001"]
	credited := decimal.Zero
	for _, record := range account.History() {
		if record.Kind == domain.KindInterest {
			credited = credited.Add(record.Amount)
		}
	}
	assert.Equal(t, account.Balance().StringFixed(2), decimal.NewFromInt(2000).Add(credited).StringFixed(2))
	assert.True(t, total.GreaterThanOrEqual(credited))
}

func TestApplyInterest_SkipsDeletedAccounts(t *testing.T) {
	ctx := context.Background()
	account, err := domain.NewAccount("CUR2001", domain.VariantCurrent, "Gone", decimal.Zero, domain.VariantParams{})
	require.NoError(t, err)
	require.NoError(t, account.Retire())

	mockRepo := new(MockAccountRepository)
	mockRepo.On("List", ctx).Return([]*domain.Account{account}, nil)

	service := NewAccrualService(mockRepo, nil, nil, 1)
	result, err := service.ApplyInterest(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, result.AccountsCredited)
	mockRepo.AssertExpectations(t)
}

func TestApplyInterest_ListError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAccountRepository)
	mockRepo.On("List", ctx).Return(nil, errors.New("store unavailable"))

	collector := metricsmemory.NewCollector()
	service := NewAccrualService(mockRepo, collector, nil, 1)
	result, err := service.ApplyInterest(ctx)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 1, collector.Operations("apply_interest", "internal"))
}

func TestApplyInterest_CancelledContext(t *testing.T) {
	s := seed(t)
	service := NewAccrualService(s.repo, nil, nil, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.ApplyInterest(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
