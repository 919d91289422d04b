package report

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/ledger-backend/internal/domain"
)

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

func newAccount(t *testing.T, number string, variant domain.Variant, deposit string, params domain.VariantParams) *domain.Account {
	t.Helper()
	account, err := domain.NewAccount(number, variant, "Holder "+number, decimal.RequireFromString(deposit), params)
	require.NoError(t, err)
	return account
}

func TestGetReport(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAccountRepository)
	service := NewReportService(mockRepo)

	// Setup: one of each variant, plus a closed savings account
	savings := newAccount(t, "SAV1001", domain.VariantSavings, "1500.25", domain.VariantParams{})
	closed := newAccount(t, "SAV1002", domain.VariantSavings, "2000", domain.VariantParams{})
	current := newAccount(t, "CUR1003", domain.VariantCurrent, "0", domain.VariantParams{OverdraftLimit: decimal.NewFromInt(200)})
	fixed := newAccount(t, "FD1004", domain.VariantFixedDeposit, "10000", domain.VariantParams{TenureMonths: 12})
	require.NoError(t, closed.Close())

	mockRepo.On("List", ctx).Return([]*domain.Account{savings, closed, current, fixed}, nil)

	// Execute
	result, err := service.GetReport(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalAccounts)
	assert.Equal(t, 3, result.ActiveAccounts)
	assert.Equal(t, "13500.25", result.TotalBalance.StringFixed(2))
	assert.Equal(t, map[domain.Variant]int{
		domain.VariantSavings:      2,
		domain.VariantCurrent:      1,
		domain.VariantFixedDeposit: 1,
	}, result.CountsByVariant)

	mockRepo.AssertExpectations(t)
}

func TestGetReport_Empty(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAccountRepository)
	service := NewReportService(mockRepo)

	mockRepo.On("List", ctx).Return([]*domain.Account{}, nil)

	result, err := service.GetReport(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalAccounts)
	assert.True(t, result.TotalBalance.IsZero())
	assert.Len(t, result.CountsByVariant, 3)
}

func TestGetReport_ListError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAccountRepository)
	service := NewReportService(mockRepo)

	mockRepo.On("List", ctx).Return(nil, errors.New("store unavailable"))

	result, err := service.GetReport(ctx)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "failed to list accounts")
}
