package seeder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/ledger-backend/internal/domain"
	"github.com/simaogato/ledger-backend/internal/usecase/registry"
)

// MockAccountCreator is a mock implementation of AccountCreator
type MockAccountCreator struct {
	mock.Mock
}

func (m *MockAccountCreator) CreateAccount(ctx context.Context, input registry.CreateAccountInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

const seedYAML = `accounts:
  - variant: savings
    holder: Asha Rao
    initial_deposit: "1500.00"
  - variant: CUR
    holder: Ben Ortiz
    initial_deposit: 0
    overdraft_limit: 500
  - variant: fd
    holder: Chen Wei
    initial_deposit: "25000"
    tenure_months: 12
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestAccountSeeder_SeedFromFile(t *testing.T) {
	ctx := context.Background()
	mockCreator := new(MockAccountCreator)
	seeder := NewAccountSeeder(mockCreator, nil)

	mockCreator.On("CreateAccount", ctx, mock.MatchedBy(func(input registry.CreateAccountInput) bool {
		return input.Variant == domain.VariantSavings &&
			input.HolderName == "Asha Rao" &&
			input.InitialDeposit.Equal(decimal.NewFromInt(1500))
	})).Return("SAV1001", nil).Once()
	mockCreator.On("CreateAccount", ctx, mock.MatchedBy(func(input registry.CreateAccountInput) bool {
		return input.Variant == domain.VariantCurrent &&
			input.InitialDeposit.IsZero() &&
			input.OverdraftLimit.Equal(decimal.NewFromInt(500))
	})).Return("CUR1002", nil).Once()
	mockCreator.On("CreateAccount", ctx, mock.MatchedBy(func(input registry.CreateAccountInput) bool {
		return input.Variant == domain.VariantFixedDeposit && input.TenureMonths == 12
	})).Return("FD1003", nil).Once()

	numbers, err := seeder.SeedFromFile(ctx, writeSeed(t, seedYAML))

	assert.NoError(t, err)
	assert.Equal(t, []string{"SAV1001", "CUR1002", "FD1003"}, numbers)
	mockCreator.AssertExpectations(t)
}

func TestAccountSeeder_EmptyPath(t *testing.T) {
	mockCreator := new(MockAccountCreator)
	seeder := NewAccountSeeder(mockCreator, nil)

	numbers, err := seeder.SeedFromFile(context.Background(), "")

	assert.NoError(t, err)
	assert.Nil(t, numbers)
	mockCreator.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
}

func TestAccountSeeder_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
		path    string
		wantErr string
	}{
		{name: "missing file", path: filepath.Join(t.TempDir(), "absent.yaml"), wantErr: "failed to read seed file"},
		{name: "malformed yaml", content: "accounts: [", wantErr: "failed to parse YAML"},
		{name: "unknown variant", content: "accounts:\n  - variant: gold\n    holder: X\n", wantErr: "seed entry 0"},
		{name: "bad amount", content: "accounts:\n  - variant: savings\n    holder: X\n    initial_deposit: lots\n", wantErr: "invalid initial_deposit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCreator := new(MockAccountCreator)
			seeder := NewAccountSeeder(mockCreator, nil)

			path := tt.path
			if path == "" {
				path = writeSeed(t, tt.content)
			}

			_, err := seeder.SeedFromFile(ctx, path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			mockCreator.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
		})
	}
}

func TestAccountSeeder_CreateFailureStops(t *testing.T) {
	ctx := context.Background()
	mockCreator := new(MockAccountCreator)
	seeder := NewAccountSeeder(mockCreator, nil)

	accounts := []SeedAccount{
		{Variant: "savings", Holder: "A", InitialDeposit: "2000"},
		{Variant: "fd", Holder: "B", InitialDeposit: "500", TenureMonths: 6},
		{Variant: "current", Holder: "C"},
	}

	mockCreator.On("CreateAccount", ctx, mock.MatchedBy(func(input registry.CreateAccountInput) bool {
		return input.HolderName == "A"
	})).Return("SAV1001", nil).Once()
	mockCreator.On("CreateAccount", ctx, mock.MatchedBy(func(input registry.CreateAccountInput) bool {
		return input.HolderName == "B"
	})).Return("", errors.Join(domain.ErrValidation, errors.New("below minimum"))).Once()

	numbers, err := seeder.Seed(ctx, accounts)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "seed entry 1")
	assert.Equal(t, []string{"SAV1001"}, numbers)
	mockCreator.AssertExpectations(t)
}
