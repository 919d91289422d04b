package seeder

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/simaogato/ledger-backend/internal/domain"
	"github.com/simaogato/ledger-backend/internal/pkg/logging"
	"github.com/simaogato/ledger-backend/internal/usecase/registry"
)

// SeedAccount is one account entry of a seed file
type SeedAccount struct {
	Variant        string `yaml:"variant"`
	Holder         string `yaml:"holder"`
	InitialDeposit string `yaml:"initial_deposit"`
	OverdraftLimit string `yaml:"overdraft_limit"`
	TenureMonths   int    `yaml:"tenure_months"`
}

// SeedFile is the layout of a seed file
type SeedFile struct {
	Accounts []SeedAccount `yaml:"accounts"`
}

// AccountCreator opens accounts; satisfied by *registry.RegistryService
type AccountCreator interface {
	CreateAccount(ctx context.Context, input registry.CreateAccountInput) (string, error)
}

// AccountSeeder opens the accounts listed in a seed file at startup
type AccountSeeder struct {
	creator AccountCreator
	logger  *zap.Logger
}

// NewAccountSeeder creates a new AccountSeeder instance
func NewAccountSeeder(creator AccountCreator, logger *zap.Logger) *AccountSeeder {
	return &AccountSeeder{
		creator: creator,
		logger:  logging.OrNop(logger).Named("seeder"),
	}
}

// LoadFile reads and parses a seed file
func LoadFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var file SeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &file, nil
}

// SeedFromFile opens every account listed in the file at path.
// An empty path seeds nothing.
func (s *AccountSeeder) SeedFromFile(ctx context.Context, path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	file, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return s.Seed(ctx, file.Accounts)
}

// Seed opens the given accounts in order and returns their numbers.
// The first invalid entry stops seeding; accounts opened before it are kept.
func (s *AccountSeeder) Seed(ctx context.Context, accounts []SeedAccount) ([]string, error) {
	numbers := make([]string, 0, len(accounts))

	for i, entry := range accounts {
		input, err := entry.toInput()
		if err != nil {
			return numbers, fmt.Errorf("seed entry %d: %w", i, err)
		}

		number, err := s.creator.CreateAccount(ctx, input)
		if err != nil {
			return numbers, fmt.Errorf("seed entry %d: %w", i, err)
		}
		numbers = append(numbers, number)
	}

	s.logger.Info("accounts seeded", zap.Int("count", len(numbers)))
	return numbers, nil
}

func (e SeedAccount) toInput() (registry.CreateAccountInput, error) {
	variant, err := domain.ParseVariant(e.Variant)
	if err != nil {
		return registry.CreateAccountInput{}, err
	}

	initial, err := parseAmount("initial_deposit", e.InitialDeposit)
	if err != nil {
		return registry.CreateAccountInput{}, err
	}
	overdraft, err := parseAmount("overdraft_limit", e.OverdraftLimit)
	if err != nil {
		return registry.CreateAccountInput{}, err
	}

	return registry.CreateAccountInput{
		Variant:        variant,
		HolderName:     e.Holder,
		InitialDeposit: initial,
		OverdraftLimit: overdraft,
		TenureMonths:   e.TenureMonths,
	}, nil
}

// parseAmount treats a blank value as zero
func parseAmount(field, value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid %s %q", domain.ErrValidation, field, value)
	}
	return amount, nil
}
