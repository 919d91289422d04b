package grpc

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/ledger-backend/internal/domain"
	"github.com/simaogato/ledger-backend/internal/usecase/registry"
	"github.com/simaogato/ledger-backend/internal/usecase/report"
	"github.com/simaogato/ledger-backend/internal/usecase/teller"
)

// Server implements the LedgerService gRPC server
type Server struct {
	RegistryService *registry.RegistryService
	TellerService   *teller.TellerService
	ReportService   *report.ReportService
}

// NewServer creates a new gRPC server instance
func NewServer(
	registryService *registry.RegistryService,
	tellerService *teller.TellerService,
	reportService *report.ReportService,
) *Server {
	return &Server{
		RegistryService: registryService,
		TellerService:   tellerService,
		ReportService:   reportService,
	}
}

// CreateAccount handles the CreateAccount RPC
func (s *Server) CreateAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	variantName, err := requiredString(req, "variant")
	if err != nil {
		return nil, err
	}
	variant, err := domain.ParseVariant(variantName)
	if err != nil {
		return nil, mapError(err)
	}

	initial, err := optionalAmount(req, "initial_deposit")
	if err != nil {
		return nil, err
	}
	overdraft, err := optionalAmount(req, "overdraft_limit")
	if err != nil {
		return nil, err
	}
	tenure, err := optionalInt(req, "tenure_months")
	if err != nil {
		return nil, err
	}

	// Build input for usecase
	input := registry.CreateAccountInput{
		Variant:        variant,
		HolderName:     stringField(req, "holder_name"),
		InitialDeposit: initial,
		OverdraftLimit: overdraft,
		TenureMonths:   tenure,
	}

	number, err := s.RegistryService.CreateAccount(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}

	return newStruct(map[string]interface{}{"account_number": number})
}

// GetAccount handles the GetAccount RPC
func (s *Server) GetAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	number, err := requiredString(req, "account_number")
	if err != nil {
		return nil, err
	}

	details, err := s.TellerService.Details(ctx, number)
	if err != nil {
		return nil, mapError(err)
	}

	return newStruct(detailsFields(details))
}

// GetBalance handles the GetBalance RPC
func (s *Server) GetBalance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	number, err := requiredString(req, "account_number")
	if err != nil {
		return nil, err
	}

	balance, err := s.TellerService.Balance(ctx, number)
	if err != nil {
		return nil, mapError(err)
	}

	return balanceResponse(number, balance)
}

// GetHistory handles the GetHistory RPC
func (s *Server) GetHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	number, err := requiredString(req, "account_number")
	if err != nil {
		return nil, err
	}

	records, err := s.TellerService.History(ctx, number)
	if err != nil {
		return nil, mapError(err)
	}

	transactions := make([]interface{}, 0, len(records))
	for _, record := range records {
		transactions = append(transactions, recordFields(record))
	}

	return newStruct(map[string]interface{}{
		"account_number": number,
		"transactions":   transactions,
	})
}

// Deposit handles the Deposit RPC
func (s *Server) Deposit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	number, amount, err := numberAndAmount(req)
	if err != nil {
		return nil, err
	}

	balance, err := s.TellerService.Deposit(ctx, number, amount)
	if err != nil {
		return nil, mapError(err)
	}

	return balanceResponse(number, balance)
}

// Withdraw handles the Withdraw RPC
func (s *Server) Withdraw(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	number, amount, err := numberAndAmount(req)
	if err != nil {
		return nil, err
	}

	balance, err := s.TellerService.Withdraw(ctx, number, amount)
	if err != nil {
		return nil, mapError(err)
	}

	return balanceResponse(number, balance)
}

// Transfer handles the Transfer RPC
func (s *Server) Transfer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	from, err := requiredString(req, "from_account")
	if err != nil {
		return nil, err
	}
	to, err := requiredString(req, "to_account")
	if err != nil {
		return nil, err
	}
	amount, err := requiredAmount(req, "amount")
	if err != nil {
		return nil, err
	}

	input := teller.TransferInput{From: from, To: to, Amount: amount}
	if err := s.TellerService.Transfer(ctx, input); err != nil {
		return nil, mapError(err)
	}

	return newStruct(map[string]interface{}{
		"from_account": from,
		"to_account":   to,
		"amount":       money(amount),
	})
}

// CalculateInterest handles the CalculateInterest RPC
func (s *Server) CalculateInterest(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	number, err := requiredString(req, "account_number")
	if err != nil {
		return nil, err
	}

	balance, err := s.TellerService.CalculateInterest(ctx, number)
	if err != nil {
		return nil, mapError(err)
	}

	return balanceResponse(number, balance)
}

// CheckMaturity handles the CheckMaturity RPC
func (s *Server) CheckMaturity(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	number, err := requiredString(req, "account_number")
	if err != nil {
		return nil, err
	}

	matured, err := s.TellerService.CheckMaturity(ctx, number)
	if err != nil {
		return nil, mapError(err)
	}

	return newStruct(map[string]interface{}{
		"account_number": number,
		"matured":        matured,
	})
}

// CloseAccount handles the CloseAccount RPC
func (s *Server) CloseAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	number, err := requiredString(req, "account_number")
	if err != nil {
		return nil, err
	}

	if err := s.TellerService.CloseAccount(ctx, number); err != nil {
		return nil, mapError(err)
	}

	return newStruct(map[string]interface{}{"account_number": number, "active": false})
}

// ReactivateAccount handles the ReactivateAccount RPC
func (s *Server) ReactivateAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	number, err := requiredString(req, "account_number")
	if err != nil {
		return nil, err
	}

	if err := s.TellerService.ReactivateAccount(ctx, number); err != nil {
		return nil, mapError(err)
	}

	return newStruct(map[string]interface{}{"account_number": number, "active": true})
}

// SetOverdraftLimit handles the SetOverdraftLimit RPC
func (s *Server) SetOverdraftLimit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	number, err := requiredString(req, "account_number")
	if err != nil {
		return nil, err
	}
	limit, err := requiredAmount(req, "overdraft_limit")
	if err != nil {
		return nil, err
	}

	if err := s.TellerService.SetOverdraftLimit(ctx, number, limit); err != nil {
		return nil, mapError(err)
	}

	return newStruct(map[string]interface{}{
		"account_number":  number,
		"overdraft_limit": money(limit),
	})
}

// DeleteAccount handles the DeleteAccount RPC
func (s *Server) DeleteAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	number, err := requiredString(req, "account_number")
	if err != nil {
		return nil, err
	}

	if err := s.RegistryService.DeleteAccount(ctx, number); err != nil {
		return nil, mapError(err)
	}

	return newStruct(map[string]interface{}{"account_number": number})
}

// ListAccounts handles the ListAccounts RPC
func (s *Server) ListAccounts(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	summaries, err := s.RegistryService.ListAccounts(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	accounts := make([]interface{}, 0, len(summaries))
	for _, summary := range summaries {
		accounts = append(accounts, summaryFields(summary))
	}

	return newStruct(map[string]interface{}{"accounts": accounts})
}

// Report handles the Report RPC
func (s *Server) Report(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	result, err := s.ReportService.GetReport(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return newStruct(reportFields(result))
}

// mapError maps domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	errorMsg := err.Error()

	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrDestinationNotFound):
		return status.Error(codes.NotFound, errorMsg)
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrSameAccount):
		return status.Error(codes.InvalidArgument, errorMsg)
	case errors.Is(err, domain.ErrInactive),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrMaturityLocked),
		errors.Is(err, domain.ErrNonZeroBalance):
		return status.Error(codes.FailedPrecondition, errorMsg)
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, errorMsg)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, errorMsg)
	}

	// Default to Internal error for unknown errors
	return status.Error(codes.Internal, errorMsg)
}

func numberAndAmount(req *structpb.Struct) (string, decimal.Decimal, error) {
	number, err := requiredString(req, "account_number")
	if err != nil {
		return "", decimal.Zero, err
	}
	amount, err := requiredAmount(req, "amount")
	if err != nil {
		return "", decimal.Zero, err
	}
	return number, amount, nil
}

func balanceResponse(number string, balance decimal.Decimal) (*structpb.Struct, error) {
	return newStruct(map[string]interface{}{
		"account_number": number,
		"balance":        money(balance),
	})
}
