package grpc

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/ledger-backend/internal/domain"
	"github.com/simaogato/ledger-backend/internal/usecase/report"
)

// stringField returns the trimmed text of key; numbers are formatted, anything else is ""
func stringField(req *structpb.Struct, key string) string {
	v, ok := req.GetFields()[key]
	if !ok {
		return ""
	}

	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return strings.TrimSpace(kind.StringValue)
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	default:
		return ""
	}
}

func requiredString(req *structpb.Struct, key string) (string, error) {
	value := stringField(req, key)
	if value == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	return value, nil
}

// requiredAmount reads a decimal given as a string ("12.50") or a number (12.5)
func requiredAmount(req *structpb.Struct, key string) (decimal.Decimal, error) {
	value := stringField(req, key)
	if value == "" {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}

	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", key, err)
	}
	return amount, nil
}

// optionalAmount is requiredAmount with a missing field read as zero
func optionalAmount(req *structpb.Struct, key string) (decimal.Decimal, error) {
	if stringField(req, key) == "" {
		return decimal.Zero, nil
	}
	return requiredAmount(req, key)
}

func optionalInt(req *structpb.Struct, key string) (int, error) {
	value := stringField(req, key)
	if value == "" {
		return 0, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed != math.Trunc(parsed) || math.Abs(parsed) > math.MaxInt32 {
		return 0, status.Errorf(codes.InvalidArgument, "invalid %s: %q is not a whole number", key, value)
	}
	return int(parsed), nil
}

func newStruct(fields map[string]interface{}) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func detailsFields(d *domain.AccountDetails) map[string]interface{} {
	fields := map[string]interface{}{
		"account_number":    d.Number,
		"holder_name":       d.HolderName,
		"variant":           string(d.Variant),
		"variant_name":      d.Variant.DisplayName(),
		"created_at":        timestamp(d.CreatedAt),
		"balance":           money(d.Balance),
		"minimum_balance":   money(d.MinimumBalance),
		"interest_rate":     d.InterestRate.String(),
		"active":            d.Active,
		"transaction_count": d.TransactionCount,
	}

	switch d.Variant {
	case domain.VariantCurrent:
		fields["overdraft_limit"] = money(d.OverdraftLimit)
	case domain.VariantFixedDeposit:
		fields["tenure_months"] = d.TenureMonths
		fields["maturity_date"] = timestamp(d.MaturityDate)
		fields["matured"] = d.Matured
	}
	return fields
}

func recordFields(r domain.TransactionRecord) map[string]interface{} {
	fields := map[string]interface{}{
		"id":            r.ID,
		"kind":          string(r.Kind),
		"amount":        money(r.Amount),
		"description":   r.Description,
		"timestamp":     timestamp(r.Timestamp),
		"balance_after": money(r.BalanceAfter),
	}
	if r.Counterparty != "" {
		fields["counterparty"] = r.Counterparty
	}
	return fields
}

func summaryFields(s domain.AccountSummary) map[string]interface{} {
	return map[string]interface{}{
		"account_number": s.Number,
		"holder_name":    s.HolderName,
		"variant":        string(s.Variant),
		"balance":        money(s.Balance),
		"active":         s.Active,
	}
}

func reportFields(r *report.BankReport) map[string]interface{} {
	counts := make(map[string]interface{}, len(r.CountsByVariant))
	for variant, n := range r.CountsByVariant {
		counts[string(variant)] = n
	}
	return map[string]interface{}{
		"total_accounts":    r.TotalAccounts,
		"active_accounts":   r.ActiveAccounts,
		"total_balance":     money(r.TotalBalance),
		"counts_by_variant": counts,
	}
}
