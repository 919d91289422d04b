package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/simaogato/ledger-backend/internal/domain"
	"github.com/simaogato/ledger-backend/internal/usecase/accrual"
)

type accountSummary struct {
	AccountNumber string `json:"account_number"`
	HolderName    string `json:"holder_name"`
	Variant       string `json:"variant"`
	Balance       string `json:"balance"`
	Active        bool   `json:"active"`
}

type accountDetails struct {
	AccountNumber    string `json:"account_number"`
	HolderName       string `json:"holder_name"`
	Variant          string `json:"variant"`
	VariantName      string `json:"variant_name"`
	CreatedAt        string `json:"created_at"`
	Balance          string `json:"balance"`
	MinimumBalance   string `json:"minimum_balance"`
	InterestRate     string `json:"interest_rate"`
	Active           bool   `json:"active"`
	TransactionCount int    `json:"transaction_count"`
	OverdraftLimit   string `json:"overdraft_limit,omitempty"`
	TenureMonths     int    `json:"tenure_months,omitempty"`
	MaturityDate     string `json:"maturity_date,omitempty"`
	Matured          *bool  `json:"matured,omitempty"`
}

type transactionRecord struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Amount       string `json:"amount"`
	Description  string `json:"description"`
	Timestamp    string `json:"timestamp"`
	Counterparty string `json:"counterparty,omitempty"`
	BalanceAfter string `json:"balance_after"`
}

type bankReport struct {
	TotalAccounts   int            `json:"total_accounts"`
	ActiveAccounts  int            `json:"active_accounts"`
	TotalBalance    string         `json:"total_balance"`
	CountsByVariant map[string]int `json:"counts_by_variant"`
}

type accrualResult struct {
	AccountsCredited int    `json:"accounts_credited"`
	AccountsMatured  int    `json:"accounts_matured"`
	TotalInterest    string `json:"total_interest"`
}

// HealthCheck reports liveness
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetReport returns the aggregate ledger report
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.ReportService.GetReport(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}

	counts := make(map[string]int, len(result.CountsByVariant))
	for variant, n := range result.CountsByVariant {
		counts[string(variant)] = n
	}
	writeJSON(w, http.StatusOK, bankReport{
		TotalAccounts:   result.TotalAccounts,
		ActiveAccounts:  result.ActiveAccounts,
		TotalBalance:    result.TotalBalance.StringFixed(2),
		CountsByVariant: counts,
	})
}

// ListAccounts returns every account summary sorted by number
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.RegistryService.ListAccounts(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}

	out := make([]accountSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, accountSummary{
			AccountNumber: s.Number,
			HolderName:    s.HolderName,
			Variant:       string(s.Variant),
			Balance:       s.Balance.StringFixed(2),
			Active:        s.Active,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetAccount returns the details of one account
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["number"]

	d, err := h.TellerService.Details(r.Context(), number)
	if err != nil {
		h.writeErr(w, err)
		return
	}

	out := accountDetails{
		AccountNumber:    d.Number,
		HolderName:       d.HolderName,
		Variant:          string(d.Variant),
		VariantName:      d.Variant.DisplayName(),
		CreatedAt:        d.CreatedAt.UTC().Format(time.RFC3339Nano),
		Balance:          d.Balance.StringFixed(2),
		MinimumBalance:   d.MinimumBalance.StringFixed(2),
		InterestRate:     d.InterestRate.String(),
		Active:           d.Active,
		TransactionCount: d.TransactionCount,
	}
	switch d.Variant {
	case domain.VariantCurrent:
		out.OverdraftLimit = d.OverdraftLimit.StringFixed(2)
	case domain.VariantFixedDeposit:
		matured := d.Matured
		out.TenureMonths = d.TenureMonths
		out.MaturityDate = d.MaturityDate.UTC().Format(time.RFC3339Nano)
		out.Matured = &matured
	}
	writeJSON(w, http.StatusOK, out)
}

// GetHistory returns the transaction log of one account, oldest first
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["number"]

	records, err := h.TellerService.History(r.Context(), number)
	if err != nil {
		h.writeErr(w, err)
		return
	}

	out := make([]transactionRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, transactionRecord{
			ID:           rec.ID,
			Kind:         string(rec.Kind),
			Amount:       rec.Amount.StringFixed(2),
			Description:  rec.Description,
			Timestamp:    rec.Timestamp.UTC().Format(time.RFC3339Nano),
			Counterparty: rec.Counterparty,
			BalanceAfter: rec.BalanceAfter.StringFixed(2),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// ApplyInterest credits interest across the ledger
func (h *Handler) ApplyInterest(w http.ResponseWriter, r *http.Request) {
	result, err := h.AccrualService.ApplyInterest(r.Context())
	h.writeAccrual(w, result, err)
}

// SweepMaturity matures every fixed deposit past its maturity date
func (h *Handler) SweepMaturity(w http.ResponseWriter, r *http.Request) {
	result, err := h.AccrualService.SweepMaturity(r.Context())
	h.writeAccrual(w, result, err)
}

func (h *Handler) writeAccrual(w http.ResponseWriter, result *accrual.Result, err error) {
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accrualResult{
		AccountsCredited: result.AccountsCredited,
		AccountsMatured:  result.AccountsMatured,
		TotalInterest:    result.TotalInterest.StringFixed(2),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps domain errors to status codes, in line with the gRPC mapping
func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrDestinationNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrSameAccount):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrInactive), errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrMaturityLocked), errors.Is(err, domain.ErrNonZeroBalance):
		code = http.StatusConflict
	}

	if code == http.StatusInternalServerError {
		h.Logger.Error("http request failed", zap.Error(err))
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
