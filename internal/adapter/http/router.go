// Package http exposes the operational HTTP surface: health, Prometheus metrics,
// reports, read-only account views and accrual triggers.
package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/simaogato/ledger-backend/internal/pkg/logging"
	"github.com/simaogato/ledger-backend/internal/usecase/accrual"
	"github.com/simaogato/ledger-backend/internal/usecase/registry"
	"github.com/simaogato/ledger-backend/internal/usecase/report"
	"github.com/simaogato/ledger-backend/internal/usecase/teller"
)

// Handler serves the HTTP routes
type Handler struct {
	RegistryService *registry.RegistryService
	TellerService   *teller.TellerService
	ReportService   *report.ReportService
	AccrualService  *accrual.AccrualService
	Gatherer        prometheus.Gatherer
	Logger          *zap.Logger
}

// NewRouter registers every route of h
func NewRouter(h *Handler) *mux.Router {
	if h.Logger == nil {
		h.Logger = logging.OrNop(nil)
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/report", h.GetReport).Methods(http.MethodGet)
	r.HandleFunc("/accounts", h.ListAccounts).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{number}", h.GetAccount).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{number}/history", h.GetHistory).Methods(http.MethodGet)
	r.HandleFunc("/accrual/interest", h.ApplyInterest).Methods(http.MethodPost)
	r.HandleFunc("/accrual/maturity", h.SweepMaturity).Methods(http.MethodPost)

	if h.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	return r
}
