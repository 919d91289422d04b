package main

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	grpclib "google.golang.org/grpc"

	grpcadapter "github.com/simaogato/ledger-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/ledger-backend/internal/adapter/http"
	"github.com/simaogato/ledger-backend/internal/adapter/repository/memory"
	"github.com/simaogato/ledger-backend/internal/config"
	promcollector "github.com/simaogato/ledger-backend/internal/metrics/prometheus"
	"github.com/simaogato/ledger-backend/internal/pkg/grpcserver"
	"github.com/simaogato/ledger-backend/internal/pkg/logging"
	"github.com/simaogato/ledger-backend/internal/usecase/accrual"
	"github.com/simaogato/ledger-backend/internal/usecase/registry"
	"github.com/simaogato/ledger-backend/internal/usecase/report"
	"github.com/simaogato/ledger-backend/internal/usecase/seeder"
	"github.com/simaogato/ledger-backend/internal/usecase/teller"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ledger: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// 2. Metrics
	registryMetrics := prometheus.NewRegistry()
	registryMetrics.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := promcollector.NewCollector("ledger")
	if err := collector.Register(registryMetrics); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	// 3. Store and services (use cases)
	accountRepo := memory.NewAccountRepository()

	registryService := registry.NewRegistryService(accountRepo, collector, logger)
	tellerService := teller.NewTellerService(accountRepo, collector, logger)
	reportService := report.NewReportService(accountRepo)
	accrualService := accrual.NewAccrualService(accountRepo, collector, logger, cfg.AccrualConcurrency)

	// Seed demo accounts when a seed file is configured
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	numbers, err := seeder.NewAccountSeeder(registryService, logger).SeedFromFile(ctx, cfg.SeedFile)
	if err != nil {
		return fmt.Errorf("failed to seed accounts: %w", err)
	}
	if len(numbers) > 0 {
		logger.Info("seed file applied", zap.String("file", cfg.SeedFile), zap.Strings("accounts", numbers))
	}

	// 4. gRPC server
	grpcSrv := grpcserver.New(cfg.GRPCAddr,
		grpclib.ChainUnaryInterceptor(
			grpcadapter.RecoveryInterceptor(logger),
			grpcadapter.LoggingInterceptor(logger),
		),
	)
	grpcadapter.RegisterLedgerServiceServer(grpcSrv.Server, grpcadapter.NewServer(registryService, tellerService, reportService))
	grpcSrv.SetServing("", true)
	grpcSrv.SetServing(grpcadapter.ServiceName, true)

	// 5. HTTP operations server
	httpSrv := &stdhttp.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpadapter.NewRouter(&httpadapter.Handler{
			RegistryService: registryService,
			TellerService:   tellerService,
			ReportService:   reportService,
			AccrualService:  accrualService,
			Gatherer:        registryMetrics,
			Logger:          logger.Named("http"),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		if err := grpcSrv.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server: %w", err)
		}
	}()
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	// 6. Maturity sweep
	if cfg.MaturitySweepInterval > 0 {
		go sweepMaturity(ctx, accrualService, cfg.MaturitySweepInterval, logger)
	}

	// Graceful shutdown
	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, shutting down gracefully")
	case serveErr = <-errCh:
		logger.Error("server failed, shutting down", zap.Error(serveErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown", zap.Error(err))
	}
	grpcSrv.Stop(shutdownCtx)
	logger.Info("servers stopped")

	return serveErr
}

// sweepMaturity matures fixed deposits on every tick until ctx is done
func sweepMaturity(ctx context.Context, service *accrual.AccrualService, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := service.SweepMaturity(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("maturity sweep failed", zap.Error(err))
			}
		}
	}
}
