package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikolayk812/ownmart-pos/internal/catalog"
	"github.com/nikolayk812/ownmart-pos/internal/config"
	"github.com/nikolayk812/ownmart-pos/internal/obs"
	"github.com/nikolayk812/ownmart-pos/internal/payment"
	"github.com/nikolayk812/ownmart-pos/internal/pos"
	"github.com/nikolayk812/ownmart-pos/internal/pricing"
	"github.com/nikolayk812/ownmart-pos/internal/printer"
	"github.com/nikolayk812/ownmart-pos/internal/receipt"
	"github.com/nikolayk812/ownmart-pos/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel, os.Stderr).With().Str("store", cfg.StoreName).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := obs.NewMetrics(cfg.MetricsNamespace, reg)

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           obs.NewHandler(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info().Str("addr", srv.Addr).Msg("metrics server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server exited unexpectedly")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("shutdown metrics server")
			}
		}()
	}

	items := catalog.Default()

	carts, err := repository.NewCart(items)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise cart repository")
	}

	spooler, err := printer.NewSpooler(cfg.PrintCommand)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise printer")
	}

	policy := pricing.DefaultPolicy()
	term, err := pos.NewTerminal(pos.Config{
		Catalog: items,
		Carts:   carts,
		Policy:  policy,
		Formatter: receipt.NewFormatter(
			receipt.WithTitle(cfg.StoreName),
			receipt.WithSymbol(cfg.CurrencySymbol),
			receipt.WithPolicy(policy),
		),
		Payments: payment.Builder{
			PayeeID:   cfg.PayeeID,
			PayeeName: cfg.PayeeName,
			Note:      cfg.PaymentNote,
			Currency:  cfg.Currency,
		},
		Renderer: payment.NewQRRenderer(cfg.QRSize),
		Printer:  spooler,
		Metrics:  metrics,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise terminal")
	}

	logger.Info().Str("session_id", term.SessionID()).Msg("terminal ready")

	if err := newShell(term, os.Stdout, cfg.PayeeID).Run(ctx, os.Stdin); err != nil {
		logger.Error().Err(err).Msg("read input")
	}
}
