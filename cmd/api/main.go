package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/findlunch/ordercore/api/routes"
	"github.com/findlunch/ordercore/internal/cart"
	"github.com/findlunch/ordercore/internal/catalog"
	"github.com/findlunch/ordercore/internal/donation"
	"github.com/findlunch/ordercore/internal/loyalty"
	"github.com/findlunch/ordercore/internal/orders"
	"github.com/findlunch/ordercore/internal/transport"
	"github.com/findlunch/ordercore/pkg/clock"
	"github.com/findlunch/ordercore/pkg/config"
	"github.com/findlunch/ordercore/pkg/logger"
	"github.com/findlunch/ordercore/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "ordercore"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "ordercore",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	offers, err := catalog.NewClient(cfg.Upstream, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog client", err)
		os.Exit(1)
	}

	submitter, err := transport.NewSubmitter(cfg.Upstream, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create submitter", err)
		os.Exit(1)
	}

	balances, err := loyalty.NewBalanceClient(cfg.Upstream, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create balance client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	carts := cart.NewStore()

	ordersSvc, err := orders.NewService(orders.ServiceParams{
		Carts:     carts,
		Ledger:    donation.NewLedger(logg),
		Submitter: submitter,
		Balances:  balances,
		Clock:     clock.System(),
		Logger:    logg,
		Metrics:   metrics.NewOrderFlowMetrics(registry),
		PrepTime:  cfg.Order.PrepTime,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting order api")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, carts, ordersSvc, offers, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "order api stopped unexpectedly", err)
		os.Exit(1)
	}
}
