package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ghazlapps/salon-backend/api/routes"
	"github.com/ghazlapps/salon-backend/internal/appointments"
	"github.com/ghazlapps/salon-backend/internal/catalog"
	checkoutsvc "github.com/ghazlapps/salon-backend/internal/checkout"
	"github.com/ghazlapps/salon-backend/internal/customers"
	"github.com/ghazlapps/salon-backend/internal/inventory"
	"github.com/ghazlapps/salon-backend/internal/receipts"
	"github.com/ghazlapps/salon-backend/pkg/config"
	"github.com/ghazlapps/salon-backend/pkg/db"
	"github.com/ghazlapps/salon-backend/pkg/logger"
	"github.com/ghazlapps/salon-backend/pkg/metrics"
	"github.com/ghazlapps/salon-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	posMetrics := metrics.NewPOSMetrics(registry)

	inventoryRepo := inventory.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	customerRepo := customers.NewRepository(dbClient.DB())
	appointmentRepo := appointments.NewRepository(dbClient.DB())
	receiptRepo := receipts.NewRepository(dbClient.DB())

	inventoryService, err := inventory.NewService(dbClient, inventoryRepo, posMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(dbClient, catalogRepo, inventoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	customerService, err := customers.NewService(customerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	appointmentService, err := appointments.NewService(dbClient, appointmentRepo, customerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create appointment service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(dbClient, customerRepo, catalogRepo, inventoryService, receiptRepo, posMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	receiptService, err := receipts.NewService(receiptRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create receipt service", err)
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
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			registry,
			catalogService,
			inventoryService,
			customerService,
			appointmentService,
			checkoutService,
			receiptService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
