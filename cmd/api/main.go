package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dairydesk/dairydesk-backend/api/routes"
	"github.com/dairydesk/dairydesk-backend/internal/cattle"
	"github.com/dairydesk/dairydesk-backend/internal/customers"
	"github.com/dairydesk/dairydesk-backend/internal/inventory"
	"github.com/dairydesk/dairydesk-backend/internal/ledger"
	"github.com/dairydesk/dairydesk-backend/internal/production"
	"github.com/dairydesk/dairydesk-backend/internal/reports"
	"github.com/dairydesk/dairydesk-backend/internal/vendors"
	"github.com/dairydesk/dairydesk-backend/pkg/config"
	"github.com/dairydesk/dairydesk-backend/pkg/db"
	"github.com/dairydesk/dairydesk-backend/pkg/logger"
	"github.com/dairydesk/dairydesk-backend/pkg/metrics"
	"github.com/dairydesk/dairydesk-backend/pkg/migrate"
	"github.com/dairydesk/dairydesk-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	ledgerMetrics := metrics.NewLedgerMetrics(prometheus.DefaultRegisterer)

	ledgerService, err := ledger.NewService(ledger.ServiceParams{
		Repo:         ledger.NewRepository(dbClient.DB()),
		Tx:           dbClient,
		Metrics:      ledgerMetrics,
		BulkMaxItems: cfg.Ledger.BulkPaymentMaxItems,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	vendorService, err := vendors.NewService(vendors.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create vendor service", err)
		os.Exit(1)
	}

	cattleService, err := cattle.NewService(cattle.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create cattle service", err)
		os.Exit(1)
	}

	productionService, err := production.NewService(production.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create production service", err)
		os.Exit(1)
	}

	customerService, err := customers.NewService(customers.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventory.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	reportsService, err := reports.NewService(reports.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Services{
			Ledger:     ledgerService,
			Vendors:    vendorService,
			Cattle:     cattleService,
			Production: productionService,
			Customers:  customerService,
			Inventory:  inventoryService,
			Reports:    reportsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
