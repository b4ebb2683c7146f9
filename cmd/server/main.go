package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"retailpos-backend/internal/cache"
	"retailpos-backend/internal/config"
	"retailpos-backend/internal/db"
	"retailpos-backend/internal/handler"
	"retailpos-backend/internal/repository"
	"retailpos-backend/internal/server"
	"retailpos-backend/internal/service"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.New(ctx, cfg)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		log.Error("schema setup failed", "error", err)
		os.Exit(1)
	}

	profileRepo := repository.ProfileRepository{DB: database}
	if err := profileRepo.SeedDefaults(ctx); err != nil {
		log.Error("seed defaults failed", "error", err)
		os.Exit(1)
	}

	var reportCache *cache.Redis
	if cfg.RedisAddr != "" {
		reportCache, err = cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			// Reports fall back to recomputing every request.
			log.Warn("redis unavailable, running without report cache", "error", err)
		} else {
			defer reportCache.Close()
		}
	}

	inventoryRepo := repository.InventoryRepository{DB: database}
	customerRepo := repository.CustomerRepository{DB: database}
	invoiceRepo := repository.InvoiceRepository{
		DB:            database,
		Logger:        log,
		AllowOversell: cfg.AllowOversell,
	}
	reportRepo := repository.ReportRepository{DB: database}

	authService := &service.AuthService{
		Config: cfg,
		Verifier: service.AdminVerifier{
			Email:           cfg.AdminEmail,
			DefaultPassword: cfg.AdminPassword,
			Store:           profileRepo,
		},
		Logger: log,
	}

	router := server.NewRouter(cfg, log,
		handler.HealthHandler{DB: database},
		handler.AuthHandler{Service: authService},
		handler.InventoryHandler{
			Repo:               inventoryRepo,
			Profiles:           profileRepo,
			Cache:              reportCache,
			LowStockThreshold:  cfg.LowStockThreshold,
			HighStockThreshold: cfg.HighStockThreshold,
		},
		handler.InvoiceHandler{
			Repo:           invoiceRepo,
			Profiles:       profileRepo,
			Cache:          reportCache,
			TaxRatePercent: cfg.TaxRatePercent,
		},
		handler.CustomerHandler{Repo: customerRepo},
		handler.SettingsHandler{Repo: profileRepo},
		handler.ReportHandler{
			Repo:               reportRepo,
			Profiles:           profileRepo,
			Cache:              reportCache,
			LowStockThreshold:  cfg.LowStockThreshold,
			HighStockThreshold: cfg.HighStockThreshold,
			TopProductsLimit:   cfg.TopProductsLimit,
		},
		handler.HomeHandler{},
	)

	if err := server.Start(ctx, cfg, router, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
