package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/mamadbah2/montwater/internal/auth"
	"github.com/mamadbah2/montwater/internal/config"
	core "github.com/mamadbah2/montwater/internal/inventory"
	"github.com/mamadbah2/montwater/internal/metrics"
	"github.com/mamadbah2/montwater/internal/repository/mongodb"
	"github.com/mamadbah2/montwater/internal/repository/sheets"
	"github.com/mamadbah2/montwater/internal/repository/sqlite"
	"github.com/mamadbah2/montwater/internal/scheduler"
	"github.com/mamadbah2/montwater/internal/server/handlers"
	"github.com/mamadbah2/montwater/internal/server/middleware"
	"github.com/mamadbah2/montwater/internal/server/router"
	inventorysvc "github.com/mamadbah2/montwater/internal/service/inventory"
	reportingsvc "github.com/mamadbah2/montwater/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/montwater/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/montwater/pkg/clients/whatsapp"
	"github.com/mamadbah2/montwater/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Inventory.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	stateRepo, err := sqlite.New(cfg.Storage.Path, logger.Named(baseLogger, "repo.sqlite"))
	if err != nil {
		baseLogger.Fatal("failed to init state repository", zap.Error(err))
	}
	defer func() {
		if err := stateRepo.Close(); err != nil {
			baseLogger.Error("failed to close state repository", zap.Error(err))
		}
	}()

	store, err := core.NewStore(context.Background(), stateRepo, cfg.Storage.Key, logger.Named(baseLogger, "inventory.store"))
	if err != nil {
		baseLogger.Fatal("failed to load inventory state", zap.Error(err))
	}
	inventorySvc := inventorysvc.NewService(store, loc, logger.Named(baseLogger, "svc.inventory"))

	authn, err := auth.NewAuthenticator(cfg.Auth.AdminPassword, cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	if err != nil {
		baseLogger.Fatal("failed to init authenticator", zap.Error(err))
	}

	var sinks reportingsvc.Sinks

	if cfg.MongoDB.Enabled() {
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoRepo, err := mongodb.NewReportRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		sinks.Archive = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, report archive disabled")
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sinks.Sheet = sheetsRepo
	} else {
		baseLogger.Warn("google sheets not configured, report mirror disabled")
	}

	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		sinks.Notifier = whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, logger.Named(baseLogger, "svc.whatsapp"))
		baseLogger.Info("whatsapp stock alerts enabled")
	} else {
		baseLogger.Warn("whatsapp not configured, stock alerts disabled")
	}

	reportingSvc := reportingsvc.NewService(store, sinks, loc, logger.Named(baseLogger, "svc.reporting"))

	sched := scheduler.NewScheduler(cfg.Reporting.CronSchedule, loc, reportingSvc, logger.Named(baseLogger, "scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.NewStockCollector(inventorySvc),
	)
	httpMetrics, err := metrics.NewHTTPMetrics(registry)
	if err != nil {
		baseLogger.Fatal("failed to register http metrics", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	engine := router.New(router.Options{
		Inventory:      handlers.NewInventoryHandler(inventorySvc, logger.Named(baseLogger, "handlers.inventory")),
		Auth:           handlers.NewAuthHandler(authn, logger.Named(baseLogger, "handlers.auth")),
		RequireWriter:  middleware.RequireWriter(authn, logger.Named(baseLogger, "middleware.auth")),
		Metrics:        httpMetrics,
		Gatherer:       registry,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, logger.Named(baseLogger, "router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
