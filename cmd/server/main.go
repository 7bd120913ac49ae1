package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/caserito/atelier/internal/config"
	"github.com/caserito/atelier/internal/repository/mongodb"
	"github.com/caserito/atelier/internal/repository/sheets"
	"github.com/caserito/atelier/internal/scheduler"
	"github.com/caserito/atelier/internal/server/handlers"
	"github.com/caserito/atelier/internal/server/router"
	enginesvc "github.com/caserito/atelier/internal/service/engine"
	inventorysvc "github.com/caserito/atelier/internal/service/inventory"
	reportingsvc "github.com/caserito/atelier/internal/service/reporting"
	"github.com/caserito/atelier/pkg/clients/notify"
	"github.com/caserito/atelier/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
	if err != nil {
		baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
	}

	tableStore := sheets.NewTableStore(sheetsRepo, baseLogger.Named("repo.tables"))
	store := sheets.NewCachedStore(tableStore, cfg.Cache.TTL, baseLogger.Named("repo.cache"))

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	inventorySvc := inventorysvc.NewService(store, baseLogger.Named("svc.inventory"))
	engineSvc := enginesvc.NewService(store, baseLogger.Named("svc.engine"))
	reportingSvc := reportingsvc.NewService(store, mongoRepo, baseLogger.Named("svc.reporting"))

	var alertClient notify.Client
	if cfg.Alerts.WebhookURL != "" {
		alertClient = notify.NewWebhookClient(cfg.Alerts.WebhookURL)
		baseLogger.Info("low-stock alert webhook enabled")
	} else {
		baseLogger.Warn("alert webhook missing, low-stock alerts disabled")
	}

	handler := handlers.NewHandler(inventorySvc, engineSvc, reportingSvc, store, baseLogger.Named("handlers.dashboard"))
	engine := router.New(handler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, reportingSvc, alertClient, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
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
