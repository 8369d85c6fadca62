package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/joaofarias/doafacil/internal/config"
	"github.com/joaofarias/doafacil/internal/repository/mongodb"
	sheetsrepo "github.com/joaofarias/doafacil/internal/repository/sheets"
	"github.com/joaofarias/doafacil/internal/scheduler"
	"github.com/joaofarias/doafacil/internal/server/handlers"
	"github.com/joaofarias/doafacil/internal/server/router"
	ledgersvc "github.com/joaofarias/doafacil/internal/service/ledger"
	reportingsvc "github.com/joaofarias/doafacil/internal/service/reporting"
	stocksvc "github.com/joaofarias/doafacil/internal/service/stock"
	transfersvc "github.com/joaofarias/doafacil/internal/service/transfer"
	"github.com/joaofarias/doafacil/pkg/clients/viacep"
	"github.com/joaofarias/doafacil/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoClient, err := mongodb.NewClient(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb client", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	receiptRepo := mongodb.NewReceiptRepository(mongoClient, baseLogger.Named("repo.receipts"))
	transferRepo := mongodb.NewTransferRepository(mongoClient)
	partnerRepo := mongodb.NewPartnerRepository(mongoClient)
	snapshotRepo := mongodb.NewSnapshotRepository(mongoClient)

	// The spreadsheet export of daily snapshots is optional.
	var exporter sheetsrepo.Repository
	if cfg.Sheets.SpreadsheetID != "" {
		exporter, err = sheetsrepo.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		baseLogger.Info("snapshot spreadsheet export enabled")
	} else {
		baseLogger.Warn("spreadsheet export id missing, snapshot export disabled")
	}

	ledgerSvc := ledgersvc.NewService(receiptRepo, baseLogger.Named("svc.ledger"))
	stockSvc := stocksvc.NewService(receiptRepo, baseLogger.Named("svc.stock"))
	defer stockSvc.Close()
	transferSvc := transfersvc.NewService(ledgerSvc, transferRepo, baseLogger.Named("svc.transfer"))
	reportingSvc := reportingsvc.NewService(receiptRepo, snapshotRepo, exporter, cfg.Sheets.ExportRange, baseLogger.Named("svc.reporting"))

	cepClient := viacep.NewClient(cfg.ViaCEP)

	receiptHandler := handlers.NewReceiptHandler(ledgerSvc, baseLogger.Named("handlers.receipts"))
	stockHandler := handlers.NewStockHandler(stockSvc, ledgerSvc, baseLogger.Named("handlers.stock"))
	transferHandler := handlers.NewTransferHandler(transferSvc, baseLogger.Named("handlers.transfers"))
	partnerHandler := handlers.NewPartnerHandler(partnerRepo, cepClient, baseLogger.Named("handlers.partners"))

	engine := router.New(receiptHandler, stockHandler, transferHandler, partnerHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Snapshots, reportingSvc, baseLogger.Named("scheduler"))
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
