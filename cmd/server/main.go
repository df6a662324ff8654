package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/config"
	"github.com/mamadbah2/farmstead/internal/repository"
	"github.com/mamadbah2/farmstead/internal/repository/memory"
	"github.com/mamadbah2/farmstead/internal/repository/mongodb"
	"github.com/mamadbah2/farmstead/internal/repository/sheets"
	"github.com/mamadbah2/farmstead/internal/scheduler"
	"github.com/mamadbah2/farmstead/internal/server/handlers"
	"github.com/mamadbah2/farmstead/internal/server/router"
	commercesvc "github.com/mamadbah2/farmstead/internal/service/commerce"
	cropssvc "github.com/mamadbah2/farmstead/internal/service/crops"
	financesvc "github.com/mamadbah2/farmstead/internal/service/finance"
	fleetsvc "github.com/mamadbah2/farmstead/internal/service/fleet"
	livestocksvc "github.com/mamadbah2/farmstead/internal/service/livestock"
	reportingsvc "github.com/mamadbah2/farmstead/internal/service/reporting"
	vetsvc "github.com/mamadbah2/farmstead/internal/service/vet"
	whatsappsvc "github.com/mamadbah2/farmstead/internal/service/whatsapp"
	"github.com/mamadbah2/farmstead/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var (
		set     *repository.Set
		sink    reportingsvc.ReportSink
		history handlers.ReportHistory
	)
	if cfg.MongoDB.Enabled() {
		connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		set = mongoRepo.NewSet()
		sink = mongoRepo
		history = mongoRepo
		baseLogger.Info("mongodb storage enabled", zap.String("db", cfg.MongoDB.DBName))
	} else {
		set = memory.NewSet()
		baseLogger.Warn("MONGODB_URI not set, records are kept in memory only")
	}

	var mirror sheets.Ledger
	if cfg.Sheets.Enabled() {
		ledgerSheet, err := sheets.NewLedgerSheet(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init ledger sheet", zap.Error(err))
		}
		mirror = ledgerSheet
		baseLogger.Info("finance ledger mirror enabled")
	}

	financeSvc := financesvc.NewService(set, mirror, baseLogger.Named("svc.finance"))
	livestockSvc := livestocksvc.NewService(set.Pigs, baseLogger.Named("svc.livestock"))
	vetSvc := vetsvc.NewService(set, baseLogger.Named("svc.vet"))
	cropsSvc := cropssvc.NewService(set, baseLogger.Named("svc.crops"))
	commerceSvc := commercesvc.NewService(set, financeSvc, baseLogger.Named("svc.commerce"))
	fleetSvc := fleetsvc.NewService(set, baseLogger.Named("svc.fleet"))

	window := time.Duration(cfg.Reporting.VaccinationWindowDays) * 24 * time.Hour
	reportingSvc := reportingsvc.NewService(set, vetSvc, sink, window, baseLogger.Named("svc.reporting"))
	messagingSvc := whatsappsvc.New(cfg.WhatsApp, baseLogger.Named("svc.whatsapp"))

	engine := router.New(router.Handlers{
		Livestock:     handlers.NewLivestockHandler(livestockSvc, baseLogger.Named("handlers.livestock")),
		Vet:           handlers.NewVetHandler(vetSvc, cfg.Reporting.VaccinationWindowDays, baseLogger.Named("handlers.vet")),
		Finance:       handlers.NewFinanceHandler(financeSvc, set.Finance, baseLogger.Named("handlers.finance")),
		Crops:         handlers.NewCropsHandler(cropsSvc, baseLogger.Named("handlers.crops")),
		Commerce:      handlers.NewCommerceHandler(commerceSvc, baseLogger.Named("handlers.commerce")),
		Fleet:         handlers.NewFleetHandler(fleetSvc, baseLogger.Named("handlers.fleet")),
		Reports:       handlers.NewReportHandler(reportingSvc, financeSvc, set, history, baseLogger.Named("handlers.reports")),
		Notifications: handlers.NewNotificationHandler(messagingSvc, reportingSvc, baseLogger.Named("handlers.notifications")),
	}, set, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, messagingSvc, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
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
