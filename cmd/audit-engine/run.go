package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dealradar/audit-engine/internal/catalog"
	"github.com/dealradar/audit-engine/internal/config"
	"github.com/dealradar/audit-engine/internal/consolidation"
	"github.com/dealradar/audit-engine/internal/jobs"
	"github.com/dealradar/audit-engine/internal/scoring"
	"github.com/dealradar/audit-engine/internal/service"
	"github.com/dealradar/audit-engine/internal/store"
	"github.com/dealradar/audit-engine/pkg/log"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scoring worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}

		logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
		if err != nil {
			logLvl = zap.NewAtomicLevelAt(zap.InfoLevel)
		}
		logger := log.InitLog(logLvl)
		defer func() { _ = logger.Sync() }()
		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Info("starting audit engine")
		defer zap.S().Info("audit engine stopped")

		signalCatalog, keywordCatalog, err := loadCatalogs(cfg)
		if err != nil {
			zap.S().Fatalf("loading catalogs: %v", err)
		}

		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalf("initializing data store: %v", err)
		}

		dataStore := store.NewStore(db)
		defer dataStore.Close()

		engine, err := scoring.NewEngine(signalCatalog, zap.S())
		if err != nil {
			zap.S().Fatalf("initializing scoring engine: %v", err)
		}

		auditService := service.NewAuditService(
			dataStore,
			consolidation.NewRelevanceFilter(keywordCatalog),
			consolidation.NewConsolidator(zap.S()),
			engine,
		)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		pool, err := store.NewPgxPool(ctx, cfg)
		if err != nil {
			zap.S().Fatalf("creating pgx pool: %v", err)
		}
		defer pool.Close()

		jobClient, err := jobs.NewClient(ctx, pool, auditService, cfg.Service.ScoringWorkers)
		if err != nil {
			zap.S().Fatalf("creating job client: %v", err)
		}

		if err := jobClient.Start(ctx); err != nil {
			zap.S().Fatalf("starting job client: %v", err)
		}
		zap.S().Infof("scoring workers started, catalog %s", signalCatalog.Version)

		<-ctx.Done()

		if err := jobClient.Stop(context.Background()); err != nil {
			zap.S().Errorf("stopping job client: %v", err)
		}
		return nil
	},
}

func loadCatalogs(cfg *config.Config) (catalog.SignalCatalog, catalog.KeywordCatalog, error) {
	var (
		signalCatalog catalog.SignalCatalog
		keywords      catalog.KeywordCatalog
		err           error
	)

	if cfg.Service.SignalCatalogPath != "" {
		signalCatalog, err = catalog.LoadSignalCatalog(cfg.Service.SignalCatalogPath)
	} else {
		signalCatalog, err = catalog.DefaultSignalCatalog()
	}
	if err != nil {
		return signalCatalog, keywords, err
	}

	if cfg.Service.KeywordCatalogPath != "" {
		keywords, err = catalog.LoadKeywordCatalog(cfg.Service.KeywordCatalogPath)
	} else {
		keywords, err = catalog.DefaultKeywordCatalog()
	}
	return signalCatalog, keywords, err
}
