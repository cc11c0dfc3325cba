package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dealradar/audit-engine/internal/config"
	"github.com/dealradar/audit-engine/internal/store"
	"github.com/dealradar/audit-engine/pkg/log"
	"github.com/dealradar/audit-engine/pkg/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
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

		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalf("initializing data store: %v", err)
		}

		dataStore := store.NewStore(db)
		defer dataStore.Close()

		// Without a migration folder, fall back to the in-process schema
		// setup used by sqlite deployments and tests.
		if cfg.Service.MigrationFolder == "" {
			if err := dataStore.Migrate(); err != nil {
				zap.S().Fatalf("running initial migration: %v", err)
			}
			zap.S().Info("db migrated")
			return nil
		}

		ctx := context.Background()
		pool, err := store.NewPgxPool(ctx, cfg)
		if err != nil {
			zap.S().Fatalf("creating pgx pool: %v", err)
		}
		defer pool.Close()

		if err := migrations.MigrateStore(db, cfg.Service.MigrationFolder, pool); err != nil {
			zap.S().Fatalf("running migrations: %v", err)
		}

		zap.S().Info("db migrated")
		return nil
	},
}
