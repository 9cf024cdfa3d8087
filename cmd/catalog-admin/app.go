package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/uptrace/bun"

	"github.com/vitrine/catalog-admin/internal/infrastructure/config"
	"github.com/vitrine/catalog-admin/internal/infrastructure/db/sqldb"
	"github.com/vitrine/catalog-admin/pkg/logger"
)

// bootstrap loads configuration, initialises the logger and opens the SQL
// database every command needs.
func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, *bun.DB, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "catalog-admin",
	})

	db, err := sqldb.Open(ctx, sqldb.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN})
	if err != nil {
		return nil, log, nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := sqldb.CreateSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, log, nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return cfg, log, db, nil
}
