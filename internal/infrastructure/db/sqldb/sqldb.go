// Package sqldb implements the relational credential and catalog stores on
// top of bun. SQLite and Postgres are supported.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultTimeout = 10 * time.Second
)

// Config captures the settings required to open the database.
type Config struct {
	Driver  string
	DSN     string
	Timeout time.Duration
}

// Open connects to the configured database and verifies connectivity with a
// ping. SQLite connections are limited to one so the foreign_keys pragma and
// in-memory databases stay bound to a single connection.
func Open(ctx context.Context, cfg Config) (*bun.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var db *bun.DB
	switch cfg.Driver {
	case DriverPostgres:
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
		db = bun.NewDB(sqldb, pgdialect.New())
	case DriverSQLite, "":
		sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("sqlite open: %w", err)
		}
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}
	return db, nil
}

// CreateSchema creates any missing table. It never alters existing ones.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	tables := []struct {
		model       any
		foreignKeys []string
	}{
		{model: (*adminRow)(nil)},
		{model: (*userRow)(nil)},
		{model: (*categoryRow)(nil)},
		{
			model:       (*subCategoryRow)(nil),
			foreignKeys: []string{`("category_id") REFERENCES "categories" ("id") ON DELETE RESTRICT`},
		},
		{
			model: (*productRow)(nil),
			foreignKeys: []string{
				`("category_id") REFERENCES "categories" ("id") ON DELETE RESTRICT`,
				`("subcategory_id") REFERENCES "subcategories" ("id") ON DELETE RESTRICT`,
			},
		},
	}

	for _, t := range tables {
		q := db.NewCreateTable().Model(t.model).IfNotExists()
		for _, fk := range t.foreignKeys {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}
