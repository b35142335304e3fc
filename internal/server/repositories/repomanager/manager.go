// Package repomanager vends dialect-specific repositories and runs the
// matching goose migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/philharmonia/harmony/internal/common"
	"github.com/philharmonia/harmony/internal/dbx"
	"github.com/philharmonia/harmony/internal/server/config"
	"github.com/philharmonia/harmony/internal/server/migrations"
	"github.com/philharmonia/harmony/internal/server/repositories/accounts"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func runMigrations(ctx context.Context, db *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// New returns the RepositoryManager for a database/sql driver name.
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case config.DriverPostgres:
		return &PostgresRepositoryManager{}, nil
	case config.DriverSQLite:
		return &SQLiteRepositoryManager{}, nil
	default:
		return nil, fmt.Errorf("%w: driver %q", common.ErrUnsupportedDBURL, driver)
	}
}
