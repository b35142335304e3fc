// Package db opens the server database and applies its schema.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/philharmonia/harmony/internal/server/config"
	"github.com/philharmonia/harmony/internal/server/repositories/repomanager"
)

var sqlOpen = sql.Open

// Open connects to the configured database, verifies the connection and
// runs pending migrations. The returned manager matches the driver.
func Open(ctx context.Context, cfg config.Database) (*sql.DB, repomanager.RepositoryManager, error) {
	m, err := repomanager.New(cfg.Driver)
	if err != nil {
		return nil, nil, err
	}

	conn, err := sqlOpen(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	if cfg.ConnMaxAge > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxAge)
	}
	if cfg.Driver == config.DriverSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := m.RunMigrations(ctx, conn); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("db migrations error: %w", err)
	}

	return conn, m, nil
}
