package repomanager

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/philharmonia/harmony/internal/dbx"
	"github.com/philharmonia/harmony/internal/server/migrations"
	"github.com/philharmonia/harmony/internal/server/repositories/accounts"
)

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "sqlite3", migrations.SQLiteDir)
}
