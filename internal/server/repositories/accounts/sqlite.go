package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/philharmonia/harmony/internal/common"
	"github.com/philharmonia/harmony/internal/dbx"
	"github.com/philharmonia/harmony/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) SuperuserExists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE is_superuser = 1)`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (id, username, email, password_hash, is_superuser, is_staff, is_active, date_joined)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.Username, account.Email, account.PasswordHash,
		account.IsSuperuser, account.IsStaff, account.IsActive, account.DateJoined.UTC())
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query :=
		`SELECT id, username, email, password_hash, is_superuser, is_staff, is_active, date_joined
		 FROM accounts
		 WHERE username = ?`

	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash,
		&a.IsSuperuser, &a.IsStaff, &a.IsActive, &a.DateJoined)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}
