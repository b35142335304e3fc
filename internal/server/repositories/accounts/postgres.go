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

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) SuperuserExists(ctx context.Context) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE is_superuser)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO accounts (id, username, email, password_hash, is_superuser, is_staff, is_active, date_joined)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Username, account.Email, account.PasswordHash,
		account.IsSuperuser, account.IsStaff, account.IsActive, account.DateJoined).Scan(&account.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query :=
		`SELECT id, username, email, password_hash, is_superuser, is_staff, is_active, date_joined
		 FROM accounts
		 WHERE username = $1
		 `

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
