// Package accounts stores site accounts in PostgreSQL or SQLite.
package accounts

import (
	"context"

	"github.com/philharmonia/harmony/internal/server/models"
)

type Repository interface {
	SuperuserExists(ctx context.Context) (bool, error)
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
}
