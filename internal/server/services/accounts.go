package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/philharmonia/harmony/internal/common"
	"github.com/philharmonia/harmony/internal/cryptox"
	"github.com/philharmonia/harmony/internal/dbx"
	"github.com/philharmonia/harmony/internal/server/config"
	"github.com/philharmonia/harmony/internal/server/models"
	"github.com/philharmonia/harmony/internal/server/repositories/repomanager"
)

type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	superuser   config.Superuser
	now         func() time.Time
	newID       func() string
	hash        func(string) string
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		superuser:   cfg.Superuser,
		now:         time.Now,
		newID:       uuid.NewString,
		hash:        cryptox.HashPassword,
	}
}

// BootstrapSuperuser creates the privileged account from the configured
// superuser values. It returns common.ErrSuperuserExists when any superuser
// is already stored and common.ErrSuperuserConfigMissing when a value is
// empty; the existence check wins over missing values. A regular account
// holding the configured username yields common.ErrUsernameTaken. The checks
// and the insert share one transaction.
func (s *AccountService) BootstrapSuperuser(ctx context.Context) (*models.Account, error) {
	var created *models.Account

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		exists, err := repo.SuperuserExists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrSuperuserExists
		}

		if missing := s.superuser.Missing(); len(missing) > 0 {
			return fmt.Errorf("%w: %s", common.ErrSuperuserConfigMissing, strings.Join(missing, ", "))
		}

		// A regular account may already hold the name.
		_, err = repo.GetByUsername(ctx, s.superuser.Username)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", common.ErrUsernameTaken, s.superuser.Username)
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		created, err = repo.Create(ctx, &models.Account{
			ID:           s.newID(),
			Username:     s.superuser.Username,
			Email:        s.superuser.Email,
			PasswordHash: s.hash(s.superuser.Password),
			IsSuperuser:  true,
			IsStaff:      true,
			IsActive:     true,
			DateJoined:   s.now().UTC(),
		})
		return err
	})

	if err != nil {
		return nil, fmt.Errorf("bootstrap superuser: %w", err)
	}

	return created, nil
}

// Ping reports whether the database is reachable.
func (s *AccountService) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
