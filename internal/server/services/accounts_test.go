package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philharmonia/harmony/internal/common"
	"github.com/philharmonia/harmony/internal/cryptox"
	"github.com/philharmonia/harmony/internal/server/config"
	"github.com/philharmonia/harmony/internal/server/repositories/repomanager"
)

var testSuperuser = config.Superuser{Username: "admin", Password: "s3cret", Email: "admin@example.com"}

func newSQLiteService(t *testing.T, su config.Superuser) (*AccountService, *sql.DB) {
	t.Helper()

	db, err := sql.Open(config.DriverSQLite, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	goose.SetLogger(goose.NopLogger())
	m := &repomanager.SQLiteRepositoryManager{}
	require.NoError(t, m.RunMigrations(context.Background(), db))

	return NewAccountService(db, m, &config.Config{Superuser: su}), db
}

func TestBootstrapSuperuser_CreatesOnce(t *testing.T) {
	ctx := context.Background()
	s, db := newSQLiteService(t, testSuperuser)

	a, err := s.BootstrapSuperuser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", a.Username)
	assert.True(t, a.IsSuperuser && a.IsStaff && a.IsActive)
	assert.NotEmpty(t, a.ID)

	ok, err := cryptox.VerifyPassword("s3cret", a.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.BootstrapSuperuser(ctx)
	assert.ErrorIs(t, err, common.ErrSuperuserExists)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestBootstrapSuperuser_MissingValues(t *testing.T) {
	tests := []struct {
		name string
		su   config.Superuser
		want string
	}{
		{"username", config.Superuser{Password: "p", Email: "e@example.com"}, "DJANGO_SUPERUSER_USERNAME"},
		{"password", config.Superuser{Username: "u", Email: "e@example.com"}, "DJANGO_SUPERUSER_PASSWORD"},
		{"email", config.Superuser{Username: "u", Password: "p"}, "DJANGO_SUPERUSER_EMAIL"},
		{"all", config.Superuser{}, "DJANGO_SUPERUSER_USERNAME, DJANGO_SUPERUSER_PASSWORD, DJANGO_SUPERUSER_EMAIL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, db := newSQLiteService(t, tt.su)

			_, err := s.BootstrapSuperuser(context.Background())
			assert.ErrorIs(t, err, common.ErrSuperuserConfigMissing)
			assert.ErrorContains(t, err, tt.want)

			var n int
			require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&n))
			assert.Zero(t, n)
		})
	}
}

func TestBootstrapSuperuser_ExistsWinsOverMissingValues(t *testing.T) {
	ctx := context.Background()
	s, _ := newSQLiteService(t, testSuperuser)
	_, err := s.BootstrapSuperuser(ctx)
	require.NoError(t, err)

	s.superuser = config.Superuser{}
	_, err = s.BootstrapSuperuser(ctx)
	assert.ErrorIs(t, err, common.ErrSuperuserExists)
}

func TestBootstrapSuperuser_UsernameTaken(t *testing.T) {
	s, db := newSQLiteService(t, testSuperuser)
	_, err := db.Exec(`INSERT INTO accounts (id, username, email, password_hash) VALUES ('u1', 'admin', 'a@example.com', 'x')`)
	require.NoError(t, err)

	_, err = s.BootstrapSuperuser(context.Background())
	assert.ErrorIs(t, err, common.ErrUsernameTaken)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM accounts WHERE is_superuser = 1`).Scan(&n))
	assert.Zero(t, n)
}

func TestBootstrapSuperuser_StoreFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`FROM accounts\s+WHERE username`).WithArgs("admin").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO accounts`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	s := NewAccountService(db, &repomanager.PostgresRepositoryManager{}, &config.Config{Superuser: testSuperuser})
	s.hash = func(p string) string { return "hashed:" + p }
	s.newID = func() string { return "fixed-id" }
	s.now = func() time.Time { return time.Unix(0, 0) }

	_, err = s.BootstrapSuperuser(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrSuperuserExists)
	assert.Contains(t, err.Error(), "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("down"))

	s := NewAccountService(db, &repomanager.PostgresRepositoryManager{}, &config.Config{})
	assert.EqualError(t, s.Ping(context.Background()), "down")
}
