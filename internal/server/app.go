// Package server wires configuration, the database, the account service and
// the HTTP API together and runs them until the context is cancelled.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"

	"github.com/philharmonia/harmony/internal/filex"
	"github.com/philharmonia/harmony/internal/logging"
	"github.com/philharmonia/harmony/internal/r2"
	"github.com/philharmonia/harmony/internal/server/config"
	"github.com/philharmonia/harmony/internal/server/httpapi"
	"github.com/philharmonia/harmony/internal/server/services"
	"github.com/philharmonia/harmony/internal/server/shared/db"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	accounts *services.AccountService
}

var openDB = db.Open

// headMediaBucket checks that the remote media bucket is reachable.
var headMediaBucket = func(ctx context.Context, media config.Media) error {
	client, err := r2.NewClient(ctx, media.Credentials, media.Endpoint)
	if err != nil {
		return err
	}
	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(media.Bucket)})
	return err
}

// NewApp opens the database, applies migrations and prepares the media
// root. Log output goes to out.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	logger, err := logging.New(c.LogFormat, bool(c.Debug), out)
	if err != nil {
		return nil, err
	}

	conn, m, err := openDB(ctx, c.Database)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	switch c.Media.Backend {
	case config.MediaLocal:
		if _, err := filex.EnsureDir(c.Media.Root); err != nil {
			conn.Close()
			return nil, fmt.Errorf("media root: %w", err)
		}
		if c.Profile.RemoteMedia {
			logger.Warn(ctx, "R2 not configured, serving media from local disk",
				"root", c.Media.Root, "missing", c.MissingR2())
		}
	case config.MediaR2:
		// An unreachable bucket is logged, not fatal.
		if err := headMediaBucket(ctx, c.Media); err != nil {
			logger.Warn(ctx, "media bucket unreachable", "bucket", c.Media.Bucket, "error", err)
		}
	}

	return &App{
		config:   c,
		logger:   logger,
		db:       conn,
		accounts: services.NewAccountService(conn, m, c),
	}, nil
}

// Run listens on the configured address and serves until ctx is cancelled
// or the process receives SIGINT, SIGTERM or SIGQUIT.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	ln, err := net.Listen("tcp", app.config.HTTPAddr)
	if err != nil {
		app.db.Close()
		return fmt.Errorf("listening on %s: %w", app.config.HTTPAddr, err)
	}

	return app.serve(ctx, ln)
}

func (app *App) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           httpapi.NewServer(app.config, app.logger, app.accounts).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	app.logger.Info(ctx, "Starting HTTP server",
		"address", ln.Addr().String(),
		"mode", app.config.Mode,
		"mode_source", app.config.ModeSource(),
		"db_driver", app.config.Database.Driver,
		"media", app.config.Media.Backend,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout.Duration)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()

	if cerr := app.db.Close(); cerr != nil {
		app.logger.Warn(ctx, "db close error", "error", cerr)
	}

	return err
}
